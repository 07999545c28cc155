package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/averdin/uav-deconfliction/engine"
)

// RenderChart writes a standalone HTML scatter chart of the mission: all
// other-drone waypoints, the primary trajectory highlighted, and any
// conflict points overlaid.
func RenderChart(w io.Writer, missionName string, ds engine.Dataset, primaryID int, status engine.MissionStatus) error {
	var primaryData, otherData []opts.ScatterData
	for _, p := range ds {
		point := opts.ScatterData{Value: []interface{}{p.Longitude, p.Latitude}}
		if p.DroneID == primaryID {
			primaryData = append(primaryData, point)
		} else {
			otherData = append(otherData, point)
		}
	}

	var conflictData []opts.ScatterData
	for _, c := range status.SpatialConflicts {
		conflictData = append(conflictData, opts.ScatterData{
			Value: []interface{}{c.Primary.Longitude, c.Primary.Latitude},
		})
	}
	for _, c := range status.TemporalConflicts {
		conflictData = append(conflictData, opts.ScatterData{
			Value: []interface{}{c.Primary.Longitude, c.Primary.Latitude},
		})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "UAV Deconfliction",
			Width:     "1000px",
			Height:    "800px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("Mission %s", missionName),
			Subtitle: fmt.Sprintf("primary=%d status=%s spatial=%d temporal=%d",
				primaryID, status.Status, len(status.SpatialConflicts), len(status.TemporalConflicts)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Longitude", Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Latitude", Scale: opts.Bool(true)}),
	)

	scatter.AddSeries("other drones", otherData,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))
	scatter.AddSeries("primary", primaryData,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))
	if len(conflictData) > 0 {
		scatter.AddSeries("conflicts", conflictData,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 12}))
	}

	return scatter.Render(w)
}
