// Package report renders deconfliction results for human consumption: an
// Excel conflict report and a standalone HTML chart of the mission
// trajectories.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/averdin/uav-deconfliction/engine"
)

var conflictHeader = []string{
	"Primary Time", "Primary Latitude", "Primary Longitude", "Primary Altitude",
	"Other DroneID", "Other Time", "Other Latitude", "Other Longitude", "Other Altitude",
	"Distance (m)",
}

const timeFormat = "2006-01-02 15:04:05.000"

// BuildWorkbook assembles an in-memory conflict report with a summary sheet
// and one sheet per finder. The caller owns the returned file and must
// close it.
func BuildWorkbook(missionName string, primaryID int, cfg engine.QueryConfig, status engine.MissionStatus) (*excelize.File, error) {
	f := excelize.NewFile()

	summary := f.GetSheetName(0)
	if err := f.SetSheetName(summary, "Summary"); err != nil {
		f.Close()
		return nil, err
	}

	summaryRows := [][]interface{}{
		{"Mission", missionName},
		{"Primary Drone", primaryID},
		{"Status", status.Status},
		{"Min Distance (m)", cfg.MinDistanceMeters},
		{"Time Window (s)", cfg.TimeWindowSec},
		{"Interpolation Step (s)", cfg.InterpStepSec},
		{"Spatial Conflicts", len(status.SpatialConflicts)},
		{"Temporal Conflicts", len(status.TemporalConflicts)},
	}
	if err := writeRows(f, "Summary", summaryRows); err != nil {
		f.Close()
		return nil, err
	}

	for _, sheet := range []struct {
		name      string
		conflicts []engine.Conflict
	}{
		{"Spatial Conflicts", status.SpatialConflicts},
		{"Temporal Conflicts", status.TemporalConflicts},
	} {
		if _, err := f.NewSheet(sheet.name); err != nil {
			f.Close()
			return nil, err
		}
		if err := writeConflictSheet(f, sheet.name, sheet.conflicts); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

// WriteWorkbook builds the report and saves it to disk.
func WriteWorkbook(path, missionName string, primaryID int, cfg engine.QueryConfig, status engine.MissionStatus) error {
	f, err := BuildWorkbook(missionName, primaryID, cfg, status)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

func writeConflictSheet(f *excelize.File, sheet string, conflicts []engine.Conflict) error {
	rows := make([][]interface{}, 0, len(conflicts)+1)

	header := make([]interface{}, len(conflictHeader))
	for i, h := range conflictHeader {
		header[i] = h
	}
	rows = append(rows, header)

	for _, c := range conflicts {
		rows = append(rows, []interface{}{
			c.Primary.Time.Format(timeFormat),
			c.Primary.Latitude,
			c.Primary.Longitude,
			c.Primary.Altitude,
			c.Other.DroneID,
			c.Other.Time.Format(timeFormat),
			c.Other.Latitude,
			c.Other.Longitude,
			c.Other.Altitude,
			c.DistanceMeters,
		})
	}

	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
