// Package ingestion loads UAV waypoint datasets from Excel workbooks and
// normalizes them into the engine's dataset shape. Rows that fail type
// coercion are dropped; structurally broken files (missing columns, no
// sheet) are hard errors raised before any evaluation runs.
package ingestion

import (
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/averdin/uav-deconfliction/engine"
)

// LoadOptions controls how a workbook is interpreted.
type LoadOptions struct {
	// TimeColumn names the timestamp column. Empty means "Time".
	TimeColumn string
}

// Layouts tried when a timestamp cell arrives as text.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02 15:04",
	"01-02-06 15:04",
	"1/2/06 15:04",
	"2006-01-02",
}

// LoadWaypoints reads a waypoint workbook from disk.
func LoadWaypoints(path string, opts LoadOptions) (engine.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	return parseWorkbook(f, path, opts)
}

// LoadWaypointsFrom reads a waypoint workbook from a stream, e.g. an HTTP
// upload.
func LoadWaypointsFrom(r io.Reader, name string, opts LoadOptions) (engine.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook %s: %w", name, err)
	}
	defer f.Close()

	return parseWorkbook(f, name, opts)
}

func parseWorkbook(f *excelize.File, name string, opts LoadOptions) (engine.Dataset, error) {
	timeCol := opts.TimeColumn
	if timeCol == "" {
		timeCol = "Time"
	}

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook %s has no sheets", name)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("workbook %s has no data rows", name)
	}

	// Header row: trimmed column names mapped to their index.
	cols := make(map[string]int)
	for i, h := range rows[0] {
		cols[strings.TrimSpace(h)] = i
	}

	required := []string{"DroneID", timeCol, "Latitude", "Longitude", "Altitude"}
	var missing []string
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns in %s: %s", name, strings.Join(missing, ", "))
	}

	var ds engine.Dataset
	dropped := 0

	for _, row := range rows[1:] {
		point, ok := parseRow(row, cols, timeCol)
		if !ok {
			dropped++
			continue
		}
		ds = append(ds, point)
	}

	if dropped > 0 {
		log.Printf("LoadWaypoints: dropped %d malformed row(s) from %s", dropped, name)
	}

	// Stable sort by (DroneID, Time); duplicate rows are preserved.
	sort.SliceStable(ds, func(i, j int) bool {
		if ds[i].DroneID != ds[j].DroneID {
			return ds[i].DroneID < ds[j].DroneID
		}
		return ds[i].Time.Before(ds[j].Time)
	})

	return ds, nil
}

func parseRow(row []string, cols map[string]int, timeCol string) (engine.TrackPoint, bool) {
	cell := func(name string) (string, bool) {
		i := cols[name]
		if i >= len(row) {
			return "", false
		}
		v := strings.TrimSpace(row[i])
		return v, v != ""
	}

	idStr, ok := cell("DroneID")
	if !ok {
		return engine.TrackPoint{}, false
	}
	id, err := parseDroneID(idStr)
	if err != nil {
		return engine.TrackPoint{}, false
	}

	timeStr, ok := cell(timeCol)
	if !ok {
		return engine.TrackPoint{}, false
	}
	ts, err := parseTime(timeStr)
	if err != nil {
		return engine.TrackPoint{}, false
	}

	var coords [3]float64
	for i, name := range []string{"Latitude", "Longitude", "Altitude"} {
		v, ok := cell(name)
		if !ok {
			return engine.TrackPoint{}, false
		}
		coords[i], err = strconv.ParseFloat(v, 64)
		if err != nil {
			return engine.TrackPoint{}, false
		}
	}

	return engine.TrackPoint{
		DroneID:   id,
		Time:      ts,
		Latitude:  coords[0],
		Longitude: coords[1],
		Altitude:  coords[2],
	}, true
}

// parseDroneID accepts plain integers and the "1001.0" form Excel produces
// for numeric cells.
func parseDroneID(s string) (int, error) {
	if id, err := strconv.Atoi(s); err == nil {
		return id, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v != float64(int(v)) {
		return 0, fmt.Errorf("drone id %q is not an integer", s)
	}
	return int(v), nil
}

// parseTime handles both formatted timestamp text and raw Excel serial
// dates.
func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if ts, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
