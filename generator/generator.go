// Package generator produces synthetic multi-drone waypoint missions for
// simulation and conflict testing. Drones are split into four groups:
// spatial-conflict drones whose corridors pinch toward the primary's,
// temporal-conflict drones that fly on the primary's exact timeline,
// altitude-conflict drones pinned to the primary's cruise band, and safe
// drones scheduled entirely after the mission window.
package generator

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/averdin/uav-deconfliction/engine"
)

// Config controls dataset generation. The zero value is not useful; start
// from DefaultConfig.
type Config struct {
	NumDrones         int
	WaypointsPerDrone int
	Start             time.Time
	End               time.Time
	PrimaryID         int
	StartLat          float64
	StartLon          float64
	Seed              int64
}

// DefaultConfig mirrors the reference mission: 100 drones, 25 waypoints
// each, a 45 minute scheduling window and a fixed seed for reproducibility.
func DefaultConfig() Config {
	return Config{
		NumDrones:         100,
		WaypointsPerDrone: 25,
		Start:             time.Date(2025, 5, 24, 10, 0, 0, 0, time.UTC),
		End:               time.Date(2025, 5, 24, 10, 45, 0, 0, time.UTC),
		PrimaryID:         1,
		StartLat:          30.25,
		StartLon:          -119.95,
		Seed:              42,
	}
}

// Groups records which drones were assigned to each conflict group.
type Groups struct {
	Spatial  []int
	Temporal []int
	Altitude []int
	Safe     []int
}

// Safe drones launch this long after the mission window closes.
const safeBufferMinutes = 5

// Generate builds a deterministic synthetic dataset for the given config.
func Generate(cfg Config) (engine.Dataset, Groups) {
	rng := rand.New(rand.NewSource(cfg.Seed))

	ids := make([]int, cfg.NumDrones)
	for i := range ids {
		ids[i] = i + 1
	}
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	chunk := cfg.NumDrones / 4
	groups := Groups{
		Spatial:  append([]int(nil), ids[:chunk]...),
		Temporal: append([]int(nil), ids[chunk:2*chunk]...),
		Altitude: append([]int(nil), ids[2*chunk:3*chunk]...),
		Safe:     append([]int(nil), ids[3*chunk:]...),
	}
	// The primary always flies the baseline mission; keep it out of the
	// conflict groups.
	groups.Spatial = remove(groups.Spatial, cfg.PrimaryID)
	groups.Temporal = remove(groups.Temporal, cfg.PrimaryID)
	groups.Altitude = remove(groups.Altitude, cfg.PrimaryID)
	if !contains(groups.Safe, cfg.PrimaryID) {
		groups.Safe = append(groups.Safe, cfg.PrimaryID)
	}
	sort.Ints(groups.Spatial)
	sort.Ints(groups.Temporal)
	sort.Ints(groups.Altitude)
	sort.Ints(groups.Safe)

	takeoffs := assignTakeoffTimes(rng, cfg, ids)

	safeOffsets := make(map[int]int)
	for i, id := range groups.Safe {
		// Stagger safe drones so they do not overlap each other either.
		safeOffsets[id] = i * 30
	}

	var ds engine.Dataset

	for _, id := range ids {
		n := cfg.WaypointsPerDrone

		endLat := cfg.StartLat + 0.03 + rng.Float64()*0.12
		endLon := cfg.StartLon + 0.03 + rng.Float64()*0.12
		if contains(groups.Spatial, id) {
			endLat = cfg.StartLat + 0.04 + (rng.Float64()-0.5)*0.0006
			endLon = cfg.StartLon + 0.04 + (rng.Float64()-0.5)*0.0006
		}

		lats, lons := curvedPath(rng, cfg, n, endLat, endLon)
		alts := altitudeProfile(rng, n)
		if contains(groups.Altitude, id) {
			// Hold the primary's cruise band for the whole flight.
			for i := range alts {
				alts[i] = 120.0 + (rng.Float64()-0.5)*3.0
			}
		}

		for i := 0; i < n; i++ {
			var ts time.Time
			switch {
			case id == cfg.PrimaryID, contains(groups.Temporal, id):
				// The primary's baseline timeline; temporal-conflict
				// drones clone it.
				ts = cfg.Start.Add(time.Duration(i*30) * time.Second)
			case contains(groups.Safe, id):
				safeStart := cfg.End.Add(safeBufferMinutes * time.Minute)
				ts = safeStart.Add(time.Duration(safeOffsets[id]+i*45) * time.Second)
			default:
				jitter := rng.Intn(21) - 8
				ts = takeoffs[id].Add(time.Duration(i*30+jitter) * time.Second)
			}

			ds = append(ds, engine.TrackPoint{
				DroneID:   id,
				Time:      ts,
				Latitude:  lats[i],
				Longitude: lons[i],
				Altitude:  alts[i],
			})
		}
	}

	return ds, groups
}

// assignTakeoffTimes spreads distinct takeoff offsets across the scheduling
// window, at least 20 seconds apart.
func assignTakeoffTimes(rng *rand.Rand, cfg Config, ids []int) map[int]time.Time {
	total := int(cfg.End.Sub(cfg.Start).Seconds())
	slots := total / 20
	if slots < len(ids) {
		slots = len(ids)
	}

	perm := rng.Perm(slots)[:len(ids)]
	sort.Ints(perm)

	takeoffs := make(map[int]time.Time, len(ids))
	for i, id := range ids {
		takeoffs[id] = cfg.Start.Add(time.Duration(perm[i]*20) * time.Second)
	}
	return takeoffs
}

// curvedPath produces a quadratic Bezier-like lat/lon path with noise.
func curvedPath(rng *rand.Rand, cfg Config, n int, endLat, endLon float64) (lats, lons []float64) {
	midLat := cfg.StartLat + (rng.Float64()-0.5)*0.02
	midLon := cfg.StartLon + (rng.Float64()-0.5)*0.02

	lats = make([]float64, n)
	lons = make([]float64, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		lats[i] = cfg.StartLat*(1-t)*(1-t) + 2*midLat*t*(1-t) + endLat*t*t +
			0.0008*rng.NormFloat64()
		lons[i] = cfg.StartLon*(1-t)*(1-t) + 2*midLon*t*(1-t) + endLon*t*t +
			0.0008*rng.NormFloat64()
	}
	return lats, lons
}

// altitudeProfile generates a takeoff, cruise, landing altitude curve with
// small noise.
func altitudeProfile(rng *rand.Rand, n int) []float64 {
	alts := make([]float64, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		switch {
		case t <= 0.2:
			alts[i] = 120.0 * (t / 0.2)
		case t < 0.8:
			alts[i] = 120.0 + 5.0*math.Sin(t*6*math.Pi)
		default:
			alts[i] = 120.0 - 110.0*((t-0.8)/0.2)
		}
		alts[i] += rng.NormFloat64() * 0.6
	}
	return alts
}

// WriteXLSX writes the dataset as a workbook in the shape the ingestion
// loader expects.
func WriteXLSX(path string, ds engine.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := []string{"DroneID", "Time", "Latitude", "Longitude", "Altitude"}
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for i, p := range ds {
		values := []interface{}{
			p.DroneID,
			p.Time.Format("2006-01-02 15:04:05"),
			p.Latitude,
			p.Longitude,
			p.Altitude,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func remove(s []int, v int) []int {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
