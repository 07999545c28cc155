package engine

import (
	"sort"
	"time"
)

// Waypoint is a single timestamped 3D position on a drone's path.
type Waypoint struct {
	Time      time.Time `json:"time"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Altitude  float64   `json:"altitude"`
}

// TrackPoint is one dataset row: a waypoint tagged with the drone it
// belongs to.
type TrackPoint struct {
	DroneID   int       `json:"drone_id"`
	Time      time.Time `json:"time"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Altitude  float64   `json:"altitude"`
}

// Waypoint strips the drone identity from a track point.
func (p TrackPoint) Waypoint() Waypoint {
	return Waypoint{
		Time:      p.Time,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Altitude:  p.Altitude,
	}
}

// Dataset is the full set of logged waypoints for a mission, covering all
// drones. The engine never mutates a dataset; callers may share one
// read-only dataset across concurrent queries.
type Dataset []TrackPoint

// DroneIDs returns the distinct drone identifiers in the dataset in
// ascending order.
func (ds Dataset) DroneIDs() []int {
	seen := make(map[int]bool)
	var ids []int
	for _, p := range ds {
		if !seen[p.DroneID] {
			seen[p.DroneID] = true
			ids = append(ids, p.DroneID)
		}
	}
	sort.Ints(ids)
	return ids
}

// Conflict records one near-miss between the primary drone and another
// drone's waypoint.
type Conflict struct {
	Primary        Waypoint   `json:"primary"`
	Other          TrackPoint `json:"other"`
	DistanceMeters float64    `json:"distance_meters"`
}

// QueryConfig carries the per-call detection thresholds. The engine holds no
// defaults of its own; callers construct one config per query.
type QueryConfig struct {
	MinDistanceMeters float64 `json:"min_distance_meters"`
	TimeWindowSec     float64 `json:"time_window_sec"`
	InterpStepSec     float64 `json:"interp_step_sec"`
}

// Mission evaluation verdicts.
const (
	StatusClear    = "clear"
	StatusConflict = "conflict detected"
)

// MissionStatus is the result of a full deconfliction query, in the fixed
// shape consumed by reporting and presentation layers.
type MissionStatus struct {
	Status            string     `json:"status"`
	SpatialConflicts  []Conflict `json:"spatial_conflicts"`
	TemporalConflicts []Conflict `json:"temporal_conflicts"`
}
