// Package engine implements conflict detection for a primary drone's
// planned mission against all other drones in a waypoint dataset. It
// combines trajectory resampling, a k-d tree backed spatial proximity pass
// and a time-window based temporal pass into a single verdict.
//
// All state is local to one call: the spatial index, resampled trajectories
// and candidate sets are rebuilt per query and discarded, so concurrent
// callers may share a read-only dataset safely.
package engine

import "sort"

// Evaluate runs both conflict passes for the given primary drone.
//
// The dataset is partitioned by drone and each partition is sorted by time.
// All partitions are resampled at cfg.InterpStepSec (a step of zero or less
// passes raw waypoints through) before the spatial pass; the temporal pass
// always runs over the raw dataset. A primary with no waypoints yields empty
// results, not an error. The two result lists are independent; one physical
// encounter may legitimately appear in both.
func Evaluate(ds Dataset, primaryID int, cfg QueryConfig) (spatial, temporal []Conflict) {
	partitions := make(map[int][]Waypoint)
	for _, p := range ds {
		partitions[p.DroneID] = append(partitions[p.DroneID], p.Waypoint())
	}
	for id := range partitions {
		traj := partitions[id]
		sort.SliceStable(traj, func(i, j int) bool {
			return traj[i].Time.Before(traj[j].Time)
		})
	}

	primaryTraj, ok := partitions[primaryID]
	if !ok {
		return nil, nil
	}
	primaryResampled := Resample(primaryTraj, cfg.InterpStepSec)

	var otherIDs []int
	for id := range partitions {
		if id != primaryID {
			otherIDs = append(otherIDs, id)
		}
	}
	sort.Ints(otherIDs)

	var others []TrackPoint
	for _, id := range otherIDs {
		for _, w := range Resample(partitions[id], cfg.InterpStepSec) {
			others = append(others, TrackPoint{
				DroneID:   id,
				Time:      w.Time,
				Latitude:  w.Latitude,
				Longitude: w.Longitude,
				Altitude:  w.Altitude,
			})
		}
	}

	spatial = FindSpatialConflicts(primaryResampled, others, cfg.MinDistanceMeters)
	temporal = FindTemporalConflicts(ds, primaryID, cfg.TimeWindowSec, cfg.MinDistanceMeters)
	return spatial, temporal
}

// QueryMissionStatus wraps Evaluate into the fixed result shape consumed by
// reporting, plotting and service layers.
func QueryMissionStatus(ds Dataset, primaryID int, cfg QueryConfig) MissionStatus {
	spatial, temporal := Evaluate(ds, primaryID, cfg)

	status := StatusClear
	if len(spatial) > 0 || len(temporal) > 0 {
		status = StatusConflict
	}

	if spatial == nil {
		spatial = []Conflict{}
	}
	if temporal == nil {
		temporal = []Conflict{}
	}

	return MissionStatus{
		Status:            status,
		SpatialConflicts:  spatial,
		TemporalConflicts: temporal,
	}
}
