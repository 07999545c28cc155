package engine

import (
	"math"
	"time"

	"github.com/averdin/uav-deconfliction/geo"
)

// FindTemporalConflicts detects near-misses on raw, un-resampled waypoints.
// For every primary waypoint it considers every other-drone waypoint whose
// timestamp falls within the closed interval [t-window, t+window] and emits
// a conflict when the 3D separation is below the threshold.
//
// Unlike the spatial pass this operates on logged data only, with a
// caller-chosen window, so it catches near-simultaneous encounters
// independent of interpolation artifacts.
func FindTemporalConflicts(ds Dataset, primaryID int, timeWindowSec, minDistanceMeters float64) []Conflict {
	var primary, others []TrackPoint
	for _, p := range ds {
		if p.DroneID == primaryID {
			primary = append(primary, p)
		} else {
			others = append(others, p)
		}
	}
	if len(primary) == 0 || len(others) == 0 {
		return nil
	}

	window := time.Duration(timeWindowSec * float64(time.Second))

	var conflicts []Conflict

	for _, p := range primary {
		lo := p.Time.Add(-window)
		hi := p.Time.Add(window)

		for _, o := range others {
			if o.Time.Before(lo) || o.Time.After(hi) {
				continue
			}

			horiz := geo.SafeGeodesicMeters(p.Latitude, p.Longitude, o.Latitude, o.Longitude)
			dist3D := math.Hypot(horiz, p.Altitude-o.Altitude)

			if dist3D < minDistanceMeters {
				conflicts = append(conflicts, Conflict{
					Primary:        p.Waypoint(),
					Other:          o,
					DistanceMeters: dist3D,
				})
			}
		}
	}

	return conflicts
}
