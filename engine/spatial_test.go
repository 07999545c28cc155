package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tp(id int, t time.Time, lat, lon, alt float64) TrackPoint {
	return TrackPoint{DroneID: id, Time: t, Latitude: lat, Longitude: lon, Altitude: alt}
}

func TestFindSpatialConflicts(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 5, 24, 10, 0, 0, 0, time.UTC)

	t.Run("no other waypoints means no conflicts", func(t *testing.T) {
		t.Parallel()
		primary := []Waypoint{wp(base, 30.25, -119.95, 100)}
		assert.Empty(t, FindSpatialConflicts(primary, nil, 10))
	})

	t.Run("coincident drones at the same instant conflict once", func(t *testing.T) {
		t.Parallel()
		primary := []Waypoint{wp(base, 30.25, -119.95, 100)}
		others := []TrackPoint{tp(2, base, 30.25, -119.95, 100)}

		conflicts := FindSpatialConflicts(primary, others, 10)
		require.Len(t, conflicts, 1)
		assert.Equal(t, 2, conflicts[0].Other.DroneID)
		assert.InDelta(t, 0, conflicts[0].DistanceMeters, 1e-6)
	})

	t.Run("drones a kilometre apart do not conflict", func(t *testing.T) {
		t.Parallel()
		primary := []Waypoint{wp(base, 30.25, -119.95, 100)}
		// ~1000 m north of the primary.
		others := []TrackPoint{tp(2, base, 30.259, -119.95, 100)}

		assert.Empty(t, FindSpatialConflicts(primary, others, 10))
	})

	t.Run("nearby drone within threshold conflicts", func(t *testing.T) {
		t.Parallel()
		primary := []Waypoint{wp(base, 30.25, -119.95, 100)}
		// ~14 m offset diagonal.
		others := []TrackPoint{tp(2, base, 30.2501, -119.9501, 100)}

		conflicts := FindSpatialConflicts(primary, others, 20)
		require.Len(t, conflicts, 1)
		assert.Equal(t, 2, conflicts[0].Other.DroneID)
		assert.Less(t, conflicts[0].DistanceMeters, 20.0)
	})

	t.Run("time gate rejects temporally unrelated candidates", func(t *testing.T) {
		t.Parallel()
		primary := []Waypoint{wp(base, 30.25, -119.95, 100)}
		others := []TrackPoint{tp(2, base.Add(5*time.Second), 30.25, -119.95, 100)}

		assert.Empty(t, FindSpatialConflicts(primary, others, 10))
	})

	t.Run("altitude difference is part of the 3D distance", func(t *testing.T) {
		t.Parallel()
		primary := []Waypoint{wp(base, 30.25, -119.95, 100)}
		others := []TrackPoint{tp(2, base, 30.25, -119.95, 150)}

		// 50 m vertical separation defeats a 10 m threshold even though the
		// horizontal projection coincides.
		assert.Empty(t, FindSpatialConflicts(primary, others, 10))

		conflicts := FindSpatialConflicts(primary, others, 60)
		require.Len(t, conflicts, 1)
		assert.InDelta(t, 50, conflicts[0].DistanceMeters, 0.5)
	})

	t.Run("count never decreases as the threshold grows", func(t *testing.T) {
		t.Parallel()
		primary := []Waypoint{
			wp(base, 30.25, -119.95, 100),
			wp(base.Add(time.Second), 30.2501, -119.9501, 105),
		}
		others := []TrackPoint{
			tp(2, base, 30.2500, -119.9500, 101),
			tp(2, base.Add(time.Second), 30.2502, -119.9502, 104),
			tp(3, base, 30.2503, -119.9497, 120),
		}

		prev := 0
		for _, threshold := range []float64{1, 5, 10, 50, 200, 1000} {
			n := len(FindSpatialConflicts(primary, others, threshold))
			assert.GreaterOrEqual(t, n, prev, "threshold %v", threshold)
			prev = n
		}
	})

	t.Run("conflicts follow primary iteration order", func(t *testing.T) {
		t.Parallel()
		primary := []Waypoint{
			wp(base, 30.25, -119.95, 100),
			wp(base.Add(time.Second), 30.26, -119.96, 100),
		}
		others := []TrackPoint{
			tp(2, base.Add(time.Second), 30.26, -119.96, 100),
			tp(3, base, 30.25, -119.95, 100),
		}

		conflicts := FindSpatialConflicts(primary, others, 10)
		require.Len(t, conflicts, 2)
		assert.Equal(t, 3, conflicts[0].Other.DroneID)
		assert.Equal(t, 2, conflicts[1].Other.DroneID)
	})
}
