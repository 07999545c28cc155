package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// simpleDataset mirrors the small three-drone fixture used throughout the
// project: the primary, one close shadow and one distant drone.
func simpleDataset() Dataset {
	base := time.Date(2025, 5, 24, 10, 0, 0, 0, time.UTC)
	return Dataset{
		tp(1, base, 30.25, -119.95, 100),
		tp(1, base.Add(30*time.Second), 30.251, -119.951, 120),

		tp(2, base, 30.2501, -119.9501, 100),
		tp(2, base.Add(30*time.Second), 30.2511, -119.9511, 120),

		tp(3, base, 30.4, -120.2, 200),
	}
}

func defaultConfig() QueryConfig {
	return QueryConfig{MinDistanceMeters: 10, TimeWindowSec: 1, InterpStepSec: 0.5}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 5, 24, 10, 0, 0, 0, time.UTC)

	t.Run("missing primary yields empty results", func(t *testing.T) {
		t.Parallel()
		spatial, temporal := Evaluate(simpleDataset(), 999, defaultConfig())
		assert.Empty(t, spatial)
		assert.Empty(t, temporal)
	})

	t.Run("primary alone yields empty results", func(t *testing.T) {
		t.Parallel()
		ds := Dataset{
			tp(1, base, 30.25, -119.95, 100),
			tp(1, base.Add(30*time.Second), 30.251, -119.951, 120),
		}
		for _, cfg := range []QueryConfig{
			defaultConfig(),
			{MinDistanceMeters: 1e6, TimeWindowSec: 3600, InterpStepSec: 0.1},
		} {
			spatial, temporal := Evaluate(ds, 1, cfg)
			assert.Empty(t, spatial)
			assert.Empty(t, temporal)
		}
	})

	t.Run("shadowing drone triggers both passes", func(t *testing.T) {
		t.Parallel()
		cfg := QueryConfig{MinDistanceMeters: 25, TimeWindowSec: 1, InterpStepSec: 0.5}
		spatial, temporal := Evaluate(simpleDataset(), 1, cfg)

		assert.NotEmpty(t, spatial)
		assert.NotEmpty(t, temporal)
		for _, c := range spatial {
			assert.Equal(t, 2, c.Other.DroneID)
			assert.Less(t, c.DistanceMeters, 25.0)
		}
		for _, c := range temporal {
			assert.Equal(t, 2, c.Other.DroneID)
		}
	})

	t.Run("unsorted input is sorted per drone before resampling", func(t *testing.T) {
		t.Parallel()
		base := time.Date(2025, 5, 24, 10, 0, 0, 0, time.UTC)
		ds := Dataset{
			tp(1, base.Add(30*time.Second), 30.251, -119.951, 120),
			tp(2, base, 30.2501, -119.9501, 100),
			tp(1, base, 30.25, -119.95, 100),
			tp(2, base.Add(30*time.Second), 30.2511, -119.9511, 120),
		}
		cfg := QueryConfig{MinDistanceMeters: 25, TimeWindowSec: 1, InterpStepSec: 0.5}
		spatial, _ := Evaluate(ds, 1, cfg)
		assert.NotEmpty(t, spatial)
	})

	t.Run("raw passthrough when interpolation is disabled", func(t *testing.T) {
		t.Parallel()
		cfg := QueryConfig{MinDistanceMeters: 25, TimeWindowSec: 1, InterpStepSec: 0}
		spatial, temporal := Evaluate(simpleDataset(), 1, cfg)
		// With only the logged waypoints the shadow drone is still close
		// enough at the shared timestamps.
		assert.NotEmpty(t, spatial)
		assert.NotEmpty(t, temporal)
	})
}

func TestQueryMissionStatus(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 5, 24, 10, 0, 0, 0, time.UTC)

	t.Run("clear mission", func(t *testing.T) {
		t.Parallel()
		ds := Dataset{
			tp(1, base, 30.25, -119.95, 100),
			tp(3, base, 30.4, -120.2, 200),
		}
		status := QueryMissionStatus(ds, 1, defaultConfig())
		assert.Equal(t, StatusClear, status.Status)
		assert.NotNil(t, status.SpatialConflicts)
		assert.NotNil(t, status.TemporalConflicts)
		assert.Empty(t, status.SpatialConflicts)
		assert.Empty(t, status.TemporalConflicts)
	})

	t.Run("conflict detected", func(t *testing.T) {
		t.Parallel()
		ds := Dataset{
			tp(1, base, 30.25, -119.95, 100),
			tp(2, base, 30.25, -119.95, 100),
		}
		status := QueryMissionStatus(ds, 1, defaultConfig())
		require.Equal(t, StatusConflict, status.Status)
		assert.Len(t, status.SpatialConflicts, 1)
		assert.Len(t, status.TemporalConflicts, 1)
		assert.InDelta(t, 0, status.SpatialConflicts[0].DistanceMeters, 1e-6)
		assert.InDelta(t, 0, status.TemporalConflicts[0].DistanceMeters, 1e-6)
	})
}

func TestDatasetDroneIDs(t *testing.T) {
	t.Parallel()
	ds := simpleDataset()
	assert.Equal(t, []int{1, 2, 3}, ds.DroneIDs())
}
