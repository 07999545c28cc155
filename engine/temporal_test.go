package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindTemporalConflicts(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 5, 24, 10, 0, 0, 0, time.UTC)

	t.Run("empty when primary has no rows", func(t *testing.T) {
		t.Parallel()
		ds := Dataset{tp(2, base, 30.25, -119.95, 100)}
		assert.Empty(t, FindTemporalConflicts(ds, 1, 1, 10))
	})

	t.Run("empty when no other drones exist", func(t *testing.T) {
		t.Parallel()
		ds := Dataset{tp(1, base, 30.25, -119.95, 100)}
		assert.Empty(t, FindTemporalConflicts(ds, 1, 1, 10))
	})

	t.Run("coincident drones at the same instant conflict once", func(t *testing.T) {
		t.Parallel()
		ds := Dataset{
			tp(1, base, 30.25, -119.95, 100),
			tp(2, base, 30.25, -119.95, 100),
		}
		conflicts := FindTemporalConflicts(ds, 1, 1, 10)
		require.Len(t, conflicts, 1)
		assert.InDelta(t, 0, conflicts[0].DistanceMeters, 1e-6)
	})

	t.Run("window boundaries are inclusive", func(t *testing.T) {
		t.Parallel()
		ds := Dataset{
			tp(1, base, 30.25, -119.95, 100),
			tp(2, base.Add(time.Second), 30.25, -119.95, 100),
		}
		conflicts := FindTemporalConflicts(ds, 1, 1, 10)
		assert.Len(t, conflicts, 1)
	})

	t.Run("same place ten seconds apart depends on the window", func(t *testing.T) {
		t.Parallel()
		ds := Dataset{
			tp(1, base, 30.25, -119.95, 100),
			tp(2, base.Add(10*time.Second), 30.25, -119.95, 100),
		}

		assert.Empty(t, FindTemporalConflicts(ds, 1, 1, 10))

		conflicts := FindTemporalConflicts(ds, 1, 15, 10)
		require.Len(t, conflicts, 1)
		assert.Equal(t, 2, conflicts[0].Other.DroneID)
	})

	t.Run("distant drones inside the window do not conflict", func(t *testing.T) {
		t.Parallel()
		ds := Dataset{
			tp(1, base, 30.25, -119.95, 100),
			tp(2, base, 30.259, -119.95, 100), // ~1000 m away
		}
		assert.Empty(t, FindTemporalConflicts(ds, 1, 1, 10))
	})

	t.Run("count never decreases as the threshold grows", func(t *testing.T) {
		t.Parallel()
		ds := Dataset{
			tp(1, base, 30.25, -119.95, 100),
			tp(2, base, 30.2501, -119.9501, 100),
			tp(3, base, 30.2520, -119.9520, 130),
		}
		prev := 0
		for _, threshold := range []float64{1, 20, 100, 1000} {
			n := len(FindTemporalConflicts(ds, 1, 1, threshold))
			assert.GreaterOrEqual(t, n, prev, "threshold %v", threshold)
			prev = n
		}
	})
}
