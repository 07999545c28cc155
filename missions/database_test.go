package missions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averdin/uav-deconfliction/engine"
)

func testDataset() engine.Dataset {
	base := time.Date(2025, 5, 24, 10, 0, 0, 0, time.UTC)
	return engine.Dataset{
		{DroneID: 1, Time: base, Latitude: 30.25, Longitude: -119.95, Altitude: 100},
		{DroneID: 1, Time: base.Add(30 * time.Second), Latitude: 30.251, Longitude: -119.951, Altitude: 120},
		{DroneID: 2, Time: base, Latitude: 30.2501, Longitude: -119.9501, Altitude: 100},
	}
}

// The archive uses package-level state, so these tests run sequentially
// against a fresh in-memory database each.
func openTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, InitDatabase(":memory:"))
	t.Cleanup(func() { CloseDatabase() })
}

func TestSaveAndLoadMission(t *testing.T) {
	openTestDB(t)

	ds := testDataset()
	id, err := SaveMission("test mission", "mission.xlsx", ds)
	require.NoError(t, err)
	require.Positive(t, id)

	mission, err := GetMission(id)
	require.NoError(t, err)
	assert.Equal(t, "test mission", mission.Name)
	assert.Equal(t, "mission.xlsx", mission.SourceFile)
	assert.Equal(t, 3, mission.WaypointCount)
	assert.Equal(t, 2, mission.DroneCount)

	loaded, err := LoadDataset(id)
	require.NoError(t, err)
	assert.Equal(t, ds, loaded)
}

func TestListMissions(t *testing.T) {
	openTestDB(t)

	first, err := SaveMission("first", "a.xlsx", testDataset())
	require.NoError(t, err)
	second, err := SaveMission("second", "b.xlsx", testDataset())
	require.NoError(t, err)

	missions, err := ListMissions()
	require.NoError(t, err)
	require.Len(t, missions, 2)

	// Newest first.
	assert.Equal(t, second, missions[0].ID)
	assert.Equal(t, first, missions[1].ID)
}

func TestDeleteMission(t *testing.T) {
	openTestDB(t)

	id, err := SaveMission("doomed", "c.xlsx", testDataset())
	require.NoError(t, err)

	require.NoError(t, DeleteMission(id))

	_, err = GetMission(id)
	assert.Error(t, err)

	ds, err := LoadDataset(id)
	require.NoError(t, err)
	assert.Empty(t, ds)
}

func TestGetMissionNotFound(t *testing.T) {
	openTestDB(t)
	_, err := GetMission(12345)
	assert.ErrorContains(t, err, "not found")
}

func TestDatabaseNotInitialized(t *testing.T) {
	require.NoError(t, CloseDatabase())

	_, err := SaveMission("x", "x.xlsx", testDataset())
	assert.Error(t, err)
	_, err = ListMissions()
	assert.Error(t, err)
	_, err = LoadDataset(1)
	assert.Error(t, err)
}
