package missions

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/averdin/uav-deconfliction/engine"
)

var db *sql.DB

const schema = `
	CREATE TABLE IF NOT EXISTS mission (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		source_file TEXT NOT NULL,
		imported_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		waypoint_count INTEGER NOT NULL,
		drone_count INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS waypoint (
		mission_id INTEGER NOT NULL,
		drone_id INTEGER NOT NULL,
		time_unix_ns INTEGER NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		altitude REAL NOT NULL,
		FOREIGN KEY(mission_id) REFERENCES mission(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS waypoint_mission_idx ON waypoint (mission_id, drone_id, time_unix_ns);
`

// InitDatabase opens (creating if needed) the mission archive at the given
// path. An empty path uses data/missions.db.
func InitDatabase(path string) error {
	if path == "" {
		path = filepath.Join("data", "missions.db")
	}
	if dir := filepath.Dir(path); dir != "." && path != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	var err error
	db, err = sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to open mission database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping mission database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create mission schema: %w", err)
	}

	log.Println("Mission database initialized")
	return nil
}

// CloseDatabase closes the mission archive.
func CloseDatabase() error {
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

// SaveMission archives a dataset and returns the new mission id.
func SaveMission(name, sourceFile string, ds engine.Dataset) (int, error) {
	if db == nil {
		return 0, fmt.Errorf("mission database not initialized")
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO mission (name, source_file, waypoint_count, drone_count) VALUES (?, ?, ?, ?)",
		name, sourceFile, len(ds), len(ds.DroneIDs()),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert mission: %w", err)
	}
	missionID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read mission id: %w", err)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO waypoint (mission_id, drone_id, time_unix_ns, latitude, longitude, altitude) VALUES (?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare waypoint insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range ds {
		if _, err := stmt.Exec(missionID, p.DroneID, p.Time.UnixNano(), p.Latitude, p.Longitude, p.Altitude); err != nil {
			return 0, fmt.Errorf("failed to insert waypoint: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit mission: %w", err)
	}

	return int(missionID), nil
}

// ListMissions returns all archived missions, newest first.
func ListMissions() ([]Mission, error) {
	if db == nil {
		return nil, fmt.Errorf("mission database not initialized")
	}

	rows, err := db.Query(
		"SELECT id, name, source_file, imported_at, waypoint_count, drone_count FROM mission ORDER BY id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query missions: %w", err)
	}
	defer rows.Close()

	var missions []Mission
	for rows.Next() {
		var m Mission
		if err := rows.Scan(&m.ID, &m.Name, &m.SourceFile, &m.ImportedAt, &m.WaypointCount, &m.DroneCount); err != nil {
			return nil, fmt.Errorf("failed to scan mission: %w", err)
		}
		missions = append(missions, m)
	}
	return missions, rows.Err()
}

// GetMission returns one archived mission record.
func GetMission(id int) (Mission, error) {
	var m Mission
	if db == nil {
		return m, fmt.Errorf("mission database not initialized")
	}

	err := db.QueryRow(
		"SELECT id, name, source_file, imported_at, waypoint_count, drone_count FROM mission WHERE id = ?", id,
	).Scan(&m.ID, &m.Name, &m.SourceFile, &m.ImportedAt, &m.WaypointCount, &m.DroneCount)
	if err == sql.ErrNoRows {
		return m, fmt.Errorf("mission %d not found", id)
	}
	if err != nil {
		return m, fmt.Errorf("failed to load mission %d: %w", id, err)
	}
	return m, nil
}

// LoadDataset reconstructs the waypoint dataset of an archived mission,
// sorted by (drone, time) as the loader produced it.
func LoadDataset(id int) (engine.Dataset, error) {
	if db == nil {
		return nil, fmt.Errorf("mission database not initialized")
	}

	rows, err := db.Query(
		"SELECT drone_id, time_unix_ns, latitude, longitude, altitude FROM waypoint WHERE mission_id = ? ORDER BY drone_id, time_unix_ns", id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query waypoints: %w", err)
	}
	defer rows.Close()

	var ds engine.Dataset
	for rows.Next() {
		var droneID int
		var ns int64
		var lat, lon, alt float64
		if err := rows.Scan(&droneID, &ns, &lat, &lon, &alt); err != nil {
			return nil, fmt.Errorf("failed to scan waypoint: %w", err)
		}
		ds = append(ds, engine.TrackPoint{
			DroneID:   droneID,
			Time:      time.Unix(0, ns).UTC(),
			Latitude:  lat,
			Longitude: lon,
			Altitude:  alt,
		})
	}
	return ds, rows.Err()
}

// DeleteMission removes a mission and its waypoints.
func DeleteMission(id int) error {
	if db == nil {
		return fmt.Errorf("mission database not initialized")
	}

	if _, err := db.Exec("DELETE FROM waypoint WHERE mission_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete waypoints: %w", err)
	}
	if _, err := db.Exec("DELETE FROM mission WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete mission: %w", err)
	}
	return nil
}
