package missions

import "github.com/averdin/uav-deconfliction/engine"

// Mission describes one archived waypoint dataset.
type Mission struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	SourceFile    string `json:"source_file"`
	ImportedAt    string `json:"imported_at"`
	WaypointCount int    `json:"waypoint_count"`
	DroneCount    int    `json:"drone_count"`
}

// EvaluationResult is the payload returned by the evaluate endpoint and
// broadcast on the websocket feed.
type EvaluationResult struct {
	MissionID int                  `json:"mission_id"`
	Mission   string               `json:"mission"`
	PrimaryID int                  `json:"primary_id"`
	Config    engine.QueryConfig   `json:"config"`
	Result    engine.MissionStatus `json:"result"`
}
