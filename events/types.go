package events

import "time"

type Event struct {
	Type      string    `json:"type"`      // "mission_imported", "mission_deleted", "evaluation_run", "report_exported"
	Mission   string    `json:"mission"`   // mission name or source file
	Detail    string    `json:"detail"`    // free-form context, e.g. the evaluation verdict
	Timestamp time.Time `json:"timestamp"` // when the event occurred
}
