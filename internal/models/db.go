package models

import (
	"time"
)

type RunStatus string

const (
	RunCompleted RunStatus = "COMPLETED"
	RunEmpty     RunStatus = "EMPTY"
)

// Run describes one harvesting pass as it is persisted.
type Run struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"` // manual, monday, daily
	Status       RunStatus `json:"status"`
	RawCount     int       `json:"raw_count"`
	RecordCount  int       `json:"record_count"`
	FailedBoards []string  `json:"failed_boards,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
}
