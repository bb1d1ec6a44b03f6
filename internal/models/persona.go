package models

import (
	"encoding/json"
	"time"
)

// PersonaAssignment is one row of the append-only persona assignment log.
// Records are only ever inserted; a new classification for the same
// (user, window) pair appends another row.
type PersonaAssignment struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Window      string          `json:"window"` // e.g. "30d", "180d"
	PersonaType string          `json:"persona_type"`
	Confidence  float64         `json:"confidence"`
	Signals     json.RawMessage `json:"signals"` // snapshot of the signals used
	AssignedAt  time.Time       `json:"assigned_at"`
}
