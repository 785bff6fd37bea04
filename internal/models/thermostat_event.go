package models

import "time"

// ThermostatEvent is a single log entry.
type ThermostatEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // SETPOINT | PRESET | MODE_CHANGE | ERROR
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
