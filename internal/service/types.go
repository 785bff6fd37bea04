package service

import "time"

// ClimateSettings narrows what commands a deployment accepts. Presets and
// Modes are subsets of the toon package catalogs, validated at config load.
type ClimateSettings struct {
	MinTempC float64
	MaxTempC float64
	Presets  []string
	Modes    []string
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "SETPOINT", "PRESET", "MODE_CHANGE", "ERROR"
}
