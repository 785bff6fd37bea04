package models

import "time"

// ThermostatState is the decoded snapshot of the thermostat. It is replaced
// wholesale on every successful poll; failed polls leave it untouched except
// for the Online flag.
type ThermostatState struct {
	ID              int       `json:"id"`
	Mode            string    `json:"mode"`   // HEAT | AUTO | OFF
	Action          string    `json:"action"` // HEATING | IDLE
	Preset          string    `json:"preset,omitempty"`
	CurrentTempC    float64   `json:"current_temp_c"`
	TargetTempC     float64   `json:"target_temp_c"`
	ActiveState     int       `json:"active_state"`
	ProgramState    int       `json:"program_state"`
	BurnerInfo      int       `json:"burner_info"`
	ModulationLevel int       `json:"modulation_level"`
	BoilerSetpoint  int       `json:"boiler_setpoint"`
	OTCommError     int       `json:"ot_comm_error"`
	Online          bool      `json:"online"`
	UpdatedAt       time.Time `json:"updated_at"`
}
