package toon

import "slices"

// HVAC modes. OFF maps to the thermostat's vacation program.
const (
	ModeHeat = "HEAT"
	ModeAuto = "AUTO"
	ModeOff  = "OFF"
)

// HVAC actions derived from the burner state.
const (
	ActionHeating = "HEATING"
	ActionIdle    = "IDLE"
)

// Presets; PresetNone is reported for activeState codes outside the catalog.
const (
	PresetComfort = "COMFORT"
	PresetHome    = "HOME"
	PresetSleep   = "SLEEP"
	PresetAway    = "AWAY"
	PresetEco     = "ECO"
	PresetNone    = ""
)

// Presets and Modes are the full catalogs a deployment may enable.
var (
	Presets = []string{PresetComfort, PresetHome, PresetSleep, PresetAway, PresetEco}
	Modes   = []string{ModeHeat, ModeAuto, ModeOff}
)

func KnownPreset(p string) bool { return slices.Contains(Presets, p) }
func KnownMode(m string) bool   { return slices.Contains(Modes, m) }

// activeState codes reported by the thermostat.
const (
	ActiveStateComfort  = 0
	ActiveStateHome     = 1
	ActiveStateSleep    = 2
	ActiveStateAway     = 3
	ActiveStateVacation = 4
)

// burnerInfo codes:
// 0 off, 1 heating for the current setpoint, 2 heating tap water,
// 3 preheating for the next setpoint.
const (
	burnerOff        = 0
	burnerHeating    = 1
	burnerTapWater   = 2
	burnerPreheating = 3
)

// programState codes:
// 0 program off, 1 program on, 2 program on with a temporary setpoint
// override until the next scheduled change.
const (
	programOff      = 0
	programOn       = 1
	programOverride = 2
)

// HVACAction reports whether the burner is heating the home. Tap water
// heating counts as idle.
func (i *ThermostatInfo) HVACAction() string {
	switch int(i.BurnerInfo) {
	case burnerHeating, burnerPreheating:
		return ActionHeating
	default:
		return ActionIdle
	}
}

// HVACMode derives the operating mode. Vacation wins over the program state;
// unrecognized program states are treated as following the schedule.
func (i *ThermostatInfo) HVACMode() string {
	if int(i.ActiveState) == ActiveStateVacation {
		return ModeOff
	}
	switch int(i.ProgramState) {
	case programOff:
		return ModeHeat
	case programOn, programOverride:
		return ModeAuto
	default:
		return ModeAuto
	}
}

// Preset maps the active state to a preset name.
func (i *ThermostatInfo) Preset() string {
	switch int(i.ActiveState) {
	case ActiveStateComfort:
		return PresetComfort
	case ActiveStateHome:
		return PresetHome
	case ActiveStateSleep:
		return PresetSleep
	case ActiveStateAway:
		return PresetAway
	case ActiveStateVacation:
		return PresetEco
	default:
		return PresetNone
	}
}

// CurrentTemperature is the measured room temperature in degrees Celsius.
func (i *ThermostatInfo) CurrentTemperature() float64 {
	return float64(i.CurrentTemp) / 100
}

// TargetTemperature is the active setpoint in degrees Celsius.
func (i *ThermostatInfo) TargetTemperature() float64 {
	return float64(i.CurrentSetpoint) / 100
}

// VacationActive reports whether the vacation program is running.
func (i *ThermostatInfo) VacationActive() bool {
	return int(i.ActiveState) == ActiveStateVacation
}
