package toon

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrUnknownPreset = errors.New("unknown preset")
	ErrUnknownMode   = errors.New("unknown hvac mode")
)

// NoTemperatureState omits the temperatureState parameter from a scheme
// change request.
const NoTemperatureState = -1

// SchemeRequest are the parameters of a changeSchemeState call.
type SchemeRequest struct {
	State            int
	TemperatureState int
}

// SetpointValue converts a temperature in degrees Celsius to the value the
// setSetpoint action expects.
func SetpointValue(tempC float64) int {
	return int(math.Round(tempC * 100))
}

// SchemeForPreset encodes a preset change. State 2 keeps the program running
// with an overridden preset; ECO activates the vacation program, which the
// API only accepts as state 8 despite its documentation claiming 4.
func SchemeForPreset(preset string) (SchemeRequest, error) {
	switch preset {
	case PresetComfort:
		return SchemeRequest{State: 2, TemperatureState: 0}, nil
	case PresetHome:
		return SchemeRequest{State: 2, TemperatureState: 1}, nil
	case PresetSleep:
		return SchemeRequest{State: 2, TemperatureState: 2}, nil
	case PresetAway:
		return SchemeRequest{State: 2, TemperatureState: 3}, nil
	case PresetEco:
		return SchemeRequest{State: 8, TemperatureState: 4}, nil
	default:
		return SchemeRequest{}, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
	}
}

// SchemeForMode encodes an hvac mode change. Switching to HEAT while the
// vacation program is active additionally restores the HOME preset, otherwise
// the thermostat would stay pinned at the vacation setpoint.
func SchemeForMode(mode string, vacationActive bool) (SchemeRequest, error) {
	switch mode {
	case ModeHeat:
		if vacationActive {
			return SchemeRequest{State: 0, TemperatureState: 1}, nil
		}
		return SchemeRequest{State: 0, TemperatureState: NoTemperatureState}, nil
	case ModeAuto:
		return SchemeRequest{State: 1, TemperatureState: NoTemperatureState}, nil
	case ModeOff:
		return SchemeRequest{State: 8, TemperatureState: 4}, nil
	default:
		return SchemeRequest{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}
