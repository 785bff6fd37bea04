package toon

import (
	"fmt"
	"strconv"
	"strings"
)

// Number is an integer field in the thermostat JSON. Depending on the
// firmware build the device reports these either as bare numbers or as
// quoted strings, so both forms are accepted.
type Number int

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("numeric field %q: %w", s, err)
	}
	*n = Number(v)
	return nil
}

// ThermostatInfo is the raw snapshot returned by getThermostatInfo.
// Temperatures are in hundredths of a degree Celsius.
type ThermostatInfo struct {
	ActiveState            Number `json:"activeState"`
	ProgramState           Number `json:"programState"`
	BurnerInfo             Number `json:"burnerInfo"`
	CurrentSetpoint        Number `json:"currentSetpoint"`
	CurrentTemp            Number `json:"currentTemp"`
	CurrentModulationLevel Number `json:"currentModulationLevel"`
	BoilerSetpoint         Number `json:"currentInternalBoilerSetpoint"`
	OTCommError            Number `json:"otCommError"`
}
