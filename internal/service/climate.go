package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"toonbridge/internal/logger"
	"toonbridge/internal/models"
	"toonbridge/internal/repository"
	"toonbridge/internal/toon"

	"github.com/google/uuid"
)

// Validation errors; rejected commands never reach the device.
var (
	ErrTemperatureOutOfRange = errors.New("target temperature out of range")
	ErrUnsupportedPreset     = errors.New("preset not enabled")
	ErrUnsupportedMode       = errors.New("hvac mode not enabled")
)

// ClimateService translates user commands into device requests. The stored
// snapshot is updated optimistically once the device has acknowledged; the
// next poll is authoritative.
type ClimateService struct {
	device    Device
	stateRepo repository.StateRepo
	eventRepo repository.EventRepo
	settings  ClimateSettings
	log       *logger.Logger
}

func NewClimateService(device Device, stateRepo repository.StateRepo, eventRepo repository.EventRepo, settings ClimateSettings, log *logger.Logger) *ClimateService {
	return &ClimateService{
		device:    device,
		stateRepo: stateRepo,
		eventRepo: eventRepo,
		settings:  settings,
		log:       log,
	}
}

// SetTemperature sends a new setpoint. Out-of-range values are rejected
// without touching the device or the stored target.
func (s *ClimateService) SetTemperature(ctx context.Context, tempC float64) error {
	if tempC < s.settings.MinTempC || tempC > s.settings.MaxTempC {
		s.warnw("setpoint rejected", "temp_c", tempC, "min", s.settings.MinTempC, "max", s.settings.MaxTempC)
		return fmt.Errorf("%w: %.2f not in [%.1f, %.1f]", ErrTemperatureOutOfRange, tempC, s.settings.MinTempC, s.settings.MaxTempC)
	}

	value := toon.SetpointValue(tempC)
	if err := s.device.SetSetpoint(ctx, value); err != nil {
		return err
	}

	now := time.Now().UTC()
	st, err := s.stateRepo.Load(ctx)
	if err != nil {
		return err
	}
	if st.ID == 0 {
		st.ID = 1
	}
	st.TargetTempC = tempC
	st.UpdatedAt = now
	if err := s.stateRepo.Save(ctx, st); err != nil {
		return err
	}

	return s.eventRepo.Append(ctx, models.ThermostatEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now,
		Type:        "SETPOINT",
		Description: fmt.Sprintf("Target temperature set to %.2f°C", tempC),
		Metadata:    map[string]any{"setpoint": value},
	})
}

// SetPreset switches the thermostat to one of the enabled presets.
func (s *ClimateService) SetPreset(ctx context.Context, preset string) error {
	if !slices.Contains(s.settings.Presets, preset) {
		s.warnw("preset rejected", "preset", preset, "enabled", s.settings.Presets)
		return fmt.Errorf("%w: %q", ErrUnsupportedPreset, preset)
	}
	req, err := toon.SchemeForPreset(preset)
	if err != nil {
		return err
	}
	if err := s.device.ChangeScheme(ctx, req); err != nil {
		return err
	}

	now := time.Now().UTC()
	st, err := s.stateRepo.Load(ctx)
	if err != nil {
		return err
	}
	if st.ID == 0 {
		st.ID = 1
	}
	st.Preset = preset
	st.ActiveState = req.TemperatureState
	if preset == toon.PresetEco {
		st.Mode = toon.ModeOff
	}
	st.UpdatedAt = now
	if err := s.stateRepo.Save(ctx, st); err != nil {
		return err
	}

	return s.eventRepo.Append(ctx, models.ThermostatEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now,
		Type:        "PRESET",
		Description: "Preset changed to " + preset,
		Metadata:    map[string]any{"state": req.State, "temperature_state": req.TemperatureState},
	})
}

// SetHVACMode switches between HEAT, AUTO and OFF (vacation). Leaving
// vacation for HEAT needs the stored snapshot to pick the right scheme.
func (s *ClimateService) SetHVACMode(ctx context.Context, mode string) error {
	if !slices.Contains(s.settings.Modes, mode) {
		s.warnw("hvac mode rejected", "mode", mode, "enabled", s.settings.Modes)
		return fmt.Errorf("%w: %q", ErrUnsupportedMode, mode)
	}

	st, err := s.stateRepo.Load(ctx)
	if err != nil {
		return err
	}
	vacation := st.ActiveState == toon.ActiveStateVacation

	req, err := toon.SchemeForMode(mode, vacation)
	if err != nil {
		return err
	}
	if err := s.device.ChangeScheme(ctx, req); err != nil {
		return err
	}

	now := time.Now().UTC()
	if st.ID == 0 {
		st.ID = 1
	}
	prev := st.Mode
	st.Mode = mode
	switch {
	case mode == toon.ModeOff:
		st.ActiveState = toon.ActiveStateVacation
		st.Preset = toon.PresetEco
	case mode == toon.ModeHeat && vacation:
		st.ActiveState = toon.ActiveStateHome
		st.Preset = toon.PresetHome
	}
	st.UpdatedAt = now
	if err := s.stateRepo.Save(ctx, st); err != nil {
		return err
	}

	return s.eventRepo.Append(ctx, models.ThermostatEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now,
		Type:        "MODE_CHANGE",
		Description: "Mode changed to " + mode,
		Metadata:    map[string]any{"from": prev, "to": mode, "state": req.State},
	})
}

func (s *ClimateService) warnw(msg string, kv ...any) {
	if s.log != nil {
		s.log.Warnw(msg, kv...)
	}
}
