package service

import (
	"context"
	"time"

	"toonbridge/internal/models"
	"toonbridge/internal/repository"
)

type MonitoringService struct {
	stateRepo repository.StateRepo
}

func NewMonitoringService(stateRepo repository.StateRepo) *MonitoringService {
	return &MonitoringService{stateRepo: stateRepo}
}

// GetState returns the latest persisted snapshot. Before the first
// successful poll it returns an offline baseline.
func (s *MonitoringService) GetState(ctx context.Context) (models.ThermostatState, error) {
	state, err := s.stateRepo.Load(ctx)
	if err != nil {
		return models.ThermostatState{}, err
	}
	if state.ID == 0 {
		return baselineState(), nil
	}
	state.UpdatedAt = toUTC(state.UpdatedAt)
	return state, nil
}

// baselineState is reported until the device has been polled at least once.
func baselineState() models.ThermostatState {
	return models.ThermostatState{
		ID:        1,
		Online:    false,
		UpdatedAt: time.Now().UTC(),
	}
}

func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
