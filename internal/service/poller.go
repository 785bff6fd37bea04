package service

import (
	"context"
	"time"

	"toonbridge/internal/logger"
	"toonbridge/internal/metrics"
	"toonbridge/internal/models"
	"toonbridge/internal/repository"
	"toonbridge/internal/toon"

	"github.com/google/uuid"
)

// PollerService periodically replaces the stored snapshot with a freshly
// decoded one. A failed poll leaves the previous snapshot's decoded fields
// untouched; every tick retries independently, without backoff.
type PollerService struct {
	device    Device
	stateRepo repository.StateRepo
	eventRepo repository.EventRepo
	publisher StatePublisher
	log       *logger.Logger
}

func NewPollerService(device Device, stateRepo repository.StateRepo, eventRepo repository.EventRepo, publisher StatePublisher, log *logger.Logger) *PollerService {
	return &PollerService{
		device:    device,
		stateRepo: stateRepo,
		eventRepo: eventRepo,
		publisher: publisher,
		log:       log,
	}
}

// Run polls immediately and then on every tick until ctx is canceled.
func (s *PollerService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()

	failing := false
	s.poll(ctx, time.Now(), &failing)
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.poll(ctx, now, &failing)
		}
	}
}

func (s *PollerService) poll(ctx context.Context, now time.Time, failing *bool) {
	info, err := s.device.Info(ctx)
	if err != nil {
		metrics.PollErrors.Inc()
		s.errorw("thermostat poll failed", "err", err)
		if !*failing {
			// log the transition once, then stay quiet until recovery
			*failing = true
			s.markOffline(ctx, now, err)
		}
		return
	}
	*failing = false
	metrics.Polls.Inc()

	st := snapshotFromInfo(info, now)

	prev, err := s.stateRepo.Load(ctx)
	if err == nil && prev.ID != 0 && prev.Online {
		if prev.Mode != st.Mode || prev.Preset != st.Preset {
			_ = s.eventRepo.Append(ctx, models.ThermostatEvent{
				EventID:     uuid.NewString(),
				OccurredAt:  now.UTC(),
				Type:        "MODE_CHANGE",
				Description: "Thermostat state changed",
				Metadata: map[string]any{
					"from_mode": prev.Mode, "to_mode": st.Mode,
					"from_preset": prev.Preset, "to_preset": st.Preset,
				},
			})
		}
	}

	if err := s.stateRepo.Save(ctx, st); err != nil {
		s.errorw("saving snapshot failed", "err", err)
		return
	}

	metrics.ObserveState(st)

	if s.publisher != nil {
		if err := s.publisher.PublishState(st); err != nil {
			s.errorw("publishing snapshot failed", "err", err)
		}
	}
}

// markOffline flips the availability flag on the stored snapshot and appends
// an ERROR event. Decoded fields stay as they were.
func (s *PollerService) markOffline(ctx context.Context, now time.Time, cause error) {
	_ = s.eventRepo.Append(ctx, models.ThermostatEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now.UTC(),
		Type:        "ERROR",
		Description: "Thermostat unreachable",
		Metadata:    map[string]any{"error": cause.Error()},
	})

	st, err := s.stateRepo.Load(ctx)
	if err != nil || st.ID == 0 || !st.Online {
		return
	}
	st.Online = false
	if err := s.stateRepo.Save(ctx, st); err != nil {
		s.errorw("marking snapshot offline failed", "err", err)
	}
}

func snapshotFromInfo(info *toon.ThermostatInfo, now time.Time) models.ThermostatState {
	return models.ThermostatState{
		ID:              1,
		Mode:            info.HVACMode(),
		Action:          info.HVACAction(),
		Preset:          info.Preset(),
		CurrentTempC:    info.CurrentTemperature(),
		TargetTempC:     info.TargetTemperature(),
		ActiveState:     int(info.ActiveState),
		ProgramState:    int(info.ProgramState),
		BurnerInfo:      int(info.BurnerInfo),
		ModulationLevel: int(info.CurrentModulationLevel),
		BoilerSetpoint:  int(info.BoilerSetpoint),
		OTCommError:     int(info.OTCommError),
		Online:          true,
		UpdatedAt:       now.UTC(),
	}
}

func (s *PollerService) errorw(msg string, kv ...any) {
	if s.log != nil {
		s.log.Errorw(msg, kv...)
	}
}
