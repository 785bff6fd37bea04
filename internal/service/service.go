package service

import (
	"context"
	"time"

	"toonbridge/internal/logger"
	"toonbridge/internal/models"
	"toonbridge/internal/repository"
	"toonbridge/internal/toon"
)

// Device is the thermostat API consumed by the read and write paths.
// *toon.Client implements it.
type Device interface {
	Info(ctx context.Context) (*toon.ThermostatInfo, error)
	SetSetpoint(ctx context.Context, value int) error
	ChangeScheme(ctx context.Context, req toon.SchemeRequest) error
}

// StatePublisher pushes refreshed snapshots to an external broker. Optional.
type StatePublisher interface {
	PublishState(st models.ThermostatState) error
}

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Climate exposes the thermostat command operations.
type Climate interface {
	SetTemperature(ctx context.Context, tempC float64) error
	SetPreset(ctx context.Context, preset string) error
	SetHVACMode(ctx context.Context, mode string) error
}

// Monitoring exposes the latest decoded snapshot.
type Monitoring interface {
	GetState(ctx context.Context) (models.ThermostatState, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.ThermostatEvent, error)
}

// Poller runs the background loop that refreshes the snapshot from the
// device. Stop via context cancellation in main() for graceful shutdown.
type Poller interface {
	Run(ctx context.Context, tick time.Duration)
}

type Service struct {
	Climate
	Monitoring
	EventLog
	Poller
	Authorization
}

// Deps carries everything the sub-services need.
type Deps struct {
	Repos      *repository.Repository
	Device     Device
	Publisher  StatePublisher // may be nil
	Settings   ClimateSettings
	SigningKey string
	Log        *logger.Logger
}

func NewService(d Deps) *Service {
	return &Service{
		Climate:       NewClimateService(d.Device, d.Repos.StateRepo, d.Repos.EventRepo, d.Settings, d.Log),
		Monitoring:    NewMonitoringService(d.Repos.StateRepo),
		EventLog:      NewEventLogService(d.Repos.EventRepo),
		Poller:        NewPollerService(d.Device, d.Repos.StateRepo, d.Repos.EventRepo, d.Publisher, d.Log),
		Authorization: NewAuthService(d.Repos.Auth, d.SigningKey),
	}
}
