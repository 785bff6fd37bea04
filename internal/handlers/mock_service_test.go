package handlers

import (
	"context"
	"errors"
	"time"

	"toonbridge/internal/models"
	"toonbridge/internal/service"

	"github.com/gin-gonic/gin"
)

const testToken = "valid-token"

var errBadToken = errors.New("token is invalid")

type mockAuth struct{}

func (mockAuth) SignUp(username, password string) (int, error) {
	if username == "taken" {
		return 0, errors.New("username already exists")
	}
	return 1, nil
}

func (mockAuth) GenerateToken(username, password string) (string, error) {
	if password != "secret" {
		return "", service.ErrInvalidPassword
	}
	return testToken, nil
}

func (mockAuth) ParseToken(accessToken string) (int, error) {
	if accessToken != testToken {
		return 0, errBadToken
	}
	return 1, nil
}

type mockClimate struct {
	tempErr   error
	presetErr error
	modeErr   error

	temps   []float64
	presets []string
	modes   []string
}

func (m *mockClimate) SetTemperature(_ context.Context, tempC float64) error {
	if m.tempErr != nil {
		return m.tempErr
	}
	m.temps = append(m.temps, tempC)
	return nil
}

func (m *mockClimate) SetPreset(_ context.Context, preset string) error {
	if m.presetErr != nil {
		return m.presetErr
	}
	m.presets = append(m.presets, preset)
	return nil
}

func (m *mockClimate) SetHVACMode(_ context.Context, mode string) error {
	if m.modeErr != nil {
		return m.modeErr
	}
	m.modes = append(m.modes, mode)
	return nil
}

type mockMonitoring struct {
	state models.ThermostatState
	err   error
}

func (m *mockMonitoring) GetState(context.Context) (models.ThermostatState, error) {
	return m.state, m.err
}

type mockEventLog struct {
	filter service.LogFilter
	events []models.ThermostatEvent
	err    error
}

func (m *mockEventLog) List(_ context.Context, f service.LogFilter) ([]models.ThermostatEvent, error) {
	m.filter = f
	return m.events, m.err
}

type mockPoller struct{}

func (mockPoller) Run(context.Context, time.Duration) {}

func testState() models.ThermostatState {
	return models.ThermostatState{
		ID:           1,
		Mode:         "AUTO",
		Action:       "HEATING",
		Preset:       "AWAY",
		CurrentTempC: 18.75,
		TargetTempC:  19.5,
		Online:       true,
		UpdatedAt:    time.Date(2026, 2, 14, 7, 30, 0, 0, time.UTC),
	}
}

func newTestRouter(climate *mockClimate, monitoring *mockMonitoring, logs *mockEventLog) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := &service.Service{
		Climate:       climate,
		Monitoring:    monitoring,
		EventLog:      logs,
		Poller:        mockPoller{},
		Authorization: mockAuth{},
	}
	return NewHandler(svc, nil).InitRoutes()
}

func authHeader() (string, string) {
	return "Authorization", "Bearer " + testToken
}
