package repository_test

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"toonbridge/internal/models"
	"toonbridge/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

// argMatcher adapts a func to sqlmock.Argument.
type argMatcher func(v driver.Value) bool

func (f argMatcher) Match(v driver.Value) bool { return f(v) }

func utcWithin(window time.Duration) argMatcher {
	return func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		if !ok || tm.Location() != time.UTC {
			return false
		}
		now := time.Now().UTC()
		return !tm.Before(now.Add(-window)) && !tm.After(now.Add(window))
	}
}

func TestStateSQLite_Save_FillsZeroTimeWithUTCNow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStateSQLite(db)

	state := models.ThermostatState{
		Mode:            "AUTO",
		Action:          "HEATING",
		Preset:          "AWAY",
		CurrentTempC:    18.75,
		TargetTempC:     19.5,
		ActiveState:     3,
		ProgramState:    1,
		BurnerInfo:      1,
		ModulationLevel: 40,
		BoilerSetpoint:  55,
		OTCommError:     0,
		Online:          true,
		// UpdatedAt left zero
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO thermostat_state")).
		WithArgs(
			1,
			state.Mode,
			state.Action,
			state.Preset,
			state.CurrentTempC,
			state.TargetTempC,
			state.ActiveState,
			state.ProgramState,
			state.BurnerInfo,
			state.ModulationLevel,
			state.BoilerSetpoint,
			state.OTCommError,
			state.Online,
			utcWithin(5*time.Second),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), state); err != nil {
		t.Fatalf("Save(): %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStateSQLite_Save_ConvertsTimeToUTC(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStateSQLite(db)

	loc, _ := time.LoadLocation("Europe/Amsterdam")
	original := time.Date(2026, 2, 14, 8, 30, 0, 0, loc)
	expected := original.UTC()

	isExactUTC := argMatcher(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		return ok && tm.Equal(expected) && tm.Location() == time.UTC
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO thermostat_state")).
		WithArgs(
			1, "HEAT", "IDLE", "HOME",
			20.5, 20.0, 1, 0, 0, 0, 0, 0, true,
			isExactUTC,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	state := models.ThermostatState{
		Mode: "HEAT", Action: "IDLE", Preset: "HOME",
		CurrentTempC: 20.5, TargetTempC: 20.0, ActiveState: 1,
		Online: true, UpdatedAt: original,
	}
	if err := repo.Save(context.Background(), state); err != nil {
		t.Fatalf("Save(): %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStateSQLite_Load_ReturnsZeroValueWhenEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStateSQLite(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, mode, action, preset")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "mode", "action", "preset", "temp_c", "target_c",
			"active_state", "program_state", "burner_info", "modulation",
			"boiler_setpoint", "ot_comm_error", "online", "updated_at",
		}))

	st, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if st.ID != 0 {
		t.Fatalf("expected zero state, got %+v", st)
	}
}

func TestStateSQLite_Load_ScansRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStateSQLite(db)

	updated := time.Date(2026, 2, 14, 7, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "mode", "action", "preset", "temp_c", "target_c",
		"active_state", "program_state", "burner_info", "modulation",
		"boiler_setpoint", "ot_comm_error", "online", "updated_at",
	}).AddRow(1, "AUTO", "HEATING", "AWAY", 18.75, 19.5, 3, 1, 1, 40, 55, 0, true, updated)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, mode, action, preset")).
		WithArgs(1).
		WillReturnRows(rows)

	st, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if st.Mode != "AUTO" || st.Preset != "AWAY" || st.CurrentTempC != 18.75 || !st.Online {
		t.Fatalf("unexpected state: %+v", st)
	}
	if !st.UpdatedAt.Equal(updated) {
		t.Fatalf("updated_at=%v, want %v", st.UpdatedAt, updated)
	}
}
