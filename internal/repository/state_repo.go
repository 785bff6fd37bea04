package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"toonbridge/internal/models"
)

type StateSQLite struct {
	db *sql.DB
}

func NewStateSQLite(db *sql.DB) *StateSQLite {
	return &StateSQLite{db: db}
}

// The snapshot is a single row; every save replaces it.
const (
	thermostatStateRowID = 1

	upsertStateSQL = `
		INSERT INTO thermostat_state (id, mode, action, preset, temp_c, target_c,
			active_state, program_state, burner_info, modulation, boiler_setpoint,
			ot_comm_error, online, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			mode=excluded.mode,
			action=excluded.action,
			preset=excluded.preset,
			temp_c=excluded.temp_c,
			target_c=excluded.target_c,
			active_state=excluded.active_state,
			program_state=excluded.program_state,
			burner_info=excluded.burner_info,
			modulation=excluded.modulation,
			boiler_setpoint=excluded.boiler_setpoint,
			ot_comm_error=excluded.ot_comm_error,
			online=excluded.online,
			updated_at=excluded.updated_at
	`

	selectStateSQL = `
		SELECT id, mode, action, preset, temp_c, target_c, active_state,
			program_state, burner_info, modulation, boiler_setpoint,
			ot_comm_error, online, updated_at
		FROM thermostat_state WHERE id=?
	`
)

// Save upserts the thermostat_state row (id always 1).
func (r *StateSQLite) Save(ctx context.Context, state models.ThermostatState) error {
	tsUTC := state.UpdatedAt
	if tsUTC.IsZero() {
		tsUTC = time.Now().UTC()
	} else {
		tsUTC = tsUTC.UTC()
	}

	_, err := r.db.ExecContext(ctx, upsertStateSQL,
		thermostatStateRowID,
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
		tsUTC,
	)
	return err
}

// Load fetches the single thermostat_state row. Returns a zero value when no
// snapshot was stored yet.
func (r *StateSQLite) Load(ctx context.Context) (models.ThermostatState, error) {
	row := r.db.QueryRowContext(ctx, selectStateSQL, thermostatStateRowID)

	var s models.ThermostatState
	if err := row.Scan(
		&s.ID,
		&s.Mode,
		&s.Action,
		&s.Preset,
		&s.CurrentTempC,
		&s.TargetTempC,
		&s.ActiveState,
		&s.ProgramState,
		&s.BurnerInfo,
		&s.ModulationLevel,
		&s.BoilerSetpoint,
		&s.OTCommError,
		&s.Online,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ThermostatState{}, nil
		}
		return models.ThermostatState{}, err
	}

	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}
