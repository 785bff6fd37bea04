package db

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

// InitDB opens/creates a SQLite DB file, ensures tables exist and migrates
// databases written by older releases.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// SQLite is not great with many writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := migrateLegacy(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const schemaThermostatState = `
CREATE TABLE IF NOT EXISTS thermostat_state (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    mode TEXT NOT NULL,
    action TEXT NOT NULL,
    preset TEXT,
    temp_c REAL NOT NULL,
    target_c REAL NOT NULL,
    active_state INTEGER NOT NULL,
    program_state INTEGER NOT NULL,
    burner_info INTEGER NOT NULL,
    modulation INTEGER,
    boiler_setpoint INTEGER,
    ot_comm_error INTEGER,
    online BOOLEAN NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`

const schemaThermostatEvents = `
CREATE TABLE IF NOT EXISTS thermostat_events (
    id TEXT PRIMARY KEY,
    occurred_at TIMESTAMP NOT NULL,
    type TEXT NOT NULL,
    message TEXT NOT NULL,
    meta TEXT
);
`

const schemaUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaThermostatState,
		schemaThermostatEvents,
		schemaUsers,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}

// migrateLegacy moves data written by pre-1.x releases to the current layout,
// tracked via PRAGMA user_version. Version 1 covers two changes: the snapshot
// table was renamed from climate_state, and events used to be keyed by
// "<name>_<host>_<seq>" instead of UUIDs.
func migrateLegacy(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if version >= 1 {
		return nil
	}

	if err := migrateLegacyStateTable(db); err != nil {
		return err
	}
	if err := migrateLegacyEventIDs(db); err != nil {
		return err
	}

	if _, err := db.Exec("PRAGMA user_version = 1"); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

func migrateLegacyStateTable(db *sql.DB) error {
	var name string
	err := db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type='table' AND name='climate_state'`,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("probe climate_state: %w", err)
	}

	// Carry over what the old schema knew; the first poll fills in the rest.
	_, err = db.Exec(`
		INSERT OR IGNORE INTO thermostat_state
			(id, mode, action, preset, temp_c, target_c, active_state,
			 program_state, burner_info, online, updated_at)
		SELECT 1, mode, 'IDLE', '', temp_c, target_c, 0, 0, 0, 0, updated_at
		FROM climate_state LIMIT 1
	`)
	if err != nil {
		return fmt.Errorf("copy climate_state: %w", err)
	}
	if _, err := db.Exec(`DROP TABLE climate_state`); err != nil {
		return fmt.Errorf("drop climate_state: %w", err)
	}
	return nil
}

func migrateLegacyEventIDs(db *sql.DB) error {
	rows, err := db.Query(`SELECT id FROM thermostat_events WHERE id NOT LIKE '________-____-____-____-____________'`)
	if err != nil {
		return fmt.Errorf("select legacy event ids: %w", err)
	}
	var legacy []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		legacy = append(legacy, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range legacy {
		if _, err := db.Exec(`UPDATE thermostat_events SET id = ? WHERE id = ?`, uuid.NewString(), id); err != nil {
			return fmt.Errorf("rewrite event id %q: %w", id, err)
		}
	}
	return nil
}
