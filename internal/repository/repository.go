package repository

import (
	"context"
	"database/sql"
	"time"

	"toonbridge/internal/models"
	"toonbridge/internal/repository/db"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

type StateRepo interface {
	Save(ctx context.Context, s models.ThermostatState) error
	Load(ctx context.Context) (models.ThermostatState, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.ThermostatEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.ThermostatEvent, error)
}

type Repository struct {
	StateRepo StateRepo
	EventRepo EventRepo
	Auth      Authorization
}

func NewRepository(sqlDB *sql.DB) *Repository {
	return &Repository{
		StateRepo: NewStateSQLite(sqlDB),
		EventRepo: NewEventSQLite(sqlDB),
		Auth:      NewUserRepository(sqlDB),
	}
}

// InitDB opens the SQLite database and runs schema setup and migrations.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
