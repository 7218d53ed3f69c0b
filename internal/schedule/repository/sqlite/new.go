package sqlite

import (
	"database/sql"
	"fmt"

	"study-scheduler/internal/schedule/repository"
	"study-scheduler/pkg/log"
)

type implRepository struct {
	db *sql.DB
	l  log.Logger
}

// New creates a SQLite-backed Repository for conflict resolutions.
func New(db *sql.DB, l log.Logger) repository.Repository {
	if db == nil {
		panic("schedule/repository/sqlite: db is required")
	}
	return &implRepository{db: db, l: l}
}

// dsn returns a method-scoped context string for logging.
func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("schedule/repository/sqlite.%s", method)
}
