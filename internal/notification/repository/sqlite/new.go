package sqlite

import (
	"database/sql"
	"fmt"

	"code-review-pipeline/internal/notification/repository"
	"code-review-pipeline/pkg/log"
)

type implRepository struct {
	db *sql.DB
	l  log.Logger
}

// New creates a SQLite-backed channel Repository.
func New(db *sql.DB, l log.Logger) repository.Repository {
	if db == nil {
		panic("notification/repository/sqlite: db is required")
	}
	return &implRepository{db: db, l: l}
}

func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("notification/repository/sqlite.%s", method)
}
