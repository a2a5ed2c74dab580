package sqlite

import (
	"database/sql"
	"fmt"

	"code-review-pipeline/internal/webhook/repository"
	"code-review-pipeline/pkg/log"
)

type implRepository struct {
	db *sql.DB
	l  log.Logger
}

// New creates a SQLite-backed webhook log Repository.
func New(db *sql.DB, l log.Logger) repository.Repository {
	if db == nil {
		panic("webhook/repository/sqlite: db is required")
	}
	return &implRepository{db: db, l: l}
}

func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("webhook/repository/sqlite.%s", method)
}
