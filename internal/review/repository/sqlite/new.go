package sqlite

import (
	"database/sql"
	"fmt"

	"code-review-pipeline/internal/review/repository"
	"code-review-pipeline/pkg/log"
)

type implRepository struct {
	db *sql.DB
	l  log.Logger
}

// New creates a SQLite-backed review job Repository.
func New(db *sql.DB, l log.Logger) repository.Repository {
	if db == nil {
		panic("review/repository/sqlite: db is required")
	}
	return &implRepository{db: db, l: l}
}

func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("review/repository/sqlite.%s", method)
}
