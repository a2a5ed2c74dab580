package sqlite

import (
	"database/sql"
	"fmt"

	"code-review-pipeline/internal/rule/repository"
	"code-review-pipeline/pkg/log"
)

type implRepository struct {
	db *sql.DB
	l  log.Logger
}

// New creates a SQLite-backed rule Repository.
func New(db *sql.DB, l log.Logger) repository.Repository {
	if db == nil {
		panic("rule/repository/sqlite: db is required")
	}
	return &implRepository{db: db, l: l}
}

func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("rule/repository/sqlite.%s", method)
}
