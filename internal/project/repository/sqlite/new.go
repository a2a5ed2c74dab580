package sqlite

import (
	"database/sql"
	"fmt"

	"code-review-pipeline/internal/project/repository"
	"code-review-pipeline/pkg/log"
)

type implRepository struct {
	db *sql.DB
	l  log.Logger
}

// New creates a SQLite-backed project Repository.
func New(db *sql.DB, l log.Logger) repository.Repository {
	if db == nil {
		panic("project/repository/sqlite: db is required")
	}
	return &implRepository{db: db, l: l}
}

func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("project/repository/sqlite.%s", method)
}
