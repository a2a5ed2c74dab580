package repository

import (
	"context"
	"time"

	"code-review-pipeline/internal/model"
)

// Repository is the data store of monitored projects.
type Repository interface {
	// CreateProject inserts p unless a project with the same id exists; it reports whether a row was created.
	CreateProject(ctx context.Context, opt CreateProjectOptions) (bool, error)
	GetOneProject(ctx context.Context, id int64) (model.Project, error)
	ListProjects(ctx context.Context, opt ListProjectsOptions) ([]model.Project, int, error)
	UpdateProject(ctx context.Context, p model.Project) (model.Project, error)
	TouchProject(ctx context.Context, opt TouchProjectOptions) error
	CountProjects(ctx context.Context, activeSince time.Time) (ProjectCounts, error)
}
