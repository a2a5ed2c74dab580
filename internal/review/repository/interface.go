package repository

import (
	"context"

	"code-review-pipeline/internal/model"
)

// Repository is the data store of review jobs.
type Repository interface {
	// OpenJob inserts a pending job or re-arms a terminal one for the same key.
	// When the existing job is not terminal it is returned unchanged with opened=false.
	OpenJob(ctx context.Context, opt OpenJobOptions) (job model.ReviewJob, opened bool, err error)
	GetOneJob(ctx context.Context, opt GetOneJobOptions) (model.ReviewJob, error)
	ListJobs(ctx context.Context, opt ListJobsOptions) ([]model.ReviewJob, int, error)
	// TransitionJob applies opt only when the stored status is opt.From.
	TransitionJob(ctx context.Context, opt TransitionJobOptions) (bool, error)
	SetNotificationResult(ctx context.Context, id string, summary model.DispatchSummary) error
	CountJobs(ctx context.Context, projectID int64) (JobCounts, error)
}
