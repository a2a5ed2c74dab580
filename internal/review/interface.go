package review

import (
	"context"

	"code-review-pipeline/internal/model"
)

//go:generate mockery --name UseCase
type UseCase interface {
	// Open creates the job for a change, or re-arms a terminal one back to pending.
	// A job that is still pending or processing yields ErrJobInFlight.
	Open(ctx context.Context, input OpenInput) (model.ReviewJob, error)
	Start(ctx context.Context, id string) (model.ReviewJob, error)
	Complete(ctx context.Context, input CompleteInput) (model.ReviewJob, error)
	Fail(ctx context.Context, input FailInput) (model.ReviewJob, error)
	RecordNotification(ctx context.Context, id string, summary model.DispatchSummary) error
	Detail(ctx context.Context, id string) (model.ReviewJob, error)
	List(ctx context.Context, input ListInput) (ListOutput, error)
	Stats(ctx context.Context, projectID int64) (StatsOutput, error)
}

// Redispatcher re-sends the stored report of a completed job.
type Redispatcher interface {
	Redispatch(ctx context.Context, jobID string) (model.DispatchSummary, error)
}
