package pipeline

import (
	"context"

	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/review"
	"code-review-pipeline/internal/workspace"
	"code-review-pipeline/pkg/gitlab"
)

//go:generate mockery --name UseCase
type UseCase interface {
	// Handle decides whether ev triggers a review and, if so, queues it.
	// A skipped event is not an error; Outcome carries the reason.
	Handle(ctx context.Context, ev model.Event) (Outcome, error)

	review.Redispatcher

	// Shutdown stops accepting work and waits for queued jobs to finish.
	Shutdown(ctx context.Context) error
}

// SourceControl reads merge request changes.
type SourceControl interface {
	GetMergeRequestChanges(ctx context.Context, projectID, iid int64) (gitlab.MergeRequestChanges, error)
}

// Workspace prepares working copies. *workspace.Manager implements it.
type Workspace interface {
	Lock(projectID int64) func()
	Prepare(ctx context.Context, in workspace.PrepareInput) (string, error)
	Checkout(ctx context.Context, path, branch string) error
	DiffRange(ctx context.Context, path, target string) string
}
