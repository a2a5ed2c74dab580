package project

import (
	"context"

	"code-review-pipeline/internal/model"
)

//go:generate mockery --name UseCase
type UseCase interface {
	// Register returns the stored project, creating it with review disabled on first sight.
	Register(ctx context.Context, input RegisterInput) (RegisterOutput, error)
	Detail(ctx context.Context, id int64) (model.Project, error)
	List(ctx context.Context, input ListInput) (ListOutput, error)
	Update(ctx context.Context, input UpdateInput) (model.Project, error)
	SetReviewEnabled(ctx context.Context, id int64, enabled bool) (model.Project, error)
	Stats(ctx context.Context) (StatsOutput, error)
}
