package notification

import (
	"context"

	"code-review-pipeline/internal/model"
)

//go:generate mockery --name UseCase
type UseCase interface {
	Create(ctx context.Context, input CreateInput) (model.NotificationChannel, error)
	Update(ctx context.Context, input UpdateInput) (model.NotificationChannel, error)
	Detail(ctx context.Context, id string) (model.NotificationChannel, error)
	List(ctx context.Context, input ListInput) (ListOutput, error)
	Delete(ctx context.Context, id string) error

	// Test sends a short probe message through one channel.
	Test(ctx context.Context, id string) (model.DispatchResult, error)

	Dispatcher
}

// Dispatcher fans one report out to every channel a project resolves to.
type Dispatcher interface {
	Dispatch(ctx context.Context, input DispatchInput) model.DispatchSummary
}
