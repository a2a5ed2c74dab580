package webhook

import (
	"context"

	"code-review-pipeline/internal/model"
)

//go:generate mockery --name UseCase
type UseCase interface {
	// Receive records one delivery and hands it to the pipeline.
	// Malformed and duplicate deliveries are acknowledged without processing.
	Receive(ctx context.Context, input ReceiveInput) (ReceiveOutput, error)
	List(ctx context.Context, input ListInput) (ListOutput, error)
	Detail(ctx context.Context, id string) (model.WebhookLog, error)
	// Prune deletes logs older than retentionDays.
	Prune(ctx context.Context, retentionDays int) (int64, error)
}
