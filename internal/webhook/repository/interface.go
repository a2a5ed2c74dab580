package repository

import (
	"context"

	"code-review-pipeline/internal/model"
)

// Repository is the data store of webhook deliveries.
type Repository interface {
	CreateLog(ctx context.Context, opt CreateLogOptions) (model.WebhookLog, error)
	// GetOneLog returns a zero log (ID == "") when nothing matches.
	GetOneLog(ctx context.Context, id string) (model.WebhookLog, error)
	ListLogs(ctx context.Context, opt ListLogsOptions) ([]model.WebhookLog, int, error)
	// PruneLogs deletes logs older than the given number of days.
	PruneLogs(ctx context.Context, olderThanDays int) (int64, error)
}
