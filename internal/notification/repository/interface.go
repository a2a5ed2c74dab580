package repository

import (
	"context"

	"code-review-pipeline/internal/model"
)

// Repository is the data store of notification channels.
type Repository interface {
	CreateChannel(ctx context.Context, opt CreateChannelOptions) (model.NotificationChannel, error)
	GetOneChannel(ctx context.Context, id string) (model.NotificationChannel, error)
	ListChannels(ctx context.Context, opt ListChannelsOptions) ([]model.NotificationChannel, error)
	UpdateChannel(ctx context.Context, ch model.NotificationChannel) (model.NotificationChannel, error)
	DeleteChannel(ctx context.Context, id string) error
}
