package notification

import (
	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/notification/channel"
)

type CreateInput struct {
	Name        string
	Type        model.ChannelType
	Description string
	Config      map[string]any
	IsDefault   bool
	Active      bool
}

// UpdateInput is a partial update; nil fields are left untouched.
type UpdateInput struct {
	ID          string
	Name        string
	Description *string
	Config      map[string]any
	IsDefault   *bool
	Active      *bool
}

type ListInput struct {
	Type       model.ChannelType
	ActiveOnly bool
}

type ListOutput struct {
	Channels []model.NotificationChannel
	Total    int
}

// DispatchInput is one report bound for the channels of Project.
type DispatchInput struct {
	Project model.Project
	Message channel.Message
}
