package http

import (
	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/notification"
	"code-review-pipeline/pkg/response"
)

const masked = "******"

// secretKeys are config entries never echoed back.
var secretKeys = map[string]bool{"secret": true, "bot_token": true, "password": true, "token": true}

type createReq struct {
	Name        string         `json:"name" binding:"required,max=255"`
	Type        string         `json:"notification_type" binding:"required"`
	Description string         `json:"description"`
	Config      map[string]any `json:"config_data"`
	IsDefault   bool           `json:"is_default"`
	Active      *bool          `json:"is_active"`
}

func (r createReq) toInput() notification.CreateInput {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return notification.CreateInput{
		Name:        r.Name,
		Type:        model.ChannelType(r.Type),
		Description: r.Description,
		Config:      r.Config,
		IsDefault:   r.IsDefault,
		Active:      active,
	}
}

type updateReq struct {
	Name        string         `json:"name" binding:"max=255"`
	Description *string        `json:"description"`
	Config      map[string]any `json:"config_data"`
	IsDefault   *bool          `json:"is_default"`
	Active      *bool          `json:"is_active"`
}

func (r updateReq) toInput(id string) notification.UpdateInput {
	return notification.UpdateInput{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		Config:      r.Config,
		IsDefault:   r.IsDefault,
		Active:      r.Active,
	}
}

type listReq struct {
	Type       string `form:"type"`
	ActiveOnly bool   `form:"active"`
}

type channelResp struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Type        string            `json:"notification_type"`
	Description string            `json:"description"`
	Config      map[string]any    `json:"config_data"`
	IsDefault   bool              `json:"is_default"`
	Active      bool              `json:"is_active"`
	CreatedAt   response.DateTime `json:"created_at"`
	UpdatedAt   response.DateTime `json:"updated_at"`
}

func newChannelResp(ch model.NotificationChannel) channelResp {
	cfg := make(map[string]any, len(ch.Config))
	for k, v := range ch.Config {
		if secretKeys[k] && v != "" {
			v = masked
		}
		cfg[k] = v
	}
	return channelResp{
		ID:          ch.ID,
		Name:        ch.Name,
		Type:        string(ch.Type),
		Description: ch.Description,
		Config:      cfg,
		IsDefault:   ch.IsDefault,
		Active:      ch.Active,
		CreatedAt:   response.DateTime(ch.CreatedAt),
		UpdatedAt:   response.DateTime(ch.UpdatedAt),
	}
}

type listResp struct {
	Channels []channelResp `json:"channels"`
	Total    int           `json:"total"`
}

func newListResp(out notification.ListOutput) listResp {
	channels := make([]channelResp, len(out.Channels))
	for i, ch := range out.Channels {
		channels[i] = newChannelResp(ch)
	}
	return listResp{Channels: channels, Total: out.Total}
}

type testResp struct {
	Success        bool           `json:"success"`
	Message        string         `json:"message"`
	ResponseTimeMS int64          `json:"response_time_ms"`
	Details        map[string]any `json:"details,omitempty"`
}

func newTestResp(r model.DispatchResult) testResp {
	return testResp{
		Success:        r.Success,
		Message:        r.Message,
		ResponseTimeMS: r.ResponseTime.Milliseconds(),
		Details:        r.Details,
	}
}
