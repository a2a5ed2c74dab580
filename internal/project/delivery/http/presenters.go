package http

import (
	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/project"
	"code-review-pipeline/pkg/response"
)

type listReq struct {
	ReviewEnabled *bool `form:"review_enabled"`
	Limit         int   `form:"limit"`
	Offset        int   `form:"offset"`
}

func (r listReq) toInput() project.ListInput {
	limit := r.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := r.Offset
	if offset < 0 {
		offset = 0
	}
	return project.ListInput{ReviewEnabled: r.ReviewEnabled, Limit: limit, Offset: offset}
}

type updateReq struct {
	ID               int64    `json:"-"`
	ReviewEnabled    *bool    `json:"review_enabled"`
	CommentEnabled   *bool    `json:"gitlab_comment_notifications_enabled"`
	EnabledRuleIDs   []string `json:"enabled_webhook_events"`
	ChannelIDs       []string `json:"notification_channels"`
	ExcludeFileTypes []string `json:"exclude_file_types"`
	IgnorePatterns   []string `json:"ignore_file_patterns"`
	CustomPrompt     *string  `json:"custom_prompt"`
}

func (r updateReq) toInput() project.UpdateInput {
	return project.UpdateInput{
		ID:               r.ID,
		ReviewEnabled:    r.ReviewEnabled,
		CommentEnabled:   r.CommentEnabled,
		EnabledRuleIDs:   r.EnabledRuleIDs,
		ChannelIDs:       r.ChannelIDs,
		ExcludeFileTypes: r.ExcludeFileTypes,
		IgnorePatterns:   r.IgnorePatterns,
		CustomPrompt:     r.CustomPrompt,
	}
}

type projectResp struct {
	ID               int64              `json:"project_id"`
	Name             string             `json:"project_name"`
	Path             string             `json:"project_path"`
	URL              string             `json:"project_url"`
	Namespace        string             `json:"namespace"`
	ReviewEnabled    bool               `json:"review_enabled"`
	CommentEnabled   bool               `json:"gitlab_comment_notifications_enabled"`
	EnabledRuleIDs   []string           `json:"enabled_webhook_events"`
	ChannelIDs       []string           `json:"notification_channels"`
	ExcludeFileTypes []string           `json:"exclude_file_types"`
	IgnorePatterns   []string           `json:"ignore_file_patterns"`
	CustomPrompt     string             `json:"custom_prompt,omitempty"`
	LastEventAt      *response.DateTime `json:"last_webhook_at,omitempty"`
	CreatedAt        response.DateTime  `json:"created_at"`
	UpdatedAt        response.DateTime  `json:"updated_at"`
}

func newProjectResp(p model.Project) projectResp {
	resp := projectResp{
		ID:               p.ID,
		Name:             p.Name,
		Path:             p.Path,
		URL:              p.URL,
		Namespace:        p.Namespace,
		ReviewEnabled:    p.ReviewEnabled,
		CommentEnabled:   p.CommentEnabled,
		EnabledRuleIDs:   nonNil(p.EnabledRuleIDs),
		ChannelIDs:       nonNil(p.ChannelIDs),
		ExcludeFileTypes: nonNil(p.ExcludeFileTypes),
		IgnorePatterns:   nonNil(p.IgnorePatterns),
		CustomPrompt:     p.CustomPrompt,
		CreatedAt:        response.DateTime(p.CreatedAt),
		UpdatedAt:        response.DateTime(p.UpdatedAt),
	}
	resp.LastEventAt = response.OptionalDateTime(p.LastEventAt)
	return resp
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type listResp struct {
	Projects []projectResp `json:"projects"`
	Total    int           `json:"total"`
	Limit    int           `json:"limit"`
	Offset   int           `json:"offset"`
}

func newListResp(out project.ListOutput) listResp {
	items := make([]projectResp, len(out.Projects))
	for i, p := range out.Projects {
		items[i] = newProjectResp(p)
	}
	return listResp{Projects: items, Total: out.Total, Limit: out.Limit, Offset: out.Offset}
}

type statsResp struct {
	TotalProjects   int `json:"total_projects"`
	ReviewEnabled   int `json:"review_enabled"`
	ActiveLastWeek  int `json:"active_last_week"`
	CommentsEnabled int `json:"comments_enabled"`
}
