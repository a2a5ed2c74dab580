package project

import (
	"time"

	"code-review-pipeline/internal/model"
)

type RegisterInput struct {
	Project model.EventProject
	SeenAt  time.Time
}

type RegisterOutput struct {
	Project model.Project
	Created bool
}

type ListInput struct {
	ReviewEnabled *bool
	Limit         int
	Offset        int
}

type ListOutput struct {
	Projects []model.Project
	Total    int
	Limit    int
	Offset   int
}

// UpdateInput is a partial update; nil fields are left untouched.
type UpdateInput struct {
	ID               int64
	ReviewEnabled    *bool
	CommentEnabled   *bool
	EnabledRuleIDs   []string
	ChannelIDs       []string
	ExcludeFileTypes []string
	IgnorePatterns   []string
	CustomPrompt     *string
}

type StatsOutput struct {
	TotalProjects   int
	ReviewEnabled   int
	ActiveLastWeek  int
	CommentsEnabled int
}
