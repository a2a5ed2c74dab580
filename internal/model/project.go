package model

import "time"

// Project is a monitored source-control project.
type Project struct {
	ID               int64
	Name             string
	Path             string
	URL              string
	Namespace        string
	ReviewEnabled    bool
	CommentEnabled   bool
	EnabledRuleIDs   []string
	ChannelIDs       []string
	ExcludeFileTypes []string
	IgnorePatterns   []string
	CustomPrompt     string
	LastEventAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Exists reports whether p was loaded from the store.
func (p Project) Exists() bool { return p.ID != 0 }
