package repository

import "code-review-pipeline/internal/model"

type CreateChannelOptions struct {
	Name        string
	Type        model.ChannelType
	Description string
	Config      map[string]any
	IsDefault   bool
	Active      bool
}

// ListChannelsOptions filters channel lists; set fields are ANDed.
// A non-nil empty IDs matches nothing.
type ListChannelsOptions struct {
	IDs         []string
	Type        model.ChannelType
	ActiveOnly  bool
	DefaultOnly bool
}
