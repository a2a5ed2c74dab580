package rule

import "code-review-pipeline/internal/model"

type CreateInput struct {
	Name        string
	EventType   string
	Description string
	Pattern     map[string]any
	Active      bool
}

type UpdateInput struct {
	ID          string
	Name        string
	EventType   string
	Description string
	Pattern     map[string]any // nil keeps the current pattern
	Active      *bool
}

type ListInput struct {
	ActiveOnly bool
}

type ListOutput struct {
	Rules []model.EventRule
	Total int
}

type EnsureDefaultsOutput struct {
	Created int
	Total   int
}

type MatchInput struct {
	EnabledRuleIDs []string
	Payload        map[string]any
}

type MatchOutput struct {
	Rule    model.EventRule
	Matched bool
}
