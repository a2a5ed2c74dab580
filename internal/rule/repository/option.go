package repository

// CreateRuleOptions holds the fields of a new rule. Canonical is the dedup key.
type CreateRuleOptions struct {
	Name        string
	EventType   string
	Description string
	Pattern     map[string]any
	Canonical   string
	Active      bool
}

// GetOneRuleOptions filters a single rule; non-empty fields are ANDed.
type GetOneRuleOptions struct {
	ID        string
	Canonical string
}

// ListRulesOptions filters rule lists.
type ListRulesOptions struct {
	IDs        []string
	ActiveOnly bool
}

// UpdateRuleOptions holds the full new state of a rule.
type UpdateRuleOptions struct {
	ID          string
	Name        string
	EventType   string
	Description string
	Pattern     map[string]any
	Canonical   string
	Active      bool
}
