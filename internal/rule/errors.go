package rule

import "errors"

var (
	ErrRuleNotFound     = errors.New("rule not found")
	ErrDuplicatePattern = errors.New("a rule with the same pattern already exists")
	ErrInvalidPattern   = errors.New("invalid rule pattern")
	ErrNameRequired     = errors.New("rule name is required")
)
