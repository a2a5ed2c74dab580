package repository

import (
	"context"

	"code-review-pipeline/internal/model"
)

// Repository is the data store of event rules.
type Repository interface {
	CreateRule(ctx context.Context, opt CreateRuleOptions) (model.EventRule, error)
	GetOneRule(ctx context.Context, opt GetOneRuleOptions) (model.EventRule, error)
	ListRules(ctx context.Context, opt ListRulesOptions) ([]model.EventRule, error)
	UpdateRule(ctx context.Context, opt UpdateRuleOptions) (model.EventRule, error)
	DeleteRule(ctx context.Context, id string) error
}
