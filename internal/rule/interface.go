package rule

import (
	"context"

	"code-review-pipeline/internal/model"
)

//go:generate mockery --name UseCase
type UseCase interface {
	Create(ctx context.Context, input CreateInput) (model.EventRule, error)
	Update(ctx context.Context, input UpdateInput) (model.EventRule, error)
	Detail(ctx context.Context, id string) (model.EventRule, error)
	List(ctx context.Context, input ListInput) (ListOutput, error)
	Delete(ctx context.Context, id string) error

	// EnsureDefaults seeds the built-in rules whose pattern is not present yet.
	EnsureDefaults(ctx context.Context) (EnsureDefaultsOutput, error)

	// Match returns the first active rule among EnabledRuleIDs whose pattern matches Payload.
	Match(ctx context.Context, input MatchInput) (MatchOutput, error)
}
