package usecase

import (
	"context"
	"errors"

	"code-review-pipeline/internal/rule"
	repo "code-review-pipeline/internal/rule/repository"
)

// EnsureDefaults creates each built-in rule whose pattern is not stored yet.
// Running it any number of times leaves the same set of rules.
func (uc *implUseCase) EnsureDefaults(ctx context.Context) (rule.EnsureDefaultsOutput, error) {
	seeds, err := rule.DefaultSeeds()
	if err != nil {
		return rule.EnsureDefaultsOutput{}, err
	}

	var out rule.EnsureDefaultsOutput
	for _, seed := range seeds {
		_, err := uc.Create(ctx, rule.CreateInput{
			Name:        seed.Name,
			EventType:   seed.EventType,
			Description: seed.Description,
			Pattern:     seed.Pattern,
			Active:      true,
		})
		switch {
		case err == nil:
			out.Created++
		case errors.Is(err, rule.ErrDuplicatePattern):
			uc.l.Debugf(ctx, "rule.usecase.EnsureDefaults: %q already present", seed.Name)
		default:
			return out, err
		}
	}

	all, err := uc.repo.ListRules(ctx, repo.ListRulesOptions{})
	if err != nil {
		return out, err
	}
	out.Total = len(all)
	if out.Created > 0 {
		uc.l.Infof(ctx, "Seeded %d default rule(s), %d total", out.Created, out.Total)
	}
	return out, nil
}
