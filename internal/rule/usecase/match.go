package usecase

import (
	"context"

	"code-review-pipeline/internal/rule"
	repo "code-review-pipeline/internal/rule/repository"
)

func (uc *implUseCase) Match(ctx context.Context, input rule.MatchInput) (rule.MatchOutput, error) {
	if len(input.EnabledRuleIDs) == 0 {
		return rule.MatchOutput{}, nil
	}

	rules, err := uc.repo.ListRules(ctx, repo.ListRulesOptions{IDs: input.EnabledRuleIDs, ActiveOnly: true})
	if err != nil {
		uc.l.Errorf(ctx, "rule.usecase.Match.ListRules: %v", err)
		return rule.MatchOutput{}, err
	}

	for _, r := range rules {
		if rule.Match(r.Pattern, input.Payload) {
			return rule.MatchOutput{Rule: r, Matched: true}, nil
		}
	}
	return rule.MatchOutput{}, nil
}
