package usecase

import (
	"context"

	"code-review-pipeline/internal/rule"
	repo "code-review-pipeline/internal/rule/repository"
)

func (uc *implUseCase) List(ctx context.Context, input rule.ListInput) (rule.ListOutput, error) {
	rules, err := uc.repo.ListRules(ctx, repo.ListRulesOptions{ActiveOnly: input.ActiveOnly})
	if err != nil {
		uc.l.Errorf(ctx, "rule.usecase.List.ListRules: %v", err)
		return rule.ListOutput{}, err
	}
	return rule.ListOutput{Rules: rules, Total: len(rules)}, nil
}
