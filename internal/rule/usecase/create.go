package usecase

import (
	"context"
	"errors"
	"strings"

	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/rule"
	repo "code-review-pipeline/internal/rule/repository"
)

// Create stores a new rule. A pattern that canonicalizes like an existing one is rejected.
func (uc *implUseCase) Create(ctx context.Context, input rule.CreateInput) (model.EventRule, error) {
	if strings.TrimSpace(input.Name) == "" {
		return model.EventRule{}, rule.ErrNameRequired
	}
	if input.Pattern == nil {
		return model.EventRule{}, rule.ErrInvalidPattern
	}

	pattern, canonical, err := uc.prepare(input.Pattern)
	if err != nil {
		return model.EventRule{}, err
	}

	existing, err := uc.repo.GetOneRule(ctx, repo.GetOneRuleOptions{Canonical: canonical})
	if err != nil {
		uc.l.Errorf(ctx, "rule.usecase.Create.GetOneRule: %v", err)
		return model.EventRule{}, err
	}
	if existing.ID != "" {
		return model.EventRule{}, rule.ErrDuplicatePattern
	}

	created, err := uc.repo.CreateRule(ctx, repo.CreateRuleOptions{
		Name:        input.Name,
		EventType:   input.EventType,
		Description: input.Description,
		Pattern:     pattern,
		Canonical:   canonical,
		Active:      input.Active,
	})
	if errors.Is(err, repo.ErrDuplicate) {
		return model.EventRule{}, rule.ErrDuplicatePattern
	}
	if err != nil {
		uc.l.Errorf(ctx, "rule.usecase.Create.CreateRule: %v", err)
		return model.EventRule{}, err
	}
	return created, nil
}

func (uc *implUseCase) prepare(pattern map[string]any) (map[string]any, string, error) {
	normalized, err := rule.Normalize(pattern)
	if err != nil {
		return nil, "", err
	}
	canonical, err := rule.Canonicalize(normalized)
	if err != nil {
		return nil, "", err
	}
	return normalized, canonical, nil
}
