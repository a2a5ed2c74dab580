package usecase

import (
	"context"
	"errors"

	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/rule"
	repo "code-review-pipeline/internal/rule/repository"
)

func (uc *implUseCase) Detail(ctx context.Context, id string) (model.EventRule, error) {
	r, err := uc.repo.GetOneRule(ctx, repo.GetOneRuleOptions{ID: id})
	if err != nil {
		uc.l.Errorf(ctx, "rule.usecase.Detail.GetOneRule: %v", err)
		return model.EventRule{}, err
	}
	if r.ID == "" {
		return model.EventRule{}, rule.ErrRuleNotFound
	}
	return r, nil
}

// Update applies a partial update. A changed pattern goes through the same dedup check as Create.
func (uc *implUseCase) Update(ctx context.Context, input rule.UpdateInput) (model.EventRule, error) {
	existing, err := uc.Detail(ctx, input.ID)
	if err != nil {
		return model.EventRule{}, err
	}

	pattern := existing.Pattern
	if input.Pattern != nil {
		pattern = input.Pattern
	}
	normalized, canonical, err := uc.prepare(pattern)
	if err != nil {
		return model.EventRule{}, err
	}

	dup, err := uc.repo.GetOneRule(ctx, repo.GetOneRuleOptions{Canonical: canonical})
	if err != nil {
		uc.l.Errorf(ctx, "rule.usecase.Update.GetOneRule: %v", err)
		return model.EventRule{}, err
	}
	if dup.ID != "" && dup.ID != existing.ID {
		return model.EventRule{}, rule.ErrDuplicatePattern
	}

	active := existing.Active
	if input.Active != nil {
		active = *input.Active
	}

	updated, err := uc.repo.UpdateRule(ctx, repo.UpdateRuleOptions{
		ID:          existing.ID,
		Name:        coalesce(input.Name, existing.Name),
		EventType:   coalesce(input.EventType, existing.EventType),
		Description: coalesce(input.Description, existing.Description),
		Pattern:     normalized,
		Canonical:   canonical,
		Active:      active,
	})
	if errors.Is(err, repo.ErrDuplicate) {
		return model.EventRule{}, rule.ErrDuplicatePattern
	}
	if err != nil {
		uc.l.Errorf(ctx, "rule.usecase.Update.UpdateRule: %v", err)
		return model.EventRule{}, err
	}
	if updated.ID == "" {
		return model.EventRule{}, rule.ErrRuleNotFound
	}
	return updated, nil
}

func (uc *implUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.Detail(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.DeleteRule(ctx, id); err != nil {
		uc.l.Errorf(ctx, "rule.usecase.Delete.DeleteRule: %v", err)
		return err
	}
	return nil
}

func coalesce(newVal, existing string) string {
	if newVal != "" {
		return newVal
	}
	return existing
}
