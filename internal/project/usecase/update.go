package usecase

import (
	"context"

	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/project"
)

// Update applies a partial settings update.
func (uc *implUseCase) Update(ctx context.Context, input project.UpdateInput) (model.Project, error) {
	p, err := uc.Detail(ctx, input.ID)
	if err != nil {
		return model.Project{}, err
	}

	if input.ReviewEnabled != nil {
		p.ReviewEnabled = *input.ReviewEnabled
	}
	if input.CommentEnabled != nil {
		p.CommentEnabled = *input.CommentEnabled
	}
	if input.EnabledRuleIDs != nil {
		p.EnabledRuleIDs = dedup(input.EnabledRuleIDs)
	}
	if input.ChannelIDs != nil {
		p.ChannelIDs = dedup(input.ChannelIDs)
	}
	if input.ExcludeFileTypes != nil {
		p.ExcludeFileTypes = input.ExcludeFileTypes
	}
	if input.IgnorePatterns != nil {
		p.IgnorePatterns = input.IgnorePatterns
	}
	if input.CustomPrompt != nil {
		p.CustomPrompt = *input.CustomPrompt
	}

	updated, err := uc.repo.UpdateProject(ctx, p)
	if err != nil {
		uc.l.Errorf(ctx, "project.usecase.Update.UpdateProject: %v", err)
		return model.Project{}, err
	}
	if !updated.Exists() {
		return model.Project{}, project.ErrProjectNotFound
	}
	return updated, nil
}

func (uc *implUseCase) SetReviewEnabled(ctx context.Context, id int64, enabled bool) (model.Project, error) {
	p, err := uc.Update(ctx, project.UpdateInput{ID: id, ReviewEnabled: &enabled})
	if err != nil {
		return model.Project{}, err
	}
	uc.l.Infof(ctx, "Project %d review_enabled=%t", id, enabled)
	return p, nil
}

func dedup(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
