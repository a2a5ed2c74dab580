package usecase

import (
	"context"
	"time"

	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/project"
	repo "code-review-pipeline/internal/project/repository"
)

func (uc *implUseCase) Detail(ctx context.Context, id int64) (model.Project, error) {
	p, err := uc.repo.GetOneProject(ctx, id)
	if err != nil {
		uc.l.Errorf(ctx, "project.usecase.Detail.GetOneProject: %v", err)
		return model.Project{}, err
	}
	if !p.Exists() {
		return model.Project{}, project.ErrProjectNotFound
	}
	return p, nil
}

func (uc *implUseCase) List(ctx context.Context, input project.ListInput) (project.ListOutput, error) {
	projects, total, err := uc.repo.ListProjects(ctx, repo.ListProjectsOptions{
		ReviewEnabled: input.ReviewEnabled,
		Limit:         input.Limit,
		Offset:        input.Offset,
	})
	if err != nil {
		uc.l.Errorf(ctx, "project.usecase.List.ListProjects: %v", err)
		return project.ListOutput{}, err
	}
	return project.ListOutput{Projects: projects, Total: total, Limit: input.Limit, Offset: input.Offset}, nil
}

func (uc *implUseCase) Stats(ctx context.Context) (project.StatsOutput, error) {
	c, err := uc.repo.CountProjects(ctx, uc.now().Add(-7*24*time.Hour))
	if err != nil {
		return project.StatsOutput{}, err
	}
	return project.StatsOutput{
		TotalProjects:   c.Total,
		ReviewEnabled:   c.ReviewEnabled,
		ActiveLastWeek:  c.ActiveSince,
		CommentsEnabled: c.CommentsEnabled,
	}, nil
}
