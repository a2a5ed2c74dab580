package usecase

import (
	"context"

	"code-review-pipeline/internal/project"
	repo "code-review-pipeline/internal/project/repository"
)

// Register get-or-creates the project named by an inbound event.
// New projects start with review disabled; known ones get their identity and last event time refreshed.
func (uc *implUseCase) Register(ctx context.Context, input project.RegisterInput) (project.RegisterOutput, error) {
	ev := input.Project
	if ev.ID == 0 {
		return project.RegisterOutput{}, project.ErrInvalidProject
	}
	seenAt := input.SeenAt
	if seenAt.IsZero() {
		seenAt = uc.now()
	}

	created, err := uc.repo.CreateProject(ctx, repo.CreateProjectOptions{
		ID:        ev.ID,
		Name:      ev.Name,
		Path:      ev.PathWithNamespace,
		URL:       ev.CloneURL(),
		Namespace: ev.Namespace,
		SeenAt:    seenAt,
	})
	if err != nil {
		uc.l.Errorf(ctx, "project.usecase.Register.CreateProject: %v", err)
		return project.RegisterOutput{}, err
	}

	if !created {
		if err := uc.repo.TouchProject(ctx, repo.TouchProjectOptions{
			ID:     ev.ID,
			Name:   ev.Name,
			Path:   ev.PathWithNamespace,
			URL:    ev.CloneURL(),
			SeenAt: seenAt,
		}); err != nil {
			uc.l.Warnf(ctx, "project.usecase.Register.TouchProject: %v", err)
		}
	} else {
		uc.l.Infof(ctx, "Registered project %d (%s) with review disabled", ev.ID, ev.Name)
	}

	p, err := uc.repo.GetOneProject(ctx, ev.ID)
	if err != nil {
		return project.RegisterOutput{}, err
	}
	if !p.Exists() {
		return project.RegisterOutput{}, project.ErrProjectNotFound
	}
	return project.RegisterOutput{Project: p, Created: created}, nil
}
