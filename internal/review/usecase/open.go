package usecase

import (
	"context"

	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/review"
	repo "code-review-pipeline/internal/review/repository"
)

func (uc *implUseCase) Open(ctx context.Context, input review.OpenInput) (model.ReviewJob, error) {
	if input.ProjectID == 0 || input.ChangeRef == 0 {
		return model.ReviewJob{}, review.ErrInvalidJob
	}

	job, opened, err := uc.repo.OpenJob(ctx, repo.OpenJobOptions{
		ProjectID:    input.ProjectID,
		ChangeRef:    input.ChangeRef,
		Title:        input.Title,
		SourceBranch: input.SourceBranch,
		TargetBranch: input.TargetBranch,
		Author:       input.Author,
		RequestID:    input.RequestID,
	})
	if err != nil {
		uc.l.Errorf(ctx, "review.usecase.Open.OpenJob: %v", err)
		return model.ReviewJob{}, err
	}
	if !opened {
		uc.l.Infof(ctx, "Review of project %d change %d already %s (job %s)", input.ProjectID, input.ChangeRef, job.Status, job.ID)
		return job, review.ErrJobInFlight
	}
	return job, nil
}
