package usecase

import (
	"context"

	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/review"
	repo "code-review-pipeline/internal/review/repository"
)

func (uc *implUseCase) Detail(ctx context.Context, id string) (model.ReviewJob, error) {
	job, err := uc.repo.GetOneJob(ctx, repo.GetOneJobOptions{ID: id})
	if err != nil {
		uc.l.Errorf(ctx, "review.usecase.Detail.GetOneJob: %v", err)
		return model.ReviewJob{}, err
	}
	if job.ID == "" {
		return model.ReviewJob{}, review.ErrJobNotFound
	}
	return job, nil
}

func (uc *implUseCase) List(ctx context.Context, input review.ListInput) (review.ListOutput, error) {
	jobs, total, err := uc.repo.ListJobs(ctx, repo.ListJobsOptions{
		ProjectID: input.ProjectID,
		Status:    input.Status,
		Limit:     input.Limit,
		Offset:    input.Offset,
	})
	if err != nil {
		uc.l.Errorf(ctx, "review.usecase.List.ListJobs: %v", err)
		return review.ListOutput{}, err
	}
	return review.ListOutput{Jobs: jobs, Total: total, Limit: input.Limit, Offset: input.Offset}, nil
}

func (uc *implUseCase) Stats(ctx context.Context, projectID int64) (review.StatsOutput, error) {
	counts, err := uc.repo.CountJobs(ctx, projectID)
	if err != nil {
		uc.l.Errorf(ctx, "review.usecase.Stats.CountJobs: %v", err)
		return review.StatsOutput{}, err
	}
	return review.StatsOutput{
		Total:        counts.Total,
		ByStatus:     counts.ByStatus,
		AverageScore: counts.AverageScore,
		Notified:     counts.Notified,
	}, nil
}
