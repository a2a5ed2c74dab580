package usecase

import (
	"context"

	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/report"
	"code-review-pipeline/internal/review"
)

// Redispatch sends the stored report of a completed job through its project's channels again.
func (uc *implUseCase) Redispatch(ctx context.Context, jobID string) (model.DispatchSummary, error) {
	job, err := uc.reviews.Detail(ctx, jobID)
	if err != nil {
		return model.DispatchSummary{}, err
	}
	if job.Status != model.JobCompleted || job.Content == "" {
		return model.DispatchSummary{}, review.ErrJobNotCompleted
	}

	p, err := uc.projects.Detail(ctx, job.ProjectID)
	if err != nil {
		uc.l.Errorf(ctx, "pipeline.usecase.Redispatch.Detail: %v", err)
		return model.DispatchSummary{}, err
	}

	jc := report.JobContext{
		ProjectName:  p.Name,
		Title:        job.Title,
		Author:       job.Author,
		SourceBranch: job.SourceBranch,
		TargetBranch: job.TargetBranch,
		ChangeRef:    job.ChangeRef,
		Executor:     job.Executor,
		Time:         job.CreatedAt,
	}
	return uc.notify(ctx, job.ID, task{jobID: job.ID, project: p}, jc, report.Title(jc), job.Content), nil
}
