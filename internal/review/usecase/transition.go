package usecase

import (
	"context"

	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/review"
	repo "code-review-pipeline/internal/review/repository"
)

// Start moves a pending job to processing.
func (uc *implUseCase) Start(ctx context.Context, id string) (model.ReviewJob, error) {
	return uc.transition(ctx, repo.TransitionJobOptions{ID: id, To: model.JobProcessing})
}

// Complete stores the report of a processing job.
func (uc *implUseCase) Complete(ctx context.Context, input review.CompleteInput) (model.ReviewJob, error) {
	return uc.transition(ctx, repo.TransitionJobOptions{
		ID:            input.ID,
		To:            model.JobCompleted,
		Content:       input.Content,
		Score:         input.Score,
		FilesReviewed: input.FilesReviewed,
		TotalFiles:    input.TotalFiles,
		RawOutput:     input.RawOutput,
		Executor:      input.Executor,
		IsMock:        input.IsMock,
	})
}

// Fail marks a pending or processing job failed, keeping the raw diagnostic.
func (uc *implUseCase) Fail(ctx context.Context, input review.FailInput) (model.ReviewJob, error) {
	return uc.transition(ctx, repo.TransitionJobOptions{
		ID:           input.ID,
		To:           model.JobFailed,
		ErrorMessage: input.ErrorMessage,
		RawOutput:    input.RawOutput,
		Executor:     input.Executor,
	})
}

func (uc *implUseCase) transition(ctx context.Context, opt repo.TransitionJobOptions) (model.ReviewJob, error) {
	current, err := uc.Detail(ctx, opt.ID)
	if err != nil {
		return model.ReviewJob{}, err
	}
	if !model.CanTransition(current.Status, opt.To) {
		uc.l.Warnf(ctx, "review.usecase.transition: job %s %s -> %s rejected", opt.ID, current.Status, opt.To)
		return current, review.ErrInvalidTransition
	}

	opt.From = current.Status
	ok, err := uc.repo.TransitionJob(ctx, opt)
	if err != nil {
		uc.l.Errorf(ctx, "review.usecase.transition.TransitionJob: %v", err)
		return model.ReviewJob{}, err
	}
	if !ok {
		// status changed between read and write
		return current, review.ErrInvalidTransition
	}
	return uc.Detail(ctx, opt.ID)
}

// RecordNotification stores the dispatch outcome. It never touches the status.
func (uc *implUseCase) RecordNotification(ctx context.Context, id string, summary model.DispatchSummary) error {
	if err := uc.repo.SetNotificationResult(ctx, id, summary); err != nil {
		uc.l.Errorf(ctx, "review.usecase.RecordNotification.SetNotificationResult: %v", err)
		return err
	}
	return nil
}
