package usecase

import (
	"context"

	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/webhook"
	repo "code-review-pipeline/internal/webhook/repository"
)

func (uc *implUseCase) List(ctx context.Context, input webhook.ListInput) (webhook.ListOutput, error) {
	logs, total, err := uc.repo.ListLogs(ctx, repo.ListLogsOptions{
		ProjectID:  input.ProjectID,
		EventType:  input.EventType,
		SkipReason: input.SkipReason,
		Limit:      input.Limit,
		Offset:     input.Offset,
	})
	if err != nil {
		uc.l.Errorf(ctx, "webhook.usecase.List.ListLogs: %v", err)
		return webhook.ListOutput{}, err
	}
	return webhook.ListOutput{Logs: logs, Total: total, Limit: input.Limit, Offset: input.Offset}, nil
}

func (uc *implUseCase) Detail(ctx context.Context, id string) (model.WebhookLog, error) {
	w, err := uc.repo.GetOneLog(ctx, id)
	if err != nil {
		uc.l.Errorf(ctx, "webhook.usecase.Detail.GetOneLog: %v", err)
		return model.WebhookLog{}, err
	}
	if w.ID == "" {
		return model.WebhookLog{}, webhook.ErrLogNotFound
	}
	return w, nil
}

func (uc *implUseCase) Prune(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	n, err := uc.repo.PruneLogs(ctx, retentionDays)
	if err != nil {
		uc.l.Errorf(ctx, "webhook.usecase.Prune.PruneLogs: %v", err)
		return 0, err
	}
	if n > 0 {
		uc.l.Infof(ctx, "webhook.usecase.Prune: removed %d logs older than %d days", n, retentionDays)
	}
	return n, nil
}
