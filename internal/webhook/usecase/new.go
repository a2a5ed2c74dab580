package usecase

import (
	"time"

	"code-review-pipeline/internal/metrics"
	"code-review-pipeline/internal/pipeline"
	"code-review-pipeline/internal/webhook"
	repo "code-review-pipeline/internal/webhook/repository"
	"code-review-pipeline/pkg/log"
)

// maxStoredPayload bounds the body kept on a WebhookLog.
const maxStoredPayload = 64 << 10

type implUseCase struct {
	repo       repo.Repository
	pipeline   pipeline.UseCase
	deliveries *webhook.Deliveries
	rec        metrics.Recorder
	l          log.Logger
	now        func() time.Time
}

// New creates the webhook UseCase. dedupTTL <= 0 uses webhook.DefaultDedupTTL.
func New(r repo.Repository, p pipeline.UseCase, dedupTTL time.Duration, rec metrics.Recorder, l log.Logger) webhook.UseCase {
	if rec == nil {
		rec = metrics.NewNop()
	}
	return &implUseCase{
		repo:       r,
		pipeline:   p,
		deliveries: webhook.NewDeliveries(dedupTTL),
		rec:        rec,
		l:          l,
		now:        time.Now,
	}
}
