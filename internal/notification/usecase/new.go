package usecase

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"code-review-pipeline/internal/metrics"
	"code-review-pipeline/internal/notification"
	"code-review-pipeline/internal/notification/channel"
	"code-review-pipeline/internal/notification/repository"
	"code-review-pipeline/pkg/log"
)

const (
	defaultConcurrency = 4
	limiterTTL         = 10 * time.Minute
	limiterCacheSize   = 256
)

// Config tunes delivery. RatePerMinute caps sends per channel; 0 disables the cap.
type Config struct {
	Deps          channel.Deps
	RatePerMinute int
	Concurrency   int
	Metrics       metrics.Recorder
}

type implUseCase struct {
	repo        repository.Repository
	deps        channel.Deps
	rec         metrics.Recorder
	concurrency int
	limiters    *expirable.LRU[string, *rate.Limiter]
	limit       rate.Limit
	burst       int
	l           log.Logger
}

// New creates the notification UseCase.
func New(repo repository.Repository, cfg Config, l log.Logger) notification.UseCase {
	uc := &implUseCase{
		repo:        repo,
		deps:        cfg.Deps,
		rec:         cfg.Metrics,
		concurrency: cfg.Concurrency,
		l:           l,
	}
	if uc.rec == nil {
		uc.rec = metrics.NewNop()
	}
	if uc.concurrency <= 0 {
		uc.concurrency = defaultConcurrency
	}
	if cfg.RatePerMinute > 0 {
		uc.limiters = expirable.NewLRU[string, *rate.Limiter](limiterCacheSize, nil, limiterTTL)
		uc.limit = rate.Limit(float64(cfg.RatePerMinute) / 60.0)
		uc.burst = max(1, cfg.RatePerMinute/10)
	}
	return uc
}

func (uc *implUseCase) limiter(channelID string) *rate.Limiter {
	if uc.limiters == nil {
		return nil
	}
	if lim, ok := uc.limiters.Get(channelID); ok {
		return lim
	}
	lim := rate.NewLimiter(uc.limit, uc.burst)
	uc.limiters.Add(channelID, lim)
	return lim
}
