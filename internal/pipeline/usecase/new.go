package usecase

import (
	"context"
	"sync"
	"time"

	"code-review-pipeline/internal/executor"
	"code-review-pipeline/internal/metrics"
	"code-review-pipeline/internal/notification"
	"code-review-pipeline/internal/pipeline"
	"code-review-pipeline/internal/project"
	"code-review-pipeline/internal/review"
	"code-review-pipeline/internal/rule"
	"code-review-pipeline/pkg/log"
)

// Deps are the collaborators of the pipeline.
type Deps struct {
	Projects   project.UseCase
	Rules      rule.UseCase
	Reviews    review.UseCase
	Dispatcher notification.Dispatcher
	SCM        pipeline.SourceControl
	Workspace  pipeline.Workspace
	Executor   executor.Executor
	Metrics    metrics.Recorder
}

type implUseCase struct {
	projects   project.UseCase
	rules      rule.UseCase
	reviews    review.UseCase
	dispatcher notification.Dispatcher
	scm        pipeline.SourceControl
	ws         pipeline.Workspace
	exe        executor.Executor
	rec        metrics.Recorder
	cfg        pipeline.Config
	l          log.Logger
	now        func() time.Time

	keys  *keyedMutex
	queue chan task
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// New creates the pipeline and starts its workers.
func New(d Deps, cfg pipeline.Config, l log.Logger) pipeline.UseCase {
	if cfg.Workers <= 0 {
		cfg.Workers = pipeline.DefaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = pipeline.DefaultQueueSize
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = pipeline.DefaultJobTimeout
	}
	if cfg.ExecutorTimeout <= 0 {
		cfg.ExecutorTimeout = executor.DefaultTimeout
	}
	rec := d.Metrics
	if rec == nil {
		rec = metrics.NewNop()
	}

	uc := &implUseCase{
		projects:   d.Projects,
		rules:      d.Rules,
		reviews:    d.Reviews,
		dispatcher: d.Dispatcher,
		scm:        d.SCM,
		ws:         d.Workspace,
		exe:        d.Executor,
		rec:        rec,
		cfg:        cfg,
		l:          l,
		now:        time.Now,
		keys:       newKeyedMutex(),
		queue:      make(chan task, cfg.QueueSize),
	}
	for i := 0; i < cfg.Workers; i++ {
		uc.wg.Add(1)
		go uc.worker()
	}
	return uc
}

// Shutdown closes the queue and waits for the workers to drain it.
func (uc *implUseCase) Shutdown(ctx context.Context) error {
	uc.mu.Lock()
	if !uc.closed {
		uc.closed = true
		close(uc.queue)
	}
	uc.mu.Unlock()

	done := make(chan struct{})
	go func() {
		uc.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
