package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/pipeline"
)

type task struct {
	ctx     context.Context
	jobID   string
	project model.Project
	event   model.Event
}

// submit enqueues t without blocking.
func (uc *implUseCase) submit(t task) error {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if uc.closed {
		return pipeline.ErrShuttingDown
	}
	select {
	case uc.queue <- t:
		uc.rec.SetQueueDepth(len(uc.queue))
		return nil
	default:
		return pipeline.ErrQueueFull
	}
}

func (uc *implUseCase) worker() {
	defer uc.wg.Done()
	for t := range uc.queue {
		uc.rec.SetQueueDepth(len(uc.queue))
		uc.run(t)
	}
}

// terminalWriteTimeout bounds the state writes made after a job's own deadline.
const terminalWriteTimeout = 10 * time.Second

func (uc *implUseCase) run(t task) {
	ctx, cancel := context.WithTimeout(t.ctx, uc.cfg.JobTimeout)
	defer cancel()
	started := uc.now()
	defer func() {
		if r := recover(); r != nil {
			uc.l.Errorf(ctx, "pipeline.usecase.run: job %s panicked: %v", t.jobID, r)
			uc.fail(ctx, t, uc.jobContext(t), fmt.Errorf("panic: %v", r))
			uc.rec.ObserveJob(string(model.JobFailed), uc.exe.Name(), uc.now().Sub(started))
		}
	}()

	unlock := uc.keys.Lock(model.JobKey{ProjectID: t.project.ID, ChangeRef: t.event.ChangeRef()})
	defer unlock()
	uc.process(ctx, t)
}

// detached returns a context for terminal writes that survives the job deadline.
func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), terminalWriteTimeout)
}

// keyedMutex serializes work per job key. Entries are dropped when unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[model.JobKey]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[model.JobKey]*keyedEntry)}
}

func (k *keyedMutex) Lock(key model.JobKey) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &keyedEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
