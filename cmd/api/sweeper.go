package main

import (
	"context"
	"time"

	"code-review-pipeline/internal/metrics"
	"code-review-pipeline/internal/webhook"
	"code-review-pipeline/internal/workspace"
	"code-review-pipeline/pkg/log"
)

const defaultSweepInterval = 6 * time.Hour

// sweeper periodically removes stale working copies and old webhook logs.
type sweeper struct {
	ws               *workspace.Manager
	webhooks         webhook.UseCase
	rec              metrics.Recorder
	l                log.Logger
	interval         time.Duration
	retentionDays    int
	logRetentionDays int
}

func (s *sweeper) loop(ctx context.Context) {
	interval := s.interval
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.once(ctx)
		}
	}
}

func (s *sweeper) once(ctx context.Context) {
	res, err := s.ws.Sweep(ctx, s.retentionDays)
	if err != nil {
		s.l.Errorf(ctx, "sweeper.Sweep: %v", err)
	} else {
		s.rec.ObserveSweep(res.Count, res.Bytes)
		if res.Count > 0 || res.Skipped > 0 {
			s.l.Infof(ctx, "sweeper: removed %d working copies (%d bytes), %d busy", res.Count, res.Bytes, res.Skipped)
		}
	}

	n, err := s.webhooks.Prune(ctx, s.logRetentionDays)
	if err != nil {
		s.l.Errorf(ctx, "sweeper.Prune: %v", err)
		return
	}
	if n > 0 {
		s.l.Infof(ctx, "sweeper: pruned %d webhook logs", n)
	}
}
