package pipeline

import "errors"

var (
	ErrQueueFull    = errors.New("review queue is full")
	ErrShuttingDown = errors.New("pipeline is shutting down")
	ErrNoChangeRef  = errors.New("merge request event has no iid")
)
