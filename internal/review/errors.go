package review

import "errors"

var (
	ErrJobNotFound       = errors.New("review job not found")
	ErrJobInFlight       = errors.New("review job already in flight")
	ErrInvalidTransition = errors.New("invalid review job status transition")
	ErrJobNotCompleted   = errors.New("review job has no completed report")
	ErrInvalidJob        = errors.New("review job requires project id and change ref")
)
