package pipeline

import "time"

// Status is what Handle did with an event.
type Status string

const (
	StatusSkipped   Status = "skipped"
	StatusQueued    Status = "queued"
	StatusCoalesced Status = "coalesced"
	StatusIgnored   Status = "ignored"
	StatusRejected  Status = "rejected"
)

const (
	DefaultWorkers    = 2
	DefaultQueueSize  = 32
	DefaultJobTimeout = 15 * time.Minute
)

// Outcome is the result of handling one event.
type Outcome struct {
	Status     Status
	SkipReason string
	JobID      string
	RuleID     string
	// Detail says why an incomplete event was ignored.
	Detail string
}

// Skipped reports whether the event stopped before a job was created.
func (o Outcome) Skipped() bool { return o.Status == StatusSkipped }

// Config tunes the worker pool and job processing.
type Config struct {
	Workers         int
	QueueSize       int
	JobTimeout      time.Duration
	ExecutorTimeout time.Duration
	// PromptFocus picks the built-in prompt when a project has no custom one.
	PromptFocus string
	// NotifyOnFailure dispatches an error report when a job fails.
	NotifyOnFailure bool
	// GitToken authenticates clones over HTTP(S).
	GitToken string
}
