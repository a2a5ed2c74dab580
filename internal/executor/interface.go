package executor

import "context"

// Executor runs an external reviewer against a prepared working copy.
type Executor interface {
	Name() string
	// Run returns a non-nil error on any failure. Result.Raw keeps whatever
	// the reviewer printed so the caller can store it as a diagnostic.
	Run(ctx context.Context, in RunInput) (Result, error)
}
