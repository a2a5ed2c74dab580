package executor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCLINotFound      = errors.New("executor: cli not found")
	ErrUnknownProvider  = errors.New("executor: unknown provider")
	ErrExecutorReported = errors.New("executor: reviewer reported an error")
	ErrWorkDirRequired  = errors.New("executor: work dir is required")
)

// ExitError is a non-zero exit of the reviewer process.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if len(msg) > 500 {
		msg = msg[:500] + "..."
	}
	if msg == "" {
		return fmt.Sprintf("executor: exit status %d", e.Code)
	}
	return fmt.Sprintf("executor: exit status %d: %s", e.Code, msg)
}
