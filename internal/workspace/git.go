package workspace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"code-review-pipeline/internal/model"
)

// Runner runs one git command in dir and returns its trimmed stdout.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

type execRunner struct {
	timeout time.Duration
}

// NewExecRunner returns a Runner that shells out to the git binary.
func NewExecRunner(timeout time.Duration) Runner {
	if timeout <= 0 {
		timeout = DefaultGitTimeout
	}
	return execRunner{timeout: timeout}
}

func (r execRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	cmd.WaitDelay = 5 * time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", &model.TimeoutError{Op: "git " + subcommand(args), Bound: r.timeout}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("git %s: %s", subcommand(args), strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("git %s: %w", subcommand(args), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

func subcommand(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
