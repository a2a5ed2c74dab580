package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"code-review-pipeline/internal/model"
)

// waitDelay bounds how long output pipes are drained after the process is killed.
const waitDelay = 5 * time.Second

type commandOutput struct {
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// runCommand runs cli in dir with env as the full environment, bounded by timeout.
func runCommand(ctx context.Context, dir string, env []string, timeout time.Duration, cli string, args ...string) (commandOutput, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return commandOutput{}, fmt.Errorf("working directory does not exist: %s", dir)
		}
	}

	cmd := exec.CommandContext(ctx, cli, args...)
	cmd.Dir = dir
	cmd.Env = env
	cmd.WaitDelay = waitDelay
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	out := commandOutput{Stdout: stdout.String(), Stderr: stderr.String(), Duration: time.Since(start)}

	switch {
	case err == nil:
		return out, nil
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return out, &model.TimeoutError{Op: cli, Bound: timeout}
	case errors.Is(err, exec.ErrNotFound):
		return out, fmt.Errorf("%w: %s", ErrCLINotFound, cli)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return out, &ExitError{Code: exitErr.ExitCode(), Stderr: out.Stderr}
	}
	if errors.Is(err, os.ErrNotExist) {
		return out, fmt.Errorf("%w: %s", ErrCLINotFound, cli)
	}
	return out, err
}

// setEnv returns env with key set to value, replacing any existing entry.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	out := env[:0:0]
	for _, kv := range env {
		if !strings.HasPrefix(kv, prefix) {
			out = append(out, kv)
		}
	}
	return append(out, prefix+value)
}
