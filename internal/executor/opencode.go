package executor

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/subosito/gotenv"

	"code-review-pipeline/internal/model"
	"code-review-pipeline/pkg/log"
)

const maxStreamLine = 1024 * 1024

type openCodeExecutor struct {
	cfg     OpenCodeConfig
	timeout time.Duration
	l       log.Logger
}

// streamEvent is one JSON line of `opencode run --format json`.
type streamEvent struct {
	Type  string          `json:"type"`
	Part  streamPart      `json:"part"`
	Error json.RawMessage `json:"error"`
}

type streamPart struct {
	Text  string `json:"text"`
	Tool  string `json:"tool"`
	State struct {
		Title string `json:"title"`
	} `json:"state"`
}

func newOpenCode(cfg OpenCodeConfig, timeout time.Duration, l log.Logger) *openCodeExecutor {
	if cfg.CLIPath == "" {
		cfg.CLIPath = DefaultOpenCodeCLI
	}
	if cfg.Command == "" {
		cfg.Command = DefaultOpenCodeCmd
	}
	return &openCodeExecutor{cfg: cfg, timeout: timeout, l: l}
}

func (e *openCodeExecutor) Name() string { return ProviderOpenCode }

func (e *openCodeExecutor) args(in RunInput) []string {
	args := []string{"run", "--command", e.cfg.Command, "--format", "json", "--print-logs"}
	var parts []string
	if in.DiffRange != "" {
		parts = append(parts, in.DiffRange)
	}
	if in.Prompt != "" {
		parts = append(parts, in.Prompt)
	}
	if len(parts) > 0 {
		args = append(args, "--", strings.TrimSpace(strings.Join(parts, "\n\n")))
	}
	return args
}

func (e *openCodeExecutor) environment(ctx context.Context, home *Home) []string {
	env := home.Env(os.Environ())
	env = setEnv(env, "OPENCODE_AUTO_SHARE", "0")
	if e.cfg.EnvContent == "" {
		return env
	}
	vars, err := gotenv.StrictParse(strings.NewReader(e.cfg.EnvContent))
	if err != nil {
		e.l.Warnf(ctx, "executor.opencode: env_content ignored: %v", err)
		return env
	}
	for k, v := range vars {
		env = setEnv(env, k, v)
	}
	return env
}

func (e *openCodeExecutor) Run(ctx context.Context, in RunInput) (Result, error) {
	if in.WorkDir == "" {
		return Result{}, ErrWorkDirRequired
	}

	home, err := NewHome("opencode-home-", map[string]string{
		".local/share/opencode/auth.json": e.cfg.AuthContent,
		".config/opencode/opencode.json":  e.cfg.ConfigContent,
	})
	if err != nil {
		return Result{}, err
	}
	defer home.Close()

	timeout := pickTimeout(in.Timeout, e.timeout)
	e.l.Infof(ctx, "executor.opencode.Run: dir=%s range=%s timeout=%s", in.WorkDir, in.DiffRange, timeout)
	out, err := runCommand(ctx, in.WorkDir, e.environment(ctx, home), timeout, e.cfg.CLIPath, e.args(in)...)
	if err != nil {
		e.l.Errorf(ctx, "executor.opencode.Run: %v", err)
		return Result{Raw: out.Stdout + out.Stderr, Error: err.Error()}, err
	}

	res, err := parseStream(strings.NewReader(out.Stdout))
	if res.Metadata != nil {
		res.Metadata["duration_ms"] = out.Duration.Milliseconds()
	}
	return res, err
}

// parseStream aggregates text parts, counts tool uses and fails on the first error event.
func parseStream(r io.Reader) (Result, error) {
	var (
		raw    strings.Builder
		texts  []string
		tools  = map[string]int{}
		events int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxStreamLine)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		raw.WriteString(line)
		raw.WriteByte('\n')
		if line == "" || line[0] != '{' {
			continue
		}
		var ev streamEvent
		if json.Unmarshal([]byte(line), &ev) != nil {
			continue
		}
		events++

		switch ev.Type {
		case "text":
			if ev.Part.Text != "" {
				texts = append(texts, ev.Part.Text)
			}
		case "tool_use":
			name := ev.Part.Tool
			if name == "" {
				name = ev.Part.State.Title
			}
			if name != "" {
				tools[name]++
			}
		case "error":
			msg := string(ev.Error)
			if msg == "" || msg == "null" {
				msg = line
			}
			meta := map[string]any{"type": "result", "subtype": "error", "events_count": events}
			return Result{Metadata: meta, Error: msg, Raw: raw.String()}, fmt.Errorf("%w: %s", ErrExecutorReported, msg)
		}
	}
	if err := scanner.Err(); err != nil {
		perr := &model.ParseError{Raw: raw.String(), Err: err}
		return Result{Raw: raw.String(), Error: perr.Error()}, perr
	}
	if events == 0 {
		perr := &model.ParseError{Raw: raw.String(), Err: fmt.Errorf("no json events in output")}
		return Result{Raw: raw.String(), Error: perr.Error()}, perr
	}

	return Result{
		Success: true,
		Content: strings.TrimSpace(strings.Join(texts, "\n")),
		Metadata: map[string]any{
			"type":         "result",
			"subtype":      "success",
			"events_count": events,
			"tools_used":   tools,
		},
		Raw: raw.String(),
	}, nil
}
