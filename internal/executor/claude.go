package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"code-review-pipeline/internal/model"
	"code-review-pipeline/pkg/log"
)

type claudeExecutor struct {
	cfg     ClaudeConfig
	timeout time.Duration
	l       log.Logger
}

// claudeOutput is the single JSON object printed with --output-format json.
type claudeOutput struct {
	Type             string          `json:"type"`
	Subtype          string          `json:"subtype"`
	IsError          bool            `json:"is_error"`
	Result           string          `json:"result"`
	DurationMS       int64           `json:"duration_ms"`
	DurationAPIMS    int64           `json:"duration_api_ms"`
	NumTurns         int             `json:"num_turns"`
	SessionID        string          `json:"session_id"`
	TotalCostUSD     float64         `json:"total_cost_usd"`
	Usage            map[string]any  `json:"usage"`
	Score            *float64        `json:"score"`
	StructuredOutput json.RawMessage `json:"structured_output"`
}

func newClaude(cfg ClaudeConfig, timeout time.Duration, l log.Logger) *claudeExecutor {
	if cfg.CLIPath == "" {
		cfg.CLIPath = DefaultClaudeCLI
	}
	return &claudeExecutor{cfg: cfg, timeout: timeout, l: l}
}

func (e *claudeExecutor) Name() string { return ProviderClaude }

func (e *claudeExecutor) Run(ctx context.Context, in RunInput) (Result, error) {
	if in.WorkDir == "" {
		return Result{}, ErrWorkDirRequired
	}

	home, err := NewHome("claude-home-", map[string]string{
		".claude/settings.json":     e.cfg.SettingsContent,
		".claude/.credentials.json": e.cfg.CredentialsContent,
	})
	if err != nil {
		return Result{}, err
	}
	defer home.Close()

	env := home.Env(os.Environ())
	env = setEnv(env, "CLAUDE_CONFIG_DIR", filepath.Join(home.Dir, ".claude"))
	if e.cfg.BaseURL != "" {
		env = setEnv(env, "ANTHROPIC_BASE_URL", e.cfg.BaseURL)
	}
	if e.cfg.AuthToken != "" {
		env = setEnv(env, "ANTHROPIC_AUTH_TOKEN", e.cfg.AuthToken)
	}

	prompt := in.Prompt
	if in.DiffRange != "" {
		prompt = fmt.Sprintf("Commit range: %s\n\n%s", in.DiffRange, prompt)
	}

	timeout := pickTimeout(in.Timeout, e.timeout)
	e.l.Infof(ctx, "executor.claude.Run: dir=%s range=%s timeout=%s", in.WorkDir, in.DiffRange, timeout)
	out, err := runCommand(ctx, in.WorkDir, env, timeout, e.cfg.CLIPath, "-p", prompt, "--output-format", "json")
	if err != nil {
		e.l.Errorf(ctx, "executor.claude.Run: %v", err)
		return Result{Raw: out.Stdout + out.Stderr, Error: err.Error()}, err
	}
	return parseClaudeOutput(out.Stdout)
}

// parseClaudeOutput decodes the single result object. Leading log lines are tolerated.
func parseClaudeOutput(stdout string) (Result, error) {
	raw := strings.TrimSpace(stdout)
	var data claudeOutput
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		idx := strings.LastIndex(raw, "\n{")
		if idx < 0 || json.Unmarshal([]byte(raw[idx+1:]), &data) != nil {
			perr := &model.ParseError{Raw: raw, Err: err}
			return Result{Raw: raw, Error: perr.Error()}, perr
		}
	}

	meta := map[string]any{
		"type":            data.Type,
		"subtype":         data.Subtype,
		"duration_ms":     data.DurationMS,
		"duration_api_ms": data.DurationAPIMS,
		"num_turns":       data.NumTurns,
		"total_cost_usd":  data.TotalCostUSD,
	}
	if data.Usage != nil {
		meta["usage"] = data.Usage
	}
	if data.SessionID != "" {
		meta["session_id"] = data.SessionID
	}
	if score, ok := structuredScore(data); ok {
		meta["score"] = score
	}

	if data.IsError {
		msg := data.Result
		if msg == "" {
			msg = "unknown error from claude cli"
		}
		return Result{Metadata: meta, Error: msg, Raw: raw}, fmt.Errorf("%w: %s", ErrExecutorReported, msg)
	}
	return Result{Success: true, Content: strings.TrimSpace(data.Result), Metadata: meta, Raw: raw}, nil
}

func structuredScore(data claudeOutput) (int, bool) {
	if data.Score != nil {
		return int(*data.Score), true
	}
	if len(data.StructuredOutput) == 0 {
		return 0, false
	}
	var so struct {
		Score *float64 `json:"score"`
	}
	if json.Unmarshal(data.StructuredOutput, &so) != nil || so.Score == nil {
		return 0, false
	}
	return int(*so.Score), true
}

func pickTimeout(values ...time.Duration) time.Duration {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return DefaultTimeout
}
