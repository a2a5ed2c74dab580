package executor

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"code-review-pipeline/pkg/log"
)

// maxDiffBytes caps the diff sent inline to the Messages API.
const maxDiffBytes = 200 * 1024

// anthropicExecutor reviews the diff of the working copy through the Messages API
// instead of a local agent CLI.
type anthropicExecutor struct {
	api       *anthropic.Client
	model     anthropic.Model
	maxTokens int64
	timeout   time.Duration
	l         log.Logger
}

func newAnthropic(cfg AnthropicConfig, timeout time.Duration, l log.Logger, extra ...option.RequestOption) *anthropicExecutor {
	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	opts = append(opts, extra...)
	client := anthropic.NewClient(opts...)

	model := cfg.Model
	if model == "" {
		model = DefaultAnthropicModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultAnthropicMaxTokens
	}
	return &anthropicExecutor{
		api:       &client,
		model:     anthropic.Model(model),
		maxTokens: int64(maxTokens),
		timeout:   timeout,
		l:         l,
	}
}

func (e *anthropicExecutor) Name() string { return ProviderAnthropic }

func (e *anthropicExecutor) Run(ctx context.Context, in RunInput) (Result, error) {
	if in.WorkDir == "" {
		return Result{}, ErrWorkDirRequired
	}
	timeout := pickTimeout(in.Timeout, e.timeout)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	diff, err := e.diff(ctx, in)
	if err != nil {
		e.l.Errorf(ctx, "executor.anthropic.Run.diff: %v", err)
		return Result{Error: err.Error()}, err
	}

	var user strings.Builder
	if in.DiffRange != "" {
		fmt.Fprintf(&user, "Commit range: %s\n\n", in.DiffRange)
	}
	user.WriteString("```diff\n")
	user.WriteString(diff)
	user.WriteString("\n```\n")

	e.l.Infof(ctx, "executor.anthropic.Run: model=%s range=%s diff=%d bytes", e.model, in.DiffRange, len(diff))
	start := time.Now()
	msg, err := e.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     e.model,
		MaxTokens: e.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: in.Prompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user.String())),
		},
	})
	if err != nil {
		e.l.Errorf(ctx, "executor.anthropic.Run: %v", err)
		return Result{Error: err.Error()}, fmt.Errorf("anthropic API call: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	meta := map[string]any{
		"model":         string(msg.Model),
		"stop_reason":   string(msg.StopReason),
		"input_tokens":  msg.Usage.InputTokens,
		"output_tokens": msg.Usage.OutputTokens,
		"duration_ms":   time.Since(start).Milliseconds(),
	}
	content := strings.TrimSpace(text.String())
	return Result{Success: true, Content: content, Metadata: meta, Raw: content}, nil
}

// diff reads the change under review from the working copy.
func (e *anthropicExecutor) diff(ctx context.Context, in RunInput) (string, error) {
	if in.DiffRange == "" {
		return "", nil
	}
	out, err := runCommand(ctx, in.WorkDir, os.Environ(), e.timeout, "git", "diff", in.DiffRange)
	if err != nil {
		return "", err
	}
	d := out.Stdout
	if len(d) > maxDiffBytes {
		d = d[:maxDiffBytes] + "\n... diff truncated ..."
	}
	return d, nil
}
