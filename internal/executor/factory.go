package executor

import (
	"fmt"

	"code-review-pipeline/pkg/log"
)

// New builds the executor selected by cfg.Provider.
func New(cfg Config, l log.Logger) (Executor, error) {
	timeout := pickTimeout(cfg.Timeout)
	switch cfg.Provider {
	case ProviderClaude:
		return newClaude(cfg.Claude, timeout, l), nil
	case ProviderOpenCode:
		return newOpenCode(cfg.OpenCode, timeout, l), nil
	case ProviderAnthropic:
		return newAnthropic(cfg.Anthropic, timeout, l), nil
	case ProviderMock, "":
		return mockExecutor{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
