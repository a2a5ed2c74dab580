package executor

import (
	"context"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// Prober reports the version of a reviewer CLI. Concurrent probes of the same
// CLI share one process.
type Prober struct {
	group   singleflight.Group
	timeout time.Duration
}

func NewProber(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Prober{timeout: timeout}
}

// Probe runs `<cli> --version`.
func (p *Prober) Probe(ctx context.Context, cli string) (string, error) {
	v, err, _ := p.group.Do(cli, func() (any, error) {
		out, err := runCommand(ctx, "", os.Environ(), p.timeout, cli, "--version")
		if err != nil {
			return "", err
		}
		version := strings.TrimSpace(out.Stdout)
		if version == "" {
			version = strings.TrimSpace(out.Stderr)
		}
		return version, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// CLIPath returns the binary the configured provider runs, or "" for mock.
func (c Config) CLIPath() string {
	switch c.Provider {
	case ProviderClaude:
		return orDefault(c.Claude.CLIPath, DefaultClaudeCLI)
	case ProviderOpenCode:
		return orDefault(c.OpenCode.CLIPath, DefaultOpenCodeCLI)
	default:
		return ""
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
