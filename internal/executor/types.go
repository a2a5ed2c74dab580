package executor

import "time"

const (
	ProviderClaude   = "claude_cli"
	ProviderOpenCode = "opencode_cli"
	ProviderMock     = "mock"
	// ProviderAnthropic calls the Messages API directly with the diff inline.
	ProviderAnthropic = "anthropic_api"

	DefaultTimeout      = 300 * time.Second
	DefaultProbeTimeout = 10 * time.Second
	DefaultClaudeCLI    = "claude"
	DefaultOpenCodeCLI  = "opencode"
	DefaultOpenCodeCmd  = "review"

	DefaultAnthropicModel     = "claude-sonnet-4-5"
	DefaultAnthropicMaxTokens = 8192
)

type RunInput struct {
	WorkDir   string
	Prompt    string
	DiffRange string
	Timeout   time.Duration
}

type Result struct {
	Success  bool
	Content  string
	Metadata map[string]any
	Error    string
	Raw      string
}

// Config selects and configures the executor.
type Config struct {
	Provider  string
	Timeout   time.Duration
	Claude    ClaudeConfig
	OpenCode  OpenCodeConfig
	Anthropic AnthropicConfig
}

type AnthropicConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

// ClaudeConfig configures the claude CLI. SettingsContent and CredentialsContent
// are written into the config dir of each run's isolated home.
type ClaudeConfig struct {
	CLIPath            string
	BaseURL            string
	AuthToken          string
	SettingsContent    string
	CredentialsContent string
}

// OpenCodeConfig carries file contents written into the isolated home.
// EnvContent is dotenv text merged into the process environment.
type OpenCodeConfig struct {
	CLIPath       string
	Command       string
	AuthContent   string
	ConfigContent string
	EnvContent    string
}
