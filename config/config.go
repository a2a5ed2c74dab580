package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"code-review-pipeline/internal/model"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig
	Admin      AdminConfig
	Metrics    MetricsConfig

	// Storage
	Database DatabaseConfig

	// Review pipeline
	Webhook      WebhookConfig
	Pipeline     PipelineConfig
	Workspace    WorkspaceConfig
	Executor     ExecutorConfig
	GitLab       GitLabConfig
	Notification NotificationConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type AdminConfig struct {
	Token string
}

type MetricsConfig struct {
	Enabled bool
}

type DatabaseConfig struct {
	Path string
}

type WebhookConfig struct {
	Secret           string
	AllowedIPs       []string
	RateLimitPerMin  int
	DedupTTL         time.Duration
	LogRetentionDays int
}

type PipelineConfig struct {
	Workers         int
	QueueSize       int
	JobTimeout      time.Duration
	PromptFocus     string
	NotifyOnFailure bool
}

type WorkspaceConfig struct {
	BaseDir       string
	GitTimeout    time.Duration
	RetentionDays int
	SweepInterval time.Duration
}

type ExecutorConfig struct {
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

type ClaudeConfig struct {
	CLIPath            string
	BaseURL            string
	AuthToken          string
	SettingsContent    string
	CredentialsContent string
}

type OpenCodeConfig struct {
	CLIPath       string
	Command       string
	AuthContent   string
	ConfigContent string
	EnvContent    string
}

type GitLabConfig struct {
	URL           string
	Token         string
	RetryAttempts int
	RetryDelay    time.Duration
}

type NotificationConfig struct {
	RatePerMinute  int
	Concurrency    int
	Timeout        time.Duration
	TelegramAPIURL string
	SMTP           SMTPConfig
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, . and /etc/app/
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom reads the given file, or searches the default locations when path is empty.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/app/")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = v.GetString("environment.name")
	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	cfg.HTTPServer.Mode = v.GetString("http_server.mode")
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")
	cfg.Admin.Token = expandEnvVar(v, v.GetString("admin.token"))
	cfg.Metrics.Enabled = v.GetBool("metrics.enabled")

	cfg.Database.Path = v.GetString("database.path")

	// Webhooks
	cfg.Webhook.Secret = expandEnvVar(v, v.GetString("webhook.secret"))
	if webhookSecret := v.GetString("webhook_secret"); webhookSecret != "" {
		cfg.Webhook.Secret = webhookSecret
	}
	cfg.Webhook.AllowedIPs = stringList(v, "webhook.allowed_ips")
	cfg.Webhook.RateLimitPerMin = v.GetInt("webhook.rate_limit_per_min")
	cfg.Webhook.DedupTTL = v.GetDuration("webhook.dedup_ttl")
	cfg.Webhook.LogRetentionDays = v.GetInt("webhook.log_retention_days")

	// Pipeline
	cfg.Pipeline.Workers = v.GetInt("pipeline.workers")
	cfg.Pipeline.QueueSize = v.GetInt("pipeline.queue_size")
	cfg.Pipeline.JobTimeout = v.GetDuration("pipeline.job_timeout")
	cfg.Pipeline.PromptFocus = v.GetString("pipeline.prompt_focus")
	cfg.Pipeline.NotifyOnFailure = v.GetBool("pipeline.notify_on_failure")

	cfg.Workspace.BaseDir = v.GetString("workspace.base_dir")
	cfg.Workspace.GitTimeout = v.GetDuration("workspace.git_timeout")
	cfg.Workspace.RetentionDays = v.GetInt("workspace.retention_days")
	cfg.Workspace.SweepInterval = v.GetDuration("workspace.sweep_interval")

	// Executor
	cfg.Executor.Provider = v.GetString("executor.provider")
	cfg.Executor.Timeout = v.GetDuration("executor.timeout")
	cfg.Executor.Claude.CLIPath = v.GetString("executor.claude.cli_path")
	cfg.Executor.Claude.BaseURL = v.GetString("executor.claude.base_url")
	cfg.Executor.Claude.AuthToken = expandEnvVar(v, v.GetString("executor.claude.auth_token"))
	cfg.Executor.Claude.SettingsContent = v.GetString("executor.claude.settings_content")
	cfg.Executor.Claude.CredentialsContent = expandEnvVar(v, v.GetString("executor.claude.credentials_content"))
	cfg.Executor.OpenCode.CLIPath = v.GetString("executor.opencode.cli_path")
	cfg.Executor.OpenCode.Command = v.GetString("executor.opencode.command")
	cfg.Executor.OpenCode.AuthContent = expandEnvVar(v, v.GetString("executor.opencode.auth_content"))
	cfg.Executor.OpenCode.ConfigContent = v.GetString("executor.opencode.config_content")
	cfg.Executor.OpenCode.EnvContent = v.GetString("executor.opencode.env_content")
	cfg.Executor.Anthropic.APIKey = expandEnvVar(v, v.GetString("executor.anthropic.api_key"))
	cfg.Executor.Anthropic.BaseURL = v.GetString("executor.anthropic.base_url")
	cfg.Executor.Anthropic.Model = v.GetString("executor.anthropic.model")
	cfg.Executor.Anthropic.MaxTokens = v.GetInt("executor.anthropic.max_tokens")

	// Source control
	cfg.GitLab.URL = v.GetString("gitlab.url")
	cfg.GitLab.Token = expandEnvVar(v, v.GetString("gitlab.token"))
	if gitlabToken := v.GetString("gitlab_token"); gitlabToken != "" {
		cfg.GitLab.Token = gitlabToken
	}
	cfg.GitLab.RetryAttempts = v.GetInt("gitlab.retry_attempts")
	cfg.GitLab.RetryDelay = v.GetDuration("gitlab.retry_delay")

	// Notification
	cfg.Notification.RatePerMinute = v.GetInt("notification.rate_per_minute")
	cfg.Notification.Concurrency = v.GetInt("notification.concurrency")
	cfg.Notification.Timeout = v.GetDuration("notification.timeout")
	cfg.Notification.TelegramAPIURL = v.GetString("notification.telegram_api_url")
	cfg.Notification.SMTP.Host = v.GetString("notification.smtp.host")
	cfg.Notification.SMTP.Port = v.GetInt("notification.smtp.port")
	cfg.Notification.SMTP.Username = v.GetString("notification.smtp.username")
	cfg.Notification.SMTP.Password = expandEnvVar(v, v.GetString("notification.smtp.password"))
	cfg.Notification.SMTP.From = v.GetString("notification.smtp.from")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch model.Environment(c.Environment.Name) {
	case model.EnvironmentDevelopment, model.EnvironmentProduction:
	default:
		return &model.ConfigError{Field: "environment.name", Reason: fmt.Sprintf("unknown environment %q", c.Environment.Name)}
	}
	if c.HTTPServer.Port <= 0 {
		return &model.ConfigError{Field: "http_server.port", Reason: "must be positive"}
	}
	if c.Database.Path == "" {
		return &model.ConfigError{Field: "database.path", Reason: "is required"}
	}
	if c.Workspace.BaseDir == "" {
		return &model.ConfigError{Field: "workspace.base_dir", Reason: "is required"}
	}
	if c.Pipeline.Workers <= 0 {
		return &model.ConfigError{Field: "pipeline.workers", Reason: "must be positive"}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", "development")
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.mode", "debug")
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.mode", "development")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", true)
	v.SetDefault("metrics.enabled", true)

	v.SetDefault("database.path", "data/review.db")

	v.SetDefault("webhook.rate_limit_per_min", 120)
	v.SetDefault("webhook.dedup_ttl", "10m")
	v.SetDefault("webhook.log_retention_days", 30)

	v.SetDefault("pipeline.workers", 2)
	v.SetDefault("pipeline.queue_size", 32)
	v.SetDefault("pipeline.job_timeout", "15m")
	v.SetDefault("pipeline.prompt_focus", "default")
	v.SetDefault("pipeline.notify_on_failure", false)

	v.SetDefault("workspace.base_dir", "data/repos")
	v.SetDefault("workspace.git_timeout", "300s")
	v.SetDefault("workspace.retention_days", 7)
	v.SetDefault("workspace.sweep_interval", "6h")

	v.SetDefault("executor.provider", "mock")
	v.SetDefault("executor.timeout", "300s")

	v.SetDefault("gitlab.url", "https://gitlab.com")
	v.SetDefault("gitlab.retry_attempts", 3)
	v.SetDefault("gitlab.retry_delay", "2s")

	v.SetDefault("notification.rate_per_minute", 20)
	v.SetDefault("notification.concurrency", 4)
	v.SetDefault("notification.timeout", "30s")
	v.SetDefault("notification.smtp.port", 587)
}

// stringList reads a YAML list or a comma separated string (as env vars arrive).
func stringList(v *viper.Viper, key string) []string {
	raw := v.GetStringSlice(key)
	if len(raw) == 1 && strings.Contains(raw[0], ",") {
		raw = strings.Split(raw[0], ",")
	}
	var out []string
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(v *viper.Viper, value string) string {
	if value == "" {
		return value
	}

	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		if envValue := v.GetString(envVar); envValue != "" {
			return envValue
		}
		if envValue := v.GetString(strings.ToLower(envVar)); envValue != "" {
			return envValue
		}
		return os.Getenv(envVar)
	}

	return value
}
