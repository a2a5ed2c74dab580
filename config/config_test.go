package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code-review-pipeline/internal/model"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(writeFile(t, "environment:\n  name: development\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPServer.Port)
	assert.Equal(t, 2, cfg.Pipeline.Workers)
	assert.Equal(t, 32, cfg.Pipeline.QueueSize)
	assert.Equal(t, 15*time.Minute, cfg.Pipeline.JobTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Webhook.DedupTTL)
	assert.Equal(t, 120, cfg.Webhook.RateLimitPerMin)
	assert.Equal(t, "mock", cfg.Executor.Provider)
	assert.Equal(t, 300*time.Second, cfg.Executor.Timeout)
	assert.Equal(t, 7, cfg.Workspace.RetentionDays)
	assert.Equal(t, 587, cfg.Notification.SMTP.Port)
	assert.Empty(t, cfg.Webhook.AllowedIPs)
}

func TestLoadFrom_File(t *testing.T) {
	t.Setenv("REVIEW_GITLAB_TOKEN", "glpat-secret")
	cfg, err := LoadFrom(writeFile(t, `
environment:
  name: production
http_server:
  port: 9000
webhook:
  secret: hook-secret
  allowed_ips: "10.0.0.0/8, 192.168.1.5"
pipeline:
  workers: 4
  job_timeout: 20m
  notify_on_failure: true
executor:
  provider: claude_cli
  claude:
    cli_path: /usr/local/bin/claude
gitlab:
  url: https://git.example.com
  token: ${REVIEW_GITLAB_TOKEN}
`))
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment.Name)
	assert.Equal(t, 9000, cfg.HTTPServer.Port)
	assert.Equal(t, "hook-secret", cfg.Webhook.Secret)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.5"}, cfg.Webhook.AllowedIPs)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.Equal(t, 20*time.Minute, cfg.Pipeline.JobTimeout)
	assert.True(t, cfg.Pipeline.NotifyOnFailure)
	assert.Equal(t, "claude_cli", cfg.Executor.Provider)
	assert.Equal(t, "/usr/local/bin/claude", cfg.Executor.Claude.CLIPath)
	assert.Equal(t, "glpat-secret", cfg.GitLab.Token)
}

func TestLoadFrom_YAMLList(t *testing.T) {
	cfg, err := LoadFrom(writeFile(t, "webhook:\n  allowed_ips:\n    - 10.1.0.0/16\n    - ::1\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"10.1.0.0/16", "::1"}, cfg.Webhook.AllowedIPs)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := map[string]struct {
		body  string
		field string
	}{
		"unknown environment": {body: "environment:\n  name: staging\n", field: "environment.name"},
		"zero workers":        {body: "pipeline:\n  workers: 0\n", field: "pipeline.workers"},
		"negative port":       {body: "http_server:\n  port: -1\n", field: "http_server.port"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom(writeFile(t, tc.body))
			var cfgErr *model.ConfigError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, tc.field, cfgErr.Field)
		})
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("SOME_TOKEN", "abc")
	v := viper.New()
	v.AutomaticEnv()

	assert.Equal(t, "abc", expandEnvVar(v, "${SOME_TOKEN}"))
	assert.Equal(t, "", expandEnvVar(v, "${UNSET_TOKEN_FOR_TEST}"))
	assert.Equal(t, "plain", expandEnvVar(v, "plain"))
	assert.Equal(t, "", expandEnvVar(v, ""))
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
