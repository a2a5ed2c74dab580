package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"code-review-pipeline/config"
	"code-review-pipeline/internal/executor"
	"code-review-pipeline/internal/httpserver"
	"code-review-pipeline/internal/metrics"
	"code-review-pipeline/internal/notification/channel"
	notificationRepo "code-review-pipeline/internal/notification/repository/sqlite"
	notificationUC "code-review-pipeline/internal/notification/usecase"
	"code-review-pipeline/internal/pipeline"
	pipelineUC "code-review-pipeline/internal/pipeline/usecase"
	projectRepo "code-review-pipeline/internal/project/repository/sqlite"
	projectUC "code-review-pipeline/internal/project/usecase"
	reviewRepo "code-review-pipeline/internal/review/repository/sqlite"
	reviewUC "code-review-pipeline/internal/review/usecase"
	ruleRepo "code-review-pipeline/internal/rule/repository/sqlite"
	ruleUC "code-review-pipeline/internal/rule/usecase"
	"code-review-pipeline/internal/store"
	"code-review-pipeline/internal/webhook"
	webhookRepo "code-review-pipeline/internal/webhook/repository/sqlite"
	webhookUC "code-review-pipeline/internal/webhook/usecase"
	"code-review-pipeline/internal/workspace"
	"code-review-pipeline/pkg/gitlab"
	"code-review-pipeline/pkg/log"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "Server exited with error: ", err)
		os.Exit(1)
	}
	logger.Info(ctx, "Server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger log.Logger) error {
	logger.Info(ctx, "Starting code review pipeline...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Storage
	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := store.Migrate(ctx, db); err != nil {
		return err
	}

	// 4. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	var rec metrics.Recorder = metrics.NewNop()
	var gatherer prometheus.Gatherer
	if cfg.Metrics.Enabled {
		rec = metrics.NewPrometheusRecorder(registry)
		gatherer = registry
	}

	// 5. Domains
	projects := projectUC.New(projectRepo.New(db, logger), logger)
	rules := ruleUC.New(ruleRepo.New(db, logger), logger)
	reviews := reviewUC.New(reviewRepo.New(db, logger), logger)

	seeded, err := rules.EnsureDefaults(ctx)
	if err != nil {
		return fmt.Errorf("seed default rules: %w", err)
	}
	logger.Infof(ctx, "Rules: %d built-in, %d created", seeded.Total, seeded.Created)

	gl, err := gitlab.New(cfg.GitLab.URL, cfg.GitLab.Token)
	if err != nil {
		return err
	}
	gl = gl.WithRetry(cfg.GitLab.RetryAttempts, cfg.GitLab.RetryDelay)

	notifications := notificationUC.New(notificationRepo.New(db, logger), notificationUC.Config{
		Deps: channel.Deps{
			HTTPClient: &http.Client{Timeout: cfg.Notification.Timeout},
			Notes:      gl,
			SMTP: channel.SMTPConfig{
				Host:     cfg.Notification.SMTP.Host,
				Port:     cfg.Notification.SMTP.Port,
				Username: cfg.Notification.SMTP.Username,
				Password: cfg.Notification.SMTP.Password,
				From:     cfg.Notification.SMTP.From,
			},
			TelegramBaseURL: cfg.Notification.TelegramAPIURL,
		},
		RatePerMinute: cfg.Notification.RatePerMinute,
		Concurrency:   cfg.Notification.Concurrency,
		Metrics:       rec,
	}, logger)

	exeCfg := executorConfig(cfg)
	exe, err := executor.New(exeCfg, logger)
	if err != nil {
		return err
	}
	logger.Infof(ctx, "Executor: %s", exe.Name())

	ws, err := workspace.New(workspace.Config{
		BaseDir:    cfg.Workspace.BaseDir,
		GitTimeout: cfg.Workspace.GitTimeout,
	}, workspace.NewExecRunner(cfg.Workspace.GitTimeout), logger)
	if err != nil {
		return err
	}

	pipe := pipelineUC.New(pipelineUC.Deps{
		Projects:   projects,
		Rules:      rules,
		Reviews:    reviews,
		Dispatcher: notifications,
		SCM:        gl,
		Workspace:  ws,
		Executor:   exe,
		Metrics:    rec,
	}, pipeline.Config{
		Workers:         cfg.Pipeline.Workers,
		QueueSize:       cfg.Pipeline.QueueSize,
		JobTimeout:      cfg.Pipeline.JobTimeout,
		ExecutorTimeout: cfg.Executor.Timeout,
		PromptFocus:     cfg.Pipeline.PromptFocus,
		NotifyOnFailure: cfg.Pipeline.NotifyOnFailure,
		GitToken:        cfg.GitLab.Token,
	}, logger)

	webhookLogs := webhookRepo.New(db, logger)
	webhooks := webhookUC.New(webhookLogs, pipe, cfg.Webhook.DedupTTL, rec, logger)

	// 6. Housekeeping
	sw := &sweeper{
		ws:               ws,
		webhooks:         webhooks,
		rec:              rec,
		l:                logger,
		interval:         cfg.Workspace.SweepInterval,
		retentionDays:    cfg.Workspace.RetentionDays,
		logRetentionDays: cfg.Webhook.LogRetentionDays,
	}
	go sw.loop(ctx)

	// 7. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:        logger,
		Port:          cfg.HTTPServer.Port,
		Mode:          cfg.HTTPServer.Mode,
		Environment:   cfg.Environment.Name,
		AdminToken:    cfg.Admin.Token,
		Projects:      projects,
		Rules:         rules,
		Reviews:       reviews,
		Notifications: notifications,
		Pipeline:      pipe,
		Webhooks:      webhooks,
		WebhookSecurity: webhook.SecurityConfig{
			Secret:          cfg.Webhook.Secret,
			AllowedIPs:      cfg.Webhook.AllowedIPs,
			RateLimitPerMin: cfg.Webhook.RateLimitPerMin,
		},
		Executor: exeCfg,
		Prober:   executor.NewProber(executor.DefaultProbeTimeout),
		Repos:    ws,
		Gatherer: gatherer,
		Ready:    db.PingContext,
	})
	if err != nil {
		return fmt.Errorf("initialize HTTP server: %w", err)
	}

	// 8. Run
	serveErr := httpServer.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Pipeline.JobTimeout)
	defer cancel()
	logger.Info(shutdownCtx, "Draining review queue...")
	if err := pipe.Shutdown(shutdownCtx); err != nil {
		logger.Warnf(shutdownCtx, "Review queue not drained: %v", err)
	}
	return serveErr
}

func executorConfig(cfg *config.Config) executor.Config {
	return executor.Config{
		Provider: cfg.Executor.Provider,
		Timeout:  cfg.Executor.Timeout,
		Claude: executor.ClaudeConfig{
			CLIPath:            cfg.Executor.Claude.CLIPath,
			BaseURL:            cfg.Executor.Claude.BaseURL,
			AuthToken:          cfg.Executor.Claude.AuthToken,
			SettingsContent:    cfg.Executor.Claude.SettingsContent,
			CredentialsContent: cfg.Executor.Claude.CredentialsContent,
		},
		OpenCode: executor.OpenCodeConfig{
			CLIPath:       cfg.Executor.OpenCode.CLIPath,
			Command:       cfg.Executor.OpenCode.Command,
			AuthContent:   cfg.Executor.OpenCode.AuthContent,
			ConfigContent: cfg.Executor.OpenCode.ConfigContent,
			EnvContent:    cfg.Executor.OpenCode.EnvContent,
		},
		Anthropic: executor.AnthropicConfig{
			APIKey:    cfg.Executor.Anthropic.APIKey,
			BaseURL:   cfg.Executor.Anthropic.BaseURL,
			Model:     cfg.Executor.Anthropic.Model,
			MaxTokens: cfg.Executor.Anthropic.MaxTokens,
		},
	}
}
