package httpserver

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"code-review-pipeline/internal/executor"
	"code-review-pipeline/internal/notification"
	"code-review-pipeline/internal/pipeline"
	"code-review-pipeline/internal/project"
	"code-review-pipeline/internal/review"
	"code-review-pipeline/internal/rule"
	"code-review-pipeline/internal/webhook"
	"code-review-pipeline/internal/workspace"
	"code-review-pipeline/pkg/log"
)

// Prober reports the version of a reviewer CLI. *executor.Prober implements it.
type Prober interface {
	Probe(ctx context.Context, cli string) (string, error)
}

// RepoInspector reads the state of a working copy. *workspace.Manager implements it.
type RepoInspector interface {
	Path(projectID int64) string
	Info(ctx context.Context, path string) workspace.RepoInfo
}

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string
	adminToken  string

	projects      project.UseCase
	rules         rule.UseCase
	reviews       review.UseCase
	notifications notification.UseCase
	pipeline      pipeline.UseCase
	webhooks      webhook.UseCase
	security      webhook.SecurityConfig

	executorCfg executor.Config
	prober      Prober
	repos       RepoInspector
	gatherer    prometheus.Gatherer
	ready       func(ctx context.Context) error
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string
	// AdminToken guards every admin route; empty disables the check.
	AdminToken string

	Projects        project.UseCase
	Rules           rule.UseCase
	Reviews         review.UseCase
	Notifications   notification.UseCase
	Pipeline        pipeline.UseCase
	Webhooks        webhook.UseCase
	WebhookSecurity webhook.SecurityConfig

	Executor executor.Config
	Prober   Prober
	Repos    RepoInspector

	// Gatherer backs /metrics; nil disables the route.
	Gatherer prometheus.Gatherer
	// Ready backs /ready; nil always reports ready.
	Ready func(ctx context.Context) error
}

// New creates a new HTTPServer instance with every route mapped.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:             logger,
		gin:           gin.New(),
		port:          cfg.Port,
		mode:          cfg.Mode,
		environment:   cfg.Environment,
		adminToken:    cfg.AdminToken,
		projects:      cfg.Projects,
		rules:         cfg.Rules,
		reviews:       cfg.Reviews,
		notifications: cfg.Notifications,
		pipeline:      cfg.Pipeline,
		webhooks:      cfg.Webhooks,
		security:      cfg.WebhookSecurity,
		executorCfg:   cfg.Executor,
		prober:        cfg.Prober,
		repos:         cfg.Repos,
		gatherer:      cfg.Gatherer,
		ready:         cfg.Ready,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}
	srv.mapHandlers()
	return srv, nil
}

// Handler exposes the router, mainly for tests.
func (srv *HTTPServer) Handler() *gin.Engine {
	return srv.gin
}

func (srv *HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	return nil
}
