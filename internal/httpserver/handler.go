package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"code-review-pipeline/internal/middleware"
	"code-review-pipeline/internal/model"
	notificationHTTP "code-review-pipeline/internal/notification/delivery/http"
	projectHTTP "code-review-pipeline/internal/project/delivery/http"
	"code-review-pipeline/internal/review"
	reviewHTTP "code-review-pipeline/internal/review/delivery/http"
	ruleHTTP "code-review-pipeline/internal/rule/delivery/http"
	webhookHTTP "code-review-pipeline/internal/webhook/delivery/http"
)

func (srv *HTTPServer) mapHandlers() {
	mw := middleware.New(srv.l, srv.adminToken)

	srv.registerMiddlewares(mw)
	srv.registerSystemRoutes(mw)
	srv.registerDomainRoutes(srv.gin.Group("/api/v1"), mw)
}

func (srv *HTTPServer) registerMiddlewares(mw middleware.Middleware) {
	srv.gin.Use(gin.Recovery())
	srv.gin.Use(mw.RequestID())

	ctx := context.Background()
	if srv.environment == string(model.EnvironmentProduction) {
		srv.l.Infof(ctx, "httpserver: production mode")
	} else {
		srv.l.Infof(ctx, "httpserver: %s mode", srv.environment)
	}
	if srv.adminToken == "" {
		srv.l.Warnf(ctx, "httpserver: admin token not set, admin routes are open")
	}
}

func (srv *HTTPServer) registerSystemRoutes(mw middleware.Middleware) {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	if srv.gatherer != nil {
		srv.gin.GET("/metrics", gin.WrapH(promhttp.HandlerFor(srv.gatherer, promhttp.HandlerOpts{})))
	}

	system := srv.gin.Group("/api/v1/system", mw.Auth())
	{
		system.GET("/executor", srv.executorProbe)
		system.GET("/repositories/:project_id", srv.repositoryInfo)
	}
}

// registerDomainRoutes wires each domain handler that has a use case configured.
func (srv *HTTPServer) registerDomainRoutes(api *gin.RouterGroup, mw middleware.Middleware) {
	ctx := context.Background()

	if srv.webhooks != nil {
		webhookHTTP.RegisterRoutes(api, webhookHTTP.New(srv.l, srv.webhooks, srv.security), mw)
		srv.l.Infof(ctx, "httpserver: webhook routes registered at /api/v1/webhook/gitlab")
	}
	if srv.projects != nil {
		projectHTTP.RegisterRoutes(api, projectHTTP.New(srv.l, srv.projects), mw)
	}
	if srv.rules != nil {
		ruleHTTP.RegisterRoutes(api, ruleHTTP.New(srv.l, srv.rules), mw)
	}
	if srv.reviews != nil {
		var redispatcher review.Redispatcher
		if srv.pipeline != nil {
			redispatcher = srv.pipeline
		}
		reviewHTTP.RegisterRoutes(api, reviewHTTP.New(srv.l, srv.reviews, redispatcher), mw)
	}
	if srv.notifications != nil {
		notificationHTTP.RegisterRoutes(api, notificationHTTP.New(srv.l, srv.notifications), mw)
	}
}
