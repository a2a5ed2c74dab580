package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"code-review-pipeline/internal/executor"
	"code-review-pipeline/pkg/response"
)

const (
	HealthVersion = "1.0.0"
	ServiceName   = "code-review-pipeline"
)

func (srv *HTTPServer) healthCheck(c *gin.Context) {
	provider := srv.executorCfg.Provider
	if provider == "" {
		provider = executor.ProviderMock
	}
	response.OK(c, gin.H{
		"status":      "healthy",
		"version":     HealthVersion,
		"service":     ServiceName,
		"environment": srv.environment,
		"executor":    provider,
	})
}

// readyCheck reports 503 until the configured readiness probe passes.
func (srv *HTTPServer) readyCheck(c *gin.Context) {
	if srv.ready != nil {
		if err := srv.ready(c.Request.Context()); err != nil {
			srv.l.Warnf(c.Request.Context(), "httpserver.readyCheck: %v", err)
			c.JSON(http.StatusServiceUnavailable, response.Resp{
				ErrorCode: http.StatusServiceUnavailable,
				Message:   "not ready",
				Data:      gin.H{"status": "not_ready", "service": ServiceName},
			})
			return
		}
	}
	response.OK(c, gin.H{
		"status":  "ready",
		"version": HealthVersion,
		"service": ServiceName,
	})
}

func (srv *HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"version": HealthVersion,
		"service": ServiceName,
	})
}
