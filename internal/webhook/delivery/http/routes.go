package http

import (
	"github.com/gin-gonic/gin"

	"code-review-pipeline/internal/middleware"
)

// RegisterRoutes maps the GitLab ingress and the /webhook-logs admin endpoints.
// Ingress authenticates with the shared webhook secret, not the admin token.
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	rg.POST("/webhook/gitlab", h.Receive)
	rg.GET("/webhook/gitlab", h.Handshake)

	logs := rg.Group("/webhook-logs", mw.Auth())
	{
		logs.GET("", h.List)
		logs.GET("/:id", h.Detail)
	}
}
