package http

import (
	"github.com/gin-gonic/gin"

	"code-review-pipeline/internal/middleware"
)

// RegisterRoutes maps /jobs endpoints.
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	jobs := rg.Group("/jobs", mw.Auth())
	{
		jobs.GET("", h.List)
		jobs.GET("/stats", h.Stats)
		jobs.GET("/:id", h.Detail)
		jobs.POST("/:id/notify", h.Redispatch)
	}
}
