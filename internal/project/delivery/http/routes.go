package http

import (
	"github.com/gin-gonic/gin"

	"code-review-pipeline/internal/middleware"
)

// RegisterRoutes maps /projects endpoints.
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	projects := rg.Group("/projects", mw.Auth())
	{
		projects.GET("", h.List)
		projects.GET("/stats", h.Stats)
		projects.GET("/:id", h.Detail)
		projects.PUT("/:id", h.Update)
		projects.POST("/:id/enable", h.Enable)
		projects.POST("/:id/disable", h.Disable)
	}
}
