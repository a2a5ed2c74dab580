package http

import (
	"github.com/gin-gonic/gin"

	"code-review-pipeline/internal/middleware"
)

// RegisterRoutes maps /rules endpoints. Every route requires the admin token.
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	rules := rg.Group("/rules", mw.Auth())
	{
		rules.POST("", h.Create)
		rules.GET("", h.List)
		rules.POST("/defaults", h.EnsureDefaults)
		rules.GET("/:id", h.Detail)
		rules.PUT("/:id", h.Update)
		rules.DELETE("/:id", h.Delete)
	}
}
