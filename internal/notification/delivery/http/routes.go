package http

import (
	"github.com/gin-gonic/gin"

	"code-review-pipeline/internal/middleware"
)

// RegisterRoutes maps /channels endpoints. Every route requires the admin token.
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	channels := rg.Group("/channels", mw.Auth())
	{
		channels.POST("", h.Create)
		channels.GET("", h.List)
		channels.GET("/:id", h.Detail)
		channels.PUT("/:id", h.Update)
		channels.DELETE("/:id", h.Delete)
		channels.POST("/:id/test", h.Test)
	}
}
