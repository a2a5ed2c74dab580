package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"code-review-pipeline/pkg/log"
	"code-review-pipeline/pkg/response"
)

const (
	HeaderRequestID  = "X-Request-ID"
	HeaderAdminToken = "X-Admin-Token"
)

// Auth requires the admin token as a bearer token or in X-Admin-Token.
func (mw Middleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if mw.adminToken == "" {
			c.Next()
			return
		}

		token := c.GetHeader(HeaderAdminToken)
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(mw.adminToken)) != 1 {
			mw.l.Warnf(c.Request.Context(), "middleware.Auth: rejected %s %s from %s", c.Request.Method, c.Request.URL.Path, c.ClientIP())
			response.Unauthorized(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequestID attaches a request id to the request context and echoes it back.
func (mw Middleware) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := log.WithRequestID(c.Request.Context(), c.GetHeader(HeaderRequestID))
		c.Request = c.Request.WithContext(ctx)
		c.Header(HeaderRequestID, log.RequestIDFrom(ctx))
		c.Next()
	}
}
