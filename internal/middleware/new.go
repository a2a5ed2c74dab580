package middleware

import (
	"code-review-pipeline/pkg/log"
)

// Middleware bundles the gin middlewares shared by every admin route.
type Middleware struct {
	l          log.Logger
	adminToken string
}

// New creates the middleware set. An empty adminToken disables Auth.
func New(l log.Logger, adminToken string) Middleware {
	return Middleware{
		l:          l,
		adminToken: adminToken,
	}
}
