package http

import (
	"code-review-pipeline/internal/notification"
	"code-review-pipeline/pkg/log"
)

type handler struct {
	l  log.Logger
	uc notification.UseCase
}

// New creates the HTTP handler for notification channels.
func New(l log.Logger, uc notification.UseCase) *handler {
	return &handler{l: l, uc: uc}
}
