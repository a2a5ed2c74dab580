package http

import (
	"code-review-pipeline/internal/webhook"
	"code-review-pipeline/pkg/log"
)

// maxBodyBytes bounds an inbound delivery.
const maxBodyBytes = 5 << 20

type handler struct {
	l        log.Logger
	uc       webhook.UseCase
	security *webhook.SecurityValidator
}

// New creates the HTTP handler for webhook ingress and webhook logs.
func New(l log.Logger, uc webhook.UseCase, security webhook.SecurityConfig) *handler {
	return &handler{l: l, uc: uc, security: webhook.NewSecurityValidator(security)}
}
