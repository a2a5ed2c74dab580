package http

import (
	"code-review-pipeline/internal/rule"
	"code-review-pipeline/pkg/log"
)

type handler struct {
	l  log.Logger
	uc rule.UseCase
}

// New creates the HTTP handler for event rules.
func New(l log.Logger, uc rule.UseCase) *handler {
	return &handler{l: l, uc: uc}
}
