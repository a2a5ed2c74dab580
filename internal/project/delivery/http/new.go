package http

import (
	"code-review-pipeline/internal/project"
	"code-review-pipeline/pkg/log"
)

type handler struct {
	l  log.Logger
	uc project.UseCase
}

// New creates the HTTP handler for project management.
func New(l log.Logger, uc project.UseCase) *handler {
	return &handler{l: l, uc: uc}
}
