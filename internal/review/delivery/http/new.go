package http

import (
	"code-review-pipeline/internal/review"
	"code-review-pipeline/pkg/log"
)

type handler struct {
	l          log.Logger
	uc         review.UseCase
	dispatcher review.Redispatcher
}

// New creates the HTTP handler for review jobs.
func New(l log.Logger, uc review.UseCase, dispatcher review.Redispatcher) *handler {
	return &handler{l: l, uc: uc, dispatcher: dispatcher}
}
