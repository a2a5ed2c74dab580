package http

import (
	"errors"

	"code-review-pipeline/internal/pipeline"
	"code-review-pipeline/internal/webhook"
	pkgErrors "code-review-pipeline/pkg/errors"
)

var (
	errInvalidToken = pkgErrors.NewHTTPError(401, "invalid webhook token")
	errForbidden    = pkgErrors.NewHTTPError(403, "source address not allowed")
	errBodyTooLarge = pkgErrors.NewHTTPError(413, "webhook body too large")
)

func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, webhook.ErrLogNotFound):
		return pkgErrors.NewHTTPError(404, err.Error())
	case errors.Is(err, pipeline.ErrQueueFull), errors.Is(err, pipeline.ErrShuttingDown):
		return pkgErrors.NewHTTPError(503, err.Error())
	default:
		return pkgErrors.ErrInternalServerError
	}
}
