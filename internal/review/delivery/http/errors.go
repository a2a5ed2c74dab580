package http

import (
	"errors"

	"code-review-pipeline/internal/review"
	pkgErrors "code-review-pipeline/pkg/errors"
)

var errInvalidStatus = pkgErrors.NewHTTPError(400, "invalid job status")

func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, review.ErrJobNotFound):
		return pkgErrors.NewHTTPError(404, err.Error())
	case errors.Is(err, review.ErrJobNotCompleted), errors.Is(err, review.ErrJobInFlight):
		return pkgErrors.NewHTTPError(409, err.Error())
	case errors.Is(err, review.ErrInvalidJob):
		return pkgErrors.NewHTTPError(400, err.Error())
	default:
		return pkgErrors.ErrInternalServerError
	}
}
