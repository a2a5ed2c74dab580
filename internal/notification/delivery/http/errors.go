package http

import (
	"errors"

	"code-review-pipeline/internal/notification"
	pkgErrors "code-review-pipeline/pkg/errors"
)

func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, notification.ErrChannelNotFound):
		return pkgErrors.NewHTTPError(404, err.Error())
	case errors.Is(err, notification.ErrNameRequired), errors.Is(err, notification.ErrInvalidType):
		return pkgErrors.NewHTTPError(400, err.Error())
	default:
		return pkgErrors.ErrInternalServerError
	}
}
