package http

import (
	"errors"

	"code-review-pipeline/internal/project"
	pkgErrors "code-review-pipeline/pkg/errors"
)

var errInvalidID = pkgErrors.NewHTTPError(400, "invalid project id")

func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return pkgErrors.NewHTTPError(404, err.Error())
	case errors.Is(err, project.ErrInvalidProject):
		return pkgErrors.NewHTTPError(400, err.Error())
	default:
		return pkgErrors.ErrInternalServerError
	}
}
