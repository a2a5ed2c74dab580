package http

import (
	"errors"

	"code-review-pipeline/internal/rule"
	pkgErrors "code-review-pipeline/pkg/errors"
)

func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, rule.ErrRuleNotFound):
		return pkgErrors.NewHTTPError(404, err.Error())
	case errors.Is(err, rule.ErrDuplicatePattern):
		return pkgErrors.NewHTTPError(409, err.Error())
	case errors.Is(err, rule.ErrInvalidPattern), errors.Is(err, rule.ErrNameRequired):
		return pkgErrors.NewHTTPError(400, err.Error())
	default:
		return pkgErrors.ErrInternalServerError
	}
}
