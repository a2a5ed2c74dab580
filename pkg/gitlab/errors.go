package gitlab

import (
	"errors"
	"fmt"
)

var (
	ErrTokenRequired = errors.New("gitlab: private token is required")
	ErrNotFound      = errors.New("gitlab: resource not found")
)

// APIError is a non-success answer from the API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gitlab API returned status %d: %s", e.StatusCode, e.Body)
}

// retryable reports whether another attempt may succeed.
func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == 429
	}
	return !errors.Is(err, ErrNotFound)
}
