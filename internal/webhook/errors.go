package webhook

import "errors"

var (
	ErrLogNotFound      = errors.New("webhook log not found")
	ErrMalformedPayload = errors.New("malformed webhook payload")
	ErrInvalidToken     = errors.New("invalid webhook token")
	ErrIPNotAllowed     = errors.New("source address not allowed")
	ErrRateLimited      = errors.New("webhook rate limit exceeded")
)
