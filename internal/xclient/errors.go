package xclient

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyUsername      = errors.New("empty username")
	ErrUserNotFound       = errors.New("user not found")
	ErrQuotaExhausted     = errors.New("insufficient API credits")
	ErrProfileUnavailable = errors.New("could not fetch user profile")
	ErrRequestTimeout     = errors.New("upstream request timed out")
)

// UpstreamError is a non-success status that has no dedicated sentinel.
type UpstreamError struct {
	Endpoint string
	Status   int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream status %d", e.Endpoint, e.Status)
}
