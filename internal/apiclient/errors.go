package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Error classes the storefront reacts to differently.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("rejected by backend")
	ErrUnavailable  = errors.New("backend unavailable")
)

// APIError is a non-2xx answer from the remote API.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string // backend-supplied, may be empty
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: %d", e.Method, e.Path, e.Status)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return ErrUnauthorized
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusConflict:
		return ErrConflict
	case e.Status >= 400 && e.Status < 500:
		return ErrValidation
	default:
		return ErrUnavailable
	}
}

// UserMessage picks what to show the shopper: the backend's own message for
// client-side problems, fallback for everything else.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" && apiErr.Status < 500 {
		return apiErr.Message
	}
	return fallback
}
