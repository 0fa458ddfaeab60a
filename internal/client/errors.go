package client

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrUnavailable = errors.New("server unavailable")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func newAPIError(status int, message string) *APIError {
	if message == "" {
		message = http.StatusText(status)
	}
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	return &APIError{Status: status, Message: message}
}
