// Package common defines sentinel errors shared by the storage, session and
// HTTP layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound   = errors.New("not found")
	ErrorConflict   = errors.New("already exists")
	ErrorForeignKey = errors.New("row is still referenced")

	// Request-level errors.
	ErrorValidation   = errors.New("validation error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Session token errors.
	ErrNoToken      = errors.New("no token provided")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
