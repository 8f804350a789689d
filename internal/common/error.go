// Package common defines shared constants and sentinel errors used across
// client and server layers of GophDrive. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors. A row owned by another user is reported
	// as ErrorNotFound as well.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorInvalidInput = errors.New("invalid input")
	ErrorConflict     = errors.New("conflict")

	// The transaction was aborted in favour of a concurrent one; nothing was
	// written and the same request may be sent again.
	ErrorConcurrentUpdate = errors.New("concurrent update")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
