// Package common defines shared constants and sentinel errors used across
// the todolist server layers. Callers should use errors.Is to match these
// values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidEmail = fmt.Errorf("%w: malformed email address", ErrInvalidInput)

	// Session token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Identity and authorization.
	ErrUnauthenticated     = errors.New("authentication required")
	ErrAuthorizationDenied = errors.New("authorization denied")

	// Registration and login.
	ErrDuplicateEmail = errors.New("email already registered")
	ErrUnknownEmail   = errors.New("unknown email")
	ErrBadCredential  = errors.New("bad credential")

	// List and task validation.
	ErrTitleConflict        = errors.New("title already used by another of your lists")
	ErrDuplicateTaskContent = errors.New("task with the same content already exists")

	// Password reset.
	ErrResetNotRequested            = errors.New("no reset code requested")
	ErrCodeMismatch                 = errors.New("reset code mismatch")
	ErrCodeExpired                  = errors.New("reset code expired")
	ErrOriginMismatch               = errors.New("request origin mismatch")
	ErrPasswordConfirmationMismatch = errors.New("password confirmation mismatch")
	ErrMailDelivery                 = errors.New("mail delivery failed")
)
