package service

import (
	"errors"
	"fmt"
)

// Authentication and authorization failures. Each maps to a distinct
// response at the HTTP boundary.
var (
	ErrMissingCredential        = errors.New("missing credential")
	ErrMalformedHeader          = errors.New("malformed authorization header")
	ErrInvalidOrExpiredToken    = errors.New("invalid or expired token")
	ErrUserNotFound             = errors.New("user not found")
	ErrRefreshSignatureMismatch = errors.New("refresh signature mismatch")
	ErrForbidden                = errors.New("forbidden")
	ErrInvalidCredentials       = errors.New("invalid credentials")
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrEmailTaken       = errors.New("email already taken")
	ErrPasswordMismatch = errors.New("current password is incorrect")
)

// ValidationError describes a rejected request field. It matches ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalidField(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
