package auth

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateAccount   = errors.New("account with this email already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("forbidden")
	ErrSecretRequired     = errors.New("token secret is required")

	ErrEmailRequired    = errors.New("email is required")
	ErrEmailInvalid     = errors.New("email is invalid")
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordTooLong  = errors.New("password exceeds maximum length of 72 bytes")
	ErrInvalidRole      = errors.New("invalid role")
)

// HashingError reports a failure of the password hashing primitive itself,
// as opposed to a rejected input.
type HashingError struct {
	Err error
}

func (e *HashingError) Error() string {
	return fmt.Sprintf("password hashing failed: %v", e.Err)
}

func (e *HashingError) Unwrap() error {
	return e.Err
}
