package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 10

// bcrypt ignores everything past 72 bytes, so longer inputs are rejected
// instead of silently truncated.
const maxPasswordBytes = 72

// HashPassword creates a bcrypt digest of the password.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrPasswordRequired
	}
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", &HashingError{Err: err}
	}
	return string(hash), nil
}

// CheckPassword compares a password with its digest. A mismatch is reported
// as (false, nil); only a malformed digest produces an error.
func CheckPassword(password, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, &HashingError{Err: err}
}
