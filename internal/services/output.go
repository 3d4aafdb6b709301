package services

import (
	"errors"

	"github.com/mrlokans/identity/internal/auth"
	"github.com/mrlokans/identity/internal/entities"
)

// Messages returned to callers in Output.Error.
const (
	MsgDuplicateEmail       = "There is a user with that email already"
	MsgUserNotFound         = "User not found"
	MsgWrongPassword        = "Wrong Password"
	MsgVerificationNotFound = "verification not found"
	MsgProfileNotFound      = "User Not Found"
	MsgForbidden            = "forbidden"
	MsgInternal             = "internal error"
)

// Machine-readable failure codes, used by the transport to pick a status.
const (
	CodeInvalidInput       = "invalid_input"
	CodeDuplicateAccount   = "duplicate_account"
	CodeNotFound           = "not_found"
	CodeInvalidCredentials = "invalid_credentials"
	CodeForbidden          = "forbidden"
	CodeInternal           = "internal"
)

// Output is the result of every account operation. Domain failures are
// reported here and never as a Go error.
type Output struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

type LoginOutput struct {
	Output
	Token string `json:"token,omitempty"`
}

type AccountOutput struct {
	Output
	Account *entities.Account `json:"account,omitempty"`
}

func success() Output {
	return Output{OK: true}
}

func failure(message, code string) Output {
	return Output{OK: false, Error: message, Code: code}
}

func internalFailure() Output {
	return failure(MsgInternal, CodeInternal)
}

// isInvalidInput reports errors caused by the caller's data rather than by
// the system.
func isInvalidInput(err error) bool {
	for _, target := range []error{
		auth.ErrEmailRequired,
		auth.ErrEmailInvalid,
		auth.ErrPasswordRequired,
		auth.ErrPasswordTooLong,
		auth.ErrInvalidRole,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
