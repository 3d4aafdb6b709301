package services

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/mrlokans/identity/internal/entities"
)

type RegisterInput struct {
	Email    string               `json:"email"`
	Password string               `json:"password"`
	Role     entities.AccountRole `json:"role"`
}

// Validate will validate the payload
func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, validation.Length(3, 255), is.EmailFormat),
		validation.Field(&in.Password, validation.Required),
		validation.Field(&in.Role, validation.In(
			entities.AccountRoleClient,
			entities.AccountRoleOwner,
			entities.AccountRoleDelivery,
		)),
	)
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required),
		validation.Field(&in.Password, validation.Required),
	)
}

// EditProfileInput carries the fields to change. Nil leaves a field as is;
// an empty password is treated the same as an absent one.
type EditProfileInput struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (in EditProfileInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.NilOrNotEmpty, validation.Length(3, 255), is.EmailFormat),
	)
}

type VerifyEmailInput struct {
	Code string `json:"code"`
}

func (in VerifyEmailInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Code, validation.Required),
	)
}
