package entities

import "time"

type AccountRole string

const (
	AccountRoleClient   AccountRole = "client"
	AccountRoleOwner    AccountRole = "owner"
	AccountRoleDelivery AccountRole = "delivery"
)

// Valid reports whether r is one of the known roles.
func (r AccountRole) Valid() bool {
	switch r {
	case AccountRoleClient, AccountRoleOwner, AccountRoleDelivery:
		return true
	}
	return false
}

// AccountColumns is the default read projection. The password column is
// left out and must be requested explicitly.
var AccountColumns = []string{"id", "email", "role", "verified", "created_at", "updated_at"}

type Account struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	Email          string      `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordDigest string      `gorm:"column:password;size:72;not null" json:"-"`
	Role           AccountRole `gorm:"size:20;not null;default:client" json:"role"`
	Verified       bool        `gorm:"not null;default:false" json:"verified"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`

	// Password holds a caller-supplied plaintext until the directory hashes
	// it. Empty means the stored digest is left untouched.
	Password string `gorm:"-" json:"-"`
}

func (Account) TableName() string {
	return "accounts"
}
