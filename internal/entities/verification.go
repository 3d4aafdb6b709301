package entities

import "time"

// Verification is a single-use email verification ticket.
type Verification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"uniqueIndex;size:36;not null" json:"code"`
	AccountID uint      `gorm:"uniqueIndex;not null" json:"account_id"`
	Account   Account   `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Verification) TableName() string {
	return "verifications"
}
