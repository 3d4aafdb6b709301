// Package verifications stores email verification tickets.
package verifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/identity/internal/auth"
	"github.com/mrlokans/identity/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Issue creates a fresh ticket for the account, replacing any earlier one so
// a code sent to a previous address can no longer verify the account.
func (r *Repository) Issue(ctx context.Context, accountID uint) (*entities.Verification, error) {
	db := r.db.WithContext(ctx)

	if err := db.Where("account_id = ?", accountID).Delete(&entities.Verification{}).Error; err != nil {
		return nil, fmt.Errorf("failed to replace verification: %w", err)
	}

	ticket := &entities.Verification{
		Code:      uuid.NewString(),
		AccountID: accountID,
	}
	if err := db.Create(ticket).Error; err != nil {
		return nil, fmt.Errorf("failed to create verification: %w", err)
	}
	return ticket, nil
}

// FindByCode loads the ticket together with its account in one query.
func (r *Repository) FindByCode(ctx context.Context, code string) (*entities.Verification, error) {
	var ticket entities.Verification
	err := r.db.WithContext(ctx).Joins("Account").Where("verifications.code = ?", code).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find verification: %w", err)
	}
	return &ticket, nil
}

// DeleteConsumedBefore removes tickets older than cutoff whose account is
// already verified. Returns the number of deleted tickets.
func (r *Repository) DeleteConsumedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	verified := r.db.Model(&entities.Account{}).Select("id").Where("verified = ?", true)

	result := r.db.WithContext(ctx).
		Where("created_at < ? AND account_id IN (?)", cutoff, verified).
		Delete(&entities.Verification{})
	return result.RowsAffected, result.Error
}
