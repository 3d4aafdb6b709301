// Package accounts provides the account directory.
//
// Every write goes through an explicit hashing step: a plaintext placed in
// Account.Password is turned into a bcrypt digest before it reaches the
// store, and a stored digest is never hashed again.
//
// # Usage
//
//	repo := accounts.NewRepository(db, auth.DefaultBcryptCost)
//	account, err := repo.FindByEmail(ctx, email, "id", "password")
package accounts

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/identity/internal/auth"
	"github.com/mrlokans/identity/internal/database"
	"github.com/mrlokans/identity/internal/entities"
)

// Repository handles all account database operations.
type Repository struct {
	db   *gorm.DB
	cost int
}

// NewRepository creates a new accounts repository hashing with the given
// bcrypt cost.
func NewRepository(db *gorm.DB, bcryptCost int) *Repository {
	return &Repository{db: db, cost: bcryptCost}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx, cost: r.cost}
}

// FindByEmail looks an account up by exact email. Without fields the default
// projection is used, which leaves out the password digest.
func (r *Repository) FindByEmail(ctx context.Context, email string, fields ...string) (*entities.Account, error) {
	if len(fields) == 0 {
		fields = entities.AccountColumns
	}

	var account entities.Account
	err := r.db.WithContext(ctx).Select(fields).Where("email = ?", email).First(&account).Error
	if err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

// FindByID looks an account up by id using the default projection.
func (r *Repository) FindByID(ctx context.Context, id uint) (*entities.Account, error) {
	var account entities.Account
	err := r.db.WithContext(ctx).Select(entities.AccountColumns).First(&account, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

// ExistsByEmail reports whether any account uses email.
func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Account{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

// Insert hashes the supplied plaintext and creates the account.
func (r *Repository) Insert(ctx context.Context, account *entities.Account) error {
	if err := r.hashPending(account); err != nil {
		return err
	}
	if account.Role == "" {
		account.Role = entities.AccountRoleClient
	}

	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Save persists email, role and verified. The password column is written
// only when a new plaintext has been supplied.
func (r *Repository) Save(ctx context.Context, account *entities.Account) error {
	if account.ID == 0 {
		return auth.ErrNotFound
	}

	columns := []string{"email", "role", "verified", "updated_at"}
	if account.Password != "" {
		if err := r.hashPending(account); err != nil {
			return err
		}
		columns = append(columns, "password")
	}

	result := r.db.WithContext(ctx).Model(account).Select(columns).Updates(account)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return auth.ErrNotFound
	}
	return nil
}

// Delete removes the account. Its verification tickets go with it.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.Account{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return auth.ErrNotFound
	}
	return nil
}

// hashPending replaces the pending plaintext with its digest.
func (r *Repository) hashPending(account *entities.Account) error {
	digest, err := auth.HashPassword(account.Password, r.cost)
	if err != nil {
		return err
	}
	account.PasswordDigest = digest
	account.Password = ""
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return auth.ErrNotFound
	case database.IsDuplicateKey(err):
		return fmt.Errorf("%w: %v", auth.ErrDuplicateAccount, err)
	default:
		return fmt.Errorf("account store: %w", err)
	}
}
