package verifications

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/identity/internal/auth"
	"github.com/mrlokans/identity/internal/database"
	"github.com/mrlokans/identity/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *database.Database) {
	t.Helper()

	db, err := database.NewSQLiteDatabase(filepath.Join(t.TempDir(), "verifications.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db.DB), db
}

func createAccount(t *testing.T, db *database.Database, email string, verified bool) *entities.Account {
	t.Helper()
	account := &entities.Account{Email: email, PasswordDigest: "digest", Verified: verified}
	require.NoError(t, db.DB.Create(account).Error)
	return account
}

func TestRepository_Issue(t *testing.T) {
	repo, db := setupTestDB(t)
	account := createAccount(t, db, "issue@example.com", false)

	ticket, err := repo.Issue(context.Background(), account.ID)
	require.NoError(t, err)

	assert.NotZero(t, ticket.ID)
	assert.Equal(t, account.ID, ticket.AccountID)
	parsed, err := uuid.Parse(ticket.Code)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
}

func TestRepository_Issue_ReplacesPreviousTicket(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	account := createAccount(t, db, "replace@example.com", false)

	first, err := repo.Issue(ctx, account.ID)
	require.NoError(t, err)
	second, err := repo.Issue(ctx, account.ID)
	require.NoError(t, err)

	assert.NotEqual(t, first.Code, second.Code)

	var count int64
	require.NoError(t, db.DB.Model(&entities.Verification{}).Where("account_id = ?", account.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err = repo.FindByCode(ctx, first.Code)
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestRepository_FindByCode(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	account := createAccount(t, db, "code@example.com", false)

	issued, err := repo.Issue(ctx, account.ID)
	require.NoError(t, err)

	found, err := repo.FindByCode(ctx, issued.Code)
	require.NoError(t, err)
	assert.Equal(t, issued.ID, found.ID)
	assert.Equal(t, account.ID, found.Account.ID)
	assert.Equal(t, "code@example.com", found.Account.Email)

	_, err = repo.FindByCode(ctx, uuid.NewString())
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestRepository_DeleteConsumedBefore(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()

	verified := createAccount(t, db, "verified@example.com", true)
	pending := createAccount(t, db, "pending@example.com", false)
	recent := createAccount(t, db, "recent@example.com", true)

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, db.DB.Create(&entities.Verification{Code: "old-verified", AccountID: verified.ID, CreatedAt: old}).Error)
	require.NoError(t, db.DB.Create(&entities.Verification{Code: "old-pending", AccountID: pending.ID, CreatedAt: old}).Error)
	require.NoError(t, db.DB.Create(&entities.Verification{Code: "recent-verified", AccountID: recent.ID}).Error)

	deleted, err := repo.DeleteConsumedBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.FindByCode(ctx, "old-verified")
	assert.ErrorIs(t, err, auth.ErrNotFound)
	_, err = repo.FindByCode(ctx, "old-pending")
	assert.NoError(t, err)
	_, err = repo.FindByCode(ctx, "recent-verified")
	assert.NoError(t, err)
}
