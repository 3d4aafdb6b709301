package audit

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditRepo "github.com/mrlokans/identity/internal/database/audit"
	"github.com/mrlokans/identity/internal/entities"
	"github.com/mrlokans/identity/internal/logging"
)

// A file-backed database keeps async writes on the same schema regardless of
// which pooled connection they use.
func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewService(auditRepo.NewRepository(db), logging.Discard()), db
}

func TestService_LogAsync(t *testing.T) {
	svc, db := setupTestService(t)

	event := &entities.AuditEvent{
		AccountID: 1,
		EventType: entities.AuditEventAuth,
		Action:    ActionLogin,
		Status:    entities.AuditStatusSuccess,
	}

	svc.LogAsync(context.Background(), event)
	svc.Wait()

	var saved entities.AuditEvent
	require.NoError(t, db.First(&saved, event.ID).Error)
	assert.Equal(t, ActionLogin, saved.Action)
}

func TestService_LogAuth(t *testing.T) {
	svc, db := setupTestService(t)

	ctx := WithRequestMeta(context.Background(), RequestMeta{IPAddress: "10.0.0.1", UserAgent: "curl/8.0"})

	tests := []struct {
		name       string
		err        error
		wantStatus entities.AuditStatus
		wantError  string
	}{
		{name: "success", wantStatus: entities.AuditStatusSuccess},
		{name: "failure", err: errors.New("Wrong Password"), wantStatus: entities.AuditStatusFailed, wantError: "Wrong Password"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accountID := uint(i + 1)
			svc.LogAuth(ctx, accountID, ActionLogin, tt.err)
			svc.Wait()

			var saved entities.AuditEvent
			require.NoError(t, db.Where("account_id = ?", accountID).First(&saved).Error)
			assert.Equal(t, entities.AuditEventAuth, saved.EventType)
			assert.Equal(t, tt.wantStatus, saved.Status)
			assert.Equal(t, tt.wantError, saved.ErrorMsg)
			assert.Equal(t, "10.0.0.1", saved.IPAddress)
			assert.Equal(t, "curl/8.0", saved.UserAgent)
		})
	}
}

func TestService_LogAccount_SurvivesCancelledContext(t *testing.T) {
	svc, db := setupTestService(t)

	ctx, cancel := context.WithCancel(context.Background())
	svc.LogAccount(ctx, 9, ActionEditProfile, "email changed", nil)
	cancel()
	svc.Wait()

	var saved entities.AuditEvent
	require.NoError(t, db.Where("account_id = ?", 9).First(&saved).Error)
	assert.Equal(t, entities.AuditEventAccount, saved.EventType)
	assert.Equal(t, "email changed", saved.Description)
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&entities.AuditEvent{Action: "old", CreatedAt: time.Now().Add(-10 * 24 * time.Hour)}).Error)
	require.NoError(t, db.Create(&entities.AuditEvent{Action: "fresh"}).Error)

	deleted, err := svc.DeleteOldEvents(ctx, 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, total, err := svc.GetEvents(ctx, 0, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "fresh", events[0].Action)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		maxLen  int
		wantLen int
	}{
		{name: "short input unchanged", in: "short", maxLen: 10, wantLen: 5},
		{name: "ascii", in: strings.Repeat("a", 600), maxLen: 500, wantLen: 500},
		{name: "two-byte runes", in: strings.Repeat("é", 300), maxLen: 500, wantLen: 499},
		{name: "four-byte runes", in: strings.Repeat("🙂", 200), maxLen: 500, wantLen: 499},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.maxLen)
			assert.True(t, utf8.ValidString(got))
			assert.Len(t, got, tt.wantLen)
			assert.LessOrEqual(t, len(got), tt.maxLen)
			if len(tt.in) > tt.maxLen {
				assert.True(t, strings.HasSuffix(got, "..."))
			}
		})
	}
}

func TestService_LogAccount_MultibyteUserAgent(t *testing.T) {
	svc, db := setupTestService(t)

	ctx := WithRequestMeta(context.Background(), RequestMeta{UserAgent: "a" + strings.Repeat("ж", 400)})
	svc.LogAccount(ctx, 11, ActionEditProfile, "", nil)
	svc.Wait()

	var saved entities.AuditEvent
	require.NoError(t, db.Where("account_id = ?", 11).First(&saved).Error)
	assert.True(t, utf8.ValidString(saved.UserAgent))
	assert.LessOrEqual(t, len(saved.UserAgent), 500)
}

func TestRequestMetaFromContext_Empty(t *testing.T) {
	assert.Equal(t, RequestMeta{}, RequestMetaFromContext(context.Background()))
}
