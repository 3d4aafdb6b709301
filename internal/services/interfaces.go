package services

import (
	"context"

	"github.com/mrlokans/identity/internal/entities"
)

// VerificationNotifier delivers a freshly issued ticket to the account's
// email address. Called after the ticket is committed.
type VerificationNotifier interface {
	NotifyVerification(ctx context.Context, email string, ticket *entities.Verification) error
}

// AuditRecorder records account activity. Implementations must not block.
type AuditRecorder interface {
	LogAuth(ctx context.Context, accountID uint, action string, err error)
	LogAccount(ctx context.Context, accountID uint, action, description string, err error)
}

type noopNotifier struct{}

func (noopNotifier) NotifyVerification(context.Context, string, *entities.Verification) error {
	return nil
}

type noopAuditor struct{}

func (noopAuditor) LogAuth(context.Context, uint, string, error) {}

func (noopAuditor) LogAccount(context.Context, uint, string, string, error) {}
