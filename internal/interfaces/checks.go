package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/identity/internal/audit"
	"github.com/mrlokans/identity/internal/auth"
	"github.com/mrlokans/identity/internal/database/accounts"
	"github.com/mrlokans/identity/internal/database/verifications"
	"github.com/mrlokans/identity/internal/logging"
	"github.com/mrlokans/identity/internal/mail"
	"github.com/mrlokans/identity/internal/services"
	"github.com/mrlokans/identity/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// AccountFinder implementations
var _ auth.AccountFinder = (*accounts.Repository)(nil)

// Cleanup targets
var _ tasks.VerificationCleaner = (*verifications.Repository)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)

// =============================================================================
// Account Flow Collaborators
// =============================================================================

// VerificationNotifier implementations
var _ services.VerificationNotifier = (*tasks.VerificationDispatcher)(nil)
var _ services.VerificationNotifier = (*tasks.DirectNotifier)(nil)

// AuditRecorder implementations
var _ services.AuditRecorder = (*audit.Service)(nil)

// =============================================================================
// Infrastructure
// =============================================================================

// Mailer implementations
var _ mail.Mailer = (*mail.LogMailer)(nil)
var _ mail.Mailer = (*mail.SMTPMailer)(nil)

// Logger implementations
var _ logging.Logger = (*logging.SlogLogger)(nil)
