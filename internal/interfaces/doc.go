// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - AccountFinder: Resolves the account named by a session token (internal/auth/middleware.go)
//   - VerificationCleaner: Deletes redeemed tickets (internal/tasks/cleanup_verifications.go)
//   - AuditEventCleaner: Deletes expired audit events (internal/tasks/cleanup_audit.go)
//
// ## Account Flow Collaborators
//
//   - VerificationNotifier: Delivers a freshly issued ticket (internal/services/interfaces.go)
//   - AuditRecorder: Records account activity without blocking (internal/services/interfaces.go)
//
// ## Infrastructure
//
//   - Mailer: Sends plain-text email (internal/mail/mailer.go)
//   - Logger: Context-aware structured logging (internal/logging/logger.go)
//
// # Adding a New Notifier
//
// To deliver verification codes through another channel:
//
//  1. Implement services.VerificationNotifier
//  2. Add a compile-time check in checks.go
//  3. Select it in internal/entrypoint/entrypoint.go
//
// # Compile-Time Checks
//
// See checks.go for the var _ Interface = (*Type)(nil) assertions. A type
// that stops satisfying an interface breaks the build of this package.
package interfaces
