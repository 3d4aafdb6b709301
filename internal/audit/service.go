package audit

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mrlokans/identity/internal/database/audit"
	"github.com/mrlokans/identity/internal/entities"
	"github.com/mrlokans/identity/internal/logging"
)

// Actions recorded by the account flows.
const (
	ActionRegister    = "register"
	ActionLogin       = "login"
	ActionVerifyEmail = "verify_email"
	ActionEditProfile = "edit_profile"
	ActionDelete      = "delete_account"
)

// RequestMeta describes the client behind an audited request.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type requestMetaKey struct{}

// WithRequestMeta returns a copy of ctx carrying meta.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext returns the meta attached to ctx, if any.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}

// Service provides high-level audit logging functionality.
type Service struct {
	repo   *audit.Repository
	logger logging.Logger
	wg     sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository, logger logging.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// LogAsync records an audit event in the background (non-blocking).
// The write outlives the request, so ctx cancellation is dropped.
func (s *Service) LogAsync(ctx context.Context, event *entities.AuditEvent) {
	ctx = context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.LogEvent(ctx, event); err != nil {
			s.logger.Error(ctx, "failed to log audit event", "action", event.Action, "error", err)
		}
	}()
}

// Wait blocks until all pending asynchronous writes have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// LogAuth records an authentication event such as a login attempt.
func (s *Service) LogAuth(ctx context.Context, accountID uint, action string, err error) {
	s.LogAsync(ctx, s.event(ctx, entities.AuditEventAuth, accountID, action, "", err))
}

// LogAccount records a change to an account.
func (s *Service) LogAccount(ctx context.Context, accountID uint, action, description string, err error) {
	s.LogAsync(ctx, s.event(ctx, entities.AuditEventAccount, accountID, action, description, err))
}

func (s *Service) event(ctx context.Context, eventType entities.AuditEventType, accountID uint, action, description string, err error) *entities.AuditEvent {
	meta := RequestMetaFromContext(ctx)
	event := &entities.AuditEvent{
		AccountID:   accountID,
		EventType:   eventType,
		Action:      action,
		Description: truncate(description, 500),
		IPAddress:   meta.IPAddress,
		UserAgent:   truncate(meta.UserAgent, 500),
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}
	return event
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, accountID uint, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, accountID, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

// truncate shortens a string to at most maxLen bytes without splitting a
// UTF-8 sequence.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
