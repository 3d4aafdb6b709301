package mail

import (
	"context"

	"github.com/mrlokans/identity/internal/logging"
)

// LogMailer writes messages to the application log instead of sending them.
// Meant for development.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(logger logging.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.logger.Info(ctx, "mail", "to", msg.To, "subject", msg.Subject, "body", msg.Body)
	return nil
}
