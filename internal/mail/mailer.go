// Package mail delivers account emails.
package mail

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mrlokans/identity/internal/config"
	"github.com/mrlokans/identity/internal/logging"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer builds the mailer selected by cfg.Driver.
func NewMailer(cfg config.Mail, logger logging.Logger) (Mailer, error) {
	switch cfg.Driver {
	case config.MailDriverSMTP:
		return NewSMTPMailer(cfg), nil
	case config.MailDriverLog, "":
		return NewLogMailer(logger), nil
	default:
		return nil, fmt.Errorf("unsupported mail driver %q", cfg.Driver)
	}
}

// VerificationMessage renders the email carrying a verification code.
func VerificationMessage(to, code, verifyURL string) Message {
	var body strings.Builder
	body.WriteString("Please confirm your email address.\n\n")
	if verifyURL != "" {
		body.WriteString("Open this link to verify your account:\n")
		body.WriteString(verifyURL + url.QueryEscape(code) + "\n\n")
	}
	body.WriteString("Verification code: " + code + "\n")

	return Message{
		To:      to,
		Subject: "Verify your email",
		Body:    body.String(),
	}
}
