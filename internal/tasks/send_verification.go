package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/identity/internal/entities"
	"github.com/mrlokans/identity/internal/logging"
	"github.com/mrlokans/identity/internal/mail"
)

// SendVerificationEmailTask mails a verification code to an account.
type SendVerificationEmailTask struct {
	AccountID uint   `json:"account_id"`
	Email     string `json:"email"`
	Code      string `json:"code"`
}

func (t SendVerificationEmailTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "send_verification_email",
		MaxAttempts: 5,
		Backoff:     30 * time.Second,
		Timeout:     30 * time.Second,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SendVerificationEmailProcessor renders and sends the verification message.
// Failures are returned so backlite retries with backoff.
func SendVerificationEmailProcessor(mailer mail.Mailer, verifyURL string, logger logging.Logger) backlite.QueueProcessor[SendVerificationEmailTask] {
	return func(ctx context.Context, task SendVerificationEmailTask) error {
		msg := mail.VerificationMessage(task.Email, task.Code, verifyURL)
		if err := mailer.Send(ctx, msg); err != nil {
			return fmt.Errorf("send verification to account %d: %w", task.AccountID, err)
		}

		logger.Info(ctx, "verification email sent", "account_id", task.AccountID)
		return nil
	}
}

func NewSendVerificationEmailQueue(mailer mail.Mailer, verifyURL string, logger logging.Logger) backlite.Queue {
	return backlite.NewQueue(SendVerificationEmailProcessor(mailer, verifyURL, logger))
}

// VerificationDispatcher enqueues verification emails on the task queue.
type VerificationDispatcher struct {
	client *Client
}

func NewVerificationDispatcher(client *Client) *VerificationDispatcher {
	return &VerificationDispatcher{client: client}
}

func (d *VerificationDispatcher) NotifyVerification(ctx context.Context, email string, ticket *entities.Verification) error {
	task := SendVerificationEmailTask{AccountID: ticket.AccountID, Email: email, Code: ticket.Code}
	if _, err := d.client.Add(task).Ctx(ctx).Save(); err != nil {
		return fmt.Errorf("enqueue verification email: %w", err)
	}
	return nil
}

// DirectNotifier sends verification emails inline. Used when the task queue
// is disabled.
type DirectNotifier struct {
	mailer    mail.Mailer
	verifyURL string
}

func NewDirectNotifier(mailer mail.Mailer, verifyURL string) *DirectNotifier {
	return &DirectNotifier{mailer: mailer, verifyURL: verifyURL}
}

func (n *DirectNotifier) NotifyVerification(ctx context.Context, email string, ticket *entities.Verification) error {
	return n.mailer.Send(ctx, mail.VerificationMessage(email, ticket.Code, n.verifyURL))
}
