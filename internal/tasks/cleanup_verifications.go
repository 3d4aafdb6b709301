package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/identity/internal/logging"
)

// VerificationCleaner deletes tickets whose account is already verified.
type VerificationCleaner interface {
	DeleteConsumedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupVerificationsTask removes redeemed verification tickets older than
// the retention period. Pending tickets are never removed.
type CleanupVerificationsTask struct {
	RetentionDays int `json:"retention_days"`
}

func (t CleanupVerificationsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_verifications",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func CleanupVerificationsProcessor(cleaner VerificationCleaner, logger logging.Logger) backlite.QueueProcessor[CleanupVerificationsTask] {
	return func(ctx context.Context, task CleanupVerificationsTask) error {
		if cleaner == nil {
			return fmt.Errorf("verification cleaner not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = 7
		}
		cutoff := time.Now().Add(-time.Duration(retentionDays) * 24 * time.Hour)

		deleted, err := cleaner.DeleteConsumedBefore(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("cleanup verifications: %w", err)
		}

		logger.Info(ctx, "cleaned up redeemed verifications", "deleted", deleted, "retention_days", retentionDays)
		return nil
	}
}

func NewCleanupVerificationsQueue(cleaner VerificationCleaner, logger logging.Logger) backlite.Queue {
	return backlite.NewQueue(CleanupVerificationsProcessor(cleaner, logger))
}
