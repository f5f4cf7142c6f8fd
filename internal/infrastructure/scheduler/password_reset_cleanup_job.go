package scheduler

import (
	"context"

	"go.uber.org/zap"
)

// ResetCleanupJobName names the job that purges expired reset codes
const ResetCleanupJobName = "password-reset-cleanup"

// ResetCodePurger deletes expired password reset codes
type ResetCodePurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// ResetCleanupJob deletes password reset codes past their expiry
type ResetCleanupJob struct {
	purger ResetCodePurger
	logger *zap.Logger
}

// NewResetCleanupJob creates a new ResetCleanupJob
func NewResetCleanupJob(purger ResetCodePurger, logger *zap.Logger) *ResetCleanupJob {
	return &ResetCleanupJob{purger: purger, logger: logger.Named("reset_cleanup_job")}
}

// Name implements Job
func (j *ResetCleanupJob) Name() string {
	return ResetCleanupJobName
}

// Run implements Job
func (j *ResetCleanupJob) Run(ctx context.Context) error {
	deleted, err := j.purger.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	j.logger.Info("Expired reset codes purged", zap.Int64("deleted", deleted))
	return nil
}
