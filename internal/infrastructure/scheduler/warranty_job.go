package scheduler

import (
	"context"

	appasset "github.com/assetreg/backend/internal/application/asset"
	"go.uber.org/zap"
)

// WarrantyJobName names the daily warranty expiry job
const WarrantyJobName = "warranty-expiry-reminder"

// WarrantyReminderRunner runs one warranty reminder pass
type WarrantyReminderRunner interface {
	Run(ctx context.Context) (*appasset.WarrantyReminderResult, error)
}

// WarrantyJob publishes expiry reminders for warranties ending soon
type WarrantyJob struct {
	runner WarrantyReminderRunner
	logger *zap.Logger
}

// NewWarrantyJob creates a new WarrantyJob
func NewWarrantyJob(runner WarrantyReminderRunner, logger *zap.Logger) *WarrantyJob {
	return &WarrantyJob{runner: runner, logger: logger.Named("warranty_job")}
}

// Name implements Job
func (j *WarrantyJob) Name() string {
	return WarrantyJobName
}

// Run implements Job
func (j *WarrantyJob) Run(ctx context.Context) error {
	result, err := j.runner.Run(ctx)
	if err != nil {
		return err
	}
	j.logger.Info("Warranty reminders sent",
		zap.Int("expiring", result.Expiring),
		zap.Int("published", result.Published),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
	)
	return nil
}
