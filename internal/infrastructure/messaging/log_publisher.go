package messaging

import (
	"context"

	appasset "github.com/assetreg/backend/internal/application/asset"
	appidentity "github.com/assetreg/backend/internal/application/identity"
	"go.uber.org/zap"
)

// LogPublisher writes notifications to the log instead of a broker.
// It is used when AMQP is disabled.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a new LogPublisher
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.Named("notifications")}
}

// PublishWarrantyNotification logs the notification
func (p *LogPublisher) PublishWarrantyNotification(ctx context.Context, n appasset.WarrantyNotification) error {
	p.logger.Info("Warranty notification (AMQP disabled)",
		zap.String("purchase_id", n.PurchaseID.String()),
		zap.String("subject", n.Subject),
		zap.Strings("to", n.To),
		zap.Strings("cc", n.Cc),
	)
	return nil
}

// PublishPasswordReset logs the reset request. The code itself is only
// written at debug level.
func (p *LogPublisher) PublishPasswordReset(ctx context.Context, n appidentity.PasswordResetNotification) error {
	p.logger.Info("Password reset notification (AMQP disabled)",
		zap.String("code_id", n.CodeID.String()),
		zap.String("to", n.Email),
		zap.Time("expires_at", n.ExpiresAt),
	)
	p.logger.Debug("Password reset code", zap.String("to", n.Email), zap.String("code", n.Code))
	return nil
}

// Close is a no-op
func (p *LogPublisher) Close() error {
	return nil
}

var (
	_ appasset.NotificationPublisher    = (*LogPublisher)(nil)
	_ appidentity.PasswordResetNotifier = (*LogPublisher)(nil)
)
