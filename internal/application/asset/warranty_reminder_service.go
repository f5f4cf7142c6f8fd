package asset

import (
	"context"
	"fmt"

	appval "github.com/assetreg/backend/internal/application/valuation"
	"github.com/assetreg/backend/internal/domain/asset"
	"github.com/assetreg/backend/internal/domain/identity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WarrantyNotification is one expiry alert handed to the mail relay
type WarrantyNotification struct {
	PurchaseID    uuid.UUID `json:"purchase_id"`
	AssetID       uuid.UUID `json:"asset_id"`
	AssetName     string    `json:"asset_name"`
	InvoiceNumber string    `json:"invoice_number"`
	ExpiryDate    string    `json:"expiry_date"`
	To            []string  `json:"to"`
	Cc            []string  `json:"cc,omitempty"`
	Subject       string    `json:"subject"`
	Body          string    `json:"body"`
	Unassigned    bool      `json:"unassigned"`
}

// NotificationPublisher hands notifications to the delivery side
type NotificationPublisher interface {
	PublishWarrantyNotification(ctx context.Context, n WarrantyNotification) error
}

// WarrantyReminderResult summarises one reminder run
type WarrantyReminderResult struct {
	Expiring  int `json:"expiring"`
	Published int `json:"published"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// WarrantyReminderService finds warranties about to expire and publishes one
// notification per purchase record flagged for notification
type WarrantyReminderService struct {
	purchaseRepo  asset.PurchaseRepository
	assetRepo     asset.AssetRepository
	userRepo      identity.UserRepository
	publisher     NotificationPublisher
	today         appval.Clock
	windowDays    int
	unassignedTag string
	logger        *zap.Logger
}

// NewWarrantyReminderService creates a new WarrantyReminderService
func NewWarrantyReminderService(
	purchaseRepo asset.PurchaseRepository,
	assetRepo asset.AssetRepository,
	userRepo identity.UserRepository,
	publisher NotificationPublisher,
	today appval.Clock,
	windowDays int,
	unassignedTag string,
	zapLogger *zap.Logger,
) *WarrantyReminderService {
	return &WarrantyReminderService{
		purchaseRepo:  purchaseRepo,
		assetRepo:     assetRepo,
		userRepo:      userRepo,
		publisher:     publisher,
		today:         today,
		windowDays:    windowDays,
		unassignedTag: unassignedTag,
		logger:        zapLogger.Named("warranty"),
	}
}

// Run publishes reminders for warranties expiring between today and the end
// of the window. A failed publish is logged and counted; it does not stop the run.
func (s *WarrantyReminderService) Run(ctx context.Context) (*WarrantyReminderResult, error) {
	today := s.today()
	records, err := s.purchaseRepo.FindExpiringBetween(ctx, today, today.AddDays(s.windowDays))
	if err != nil {
		return nil, fmt.Errorf("find expiring warranties: %w", err)
	}

	admins, err := s.userRepo.FindAdmins(ctx)
	if err != nil {
		return nil, fmt.Errorf("find admins: %w", err)
	}
	adminEmails := make([]string, len(admins))
	for i := range admins {
		adminEmails[i] = admins[i].Email
	}

	result := &WarrantyReminderResult{Expiring: len(records)}
	for i := range records {
		n, ok, err := s.notificationFor(ctx, &records[i], adminEmails)
		if err != nil {
			return nil, err
		}
		if !ok {
			result.Skipped++
			continue
		}
		if err := s.publisher.PublishWarrantyNotification(ctx, n); err != nil {
			result.Failed++
			s.logger.Error("failed to publish warranty notification",
				zap.String("purchase_id", n.PurchaseID.String()), zap.Error(err))
			continue
		}
		result.Published++
	}

	s.logger.Info("warranty reminder run finished",
		zap.String("date", today.String()),
		zap.Int("expiring", result.Expiring),
		zap.Int("published", result.Published),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// notificationFor addresses the assignee with admins in copy, or the admins
// alone under the unassigned tag
func (s *WarrantyReminderService) notificationFor(ctx context.Context, record *asset.PurchaseRecord, adminEmails []string) (WarrantyNotification, bool, error) {
	owner, err := s.assetRepo.FindByID(ctx, record.AssetID)
	if err != nil {
		return WarrantyNotification{}, false, fmt.Errorf("load asset %s: %w", record.AssetID, err)
	}
	if owner.Status.IsTerminal() {
		return WarrantyNotification{}, false, nil
	}

	expiry := ""
	if record.ExpiryDate != nil {
		expiry = record.ExpiryDate.String()
	}
	subject := "Asset Expiry Alert: " + owner.Name
	body := fmt.Sprintf("The asset '%s' is expiring on %s\nPurchase Date: %s\nWarranty Period: %d months",
		owner.Name, expiry, record.PurchaseDate, record.WarrantyMonths)

	n := WarrantyNotification{
		PurchaseID:    record.ID,
		AssetID:       owner.ID,
		AssetName:     owner.Name,
		InvoiceNumber: record.InvoiceNumber,
		ExpiryDate:    expiry,
	}

	if owner.AssignedTo != nil {
		holder, err := s.userRepo.FindByID(ctx, *owner.AssignedTo)
		if err == nil && holder.Email != "" {
			n.To = []string{holder.Email}
			n.Cc = adminEmails
			n.Subject = subject
			n.Body = body
			return n, true, nil
		}
		s.logger.Warn("assignee of expiring asset not found, notifying admins only",
			zap.String("asset_id", owner.ID.String()), zap.Error(err))
	}

	if len(adminEmails) == 0 {
		s.logger.Warn("no admins to notify about unassigned asset",
			zap.String("asset_id", owner.ID.String()))
		return WarrantyNotification{}, false, nil
	}
	n.To = adminEmails
	n.Subject = s.unassignedTag + " " + subject
	n.Body = body + "\n\nNote: This asset is currently unassigned."
	n.Unassigned = true
	return n, true, nil
}
