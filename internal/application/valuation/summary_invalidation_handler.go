package valuation

import (
	"context"

	"github.com/assetreg/backend/internal/domain/asset"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/assetreg/backend/internal/domain/valuation"
	"go.uber.org/zap"
)

// SummaryInvalidationHandler drops cached financial-year summaries whenever
// an event changes the inputs of a valuation
type SummaryInvalidationHandler struct {
	service *Service
	logger  *zap.Logger
}

// NewSummaryInvalidationHandler creates a new SummaryInvalidationHandler
func NewSummaryInvalidationHandler(service *Service, logger *zap.Logger) *SummaryInvalidationHandler {
	return &SummaryInvalidationHandler{
		service: service,
		logger:  logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *SummaryInvalidationHandler) EventTypes() []string {
	return []string{
		valuation.EventTypeRateCreated,
		valuation.EventTypeRateUpdated,
		valuation.EventTypeRateDeleted,
		asset.EventTypeAssetCreated,
		asset.EventTypeAssetRecategorized,
		asset.EventTypeAssetStolen,
		asset.EventTypeAssetDisposed,
		asset.EventTypePurchaseRecorded,
	}
}

// Handle invalidates the summary cache
func (h *SummaryInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.service.InvalidateSummaries(ctx); err != nil {
		h.logger.Error("failed to invalidate valuation summaries",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.Error(err),
		)
		return err
	}
	h.logger.Debug("valuation summaries invalidated",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_id", event.AggregateID().String()),
	)
	return nil
}

// Ensure SummaryInvalidationHandler implements shared.EventHandler
var _ shared.EventHandler = (*SummaryInvalidationHandler)(nil)
