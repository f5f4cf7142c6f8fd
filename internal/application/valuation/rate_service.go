package valuation

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/assetreg/backend/internal/domain/valuation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RateService maintains the depreciation rate schedule
type RateService struct {
	rateRepo       valuation.RateRepository
	categories     valuation.CategoryDirectory
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewRateService creates a new RateService
func NewRateService(rateRepo valuation.RateRepository, categories valuation.CategoryDirectory, zapLogger *zap.Logger) *RateService {
	return &RateService{
		rateRepo:   rateRepo,
		categories: categories,
		logger:     zapLogger.Named("rate"),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *RateService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create adds a rate. Overlapping windows are accepted and reported back.
func (s *RateService) Create(ctx context.Context, req RateRequest) (*RateWriteResponse, error) {
	if err := s.requireCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	rate, err := valuation.NewDepreciationRate(req.toInput())
	if err != nil {
		return nil, err
	}
	conflicts, err := s.conflictsOf(ctx, rate)
	if err != nil {
		return nil, err
	}
	if err := s.rateRepo.Save(ctx, rate); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, rate)

	return &RateWriteResponse{Rate: ToRateResponse(rate), Conflicts: conflicts}, nil
}

// Update replaces a rate's fields
func (s *RateService) Update(ctx context.Context, id uuid.UUID, req RateRequest) (*RateWriteResponse, error) {
	rate, err := s.rateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.CategoryID != rate.CategoryID {
		if err := s.requireCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
	}
	if err := rate.Update(req.toInput()); err != nil {
		return nil, err
	}
	conflicts, err := s.conflictsOf(ctx, rate)
	if err != nil {
		return nil, err
	}
	if err := s.rateRepo.Save(ctx, rate); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, rate)

	return &RateWriteResponse{Rate: ToRateResponse(rate), Conflicts: conflicts}, nil
}

// Delete removes a rate
func (s *RateService) Delete(ctx context.Context, id uuid.UUID) error {
	rate, err := s.rateRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	rate.MarkDeleted()
	if err := s.rateRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publishEvents(ctx, rate)
	return nil
}

// GetByID retrieves a rate
func (s *RateService) GetByID(ctx context.Context, id uuid.UUID) (*RateResponse, error) {
	rate, err := s.rateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToRateResponse(rate)
	return &resp, nil
}

// List returns a page of rates
func (s *RateService) List(ctx context.Context, filter RateListFilter) ([]RateResponse, int64, error) {
	if filter.FinancialYear != "" {
		if _, err := valuation.ParseFiscalYear(filter.FinancialYear); err != nil {
			return nil, 0, err
		}
	}
	rates, total, err := s.rateRepo.FindAll(ctx, valuation.RateFilter{
		CategoryID:    filter.CategoryID,
		AssetType:     filter.AssetType,
		FinancialYear: filter.FinancialYear,
		Page:          filter.Page,
		PageSize:      filter.PageSize,
	})
	if err != nil {
		return nil, 0, err
	}
	return toRateResponses(rates), total, nil
}

// ForCategoryAndFinancialYear returns the rates of a category labelled with
// the financial year
func (s *RateService) ForCategoryAndFinancialYear(ctx context.Context, categoryID uuid.UUID, label string) ([]RateResponse, error) {
	if _, err := valuation.ParseFiscalYear(label); err != nil {
		return nil, err
	}
	rates, err := s.rateRepo.FindByCategoryAndFinancialYear(ctx, categoryID, label)
	if err != nil {
		return nil, err
	}
	return toRateResponses(rates), nil
}

// Resolve returns the rate in force for the category and asset type on date
func (s *RateService) Resolve(ctx context.Context, categoryID uuid.UUID, assetType string, date civil.Date) (*RateResolutionResponse, error) {
	if !date.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Date is invalid")
	}
	if err := s.requireCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	rate, found, err := valuation.NewResolver(s.rateRepo).ResolveAt(ctx, categoryID, assetType, date)
	if err != nil {
		return nil, err
	}
	resp := &RateResolutionResponse{
		CategoryID: categoryID,
		AssetType:  assetType,
		Date:       date,
		Found:      found,
	}
	if found {
		r := ToRateResponse(rate)
		resp.Rate = &r
	}
	return resp, nil
}

func (s *RateService) requireCategory(ctx context.Context, categoryID uuid.UUID) error {
	exists, err := s.categories.CategoryExists(ctx, categoryID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewDomainError(valuation.ErrCategoryNotFound.Code, "Category not found")
	}
	return nil
}

// conflictsOf lists the stored rates whose windows intersect rate's
func (s *RateService) conflictsOf(ctx context.Context, rate *valuation.DepreciationRate) ([]uuid.UUID, error) {
	existing, err := s.rateRepo.RatesFor(ctx, rate.CategoryID)
	if err != nil {
		return nil, err
	}
	var conflicts []uuid.UUID
	for i := range existing {
		if rate.Conflicts(&existing[i]) {
			conflicts = append(conflicts, existing[i].ID)
		}
	}
	if len(conflicts) > 0 {
		ids := make([]string, len(conflicts))
		for i, id := range conflicts {
			ids[i] = id.String()
		}
		s.logger.Warn("depreciation rate overlaps existing rates",
			zap.String("rate_id", rate.ID.String()),
			zap.String("category_id", rate.CategoryID.String()),
			zap.String("asset_type", rate.AssetType),
			zap.Strings("conflicts", ids),
		)
	}
	return conflicts, nil
}

func (s *RateService) publishEvents(ctx context.Context, rate *valuation.DepreciationRate) {
	if s.eventPublisher == nil {
		return
	}
	events := rate.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish rate events",
			zap.String("rate_id", rate.ID.String()), zap.Error(err))
	}
	rate.ClearDomainEvents()
}

func toRateResponses(rates []valuation.DepreciationRate) []RateResponse {
	out := make([]RateResponse, len(rates))
	for i := range rates {
		out[i] = ToRateResponse(&rates[i])
	}
	return out
}
