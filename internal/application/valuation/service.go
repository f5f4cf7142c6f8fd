package valuation

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/civil"
	"github.com/assetreg/backend/internal/domain/asset"
	"github.com/assetreg/backend/internal/domain/valuation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Clock returns today's calendar date in the organisation's timezone
type Clock func() civil.Date

// ClockIn returns a Clock reading the wall clock in loc
func ClockIn(loc *time.Location) Clock {
	return func() civil.Date {
		return civil.DateOf(time.Now().In(loc))
	}
}

// Service exposes depreciation valuation to the API and other services
type Service struct {
	scope      ReadScope
	strategies valuation.StrategyProvider
	cache      SummaryCache
	today      Clock
	logger     *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithCache caches financial-year summaries
func WithCache(cache SummaryCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithClock overrides the source of today's date
func WithClock(clock Clock) Option {
	return func(s *Service) {
		s.today = clock
	}
}

// NewService creates a new valuation Service
func NewService(scope ReadScope, strategies valuation.StrategyProvider, zapLogger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		scope:      scope,
		strategies: strategies,
		today:      ClockIn(time.UTC),
		logger:     zapLogger.Named("valuation"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the service's notion of the current date
func (s *Service) Today() civil.Date {
	return s.today()
}

// FinancialYearOf describes the financial year containing d
func (s *Service) FinancialYearOf(d civil.Date) FinancialYearResponse {
	return ToFinancialYearResponse(d)
}

// PresentPurchase values one purchase record as of asOf, or today when asOf is nil
func (s *Service) PresentPurchase(ctx context.Context, purchaseID uuid.UUID, asOf *civil.Date) (*PurchaseValuationResponse, error) {
	day := s.asOf(asOf)
	var resp PurchaseValuationResponse
	err := s.scope.Read(ctx, func(src Sources) error {
		record, err := src.Purchases().FindByID(ctx, purchaseID)
		if err != nil {
			return err
		}
		owner, err := src.Assets().FindByID(ctx, record.AssetID)
		if err != nil {
			return fmt.Errorf("load asset %s of purchase %s: %w", record.AssetID, purchaseID, err)
		}
		resp, err = s.present(ctx, src, *record, owner.Status, day)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// PresentRecords values purchase records that all belong to one asset
func (s *Service) PresentRecords(ctx context.Context, records []asset.PurchaseRecord, status asset.Status, asOf *civil.Date) ([]PurchaseValuationResponse, error) {
	day := s.asOf(asOf)
	out := make([]PurchaseValuationResponse, 0, len(records))
	err := s.scope.Read(ctx, func(src Sources) error {
		for _, record := range records {
			v, err := s.present(ctx, src, record, status, day)
			if err != nil {
				return err
			}
			out = append(out, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// present runs the presenter and applies the logged fallback for assets that
// cannot be valued
func (s *Service) present(ctx context.Context, src Sources, record asset.PurchaseRecord, status asset.Status, day civil.Date) (PurchaseValuationResponse, error) {
	presenter := valuation.NewPresenter(s.engine(src))
	v, err := presenter.Present(ctx, record, status, day)
	if err == nil {
		return ToPurchaseValuationResponse(v), nil
	}
	if !isFallback(err) {
		return PurchaseValuationResponse{}, err
	}

	s.logger.Warn("purchase reported at cost, valuation unavailable",
		zap.String("purchase_id", record.ID.String()),
		zap.String("asset_id", record.AssetID.String()),
		zap.String("category_id", record.CategoryID.String()),
		zap.Error(err),
	)
	price := valuation.Round(record.PurchasePrice)
	return PurchaseValuationResponse{
		PurchaseID:        record.ID,
		AsOf:              day.String(),
		Status:            status.String(),
		PurchasePrice:     price,
		CurrentValue:      price,
		TotalDepreciation: decimal.Zero,
		Fallback:          true,
		FallbackReason:    err.Error(),
	}, nil
}

// SummaryForFiscalYear returns the valuation summary for a financial year label
func (s *Service) SummaryForFiscalYear(ctx context.Context, label string) (*SummaryResponse, error) {
	if _, err := valuation.ParseFiscalYear(label); err != nil {
		return nil, err
	}
	if cached, ok := s.cached(ctx, label); ok {
		return cached, nil
	}

	var summary *valuation.Summary
	err := s.scope.Read(ctx, func(src Sources) error {
		var err error
		summary, err = s.aggregator(src).SummaryForFiscalYear(ctx, label)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logFallbacks(ctx, summary)
	resp := ToSummaryResponse(summary)
	s.store(ctx, resp)
	return resp, nil
}

// SummaryForRange returns one summary per financial year from start to end inclusive
func (s *Service) SummaryForRange(ctx context.Context, start, end string) ([]SummaryResponse, error) {
	labels, err := valuation.Range(start, end)
	if err != nil {
		return nil, err
	}

	out := make([]SummaryResponse, 0, len(labels))
	for _, label := range labels {
		cached, ok := s.cached(ctx, label)
		if !ok {
			out = nil
			break
		}
		out = append(out, *cached)
	}
	if out != nil {
		return out, nil
	}

	var summaries []valuation.Summary
	err = s.scope.Read(ctx, func(src Sources) error {
		var err error
		summaries, err = s.aggregator(src).SummaryForRange(ctx, start, end)
		return err
	})
	if err != nil {
		return nil, err
	}

	out = make([]SummaryResponse, len(summaries))
	for i := range summaries {
		s.logFallbacks(ctx, &summaries[i])
		resp := ToSummaryResponse(&summaries[i])
		s.store(ctx, resp)
		out[i] = *resp
	}
	return out, nil
}

// csvHeader is the column layout of the summary export
var csvHeader = []string{
	"Asset", "Asset Type", "Status", "Invoice Number", "Purchase Date",
	"Purchase Financial Year", "Method", "Rate %", "Purchase Price",
	"Current Value", "Total Depreciation", "Depreciation This Year", "Note",
}

// ExportFinancialYearCSV writes the summary of a financial year as CSV
func (s *Service) ExportFinancialYearCSV(ctx context.Context, label string, w io.Writer) error {
	summary, err := s.SummaryForFiscalYear(ctx, label)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range summary.Assets {
		rate := ""
		if e.RatePercentage != nil {
			rate = e.RatePercentage.String()
		}
		note := ""
		switch {
		case e.Fallback:
			note = "valuation unavailable: " + e.FallbackReason
		case e.Frozen:
			note = "value frozen at " + e.Status
		}
		row := []string{
			e.AssetName, e.AssetType, e.Status, e.InvoiceNumber, e.PurchaseDate,
			e.PurchaseFinancialYear, e.Method, rate,
			e.PurchasePrice.StringFixed(valuation.MoneyPlaces),
			e.CurrentValue.StringFixed(valuation.MoneyPlaces),
			e.TotalDepreciation.StringFixed(valuation.MoneyPlaces),
			e.DepreciationThisYear.StringFixed(valuation.MoneyPlaces),
			note,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	total := []string{
		"TOTAL " + summary.FinancialYear, "", "", "", "", "", "", "",
		summary.TotalPurchaseValue.StringFixed(valuation.MoneyPlaces),
		summary.TotalCurrentValue.StringFixed(valuation.MoneyPlaces),
		summary.TotalDepreciation.StringFixed(valuation.MoneyPlaces),
		summary.TotalDepreciationThisYear.StringFixed(valuation.MoneyPlaces),
		"",
	}
	if err := cw.Write(total); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// InvalidateSummaries drops all cached summaries
func (s *Service) InvalidateSummaries(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}

func (s *Service) engine(src Sources) *valuation.Engine {
	return valuation.NewEngine(valuation.NewResolver(src.Rates()), src.Categories(), s.strategies)
}

func (s *Service) aggregator(src Sources) *valuation.Aggregator {
	return valuation.NewAggregator(src.Rates(), src.Categories(), s.strategies, src.Population())
}

func (s *Service) asOf(asOf *civil.Date) civil.Date {
	if asOf != nil {
		return *asOf
	}
	return s.today()
}

func (s *Service) cached(ctx context.Context, label string) (*SummaryResponse, bool) {
	if s.cache == nil {
		return nil, false
	}
	summary, ok, err := s.cache.Get(ctx, label)
	if err != nil {
		s.logger.Warn("summary cache read failed",
			zap.String("financial_year", label), zap.Error(err))
		return nil, false
	}
	return summary, ok
}

func (s *Service) store(ctx context.Context, summary *SummaryResponse) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, summary.FinancialYear, summary); err != nil {
		s.logger.Warn("summary cache write failed",
			zap.String("financial_year", summary.FinancialYear), zap.Error(err))
	}
}

func (s *Service) logFallbacks(ctx context.Context, summary *valuation.Summary) {
	for _, e := range summary.Fallbacks() {
		s.logger.Warn("asset reported at cost in summary, valuation unavailable",
			zap.String("financial_year", summary.FinancialYear),
			zap.String("asset_id", e.AssetID.String()),
			zap.String("purchase_id", e.PurchaseID.String()),
			zap.String("category_id", e.CategoryID.String()),
			zap.String("reason", e.FallbackReason),
		)
	}
}

func isFallback(err error) bool {
	return errors.Is(err, valuation.ErrCategoryNotFound) || errors.Is(err, valuation.ErrSnapshotMissing)
}
