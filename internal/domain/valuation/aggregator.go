package valuation

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cloud.google.com/go/civil"
	"github.com/assetreg/backend/internal/domain/asset"
	"github.com/assetreg/backend/internal/domain/shared/strategy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BreakdownEntry is one asset's line in a fiscal-year summary
type BreakdownEntry struct {
	AssetID               uuid.UUID
	AssetName             string
	CategoryID            uuid.UUID
	AssetType             string
	Status                asset.Status
	PurchaseID            uuid.UUID
	InvoiceNumber         string
	PurchaseDate          civil.Date
	PurchaseFinancialYear string
	// Method and RatePercentage describe the rate in force at purchase,
	// empty when no rate covered the purchase date
	Method               strategy.DepreciationMethod
	RatePercentage       *decimal.Decimal
	PurchasePrice        decimal.Decimal
	CurrentValue         decimal.Decimal
	TotalDepreciation    decimal.Decimal
	DepreciationThisYear decimal.Decimal
	Frozen               bool
	Outcome              Outcome
	// Fallback is set when the asset could not be valued and is reported at
	// its purchase price with no depreciation
	Fallback       bool
	FallbackReason string
}

// Summary totals the valuation of the asset population at a fiscal year end
type Summary struct {
	FinancialYear             string
	Start                     civil.Date
	End                       civil.Date
	TotalPurchaseValue        decimal.Decimal
	TotalCurrentValue         decimal.Decimal
	TotalDepreciation         decimal.Decimal
	TotalDepreciationThisYear decimal.Decimal
	Assets                    []BreakdownEntry
}

// Fallbacks returns the entries that were reported without a valuation
func (s *Summary) Fallbacks() []BreakdownEntry {
	var out []BreakdownEntry
	for _, e := range s.Assets {
		if e.Fallback {
			out = append(out, e)
		}
	}
	return out
}

// Aggregator batches valuations across the asset population
type Aggregator struct {
	rates      RateStore
	categories CategoryDirectory
	strategies StrategyProvider
	population AssetPopulation
}

// NewAggregator creates an aggregator
func NewAggregator(rates RateStore, categories CategoryDirectory, strategies StrategyProvider, population AssetPopulation) *Aggregator {
	return &Aggregator{
		rates:      rates,
		categories: categories,
		strategies: strategies,
		population: population,
	}
}

// SummaryForFiscalYear values every asset's most recent purchase made on or
// before the fiscal year end, as of that end date
func (a *Aggregator) SummaryForFiscalYear(ctx context.Context, label string) (*Summary, error) {
	fy, err := ParseFiscalYear(label)
	if err != nil {
		return nil, err
	}
	p, err := a.newPass(ctx)
	if err != nil {
		return nil, err
	}
	return p.summarize(ctx, fy)
}

// SummaryForRange returns one summary per fiscal year from start to end inclusive
func (a *Aggregator) SummaryForRange(ctx context.Context, start, end string) ([]Summary, error) {
	labels, err := Range(start, end)
	if err != nil {
		return nil, err
	}
	p, err := a.newPass(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(labels))
	for _, label := range labels {
		fy, _ := ParseFiscalYear(label)
		s, err := p.summarize(ctx, fy)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *s)
	}
	return summaries, nil
}

// pass holds the memoized lookups of one aggregation run
type pass struct {
	holdings  []AssetHolding
	engine    *Engine
	presenter *Presenter
}

func (a *Aggregator) newPass(ctx context.Context) (*pass, error) {
	holdings, err := a.population.ValuedAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("load asset population: %w", err)
	}
	sort.SliceStable(holdings, func(i, j int) bool {
		if holdings[i].AssetName != holdings[j].AssetName {
			return holdings[i].AssetName < holdings[j].AssetName
		}
		return holdings[i].AssetID.String() < holdings[j].AssetID.String()
	})

	engine := NewEngine(
		NewResolver(&memoRateStore{inner: a.rates, cache: make(map[uuid.UUID][]DepreciationRate)}),
		&memoCategoryDirectory{inner: a.categories, cache: make(map[uuid.UUID]bool)},
		a.strategies,
	)
	return &pass{
		holdings:  holdings,
		engine:    engine,
		presenter: NewPresenter(engine),
	}, nil
}

func (p *pass) summarize(ctx context.Context, fy FiscalYear) (*Summary, error) {
	s := &Summary{
		FinancialYear:             fy.Label(),
		Start:                     fy.Start(),
		End:                       fy.End(),
		TotalPurchaseValue:        decimal.Zero,
		TotalCurrentValue:         decimal.Zero,
		TotalDepreciation:         decimal.Zero,
		TotalDepreciationThisYear: decimal.Zero,
		Assets:                    make([]BreakdownEntry, 0, len(p.holdings)),
	}

	for _, h := range p.holdings {
		record := latestPurchaseBy(h.Purchases, fy.End())
		if record == nil {
			continue
		}
		entry, err := p.entryFor(ctx, h, *record, fy)
		if err != nil {
			return nil, err
		}

		s.TotalPurchaseValue = s.TotalPurchaseValue.Add(entry.PurchasePrice)
		s.TotalCurrentValue = s.TotalCurrentValue.Add(entry.CurrentValue)
		s.TotalDepreciation = s.TotalDepreciation.Add(entry.TotalDepreciation)
		s.TotalDepreciationThisYear = s.TotalDepreciationThisYear.Add(entry.DepreciationThisYear)
		s.Assets = append(s.Assets, entry)
	}
	return s, nil
}

func (p *pass) entryFor(ctx context.Context, h AssetHolding, record asset.PurchaseRecord, fy FiscalYear) (BreakdownEntry, error) {
	record.CategoryID = h.CategoryID
	record.AssetType = h.AssetType

	entry := BreakdownEntry{
		AssetID:               h.AssetID,
		AssetName:             h.AssetName,
		CategoryID:            h.CategoryID,
		AssetType:             h.AssetType,
		Status:                h.Status,
		PurchaseID:            record.ID,
		InvoiceNumber:         record.InvoiceNumber,
		PurchaseDate:          record.PurchaseDate,
		PurchaseFinancialYear: FinancialYearOf(record.PurchaseDate),
		PurchasePrice:         Round(record.PurchasePrice),
	}

	atEnd, err := p.presenter.Present(ctx, record, h.Status, fy.End())
	if err != nil {
		return fallbackEntry(entry, err)
	}
	before, err := p.presenter.Present(ctx, record, h.Status, fy.Start().AddDays(-1))
	if err != nil {
		return fallbackEntry(entry, err)
	}

	entry.CurrentValue = atEnd.CurrentValue
	entry.TotalDepreciation = atEnd.TotalDepreciation
	entry.DepreciationThisYear = atEnd.TotalDepreciation.Sub(before.TotalDepreciation)
	entry.Frozen = atEnd.Frozen
	entry.Outcome = atEnd.Outcome

	rate, found, err := p.engine.Resolver().ResolveAt(ctx, h.CategoryID, h.AssetType, record.PurchaseDate)
	if err != nil {
		return BreakdownEntry{}, err
	}
	if found {
		pct := rate.Percentage
		entry.Method = rate.Method
		entry.RatePercentage = &pct
	}
	return entry, nil
}

// fallbackEntry reports an asset that cannot be valued at its purchase price.
// Only a missing category or snapshot qualifies; other errors abort the summary.
func fallbackEntry(entry BreakdownEntry, err error) (BreakdownEntry, error) {
	if !errors.Is(err, ErrCategoryNotFound) && !errors.Is(err, ErrSnapshotMissing) {
		return BreakdownEntry{}, err
	}
	entry.CurrentValue = entry.PurchasePrice
	entry.TotalDepreciation = decimal.Zero
	entry.DepreciationThisYear = decimal.Zero
	entry.Fallback = true
	entry.FallbackReason = err.Error()
	return entry, nil
}

// latestPurchaseBy picks the record with the latest purchase date on or
// before cutoff, breaking ties by the latest creation time
func latestPurchaseBy(records []asset.PurchaseRecord, cutoff civil.Date) *asset.PurchaseRecord {
	var latest *asset.PurchaseRecord
	for i := range records {
		r := &records[i]
		if r.PurchaseDate.After(cutoff) {
			continue
		}
		if latest == nil ||
			r.PurchaseDate.After(latest.PurchaseDate) ||
			(r.PurchaseDate == latest.PurchaseDate && r.CreatedAt.After(latest.CreatedAt)) {
			latest = r
		}
	}
	return latest
}

// memoRateStore caches RatesFor per category for the lifetime of one pass
type memoRateStore struct {
	inner RateStore
	cache map[uuid.UUID][]DepreciationRate
}

func (m *memoRateStore) RatesFor(ctx context.Context, categoryID uuid.UUID) ([]DepreciationRate, error) {
	if rates, ok := m.cache[categoryID]; ok {
		return rates, nil
	}
	rates, err := m.inner.RatesFor(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	m.cache[categoryID] = rates
	return rates, nil
}

type memoCategoryDirectory struct {
	inner CategoryDirectory
	cache map[uuid.UUID]bool
}

func (m *memoCategoryDirectory) CategoryExists(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	if exists, ok := m.cache[categoryID]; ok {
		return exists, nil
	}
	exists, err := m.inner.CategoryExists(ctx, categoryID)
	if err != nil {
		return false, err
	}
	m.cache[categoryID] = exists
	return exists, nil
}
