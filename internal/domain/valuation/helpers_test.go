package valuation_test

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/assetreg/backend/internal/domain/shared/strategy"
	"github.com/assetreg/backend/internal/domain/valuation"
	strategyimpl "github.com/assetreg/backend/internal/infrastructure/strategy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeRateStore struct {
	rates map[uuid.UUID][]valuation.DepreciationRate
	calls map[uuid.UUID]int
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{
		rates: make(map[uuid.UUID][]valuation.DepreciationRate),
		calls: make(map[uuid.UUID]int),
	}
}

func (s *fakeRateStore) add(r *valuation.DepreciationRate) {
	s.rates[r.CategoryID] = append(s.rates[r.CategoryID], *r)
}

func (s *fakeRateStore) RatesFor(ctx context.Context, categoryID uuid.UUID) ([]valuation.DepreciationRate, error) {
	s.calls[categoryID]++
	return s.rates[categoryID], nil
}

type fakeCategories struct {
	known map[uuid.UUID]bool
	calls int
}

func newFakeCategories(ids ...uuid.UUID) *fakeCategories {
	c := &fakeCategories{known: make(map[uuid.UUID]bool)}
	for _, id := range ids {
		c.known[id] = true
	}
	return c
}

func (c *fakeCategories) CategoryExists(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	c.calls++
	return c.known[categoryID], nil
}

type fakePopulation struct {
	holdings []valuation.AssetHolding
}

func (p *fakePopulation) ValuedAssets(ctx context.Context) ([]valuation.AssetHolding, error) {
	out := make([]valuation.AssetHolding, len(p.holdings))
	copy(out, p.holdings)
	return out, nil
}

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newRate(t *testing.T, categoryID uuid.UUID, method strategy.DepreciationMethod, pct string, from civil.Date, to *civil.Date) *valuation.DepreciationRate {
	t.Helper()
	r, err := valuation.NewDepreciationRate(valuation.RateInput{
		CategoryID:         categoryID,
		Percentage:         dec(pct),
		Method:             method,
		UsefulLifeYears:    4,
		ResidualPercentage: decimal.Zero,
		EffectiveFrom:      from,
		EffectiveTo:        to,
	})
	require.NoError(t, err)
	return r
}

func newEngine(t *testing.T, store valuation.RateStore, categories valuation.CategoryDirectory) *valuation.Engine {
	t.Helper()
	registry, err := strategyimpl.NewRegistryWithDefaults()
	require.NoError(t, err)
	return valuation.NewEngine(valuation.NewResolver(store), categories, registry)
}

func registry(t *testing.T) *strategyimpl.StrategyRegistry {
	t.Helper()
	r, err := strategyimpl.NewRegistryWithDefaults()
	require.NoError(t, err)
	return r
}

func ptr[T any](v T) *T {
	return &v
}
