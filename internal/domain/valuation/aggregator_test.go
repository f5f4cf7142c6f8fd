package valuation_test

import (
	"context"
	"testing"
	"time"

	"github.com/assetreg/backend/internal/domain/asset"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/assetreg/backend/internal/domain/shared/strategy"
	"github.com/assetreg/backend/internal/domain/valuation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type aggregatorFixture struct {
	aggregator *valuation.Aggregator
	rates      *fakeRateStore
	categories *fakeCategories
	category   uuid.UUID
	alpha      valuation.AssetHolding
}

func newAggregatorFixture(t *testing.T) *aggregatorFixture {
	t.Helper()
	category := uuid.New()
	deleted := uuid.New()

	rates := newFakeRateStore()
	rates.add(newRate(t, category, strategy.DepreciationMethodProRataDaily, "10", date(2023, time.April, 1), nil))
	categories := newFakeCategories(category)

	alpha := valuation.AssetHolding{
		AssetID: uuid.New(), AssetName: "Alpha", CategoryID: category, Status: asset.StatusAssigned,
		Purchases: []asset.PurchaseRecord{
			newPurchase(t, category, "100000", date(2023, time.April, 1)),
			newPurchase(t, category, "50000", date(2024, time.June, 1)),
		},
	}

	stolen := newPurchase(t, category, "20000", date(2023, time.April, 1))
	require.NoError(t, stolen.RecordSnapshot(asset.StatusStolen, dec("19000"), date(2023, time.December, 1)))
	beta := valuation.AssetHolding{
		AssetID: uuid.New(), AssetName: "Beta", CategoryID: category, Status: asset.StatusStolen,
		Purchases: []asset.PurchaseRecord{stolen},
	}

	gamma := valuation.AssetHolding{
		AssetID: uuid.New(), AssetName: "Gamma", CategoryID: deleted, Status: asset.StatusAvailable,
		Purchases: []asset.PurchaseRecord{newPurchase(t, deleted, "30000", date(2023, time.May, 1))},
	}

	delta := valuation.AssetHolding{
		AssetID: uuid.New(), AssetName: "Delta", CategoryID: category, Status: asset.StatusAvailable,
		Purchases: []asset.PurchaseRecord{newPurchase(t, category, "10000", date(2025, time.January, 1))},
	}

	population := &fakePopulation{holdings: []valuation.AssetHolding{delta, gamma, beta, alpha}}
	return &aggregatorFixture{
		aggregator: valuation.NewAggregator(rates, categories, registry(t), population),
		rates:      rates,
		categories: categories,
		category:   category,
		alpha:      alpha,
	}
}

func TestAggregator_SummaryForFiscalYear(t *testing.T) {
	f := newAggregatorFixture(t)

	summary, err := f.aggregator.SummaryForFiscalYear(context.Background(), "2023-24")
	require.NoError(t, err)

	assert.Equal(t, "2023-24", summary.FinancialYear)
	assert.Equal(t, date(2024, time.March, 31), summary.End)
	require.Len(t, summary.Assets, 3, "assets bought after the year end are left out")
	assert.Equal(t, "Alpha", summary.Assets[0].AssetName)
	assert.Equal(t, "Beta", summary.Assets[1].AssetName)
	assert.Equal(t, "Gamma", summary.Assets[2].AssetName)

	alpha := summary.Assets[0]
	assert.Equal(t, f.alpha.Purchases[0].ID, alpha.PurchaseID, "latest purchase on or before the year end")
	assert.Equal(t, "89972.60", alpha.CurrentValue.StringFixed(2))
	assert.Equal(t, "10027.40", alpha.TotalDepreciation.StringFixed(2))
	assert.Equal(t, "10027.40", alpha.DepreciationThisYear.StringFixed(2))
	assert.Equal(t, "2023-24", alpha.PurchaseFinancialYear)
	assert.Equal(t, strategy.DepreciationMethodProRataDaily, alpha.Method)
	require.NotNil(t, alpha.RatePercentage)
	assert.Equal(t, "10", alpha.RatePercentage.String())

	beta := summary.Assets[1]
	assert.True(t, beta.Frozen)
	assert.True(t, beta.CurrentValue.IsZero())
	assert.Equal(t, "1000.00", beta.TotalDepreciation.StringFixed(2))

	gamma := summary.Assets[2]
	assert.True(t, gamma.Fallback)
	assert.Contains(t, gamma.FallbackReason, "not found")
	assert.Equal(t, "30000.00", gamma.CurrentValue.StringFixed(2))
	assert.True(t, gamma.TotalDepreciation.IsZero())
	assert.Len(t, summary.Fallbacks(), 1)

	assert.Equal(t, "150000.00", summary.TotalPurchaseValue.StringFixed(2))
	assert.Equal(t, "119972.60", summary.TotalCurrentValue.StringFixed(2))
	assert.Equal(t, "11027.40", summary.TotalDepreciation.StringFixed(2))
}

func TestAggregator_SummaryForRange(t *testing.T) {
	f := newAggregatorFixture(t)

	summaries, err := f.aggregator.SummaryForRange(context.Background(), "2023-24", "2024-25")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	next := summaries[1]
	assert.Equal(t, "2024-25", next.FinancialYear)
	require.Len(t, next.Assets, 4)

	alpha := next.Assets[0]
	assert.Equal(t, f.alpha.Purchases[1].ID, alpha.PurchaseID)
	assert.Equal(t, "4153.01", alpha.TotalDepreciation.StringFixed(2))
	assert.Equal(t, "4153.01", alpha.DepreciationThisYear.StringFixed(2))

	beta := next.Assets[1]
	assert.True(t, beta.DepreciationThisYear.IsZero(), "frozen assets do not depreciate further")

	delta := next.Assets[2]
	assert.Equal(t, "Delta", delta.AssetName)
	assert.Equal(t, "246.58", delta.TotalDepreciation.StringFixed(2))

	assert.Equal(t, 1, f.rates.calls[f.category], "rates are loaded once per category per pass")
}

func TestAggregator_Errors(t *testing.T) {
	f := newAggregatorFixture(t)
	ctx := context.Background()

	_, err := f.aggregator.SummaryForFiscalYear(ctx, "2023-2024")
	assert.ErrorIs(t, err, valuation.ErrInvalidFiscalYearLabel)

	_, err = f.aggregator.SummaryForRange(ctx, "2024-25", "2023-24")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestAggregator_EmptyPopulation(t *testing.T) {
	a := valuation.NewAggregator(newFakeRateStore(), newFakeCategories(), registry(t), &fakePopulation{})
	summary, err := a.SummaryForFiscalYear(context.Background(), "2023-24")
	require.NoError(t, err)
	assert.Empty(t, summary.Assets)
	assert.True(t, summary.TotalPurchaseValue.IsZero())
}
