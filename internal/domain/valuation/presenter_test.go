package valuation_test

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/assetreg/backend/internal/domain/asset"
	"github.com/assetreg/backend/internal/domain/shared/strategy"
	"github.com/assetreg/backend/internal/domain/valuation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPurchase(t *testing.T, categoryID uuid.UUID, price string, on civil.Date) asset.PurchaseRecord {
	t.Helper()
	p, err := asset.NewPurchaseRecord(asset.NewPurchaseInput{
		AssetID:       uuid.New(),
		PurchasePrice: dec(price),
		PurchaseDate:  on,
		InvoiceNumber: "INV-" + uuid.NewString()[:8],
	})
	require.NoError(t, err)
	p.CategoryID = categoryID
	return *p
}

func TestPresenter_Live(t *testing.T) {
	ctx := context.Background()
	category := uuid.New()
	store := newFakeRateStore()
	store.add(newRate(t, category, strategy.DepreciationMethodProRataDaily, "10", date(2023, time.April, 1), nil))
	presenter := valuation.NewPresenter(newEngine(t, store, newFakeCategories(category)))

	record := newPurchase(t, category, "100000", date(2023, time.April, 1))

	for _, status := range []asset.Status{asset.StatusAvailable, asset.StatusAssigned, asset.StatusInactive} {
		t.Run(string(status), func(t *testing.T) {
			v, err := presenter.Present(ctx, record, status, date(2023, time.October, 1))
			require.NoError(t, err)
			assert.Equal(t, "94958.90", v.CurrentValue.StringFixed(2))
			assert.Equal(t, "5041.10", v.TotalDepreciation.StringFixed(2))
			assert.True(t, v.CurrentValue.Add(v.TotalDepreciation).Equal(v.PurchasePrice))
			assert.False(t, v.Frozen)
			assert.Equal(t, valuation.OutcomeComputed, v.Outcome)
		})
	}

	t.Run("no rate keeps full value", func(t *testing.T) {
		early := newPurchase(t, category, "100.005", date(2020, time.April, 1))
		v, err := presenter.Present(ctx, early, asset.StatusAvailable, date(2021, time.April, 1))
		require.NoError(t, err)
		assert.Equal(t, valuation.OutcomeNoRate, v.Outcome)
		assert.Equal(t, "100.01", v.CurrentValue.StringFixed(2), "rounds half away from zero")
		assert.True(t, v.TotalDepreciation.IsZero())
	})
}

func TestPresenter_StolenFreeze(t *testing.T) {
	ctx := context.Background()
	category := uuid.New()
	store := newFakeRateStore()
	store.add(newRate(t, category, strategy.DepreciationMethodProRataDaily, "10", date(2023, time.April, 1), nil))
	engine := newEngine(t, store, newFakeCategories(category))
	presenter := valuation.NewPresenter(engine)

	record := newPurchase(t, category, "100000", date(2023, time.April, 1))
	stolenOn := date(2023, time.October, 1)
	live, err := engine.CurrentValue(ctx, valuation.Input{
		Price:        record.PurchasePrice,
		PurchaseDate: record.PurchaseDate,
		CategoryID:   category,
		AsOf:         stolenOn,
	})
	require.NoError(t, err)
	require.NoError(t, record.RecordSnapshot(asset.StatusStolen, live, stolenOn))

	for _, asOf := range []civil.Date{stolenOn, date(2024, time.March, 31), date(2035, time.January, 1)} {
		t.Run(asOf.String(), func(t *testing.T) {
			v, err := presenter.Present(ctx, record, asset.StatusStolen, asOf)
			require.NoError(t, err)
			assert.True(t, v.Frozen)
			assert.True(t, v.CurrentValue.IsZero())
			assert.Equal(t, "5041.10", v.TotalDepreciation.StringFixed(2))
			assert.Equal(t, valuation.OutcomeFrozen, v.Outcome)
		})
	}

	t.Run("before the snapshot the live value applies", func(t *testing.T) {
		v, err := presenter.Present(ctx, record, asset.StatusStolen, date(2023, time.May, 1))
		require.NoError(t, err)
		assert.False(t, v.Frozen)
		assert.True(t, v.CurrentValue.IsPositive())
	})
}

func TestPresenter_Disposed(t *testing.T) {
	ctx := context.Background()
	category := uuid.New()
	presenter := valuation.NewPresenter(newEngine(t, newFakeRateStore(), newFakeCategories(category)))

	record := newPurchase(t, category, "2500", date(2022, time.June, 1))
	require.NoError(t, record.RecordSnapshot(asset.StatusDisposed, dec("1200.555"), date(2024, time.June, 1)))

	v, err := presenter.Present(ctx, record, asset.StatusDisposed, date(2024, time.June, 2))
	require.NoError(t, err)
	assert.True(t, v.CurrentValue.IsZero())
	assert.Equal(t, "1299.45", v.TotalDepreciation.StringFixed(2))

	t.Run("missing snapshot is an error", func(t *testing.T) {
		_, err := presenter.Present(ctx, record, asset.StatusStolen, date(2024, time.June, 2))
		assert.ErrorIs(t, err, valuation.ErrSnapshotMissing)
	})
}

func TestPresenter_CategoryNotFound(t *testing.T) {
	presenter := valuation.NewPresenter(newEngine(t, newFakeRateStore(), newFakeCategories()))
	record := newPurchase(t, uuid.New(), "100", date(2023, time.April, 1))

	_, err := presenter.Present(context.Background(), record, asset.StatusAvailable, date(2024, time.April, 1))
	assert.ErrorIs(t, err, valuation.ErrCategoryNotFound)
}
