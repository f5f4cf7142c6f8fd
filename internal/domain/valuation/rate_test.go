package valuation

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/assetreg/backend/internal/domain/shared/strategy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRateInput() RateInput {
	return RateInput{
		CategoryID:         uuid.New(),
		Percentage:         decimal.NewFromInt(10),
		Method:             strategy.DepreciationMethodProRataDaily,
		ResidualPercentage: decimal.Zero,
		EffectiveFrom:      civil.Date{Year: 2023, Month: time.April, Day: 1},
	}
}

func TestNewDepreciationRate(t *testing.T) {
	t.Run("derives financial year from effective date", func(t *testing.T) {
		r, err := NewDepreciationRate(validRateInput())
		require.NoError(t, err)
		assert.Equal(t, "2023-24", r.FinancialYear)
		assert.Nil(t, r.EffectiveTo)

		events := r.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeRateCreated, events[0].EventType())
	})

	tests := []struct {
		name   string
		mutate func(in *RateInput)
		target error
	}{
		{"missing category", func(in *RateInput) { in.CategoryID = uuid.Nil }, ErrInvalidRate},
		{"unknown method", func(in *RateInput) { in.Method = "SUM_OF_DIGITS" }, ErrUnknownMethod},
		{"percentage above 100", func(in *RateInput) { in.Percentage = decimal.NewFromInt(101) }, ErrInvalidRate},
		{"negative percentage", func(in *RateInput) { in.Percentage = decimal.NewFromInt(-1) }, ErrInvalidRate},
		{"residual above 100", func(in *RateInput) { in.ResidualPercentage = decimal.NewFromInt(150) }, ErrInvalidRate},
		{"straight line without useful life", func(in *RateInput) {
			in.Method = strategy.DepreciationMethodStraightLine
			in.UsefulLifeYears = 0
		}, ErrInvalidRate},
		{"effective to before from", func(in *RateInput) {
			to := civil.Date{Year: 2023, Month: time.March, Day: 31}
			in.EffectiveTo = &to
		}, ErrInvalidRate},
		{"malformed financial year", func(in *RateInput) { in.FinancialYear = "2023-25" }, ErrInvalidFiscalYearLabel},
		{"missing effective from", func(in *RateInput) { in.EffectiveFrom = civil.Date{} }, ErrInvalidRate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRateInput()
			tt.mutate(&in)
			_, err := NewDepreciationRate(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
		})
	}

	t.Run("straight line with useful life", func(t *testing.T) {
		in := validRateInput()
		in.Method = strategy.DepreciationMethodStraightLine
		in.UsefulLifeYears = 5
		in.ResidualPercentage = decimal.NewFromInt(5)
		_, err := NewDepreciationRate(in)
		require.NoError(t, err)
	})
}

func TestDepreciationRate_Windows(t *testing.T) {
	in := validRateInput()
	to := civil.Date{Year: 2024, Month: time.March, Day: 31}
	in.EffectiveTo = &to
	r, err := NewDepreciationRate(in)
	require.NoError(t, err)

	assert.True(t, r.Covers(in.EffectiveFrom))
	assert.True(t, r.Covers(to))
	assert.False(t, r.Covers(to.AddDays(1)))
	assert.False(t, r.Covers(in.EffectiveFrom.AddDays(-1)))

	assert.True(t, r.Intersects(to, to.AddDays(30)))
	assert.False(t, r.Intersects(to.AddDays(1), to.AddDays(30)))

	t.Run("conflicts with same category and type only", func(t *testing.T) {
		other := validRateInput()
		other.CategoryID = in.CategoryID
		other.EffectiveFrom = civil.Date{Year: 2023, Month: time.October, Day: 1}
		o, err := NewDepreciationRate(other)
		require.NoError(t, err)
		assert.True(t, r.Conflicts(o))
		assert.True(t, o.Conflicts(r))
		assert.False(t, r.Conflicts(r))

		other.AssetType = "LAPTOP"
		typed, err := NewDepreciationRate(other)
		require.NoError(t, err)
		assert.False(t, r.Conflicts(typed))

		other.AssetType = ""
		other.EffectiveFrom = to.AddDays(1)
		later, err := NewDepreciationRate(other)
		require.NoError(t, err)
		assert.False(t, r.Conflicts(later))
	})

	t.Run("update raises event and bumps version", func(t *testing.T) {
		r.ClearDomainEvents()
		next := in
		next.Percentage = decimal.NewFromInt(15)
		require.NoError(t, r.Update(next))
		assert.True(t, r.Percentage.Equal(decimal.NewFromInt(15)))
		assert.Equal(t, 2, r.GetVersion())
		require.Len(t, r.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeRateUpdated, r.GetDomainEvents()[0].EventType())
	})
}
