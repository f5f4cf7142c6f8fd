package depreciation

import (
	"context"

	"github.com/assetreg/backend/internal/domain/shared/strategy"
	"github.com/assetreg/backend/internal/domain/valuation"
	"github.com/shopspring/decimal"
)

// ProRataDailyStrategy accrues the annual percentage of the running book
// value day by day
type ProRataDailyStrategy struct {
	strategy.BaseStrategy
}

// NewProRataDailyStrategy creates a new pro rata daily strategy
func NewProRataDailyStrategy() *ProRataDailyStrategy {
	return &ProRataDailyStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"pro_rata_daily",
			strategy.StrategyTypeDepreciation,
			"Daily accrual of an annual percentage of book value",
		),
	}
}

// Method returns the depreciation method
func (s *ProRataDailyStrategy) Method() strategy.DepreciationMethod {
	return strategy.DepreciationMethodProRataDaily
}

// Depreciate charges bookValue*pct/100 scaled by the inclusive day count of
// the period over 365, or 366 when the period starts in a leap year
func (s *ProRataDailyStrategy) Depreciate(ctx context.Context, p strategy.PeriodContext) (decimal.Decimal, error) {
	if err := validatePeriod(p); err != nil {
		return decimal.Zero, err
	}
	if !p.BookValue.IsPositive() {
		return decimal.Zero, nil
	}

	days := decimal.NewFromInt(int64(valuation.InclusiveDays(p.From, p.To)))
	daysInYear := decimal.NewFromInt(int64(valuation.DaysInYear(p.From.Year)))

	annual := p.BookValue.Mul(p.Percentage).Div(hundred)
	amount := annual.Mul(days).Div(daysInYear)
	return capAt(amount, p.BookValue), nil
}
