package depreciation

import (
	"context"

	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/assetreg/backend/internal/domain/shared/strategy"
	"github.com/assetreg/backend/internal/domain/valuation"
	"github.com/shopspring/decimal"
)

// StraightLineStrategy spreads the depreciable part of the purchase price
// evenly over the useful life
type StraightLineStrategy struct {
	strategy.BaseStrategy
}

// NewStraightLineStrategy creates a new straight line strategy
func NewStraightLineStrategy() *StraightLineStrategy {
	return &StraightLineStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"straight_line",
			strategy.StrategyTypeDepreciation,
			"Equal annual charge over the useful life down to the residual value",
		),
	}
}

// Method returns the depreciation method
func (s *StraightLineStrategy) Method() strategy.DepreciationMethod {
	return strategy.DepreciationMethodStraightLine
}

// Depreciate charges price*(1-residual/100)/usefulLife for every fiscal year
// lying wholly inside the period. The fiscal year of acquisition is charged
// by days held when only partly covered; other partial years are not charged.
// Book value never drops below the residual floor.
func (s *StraightLineStrategy) Depreciate(ctx context.Context, p strategy.PeriodContext) (decimal.Decimal, error) {
	if err := validatePeriod(p); err != nil {
		return decimal.Zero, err
	}
	if p.UsefulLifeYears < 1 {
		return decimal.Zero, shared.NewDomainError("INVALID_RATE", "Useful life must be at least 1 year for straight line depreciation")
	}
	if p.ResidualPercentage.IsNegative() || p.ResidualPercentage.GreaterThan(hundred) {
		return decimal.Zero, shared.NewDomainError("INVALID_RATE", "Residual value percentage must be between 0 and 100")
	}

	depreciable := p.PurchasePrice.Mul(hundred.Sub(p.ResidualPercentage)).Div(hundred)
	annual := depreciable.Div(decimal.NewFromInt(int64(p.UsefulLifeYears)))
	floor := p.PurchasePrice.Mul(p.ResidualPercentage).Div(hundred)

	total := decimal.Zero
	for _, fy := range valuation.FiscalYearsTouching(p.From, p.To) {
		if !p.From.After(fy.Start()) && !p.To.Before(fy.End()) {
			total = total.Add(annual)
			continue
		}
		if !fy.Contains(p.AcquiredOn) {
			continue
		}

		start := p.From
		if p.AcquiredOn.After(start) {
			start = p.AcquiredOn
		}
		end := p.To
		if fy.End().Before(end) {
			end = fy.End()
		}
		held := valuation.InclusiveDays(start, end)
		if held == 0 {
			continue
		}
		ratio := decimal.NewFromInt(int64(held)).Div(decimal.NewFromInt(int64(fy.DaysInYear())))
		if ratio.GreaterThan(decimal.NewFromInt(1)) {
			ratio = decimal.NewFromInt(1)
		}
		total = total.Add(annual.Mul(ratio))
	}

	return capAt(total, p.BookValue.Sub(floor)), nil
}
