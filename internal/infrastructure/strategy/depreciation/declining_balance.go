package depreciation

import (
	"context"

	"github.com/assetreg/backend/internal/domain/shared/strategy"
	"github.com/assetreg/backend/internal/domain/valuation"
	"github.com/shopspring/decimal"
)

// DecliningBalanceStrategy charges a fixed percentage of the written down
// value once per fiscal year
type DecliningBalanceStrategy struct {
	strategy.BaseStrategy
}

// NewDecliningBalanceStrategy creates a new declining balance strategy
func NewDecliningBalanceStrategy() *DecliningBalanceStrategy {
	return &DecliningBalanceStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"declining_balance",
			strategy.StrategyTypeDepreciation,
			"Fixed percentage of the remaining book value each fiscal year",
		),
	}
}

// Method returns the depreciation method
func (s *DecliningBalanceStrategy) Method() strategy.DepreciationMethod {
	return strategy.DepreciationMethodDecliningBalance
}

// Depreciate compounds bookValue*pct/100 over every fiscal year the period
// touches, without pro-rating inside a year
func (s *DecliningBalanceStrategy) Depreciate(ctx context.Context, p strategy.PeriodContext) (decimal.Decimal, error) {
	if err := validatePeriod(p); err != nil {
		return decimal.Zero, err
	}
	if !p.BookValue.IsPositive() {
		return decimal.Zero, nil
	}

	remaining := p.BookValue
	for range valuation.FiscalYearsTouching(p.From, p.To) {
		remaining = remaining.Sub(remaining.Mul(p.Percentage).Div(hundred))
	}
	return capAt(p.BookValue.Sub(remaining), p.BookValue), nil
}
