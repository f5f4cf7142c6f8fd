package depreciation

import (
	"fmt"

	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/assetreg/backend/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func validatePeriod(p strategy.PeriodContext) error {
	if !p.From.IsValid() || !p.To.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Period bounds must be valid dates")
	}
	if p.To.Before(p.From) {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Period ends %s before it starts %s", p.To, p.From))
	}
	if p.Percentage.IsNegative() || p.Percentage.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_RATE", "Depreciation percentage must be between 0 and 100")
	}
	return nil
}

// capAt keeps amount within [0, limit]
func capAt(amount, limit decimal.Decimal) decimal.Decimal {
	if limit.IsNegative() {
		limit = decimal.Zero
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	if amount.GreaterThan(limit) {
		return limit
	}
	return amount
}
