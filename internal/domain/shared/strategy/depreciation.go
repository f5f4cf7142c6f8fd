package strategy

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// DepreciationMethod identifies how a rate period consumes book value
type DepreciationMethod string

const (
	DepreciationMethodStraightLine     DepreciationMethod = "STRAIGHT_LINE"
	DepreciationMethodDecliningBalance DepreciationMethod = "DECLINING_BALANCE"
	DepreciationMethodProRataDaily     DepreciationMethod = "PRO_RATA_DAILY"
)

// String returns the string representation of the method
func (m DepreciationMethod) String() string {
	return string(m)
}

// IsValid returns true if the method is one of the supported methods
func (m DepreciationMethod) IsValid() bool {
	switch m {
	case DepreciationMethodStraightLine, DepreciationMethodDecliningBalance, DepreciationMethodProRataDaily:
		return true
	default:
		return false
	}
}

// AllDepreciationMethods returns all supported methods
func AllDepreciationMethods() []DepreciationMethod {
	return []DepreciationMethod{
		DepreciationMethodStraightLine,
		DepreciationMethodDecliningBalance,
		DepreciationMethodProRataDaily,
	}
}

// PeriodContext describes one rate period already clipped to the valuation
// window. From and To are inclusive.
type PeriodContext struct {
	PurchasePrice      decimal.Decimal
	AcquiredOn         civil.Date
	BookValue          decimal.Decimal
	From               civil.Date
	To                 civil.Date
	Percentage         decimal.Decimal
	UsefulLifeYears    int
	ResidualPercentage decimal.Decimal
}

// DepreciationStrategy computes the depreciation charged for a single period
type DepreciationStrategy interface {
	Strategy
	// Method returns the depreciation method implemented
	Method() DepreciationMethod
	// Depreciate returns the amount of book value consumed in the period.
	// The result is never negative and never exceeds the opening book value.
	Depreciate(ctx context.Context, period PeriodContext) (decimal.Decimal, error)
}
