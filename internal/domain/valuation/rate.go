package valuation

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/assetreg/backend/internal/domain/shared/strategy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DepreciationRate is one effective-dated rate policy for a category,
// optionally narrowed to an asset type
type DepreciationRate struct {
	shared.BaseAggregateRoot
	CategoryID uuid.UUID
	// AssetType narrows the rate to one kind of asset, "" applies to all
	AssetType string
	// FinancialYear is informational; the effective window drives valuation
	FinancialYear      string
	Percentage         decimal.Decimal
	Method             strategy.DepreciationMethod
	UsefulLifeYears    int
	ResidualPercentage decimal.Decimal
	EffectiveFrom      civil.Date
	// EffectiveTo is inclusive, nil means still current
	EffectiveTo *civil.Date
}

// RateInput holds the administrator-maintained fields of a rate
type RateInput struct {
	CategoryID         uuid.UUID
	AssetType          string
	FinancialYear      string
	Percentage         decimal.Decimal
	Method             strategy.DepreciationMethod
	UsefulLifeYears    int
	ResidualPercentage decimal.Decimal
	EffectiveFrom      civil.Date
	EffectiveTo        *civil.Date
}

// NewDepreciationRate validates the input and creates a rate
func NewDepreciationRate(in RateInput) (*DepreciationRate, error) {
	in, err := normalizeRateInput(in)
	if err != nil {
		return nil, err
	}

	r := &DepreciationRate{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	r.apply(in)
	r.AddDomainEvent(NewRateChangedEvent(EventTypeRateCreated, r))
	return r, nil
}

// Update replaces the rate's fields after validation
func (r *DepreciationRate) Update(in RateInput) error {
	in, err := normalizeRateInput(in)
	if err != nil {
		return err
	}
	previousCategory := r.CategoryID

	r.apply(in)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewRateChangedEvent(EventTypeRateUpdated, r))
	if previousCategory != r.CategoryID {
		moved := NewRateChangedEvent(EventTypeRateUpdated, r)
		moved.CategoryID = previousCategory
		r.AddDomainEvent(moved)
	}
	return nil
}

// MarkDeleted records the deletion event before the row is removed
func (r *DepreciationRate) MarkDeleted() {
	r.AddDomainEvent(NewRateChangedEvent(EventTypeRateDeleted, r))
}

// Covers reports whether d falls inside the effective window
func (r *DepreciationRate) Covers(d civil.Date) bool {
	if d.Before(r.EffectiveFrom) {
		return false
	}
	return r.EffectiveTo == nil || !d.After(*r.EffectiveTo)
}

// Intersects reports whether the effective window shares a day with [from, to]
func (r *DepreciationRate) Intersects(from, to civil.Date) bool {
	if to.Before(r.EffectiveFrom) {
		return false
	}
	return r.EffectiveTo == nil || !r.EffectiveTo.Before(from)
}

// Conflicts reports whether other targets the same category and asset type
// with an intersecting window
func (r *DepreciationRate) Conflicts(other *DepreciationRate) bool {
	if r.ID == other.ID || r.CategoryID != other.CategoryID || r.AssetType != other.AssetType {
		return false
	}
	to := civil.Date{Year: 9999, Month: time.December, Day: 31}
	if other.EffectiveTo != nil {
		to = *other.EffectiveTo
	}
	return r.Intersects(other.EffectiveFrom, to)
}

func (r *DepreciationRate) apply(in RateInput) {
	r.CategoryID = in.CategoryID
	r.AssetType = in.AssetType
	r.FinancialYear = in.FinancialYear
	r.Percentage = in.Percentage
	r.Method = in.Method
	r.UsefulLifeYears = in.UsefulLifeYears
	r.ResidualPercentage = in.ResidualPercentage
	r.EffectiveFrom = in.EffectiveFrom
	r.EffectiveTo = in.EffectiveTo
}

func normalizeRateInput(in RateInput) (RateInput, error) {
	invalid := func(msg string) (RateInput, error) {
		return in, shared.NewDomainError(ErrInvalidRate.Code, msg)
	}

	if in.CategoryID == uuid.Nil {
		return invalid("Category is required")
	}
	if !in.Method.IsValid() {
		return in, shared.NewDomainError(ErrUnknownMethod.Code, fmt.Sprintf("Unknown depreciation method %q", in.Method))
	}
	if in.Percentage.IsNegative() || in.Percentage.GreaterThan(hundred) {
		return invalid("Depreciation percentage must be between 0 and 100")
	}
	if in.ResidualPercentage.IsNegative() || in.ResidualPercentage.GreaterThan(hundred) {
		return invalid("Residual value percentage must be between 0 and 100")
	}
	if in.UsefulLifeYears < 0 {
		return invalid("Useful life cannot be negative")
	}
	if in.Method == strategy.DepreciationMethodStraightLine && in.UsefulLifeYears < 1 {
		return invalid("Useful life must be at least 1 year for straight line depreciation")
	}
	if !in.EffectiveFrom.IsValid() {
		return invalid("Effective from date is required")
	}
	if in.EffectiveTo != nil {
		if !in.EffectiveTo.IsValid() {
			return invalid("Effective to date is invalid")
		}
		if in.EffectiveTo.Before(in.EffectiveFrom) {
			return invalid("Effective to date cannot be before effective from date")
		}
	}

	in.AssetType = strings.TrimSpace(in.AssetType)
	in.FinancialYear = strings.TrimSpace(in.FinancialYear)
	if in.FinancialYear == "" {
		in.FinancialYear = FinancialYearOf(in.EffectiveFrom)
	} else if _, err := ParseFiscalYear(in.FinancialYear); err != nil {
		return in, err
	}
	return in, nil
}
