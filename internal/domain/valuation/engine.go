package valuation

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/assetreg/backend/internal/domain/shared/strategy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Outcome tells apart the ways a valuation can end up at a given figure
type Outcome string

const (
	// OutcomeComputed means at least one rate period was charged
	OutcomeComputed Outcome = "COMPUTED"
	// OutcomeNoRate means no rate overlaps the holding window, depreciation is zero
	OutcomeNoRate Outcome = "NO_RATE"
	// OutcomeNotAcquired means the as-of date precedes the purchase date
	OutcomeNotAcquired Outcome = "NOT_ACQUIRED"
	// OutcomeFrozen means a stolen or disposed snapshot replaced the live value
	OutcomeFrozen Outcome = "FROZEN"
)

// StrategyProvider looks up the strategy implementing a depreciation method
type StrategyProvider interface {
	DepreciationStrategy(method strategy.DepreciationMethod) (strategy.DepreciationStrategy, error)
}

// Input identifies one purchase to value as of a date
type Input struct {
	Price        decimal.Decimal
	PurchaseDate civil.Date
	CategoryID   uuid.UUID
	AssetType    string
	AsOf         civil.Date
}

// PeriodCharge is the depreciation charged for one clipped rate period
type PeriodCharge struct {
	RateID         uuid.UUID
	Method         strategy.DepreciationMethod
	From           civil.Date
	To             civil.Date
	Amount         decimal.Decimal
	BookValueAfter decimal.Decimal
}

// Result is an unrounded valuation. Accumulated + BookValue equals Price.
type Result struct {
	Price       decimal.Decimal
	Accumulated decimal.Decimal
	BookValue   decimal.Decimal
	Outcome     Outcome
	Periods     []PeriodCharge
}

// CurrentValue returns the remaining book value
func (r Result) CurrentValue() decimal.Decimal {
	return r.Price.Sub(r.Accumulated)
}

// Engine walks a category's rate schedule to value a purchase
type Engine struct {
	resolver   *Resolver
	categories CategoryDirectory
	strategies StrategyProvider
}

// NewEngine creates a depreciation engine
func NewEngine(resolver *Resolver, categories CategoryDirectory, strategies StrategyProvider) *Engine {
	return &Engine{
		resolver:   resolver,
		categories: categories,
		strategies: strategies,
	}
}

// Resolver returns the resolver the engine reads rates through
func (e *Engine) Resolver() *Resolver {
	return e.resolver
}

// AccumulatedDepreciation computes how much book value the purchase has
// consumed between its purchase date and in.AsOf
func (e *Engine) AccumulatedDepreciation(ctx context.Context, in Input) (Result, error) {
	if in.Price.IsNegative() {
		return Result{}, shared.NewDomainError("INVALID_INPUT", "Purchase price cannot be negative")
	}
	if !in.PurchaseDate.IsValid() || !in.AsOf.IsValid() {
		return Result{}, shared.NewDomainError("INVALID_INPUT", "Purchase date and valuation date must be valid dates")
	}

	result := Result{
		Price:       in.Price,
		Accumulated: decimal.Zero,
		BookValue:   in.Price,
		Outcome:     OutcomeNoRate,
	}
	if in.AsOf.Before(in.PurchaseDate) {
		result.Outcome = OutcomeNotAcquired
		return result, nil
	}

	exists, err := e.categories.CategoryExists(ctx, in.CategoryID)
	if err != nil {
		return Result{}, fmt.Errorf("check category %s: %w", in.CategoryID, err)
	}
	if !exists {
		return Result{}, shared.NewDomainError(ErrCategoryNotFound.Code,
			fmt.Sprintf("Category %s not found", in.CategoryID))
	}

	periods, err := e.resolver.Schedule(ctx, in.CategoryID, in.AssetType, in.PurchaseDate, in.AsOf)
	if err != nil {
		return Result{}, err
	}

	bookValue := in.Price
	for _, period := range periods {
		rate := &period.Rate
		from, to := period.From, period.To

		s, err := e.strategies.DepreciationStrategy(rate.Method)
		if err != nil {
			return Result{}, fmt.Errorf("rate %s: %w", rate.ID, err)
		}
		amount, err := s.Depreciate(ctx, strategy.PeriodContext{
			PurchasePrice:      in.Price,
			AcquiredOn:         in.PurchaseDate,
			BookValue:          bookValue,
			From:               from,
			To:                 to,
			Percentage:         rate.Percentage,
			UsefulLifeYears:    rate.UsefulLifeYears,
			ResidualPercentage: rate.ResidualPercentage,
		})
		if err != nil {
			return Result{}, fmt.Errorf("rate %s: %w", rate.ID, err)
		}

		bookValue = bookValue.Sub(amount)
		result.Periods = append(result.Periods, PeriodCharge{
			RateID:         rate.ID,
			Method:         rate.Method,
			From:           from,
			To:             to,
			Amount:         amount,
			BookValueAfter: bookValue,
		})
	}

	if len(result.Periods) == 0 {
		return result, nil
	}
	result.Accumulated = in.Price.Sub(bookValue)
	result.BookValue = bookValue
	result.Outcome = OutcomeComputed
	return result, nil
}

// CurrentValue returns the unrounded book value of the purchase as of in.AsOf
func (e *Engine) CurrentValue(ctx context.Context, in Input) (decimal.Decimal, error) {
	result, err := e.AccumulatedDepreciation(ctx, in)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return result.CurrentValue(), nil
}
