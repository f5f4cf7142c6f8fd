package valuation

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/assetreg/backend/internal/domain/shared/strategy"
	"github.com/assetreg/backend/internal/domain/valuation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateRequest represents a request to create or replace a depreciation rate
type RateRequest struct {
	CategoryID         uuid.UUID       `json:"category_id" binding:"required"`
	AssetType          string          `json:"asset_type" binding:"max=100"`
	FinancialYear      string          `json:"financial_year" binding:"omitempty,financial_year"`
	Percentage         decimal.Decimal `json:"depreciation_percentage" binding:"required"`
	Method             string          `json:"depreciation_method" binding:"required,oneof=STRAIGHT_LINE DECLINING_BALANCE PRO_RATA_DAILY"`
	UsefulLifeYears    int             `json:"useful_life_years" binding:"omitempty,min=0,max=100"`
	ResidualPercentage decimal.Decimal `json:"residual_value_percentage"`
	EffectiveFrom      civil.Date      `json:"effective_from" binding:"required"`
	EffectiveTo        *civil.Date     `json:"effective_to"`
}

func (r RateRequest) toInput() valuation.RateInput {
	return valuation.RateInput{
		CategoryID:         r.CategoryID,
		AssetType:          r.AssetType,
		FinancialYear:      r.FinancialYear,
		Percentage:         r.Percentage,
		Method:             strategy.DepreciationMethod(r.Method),
		UsefulLifeYears:    r.UsefulLifeYears,
		ResidualPercentage: r.ResidualPercentage,
		EffectiveFrom:      r.EffectiveFrom,
		EffectiveTo:        r.EffectiveTo,
	}
}

// RateListFilter holds the list query of rates
type RateListFilter struct {
	CategoryID    *uuid.UUID `form:"category_id"`
	AssetType     *string    `form:"asset_type"`
	FinancialYear string     `form:"financial_year"`
	Page          int        `form:"page"`
	PageSize      int        `form:"page_size"`
}

// RateResponse represents a depreciation rate in API responses
type RateResponse struct {
	ID                 uuid.UUID       `json:"id"`
	CategoryID         uuid.UUID       `json:"category_id"`
	AssetType          string          `json:"asset_type,omitempty"`
	FinancialYear      string          `json:"financial_year"`
	Percentage         decimal.Decimal `json:"depreciation_percentage"`
	Method             string          `json:"depreciation_method"`
	UsefulLifeYears    int             `json:"useful_life_years"`
	ResidualPercentage decimal.Decimal `json:"residual_value_percentage"`
	EffectiveFrom      civil.Date      `json:"effective_from"`
	EffectiveTo        *civil.Date     `json:"effective_to,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Version            int             `json:"version"`
}

// RateWriteResponse is returned by rate writes. Conflicts lists the rates of
// the same category and asset type whose windows intersect the written one.
type RateWriteResponse struct {
	Rate      RateResponse `json:"rate"`
	Conflicts []uuid.UUID  `json:"conflicts,omitempty"`
}

// RateResolutionResponse reports the rate in force for a category on a day
type RateResolutionResponse struct {
	CategoryID uuid.UUID     `json:"category_id"`
	AssetType  string        `json:"asset_type,omitempty"`
	Date       civil.Date    `json:"date"`
	Found      bool          `json:"found"`
	Rate       *RateResponse `json:"rate,omitempty"`
}

// ToRateResponse converts a domain rate
func ToRateResponse(r *valuation.DepreciationRate) RateResponse {
	return RateResponse{
		ID:                 r.ID,
		CategoryID:         r.CategoryID,
		AssetType:          r.AssetType,
		FinancialYear:      r.FinancialYear,
		Percentage:         r.Percentage,
		Method:             r.Method.String(),
		UsefulLifeYears:    r.UsefulLifeYears,
		ResidualPercentage: r.ResidualPercentage,
		EffectiveFrom:      r.EffectiveFrom,
		EffectiveTo:        r.EffectiveTo,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		Version:            r.Version,
	}
}
