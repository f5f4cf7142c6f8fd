package valuation

import (
	"cloud.google.com/go/civil"
	"github.com/assetreg/backend/internal/domain/valuation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseValuationResponse is the presented valuation of one purchase record
type PurchaseValuationResponse struct {
	PurchaseID        uuid.UUID       `json:"purchase_id" msgpack:"purchase_id"`
	AsOf              string          `json:"as_of" msgpack:"as_of"`
	Status            string          `json:"status" msgpack:"status"`
	PurchasePrice     decimal.Decimal `json:"purchase_price" msgpack:"purchase_price"`
	CurrentValue      decimal.Decimal `json:"current_value" msgpack:"current_value"`
	TotalDepreciation decimal.Decimal `json:"total_depreciation" msgpack:"total_depreciation"`
	Frozen            bool            `json:"frozen" msgpack:"frozen"`
	Outcome           string          `json:"outcome" msgpack:"outcome"`
	Fallback          bool            `json:"fallback" msgpack:"fallback"`
	FallbackReason    string          `json:"fallback_reason,omitempty" msgpack:"fallback_reason"`
}

// BreakdownResponse is one asset line of a financial-year summary
type BreakdownResponse struct {
	AssetID               uuid.UUID        `json:"asset_id" msgpack:"asset_id"`
	AssetName             string           `json:"asset_name" msgpack:"asset_name"`
	CategoryID            uuid.UUID        `json:"category_id" msgpack:"category_id"`
	AssetType             string           `json:"asset_type" msgpack:"asset_type"`
	Status                string           `json:"status" msgpack:"status"`
	PurchaseID            uuid.UUID        `json:"purchase_id" msgpack:"purchase_id"`
	InvoiceNumber         string           `json:"invoice_number" msgpack:"invoice_number"`
	PurchaseDate          string           `json:"purchase_date" msgpack:"purchase_date"`
	PurchaseFinancialYear string           `json:"purchase_financial_year" msgpack:"purchase_financial_year"`
	Method                string           `json:"method,omitempty" msgpack:"method"`
	RatePercentage        *decimal.Decimal `json:"rate_percentage,omitempty" msgpack:"rate_percentage"`
	PurchasePrice         decimal.Decimal  `json:"purchase_price" msgpack:"purchase_price"`
	CurrentValue          decimal.Decimal  `json:"current_value" msgpack:"current_value"`
	TotalDepreciation     decimal.Decimal  `json:"total_depreciation" msgpack:"total_depreciation"`
	DepreciationThisYear  decimal.Decimal  `json:"depreciation_this_year" msgpack:"depreciation_this_year"`
	Frozen                bool             `json:"frozen" msgpack:"frozen"`
	Outcome               string           `json:"outcome" msgpack:"outcome"`
	Fallback              bool             `json:"fallback" msgpack:"fallback"`
	FallbackReason        string           `json:"fallback_reason,omitempty" msgpack:"fallback_reason"`
}

// SummaryResponse is the valuation summary of one financial year
type SummaryResponse struct {
	FinancialYear             string              `json:"financial_year" msgpack:"financial_year"`
	Start                     string              `json:"start" msgpack:"start"`
	End                       string              `json:"end" msgpack:"end"`
	TotalPurchaseValue        decimal.Decimal     `json:"total_purchase_value" msgpack:"total_purchase_value"`
	TotalCurrentValue         decimal.Decimal     `json:"total_current_value" msgpack:"total_current_value"`
	TotalDepreciation         decimal.Decimal     `json:"total_depreciation" msgpack:"total_depreciation"`
	TotalDepreciationThisYear decimal.Decimal     `json:"total_depreciation_this_year" msgpack:"total_depreciation_this_year"`
	AssetCount                int                 `json:"asset_count" msgpack:"asset_count"`
	FallbackCount             int                 `json:"fallback_count" msgpack:"fallback_count"`
	Assets                    []BreakdownResponse `json:"assets" msgpack:"assets"`
}

// FinancialYearResponse describes the financial year containing a date
type FinancialYearResponse struct {
	Date          string `json:"date"`
	FinancialYear string `json:"financial_year"`
	Start         string `json:"start"`
	End           string `json:"end"`
}

// ToPurchaseValuationResponse converts a presented valuation
func ToPurchaseValuationResponse(v valuation.Valuation) PurchaseValuationResponse {
	return PurchaseValuationResponse{
		PurchaseID:        v.PurchaseID,
		AsOf:              v.AsOf.String(),
		Status:            v.Status.String(),
		PurchasePrice:     v.PurchasePrice,
		CurrentValue:      v.CurrentValue,
		TotalDepreciation: v.TotalDepreciation,
		Frozen:            v.Frozen,
		Outcome:           string(v.Outcome),
	}
}

// ToSummaryResponse converts an aggregated summary
func ToSummaryResponse(s *valuation.Summary) *SummaryResponse {
	resp := &SummaryResponse{
		FinancialYear:             s.FinancialYear,
		Start:                     s.Start.String(),
		End:                       s.End.String(),
		TotalPurchaseValue:        s.TotalPurchaseValue,
		TotalCurrentValue:         s.TotalCurrentValue,
		TotalDepreciation:         s.TotalDepreciation,
		TotalDepreciationThisYear: s.TotalDepreciationThisYear,
		AssetCount:                len(s.Assets),
		FallbackCount:             len(s.Fallbacks()),
		Assets:                    make([]BreakdownResponse, len(s.Assets)),
	}
	for i, e := range s.Assets {
		resp.Assets[i] = BreakdownResponse{
			AssetID:               e.AssetID,
			AssetName:             e.AssetName,
			CategoryID:            e.CategoryID,
			AssetType:             e.AssetType,
			Status:                e.Status.String(),
			PurchaseID:            e.PurchaseID,
			InvoiceNumber:         e.InvoiceNumber,
			PurchaseDate:          e.PurchaseDate.String(),
			PurchaseFinancialYear: e.PurchaseFinancialYear,
			Method:                string(e.Method),
			RatePercentage:        e.RatePercentage,
			PurchasePrice:         e.PurchasePrice,
			CurrentValue:          e.CurrentValue,
			TotalDepreciation:     e.TotalDepreciation,
			DepreciationThisYear:  e.DepreciationThisYear,
			Frozen:                e.Frozen,
			Outcome:               string(e.Outcome),
			Fallback:              e.Fallback,
			FallbackReason:        e.FallbackReason,
		}
	}
	return resp
}

// ToFinancialYearResponse describes the financial year containing d
func ToFinancialYearResponse(d civil.Date) FinancialYearResponse {
	fy := valuation.FiscalYearOf(d)
	return FinancialYearResponse{
		Date:          d.String(),
		FinancialYear: fy.Label(),
		Start:         fy.Start().String(),
		End:           fy.End().String(),
	}
}
