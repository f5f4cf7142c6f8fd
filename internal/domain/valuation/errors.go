package valuation

import "github.com/assetreg/backend/internal/domain/shared"

// Valuation errors. DomainError compares by code, so errors.Is matches
// any error built with the same code regardless of its message.
var (
	ErrInvalidFiscalYearLabel = shared.NewDomainError("INVALID_FISCAL_YEAR_LABEL", "Financial year label must look like 2023-24")
	ErrCategoryNotFound       = shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
	ErrInvalidRate            = shared.NewDomainError("INVALID_RATE", "Invalid depreciation rate")
	ErrUnknownMethod          = shared.NewDomainError("UNKNOWN_DEPRECIATION_METHOD", "Unknown depreciation method")
	ErrSnapshotMissing        = shared.NewDomainError("SNAPSHOT_MISSING", "Value snapshot missing for a frozen asset")
)
