package models

import (
	"time"

	"github.com/assetreg/backend/internal/domain/shared/strategy"
	"github.com/assetreg/backend/internal/domain/valuation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DepreciationRateModel is the persistence model for a DepreciationRate.
type DepreciationRateModel struct {
	AggregateModel
	CategoryID         uuid.UUID                   `gorm:"type:uuid;not null;index:idx_rate_category_from,priority:1"`
	AssetType          string                      `gorm:"type:varchar(100);not null;default:''"`
	FinancialYear      string                      `gorm:"type:varchar(7);not null;index"`
	Percentage         decimal.Decimal             `gorm:"type:decimal(7,4);not null"`
	Method             strategy.DepreciationMethod `gorm:"type:varchar(30);not null"`
	UsefulLifeYears    int                         `gorm:"not null;default:0"`
	ResidualPercentage decimal.Decimal             `gorm:"type:decimal(7,4);not null;default:0"`
	EffectiveFrom      time.Time                   `gorm:"type:date;not null;index:idx_rate_category_from,priority:2"`
	EffectiveTo        *time.Time                  `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (DepreciationRateModel) TableName() string {
	return "depreciation_rates"
}

// ToDomain converts the persistence model to a domain DepreciationRate.
func (m *DepreciationRateModel) ToDomain() *valuation.DepreciationRate {
	return &valuation.DepreciationRate{
		BaseAggregateRoot:  m.ToDomainAggregateRoot(),
		CategoryID:         m.CategoryID,
		AssetType:          m.AssetType,
		FinancialYear:      m.FinancialYear,
		Percentage:         m.Percentage,
		Method:             m.Method,
		UsefulLifeYears:    m.UsefulLifeYears,
		ResidualPercentage: m.ResidualPercentage,
		EffectiveFrom:      TimeToDate(m.EffectiveFrom),
		EffectiveTo:        TimePtrToDate(m.EffectiveTo),
	}
}

// FromDomain populates the persistence model from a domain DepreciationRate.
func (m *DepreciationRateModel) FromDomain(r *valuation.DepreciationRate) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.CategoryID = r.CategoryID
	m.AssetType = r.AssetType
	m.FinancialYear = r.FinancialYear
	m.Percentage = r.Percentage
	m.Method = r.Method
	m.UsefulLifeYears = r.UsefulLifeYears
	m.ResidualPercentage = r.ResidualPercentage
	m.EffectiveFrom = DateToTime(r.EffectiveFrom)
	m.EffectiveTo = DatePtrToTime(r.EffectiveTo)
}
