package strategy

import (
	"github.com/assetreg/backend/internal/domain/shared/strategy"
	"github.com/assetreg/backend/internal/infrastructure/strategy/depreciation"
)

// NewRegistryWithDefaults creates a new registry with one strategy per
// depreciation method. PRO_RATA_DAILY is the default, matching the schedules
// currently maintained by administrators.
func NewRegistryWithDefaults() (*StrategyRegistry, error) {
	r := NewStrategyRegistry()

	proRata := depreciation.NewProRataDailyStrategy()
	if err := r.RegisterDepreciationStrategy(proRata); err != nil {
		return nil, err
	}

	straightLine := depreciation.NewStraightLineStrategy()
	if err := r.RegisterDepreciationStrategy(straightLine); err != nil {
		return nil, err
	}

	decliningBalance := depreciation.NewDecliningBalanceStrategy()
	if err := r.RegisterDepreciationStrategy(decliningBalance); err != nil {
		return nil, err
	}

	if err := r.SetDefault(strategy.StrategyTypeDepreciation, proRata.Name()); err != nil {
		return nil, err
	}

	return r, nil
}
