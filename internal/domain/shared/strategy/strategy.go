// Package strategy defines the pluggable calculation strategies resolved by
// name from the strategy registry.
package strategy

// StrategyType groups strategies in the registry
type StrategyType string

const (
	StrategyTypeDepreciation StrategyType = "depreciation"
)

// Strategy is the registry metadata every strategy exposes
type Strategy interface {
	Name() string
	Type() StrategyType
	Description() string
}

// BaseStrategy carries the registry metadata shared by all strategies
type BaseStrategy struct {
	name         string
	strategyType StrategyType
	description  string
}

// NewBaseStrategy creates a new BaseStrategy
func NewBaseStrategy(name string, strategyType StrategyType, description string) BaseStrategy {
	return BaseStrategy{name: name, strategyType: strategyType, description: description}
}

// Name returns the registry name
func (s BaseStrategy) Name() string { return s.name }

// Type returns the strategy group
func (s BaseStrategy) Type() StrategyType { return s.strategyType }

// Description returns a human-readable description
func (s BaseStrategy) Description() string { return s.description }

var _ Strategy = BaseStrategy{}
