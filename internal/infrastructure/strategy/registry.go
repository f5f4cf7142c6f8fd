package strategy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/assetreg/backend/internal/domain/shared/strategy"
)

// StrategyRegistry manages strategy registrations
type StrategyRegistry struct {
	mu                     sync.RWMutex
	depreciationStrategies map[string]strategy.DepreciationStrategy
	byMethod               map[strategy.DepreciationMethod]string
	defaults               map[strategy.StrategyType]string
}

// NewStrategyRegistry creates a new strategy registry
func NewStrategyRegistry() *StrategyRegistry {
	return &StrategyRegistry{
		depreciationStrategies: make(map[string]strategy.DepreciationStrategy),
		byMethod:               make(map[strategy.DepreciationMethod]string),
		defaults:               make(map[strategy.StrategyType]string),
	}
}

// RegisterDepreciationStrategy registers a depreciation strategy.
// Only one strategy may serve each depreciation method.
func (r *StrategyRegistry) RegisterDepreciationStrategy(s strategy.DepreciationStrategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Name()
	if _, exists := r.depreciationStrategies[name]; exists {
		return fmt.Errorf("%w: depreciation strategy '%s' already registered", shared.ErrAlreadyExists, name)
	}
	if owner, exists := r.byMethod[s.Method()]; exists {
		return fmt.Errorf("%w: method '%s' already served by '%s'", shared.ErrAlreadyExists, s.Method(), owner)
	}
	r.depreciationStrategies[name] = s
	r.byMethod[s.Method()] = name
	return nil
}

// GetDepreciationStrategy returns a depreciation strategy by name, or the default if name is empty
func (r *StrategyRegistry) GetDepreciationStrategy(name string) (strategy.DepreciationStrategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		name = r.defaults[strategy.StrategyTypeDepreciation]
		if name == "" {
			return nil, fmt.Errorf("%w: no default depreciation strategy set", shared.ErrNotFound)
		}
	}

	s, exists := r.depreciationStrategies[name]
	if !exists {
		return nil, fmt.Errorf("%w: depreciation strategy '%s' not found", shared.ErrNotFound, name)
	}
	return s, nil
}

// DepreciationStrategy returns the strategy serving a depreciation method
func (r *StrategyRegistry) DepreciationStrategy(method strategy.DepreciationMethod) (strategy.DepreciationStrategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, exists := r.byMethod[method]
	if !exists {
		return nil, fmt.Errorf("%w: no strategy for depreciation method '%s'", shared.ErrNotFound, method)
	}
	return r.depreciationStrategies[name], nil
}

// ListDepreciationStrategies returns all registered depreciation strategy names
func (r *StrategyRegistry) ListDepreciationStrategies() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.depreciationStrategies))
	for name := range r.depreciationStrategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnregisterDepreciationStrategy removes a depreciation strategy
func (r *StrategyRegistry) UnregisterDepreciationStrategy(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, exists := r.depreciationStrategies[name]
	if !exists {
		return fmt.Errorf("%w: depreciation strategy '%s' not found", shared.ErrNotFound, name)
	}
	delete(r.depreciationStrategies, name)
	delete(r.byMethod, s.Method())

	// Clear default if it was this strategy
	if r.defaults[strategy.StrategyTypeDepreciation] == name {
		delete(r.defaults, strategy.StrategyTypeDepreciation)
	}
	return nil
}

// SetDefault sets the default strategy for a strategy type
func (r *StrategyRegistry) SetDefault(strategyType strategy.StrategyType, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRegisteredLocked(strategyType, name) {
		return fmt.Errorf("%w: strategy '%s' of type '%s' not found", shared.ErrNotFound, name, strategyType)
	}

	r.defaults[strategyType] = name
	return nil
}

// GetDefault returns the default strategy name for a strategy type
func (r *StrategyRegistry) GetDefault(strategyType strategy.StrategyType) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaults[strategyType]
}

func (r *StrategyRegistry) isRegisteredLocked(strategyType strategy.StrategyType, name string) bool {
	switch strategyType {
	case strategy.StrategyTypeDepreciation:
		_, ok := r.depreciationStrategies[name]
		return ok
	default:
		return false
	}
}
