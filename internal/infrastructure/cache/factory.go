package cache

import (
	"fmt"
	"io"
	"time"

	appval "github.com/assetreg/backend/internal/application/valuation"
	"github.com/assetreg/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SummaryCacheFactory creates summary caches based on configuration
type SummaryCacheFactory struct {
	redisConfig           config.RedisConfig
	ttl                   time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// SummaryCacheFactoryOption is a functional option for configuring the factory
type SummaryCacheFactoryOption func(*SummaryCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SummaryCacheFactoryOption {
	return func(f *SummaryCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) SummaryCacheFactoryOption {
	return func(f *SummaryCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSummaryCacheFactory creates a new factory
func NewSummaryCacheFactory(cfg config.RedisConfig, ttl time.Duration, opts ...SummaryCacheFactoryOption) *SummaryCacheFactory {
	f := &SummaryCacheFactory{
		redisConfig:           cfg,
		ttl:                   ttl,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// SummaryCacheCloser is a summary cache holding resources to release
type SummaryCacheCloser interface {
	appval.SummaryCache
	io.Closer
}

// CreateCache creates a Redis cache when Redis is enabled and reachable,
// otherwise an in-memory one if fallback is allowed
func (f *SummaryCacheFactory) CreateCache() (SummaryCacheCloser, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory summary cache")
		return NewInMemorySummaryCache(f.ttl), nil
	}

	c, err := NewRedisSummaryCache(f.redisConfig, f.ttl)
	if err == nil {
		f.logger.Info("using Redis summary cache", zap.String("addr", f.redisConfig.Addr()))
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for summary cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory summary cache. "+
		"Instances will not share invalidations.",
		zap.Error(err),
	)
	return NewInMemorySummaryCache(f.ttl), nil
}
