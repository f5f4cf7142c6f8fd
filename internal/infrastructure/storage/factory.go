package storage

import (
	"fmt"
	"strings"

	appasset "github.com/assetreg/backend/internal/application/asset"
	"github.com/assetreg/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Storage providers
const (
	ProviderS3     = "s3"
	ProviderMemory = "memory"
)

// NewObjectStorage creates the object storage named by cfg.Provider
func NewObjectStorage(cfg *config.StorageConfig, logger *zap.Logger) (appasset.ObjectStorageService, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderS3:
		return NewS3ObjectStorage(cfg, WithLogger(logger.Named("s3")))
	case ProviderMemory, "":
		logger.Warn("using in-memory object storage; bills and images are not persisted")
		return NewMemoryObjectStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

// Layout returns the key layout configured for bills and images
func Layout(cfg *config.StorageConfig) appasset.StorageLayout {
	layout := appasset.DefaultStorageLayout()
	if cfg.BillPrefix != "" {
		layout.BillPrefix = cfg.BillPrefix
	}
	if cfg.ImagePrefix != "" {
		layout.ImagePrefix = cfg.ImagePrefix
	}
	if cfg.PresignExpiry > 0 {
		layout.PresignExpiry = cfg.PresignExpiry
	}
	return layout
}
