package storage

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	appasset "github.com/assetreg/backend/internal/application/asset"
)

// MemoryObjectStorage is an in-process ObjectStorageService for development
// and tests. Nothing is actually stored: a key counts as uploaded once an
// upload URL has been issued for it.
type MemoryObjectStorage struct {
	// BaseURL prefixes the generated URLs
	BaseURL string

	mu      sync.RWMutex
	objects map[string]string
}

// NewMemoryObjectStorage creates a new MemoryObjectStorage
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		BaseURL: "http://localhost:9000/assets",
		objects: make(map[string]string),
	}
}

// Ensure MemoryObjectStorage implements ObjectStorageService
var _ appasset.ObjectStorageService = (*MemoryObjectStorage)(nil)

// GenerateUploadURL records the key and returns a fake upload URL
func (s *MemoryObjectStorage) GenerateUploadURL(
	ctx context.Context,
	storageKey, contentType string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	if expiresIn <= 0 {
		expiresIn = defaultPresignExpiry
	}

	s.mu.Lock()
	s.objects[storageKey] = contentType
	s.mu.Unlock()

	expiresAt := time.Now().Add(expiresIn)
	return s.url("upload", storageKey, expiresAt), expiresAt, nil
}

// GenerateDownloadURL returns a fake download URL
func (s *MemoryObjectStorage) GenerateDownloadURL(
	ctx context.Context,
	storageKey string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	if expiresIn <= 0 {
		expiresIn = defaultPresignExpiry
	}

	expiresAt := time.Now().Add(expiresIn)
	return s.url("download", storageKey, expiresAt), expiresAt, nil
}

// ObjectExists reports whether an upload URL was issued for the key
func (s *MemoryObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[storageKey]
	return ok, nil
}

func (s *MemoryObjectStorage) url(action, storageKey string, expiresAt time.Time) string {
	q := url.Values{}
	q.Set("expires", expiresAt.UTC().Format(time.RFC3339))
	return strings.TrimRight(s.BaseURL, "/") + "/" + action + "/" + storageKey + "?" + q.Encode()
}
