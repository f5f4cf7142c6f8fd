package asset

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ObjectStorageService defines the object storage operations used for
// purchase bills and asset images
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// StorageLayout names the key prefixes and URL lifetime for stored files
type StorageLayout struct {
	BillPrefix    string
	ImagePrefix   string
	PresignExpiry time.Duration
}

// DefaultStorageLayout returns the layout used when none is configured
func DefaultStorageLayout() StorageLayout {
	return StorageLayout{
		BillPrefix:    "bills",
		ImagePrefix:   "images",
		PresignExpiry: 15 * time.Minute,
	}
}

// UploadURLRequest represents a request for a presigned upload URL
type UploadURLRequest struct {
	FileName    string `json:"file_name" binding:"required,min=1,max=255"`
	ContentType string `json:"content_type" binding:"required"`
}

var billContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
}

var imageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// storageKey builds "<prefix>/<owner>/<random><ext>" keeping only the
// extension of the client's file name
func storageKey(prefix string, owner uuid.UUID, fileName string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(fileName, "\\", "/"))))
	return path.Join(prefix, owner.String(), uuid.NewString()+ext)
}

func checkContentType(allowed map[string]bool, contentType string) error {
	if !allowed[strings.ToLower(strings.TrimSpace(contentType))] {
		return shared.NewDomainError("INVALID_INPUT", "Unsupported file type "+contentType)
	}
	return nil
}
