// Package storage provides blob storage abstraction for the MyCAD
// back-office functions.
//
// This package defines a Storage interface with implementations for:
// - LocalStorage: file system storage for development
// - S3Storage: S3-compatible object storage for production
//
// The storage service holds generated report PDFs and group logos.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mycad/backoffice/internal/domain"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Storage defines the interface for blob storage operations.
//
// All methods are context-aware for timeout and cancellation support.
type Storage interface {
	// Put stores data at the specified key with the given options.
	// Returns an error if the operation fails or if the key already exists
	// (unless overwrite is enabled in opts).
	Put(ctx context.Context, key string, data io.Reader, opts PutOptions) error

	// Get retrieves the data at the specified key.
	// Returns the data as an io.ReadCloser (caller must close), object
	// metadata, and an error. Returns ErrNotFound if the key doesn't exist.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)

	// Delete removes the object at the specified key.
	// This operation is idempotent - no error is returned if the key doesn't exist.
	Delete(ctx context.Context, key string) error

	// Exists checks if an object exists at the specified key.
	Exists(ctx context.Context, key string) (bool, error)
}

// =============================================================================
// Data Types
// =============================================================================

// PutOptions configures how an object is stored.
type PutOptions struct {
	// ContentType specifies the MIME type of the object.
	// If empty, it will be auto-detected from the key's extension.
	ContentType string

	// Overwrite allows replacing an existing object at the same key.
	// If false and the key exists, ErrKeyExists is returned.
	Overwrite bool
}

// ObjectInfo contains metadata about a stored object.
type ObjectInfo struct {
	Key          string    // Object key/path
	Size         int64     // Size in bytes
	ContentType  string    // MIME type
	LastModified time.Time // Last modification time
	ETag         string    // Entity tag (if available)
}

// =============================================================================
// Configuration Types
// =============================================================================

// LocalConfig holds configuration for local filesystem storage.
type LocalConfig struct {
	// BasePath is the root directory where files are stored.
	// Example: "./storage" or "/var/lib/mycad/files"
	BasePath string
}

// S3Config holds configuration for S3-compatible storage.
type S3Config struct {
	// Endpoint is an optional custom endpoint URL for S3-compatible
	// providers (R2, MinIO). Empty means the AWS default.
	Endpoint string

	// Region is the region string required by the AWS SDK.
	Region string

	// AccessKeyID is the API access key ID.
	AccessKeyID string

	// SecretAccessKey is the API secret key.
	SecretAccessKey string

	// BucketName is the name of the bucket to use.
	BucketName string
}

// =============================================================================
// Provider Constants
// =============================================================================

const (
	// ProviderLocal identifies the local filesystem storage provider.
	ProviderLocal = "local"

	// ProviderS3 identifies the S3-compatible storage provider.
	ProviderS3 = "s3"
)

// =============================================================================
// Key Generation Helpers
// =============================================================================

// ReportArtifactName generates the file name for a generated report PDF.
// Format: {reportType}_{reportId}_{timestamp}.pdf
func ReportArtifactName(reportType domain.ReportType, reportID string, at time.Time) string {
	return fmt.Sprintf("%s_%s_%d.pdf", reportType, reportID, at.Unix())
}

// ReportArtifactKey returns the storage key for a report artifact file name.
// Format: reports/{fileName}
func ReportArtifactKey(fileName string) string {
	return "reports/" + fileName
}
