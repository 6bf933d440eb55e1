package storage

import (
	"path/filepath"
	"strings"
)

// contentTypes maps the file extensions this service stores to MIME types.
var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

// DetectContentType resolves a MIME type from the storage key's
// extension, falling back to application/octet-stream.
func DetectContentType(key string) string {
	ext := strings.ToLower(filepath.Ext(key))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
