package middleware

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Input validation and sanitization utilities for uploads

// allowedMediaTypes is the cosmetic document filter mirrored server-side.
// Anything else is not rejected at the binary level; unknown types default
// upstream, but explicit garbage (e.g. executables) is refused here.
var allowedMediaTypes = map[string]bool{
	"application/pdf":    true,
	"text/plain":         true,
	"image/png":          true,
	"image/jpeg":         true,
	"image/webp":         true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// ValidateMediaType accepts known document types and the generic fallback
func ValidateMediaType(mediaType string) error {
	if mediaType == "" || mediaType == "application/octet-stream" {
		return nil // defaults upstream
	}
	base := mediaType
	if i := strings.IndexByte(base, ';'); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}
	if !allowedMediaTypes[strings.ToLower(base)] {
		return fmt.Errorf("unsupported document type: %s", mediaType)
	}
	return nil
}

// ValidateSessionID checks the id is a UUID
func ValidateSessionID(id string) error {
	if id == "" {
		return fmt.Errorf("session id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid session id format")
	}
	return nil
}

var fileNamePattern = regexp.MustCompile(`[^a-zA-Z0-9._ ()-]`)

// SanitizeFileName strips path components and dangerous characters from an
// uploaded file name; falls back to "document" when nothing survives.
func SanitizeFileName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "..", "")
	name = fileNamePattern.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._ ")
	if name == "" {
		return "document"
	}
	if len(name) > 128 {
		name = name[len(name)-128:]
	}
	return name
}

// ValidateLimit validates pagination page size
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// ValidatePage validates pagination page number
func ValidatePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}
