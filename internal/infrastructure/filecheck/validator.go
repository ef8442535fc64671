package filecheck

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
)

const DefaultMaxSize = 10 << 20

var allowedMimeTypes = map[string]bool{
	"image/png":                 true,
	"image/jpeg":                true,
	"image/webp":                true,
	"application/pdf":           true,
	"text/plain; charset=utf-8": true,
}

// BasicValidator is a self-contained payment proof checker: size cap, content
// sniffing against an allowlist and filename sanitization. It implements the
// same contract a dedicated scanning service would sit behind.
type BasicValidator struct {
	MaxSize int
}

func NewBasicValidator() *BasicValidator {
	return &BasicValidator{MaxSize: DefaultMaxSize}
}

func (v *BasicValidator) Validate(_ context.Context, payload []byte, filename string) (*domain.FileValidationResult, error) {
	if len(payload) == 0 {
		return &domain.FileValidationResult{IsValid: false, Reason: "empty file"}, nil
	}
	if v.MaxSize > 0 && len(payload) > v.MaxSize {
		return &domain.FileValidationResult{
			IsValid: false,
			Reason:  fmt.Sprintf("file exceeds %d bytes", v.MaxSize),
		}, nil
	}

	mimeType := http.DetectContentType(payload)
	if !allowedMimeTypes[mimeType] {
		return &domain.FileValidationResult{
			IsValid:          false,
			DetectedMimeType: mimeType,
			Reason:           fmt.Sprintf("unsupported file type %s", mimeType),
		}, nil
	}

	return &domain.FileValidationResult{
		IsValid:           true,
		DetectedMimeType:  mimeType,
		SanitizedFilename: sanitizeFilename(filename),
	}, nil
}

// sanitizeFilename strips any path components and characters that are unsafe
// in storage keys.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == string(filepath.Separator) {
		return "upload"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "upload"
	}
	return b.String()
}
