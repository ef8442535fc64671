package domain

import "context"

// FileValidator is the external format/size/malware checker. The core only
// consumes its verdict and accepts artifacts with IsValid = true.
type FileValidator interface {
	Validate(ctx context.Context, payload []byte, filename string) (*FileValidationResult, error)
}
