package domain

import (
	"fmt"
	"unicode/utf8"
)

// Upload limits enforced at the upload boundary.
// The core re-validates them when called directly.
const (
	MaxUploadsPerBatch = 5
	MaxFileBytes       = 5 * 1024 * 1024
	MaxBatchBytes      = 20 * 1024 * 1024
	MaxRawTextChars    = 5000
)

// ValidateUploads checks a batch against the upload limits.
func ValidateUploads(uploads []Upload) error {
	if len(uploads) > MaxUploadsPerBatch {
		return fmt.Errorf("%w: %w: %d documents (max %d)",
			ErrInvalidInput, ErrUploadLimit, len(uploads), MaxUploadsPerBatch)
	}

	total := 0
	for _, u := range uploads {
		if u.IsRawText() {
			if n := utf8.RuneCount(u.Content); n > MaxRawTextChars {
				return fmt.Errorf("%w: %w: text entry has %d characters (max %d)",
					ErrInvalidInput, ErrUploadLimit, n, MaxRawTextChars)
			}
		} else if len(u.Content) > MaxFileBytes {
			return fmt.Errorf("%w: %w: %s is %d bytes (max %d)",
				ErrInvalidInput, ErrUploadLimit, u.Name, len(u.Content), MaxFileBytes)
		}
		total += len(u.Content)
	}

	if total > MaxBatchBytes {
		return fmt.Errorf("%w: %w: batch is %d bytes (max %d)",
			ErrInvalidInput, ErrUploadLimit, total, MaxBatchBytes)
	}
	return nil
}
