// Package tesseract provides OCR by shelling out to the tesseract CLI.
package tesseract

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Verify interface compliance.
var _ driven.OCRService = (*Service)(nil)

// DefaultBinary is the tesseract executable name.
const DefaultBinary = "tesseract"

// Service recognises text in images with tesseract.
type Service struct {
	runner driven.CommandRunner
	binary string
}

// New creates an OCR service using runner to invoke binary.
// An empty binary uses DefaultBinary.
func New(runner driven.CommandRunner, binary string) *Service {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Service{runner: runner, binary: binary}
}

// Recognize writes the image to a scoped temporary directory and runs
// tesseract over it. Any failure yields empty text.
func (s *Service) Recognize(ctx context.Context, image []byte, language string) string {
	if len(image) == 0 {
		return ""
	}
	if language == "" {
		language = domain.DefaultOCRLanguage
	}

	dir, err := os.MkdirTemp("", "docqa-ocr-*")
	if err != nil {
		logger.Warn("ocr: create temp dir: %v", err)
		return ""
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "input")
	if err := os.WriteFile(path, image, 0o600); err != nil {
		logger.Warn("ocr: write image: %v", err)
		return ""
	}

	out, err := s.runner.Run(ctx, s.binary, path, "stdout", "-l", language)
	if err != nil {
		logger.Warn("ocr: %v", err)
		return ""
	}

	text := strings.TrimSpace(string(out))
	logger.Debug("ocr: recognised %d characters", len(text))
	return text
}
