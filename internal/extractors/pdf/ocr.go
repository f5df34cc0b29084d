package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// DefaultRasteriser is the pdftoppm executable name.
const DefaultRasteriser = "pdftoppm"

// rasterDPI is the page resolution used for OCR.
const rasterDPI = 300

// ErrOCRUnavailable is returned when no OCR service is configured.
var ErrOCRUnavailable = errors.New("ocr service not configured")

// OCRExtractor rasterises pages and recognises their text.
type OCRExtractor struct {
	runner   driven.CommandRunner
	ocr      driven.OCRService
	binary   string
	language string
}

// NewOCRExtractor creates an OCR fallback extractor.
// An empty binary uses DefaultRasteriser; an empty language uses "eng".
func NewOCRExtractor(runner driven.CommandRunner, ocr driven.OCRService, binary, language string) *OCRExtractor {
	if binary == "" {
		binary = DefaultRasteriser
	}
	if language == "" {
		language = domain.DefaultOCRLanguage
	}
	return &OCRExtractor{runner: runner, ocr: ocr, binary: binary, language: language}
}

// Method returns the extraction method.
func (e *OCRExtractor) Method() domain.ExtractionMethod {
	return domain.MethodPDFOCR
}

// Extract renders every page to PNG in a scoped temporary directory and
// concatenates the recognised text in page order.
func (e *OCRExtractor) Extract(ctx context.Context, doc *domain.SourceDocument) (string, error) {
	if doc == nil {
		return "", domain.ErrInvalidInput
	}
	if e.ocr == nil || e.runner == nil {
		return "", ErrOCRUnavailable
	}

	dir, err := os.MkdirTemp("", "docqa-pdf-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(input, doc.RawBytes, 0o600); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}

	prefix := filepath.Join(dir, "page")
	if _, err := e.runner.Run(ctx, e.binary, "-r", strconv.Itoa(rasterDPI), "-png", input, prefix); err != nil {
		return "", fmt.Errorf("rasterise pdf: %w", err)
	}

	pages, err := pageImages(dir)
	if err != nil {
		return "", err
	}
	logger.Debug("pdf ocr: %s rendered %d pages", doc.OriginalName, len(pages))

	texts := make([]string, 0, len(pages))
	for _, page := range pages {
		img, err := os.ReadFile(page)
		if err != nil {
			return "", fmt.Errorf("read page image: %w", err)
		}
		if text := e.ocr.Recognize(ctx, img, e.language); text != "" {
			texts = append(texts, text)
		}
	}

	return strings.Join(texts, "\n"), nil
}

// pageImages lists the rendered pages in page order. pdftoppm zero-pads
// page numbers to the width of the page count, so sort numerically.
func pageImages(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "page-*.png"))
	if err != nil {
		return nil, err
	}
	sort.Slice(matches, func(i, j int) bool {
		return pageNumber(matches[i]) < pageNumber(matches[j])
	})
	return matches, nil
}

func pageNumber(path string) int {
	name := strings.TrimSuffix(filepath.Base(path), ".png")
	n, err := strconv.Atoi(strings.TrimPrefix(name, "page-"))
	if err != nil {
		return 0
	}
	return n
}
