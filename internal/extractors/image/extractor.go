// Package image extracts text from raster images with OCR.
package image

import (
	"context"
	"errors"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// ErrOCRUnavailable is returned when no OCR service is configured.
var ErrOCRUnavailable = errors.New("ocr service not configured")

// Extractor runs OCR directly over the uploaded image.
type Extractor struct {
	ocr      driven.OCRService
	language string
}

// New creates an image extractor. An empty language uses "eng".
func New(ocr driven.OCRService, language string) *Extractor {
	if language == "" {
		language = domain.DefaultOCRLanguage
	}
	return &Extractor{ocr: ocr, language: language}
}

// Method returns the extraction method.
func (e *Extractor) Method() domain.ExtractionMethod {
	return domain.MethodImageOCR
}

// Extract returns the recognised text, which may be empty.
func (e *Extractor) Extract(ctx context.Context, doc *domain.SourceDocument) (string, error) {
	if doc == nil {
		return "", domain.ErrInvalidInput
	}
	if e.ocr == nil {
		return "", ErrOCRUnavailable
	}
	return e.ocr.Recognize(ctx, doc.RawBytes, e.language), nil
}
