// Package pdf extracts text from PDF documents.
//
// TextExtractor reads the text layer with github.com/ledongthuc/pdf.
// OCRExtractor rasterises each page with pdftoppm and runs OCR over the
// page images, for scanned documents with no text layer.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure extractors implement the interface.
var (
	_ driven.Extractor = (*TextExtractor)(nil)
	_ driven.Extractor = (*OCRExtractor)(nil)
)

// TextExtractor reads the PDF text layer.
type TextExtractor struct{}

// NewTextExtractor creates a new text layer extractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// Method returns the extraction method.
func (e *TextExtractor) Method() domain.ExtractionMethod {
	return domain.MethodPDFText
}

// Extract returns the plain text of every page, one page per line group.
func (e *TextExtractor) Extract(ctx context.Context, doc *domain.SourceDocument) (text string, err error) {
	if doc == nil {
		return "", domain.ErrInvalidInput
	}

	// The parser panics on some malformed object graphs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(doc.RawBytes), int64(len(doc.RawBytes)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, content)
	}

	return strings.Join(pages, "\n"), nil
}
