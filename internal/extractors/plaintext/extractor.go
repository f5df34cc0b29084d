// Package plaintext extracts text from plain text uploads.
//
// Two strategies are provided: a strict UTF-8 decode (with byte order mark
// handling) and a lenient raw-byte re-read that decodes as Windows-1252 so
// that legacy 8-bit files still contribute text.
package plaintext

import (
	"context"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure extractors implement the interface.
var (
	_ driven.Extractor = (*UTF8Extractor)(nil)
	_ driven.Extractor = (*RawExtractor)(nil)
)

// ErrInvalidUTF8 is returned when the content is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("content is not valid UTF-8")

// UTF8Extractor decodes UTF-8 text. A UTF-8 BOM is stripped and UTF-16
// content with a BOM is transcoded.
type UTF8Extractor struct{}

// NewUTF8 creates a new UTF-8 extractor.
func NewUTF8() *UTF8Extractor {
	return &UTF8Extractor{}
}

// Method returns the extraction method.
func (e *UTF8Extractor) Method() domain.ExtractionMethod {
	return domain.MethodUTF8
}

// Extract decodes the document as UTF-8.
func (e *UTF8Extractor) Extract(_ context.Context, doc *domain.SourceDocument) (string, error) {
	if doc == nil {
		return "", domain.ErrInvalidInput
	}

	out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), doc.RawBytes)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(out) {
		return "", ErrInvalidUTF8
	}
	return string(out), nil
}

// RawExtractor re-reads the bytes as Windows-1252, which maps every byte
// to a character and therefore never fails.
type RawExtractor struct{}

// NewRaw creates a new raw byte extractor.
func NewRaw() *RawExtractor {
	return &RawExtractor{}
}

// Method returns the extraction method.
func (e *RawExtractor) Method() domain.ExtractionMethod {
	return domain.MethodRawBytes
}

// Extract decodes the document bytes as Windows-1252.
func (e *RawExtractor) Extract(_ context.Context, doc *domain.SourceDocument) (string, error) {
	if doc == nil {
		return "", domain.ErrInvalidInput
	}

	out, err := charmap.Windows1252.NewDecoder().Bytes(doc.RawBytes)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
