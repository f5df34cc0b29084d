// Package docx extracts text from Office Open XML word processing documents.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// documentPart is the main document part inside the package.
const documentPart = "word/document.xml"

// maxDocumentXML bounds the decompressed document part.
const maxDocumentXML = 64 << 20

// ErrNoDocumentPart is returned when the package has no word/document.xml.
var ErrNoDocumentPart = errors.New("docx package has no " + documentPart)

// Extractor reads paragraph text from word/document.xml.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Method returns the extraction method.
func (e *Extractor) Method() domain.ExtractionMethod {
	return domain.MethodDOCX
}

// Extract opens the document as a ZIP package and returns its text,
// one line per paragraph. Text in tables, headers within the body and
// text boxes is included in document order.
func (e *Extractor) Extract(_ context.Context, doc *domain.SourceDocument) (string, error) {
	if doc == nil {
		return "", domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(doc.RawBytes), int64(len(doc.RawBytes)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	for _, file := range reader.File {
		if file.Name != documentPart {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", documentPart, err)
		}
		defer rc.Close()

		return parseDocumentXML(io.LimitReader(rc, maxDocumentXML))
	}
	return "", ErrNoDocumentPart
}

// parseDocumentXML streams the document part, collecting text runs.
// Paragraphs end with a newline; tabs and breaks map to their characters.
func parseDocumentXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var result strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", documentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				result.WriteByte('\t')
			case "br", "cr":
				result.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				result.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				result.Write(t)
			}
		}
	}

	return strings.TrimSpace(result.String()), nil
}
