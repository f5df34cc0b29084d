package extractors

import (
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/extractors/docx"
	"github.com/custodia-labs/docqa/internal/extractors/image"
	"github.com/custodia-labs/docqa/internal/extractors/legacydoc"
	"github.com/custodia-labs/docqa/internal/extractors/pdf"
	"github.com/custodia-labs/docqa/internal/extractors/plaintext"
)

// Dependencies are the external services the built-in strategies use.
// Either may be nil; strategies needing them then fail and the chain moves on.
type Dependencies struct {
	Runner driven.CommandRunner
	OCR    driven.OCRService
	Config domain.OCRSettings
}

// DefaultTable returns the built-in strategy table:
//
//	plain text   UTF-8, then raw bytes
//	PDF          text layer, then OCR over page rasters
//	DOCX         document part
//	legacy DOC   antiword
//	image        OCR
func DefaultTable(deps Dependencies) Table {
	return Table{
		domain.KindPlainText: {
			plaintext.NewUTF8(),
			plaintext.NewRaw(),
		},
		domain.KindPDF: {
			pdf.NewTextExtractor(),
			pdf.NewOCRExtractor(deps.Runner, deps.OCR, deps.Config.PdftoppmPath, deps.Config.Language),
		},
		domain.KindWordDoc: {
			docx.New(),
		},
		domain.KindWordDocLegacy: {
			legacydoc.New(deps.Runner, deps.Config.AntiwordPath),
		},
		domain.KindImage: {
			image.New(deps.OCR, deps.Config.Language),
		},
	}
}
