package domain

// Upload is a single entry received from the upload boundary.
// Raw text typed by the user arrives as an Upload with DeclaredType "text/plain".
type Upload struct {
	// Content is the raw bytes of the file or text entry.
	Content []byte

	// DeclaredType is the media type claimed by the client (may be empty or wrong).
	DeclaredType string

	// Name is the original file name, or "textbox" for raw text entries.
	Name string

	// RawText marks text typed by the user. Only these entries are held to
	// the character limit; a file that happens to be named "textbox" is not.
	RawText bool
}

// NewRawText returns the upload for a typed text entry.
func NewRawText(text string) Upload {
	return Upload{
		Content:      []byte(text),
		DeclaredType: "text/plain",
		Name:         RawTextName,
		RawText:      true,
	}
}

// IsRawText reports whether the upload is a typed text entry rather than a file.
func (u Upload) IsRawText() bool {
	return u.RawText
}

// RawTextName is the name given to raw text entries.
const RawTextName = "textbox"

// SourceDocument is an uploaded file awaiting extraction.
// It is immutable and owned exclusively by the extractor chain while processed.
type SourceDocument struct {
	// ID is the opaque unique identifier for the document.
	ID string

	// RawBytes is the uploaded content.
	RawBytes []byte

	// DeclaredMediaType is the media type declared at upload time.
	DeclaredMediaType string

	// OriginalName is the file name as uploaded.
	OriginalName string
}

// Kind is the file kind used to dispatch extraction.
type Kind string

// Supported file kinds.
const (
	KindPlainText     Kind = "plain_text"
	KindPDF           Kind = "pdf"
	KindWordDoc       Kind = "docx"
	KindWordDocLegacy Kind = "doc"
	KindImage         Kind = "image"
	KindUnsupported   Kind = "unsupported"
)

// String returns the string representation.
func (k Kind) String() string {
	return string(k)
}

// ExtractionMethod records which strategy produced the extracted text.
type ExtractionMethod string

// Extraction methods.
const (
	MethodUTF8     ExtractionMethod = "utf8"
	MethodRawBytes ExtractionMethod = "raw_bytes"
	MethodPDFText  ExtractionMethod = "pdf_text"
	MethodPDFOCR   ExtractionMethod = "pdf_ocr"
	MethodDOCX     ExtractionMethod = "docx"
	MethodDOC      ExtractionMethod = "doc"
	MethodImageOCR ExtractionMethod = "image_ocr"
	MethodNone     ExtractionMethod = "none"
)

// String returns the string representation.
func (m ExtractionMethod) String() string {
	return string(m)
}

// ExtractedText is the plain text recovered from one SourceDocument.
// Text may be empty when nothing could be salvaged; downstream stages treat
// empty text as contributing nothing, never as an error.
type ExtractedText struct {
	// SourceID links to the SourceDocument.
	SourceID string

	// Name is the original file name, kept for display.
	Name string

	// Text is the extracted content.
	Text string

	// Method is the strategy that produced Text.
	Method ExtractionMethod
}

// ExtractionDiagnostic records how extraction went for one document.
type ExtractionDiagnostic struct {
	SourceID string
	Name     string
	Kind     Kind
	Method   ExtractionMethod

	// Degraded is true when the document contributed no text.
	Degraded bool

	// Reason explains a degraded extraction.
	Reason string
}

// ExtractionBatch is the merged output of extracting one upload batch.
// Texts and Diagnostics are in upload order.
type ExtractionBatch struct {
	Texts       []ExtractedText
	Diagnostics []ExtractionDiagnostic
}

// DegradedCount returns the number of documents that yielded no text.
func (b *ExtractionBatch) DegradedCount() int {
	n := 0
	for i := range b.Diagnostics {
		if b.Diagnostics[i].Degraded {
			n++
		}
	}
	return n
}
