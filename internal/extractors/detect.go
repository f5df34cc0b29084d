package extractors

import (
	"bytes"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Media types for the supported kinds.
const (
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeDOC  = "application/msword"
	MediaTypePDF  = "application/pdf"
)

var kindsByExtension = map[string]domain.Kind{
	".txt":  domain.KindPlainText,
	".text": domain.KindPlainText,
	".md":   domain.KindPlainText,
	".csv":  domain.KindPlainText,
	".log":  domain.KindPlainText,
	".pdf":  domain.KindPDF,
	".docx": domain.KindWordDoc,
	".doc":  domain.KindWordDocLegacy,
	".png":  domain.KindImage,
	".jpg":  domain.KindImage,
	".jpeg": domain.KindImage,
}

var kindsByMediaType = map[string]domain.Kind{
	MediaTypePDF:  domain.KindPDF,
	MediaTypeDOCX: domain.KindWordDoc,
	MediaTypeDOC:  domain.KindWordDocLegacy,
	"image/png":   domain.KindImage,
	"image/jpeg":  domain.KindImage,
	"image/jpg":   domain.KindImage,
}

// oleMagic starts every OLE2 compound file, including legacy .doc files.
var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// DetectKind classifies a document by file extension, then by declared
// media type, then by sniffing its content.
func DetectKind(name, declaredType string, content []byte) domain.Kind {
	if kind, ok := kindsByExtension[strings.ToLower(filepath.Ext(name))]; ok {
		return kind
	}
	if kind, ok := kindFromMediaType(declaredType); ok {
		return kind
	}
	return sniff(content)
}

func kindFromMediaType(mediaType string) (domain.Kind, bool) {
	if mediaType == "" {
		return "", false
	}
	parsed, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		parsed = strings.ToLower(strings.TrimSpace(mediaType))
	}
	if kind, ok := kindsByMediaType[parsed]; ok {
		return kind, true
	}
	if strings.HasPrefix(parsed, "text/") {
		return domain.KindPlainText, true
	}
	return "", false
}

func sniff(content []byte) domain.Kind {
	if len(content) == 0 {
		return domain.KindUnsupported
	}
	if bytes.HasPrefix(content, oleMagic) {
		return domain.KindWordDocLegacy
	}

	detected := http.DetectContentType(content)
	if kind, ok := kindFromMediaType(detected); ok {
		return kind
	}
	if strings.HasPrefix(detected, "application/zip") && bytes.Contains(content, []byte("word/")) {
		return domain.KindWordDoc
	}
	return domain.KindUnsupported
}
