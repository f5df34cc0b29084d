package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// buildPDF writes a single-page PDF with one line of Helvetica text.
func buildPDF(text string) []byte {
	content := fmt.Sprintf("BT /F1 24 Tf 72 720 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R " +
			"/Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func source(b []byte) *domain.SourceDocument {
	return &domain.SourceDocument{ID: "doc-1", RawBytes: b, OriginalName: "report.pdf", DeclaredMediaType: "application/pdf"}
}

func TestTextExtractor_WellFormed(t *testing.T) {
	text, err := NewTextExtractor().Extract(context.Background(), source(buildPDF("Hello PDF World")))
	require.NoError(t, err)
	assert.Contains(t, text, "Hello PDF World")
}

func TestTextExtractor_Corrupted(t *testing.T) {
	inputs := map[string][]byte{
		"garbage":   []byte("%PDF-1.4 this is not really a pdf"),
		"empty":     {},
		"truncated": buildPDF("Hello")[:120],
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			text, err := NewTextExtractor().Extract(context.Background(), source(input))
			assert.Error(t, err)
			assert.Empty(t, text)
		})
	}
}

func TestTextExtractor_NilDocument(t *testing.T) {
	_, err := NewTextExtractor().Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// pageRunner simulates pdftoppm by writing page images next to the prefix.
type pageRunner struct {
	pages  int
	err    error
	name   string
	args   []string
	prefix string
}

func (r *pageRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.name = name
	r.args = args
	if r.err != nil {
		return nil, r.err
	}
	r.prefix = args[len(args)-1]
	for i := 1; i <= r.pages; i++ {
		path := fmt.Sprintf("%s-%02d.png", r.prefix, i)
		if err := os.WriteFile(path, []byte(fmt.Sprintf("page %d", i)), 0o600); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// echoOCR returns the image bytes as the recognised text.
type echoOCR struct {
	languages []string
}

func (o *echoOCR) Recognize(_ context.Context, image []byte, language string) string {
	o.languages = append(o.languages, language)
	return string(image)
}

func TestOCRExtractor_PagesInOrder(t *testing.T) {
	runner := &pageRunner{pages: 11}
	ocr := &echoOCR{}
	e := NewOCRExtractor(runner, ocr, "", "")

	text, err := e.Extract(context.Background(), source([]byte("%PDF scanned")))
	require.NoError(t, err)

	lines := bytes.Split([]byte(text), []byte("\n"))
	require.Len(t, lines, 11)
	assert.Equal(t, "page 1", string(lines[0]))
	assert.Equal(t, "page 2", string(lines[1]))
	assert.Equal(t, "page 11", string(lines[10]))

	assert.Equal(t, DefaultRasteriser, runner.name)
	assert.Equal(t, []string{"-r", "300", "-png"}, runner.args[:3])
	assert.Equal(t, "eng", ocr.languages[0])

	_, statErr := os.Stat(filepath.Dir(runner.prefix))
	assert.True(t, os.IsNotExist(statErr), "temp directory should be removed")
}

func TestOCRExtractor_RasteriserFails(t *testing.T) {
	runner := &pageRunner{err: errors.New("pdftoppm: syntax error")}
	e := NewOCRExtractor(runner, &echoOCR{}, "/usr/bin/pdftoppm", "eng")

	text, err := e.Extract(context.Background(), source([]byte("junk")))
	assert.Error(t, err)
	assert.Empty(t, text)
	assert.Equal(t, "/usr/bin/pdftoppm", runner.name)
}

func TestOCRExtractor_NoOCR(t *testing.T) {
	e := NewOCRExtractor(&pageRunner{}, nil, "", "")

	_, err := e.Extract(context.Background(), source([]byte("%PDF")))
	assert.ErrorIs(t, err, ErrOCRUnavailable)
}

func TestMethods(t *testing.T) {
	assert.Equal(t, domain.MethodPDFText, NewTextExtractor().Method())
	assert.Equal(t, domain.MethodPDFOCR, NewOCRExtractor(nil, nil, "", "").Method())
}
