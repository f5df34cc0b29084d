package extractors

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// fakeExtractor returns canned output or panics.
type fakeExtractor struct {
	method domain.ExtractionMethod
	text   string
	err    error
	panics bool
	echoID bool
	delay  time.Duration
	calls  atomic.Int32
}

func (f *fakeExtractor) Method() domain.ExtractionMethod { return f.method }

func (f *fakeExtractor) Extract(_ context.Context, doc *domain.SourceDocument) (string, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.panics {
		panic("parser exploded")
	}
	if f.err != nil {
		return "", f.err
	}
	if f.echoID {
		return f.text + ":" + doc.ID, nil
	}
	return f.text, nil
}

func textDoc(id string) *domain.SourceDocument {
	return &domain.SourceDocument{ID: id, OriginalName: id + ".txt", RawBytes: []byte("x")}
}

func TestChain_Extract_FirstStrategyWins(t *testing.T) {
	first := &fakeExtractor{method: domain.MethodUTF8, text: "primary"}
	second := &fakeExtractor{method: domain.MethodRawBytes, text: "fallback"}
	chain := NewChain(Table{domain.KindPlainText: {first, second}})

	text, diag := chain.Extract(context.Background(), textDoc("a"))

	assert.Equal(t, "primary", text.Text)
	assert.Equal(t, domain.MethodUTF8, text.Method)
	assert.False(t, diag.Degraded)
	assert.Equal(t, domain.KindPlainText, diag.Kind)
	assert.Equal(t, int32(0), second.calls.Load())
}

func TestChain_Extract_FallsBack(t *testing.T) {
	tests := []struct {
		name  string
		first *fakeExtractor
	}{
		{"error", &fakeExtractor{method: domain.MethodUTF8, err: errors.New("bad bytes")}},
		{"empty", &fakeExtractor{method: domain.MethodUTF8}},
		{"whitespace", &fakeExtractor{method: domain.MethodUTF8, text: " \n\t"}},
		{"panic", &fakeExtractor{method: domain.MethodUTF8, panics: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fallback := &fakeExtractor{method: domain.MethodRawBytes, text: "fallback"}
			chain := NewChain(Table{domain.KindPlainText: {tt.first, fallback}})

			text, diag := chain.Extract(context.Background(), textDoc("a"))

			assert.Equal(t, "fallback", text.Text)
			assert.Equal(t, domain.MethodRawBytes, diag.Method)
			assert.False(t, diag.Degraded)
		})
	}
}

func TestChain_Extract_AllStrategiesFail(t *testing.T) {
	chain := NewChain(Table{domain.KindPDF: {
		&fakeExtractor{method: domain.MethodPDFText, err: errors.New("xref missing")},
		&fakeExtractor{method: domain.MethodPDFOCR, panics: true},
	}})

	doc := &domain.SourceDocument{ID: "p", OriginalName: "broken.pdf"}
	text, diag := chain.Extract(context.Background(), doc)

	assert.Equal(t, "", text.Text)
	assert.Equal(t, domain.MethodNone, text.Method)
	assert.Equal(t, "p", text.SourceID)
	assert.True(t, diag.Degraded)
	assert.Contains(t, diag.Reason, domain.ErrExtractionDegraded.Error())
	assert.Contains(t, diag.Reason, "xref missing")
	assert.Contains(t, diag.Reason, "panic")
}

func TestChain_Extract_Unsupported(t *testing.T) {
	chain := NewChain(Table{})
	doc := &domain.SourceDocument{ID: "z", OriginalName: "archive.xyz", DeclaredMediaType: "application/x-7z-compressed", RawBytes: []byte{0, 1, 2}}

	text, diag := chain.Extract(context.Background(), doc)

	assert.Empty(t, text.Text)
	assert.True(t, diag.Degraded)
	assert.Equal(t, domain.KindUnsupported, diag.Kind)
	assert.Contains(t, diag.Reason, domain.ErrUnsupportedFormat.Error())
	assert.Contains(t, diag.Reason, "application/x-7z-compressed")
}

func TestChain_ExtractAll_PreservesOrder(t *testing.T) {
	slow := &fakeExtractor{method: domain.MethodUTF8, text: "t", echoID: true, delay: 20 * time.Millisecond}
	chain := NewChain(Table{domain.KindPlainText: {slow}}, WithConcurrency(3))

	docs := make([]*domain.SourceDocument, 5)
	for i := range docs {
		docs[i] = textDoc(fmt.Sprintf("doc-%d", i))
	}

	batch, err := chain.ExtractAll(context.Background(), docs)
	require.NoError(t, err)
	require.Len(t, batch.Texts, 5)
	require.Len(t, batch.Diagnostics, 5)
	for i := range docs {
		assert.Equal(t, fmt.Sprintf("t:doc-%d", i), batch.Texts[i].Text)
		assert.Equal(t, docs[i].ID, batch.Diagnostics[i].SourceID)
	}
	assert.Equal(t, 0, batch.DegradedCount())
}

func TestChain_ExtractAll_DegradedDoesNotFailBatch(t *testing.T) {
	chain := NewChain(Table{
		domain.KindPlainText: {&fakeExtractor{method: domain.MethodUTF8, text: "ok", echoID: true}},
		domain.KindPDF:       {&fakeExtractor{method: domain.MethodPDFText, err: errors.New("corrupt")}},
	})

	docs := []*domain.SourceDocument{
		textDoc("a"),
		{ID: "b", OriginalName: "broken.pdf"},
		textDoc("c"),
	}

	batch, err := chain.ExtractAll(context.Background(), docs)
	require.NoError(t, err)
	assert.Equal(t, 1, batch.DegradedCount())
	assert.True(t, batch.Diagnostics[1].Degraded)
	assert.Empty(t, batch.Texts[1].Text)
	assert.Equal(t, "ok:c", batch.Texts[2].Text)
}

func TestChain_ExtractAll_Cancelled(t *testing.T) {
	chain := NewChain(Table{domain.KindPlainText: {&fakeExtractor{method: domain.MethodUTF8, text: "t"}}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := chain.ExtractAll(ctx, []*domain.SourceDocument{textDoc("a")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChain_ExtractAll_Empty(t *testing.T) {
	batch, err := NewChain(Table{}).ExtractAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, batch.Texts)
}

func TestDefaultTable(t *testing.T) {
	table := DefaultTable(Dependencies{Config: domain.DefaultAppSettings().OCR})

	for _, kind := range []domain.Kind{
		domain.KindPlainText, domain.KindPDF, domain.KindWordDoc, domain.KindWordDocLegacy, domain.KindImage,
	} {
		assert.NotEmpty(t, table[kind], kind.String())
	}
	assert.Empty(t, table[domain.KindUnsupported])

	methods := func(list []driven.Extractor) []domain.ExtractionMethod {
		out := make([]domain.ExtractionMethod, len(list))
		for i, e := range list {
			out[i] = e.Method()
		}
		return out
	}
	assert.Equal(t, []domain.ExtractionMethod{domain.MethodUTF8, domain.MethodRawBytes}, methods(table[domain.KindPlainText]))
	assert.Equal(t, []domain.ExtractionMethod{domain.MethodPDFText, domain.MethodPDFOCR}, methods(table[domain.KindPDF]))
}

func TestDefaultTable_WithoutTools(t *testing.T) {
	chain := NewChain(DefaultTable(Dependencies{}))

	docs := []*domain.SourceDocument{
		{ID: "txt", OriginalName: "a.txt", RawBytes: []byte("The capital of France is Paris.")},
		{ID: "pdf", OriginalName: "b.pdf", RawBytes: []byte("%PDF-1.4 corrupted")},
		{ID: "png", OriginalName: "c.png", RawBytes: []byte("\x89PNG")},
		{ID: "latin1", OriginalName: "d.txt", RawBytes: []byte{'c', 'a', 'f', 0xE9}},
	}

	batch, err := chain.ExtractAll(context.Background(), docs)
	require.NoError(t, err)

	assert.Equal(t, "The capital of France is Paris.", batch.Texts[0].Text)
	assert.Equal(t, domain.MethodUTF8, batch.Texts[0].Method)
	assert.True(t, batch.Diagnostics[1].Degraded)
	assert.True(t, batch.Diagnostics[2].Degraded)
	assert.Equal(t, "café", batch.Texts[3].Text)
	assert.Equal(t, domain.MethodRawBytes, batch.Texts[3].Method)
	assert.Equal(t, 2, batch.DegradedCount())
}
