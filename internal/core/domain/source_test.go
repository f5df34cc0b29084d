package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload_IsRawText(t *testing.T) {
	assert.True(t, NewRawText("hi").IsRawText())
	assert.False(t, Upload{Name: "notes.txt", DeclaredType: "text/plain"}.IsRawText())
	assert.False(t, Upload{Name: RawTextName}.IsRawText())
}

func TestExtractionBatch_DegradedCount(t *testing.T) {
	b := &ExtractionBatch{
		Diagnostics: []ExtractionDiagnostic{
			{SourceID: "a"},
			{SourceID: "b", Degraded: true},
			{SourceID: "c", Degraded: true},
		},
	}
	assert.Equal(t, 2, b.DegradedCount())
	assert.Equal(t, 0, (&ExtractionBatch{}).DegradedCount())
}

func TestValidateUploads(t *testing.T) {
	small := Upload{Name: "a.txt", Content: []byte("hello")}

	tests := []struct {
		name    string
		uploads []Upload
		wantErr bool
	}{
		{name: "empty batch", uploads: nil},
		{name: "five entries", uploads: []Upload{small, small, small, small, small}},
		{name: "six entries", uploads: []Upload{small, small, small, small, small, small}, wantErr: true},
		{
			name:    "file at limit",
			uploads: []Upload{{Name: "big.bin", Content: make([]byte, MaxFileBytes)}},
		},
		{
			name:    "file over limit",
			uploads: []Upload{{Name: "big.bin", Content: make([]byte, MaxFileBytes+1)}},
			wantErr: true,
		},
		{
			name: "batch over total",
			uploads: []Upload{
				{Name: "1", Content: make([]byte, MaxFileBytes)},
				{Name: "2", Content: make([]byte, MaxFileBytes)},
				{Name: "3", Content: make([]byte, MaxFileBytes)},
				{Name: "4", Content: make([]byte, MaxFileBytes)},
				{Name: "5", Content: make([]byte, 1)},
			},
			wantErr: true,
		},
		{
			name:    "raw text at limit counts characters",
			uploads: []Upload{NewRawText(strings.Repeat("é", MaxRawTextChars))},
		},
		{
			name:    "raw text over limit",
			uploads: []Upload{NewRawText(strings.Repeat("a", MaxRawTextChars+1))},
			wantErr: true,
		},
		{
			name:    "file named textbox uses the file limit",
			uploads: []Upload{{Name: RawTextName, Content: []byte(strings.Repeat("a", MaxRawTextChars+1))}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUploads(tt.uploads)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUploadLimit))
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}

func TestChunk_End(t *testing.T) {
	c := Chunk{StartOffset: 80, Length: 100}
	assert.Equal(t, 180, c.End())
}

func TestRetrievalResult_Texts(t *testing.T) {
	r := RetrievalResult{
		{Chunk: Chunk{Text: "first"}, Score: 0.9},
		{Chunk: Chunk{Text: "second"}, Score: 0.5},
	}
	assert.Equal(t, []string{"first", "second"}, r.Texts())
	assert.Empty(t, RetrievalResult(nil).Texts())
}
