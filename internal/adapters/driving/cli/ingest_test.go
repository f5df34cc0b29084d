package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [files...]", ingestCmd.Use)
}

func TestIngestCmd_HasTextFlag(t *testing.T) {
	flag := ingestCmd.Flags().Lookup("text")
	require.NotNil(t, flag, "text flag should exist")
	assert.Equal(t, "t", flag.Shorthand)
}

func TestIngestCmd_RequiresInput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("ingest")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one file")
}

func TestIngestCmd_IndexesFilesAndText(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeFile(t, "notes.txt", "The meeting is on Tuesday.")

	out, err := executeCommand("ingest", path, "--text", "Paris is the capital of France.")

	require.NoError(t, err)
	assert.Contains(t, out, "notes.txt")
	assert.Contains(t, out, domain.RawTextName)
	assert.Contains(t, out, "Indexed 2 chunks from 2 of 2 documents.")

	batch, err := sessionStore.Load(t.Context())
	require.NoError(t, err)
	assert.Len(t, batch.Texts, 2)
}

func TestIngestCmd_ReportsDegradedDocuments(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	good := writeFile(t, "good.txt", "Alpha beta gamma.")
	broken := writeFile(t, "broken.pdf", "%PDF-1.4 this is not really a pdf")

	out, err := executeCommand("ingest", good, broken)

	require.NoError(t, err)
	assert.Contains(t, out, "! broken.pdf (pdf)")
	assert.Contains(t, out, "from 1 of 2 documents")
}

func TestIngestCmd_TooManyFiles(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	var args []string
	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt", "f.txt"} {
		args = append(args, writeFile(t, name, "x"))
	}

	_, err := executeCommand(append([]string{"ingest"}, args...)...)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUploadLimit)
	assert.Contains(t, err.Error(), "5 files")

	_, loadErr := sessionStore.Load(t.Context())
	assert.ErrorIs(t, loadErr, domain.ErrNotFound)
}

func TestIngestCmd_FailedBuildKeepsPreviousSession(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	first := writeFile(t, "first.txt", "The first document.")
	_, err := executeCommand("ingest", first)
	require.NoError(t, err)

	newPipeline = failingPipelineFactory
	second := writeFile(t, "second.txt", "The second document.")
	_, err = executeCommand("ingest", second)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingService)
	assert.Contains(t, err.Error(), "previous session kept")

	batch, err := sessionStore.Load(t.Context())
	require.NoError(t, err)
	require.Len(t, batch.Texts, 1)
	assert.Equal(t, "first.txt", batch.Texts[0].Name)
}

func TestReadUploads(t *testing.T) {
	t.Run("reads files with their base name", func(t *testing.T) {
		path := writeFile(t, "report.html", "<p>hi</p>")

		uploads, err := readUploads([]string{path}, "")

		require.NoError(t, err)
		require.Len(t, uploads, 1)
		assert.Equal(t, "report.html", uploads[0].Name)
		assert.Equal(t, "text/html", uploads[0].DeclaredType)
		assert.Equal(t, []byte("<p>hi</p>"), uploads[0].Content)
	})

	t.Run("text becomes the last upload", func(t *testing.T) {
		path := writeFile(t, "a.txt", "a")

		uploads, err := readUploads([]string{path}, "free text")

		require.NoError(t, err)
		require.Len(t, uploads, 2)
		assert.Equal(t, domain.RawTextName, uploads[1].Name)
		assert.Equal(t, "text/plain", uploads[1].DeclaredType)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := readUploads([]string{filepath.Join(t.TempDir(), "nope.txt")}, "")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := readUploads([]string{t.TempDir()}, "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("oversized file is rejected before reading", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "big.txt")
		f, err := os.Create(path)
		require.NoError(t, err)
		require.NoError(t, f.Truncate(domain.MaxFileBytes+1))
		require.NoError(t, f.Close())

		_, err = readUploads([]string{path}, "")

		assert.ErrorIs(t, err, domain.ErrUploadLimit)
	})

	t.Run("nothing to read", func(t *testing.T) {
		_, err := readUploads(nil, "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestDeclaredType(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{path: "a.pdf", expected: "application/pdf"},
		{path: "a.png", expected: "image/png"},
		{path: "a.JPG", expected: "image/jpeg"},
		{path: "a.html", expected: "text/html"},
		{path: "a.unknown-ext", expected: ""},
		{path: "noext", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, declaredType(tt.path))
		})
	}
}
