package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestExtractCmd_Use(t *testing.T) {
	assert.Equal(t, "extract [files...]", extractCmd.Use)
}

func TestExtractCmd_PrintsText(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeFile(t, "hello.txt", "Hello, extracted world.")

	out, err := executeCommand("extract", path)

	require.NoError(t, err)
	assert.Contains(t, out, "hello.txt (plain_text)")
	assert.Contains(t, out, "Hello, extracted world.")
}

func TestExtractCmd_DoesNotTouchSession(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("extract", "--text", "just looking")
	require.NoError(t, err)

	_, err = sessionStore.Load(t.Context())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExtractCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	good := writeFile(t, "good.txt", "fine")
	broken := writeFile(t, "broken.pdf", "%PDF-1.4 not a pdf")

	out, err := executeCommand("extract", "--json", good, broken)
	require.NoError(t, err)

	var docs []extractedDocument
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 2)

	assert.Equal(t, "good.txt", docs[0].Name)
	assert.False(t, docs[0].Degraded)
	assert.Equal(t, "fine", docs[0].Text)

	assert.Equal(t, "broken.pdf", docs[1].Name)
	assert.Equal(t, "pdf", docs[1].Kind)
	assert.True(t, docs[1].Degraded)
	assert.NotEmpty(t, docs[1].Reason)
	assert.Empty(t, docs[1].Text)
}

func TestExtractCmd_RequiresInput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("extract")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
