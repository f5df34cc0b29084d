package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func mustUploads(t *testing.T, text string) []domain.Upload {
	t.Helper()
	uploads, err := readUploads(nil, text)
	require.NoError(t, err)
	return uploads
}

func TestNewPipelineFactory(t *testing.T) {
	factory := NewPipelineFactory(nil)

	t.Run("without LLM", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		p, err := factory(&settings, false)
		require.NoError(t, err)
		defer p.Close()

		assert.NotNil(t, p.Ingest)
		assert.Nil(t, p.Answer)
	})

	t.Run("with LLM", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		p, err := factory(&settings, true)
		require.NoError(t, err)
		defer p.Close()

		assert.NotNil(t, p.Answer)
	})

	t.Run("invalid chunking", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		settings.Chunking.Overlap = settings.Chunking.Size
		_, err := factory(&settings, false)
		assert.Error(t, err)
	})

	t.Run("unconfigured LLM", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		settings.LLM.Provider = domain.AIProviderOpenAI
		_, err := factory(&settings, true)
		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})

	t.Run("unconfigured LLM is fine for ingest", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		settings.LLM.Provider = domain.AIProviderOpenAI
		p, err := factory(&settings, false)
		require.NoError(t, err)
		p.Close()
	})
}

func TestPipeline_CloseWithoutProviders(t *testing.T) {
	p := &Pipeline{}
	assert.NotPanics(t, p.Close)
}
