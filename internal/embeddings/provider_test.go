package embeddings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	t.Run("default is tei", func(t *testing.T) {
		p, err := NewProvider(Config{BaseURL: "http://localhost:8080"})
		require.NoError(t, err)
		assert.IsType(t, &TEIProvider{}, p)
		assert.NoError(t, p.Close())
	})

	t.Run("ollama", func(t *testing.T) {
		p, err := NewProvider(Config{Provider: "ollama"})
		require.NoError(t, err)
		assert.IsType(t, &OllamaProvider{}, p)
		assert.Equal(t, 768, p.Dimension())
		assert.NoError(t, p.Close())
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewProvider(Config{Provider: "sentence-transformers"})
		assert.ErrorIs(t, err, ErrUnknownProvider)
	})
}
