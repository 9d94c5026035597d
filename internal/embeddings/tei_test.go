package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTEI returns a server that answers /embed with a deterministic vector
// per input (derived from the text length) so determinism can be asserted.
func fakeTEI(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/embed", r.URL.Path)

		var req teiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		vectors := make([][]float32, len(req.Inputs))
		for i, text := range req.Inputs {
			vectors[i] = []float32{float32(len(text)), 1, 0}
		}
		require.NoError(t, json.NewEncoder(w).Encode(vectors))
	}))
}

func TestTEIProviderEmbedDocuments(t *testing.T) {
	srv := fakeTEI(t)
	defer srv.Close()

	p, err := NewTEIProvider(TEIConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	vectors, err := p.EmbedDocuments(context.Background(), []string{"ab", "abcd"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{2, 1, 0}, vectors[0])
	assert.Equal(t, []float32{4, 1, 0}, vectors[1])
}

func TestTEIProviderDeterministic(t *testing.T) {
	srv := fakeTEI(t)
	defer srv.Close()

	p, err := NewTEIProvider(TEIConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	first, err := p.EmbedQuery(context.Background(), "same text")
	require.NoError(t, err)
	second, err := p.EmbedQuery(context.Background(), "same text")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTEIProviderEmptyInput(t *testing.T) {
	p, err := NewTEIProvider(TEIConfig{BaseURL: "http://localhost:9"})
	require.NoError(t, err)

	_, err = p.EmbedDocuments(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = p.EmbedQuery(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestTEIProviderUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p, err := NewTEIProvider(TEIConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = p.EmbedQuery(context.Background(), "query")
	assert.ErrorIs(t, err, ErrEmbeddingFailed)
	assert.Contains(t, err.Error(), "503")
}

func TestTEIProviderVectorCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([][]float32{})
	}))
	defer srv.Close()

	p, err := NewTEIProvider(TEIConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = p.EmbedQuery(context.Background(), "query")
	assert.ErrorIs(t, err, ErrEmbeddingFailed)
}

func TestTEIProviderRequiresBaseURL(t *testing.T) {
	_, err := NewTEIProvider(TEIConfig{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestTEIProviderDimensionDetection(t *testing.T) {
	tests := []struct {
		model string
		want  int
	}{
		{"BAAI/bge-small-en-v1.5", 384},
		{"BAAI/bge-base-en-v1.5", 768},
		{"BAAI/bge-large-en-v1.5", 1024},
		{"all-MiniLM-L6-v2", 384},
		{"some-unknown-model", 384},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			p, err := NewTEIProvider(TEIConfig{BaseURL: "http://localhost:8080", Model: tt.model})
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Dimension())
		})
	}

	t.Run("explicit dimension wins", func(t *testing.T) {
		p, err := NewTEIProvider(TEIConfig{BaseURL: "http://localhost:8080", Model: "bge-small", Dimension: 512})
		require.NoError(t, err)
		assert.Equal(t, 512, p.Dimension())
	})
}
