package retriever

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matheus-rech/docling-rag/internal/chunk"
	"github.com/matheus-rech/docling-rag/internal/vectorindex"
)

// stubEmbedder returns canned vectors keyed by text. Deterministic by
// construction, like a real embedding collaborator must be.
type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (s *stubEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	v, ok := s.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no stub vector for %q", text)
	}
	return v, nil
}

func (s *stubEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := s.EmbedQuery(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// buildFixture indexes three chunks along different axes so ranking against
// an axis-aligned query is unambiguous.
func buildFixture(t *testing.T) (*stubEmbedder, vectorindex.Index, *chunk.Store) {
	t.Helper()
	ctx := context.Background()

	store := chunk.NewStore(nil)
	index, err := vectorindex.NewFlat(3)
	require.NoError(t, err)

	fixtures := []struct {
		id     string
		text   string
		vector []float32
	}{
		{"c1", "the diagnosis was hypertension", []float32{1, 0, 0}},
		{"c2", "patients received beta blockers", []float32{0.8, 0.6, 0}},
		{"c3", "follow-up lasted twelve months", []float32{0, 0, 1}},
	}

	embedder := &stubEmbedder{vectors: map[string][]float32{
		"what was the diagnosis?": {1, 0, 0},
	}}

	for _, f := range fixtures {
		c, err := chunk.New(f.id, f.text, 1, chunk.BBox{Left: 0, Top: 10, Right: 10, Bottom: 0})
		require.NoError(t, err)
		require.NoError(t, store.Add(c))
		require.NoError(t, index.Insert(ctx, f.id, f.vector))
		embedder.vectors[f.text] = f.vector
	}
	store.Freeze()

	return embedder, index, store
}

func TestRetrieveRanksByScore(t *testing.T) {
	embedder, index, store := buildFixture(t)
	r, err := New(embedder, index, store, zap.NewNop())
	require.NoError(t, err)

	results, err := r.Retrieve(context.Background(), "what was the diagnosis?", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "c1", results[0].Chunk.ID)
	assert.Equal(t, "the diagnosis was hypertension", results[0].Chunk.Text)
	assert.Equal(t, "c2", results[1].Chunk.ID)
	assert.Equal(t, "c3", results[2].Chunk.ID)

	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
	}
}

func TestRetrieveIdempotent(t *testing.T) {
	embedder, index, store := buildFixture(t)
	r, err := New(embedder, index, store, zap.NewNop())
	require.NoError(t, err)

	first, err := r.Retrieve(context.Background(), "what was the diagnosis?", 3)
	require.NoError(t, err)
	second, err := r.Retrieve(context.Background(), "what was the diagnosis?", 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRetrieveEmptyIndex(t *testing.T) {
	store := chunk.NewStore(nil)
	store.Freeze()
	index, err := vectorindex.NewFlat(3)
	require.NoError(t, err)

	embedder := &stubEmbedder{vectors: map[string][]float32{"anything": {1, 0, 0}}}
	r, err := New(embedder, index, store, zap.NewNop())
	require.NoError(t, err)

	results, err := r.Retrieve(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRetrieveInconsistentIndex(t *testing.T) {
	ctx := context.Background()

	// Index knows an ID the store never saw.
	store := chunk.NewStore(nil)
	store.Freeze()
	index, err := vectorindex.NewFlat(3)
	require.NoError(t, err)
	require.NoError(t, index.Insert(ctx, "ghost", []float32{1, 0, 0}))

	embedder := &stubEmbedder{vectors: map[string][]float32{"q": {1, 0, 0}}}
	r, err := New(embedder, index, store, zap.NewNop())
	require.NoError(t, err)

	_, err = r.Retrieve(ctx, "q", 1)
	assert.ErrorIs(t, err, ErrInconsistentIndex)
}

func TestRetrievePropagatesEmbedderError(t *testing.T) {
	_, index, store := buildFixture(t)
	wantErr := errors.New("upstream unavailable")
	r, err := New(&stubEmbedder{err: wantErr}, index, store, zap.NewNop())
	require.NoError(t, err)

	_, err = r.Retrieve(context.Background(), "q", 1)
	assert.ErrorIs(t, err, wantErr)
}

func TestRetrievePropagatesInvalidK(t *testing.T) {
	embedder, index, store := buildFixture(t)
	r, err := New(embedder, index, store, zap.NewNop())
	require.NoError(t, err)

	_, err = r.Retrieve(context.Background(), "what was the diagnosis?", 0)
	assert.ErrorIs(t, err, vectorindex.ErrInvalidArgument)
}

func TestNewRequiresDependencies(t *testing.T) {
	embedder, index, store := buildFixture(t)

	_, err := New(nil, index, store, nil)
	assert.Error(t, err)
	_, err = New(embedder, nil, store, nil)
	assert.Error(t, err)
	_, err = New(embedder, index, nil, nil)
	assert.Error(t, err)
}
