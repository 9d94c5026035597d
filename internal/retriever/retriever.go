// Package retriever ranks document chunks against a natural-language query
// by embedding the query and searching the vector index, then materializing
// the winning chunk IDs back into full chunks.
package retriever

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/matheus-rech/docling-rag/internal/chunk"
	"github.com/matheus-rech/docling-rag/internal/embeddings"
	"github.com/matheus-rech/docling-rag/internal/vectorindex"
)

// ErrInconsistentIndex is returned when the index yields a chunk ID the
// store does not hold. Index and store are built together from the same
// document, so desync is a programming error, never silently skipped.
var ErrInconsistentIndex = errors.New("index and chunk store are out of sync")

// Result is a retrieved chunk with its similarity score, in [-1,1].
type Result struct {
	Chunk chunk.Chunk `json:"chunk"`
	Score float32     `json:"score"`
}

// Retriever orchestrates query embedding, index search and chunk
// materialization. It has no side effects beyond the embedding call and is
// idempotent for identical (query, k) against a frozen document.
type Retriever struct {
	embedder embeddings.Embedder
	index    vectorindex.Index
	store    *chunk.Store
	logger   *zap.Logger
	metrics  *Metrics
}

// New creates a Retriever over the given store and index.
func New(embedder embeddings.Embedder, index vectorindex.Index, store *chunk.Store, logger *zap.Logger) (*Retriever, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if index == nil {
		return nil, fmt.Errorf("index is required")
	}
	if store == nil {
		return nil, fmt.Errorf("chunk store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{
		embedder: embedder,
		index:    index,
		store:    store,
		logger:   logger,
		metrics:  NewMetrics(logger),
	}, nil
}

// Retrieve returns up to k chunks ranked by descending similarity to the
// query. Ordering follows the index contract: non-increasing score, exact
// ties broken by ascending chunk ID.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]Result, error) {
	start := time.Now()
	var retErr error
	defer func() {
		r.metrics.RecordRetrieve(ctx, time.Since(start), retErr)
	}()

	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		retErr = fmt.Errorf("embedding query: %w", err)
		return nil, retErr
	}

	hits, err := r.index.Search(ctx, vector, k)
	if err != nil {
		retErr = fmt.Errorf("searching index: %w", err)
		return nil, retErr
	}

	results := make([]Result, len(hits))
	for i, hit := range hits {
		c, err := r.store.Get(hit.ChunkID)
		if err != nil {
			retErr = fmt.Errorf("%w: index returned %q: %v", ErrInconsistentIndex, hit.ChunkID, err)
			return nil, retErr
		}
		results[i] = Result{Chunk: c, Score: hit.Score}
	}

	r.logger.Debug("retrieved chunks",
		zap.String("query", query),
		zap.Int("k", k),
		zap.Int("results", len(results)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return results, nil
}
