package vectorindex

import (
	"context"
	"errors"
)

// Sentinel errors for index operations.
var (
	// ErrDimensionMismatch is returned when a vector's length differs from
	// the index's configured dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrInvalidArgument indicates an invalid search argument (e.g. k < 1).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDuplicateID is returned when inserting a chunk ID twice.
	ErrDuplicateID = errors.New("duplicate chunk id in index")

	// ErrZeroVector is returned for vectors with zero magnitude, which have
	// no defined direction and cannot participate in cosine similarity.
	ErrZeroVector = errors.New("zero-magnitude vector")

	// ErrUnknownProvider indicates an unsupported provider in the config.
	ErrUnknownProvider = errors.New("unknown vector index provider")

	// ErrInvalidConfig indicates invalid index configuration.
	ErrInvalidConfig = errors.New("invalid index configuration")
)

// Result is a single search hit: the chunk ID and its cosine similarity to
// the query, in [-1,1].
type Result struct {
	ChunkID string  `json:"chunk_id"`
	Score   float32 `json:"score"`
}

// Index is a nearest-neighbor index over chunk embeddings. The index owns
// only the id->vector mapping; chunk text lives in the chunk store.
// Insertion order does not affect search results.
type Index interface {
	// Insert adds a vector under the given chunk ID. Fails with
	// ErrDimensionMismatch if the vector length differs from Dimension.
	Insert(ctx context.Context, chunkID string, vector []float32) error

	// Search returns up to k results ranked by descending cosine
	// similarity. Exact score ties break by ascending chunk ID. If the
	// index holds fewer than k vectors, all of them are returned; the
	// result is never padded. k < 1 fails with ErrInvalidArgument.
	Search(ctx context.Context, query []float32, k int) ([]Result, error)

	// Dimension returns the configured embedding dimension.
	Dimension() int

	// Len returns the number of indexed vectors.
	Len() int
}
