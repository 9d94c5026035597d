package vectorindex

import (
	"context"
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Flat is an exact in-memory index. Every vector is L2-normalized at insert
// time, so search is a full scan of dot products. Exact and deterministic,
// which is what the retrieval core's contract requires; for the document
// sizes this system handles (hundreds to low thousands of chunks per PDF)
// a scan is faster than maintaining an approximate structure.
//
// Flat is safe for a single writer during ingest and for any number of
// concurrent readers once ingest has ended.
type Flat struct {
	mu        sync.RWMutex
	dimension int
	ids       []string
	vectors   [][]float32
	byID      map[string]struct{}
}

// NewFlat creates an empty flat index for vectors of the given dimension.
func NewFlat(dimension int) (*Flat, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", ErrInvalidConfig, dimension)
	}
	return &Flat{
		dimension: dimension,
		byID:      make(map[string]struct{}),
	}, nil
}

// Insert adds a normalized copy of the vector under chunkID.
func (f *Flat) Insert(_ context.Context, chunkID string, vector []float32) error {
	if chunkID == "" {
		return fmt.Errorf("%w: chunk id must not be empty", ErrInvalidArgument)
	}
	if len(vector) != f.dimension {
		return fmt.Errorf("%w: got %d, index expects %d", ErrDimensionMismatch, len(vector), f.dimension)
	}

	normalized, err := normalize(vector)
	if err != nil {
		return fmt.Errorf("inserting %q: %w", chunkID, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byID[chunkID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateID, chunkID)
	}
	f.byID[chunkID] = struct{}{}
	f.ids = append(f.ids, chunkID)
	f.vectors = append(f.vectors, normalized)
	return nil
}

// Search scans all vectors and returns the top k by cosine similarity.
func (f *Flat) Search(_ context.Context, query []float32, k int) ([]Result, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be >= 1, got %d", ErrInvalidArgument, k)
	}
	if len(query) != f.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, index expects %d", ErrDimensionMismatch, len(query), f.dimension)
	}

	normalized, err := normalize(query)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	results := make([]Result, len(f.ids))
	for i, vec := range f.vectors {
		results[i] = Result{ChunkID: f.ids[i], Score: dot(normalized, vec)}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ChunkID < results[j].ChunkID
	})

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Dimension returns the configured embedding dimension.
func (f *Flat) Dimension() int { return f.dimension }

// Len returns the number of indexed vectors.
func (f *Flat) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.ids)
}

// flatSnapshot is the on-disk representation of a Flat index.
type flatSnapshot struct {
	Dimension int
	IDs       []string
	Vectors   [][]float32
}

// Save writes a gob snapshot of the index to path, creating parent
// directories as needed. Vectors are stored normalized, exactly as held in
// memory.
func (f *Flat) Save(path string) error {
	f.mu.RLock()
	snap := flatSnapshot{
		Dimension: f.dimension,
		IDs:       append([]string(nil), f.ids...),
		Vectors:   make([][]float32, len(f.vectors)),
	}
	for i, v := range f.vectors {
		snap.Vectors[i] = append([]float32(nil), v...)
	}
	f.mu.RUnlock()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating snapshot directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot file: %w", err)
	}
	if err := gob.NewEncoder(file).Encode(snap); err != nil {
		file.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return file.Close()
}

// LoadFlat reads a gob snapshot written by Save.
func LoadFlat(path string) (*Flat, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer file.Close()

	var snap flatSnapshot
	if err := gob.NewDecoder(file).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if len(snap.IDs) != len(snap.Vectors) {
		return nil, fmt.Errorf("corrupt snapshot: %d ids for %d vectors", len(snap.IDs), len(snap.Vectors))
	}

	f, err := NewFlat(snap.Dimension)
	if err != nil {
		return nil, err
	}
	for i, id := range snap.IDs {
		if len(snap.Vectors[i]) != snap.Dimension {
			return nil, fmt.Errorf("%w: snapshot vector %q has %d dimensions, expected %d",
				ErrDimensionMismatch, id, len(snap.Vectors[i]), snap.Dimension)
		}
		if _, ok := f.byID[id]; ok {
			return nil, fmt.Errorf("%w: %q appears twice in snapshot", ErrDuplicateID, id)
		}
		f.byID[id] = struct{}{}
	}
	f.ids = snap.IDs
	f.vectors = snap.Vectors
	return f, nil
}

// normalize returns an L2-normalized copy of v.
func normalize(v []float32) ([]float32, error) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return nil, ErrZeroVector
	}
	inv := 1 / math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out, nil
}

// dot computes the inner product of two equal-length vectors.
func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
