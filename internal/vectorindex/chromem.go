package vectorindex

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	chromem "github.com/philippgille/chromem-go"
	"go.uber.org/zap"
)

// ChromemConfig holds configuration for the chromem-go backed index.
type ChromemConfig struct {
	// Path is the directory for persistent storage. Empty means in-memory.
	Path string `koanf:"path"`

	// Compress enables gzip compression of persisted data.
	Compress bool `koanf:"compress"`

	// Collection is the chromem collection name.
	// Default: "docrag_chunks"
	Collection string `koanf:"collection"`
}

// ApplyDefaults sets default values for unset fields.
func (c *ChromemConfig) ApplyDefaults() {
	if c.Collection == "" {
		c.Collection = "docrag_chunks"
	}
}

// ChromemIndex implements Index on top of chromem-go, an embeddable vector
// database with optional gob persistence. Embeddings are computed upstream
// and handed in precomputed; the collection's embedding func is never used.
//
// chromem does not define ordering for exact score ties, so returned pages
// of results are re-sorted by (score desc, chunk ID asc). Ties straddling
// the k boundary remain backend-defined; the flat provider is the reference
// implementation where that matters.
type ChromemIndex struct {
	collection *chromem.Collection
	dimension  int
	logger     *zap.Logger

	mu   sync.Mutex
	byID map[string]struct{}
}

// errPrecomputedOnly guards against chromem ever invoking the embedding
// func; all documents and queries carry precomputed vectors.
var errPrecomputedOnly = errors.New("chromem index only accepts precomputed embeddings")

// NewChromem creates a chromem-backed index for vectors of the given
// dimension. With a non-empty Path the underlying database persists across
// restarts and previously stored vectors are visible immediately.
func NewChromem(cfg ChromemConfig, dimension int, logger *zap.Logger) (*ChromemIndex, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", ErrInvalidConfig, dimension)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.ApplyDefaults()

	var db *chromem.DB
	var err error
	if cfg.Path != "" {
		db, err = chromem.NewPersistentDB(cfg.Path, cfg.Compress)
		if err != nil {
			return nil, fmt.Errorf("opening chromem db at %s: %w", cfg.Path, err)
		}
	} else {
		db = chromem.NewDB()
	}

	embeddingFunc := func(context.Context, string) ([]float32, error) {
		return nil, errPrecomputedOnly
	}
	collection, err := db.GetOrCreateCollection(cfg.Collection, nil, embeddingFunc)
	if err != nil {
		return nil, fmt.Errorf("getting collection %s: %w", cfg.Collection, err)
	}

	logger.Info("chromem index ready",
		zap.String("path", cfg.Path),
		zap.String("collection", cfg.Collection),
		zap.Int("dimension", dimension),
		zap.Int("existing_vectors", collection.Count()),
	)

	return &ChromemIndex{
		collection: collection,
		dimension:  dimension,
		logger:     logger,
		byID:       make(map[string]struct{}),
	}, nil
}

// Insert adds a precomputed embedding under chunkID.
func (c *ChromemIndex) Insert(ctx context.Context, chunkID string, vector []float32) error {
	if chunkID == "" {
		return fmt.Errorf("%w: chunk id must not be empty", ErrInvalidArgument)
	}
	if len(vector) != c.dimension {
		return fmt.Errorf("%w: got %d, index expects %d", ErrDimensionMismatch, len(vector), c.dimension)
	}

	c.mu.Lock()
	if _, ok := c.byID[chunkID]; ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrDuplicateID, chunkID)
	}
	c.byID[chunkID] = struct{}{}
	c.mu.Unlock()

	err := c.collection.AddDocument(ctx, chromem.Document{
		ID:        chunkID,
		Embedding: vector,
	})
	if err != nil {
		c.mu.Lock()
		delete(c.byID, chunkID)
		c.mu.Unlock()
		return fmt.Errorf("adding %q to chromem: %w", chunkID, err)
	}
	return nil
}

// Search queries the collection with a precomputed query embedding.
func (c *ChromemIndex) Search(ctx context.Context, query []float32, k int) ([]Result, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be >= 1, got %d", ErrInvalidArgument, k)
	}
	if len(query) != c.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, index expects %d", ErrDimensionMismatch, len(query), c.dimension)
	}

	// chromem rejects nResults above the collection size.
	count := c.collection.Count()
	if count == 0 {
		return []Result{}, nil
	}
	if k > count {
		k = count
	}

	hits, err := c.collection.QueryEmbedding(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	results := make([]Result, len(hits))
	for i, h := range hits {
		results[i] = Result{ChunkID: h.ID, Score: h.Similarity}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ChunkID < results[j].ChunkID
	})
	return results, nil
}

// Dimension returns the configured embedding dimension.
func (c *ChromemIndex) Dimension() int { return c.dimension }

// Len returns the number of indexed vectors.
func (c *ChromemIndex) Len() int { return c.collection.Count() }
