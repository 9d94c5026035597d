// Package engine ties the retrieval core together: it ingests parsed
// documents into a chunk store plus vector index, and answers queries by
// running retrieval, answer generation, visual grounding and confidence
// scoring over the result.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matheus-rech/docling-rag/internal/chunk"
	"github.com/matheus-rech/docling-rag/internal/confidence"
	"github.com/matheus-rech/docling-rag/internal/embeddings"
	"github.com/matheus-rech/docling-rag/internal/extraction"
	"github.com/matheus-rech/docling-rag/internal/generation"
	"github.com/matheus-rech/docling-rag/internal/grounding"
	"github.com/matheus-rech/docling-rag/internal/parser"
	"github.com/matheus-rech/docling-rag/internal/retriever"
	"github.com/matheus-rech/docling-rag/internal/vectorindex"
)

// Sentinel errors for engine operations.
var (
	// ErrNoResults is returned when a query retrieves nothing, e.g. from
	// an empty index. Never silently defaulted.
	ErrNoResults = errors.New("no results for query")

	// ErrUpstreamTimeout is returned when an embedding or generation call
	// exceeds its deadline.
	ErrUpstreamTimeout = errors.New("upstream call timed out")

	// ErrUnknownPage is returned when grounding needs a page whose
	// dimensions are not known and no renderer is configured.
	ErrUnknownPage = errors.New("unknown page dimensions")
)

// Handle is an ingested document, owned by the caller. The underlying store
// and index are frozen and safe for concurrent queries.
type Handle struct {
	ID string

	store     *chunk.Store
	index     vectorindex.Index
	retriever *retriever.Retriever
}

// Len returns the number of chunks in the document.
func (h *Handle) Len() int { return h.store.Len() }

// SaveIndex writes the document's vector index to path so a later Restore
// can skip the embedding pass. Only the flat in-memory index supports
// snapshots; the chromem provider persists through its own store.
func (h *Handle) SaveIndex(path string) error {
	flat, ok := h.index.(*vectorindex.Flat)
	if !ok {
		return fmt.Errorf("%w: snapshots", vectorindex.ErrUnknownProvider)
	}
	return flat.Save(path)
}

// Answer is the composed response for one query.
type Answer struct {
	// Text is the generated answer, or the top chunk's text when the
	// generation collaborator is unavailable or failed non-fatally.
	Text string `json:"top_answer_text"`

	// Region locates the top chunk on its rendered page.
	Region grounding.Region `json:"grounded_region"`

	// Confidence combines retrieval similarity with field-level
	// extraction confidence when available.
	Confidence confidence.Score `json:"confidence"`

	// Results is the full ranked chunk list.
	Results []retriever.Result `json:"ranked_chunks"`

	// Fields holds per-field extraction results from the top chunk, when
	// extraction is enabled.
	Fields map[string]extraction.Field `json:"fields,omitempty"`
}

// Engine assembles answers. Generator, Renderer and Extractor are optional:
// without a generator the top chunk's text is the answer; without a
// renderer pages are grounded at identity scale using the document's own
// page dimensions; without an extractor confidence uses similarity alone.
type Engine struct {
	embedder  embeddings.Provider
	indexCfg  vectorindex.Config
	generator generation.Generator
	renderer  grounding.Renderer
	scorer    *confidence.Scorer
	extractor *extraction.HeuristicExtractor
	logger    *zap.Logger
}

// Options configures optional engine collaborators.
type Options struct {
	Generator generation.Generator
	Renderer  grounding.Renderer
	Extractor *extraction.HeuristicExtractor
	Scorer    *confidence.Scorer
	Logger    *zap.Logger
}

// New creates an Engine. The index dimension is taken from the embedder
// unless the index config sets one explicitly.
func New(embedder embeddings.Provider, indexCfg vectorindex.Config, opts Options) (*Engine, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if indexCfg.Dimension == 0 {
		indexCfg.Dimension = embedder.Dimension()
	}
	if indexCfg.Dimension != embedder.Dimension() {
		return nil, fmt.Errorf("%w: index dimension %d does not match embedder dimension %d",
			vectorindex.ErrInvalidConfig, indexCfg.Dimension, embedder.Dimension())
	}

	scorer := opts.Scorer
	if scorer == nil {
		var err error
		scorer, err = confidence.NewScorer(confidence.DefaultConfig())
		if err != nil {
			return nil, err
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		embedder:  embedder,
		indexCfg:  indexCfg,
		generator: opts.Generator,
		renderer:  opts.Renderer,
		scorer:    scorer,
		extractor: opts.Extractor,
		logger:    logger,
	}, nil
}

// Ingest builds a frozen chunk store and vector index from a parsed
// document and returns a handle owned by the caller. Ingest is the single-
// writer phase; the handle must not be queried until Ingest returns.
func (e *Engine) Ingest(ctx context.Context, doc *parser.Document) (*Handle, error) {
	if doc == nil || len(doc.Blocks) == 0 {
		return nil, fmt.Errorf("%w: document has no blocks", parser.ErrInvalidDocument)
	}

	store := chunk.NewStore(doc.Pages)
	texts := make([]string, len(doc.Blocks))
	ids := make([]string, len(doc.Blocks))

	for i, b := range doc.Blocks {
		id := b.ID
		if id == "" {
			id = fmt.Sprintf("chunk-%04d", i)
		}
		c, err := chunk.New(id, b.Text, b.Page, b.BBox)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		if err := store.Add(c); err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		texts[i] = b.Text
		ids[i] = id
	}

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, classifyUpstream(fmt.Errorf("embedding %d chunks: %w", len(texts), err))
	}

	index, err := vectorindex.New(e.indexCfg, e.logger)
	if err != nil {
		return nil, err
	}
	for i, vec := range vectors {
		if err := index.Insert(ctx, ids[i], vec); err != nil {
			return nil, fmt.Errorf("indexing chunk %q: %w", ids[i], err)
		}
	}

	store.Freeze()

	ret, err := retriever.New(e.embedder, index, store, e.logger)
	if err != nil {
		return nil, err
	}

	h := &Handle{
		ID:        uuid.NewString(),
		store:     store,
		index:     index,
		retriever: ret,
	}
	e.logger.Info("document ingested",
		zap.String("document_id", h.ID),
		zap.Int("chunks", store.Len()),
		zap.Int("dimension", index.Dimension()),
	)
	return h, nil
}

// Restore rebuilds a handle from a parsed document and a flat index
// snapshot written by SaveIndex, skipping the per-chunk embedding pass. The
// snapshot must have been built from the same document with an embedder of
// the same dimension.
func (e *Engine) Restore(_ context.Context, doc *parser.Document, indexPath string) (*Handle, error) {
	if doc == nil || len(doc.Blocks) == 0 {
		return nil, fmt.Errorf("%w: document has no blocks", parser.ErrInvalidDocument)
	}

	index, err := vectorindex.LoadFlat(indexPath)
	if err != nil {
		return nil, fmt.Errorf("loading index snapshot: %w", err)
	}
	if index.Dimension() != e.embedder.Dimension() {
		return nil, fmt.Errorf("%w: snapshot dimension %d does not match embedder dimension %d",
			vectorindex.ErrInvalidConfig, index.Dimension(), e.embedder.Dimension())
	}

	store := chunk.NewStore(doc.Pages)
	for i, b := range doc.Blocks {
		id := b.ID
		if id == "" {
			id = fmt.Sprintf("chunk-%04d", i)
		}
		c, err := chunk.New(id, b.Text, b.Page, b.BBox)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		if err := store.Add(c); err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
	}
	if index.Len() != store.Len() {
		return nil, fmt.Errorf("%w: snapshot holds %d vectors for %d chunks",
			vectorindex.ErrInvalidConfig, index.Len(), store.Len())
	}
	store.Freeze()

	ret, err := retriever.New(e.embedder, index, store, e.logger)
	if err != nil {
		return nil, err
	}

	h := &Handle{
		ID:        uuid.NewString(),
		store:     store,
		index:     index,
		retriever: ret,
	}
	e.logger.Info("document restored from snapshot",
		zap.String("document_id", h.ID),
		zap.Int("chunks", store.Len()),
	)
	return h, nil
}

// Query answers a natural-language question against an ingested document.
//
// The top-ranked chunk provides the generation context and the grounded
// region. Generation failures other than timeouts degrade to the chunk text
// itself (the collaborator is best-effort); timeouts surface as
// ErrUpstreamTimeout. An empty retrieval fails with ErrNoResults.
func (e *Engine) Query(ctx context.Context, h *Handle, query string, k int) (*Answer, error) {
	if h == nil {
		return nil, fmt.Errorf("nil document handle")
	}

	results, err := h.retriever.Retrieve(ctx, query, k)
	if err != nil {
		return nil, classifyUpstream(err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoResults, query)
	}
	top := results[0]

	text, err := e.generate(ctx, query, top.Chunk.Text)
	if err != nil {
		return nil, err
	}

	region, err := e.ground(ctx, h, top.Chunk)
	if err != nil {
		return nil, err
	}

	var fields map[string]extraction.Field
	var fieldConfidence *float64
	if e.extractor != nil {
		fields = e.extractor.Extract(top.Chunk.Text)
		if _, best, ok := extraction.Best(fields); ok {
			fieldConfidence = &best.Confidence
		}
	}
	score := e.scorer.Score(float64(top.Score), fieldConfidence)

	return &Answer{
		Text:       text,
		Region:     region,
		Confidence: score,
		Results:    results,
		Fields:     fields,
	}, nil
}

// generate produces the answer text, degrading to the chunk text when the
// generator is absent or fails non-fatally.
func (e *Engine) generate(ctx context.Context, query, chunkText string) (string, error) {
	if e.generator == nil {
		return chunkText, nil
	}
	text, err := e.generator.Answer(ctx, query, chunkText)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: generation: %w", ErrUpstreamTimeout, err)
		}
		e.logger.Warn("generation failed, falling back to chunk text", zap.Error(err))
		return chunkText, nil
	}
	return text, nil
}

// ground maps the chunk to a pixel region using the renderer, or the
// document's own page dimensions at identity scale when no renderer is
// configured.
func (e *Engine) ground(ctx context.Context, h *Handle, c chunk.Chunk) (grounding.Region, error) {
	if e.renderer != nil {
		page, err := e.renderer.RenderedPage(ctx, c.Page)
		if err != nil {
			return grounding.Region{}, classifyUpstream(fmt.Errorf("rendering page %d: %w", c.Page, err))
		}
		return grounding.ToPixelRegion(c, page.PixelHeight, page.Scale)
	}

	size, ok := h.store.PageSize(c.Page)
	if !ok {
		return grounding.Region{}, fmt.Errorf("%w: page %d", ErrUnknownPage, c.Page)
	}
	return grounding.ToPixelRegion(c, size.Height, 1.0)
}

// classifyUpstream maps context deadline expiry from collaborator calls to
// the engine's timeout kind, leaving other errors untouched.
func classifyUpstream(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrUpstreamTimeout, err)
	}
	return err
}
