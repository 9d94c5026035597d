package chunk

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for chunk validation and store operations.
var (
	// ErrInvalidChunk indicates a chunk that fails construction-time validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrDuplicateID is returned when adding a chunk whose ID is already stored.
	ErrDuplicateID = errors.New("duplicate chunk id")

	// ErrNotFound is returned when looking up an unknown chunk ID.
	ErrNotFound = errors.New("chunk not found")

	// ErrImmutable is returned when adding to a frozen store.
	ErrImmutable = errors.New("store is frozen")
)

// BBox is an axis-aligned rectangle in document space.
// Origin is bottom-left, y increases upward.
type BBox struct {
	Left   float64 `json:"l"`
	Top    float64 `json:"t"`
	Right  float64 `json:"r"`
	Bottom float64 `json:"b"`
}

// Width returns the horizontal extent of the box.
func (b BBox) Width() float64 { return b.Right - b.Left }

// Height returns the vertical extent of the box in document space.
func (b BBox) Height() float64 { return b.Top - b.Bottom }

// Validate checks that the box is non-degenerate.
func (b BBox) Validate() error {
	if b.Right <= b.Left {
		return fmt.Errorf("%w: right (%.2f) must exceed left (%.2f)", ErrInvalidChunk, b.Right, b.Left)
	}
	if b.Top <= b.Bottom {
		return fmt.Errorf("%w: top (%.2f) must exceed bottom (%.2f)", ErrInvalidChunk, b.Top, b.Bottom)
	}
	return nil
}

// PageSize holds a page's extent in document units.
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Chunk is the atomic retrievable unit: a span of text located on a single
// page of a single document. Chunks are immutable once constructed; updates
// require removal and re-insertion under a new ID.
type Chunk struct {
	// ID uniquely identifies the chunk within its document.
	ID string

	// Text is the chunk content. Never empty.
	Text string

	// Page is the 1-based page number the chunk appears on.
	Page int

	// BBox locates the chunk on the page in document space.
	BBox BBox
}

// New constructs a validated Chunk. All invariants are checked here so that
// malformed page or bbox data is rejected at ingest time rather than
// surfacing later during grounding.
func New(id, text string, page int, bbox BBox) (Chunk, error) {
	if strings.TrimSpace(id) == "" {
		return Chunk{}, fmt.Errorf("%w: id must not be empty", ErrInvalidChunk)
	}
	if text == "" {
		return Chunk{}, fmt.Errorf("%w: text must not be empty", ErrInvalidChunk)
	}
	if page < 1 {
		return Chunk{}, fmt.Errorf("%w: page must be >= 1, got %d", ErrInvalidChunk, page)
	}
	if err := bbox.Validate(); err != nil {
		return Chunk{}, err
	}
	return Chunk{ID: id, Text: text, Page: page, BBox: bbox}, nil
}
