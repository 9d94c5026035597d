// Package grounding maps document-space bounding boxes onto rendered page
// images. Document space has a bottom-left origin with y increasing upward;
// pixel space has a top-left origin with y increasing downward. The flip
// between the two lives in exactly one place, ToPixelRegion, so every caller
// shares the same unit-tested arithmetic instead of repeating it inline.
package grounding

import (
	"context"
	"errors"
	"fmt"

	"github.com/matheus-rech/docling-rag/internal/chunk"
)

// ErrInvalidBBox is returned when a chunk's bounding box is degenerate and
// cannot be projected onto a page image.
var ErrInvalidBBox = errors.New("invalid bounding box")

// Region is an on-page rectangle in pixel space (top-left origin).
type Region struct {
	// Page is the 1-based page number the region belongs to.
	Page int `json:"page"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// ChunkID identifies the chunk the region was derived from.
	ChunkID string `json:"chunk_id"`
}

// RenderedPage describes a rendered page image: its pixel height and the
// scale factor (pixels per document unit) the renderer applied.
type RenderedPage struct {
	PixelHeight float64
	Scale       float64
}

// Renderer is the page-rendering collaborator. Implementations rasterize a
// page and report the geometry needed to project document coordinates onto
// the image.
type Renderer interface {
	RenderedPage(ctx context.Context, page int) (RenderedPage, error)
}

// ToPixelRegion converts a chunk's document-space bbox into a pixel-space
// region on the rendered page.
//
// The transform flips the vertical axis: document space measures Top from
// the page bottom, pixel space measures Y from the image top, so
// y = pagePixelHeight - top*scale. Pure function; safe to call concurrently.
func ToPixelRegion(c chunk.Chunk, pagePixelHeight, scale float64) (Region, error) {
	b := c.BBox
	if b.Right <= b.Left || b.Top <= b.Bottom {
		return Region{}, fmt.Errorf("%w: chunk %q has bbox l=%.2f t=%.2f r=%.2f b=%.2f",
			ErrInvalidBBox, c.ID, b.Left, b.Top, b.Right, b.Bottom)
	}

	return Region{
		Page:    c.Page,
		X:       b.Left * scale,
		Y:       pagePixelHeight - b.Top*scale,
		Width:   (b.Right - b.Left) * scale,
		Height:  (b.Top - b.Bottom) * scale,
		ChunkID: c.ID,
	}, nil
}
