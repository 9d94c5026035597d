package grounding

import (
	"testing"

	"github.com/matheus-rech/docling-rag/internal/chunk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPixelRegion(t *testing.T) {
	tests := []struct {
		name            string
		bbox            chunk.BBox
		pagePixelHeight float64
		scale           float64
		want            Region
	}{
		{
			name:            "unit scale flips vertical axis",
			bbox:            chunk.BBox{Left: 10, Top: 50, Right: 110, Bottom: 20},
			pagePixelHeight: 200,
			scale:           1.0,
			want:            Region{Page: 3, X: 10, Y: 150, Width: 100, Height: 30, ChunkID: "c1"},
		},
		{
			name:            "double scale",
			bbox:            chunk.BBox{Left: 10, Top: 50, Right: 110, Bottom: 20},
			pagePixelHeight: 400,
			scale:           2.0,
			want:            Region{Page: 3, X: 20, Y: 300, Width: 200, Height: 60, ChunkID: "c1"},
		},
		{
			name:            "box touching the page top maps to y zero",
			bbox:            chunk.BBox{Left: 0, Top: 200, Right: 50, Bottom: 180},
			pagePixelHeight: 200,
			scale:           1.0,
			want:            Region{Page: 3, X: 0, Y: 0, Width: 50, Height: 20, ChunkID: "c1"},
		},
		{
			name:            "fractional scale",
			bbox:            chunk.BBox{Left: 100, Top: 400, Right: 300, Bottom: 100},
			pagePixelHeight: 396,
			scale:           0.5,
			want:            Region{Page: 3, X: 50, Y: 196, Width: 100, Height: 150, ChunkID: "c1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := chunk.Chunk{ID: "c1", Text: "t", Page: 3, BBox: tt.bbox}

			got, err := ToPixelRegion(c, tt.pagePixelHeight, tt.scale)
			require.NoError(t, err)

			assert.Equal(t, tt.want.Page, got.Page)
			assert.Equal(t, tt.want.ChunkID, got.ChunkID)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
			assert.InDelta(t, tt.want.Width, got.Width, 1e-9)
			assert.InDelta(t, tt.want.Height, got.Height, 1e-9)
			assert.GreaterOrEqual(t, got.Width, 0.0)
			assert.GreaterOrEqual(t, got.Height, 0.0)
		})
	}
}

func TestToPixelRegionDegenerateBBox(t *testing.T) {
	tests := []struct {
		name string
		bbox chunk.BBox
	}{
		{
			name: "inverted both axes",
			bbox: chunk.BBox{Left: 50, Top: 10, Right: 10, Bottom: 50},
		},
		{
			name: "zero width",
			bbox: chunk.BBox{Left: 10, Top: 50, Right: 10, Bottom: 20},
		},
		{
			name: "zero height",
			bbox: chunk.BBox{Left: 10, Top: 20, Right: 110, Bottom: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := chunk.Chunk{ID: "bad", Text: "t", Page: 1, BBox: tt.bbox}
			_, err := ToPixelRegion(c, 200, 1.0)
			assert.ErrorIs(t, err, ErrInvalidBBox)
		})
	}
}
