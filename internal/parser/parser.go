// Package parser defines the document-parser collaborator boundary: a
// parsed document is a sequence of page-scoped text blocks with document-
// space bounding boxes plus per-page dimensions. The PDF layout analysis
// itself happens outside this repository (docling or equivalent); LoadJSON
// reads its exported output.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/matheus-rech/docling-rag/internal/chunk"
)

// ErrInvalidDocument indicates malformed parser output.
var ErrInvalidDocument = errors.New("invalid parsed document")

// Block is one parsed content block. ID may be empty; the ingest pipeline
// assigns sequential IDs in that case.
type Block struct {
	ID   string     `json:"id,omitempty"`
	Text string     `json:"text"`
	Page int        `json:"page"`
	BBox chunk.BBox `json:"bbox"`
}

// Document is the parser's output: ordered blocks plus page dimensions in
// document units. Bounding boxes are expected in a bottom-left-origin
// coordinate space consistent with the page dimensions.
type Document struct {
	Pages  map[int]chunk.PageSize `json:"pages"`
	Blocks []Block                `json:"blocks"`
}

// LoadJSON decodes a parsed document from r.
//
// Expected shape:
//
//	{
//	  "pages":  {"1": {"width": 612, "height": 792}},
//	  "blocks": [{"text": "...", "page": 1, "bbox": {"l": 10, "t": 50, "r": 110, "b": 20}}]
//	}
func LoadJSON(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if len(doc.Blocks) == 0 {
		return nil, fmt.Errorf("%w: no blocks", ErrInvalidDocument)
	}
	for i, b := range doc.Blocks {
		if b.Text == "" {
			return nil, fmt.Errorf("%w: block %d has empty text", ErrInvalidDocument, i)
		}
		if b.Page < 1 {
			return nil, fmt.Errorf("%w: block %d has page %d", ErrInvalidDocument, i, b.Page)
		}
	}
	return &doc, nil
}
