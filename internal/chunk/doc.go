// Package chunk defines the document data model for retrieval: chunks of
// text tied to a page and a document-space bounding box, and the append-only
// store that holds them during ingest.
//
// Coordinate convention: bounding boxes are in document space with a
// bottom-left origin and y increasing upward (Right >= Left, Top >= Bottom).
// The pixel-space conversion lives in the grounding package.
package chunk
