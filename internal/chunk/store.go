package chunk

import (
	"fmt"
	"sync"
)

// Store holds a document's chunks in insertion order plus per-page
// dimensions. It is append-only during ingest and immutable after Freeze;
// frozen stores are safe for concurrent readers without coordination.
type Store struct {
	mu     sync.Mutex
	chunks []Chunk
	byID   map[string]int
	pages  map[int]PageSize
	frozen bool
}

// NewStore creates an empty store. pages maps page number to page extent in
// document units; it may be nil, in which case bbox-within-page validation
// is skipped (the parser is then trusted to deliver in-bounds boxes).
func NewStore(pages map[int]PageSize) *Store {
	copied := make(map[int]PageSize, len(pages))
	for n, sz := range pages {
		copied[n] = sz
	}
	return &Store{
		byID:  make(map[string]int),
		pages: copied,
	}
}

// Add appends a chunk to the store.
//
// Returns ErrImmutable after Freeze, ErrDuplicateID if the chunk's ID is
// already present, and ErrInvalidChunk if the bbox falls outside the known
// page extent.
func (s *Store) Add(c Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen {
		return fmt.Errorf("%w: cannot add chunk %q", ErrImmutable, c.ID)
	}
	if _, ok := s.byID[c.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateID, c.ID)
	}
	if len(s.pages) > 0 {
		size, ok := s.pages[c.Page]
		if !ok {
			return fmt.Errorf("%w: chunk %q references unknown page %d", ErrInvalidChunk, c.ID, c.Page)
		}
		if c.BBox.Left < 0 || c.BBox.Bottom < 0 || c.BBox.Right > size.Width || c.BBox.Top > size.Height {
			return fmt.Errorf("%w: chunk %q bbox exceeds page %d extent %.2fx%.2f",
				ErrInvalidChunk, c.ID, c.Page, size.Width, size.Height)
		}
	}

	s.byID[c.ID] = len(s.chunks)
	s.chunks = append(s.chunks, c)
	return nil
}

// Get returns the chunk with the given ID or ErrNotFound.
func (s *Store) Get(id string) (Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[id]
	if !ok {
		return Chunk{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return s.chunks[i], nil
}

// All returns the chunks in insertion order. The returned slice is a copy;
// callers may range over it repeatedly or concurrently.
func (s *Store) All() []Chunk {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Chunk, len(s.chunks))
	copy(out, s.chunks)
	return out
}

// Len returns the number of stored chunks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chunks)
}

// Freeze ends the ingest phase. Subsequent Add calls fail with ErrImmutable.
// Freeze is idempotent.
func (s *Store) Freeze() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frozen = true
}

// Frozen reports whether the store has been frozen.
func (s *Store) Frozen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frozen
}

// PageSize returns the extent of the given page, if known.
func (s *Store) PageSize(page int) (PageSize, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sz, ok := s.pages[page]
	return sz, ok
}
