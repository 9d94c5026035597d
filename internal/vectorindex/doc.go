// Package vectorindex provides nearest-neighbor search over fixed-length
// chunk embeddings.
//
// Two providers implement the Index interface:
//
//   - flat: an exact in-memory index. Vectors are L2-normalized at insert
//     time so cosine similarity reduces to a dot product, keeping scores
//     bounded in [-1,1] for the confidence scorer. Ties break by ascending
//     chunk ID for reproducible results. Supports gob snapshots.
//
//   - chromem: an embedded persistent backend built on chromem-go. Ordering
//     of exact score ties is backend-defined.
//
// Neither provider supports deletion; rebuilding from the chunk store is
// the sanctioned way to remove entries.
package vectorindex
