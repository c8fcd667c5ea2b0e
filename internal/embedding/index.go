package embedding

import (
	"context"
	"fmt"

	"workforce/internal/logging"
)

// Index is a flat in-memory vector index. Each vector is keyed by the caller's
// record identifier, so the history store and the index can never silently
// misalign: pairing is by ID, not by position.
//
// The index is mutated only by the single request-handling goroutine; it does
// no locking of its own.
type Index struct {
	engine  Engine
	ids     []string
	vectors [][]float32
}

// Hit is one nearest-neighbor query result.
type Hit struct {
	ID    string
	Score float64
}

// NewIndex creates an empty index backed by the given engine.
func NewIndex(engine Engine) *Index {
	return &Index{engine: engine}
}

// Add encodes text and appends the vector under the given id, returning the
// vector. Same text yields the same vector (encoder nondeterminism is treated
// as none).
func (ix *Index) Add(ctx context.Context, id, text string) ([]float32, error) {
	vec, err := ix.engine.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to encode text: %w", err)
	}

	ix.ids = append(ix.ids, id)
	ix.vectors = append(ix.vectors, vec)

	logging.EmbeddingDebug("Index.Add: id=%s dim=%d size=%d", id, len(vec), len(ix.ids))
	return vec, nil
}

// Put appends a previously computed vector under the given id. Used when
// reloading a persisted index.
func (ix *Index) Put(id string, vec []float32) {
	ix.ids = append(ix.ids, id)
	ix.vectors = append(ix.vectors, vec)
}

// Query encodes the query text and returns the top k stored vectors by cosine
// similarity, descending, ties in insertion order. k is clamped to the index
// size; querying an empty index returns an empty result without error.
func (ix *Index) Query(ctx context.Context, text string, k int) ([]Hit, error) {
	if len(ix.vectors) == 0 {
		return nil, nil
	}
	if k > len(ix.vectors) {
		k = len(ix.vectors)
	}

	queryVec, err := ix.engine.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	results, err := FindTopK(queryVec, ix.vectors, k)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, len(results))
	for i, r := range results {
		hits[i] = Hit{ID: ix.ids[r.Index], Score: r.Score}
	}
	return hits, nil
}

// Len returns the number of stored vectors.
func (ix *Index) Len() int {
	return len(ix.vectors)
}

// Dimensions returns the engine's embedding dimensionality.
func (ix *Index) Dimensions() int {
	return ix.engine.Dimensions()
}

// Clear empties the index.
func (ix *Index) Clear() {
	ix.ids = nil
	ix.vectors = nil
}

// Snapshot returns the stored ids and vectors for persistence. The returned
// slices alias internal state; callers must not mutate them.
func (ix *Index) Snapshot() ([]string, [][]float32) {
	return ix.ids, ix.vectors
}
