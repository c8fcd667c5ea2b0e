package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	score, err := CosineSimilarity([]float32{1, 0}, []float32{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)

	score, err = CosineSimilarity([]float32{1, 0}, []float32{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, score, 1e-9)

	score, err = CosineSimilarity([]float32{1, 0}, []float32{-1, 0})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, score, 1e-9)
}

func TestCosineSimilarityDimensionMismatch(t *testing.T) {
	_, err := CosineSimilarity([]float32{1, 0}, []float32{1, 0, 0})
	require.Error(t, err)
}

func TestCosineSimilarityZeroVector(t *testing.T) {
	score, err := CosineSimilarity([]float32{0, 0}, []float32{1, 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestFindTopKOrdersByScore(t *testing.T) {
	corpus := [][]float32{
		{0, 1},       // orthogonal
		{1, 0},       // identical
		{0.7, 0.7},   // diagonal
		{-1, 0},      // opposite
	}
	results, err := FindTopK([]float32{1, 0}, corpus, 4)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, 1, results[0].Index)
	assert.Equal(t, 2, results[1].Index)
	assert.Equal(t, 0, results[2].Index)
	assert.Equal(t, 3, results[3].Index)
}

func TestFindTopKStableTies(t *testing.T) {
	// Three identical vectors tie exactly; insertion order must hold.
	corpus := [][]float32{{1, 0}, {1, 0}, {1, 0}}
	results, err := FindTopK([]float32{1, 0}, corpus, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 0, results[0].Index)
	assert.Equal(t, 1, results[1].Index)
	assert.Equal(t, 2, results[2].Index)
}

func TestFindTopKClampsAndEmpty(t *testing.T) {
	results, err := FindTopK([]float32{1, 0}, nil, 5)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = FindTopK([]float32{1, 0}, [][]float32{{1, 0}}, 5)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = FindTopK([]float32{1, 0}, [][]float32{{1, 0}}, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindTopKSkipsMismatchedDimensions(t *testing.T) {
	corpus := [][]float32{{1, 0}, {1, 0, 0}, {0, 1}}
	results, err := FindTopK([]float32{1, 0}, corpus, 3)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].Index)
	assert.Equal(t, 2, results[1].Index)
}

// indexEngine embeds each rune count deterministically.
type indexEngine struct{}

func (indexEngine) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, 3)
	for i, r := range text {
		vec[i%3] += float32(r)
	}
	return vec, nil
}
func (indexEngine) Dimensions() int { return 3 }
func (indexEngine) Name() string    { return "index-test" }

func TestIndexAddAndQuery(t *testing.T) {
	ix := NewIndex(indexEngine{})
	ctx := context.Background()

	vec, err := ix.Add(ctx, "a", "hello world")
	require.NoError(t, err)
	assert.Len(t, vec, 3)
	_, err = ix.Add(ctx, "b", "completely different text")
	require.NoError(t, err)
	assert.Equal(t, 2, ix.Len())

	hits, err := ix.Query(ctx, "hello world", 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
}

func TestIndexQueryEmpty(t *testing.T) {
	ix := NewIndex(indexEngine{})
	hits, err := ix.Query(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Nil(t, hits)
}

func TestIndexClearAndSnapshot(t *testing.T) {
	ix := NewIndex(indexEngine{})
	ctx := context.Background()

	_, err := ix.Add(ctx, "a", "one")
	require.NoError(t, err)
	ix.Put("b", []float32{1, 2, 3})

	ids, vectors := ix.Snapshot()
	assert.Equal(t, []string{"a", "b"}, ids)
	assert.Len(t, vectors, 2)

	ix.Clear()
	assert.Equal(t, 0, ix.Len())
}
