package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarityIdentical(t *testing.T) {
	v := []float32{0.5, 0.5, 0.1}

	sim, err := CosineSimilarity(v, v)

	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func TestCosineSimilaritySymmetric(t *testing.T) {
	a := []float32{1, 2, 3, 4}
	b := []float32{-2, 0.5, 7, 1}

	ab, err := CosineSimilarity(a, b)
	require.NoError(t, err)

	ba, err := CosineSimilarity(b, a)
	require.NoError(t, err)

	assert.InDelta(t, ab, ba, 1e-12)
}

func TestCosineSimilarityOrthogonal(t *testing.T) {
	sim, err := CosineSimilarity([]float32{1, 0}, []float32{0, 1})

	require.NoError(t, err)
	assert.InDelta(t, 0, sim, 1e-9)
}

func TestCosineSimilarityZeroVector(t *testing.T) {
	sim, err := CosineSimilarity([]float32{0, 0}, []float32{1, 1})

	require.NoError(t, err)
	assert.Equal(t, 0.0, sim)
}

func TestCosineSimilarityDimensionMismatch(t *testing.T) {
	_, err := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3})

	assert.Error(t, err)
}

func TestEmbeddingSimilarityEmptySides(t *testing.T) {
	vecs := [][]float32{{1, 0}}

	score, err := EmbeddingSimilarity(nil, vecs)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)

	score, err = EmbeddingSimilarity(vecs, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestEmbeddingSimilarityIdenticalChunks(t *testing.T) {
	vecs := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
	}

	score, err := EmbeddingSimilarity(vecs, vecs)

	require.NoError(t, err)
	// each resume chunk matches itself perfectly and its sibling not at all:
	// per-chunk top-2 mean is 0.5, mapped to (0.5+1)/2
	assert.InDelta(t, 0.75, score, 1e-9)
}

func TestEmbeddingSimilaritySingleMatch(t *testing.T) {
	resume := [][]float32{{1, 0}}
	jd := [][]float32{{1, 0}}

	score, err := EmbeddingSimilarity(resume, jd)

	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestEmbeddingSimilarityTopKSelectsBest(t *testing.T) {
	resume := [][]float32{{1, 0}}
	// four JD chunks, only the top 3 count: the worst match is dropped
	jd := [][]float32{
		{1, 0},
		{1, 0},
		{1, 0},
		{-1, 0},
	}

	score, err := EmbeddingSimilarity(resume, jd)

	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestEmbeddingSimilarityDimensionMismatch(t *testing.T) {
	_, err := EmbeddingSimilarity([][]float32{{1, 0}}, [][]float32{{1, 0, 0}})

	assert.Error(t, err)
}
