package scoring

import (
	"fmt"
	"math"
	"sort"
)

const topKChunks = 3

// CosineSimilarity returns the cosine of the angle between two vectors.
// A zero vector on either side yields 0. Vectors of different length are an
// error, not a panic.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("dimensionality mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// EmbeddingSimilarity scores how well resume chunks cover the job description
// chunks. For every resume chunk it takes the mean of its top-k cosine
// similarities against the JD chunks (k = min(3, number of JD chunks)),
// averages over all resume chunks, and maps the result from [-1,1] to [0,1].
// Either side empty yields 0.
func EmbeddingSimilarity(resumeVecs, jdVecs [][]float32) (float64, error) {
	if len(resumeVecs) == 0 || len(jdVecs) == 0 {
		return 0, nil
	}

	k := topKChunks
	if len(jdVecs) < k {
		k = len(jdVecs)
	}

	var sum float64
	for _, rv := range resumeVecs {
		sims := make([]float64, 0, len(jdVecs))
		for _, jv := range jdVecs {
			sim, err := CosineSimilarity(rv, jv)
			if err != nil {
				return 0, err
			}
			sims = append(sims, sim)
		}

		sort.Sort(sort.Reverse(sort.Float64Slice(sims)))
		for _, sim := range sims[:k] {
			sum += sim
		}
	}

	mean := sum / float64(len(resumeVecs)*k)
	return (mean + 1) / 2, nil
}
