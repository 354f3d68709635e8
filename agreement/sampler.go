package agreement

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// newRand returns a generator owned by a single computation.
func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(uint64(seed)))
}

// drawIndices draws n indices in [0, size) uniformly with replacement.
func drawIndices(rng *rand.Rand, size, n int) []int {
	res := make([]int, n)
	for i := range res {
		res[i] = rng.Intn(size)
	}
	return res
}

// drawDifferences pairs nSamples random samples of chain 0 with nSamples
// random samples of chain 1 and returns chain0[i] - chain1[j], one row per
// draw. All indices of chain 0 are drawn before those of chain 1. For
// weighted chains every row gets the weight sqrt(w0[i]^2 + w1[j]^2),
// otherwise the returned weights are nil.
func drawDifferences(pair *chainPair, nSamples int, seed int64) (*mat.Dense, []float64) {
	rng := newRand(seed)

	n0, _ := pair.chains[0].Dims()
	n1, _ := pair.chains[1].Dims()
	idx0 := drawIndices(rng, n0, nSamples)
	idx1 := drawIndices(rng, n1, nSamples)

	diffs := mat.NewDense(nSamples, pair.nDim, nil)
	for k := 0; k < nSamples; k++ {
		a := pair.chains[0].RawRowView(idx0[k])
		b := pair.chains[1].RawRowView(idx1[k])
		row := diffs.RawRowView(k)
		for j := range row {
			row[j] = a[j] - b[j]
		}
	}

	if !pair.weighted() {
		return diffs, nil
	}

	weights := make([]float64, nSamples)
	for k := range weights {
		weights[k] = math.Hypot(pair.weights[0][idx0[k]], pair.weights[1][idx1[k]])
	}
	return diffs, weights
}
