package agreement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/posterior-agreement/model"
	"gonum.org/v1/gonum/mat"
)

func TestDrawIndicesReproducible(t *testing.T) {
	a := drawIndices(newRand(42), 10, 1000)
	b := drawIndices(newRand(42), 10, 1000)
	c := drawIndices(newRand(43), 10, 1000)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	counts := make([]int, 10)
	for _, i := range a {
		require.GreaterOrEqual(t, i, 0)
		require.Less(t, i, 10)
		counts[i]++
	}
	for _, cnt := range counts {
		assert.Greater(t, cnt, 50)
	}
}

func TestDrawDifferences(t *testing.T) {
	chain0 := model.NewChain1D([]float64{100, 200, 300}, nil)
	chain1 := model.NewChain1D([]float64{1, 2, 3}, nil)
	pair, err := validate(chain0, chain1)
	require.NoError(t, err)

	diffs, weights := drawDifferences(pair, 2000, 42)
	assert.Nil(t, weights)

	rows, cols := diffs.Dims()
	assert.Equal(t, 2000, rows)
	assert.Equal(t, 1, cols)

	seen := map[float64]int{}
	for k := 0; k < rows; k++ {
		seen[diffs.At(k, 0)]++
	}
	// every one of the 9 pairs shows up, and nothing else
	assert.Len(t, seen, 9)
	for a := 100.0; a <= 300; a += 100 {
		for b := 1.0; b <= 3; b++ {
			assert.Greater(t, seen[a-b], 100, "%v - %v", a, b)
		}
	}

	again, _ := drawDifferences(pair, 2000, 42)
	assert.True(t, mat.Equal(diffs, again))

	other, _ := drawDifferences(pair, 2000, 1)
	assert.False(t, mat.Equal(diffs, other))
}

func TestDrawDifferencesMultivariate(t *testing.T) {
	chain0 := model.Chain{Points: [][]float64{{1, 10}, {2, 20}}}
	chain1 := model.Chain{Points: [][]float64{{0.5, 5}}}
	pair, err := validate(chain0, chain1)
	require.NoError(t, err)

	diffs, _ := drawDifferences(pair, 100, 7)
	for k := 0; k < 100; k++ {
		row := diffs.RawRowView(k)
		// the same source row is used for every column
		assert.Contains(t, [][]float64{{0.5, 5}, {1.5, 15}}, []float64{row[0], row[1]})
	}
}

func TestDrawDifferencesWeights(t *testing.T) {
	chain0 := model.NewChain1D([]float64{1, 2, 3}, []float64{3, 3, 3})
	chain1 := model.NewChain1D([]float64{4, 5}, []float64{4, 4})
	pair, err := validate(chain0, chain1)
	require.NoError(t, err)

	_, weights := drawDifferences(pair, 500, 42)
	require.Len(t, weights, 500)
	for _, w := range weights {
		assert.InDelta(t, 5.0, w, 1e-15)
	}
}
