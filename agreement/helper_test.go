package agreement

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uyouii/posterior-agreement/model"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

func gaussianChain(seed uint64, n int, mu, sigma float64) model.Chain {
	normal := distuv.Normal{Mu: mu, Sigma: sigma, Src: rand.NewSource(seed)}
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = normal.Rand()
	}
	return model.NewChain1D(xs, nil)
}

func gaussianChainND(t *testing.T, seed uint64, n int, mu []float64, sigma *mat.SymDense) model.Chain {
	t.Helper()
	normal, ok := distmv.NewNormal(mu, sigma, rand.NewSource(seed))
	require.True(t, ok)
	points := make([][]float64, n)
	for i := range points {
		points[i] = normal.Rand(nil)
	}
	return model.Chain{Points: points}
}

func identity(dim int) *mat.SymDense {
	res := mat.NewSymDense(dim, nil)
	for i := 0; i < dim; i++ {
		res.SetSym(i, i, 1)
	}
	return res
}

func sequencePoints(n, dim int, v float64) [][]float64 {
	points := make([][]float64, n)
	for i := range points {
		points[i] = make([]float64, dim)
		for j := range points[i] {
			points[i][j] = v + float64(i*dim+j)
		}
	}
	return points
}

func withWeights(c model.Chain, w float64) model.Chain {
	weights := make([]float64, c.Len())
	for i := range weights {
		weights[i] = w
	}
	return model.Chain{Points: c.Points, Weights: weights}
}
