package agreement

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/posterior-agreement/common"
	"github.com/uyouii/posterior-agreement/kde"
	"gonum.org/v1/gonum/mat"
)

type funcDensity struct {
	dim int
	f   func(x []float64) float64
}

func (d funcDensity) Dim() int {
	return d.dim
}

func (d funcDensity) Evaluate(x []float64) float64 {
	return d.f(x)
}

func TestEvaluateTiesAreNotRestricted(t *testing.T) {
	grid, err := NewGridFromRanges([]float64{-2}, []float64{2}, 5)
	require.NoError(t, err)

	density := funcDensity{dim: 1, f: func(x []float64) float64 {
		return math.Exp(-(x[0] - 0.5) * (x[0] - 0.5))
	}}
	sums, err := evaluate(context.Background(), density, grid, 2)
	require.NoError(t, err)

	// grid -2..2, level exp(-0.25) at 0; the point at 1 has the same value
	// and must not count as less likely
	restricted := math.Exp(-6.25) + math.Exp(-2.25) + math.Exp(-2.25)
	total := restricted + 2*math.Exp(-0.25)
	assert.Equal(t, math.Exp(-0.25), sums.level)
	assert.InDelta(t, restricted, sums.restricted, 1e-12)
	assert.InDelta(t, total, sums.total, 1e-12)
	assert.InDelta(t, restricted/total, sums.PTE(), 1e-12)
}

func TestEvaluateFlatDensity(t *testing.T) {
	grid, err := NewGridFromRanges([]float64{-1, -1}, []float64{1, 1}, 10)
	require.NoError(t, err)

	density := funcDensity{dim: 2, f: func(x []float64) float64 { return 0.25 }}
	sums, err := evaluate(context.Background(), density, grid, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, sums.PTE())
	assert.InDelta(t, 25.0, sums.total, 1e-12)
	assert.True(t, math.IsInf(Sigma(sums.PTE()), 1))
}

func TestEvaluateVanishingDensity(t *testing.T) {
	grid, err := NewGridFromRanges([]float64{-1}, []float64{1}, 10)
	require.NoError(t, err)

	density := funcDensity{dim: 1, f: func(x []float64) float64 { return 0 }}
	_, err = evaluate(context.Background(), density, grid, 1)
	assert.ErrorIs(t, err, common.ErrorDegenerateSample)
}

func TestEvaluateDimensionMismatch(t *testing.T) {
	grid, err := NewGridFromRanges([]float64{-1}, []float64{1}, 10)
	require.NoError(t, err)

	density := funcDensity{dim: 2, f: func(x []float64) float64 { return 1 }}
	_, err = evaluate(context.Background(), density, grid, 1)
	assert.ErrorIs(t, err, common.ErrorDimensionMismatch)
}

func TestEvaluateWorkersDoNotChangeResult(t *testing.T) {
	chain := gaussianChainND(t, 21, 400, []float64{0.3, -0.2}, identity(2))
	samples := mat.NewDense(chain.Len(), 2, nil)
	for i, p := range chain.Points {
		samples.SetRow(i, p)
	}
	density, err := kde.New(samples, nil, nil)
	require.NoError(t, err)

	// more than one chunk of points
	grid, err := NewGrid(samples, 40)
	require.NoError(t, err)
	require.Greater(t, grid.Len(), gridChunkSize)

	one, err := evaluate(context.Background(), density, grid, 1)
	require.NoError(t, err)
	many, err := evaluate(context.Background(), density, grid, 8)
	require.NoError(t, err)
	assert.Equal(t, one, many)
	assert.Greater(t, one.restricted, 0.0)
}

func TestEvaluateCanceled(t *testing.T) {
	grid, err := NewGridFromRanges([]float64{-1}, []float64{1}, 5000)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	density := funcDensity{dim: 1, f: func(x []float64) float64 { return 1 }}
	_, err = evaluate(ctx, density, grid, 2)
	assert.ErrorIs(t, err, context.Canceled)
}
