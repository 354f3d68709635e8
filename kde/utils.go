package kde

import (
	"math"

	"github.com/uyouii/posterior-agreement/common"
	"gonum.org/v1/gonum/floats"
)

// Linspace returns num evenly spaced values over [start, stop], both ends
// included.
func Linspace(start, stop float64, num int) []float64 {
	if num < 2 {
		return []float64{start}
	}
	step := (stop - start) / float64(num-1)
	grid := make([]float64, num)
	for i := 0; i < num; i++ {
		grid[i] = start + float64(i)*step
	}
	grid[num-1] = stop
	return grid
}

func InitFull(n int, v float64) []float64 {
	res := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		res = append(res, v)
	}
	return res
}

// NormalizeWeights scales weights to sum to 1. Weights must be finite and
// non-negative with a positive sum.
func NormalizeWeights(weights []float64) ([]float64, error) {
	for _, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, common.ErrorInvalidValue
		}
	}
	sum := floats.Sum(weights)
	if !(sum > 0) || math.IsInf(sum, 0) {
		return nil, common.ErrorInvalidValue
	}
	res := make([]float64, len(weights))
	floats.ScaleTo(res, 1/sum, weights)
	return res, nil
}

// EffectiveSize is Kish's effective sample size of normalized weights.
func EffectiveSize(weights []float64) float64 {
	return 1 / floats.Dot(weights, weights)
}
