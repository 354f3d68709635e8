package agreement

import (
	"fmt"
	"math"

	"github.com/uyouii/posterior-agreement/common"
	"github.com/uyouii/posterior-agreement/kde"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Grid is the regular grid the density is summed over: the cartesian
// product of one inclusive linspace per dimension. Points are decoded from
// their flat index on demand, the last axis varying fastest, so the grid
// itself is never stored.
type Grid struct {
	axes [][]float64
	size int
}

// NewGrid spans nBins points per axis from the smallest to the largest
// value of each column of samples.
func NewGrid(samples mat.Matrix, nBins int) (*Grid, error) {
	xmin, xmax := columnRanges(samples)
	return NewGridFromRanges(xmin, xmax, nBins)
}

func NewGridFromRanges(xmin, xmax []float64, nBins int) (*Grid, error) {
	nDim := len(xmin)
	if len(xmax) != nDim {
		return nil, fmt.Errorf("%d lower and %d upper bounds: %w", nDim, len(xmax), common.ErrorInvalidValue)
	}
	if nDim < 1 || nDim > MaxDim {
		return nil, &common.UnsupportedDimensionError{Dim: nDim, Max: MaxDim}
	}
	if nBins < 1 {
		return nil, fmt.Errorf("nBins %d: %w", nBins, common.ErrorInvalidValue)
	}

	size := 1
	for i := 0; i < nDim; i++ {
		if size > math.MaxInt/nBins {
			return nil, fmt.Errorf("%d^%d grid points overflow: %w", nBins, nDim, common.ErrorInvalidValue)
		}
		size *= nBins
	}

	axes := make([][]float64, nDim)
	for i := range axes {
		axes[i] = kde.Linspace(xmin[i], xmax[i], nBins)
	}

	return &Grid{
		axes: axes,
		size: size,
	}, nil
}

func (g *Grid) Dim() int {
	return len(g.axes)
}

// Len is the number of grid points.
func (g *Grid) Len() int {
	return g.size
}

func (g *Grid) Axis(i int) []float64 {
	return g.axes[i]
}

// Point writes the coordinates of grid point k into dst, allocating it if
// it is too short, and returns it.
func (g *Grid) Point(k int, dst []float64) []float64 {
	if len(dst) < len(g.axes) {
		dst = make([]float64, len(g.axes))
	}
	for i := len(g.axes) - 1; i >= 0; i-- {
		axis := g.axes[i]
		dst[i] = axis[k%len(axis)]
		k /= len(axis)
	}
	return dst[:len(g.axes)]
}

// columnRanges returns the per column minimum and maximum.
func columnRanges(samples mat.Matrix) ([]float64, []float64) {
	r, c := samples.Dims()
	xmin, xmax := make([]float64, c), make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, samples)
		xmin[j] = floats.Min(col)
		xmax[j] = floats.Max(col)
	}
	return xmin, xmax
}
