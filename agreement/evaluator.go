package agreement

import (
	"context"
	"math"
	"runtime"

	"github.com/uyouii/posterior-agreement/common"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"
)

// Density is a fitted density that can be evaluated concurrently.
type Density interface {
	Dim() int
	Evaluate(x []float64) float64
}

// gridSums holds the sum of the density over (part of) the grid and the
// sum restricted to the points less likely than the origin.
type gridSums struct {
	level      float64
	total      float64
	restricted float64
}

// PTE is the share of the grid mass that lies below the origin level.
func (s gridSums) PTE() float64 {
	return math.Min(math.Max(s.restricted/s.total, 0), 1)
}

// evaluate sums density over the grid. The grid is cut in chunks of
// gridChunkSize points that are evaluated on up to workers goroutines; the
// chunk sums are added up in chunk order, so the result doesn't depend on
// scheduling.
func evaluate(ctx context.Context, density Density, grid *Grid, workers int) (gridSums, error) {
	nDim := grid.Dim()
	if density.Dim() != nDim {
		return gridSums{}, &common.DimensionMismatchError{Dim0: density.Dim(), Dim1: nDim}
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	level := density.Evaluate(make([]float64, nDim))

	nChunks := (grid.Len() + gridChunkSize - 1) / gridChunkSize
	partials := make([]gridSums, nChunks)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for c := 0; c < nChunks; c++ {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			start := c * gridChunkSize
			end := min(start+gridChunkSize, grid.Len())

			point := make([]float64, nDim)
			var sums gridSums
			for k := start; k < end; k++ {
				v := density.Evaluate(grid.Point(k, point))
				sums.total += v
				if v < level {
					sums.restricted += v
				}
			}
			partials[c] = sums
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return gridSums{}, err
	}
	if err := ctx.Err(); err != nil {
		return gridSums{}, err
	}

	res := gridSums{level: level}
	for _, p := range partials {
		res.total += p.total
		res.restricted += p.restricted
	}

	if !(res.total > 0) || math.IsInf(res.total, 0) {
		return gridSums{}, &common.DegenerateSampleError{
			Dim:    nDim,
			Reason: "density vanishes on the evaluation grid",
		}
	}
	return res, nil
}

// Sigma converts a two sided probability to exceed into the equivalent
// number of standard deviations of a normal distribution, i.e. z with
// P(|Z| > z) = pte. pte = 0 gives +Inf.
func Sigma(pte float64) float64 {
	if pte <= 0 {
		return math.Inf(1)
	}
	if pte >= 1 {
		return 0
	}
	return -distuv.UnitNormal.Quantile(pte / 2)
}
