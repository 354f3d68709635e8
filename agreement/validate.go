package agreement

import (
	"fmt"
	"math"

	"github.com/uyouii/posterior-agreement/common"
	"github.com/uyouii/posterior-agreement/model"
	"gonum.org/v1/gonum/mat"
)

// chainPair is a validated pair of chains, one row per sample.
type chainPair struct {
	chains  [2]*mat.Dense
	weights [2][]float64
	nDim    int
}

func (p *chainPair) weighted() bool {
	return p.weights[0] != nil
}

// validate checks the two chains against each other and converts them to
// matrices. The dimension is checked first so an unsupported dimension is
// reported before any sampling work happens.
func validate(chain0, chain1 model.Chain) (*chainPair, error) {
	chains := [2]model.Chain{chain0, chain1}

	var dims [2]int
	for i, c := range chains {
		dim, err := chainDim(i, c)
		if err != nil {
			return nil, err
		}
		dims[i] = dim
	}

	if dims[0] != dims[1] {
		return nil, &common.DimensionMismatchError{Dim0: dims[0], Dim1: dims[1]}
	}
	nDim := dims[0]
	if nDim < 1 || nDim > MaxDim {
		return nil, &common.UnsupportedDimensionError{Dim: nDim, Max: MaxDim}
	}

	if chain0.Weighted() != chain1.Weighted() {
		partial := 0
		if chain1.Weighted() {
			partial = 1
		}
		return nil, &common.WeightLengthMismatchError{Chain: partial, Partial: true}
	}

	pair := &chainPair{nDim: nDim}
	for i, c := range chains {
		if c.Weighted() {
			if err := checkWeights(i, c); err != nil {
				return nil, err
			}
			pair.weights[i] = c.Weights
		}

		data := make([]float64, 0, c.Len()*nDim)
		for j, point := range c.Points {
			for _, v := range point {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return nil, fmt.Errorf("chain[%d] sample %d is not finite: %w", i, j, common.ErrorInvalidValue)
				}
			}
			data = append(data, point...)
		}
		pair.chains[i] = mat.NewDense(c.Len(), nDim, data)
	}

	return pair, nil
}

// chainDim returns the column count shared by every sample of the chain.
func chainDim(i int, c model.Chain) (int, error) {
	if c.Len() == 0 {
		return 0, fmt.Errorf("chain[%d] is empty: %w", i, common.ErrorInvalidValue)
	}
	dim := c.Dim()
	for j, point := range c.Points {
		if len(point) != dim {
			return 0, fmt.Errorf("chain[%d] sample %d has %d values, expected %d: %w",
				i, j, len(point), dim, common.ErrorInvalidValue)
		}
	}
	return dim, nil
}

func checkWeights(i int, c model.Chain) error {
	if len(c.Weights) != c.Len() {
		return &common.WeightLengthMismatchError{Chain: i, Weights: len(c.Weights), Samples: c.Len()}
	}
	var sum float64
	for j, w := range c.Weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("chain[%d] weight %d is %v: %w", i, j, w, common.ErrorInvalidValue)
		}
		sum += w
	}
	if sum == 0 {
		return fmt.Errorf("chain[%d] weights are all zero: %w", i, common.ErrorInvalidValue)
	}
	return nil
}
