package kde

import (
	"math"
)

// BandWidth returns the factor the data covariance is scaled by (squared)
// to get the kernel covariance, given the effective sample size and the
// number of dimensions.
type BandWidth interface {
	Factor(neff float64, dim int) float64
}

// ScottBandWidth implements Scott's rule, neff^(-1/(d+4)).
//
// Scott, D. W. (1992) Multivariate Density Estimation: Theory,
// Practice, and Visualization.
type ScottBandWidth struct{}

func NewScottBandWidth() *ScottBandWidth {
	return &ScottBandWidth{}
}

func (bw *ScottBandWidth) Factor(neff float64, dim int) float64 {
	return math.Pow(neff, -1.0/float64(dim+4))
}

// SilvermanBandWidth implements Silverman's rule of thumb,
// (neff * (d + 2) / 4)^(-1/(d+4)).
//
// Silverman, B. W. (1986) Density Estimation.
type SilvermanBandWidth struct{}

func NewSilvermanBandWidth() *SilvermanBandWidth {
	return &SilvermanBandWidth{}
}

func (bw *SilvermanBandWidth) Factor(neff float64, dim int) float64 {
	return math.Pow(neff*float64(dim+2)/4.0, -1.0/float64(dim+4))
}

// FixedBandWidth ignores the sample and always returns the same factor.
type FixedBandWidth struct {
	factor float64
}

func NewFixedBandWidth(factor float64) *FixedBandWidth {
	return &FixedBandWidth{
		factor: factor,
	}
}

func (bw *FixedBandWidth) Factor(neff float64, dim int) float64 {
	return bw.factor
}
