package model

import (
	"fmt"
	"math"
)

// Chain is the sample set of one posterior. Points holds one row per sample
// and one column per dimension. Weights is optional, nil means every sample
// counts the same.
type Chain struct {
	Points  [][]float64
	Weights []float64
}

// NewChain1D wraps a flat sequence as a single column chain.
func NewChain1D(xs []float64, weights []float64) Chain {
	points := make([][]float64, len(xs))
	for i, x := range xs {
		points[i] = []float64{x}
	}
	return Chain{
		Points:  points,
		Weights: weights,
	}
}

func (c Chain) Len() int {
	return len(c.Points)
}

// Dim returns the column count of the first sample, 0 for an empty chain.
func (c Chain) Dim() int {
	if len(c.Points) == 0 {
		return 0
	}
	return len(c.Points[0])
}

func (c Chain) Weighted() bool {
	return c.Weights != nil
}

// Agreement is the outcome of one agreement computation.
type Agreement struct {
	PTE   float64 `json:"pte" yaml:"pte"`
	Sigma float64 `json:"sigma" yaml:"sigma"`
	NDim  int     `json:"ndim" yaml:"ndim"`

	// density at the origin
	Level float64 `json:"level" yaml:"level"`
	// grid sums, PTE = Restricted / Total
	Total      float64 `json:"total" yaml:"total"`
	Restricted float64 `json:"restricted" yaml:"restricted"`

	// statistics of the difference distribution
	Mean []float64 `json:"mean,omitempty" yaml:"mean,omitempty"`
	XMin []float64 `json:"xmin,omitempty" yaml:"xmin,omitempty"`
	XMax []float64 `json:"xmax,omitempty" yaml:"xmax,omitempty"`

	BandwidthFactor float64 `json:"bandwidth_factor" yaml:"bandwidth_factor"`
	NEff            float64 `json:"neff" yaml:"neff"`
	Seed            int64   `json:"seed" yaml:"seed"`
}

// Infinite reports whether the origin lies outside all of the estimated mass.
func (a *Agreement) Infinite() bool {
	return a != nil && math.IsInf(a.Sigma, 1)
}

func (a *Agreement) DebugString() string {
	if a == nil {
		return "<nil>"
	}
	return fmt.Sprintf("ndim: %d, pte: %g, sigma: %g, level: %g", a.NDim, a.PTE, a.Sigma, a.Level)
}

// SeedScan summarizes repeated computations over different random seeds.
type SeedScan struct {
	Results []*Agreement `json:"results" yaml:"results"`

	MeanPTE   float64 `json:"mean_pte" yaml:"mean_pte"`
	StdDevPTE float64 `json:"stddev_pte" yaml:"stddev_pte"`
	MedianPTE float64 `json:"median_pte" yaml:"median_pte"`
	MinPTE    float64 `json:"min_pte" yaml:"min_pte"`
	MaxPTE    float64 `json:"max_pte" yaml:"max_pte"`

	// sigma of MeanPTE
	MeanSigma float64 `json:"mean_sigma" yaml:"mean_sigma"`
}

func (s *SeedScan) PTEs() []float64 {
	if s == nil {
		return nil
	}
	res := make([]float64, 0, len(s.Results))
	for _, r := range s.Results {
		res = append(res, r.PTE)
	}
	return res
}
