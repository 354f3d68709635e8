package kde

import (
	"fmt"
	"math"

	"github.com/uyouii/posterior-agreement/common"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// KDE is a gaussian kernel density estimate over d-dimensional samples,
// optionally weighted. It is fitted once in New and never changes after
// that, so Evaluate may be called from many goroutines.
type KDE struct {
	dim int
	n   int

	// normalized weights, uniform when the sample is unweighted
	weights  []float64
	weighted bool

	neff   float64
	factor float64

	mean    []float64
	dataCov *mat.SymDense
	cov     *mat.SymDense

	kernel *GaussianKernel
}

// New fits a KDE to samples, one row per sample and one column per
// dimension. weights may be nil. A nil bw uses Scott's rule.
func New(samples *mat.Dense, weights []float64, bw BandWidth) (*KDE, error) {
	if samples == nil || samples.IsEmpty() {
		return nil, fmt.Errorf("empty sample: %w", common.ErrorInvalidValue)
	}
	n, dim := samples.Dims()
	if n < 2 {
		return nil, &common.DegenerateSampleError{
			Dim:    dim,
			Reason: fmt.Sprintf("need at least 2 samples, got %d", n),
		}
	}

	if bw == nil {
		bw = NewScottBandWidth()
	}

	weighted := len(weights) > 0
	var norm []float64
	if weighted {
		if len(weights) != n {
			return nil, fmt.Errorf("%d weights for %d samples: %w", len(weights), n, common.ErrorInvalidValue)
		}
		var err error
		norm, err = NormalizeWeights(weights)
		if err != nil {
			return nil, fmt.Errorf("normalize weights: %w", err)
		}
	} else {
		norm = InitFull(n, 1/float64(n))
	}

	neff := float64(n)
	if weighted {
		neff = EffectiveSize(norm)
	}

	factor := bw.Factor(neff, dim)
	if !(factor > 0) || math.IsInf(factor, 0) {
		return nil, fmt.Errorf("bandwidth factor %v: %w", factor, common.ErrorInvalidValue)
	}

	dataCov := covariance(samples, norm, neff, weighted)
	if err := checkCovariance(dataCov); err != nil {
		return nil, err
	}

	cov := mat.NewSymDense(dim, nil)
	cov.ScaleSym(factor*factor, dataCov)

	kernel, err := NewGaussianKernel(samples, norm, cov)
	if err != nil {
		return nil, err
	}

	mean := make([]float64, dim)
	col := make([]float64, n)
	for j := 0; j < dim; j++ {
		mat.Col(col, j, samples)
		if weighted {
			mean[j] = stat.Mean(col, norm)
		} else {
			mean[j] = stat.Mean(col, nil)
		}
	}

	return &KDE{
		dim:      dim,
		n:        n,
		weights:  norm,
		weighted: weighted,
		neff:     neff,
		factor:   factor,
		mean:     mean,
		dataCov:  dataCov,
		cov:      cov,
		kernel:   kernel,
	}, nil
}

// covariance returns the sample covariance. Weighted samples use the
// reliability weight normalization sum(w (x-m)(x-m)^T) / (1 - sum(w^2)).
// gonum divides by sum(w) - 1, so the normalized weights are scaled by neff
// first, which turns one into the other.
func covariance(samples *mat.Dense, weights []float64, neff float64, weighted bool) *mat.SymDense {
	var cov mat.SymDense
	if !weighted {
		stat.CovarianceMatrix(&cov, samples, nil)
		return &cov
	}
	scaled := make([]float64, len(weights))
	floats.ScaleTo(scaled, neff, weights)
	stat.CovarianceMatrix(&cov, samples, scaled)
	return &cov
}

// checkCovariance rejects covariance matrices the kernel can't be built on:
// a dimension without spread, or dimensions that are (close to) linearly
// dependent. The check runs on the correlation matrix so badly scaled but
// otherwise fine parameters are accepted.
func checkCovariance(cov *mat.SymDense) error {
	dim := cov.SymmetricDim()

	stds := make([]float64, dim)
	for i := 0; i < dim; i++ {
		v := cov.At(i, i)
		if !(v > 0) || math.IsInf(v, 0) {
			return &common.DegenerateSampleError{
				Dim:    dim,
				Reason: fmt.Sprintf("variance %v in dimension %d", v, i),
			}
		}
		stds[i] = math.Sqrt(v)
	}
	if dim == 1 {
		return nil
	}

	corr := mat.NewSymDense(dim, nil)
	for i := 0; i < dim; i++ {
		for j := i; j < dim; j++ {
			corr.SetSym(i, j, cov.At(i, j)/(stds[i]*stds[j]))
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(corr); !ok {
		return &common.DegenerateSampleError{
			Dim:    dim,
			Reason: "covariance matrix is singular",
		}
	}
	if cond := chol.Cond(); cond > MaxCondition || math.IsNaN(cond) {
		return &common.DegenerateSampleError{
			Dim:    dim,
			Reason: fmt.Sprintf("covariance matrix is ill-conditioned, cond %g", cond),
		}
	}
	return nil
}

// Evaluate returns the density at x.
func (k *KDE) Evaluate(x []float64) float64 {
	return k.kernel.Density(x)
}

// EvaluateAll returns the density at every point.
func (k *KDE) EvaluateAll(points [][]float64) []float64 {
	return k.kernel.DensityEach(points)
}

func (k *KDE) Dim() int {
	return k.dim
}

func (k *KDE) Len() int {
	return k.n
}

func (k *KDE) Weighted() bool {
	return k.weighted
}

// NEff is the effective sample size, n for unweighted samples.
func (k *KDE) NEff() float64 {
	return k.neff
}

// Factor is the bandwidth factor the data covariance was scaled by.
func (k *KDE) Factor() float64 {
	return k.factor
}

// Mean returns the (weighted) sample mean.
func (k *KDE) Mean() []float64 {
	res := make([]float64, len(k.mean))
	copy(res, k.mean)
	return res
}

// DataCovariance returns a copy of the sample covariance.
func (k *KDE) DataCovariance() *mat.SymDense {
	res := mat.NewSymDense(k.dim, nil)
	res.CopySym(k.dataCov)
	return res
}

// Covariance returns a copy of the kernel covariance.
func (k *KDE) Covariance() *mat.SymDense {
	res := mat.NewSymDense(k.dim, nil)
	res.CopySym(k.cov)
	return res
}
