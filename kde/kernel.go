package kde

import (
	"math"

	"github.com/uyouii/posterior-agreement/common"
	"gonum.org/v1/gonum/mat"
)

// GaussianKernel is a multivariate normal kernel with a full covariance
// matrix, placed on every sample.
//
// With cov = L L^T the samples are stored whitened (L^-1 x_i), so a density
// evaluation only needs one triangular product for the query point and a
// squared euclidean distance per sample.
type GaussianKernel struct {
	dim      int
	whitened []float64 // row major, len(weights) rows of dim values
	weights  []float64 // sum to 1
	linv     []float64 // row major L^-1, lower triangular
	norm     float64   // (2 pi)^(d/2) * det(L)
}

func NewGaussianKernel(samples mat.Matrix, weights []float64, cov mat.Symmetric) (*GaussianKernel, error) {
	dim := cov.SymmetricDim()
	n, c := samples.Dims()
	if c != dim || n != len(weights) {
		return nil, common.ErrorInvalidValue
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(cov); !ok {
		return nil, &common.DegenerateSampleError{
			Dim:    dim,
			Reason: "kernel covariance is not positive definite",
		}
	}

	var l, linv mat.TriDense
	chol.LTo(&l)
	if err := linv.InverseTri(&l); err != nil {
		return nil, &common.DegenerateSampleError{
			Dim:    dim,
			Reason: err.Error(),
		}
	}

	var z mat.Dense
	z.Mul(samples, linv.T())

	whitened := make([]float64, 0, n*dim)
	for i := 0; i < n; i++ {
		whitened = append(whitened, z.RawRowView(i)...)
	}

	linvFlat := make([]float64, dim*dim)
	for i := 0; i < dim; i++ {
		for j := 0; j <= i; j++ {
			linvFlat[i*dim+j] = linv.At(i, j)
		}
	}

	norm := math.Pow(2*math.Pi, float64(dim)/2.0) * math.Exp(0.5*chol.LogDet())

	return &GaussianKernel{
		dim:      dim,
		whitened: whitened,
		weights:  weights,
		linv:     linvFlat,
		norm:     norm,
	}, nil
}

// Shape is the unnormalized kernel at squared mahalanobis distance r2.
func (k *GaussianKernel) Shape(r2 float64) float64 {
	return math.Exp(-r2 / 2.0)
}

func (k *GaussianKernel) whiten(x []float64) []float64 {
	z := make([]float64, k.dim)
	for i := 0; i < k.dim; i++ {
		row := k.linv[i*k.dim : i*k.dim+i+1]
		var sum float64
		for j, v := range row {
			sum += v * x[j]
		}
		z[i] = sum
	}
	return z
}

// Density evaluates the weighted kernel sum at x. x must have dim values.
func (k *GaussianKernel) Density(x []float64) float64 {
	if len(x) != k.dim {
		return math.NaN()
	}

	z := k.whiten(x)

	var sum float64
	for i, w := range k.weights {
		row := k.whitened[i*k.dim : (i+1)*k.dim]
		var r2 float64
		for j, zj := range z {
			diff := zj - row[j]
			r2 += diff * diff
		}
		sum += w * k.Shape(r2)
	}
	return sum / k.norm
}

// DensityEach evaluates Density at every point.
func (k *GaussianKernel) DensityEach(points [][]float64) []float64 {
	res := make([]float64, len(points))
	for i, p := range points {
		res[i] = k.Density(p)
	}
	return res
}
