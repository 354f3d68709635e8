package common

import (
	"errors"
	"fmt"
)

var (
	ErrorInvalidValue         = errors.New("invalid value")
	ErrorDimensionMismatch    = errors.New("dimension mismatch")
	ErrorWeightLengthMismatch = errors.New("weight length mismatch")
	ErrorUnsupportedDimension = errors.New("unsupported dimension")
	ErrorDegenerateSample     = errors.New("degenerate sample")
)

// DimensionMismatchError reports two chains with a different number of columns.
type DimensionMismatchError struct {
	Dim0 int
	Dim1 int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("chains have different dimensions %d %d", e.Dim0, e.Dim1)
}

func (e *DimensionMismatchError) Unwrap() error {
	return ErrorDimensionMismatch
}

// WeightLengthMismatchError reports a weight vector that does not line up
// with its chain. Partial is set when only one of the chains carries weights.
type WeightLengthMismatchError struct {
	Chain   int
	Weights int
	Samples int
	Partial bool
}

func (e *WeightLengthMismatchError) Error() string {
	if e.Partial {
		return fmt.Sprintf("weights given for chain[%d] only, need both or neither", e.Chain)
	}
	return fmt.Sprintf("weights must have same length as chain (chain[%d]): %d weights, %d samples",
		e.Chain, e.Weights, e.Samples)
}

func (e *WeightLengthMismatchError) Unwrap() error {
	return ErrorWeightLengthMismatch
}

type UnsupportedDimensionError struct {
	Dim int
	Max int
}

func (e *UnsupportedDimensionError) Error() string {
	return fmt.Sprintf("nDim %d is not supported, must be between 1 and %d", e.Dim, e.Max)
}

func (e *UnsupportedDimensionError) Unwrap() error {
	return ErrorUnsupportedDimension
}

// DegenerateSampleError is returned when the sample covariance can not be
// factorized, so the kernel bandwidth is undefined.
type DegenerateSampleError struct {
	Dim    int
	Reason string
}

func (e *DegenerateSampleError) Error() string {
	return fmt.Sprintf("degenerate %d-dimensional sample: %s", e.Dim, e.Reason)
}

func (e *DegenerateSampleError) Unwrap() error {
	return ErrorDegenerateSample
}
