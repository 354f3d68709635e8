package utils

import (
	"math"
	"time"
)

// FormatFloat rounds f to round decimal places. NaN and infinities are
// returned unchanged.
func FormatFloat(f float64, round int32) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	scale := math.Pow10(int(round))
	return math.Round(f*scale) / scale
}

func FormatFloats(fs []float64, round int32) []float64 {
	res := make([]float64, len(fs))
	for i, f := range fs {
		res[i] = FormatFloat(f, round)
	}
	return res
}

func MillisecondsSince(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
