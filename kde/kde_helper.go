package kde

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/uyouii/posterior-agreement/common"
	"github.com/uyouii/posterior-agreement/utils"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// NewBandWidth resolves a bandwidth rule by name. Besides "scott" and
// "silverman" a positive number is accepted as a fixed factor.
func NewBandWidth(name string) (BandWidth, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BandWidthScott:
		return NewScottBandWidth(), nil
	case BandWidthSilverman:
		return NewSilvermanBandWidth(), nil
	}

	factor, err := strconv.ParseFloat(name, 64)
	if err != nil || !(factor > 0) {
		return nil, fmt.Errorf("unknown bandwidth %q: %w", name, common.ErrorInvalidValue)
	}
	return NewFixedBandWidth(factor), nil
}

// Fit builds a KDE with the named bandwidth rule and logs the fitted
// parameters.
func Fit(ctx context.Context, samples *mat.Dense, weights []float64, bandwidth string) (*KDE, error) {
	logger := utils.GetLogger(ctx)

	bw, err := NewBandWidth(bandwidth)
	if err != nil {
		logger.Error("NewBandWidth failed", zap.Error(err), zap.String("bandwidth", bandwidth))
		return nil, err
	}

	start := time.Now()
	k, err := New(samples, weights, bw)
	if err != nil {
		logger.Error("kde fit failed", zap.Error(err))
		return nil, err
	}

	logger.Debug("kde fitted", zap.Int("dim", k.Dim()), zap.Int("samples", k.Len()),
		zap.Bool("weighted", k.Weighted()), zap.Float64("neff", k.NEff()),
		zap.Float64("factor", k.Factor()), zap.Int64("cost_ms", utils.MillisecondsSince(start)))

	return k, nil
}
