package agreement

import (
	"context"
	"fmt"
	"time"

	"github.com/uyouii/posterior-agreement/common"
	"github.com/uyouii/posterior-agreement/kde"
	"github.com/uyouii/posterior-agreement/model"
	"github.com/uyouii/posterior-agreement/utils"
	"go.uber.org/zap"
)

type Config struct {
	// number of random pairs drawn to build the difference distribution
	NSamples int
	// grid points per dimension
	NBins      int
	RandomSeed int64
	// "scott", "silverman" or a fixed factor, see kde.NewBandWidth
	BandWidth string
	// goroutines used for the grid evaluation, 0 means GOMAXPROCS
	Workers int
}

func DefaultConfig() Config {
	return Config{
		NSamples:   DefaultNSamples,
		NBins:      DefaultNBins,
		RandomSeed: DefaultRandomSeed,
		BandWidth:  kde.DefaultBandWidth,
	}
}

func (c Config) Validate() error {
	if c.NSamples < 1 {
		return fmt.Errorf("nSamples %d: %w", c.NSamples, common.ErrorInvalidValue)
	}
	if c.NBins < 1 {
		return fmt.Errorf("nBins %d: %w", c.NBins, common.ErrorInvalidValue)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers %d: %w", c.Workers, common.ErrorInvalidValue)
	}
	if _, err := kde.NewBandWidth(c.BandWidth); err != nil {
		return err
	}
	return nil
}

// Compute measures how consistent two chains are with a zero difference.
//
// It draws cfg.NSamples random pairs from the chains, fits a gaussian KDE to
// the pair differences and sums that density over a regular grid spanning
// the differences. The PTE is the share of the grid mass where the density
// is lower than at the origin; Sigma is the equivalent two sided gaussian
// significance.
func Compute(ctx context.Context, chain0, chain1 model.Chain, cfg Config) (res *model.Agreement, err error) {
	logger := utils.GetLogger(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Compute recover panic error!", zap.Any("err", r),
				zap.String("panic info", utils.GetPanicInfo()))
			res, err = nil, fmt.Errorf("agreement: %v", r)
		}
	}()

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", zap.Error(err), zap.Any("config", cfg))
		return nil, err
	}

	pair, err := validate(chain0, chain1)
	if err != nil {
		logger.Error("invalid chains", zap.Error(err))
		return nil, err
	}

	start := time.Now()
	diffs, weights := drawDifferences(pair, cfg.NSamples, cfg.RandomSeed)
	logger.Debug("differences drawn", zap.Int("nSamples", cfg.NSamples), zap.Int("nDim", pair.nDim),
		zap.Bool("weighted", weights != nil), zap.Int64("cost_ms", utils.MillisecondsSince(start)))

	density, err := kde.Fit(ctx, diffs, weights, cfg.BandWidth)
	if err != nil {
		return nil, err
	}

	grid, err := NewGrid(diffs, cfg.NBins)
	if err != nil {
		logger.Error("NewGrid failed", zap.Error(err))
		return nil, err
	}

	start = time.Now()
	sums, err := evaluate(ctx, density, grid, cfg.Workers)
	if err != nil {
		logger.Error("grid evaluation failed", zap.Error(err), zap.Int("gridPoints", grid.Len()))
		return nil, err
	}

	xmin, xmax := columnRanges(diffs)
	pte := sums.PTE()
	res = &model.Agreement{
		PTE:             pte,
		Sigma:           Sigma(pte),
		NDim:            pair.nDim,
		Level:           sums.level,
		Total:           sums.total,
		Restricted:      sums.restricted,
		Mean:            density.Mean(),
		XMin:            xmin,
		XMax:            xmax,
		BandwidthFactor: density.Factor(),
		NEff:            density.NEff(),
		Seed:            cfg.RandomSeed,
	}

	logger.Info("agreement computed", zap.Int("nDim", res.NDim), zap.Float64("pte", res.PTE),
		zap.Float64("sigma", res.Sigma), zap.Int("gridPoints", grid.Len()),
		zap.Int64("cost_ms", utils.MillisecondsSince(start)))

	return res, nil
}
