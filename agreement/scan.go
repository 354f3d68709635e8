package agreement

import (
	"context"
	"fmt"
	"runtime"

	"github.com/montanaflynn/stats"
	"github.com/uyouii/posterior-agreement/common"
	"github.com/uyouii/posterior-agreement/model"
	"github.com/uyouii/posterior-agreement/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Scan runs Compute once per seed and summarizes how much the PTE moves
// with the random draw. cfg.RandomSeed is ignored; cfg.Workers bounds the
// number of seeds computed at the same time, each of them evaluating its
// grid on a single goroutine.
func Scan(ctx context.Context, chain0, chain1 model.Chain, cfg Config, seeds []int64) (*model.SeedScan, error) {
	logger := utils.GetLogger(ctx)

	if len(seeds) == 0 {
		return nil, fmt.Errorf("no seeds: %w", common.ErrorInvalidValue)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := validate(chain0, chain1); err != nil {
		logger.Error("invalid chains", zap.Error(err))
		return nil, err
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*model.Agreement, len(seeds))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, seed := range seeds {
		g.Go(func() error {
			seedCfg := cfg
			seedCfg.RandomSeed = seed
			seedCfg.Workers = 1
			res, err := Compute(gCtx, chain0, chain1, seedCfg)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scan, err := summarize(results)
	if err != nil {
		return nil, err
	}

	logger.Info("seed scan done", zap.Int("seeds", len(seeds)), zap.Float64("meanPTE", scan.MeanPTE),
		zap.Float64("stddevPTE", scan.StdDevPTE))
	return scan, nil
}

func summarize(results []*model.Agreement) (*model.SeedScan, error) {
	scan := &model.SeedScan{Results: results}
	ptes := stats.Float64Data(scan.PTEs())

	var err error
	if scan.MeanPTE, err = ptes.Mean(); err != nil {
		return nil, err
	}
	if scan.MedianPTE, err = ptes.Median(); err != nil {
		return nil, err
	}
	if scan.MinPTE, err = ptes.Min(); err != nil {
		return nil, err
	}
	if scan.MaxPTE, err = ptes.Max(); err != nil {
		return nil, err
	}
	if len(ptes) > 1 {
		if scan.StdDevPTE, err = stats.StandardDeviationSample(ptes); err != nil {
			return nil, err
		}
	}
	scan.MeanSigma = Sigma(scan.MeanPTE)
	return scan, nil
}
