package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/uyouii/posterior-agreement/agreement"
	"github.com/uyouii/posterior-agreement/chainio"
	"github.com/uyouii/posterior-agreement/config"
	"github.com/uyouii/posterior-agreement/model"
	"github.com/uyouii/posterior-agreement/utils"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const floatRound = 4

type flags struct {
	configPath   string
	verbose      bool
	nSamples     int
	nBins        int
	seed         int64
	bandwidth    string
	workers      int
	weightColumn int
	columns      []int
	output       string
	seeds        int
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	def := config.Default()

	rootCmd := &cobra.Command{
		Use:          "agreement",
		Short:        "Measure the agreement of two posterior sample chains",
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "YAML configuration file")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "development logging")
	pf.IntVar(&f.nSamples, "nsamples", def.NSamples, "number of random pairs drawn from the chains")
	pf.IntVar(&f.nBins, "nbins", def.NBins, "grid points per dimension")
	pf.Int64Var(&f.seed, "seed", def.RandomSeed, "random seed")
	pf.StringVar(&f.bandwidth, "bandwidth", def.BandWidth, "KDE bandwidth: scott, silverman or a fixed factor")
	pf.IntVar(&f.workers, "workers", def.Workers, "goroutines used for the evaluation, 0 means GOMAXPROCS")
	pf.IntVar(&f.weightColumn, "weight-column", def.Chain.WeightColumn, "0 based weight column, -1 for none")
	pf.IntSliceVar(&f.columns, "columns", nil, "0 based parameter columns, default all but the weight column")
	pf.StringVarP(&f.output, "output", "o", def.Output, "output format: text or yaml")

	computeCmd := &cobra.Command{
		Use:   "compute CHAIN0 CHAIN1",
		Short: "Compute the PTE and sigma of the chain difference at zero",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(cmd, f, args)
		},
	}

	scanCmd := &cobra.Command{
		Use:   "scan CHAIN0 CHAIN1",
		Short: "Repeat the computation over consecutive seeds starting at --seed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, f, args)
		},
	}
	scanCmd.Flags().IntVar(&f.seeds, "seeds", 10, "number of seeds")

	rootCmd.AddCommand(computeCmd, scanCmd)
	return rootCmd
}

// loadConfig layers the flags the user actually set over the file and
// environment configuration.
func loadConfig(cmd *cobra.Command, f *flags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}

	changed := cmd.Flags().Changed
	if changed("nsamples") {
		cfg.NSamples = f.nSamples
	}
	if changed("nbins") {
		cfg.NBins = f.nBins
	}
	if changed("seed") {
		cfg.RandomSeed = f.seed
	}
	if changed("bandwidth") {
		cfg.BandWidth = f.bandwidth
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("weight-column") {
		cfg.Chain.WeightColumn = f.weightColumn
	}
	if changed("columns") {
		cfg.Chain.Columns = f.columns
	}
	if changed("output") {
		cfg.Output = f.output
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func commandContext(cmd *cobra.Command, f *flags) (context.Context, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if !f.verbose {
		return ctx, nil
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return utils.WithLogger(ctx, logger), nil
}

func readChains(ctx context.Context, cfg config.Config, args []string) (model.Chain, model.Chain, error) {
	logger := utils.GetLogger(ctx)

	var chains [2]model.Chain
	for i, path := range args {
		chain, err := chainio.ReadFile(path, cfg.Chain)
		if err != nil {
			logger.Error("read chain failed", zap.String("path", path), zap.Error(err))
			return model.Chain{}, model.Chain{}, err
		}
		logger.Debug("chain loaded", zap.String("path", path), zap.Int("samples", chain.Len()),
			zap.Int("nDim", chain.Dim()), zap.Bool("weighted", chain.Weighted()))
		chains[i] = chain
	}
	return chains[0], chains[1], nil
}

func runCompute(cmd *cobra.Command, f *flags, args []string) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}
	ctx, err := commandContext(cmd, f)
	if err != nil {
		return err
	}
	chain0, chain1, err := readChains(ctx, cfg, args)
	if err != nil {
		return err
	}

	res, err := agreement.Compute(ctx, chain0, chain1, cfg.Agreement())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cfg.Output == config.OutputYAML {
		return writeYAML(out, res)
	}
	writeAgreement(out, res)
	return nil
}

func runScan(cmd *cobra.Command, f *flags, args []string) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}
	if f.seeds < 1 {
		return fmt.Errorf("seeds must be positive, got %d", f.seeds)
	}
	ctx, err := commandContext(cmd, f)
	if err != nil {
		return err
	}
	chain0, chain1, err := readChains(ctx, cfg, args)
	if err != nil {
		return err
	}

	seeds := make([]int64, f.seeds)
	for i := range seeds {
		seeds[i] = cfg.RandomSeed + int64(i)
	}

	scan, err := agreement.Scan(ctx, chain0, chain1, cfg.Agreement(), seeds)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cfg.Output == config.OutputYAML {
		return writeYAML(out, scan)
	}
	writeScan(out, scan)
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(v)
}

func writeAgreement(w io.Writer, res *model.Agreement) {
	fmt.Fprintf(w, "nDim:  %d\n", res.NDim)
	fmt.Fprintf(w, "PTE:   %v\n", utils.FormatFloat(res.PTE, floatRound))
	fmt.Fprintf(w, "sigma: %v\n", utils.FormatFloat(res.Sigma, floatRound))
	fmt.Fprintf(w, "mean:  %v\n", utils.FormatFloats(res.Mean, floatRound))
}

func writeScan(w io.Writer, scan *model.SeedScan) {
	for _, res := range scan.Results {
		fmt.Fprintf(w, "seed %d: PTE %v sigma %v\n", res.Seed,
			utils.FormatFloat(res.PTE, floatRound), utils.FormatFloat(res.Sigma, floatRound))
	}
	fmt.Fprintf(w, "PTE mean %v stddev %v median %v min %v max %v\n",
		utils.FormatFloat(scan.MeanPTE, floatRound), utils.FormatFloat(scan.StdDevPTE, floatRound),
		utils.FormatFloat(scan.MedianPTE, floatRound), utils.FormatFloat(scan.MinPTE, floatRound),
		utils.FormatFloat(scan.MaxPTE, floatRound))
	fmt.Fprintf(w, "sigma of mean PTE: %v\n", utils.FormatFloat(scan.MeanSigma, floatRound))
}
