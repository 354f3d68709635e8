package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/uyouii/posterior-agreement/agreement"
	"github.com/uyouii/posterior-agreement/chainio"
	"github.com/uyouii/posterior-agreement/common"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix = "AGREEMENT_"

	OutputText = "text"
	OutputYAML = "yaml"
)

// Config is the command line configuration. Values are layered: defaults,
// then the YAML file, then AGREEMENT_* environment variables.
type Config struct {
	NSamples   int    `yaml:"nsamples" env:"NSAMPLES"`
	NBins      int    `yaml:"nbins" env:"NBINS"`
	RandomSeed int64  `yaml:"seed" env:"SEED"`
	BandWidth  string `yaml:"bandwidth" env:"BANDWIDTH"`
	Workers    int    `yaml:"workers" env:"WORKERS"`
	Output     string `yaml:"output" env:"OUTPUT"`

	Chain chainio.Options `yaml:",inline"`
}

func Default() Config {
	def := agreement.DefaultConfig()
	return Config{
		NSamples:   def.NSamples,
		NBins:      def.NBins,
		RandomSeed: def.RandomSeed,
		BandWidth:  def.BandWidth,
		Workers:    def.Workers,
		Output:     OutputText,
		Chain:      chainio.DefaultOptions(),
	}
}

// Load builds the configuration from the defaults, the YAML file at path
// (skipped when path is empty) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) Agreement() agreement.Config {
	return agreement.Config{
		NSamples:   c.NSamples,
		NBins:      c.NBins,
		RandomSeed: c.RandomSeed,
		BandWidth:  c.BandWidth,
		Workers:    c.Workers,
	}
}

func (c Config) Validate() error {
	if c.Output != OutputText && c.Output != OutputYAML {
		return fmt.Errorf("output %q: %w", c.Output, common.ErrorInvalidValue)
	}
	if c.Chain.WeightColumn < -1 {
		return fmt.Errorf("weight column %d: %w", c.Chain.WeightColumn, common.ErrorInvalidValue)
	}
	return c.Agreement().Validate()
}
