package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/posterior-agreement/agreement"
	"github.com/uyouii/posterior-agreement/common"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agreement.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, agreement.DefaultConfig(), cfg.Agreement())
	assert.Equal(t, -1, cfg.Chain.WeightColumn)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
nsamples: 5000
nbins: 40
seed: 7
bandwidth: silverman
output: yaml
weight_column: 0
columns: [2, 3]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.NSamples)
	assert.Equal(t, 40, cfg.NBins)
	assert.Equal(t, int64(7), cfg.RandomSeed)
	assert.Equal(t, "silverman", cfg.BandWidth)
	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, OutputYAML, cfg.Output)
	assert.Equal(t, 0, cfg.Chain.WeightColumn)
	assert.Equal(t, []int{2, 3}, cfg.Chain.Columns)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "nsamples: 5000\nnbins: 40\n")
	t.Setenv("AGREEMENT_NSAMPLES", "200")
	t.Setenv("AGREEMENT_WORKERS", "3")
	t.Setenv("AGREEMENT_COLUMNS", "1,4")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.NSamples)
	assert.Equal(t, 40, cfg.NBins)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, []int{1, 4}, cfg.Chain.Columns)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "nsamples: [1\n"))
	assert.Error(t, err)

	t.Setenv("AGREEMENT_NBINS", "many")
	_, err = Load("")
	assert.ErrorContains(t, err, "parse env")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Output = "json"
	assert.ErrorIs(t, cfg.Validate(), common.ErrorInvalidValue)

	cfg = Default()
	cfg.Chain.WeightColumn = -2
	assert.ErrorIs(t, cfg.Validate(), common.ErrorInvalidValue)

	cfg = Default()
	cfg.NBins = 0
	assert.ErrorIs(t, cfg.Validate(), common.ErrorInvalidValue)

	cfg = Default()
	cfg.BandWidth = "wide"
	assert.Error(t, cfg.Validate())
}
