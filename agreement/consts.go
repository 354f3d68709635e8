package agreement

const (
	// MaxDim bounds the evaluation grid, which has nBins^nDim points.
	MaxDim = 5

	DefaultNSamples   = 100000
	DefaultNBins      = 100
	DefaultRandomSeed = 42

	gridChunkSize = 1024
)
