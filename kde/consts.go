package kde

const (
	BandWidthScott     = "scott"
	BandWidthSilverman = "silverman"

	DefaultBandWidth = BandWidthScott

	// correlation matrices with a larger condition number are treated as singular
	MaxCondition = 1e12
)
