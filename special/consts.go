package special

// High-precision constants shared across the package.
const (
	// Sqrt2Pi is √(2π), the normalizing constant of the standard normal.
	Sqrt2Pi = 2.5066282746310002

	// LnSqrt2Pi is ln √(2π).
	LnSqrt2Pi = 0.91893853320467274178

	// Ln2 is ln 2.
	Ln2 = 0.69314718055994530942

	// InvSqrt2 is 1/√2, used to map Φ onto erfc.
	InvSqrt2 = 0.70710678118654752440

	// InvSqrtPi is 1/√π, the leading factor of the erfcx expansions.
	InvSqrtPi = 0.56418958354775628695
)

const (
	// erfcxDirectLimit: below this argument exp(x²)·erfc(x) is computed
	// directly. math.Erfc stays normal up to about 26.6 and exp(x²) does
	// not overflow until the same point, so the product is ulp-accurate
	// throughout this range; above it the asymptotic series takes over.
	erfcxDirectLimit = 26.0

	// momentRatioSeriesLimit: at or below this (negative) argument the
	// asymptotic series for NormalCdfMomentRatio reaches machine
	// precision, while the upward recurrence is already losing digits to
	// the x·MR(n−1) + MR(n−2) cancellation.
	momentRatioSeriesLimit = -10.0

	// intervalSeriesLimit: width·(|z|+width) bound under which the
	// power-series evaluation of the interval integral is used. Chosen so
	// the series terms decay at least geometrically with ratio ≤ 1/2.
	intervalSeriesLimit = 0.5

	// seriesMaxIter caps power-series and asymptotic-series loops.
	seriesMaxIter = 100
)
