package dist

import "errors"

// ForceProper is a process-wide tunable: when true, ratio operations and
// message constructors that would produce a negative precision clamp it
// to zero (an improper-but-harmless flat message) instead of returning
// ErrImproper. Set once at startup, before any inference pass; it is not
// per-call state.
var ForceProper = false

var (
	// ErrNaN is returned when a parameter or an intermediate is NaN —
	// always a derivation or caller bug, never a valid state.
	ErrNaN = errors.New("dist: parameter is NaN")

	// ErrContradiction is returned when two point masses at different
	// locations are multiplied: the configuration has zero probability.
	ErrContradiction = errors.New("dist: product of disjoint point masses")

	// ErrImproper is returned when a ratio leaves the family's valid
	// parameter domain (negative precision, non-positive shape) and
	// ForceProper is off.
	ErrImproper = errors.New("dist: ratio leaves the valid parameter domain")

	// ErrUndefinedRatio is returned when dividing by a point mass, for
	// which no family member represents the quotient.
	ErrUndefinedRatio = errors.New("dist: ratio with point-mass denominator is undefined")

	// ErrIncompatible is returned when combining family members whose
	// fixed structural parameters differ (GammaPower powers, dimensions).
	ErrIncompatible = errors.New("dist: incompatible structural parameters")

	// ErrNumeric is returned by operators when an intermediate turns out
	// NaN or a variance turns out negative. These indicate a derivation
	// bug upstream and are raised rather than masked.
	ErrNumeric = errors.New("dist: numeric breakdown in intermediate result")
)

// Family is the capability set shared by the scalar families. T is the
// concrete family type; *T implements Family[T]. Multivariate families
// (VectorGaussian, Wishart) provide the same methods with vector and
// matrix moments instead of scalars.
type Family[T any] interface {
	// GetMeanAndVariance reports the first two moments. The variance is
	// +Inf in the uniform state and 0 for a point mass.
	GetMeanAndVariance() (mean, variance float64)

	// GetLogProb evaluates the log density (or log mass) at x.
	GetLogProb(x float64) float64

	// SetToProduct sets the receiver to the normalized product of a and b.
	SetToProduct(a, b T) error

	// SetToRatio sets the receiver to the ratio num/den, subject to the
	// family's parameter domain and the ForceProper policy.
	SetToRatio(num, den T) error

	// GetLogAverageOf returns log ∫ p(x)·q(x) dx for the receiver p and
	// argument q.
	GetLogAverageOf(that T) float64

	// GetAverageLog returns E_that[log p] for the receiver p.
	GetAverageLog(that T) float64

	IsPointMass() bool
	IsUniform() bool
	IsProper() bool
}
