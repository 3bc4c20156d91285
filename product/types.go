package product

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/epkernel/dist"
)

// Tunables for the quadrature and Laplace paths. Set once at startup.
var (
	// QuadratureNodeCount is the Gauss-Legendre node count per piece of
	// the two-piece real-line rule used by the random×random paths.
	QuadratureNodeCount = 21

	// WideQuadratureNodeCount replaces QuadratureNodeCount when the
	// likelihood in the integration variable is much narrower than the
	// prior, so that enough nodes land inside the mass.
	WideQuadratureNodeCount = 87

	// LargePrecisionThreshold is the product-message precision above
	// which ProductAverageConditional switches from quadrature to the
	// Laplace variant: a near-deterministic product constrains a·b to a
	// thin curved ridge that equispaced nodes cannot resolve.
	LargePrecisionThreshold = 1e8
)

// ErrNotSupported is returned for operator/algorithm pairings that have
// no defined update, such as a VMP message toward a fixed product with a
// random counterpart.
var ErrNotSupported = errors.New("product: update rule not defined for this argument combination")

// Operand is one input of an arithmetic factor: either a fixed observed
// value or a Gaussian belief. The zero value is a fixed 0.
type Operand struct {
	fixed bool
	value float64
	dist  dist.Gaussian
}

// Fixed returns the operand observed at v.
func Fixed(v float64) Operand {
	return Operand{fixed: true, value: v}
}

// Random returns the operand with Gaussian belief g. A point-mass g
// normalizes to Fixed, so degenerate beliefs and observations share the
// same code paths.
func Random(g dist.Gaussian) Operand {
	if g.IsPointMass() {
		return Fixed(g.Point())
	}
	return Operand{dist: g}
}

// IsFixed reports whether the operand is an observed value.
func (o Operand) IsFixed() bool { return o.fixed }

// Value returns the observed value; meaningful only when IsFixed reports
// true.
func (o Operand) Value() float64 { return o.value }

// Dist returns the Gaussian belief; meaningful only when IsFixed reports
// false.
func (o Operand) Dist() dist.Gaussian { return o.dist }

// moments reports the operand's mean and variance, with zero variance
// for a fixed value.
func (o Operand) moments() (mean, variance float64) {
	if o.fixed {
		return o.value, 0
	}
	return o.dist.GetMeanAndVariance()
}

// asGaussian widens the operand to a Gaussian message.
func (o Operand) asGaussian() dist.Gaussian {
	if o.fixed {
		return dist.GaussianPointMass(o.value)
	}
	return o.dist
}

func (o Operand) String() string {
	if o.fixed {
		return fmt.Sprintf("Fixed(%g)", o.value)
	}
	return fmt.Sprintf("Random(%v)", o.dist)
}

// checkMoments guards a moment-matched (mean, variance) pair before it
// is turned into a message.
func checkMoments(mean, variance float64) error {
	if math.IsNaN(mean) || math.IsNaN(variance) {
		return fmt.Errorf("product: moment match produced NaN: %w", dist.ErrNumeric)
	}
	if variance < 0 {
		return fmt.Errorf("product: moment match produced variance %v: %w", variance, dist.ErrNumeric)
	}
	return nil
}
