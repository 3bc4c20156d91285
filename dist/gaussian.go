package dist

import (
	"fmt"
	"math"

	"github.com/katalvlaran/epkernel/special"
)

// Gaussian is a one-dimensional Gaussian in natural parameters:
// MeanTimesPrecision = m·τ and Precision = τ ≥ 0. τ = 0 is the uniform
// (no-information) state; τ = +Inf is a point mass, in which case
// MeanTimesPrecision holds the point itself.
type Gaussian struct {
	MeanTimesPrecision float64
	Precision          float64
}

// NewGaussian returns the Gaussian with the given mean and variance.
// variance = 0 yields a point mass; variance = +Inf the uniform state.
func NewGaussian(mean, variance float64) Gaussian {
	if variance == 0 {
		return GaussianPointMass(mean)
	}
	if math.IsInf(variance, 1) {
		return GaussianUniform()
	}
	return Gaussian{MeanTimesPrecision: mean / variance, Precision: 1 / variance}
}

// GaussianFromNatural returns the Gaussian with the given natural
// parameters. precision must be ≥ 0.
func GaussianFromNatural(meanTimesPrecision, precision float64) Gaussian {
	return Gaussian{MeanTimesPrecision: meanTimesPrecision, Precision: precision}
}

// GaussianFromMeanAndPrecision returns the Gaussian with the given mean
// and precision.
func GaussianFromMeanAndPrecision(mean, precision float64) Gaussian {
	if math.IsInf(precision, 1) {
		return GaussianPointMass(mean)
	}
	return Gaussian{MeanTimesPrecision: mean * precision, Precision: precision}
}

// GaussianPointMass returns the point mass at v.
func GaussianPointMass(v float64) Gaussian {
	return Gaussian{MeanTimesPrecision: v, Precision: math.Inf(1)}
}

// GaussianUniform returns the uniform (zero-information) state, the
// identity for SetToProduct.
func GaussianUniform() Gaussian {
	return Gaussian{}
}

// IsPointMass reports whether g has zero variance.
func (g Gaussian) IsPointMass() bool { return math.IsInf(g.Precision, 1) }

// IsUniform reports whether g carries no information.
func (g Gaussian) IsUniform() bool {
	return g.Precision == 0 && g.MeanTimesPrecision == 0
}

// IsProper reports whether g is normalizable (positive precision; point
// masses count as proper).
func (g Gaussian) IsProper() bool { return g.Precision > 0 }

// Point returns the location of a point mass. Meaningful only when
// IsPointMass reports true.
func (g Gaussian) Point() float64 { return g.MeanTimesPrecision }

// GetMeanAndVariance reports the moments: (0, +Inf) for uniform and
// improper states with zero precision, (point, 0) for a point mass.
func (g Gaussian) GetMeanAndVariance() (mean, variance float64) {
	if g.IsPointMass() {
		return g.MeanTimesPrecision, 0
	}
	if g.Precision == 0 {
		return 0, math.Inf(1)
	}
	return g.MeanTimesPrecision / g.Precision, 1 / g.Precision
}

// GetMean returns the mean (the point for a point mass).
func (g Gaussian) GetMean() float64 {
	m, _ := g.GetMeanAndVariance()
	return m
}

// GetVariance returns the variance (0 for a point mass, +Inf if uniform).
func (g Gaussian) GetVariance() float64 {
	_, v := g.GetMeanAndVariance()
	return v
}

// GetLogProb evaluates the log density at x. A point mass yields 0 at
// its location and −Inf elsewhere; the uniform state yields 0.
func (g Gaussian) GetLogProb(x float64) float64 {
	if g.IsPointMass() {
		if x == g.MeanTimesPrecision {
			return 0
		}
		return math.Inf(-1)
	}
	if g.Precision == 0 {
		return 0
	}
	m := g.MeanTimesPrecision / g.Precision
	d := x - m
	return -0.5*g.Precision*d*d + 0.5*math.Log(g.Precision) - special.LnSqrt2Pi
}

// GetLogNormalizer returns the log partition function of the natural
// parameters, 0 for improper states.
func (g Gaussian) GetLogNormalizer() float64 {
	if !g.IsProper() || g.IsPointMass() {
		return 0
	}
	return 0.5*math.Log(2*math.Pi/g.Precision) +
		g.MeanTimesPrecision*g.MeanTimesPrecision/(2*g.Precision)
}

// SetToProduct sets g to the normalized product a·b (natural-parameter
// addition). Multiplying point masses at different locations is a
// contradiction.
func (g *Gaussian) SetToProduct(a, b Gaussian) error {
	switch {
	case a.IsPointMass() && b.IsPointMass():
		if a.Point() != b.Point() {
			return fmt.Errorf("gaussian product at %v vs %v: %w", a.Point(), b.Point(), ErrContradiction)
		}
		*g = a
	case a.IsPointMass():
		*g = a
	case b.IsPointMass():
		*g = b
	default:
		mtp := a.MeanTimesPrecision + b.MeanTimesPrecision
		prec := a.Precision + b.Precision
		if math.IsNaN(mtp) || math.IsNaN(prec) {
			return ErrNaN
		}
		*g = Gaussian{MeanTimesPrecision: mtp, Precision: prec}
	}
	return nil
}

// SetToRatio sets g to num/den (natural-parameter subtraction). A
// negative resulting precision is outside the family domain: it is an
// error unless ForceProper is set, in which case the precision clamps to
// zero and the natural mean is kept.
func (g *Gaussian) SetToRatio(num, den Gaussian) error {
	switch {
	case num.IsPointMass():
		if den.IsPointMass() {
			if num.Point() != den.Point() {
				return fmt.Errorf("gaussian ratio of point masses at %v vs %v: %w",
					num.Point(), den.Point(), ErrContradiction)
			}
			*g = GaussianUniform()
			return nil
		}
		*g = num
		return nil
	case den.IsPointMass():
		return fmt.Errorf("gaussian ratio: %w", ErrUndefinedRatio)
	}
	mtp := num.MeanTimesPrecision - den.MeanTimesPrecision
	prec := num.Precision - den.Precision
	if math.IsNaN(mtp) || math.IsNaN(prec) {
		return ErrNaN
	}
	if prec < 0 {
		if !ForceProper {
			return fmt.Errorf("gaussian ratio precision %v: %w", prec, ErrImproper)
		}
		prec = 0
	}
	*g = Gaussian{MeanTimesPrecision: mtp, Precision: prec}
	return nil
}

// GetLogAverageOf returns log ∫ g(x)·that(x) dx, the Gaussian
// convolution evaluated at the mean difference.
func (g Gaussian) GetLogAverageOf(that Gaussian) float64 {
	if g.IsPointMass() {
		return that.GetLogProb(g.Point())
	}
	if that.IsPointMass() {
		return g.GetLogProb(that.Point())
	}
	if g.Precision == 0 || that.Precision == 0 {
		return 0
	}
	m1, v1 := g.GetMeanAndVariance()
	m2, v2 := that.GetMeanAndVariance()
	v := v1 + v2
	d := m1 - m2
	return -0.5*d*d/v - 0.5*math.Log(v) - special.LnSqrt2Pi
}

// GetAverageLog returns E_that[log g], the VMP energy term. −Inf when g
// is a point mass (its log density is not integrable) unless that is the
// same point mass, which scores 0 like GetLogProb at the point itself.
func (g Gaussian) GetAverageLog(that Gaussian) float64 {
	if g.IsPointMass() {
		if that.IsPointMass() && that.Point() == g.Point() {
			return 0
		}
		return math.Inf(-1)
	}
	if g.Precision == 0 {
		return 0
	}
	if that.Precision == 0 && !that.IsPointMass() {
		return math.Inf(-1)
	}
	mt, vt := that.GetMeanAndVariance()
	m := g.MeanTimesPrecision / g.Precision
	d := mt - m
	return -0.5*g.Precision*(d*d+vt) + 0.5*math.Log(g.Precision) - special.LnSqrt2Pi
}

// FromAlphaBeta builds the outgoing EP message from the score
// alpha = ∂ log Z/∂m and negated curvature beta = −∂² log Z/∂m² of a
// factor's log normalizer with respect to the prior mean.
//
// The message has precision β/(1 − β/τ) and a natural mean consistent
// with the posterior mean m + v·α, where τ is the prior precision; the
// construction stays finite as τ → 0, which is the whole point of the
// parameterization. β = τ yields the point-mass limit.
func FromAlphaBeta(prior Gaussian, alpha, beta float64) (Gaussian, error) {
	if math.IsNaN(alpha) || math.IsNaN(beta) {
		return Gaussian{}, fmt.Errorf("alpha/beta message: %w", ErrNaN)
	}
	if prior.IsPointMass() {
		// A point-mass prior cannot be moved; the message is vacuous.
		return GaussianUniform(), nil
	}
	tau := prior.Precision
	if beta == tau {
		if tau == 0 {
			return GaussianUniform(), nil
		}
		return GaussianPointMass((prior.MeanTimesPrecision + alpha) / tau), nil
	}
	weight := beta / (tau - beta)
	prec := tau * weight
	mtp := weight*(prior.MeanTimesPrecision+alpha) + alpha
	if math.IsNaN(prec) || math.IsNaN(mtp) {
		return Gaussian{}, fmt.Errorf("alpha/beta message: %w", ErrNaN)
	}
	if prec < 0 && ForceProper {
		prec = 0
	}
	return Gaussian{MeanTimesPrecision: mtp, Precision: prec}, nil
}

// String renders the moment parameterization for diagnostics.
func (g Gaussian) String() string {
	if g.IsPointMass() {
		return fmt.Sprintf("Gaussian.PointMass(%g)", g.Point())
	}
	if g.IsUniform() {
		return "Gaussian.Uniform"
	}
	m, v := g.GetMeanAndVariance()
	return fmt.Sprintf("Gaussian(%g, %g)", m, v)
}

var _ Family[Gaussian] = (*Gaussian)(nil)
