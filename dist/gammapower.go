package dist

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mathext"
)

// GammaPower is the distribution of y = x^Power where x ~ Gamma(Shape,
// Rate). Power = 1 recovers Gamma, Power = −1 the inverse Gamma, and
// Power = 2 the distribution of a squared Gamma variate. Two GammaPower
// values combine only when their Power fields agree.
type GammaPower struct {
	Shape float64
	Rate  float64
	Power float64
}

// NewGammaPower returns the GammaPower with the given base-Gamma shape
// and rate and the given exponent.
func NewGammaPower(shape, rate, power float64) GammaPower {
	return GammaPower{Shape: shape, Rate: rate, Power: power}
}

// GammaPowerPointMass returns the point mass at v under the given power.
func GammaPowerPointMass(v, power float64) GammaPower {
	return GammaPower{Shape: v, Rate: math.Inf(1), Power: power}
}

// GammaPowerUniform returns the uniform state under the given power.
func GammaPowerUniform(power float64) GammaPower {
	return GammaPower{Shape: 1, Rate: 0, Power: power}
}

// FromGamma wraps a Gamma as a Power = 1 GammaPower.
func FromGamma(g Gamma) GammaPower {
	return GammaPower{Shape: g.Shape, Rate: g.Rate, Power: 1}
}

// IsPointMass reports whether g has zero variance.
func (g GammaPower) IsPointMass() bool { return math.IsInf(g.Rate, 1) }

// Point returns the point-mass location; meaningful only when
// IsPointMass reports true.
func (g GammaPower) Point() float64 { return g.Shape }

// IsUniform reports whether g carries no information.
func (g GammaPower) IsUniform() bool { return g.Shape == 1 && g.Rate == 0 }

// IsProper reports whether g is normalizable.
func (g GammaPower) IsProper() bool {
	return g.IsPointMass() || (g.Shape > 0 && g.Rate > 0)
}

// GetMeanAndVariance reports the mean and variance of y = x^Power via
// E[x^p] = Γ(a+p)/(Γ(a)·b^p). The mean is infinite when a+Power ≤ 0 and
// the variance when a+2·Power ≤ 0.
func (g GammaPower) GetMeanAndVariance() (mean, variance float64) {
	if g.IsPointMass() {
		return g.Shape, 0
	}
	if g.Rate == 0 {
		return math.Inf(1), math.Inf(1)
	}
	m1 := g.powerMoment(g.Power)
	m2 := g.powerMoment(2 * g.Power)
	return m1, m2 - m1*m1
}

// powerMoment returns E[x^p] for the base Gamma, +Inf when undefined.
func (g GammaPower) powerMoment(p float64) float64 {
	if g.Shape+p <= 0 {
		return math.Inf(1)
	}
	lgAP, _ := math.Lgamma(g.Shape + p)
	lgA, _ := math.Lgamma(g.Shape)
	return math.Exp(lgAP - lgA - p*math.Log(g.Rate))
}

// GetLogProb evaluates the log density of y = x^Power at y > 0,
// including the |d x/d y| Jacobian.
func (g GammaPower) GetLogProb(y float64) float64 {
	if g.IsPointMass() {
		if y == g.Shape {
			return 0
		}
		return math.Inf(-1)
	}
	if y < 0 || g.Power == 0 {
		return math.Inf(-1)
	}
	invPow := 1 / g.Power
	x := math.Pow(y, invPow)
	lg, _ := math.Lgamma(g.Shape)
	return g.Shape*math.Log(g.Rate) - lg + (g.Shape-1)*math.Log(x) - g.Rate*x +
		math.Log(math.Abs(invPow)) + (invPow-1)*math.Log(y)
}

// SetToProduct sets g to the normalized product a·b. The powers must
// agree; the base-Gamma exponents combine so that the x^{(a−1)/p} terms
// add, giving shape = a₁ + a₂ − p.
func (g *GammaPower) SetToProduct(a, b GammaPower) error {
	if a.Power != b.Power {
		return fmt.Errorf("gamma power product with powers %v and %v: %w", a.Power, b.Power, ErrIncompatible)
	}
	switch {
	case a.IsPointMass() && b.IsPointMass():
		if a.Point() != b.Point() {
			return fmt.Errorf("gamma power product at %v vs %v: %w", a.Point(), b.Point(), ErrContradiction)
		}
		*g = a
	case a.IsPointMass():
		*g = a
	case b.IsPointMass():
		*g = b
	default:
		shape := a.Shape + b.Shape - a.Power
		rate := a.Rate + b.Rate
		if math.IsNaN(shape) || math.IsNaN(rate) {
			return ErrNaN
		}
		*g = GammaPower{Shape: shape, Rate: rate, Power: a.Power}
	}
	return nil
}

// SetToRatio sets g to num/den. The powers must agree; ForceProper
// clamps a negative result rate (only) to zero.
func (g *GammaPower) SetToRatio(num, den GammaPower) error {
	if num.Power != den.Power {
		return fmt.Errorf("gamma power ratio with powers %v and %v: %w", num.Power, den.Power, ErrIncompatible)
	}
	switch {
	case num.IsPointMass():
		if den.IsPointMass() {
			if num.Point() != den.Point() {
				return fmt.Errorf("gamma power ratio of point masses: %w", ErrContradiction)
			}
			*g = GammaPowerUniform(num.Power)
			return nil
		}
		*g = num
		return nil
	case den.IsPointMass():
		return fmt.Errorf("gamma power ratio: %w", ErrUndefinedRatio)
	}
	shape := num.Shape - den.Shape + num.Power
	rate := num.Rate - den.Rate
	if math.IsNaN(shape) || math.IsNaN(rate) {
		return ErrNaN
	}
	if shape <= 0 {
		return fmt.Errorf("gamma power ratio shape %v: %w", shape, ErrImproper)
	}
	if rate < 0 {
		if !ForceProper {
			return fmt.Errorf("gamma power ratio rate %v: %w", rate, ErrImproper)
		}
		rate = 0
	}
	*g = GammaPower{Shape: shape, Rate: rate, Power: num.Power}
	return nil
}

// GetLogAverageOf returns log ∫ g(y)·that(y) dy for matching powers.
// The substitution y = x^p reduces the integral to the base-Gamma
// overlap with shape a₁ + a₂ − p.
func (g GammaPower) GetLogAverageOf(that GammaPower) float64 {
	if g.Power != that.Power {
		return math.NaN()
	}
	if g.IsPointMass() {
		return that.GetLogProb(g.Point())
	}
	if that.IsPointMass() {
		return g.GetLogProb(that.Point())
	}
	if g.IsUniform() || that.IsUniform() {
		return 0
	}
	p := g.Power
	a := g.Shape + that.Shape - p
	b := g.Rate + that.Rate
	lgA, _ := math.Lgamma(a)
	lg1, _ := math.Lgamma(g.Shape)
	lg2, _ := math.Lgamma(that.Shape)
	return lgA - lg1 - lg2 +
		g.Shape*math.Log(g.Rate) + that.Shape*math.Log(that.Rate) - a*math.Log(b) -
		math.Log(math.Abs(p))
}

// GetAverageLog returns E_that[log g] using the base-Gamma sufficient
// statistics E[log x] = ψ(a)/1 − ln b scaled by 1/p and E[x] under that.
func (g GammaPower) GetAverageLog(that GammaPower) float64 {
	if g.Power != that.Power {
		return math.NaN()
	}
	if g.IsPointMass() {
		if that.IsPointMass() && that.Point() == g.Point() {
			return 0
		}
		return math.Inf(-1)
	}
	if g.IsUniform() {
		return 0
	}
	if !that.IsProper() {
		return math.Inf(-1)
	}
	p := g.Power
	var meanLogX, meanX float64
	if that.IsPointMass() {
		x := math.Pow(that.Point(), 1/p)
		meanLogX = math.Log(x)
		meanX = x
	} else {
		meanLogX = mathext.Digamma(that.Shape) - math.Log(that.Rate)
		meanX = that.Shape / that.Rate
	}
	lg, _ := math.Lgamma(g.Shape)
	invPow := 1 / p
	// log g(y) at y = x^p, including the Jacobian terms in log y = p·log x.
	return (g.Shape-1)*meanLogX - g.Rate*meanX + g.Shape*math.Log(g.Rate) - lg +
		math.Log(math.Abs(invPow)) + (invPow-1)*p*meanLogX
}

// String renders the base shape/rate and the power for diagnostics.
func (g GammaPower) String() string {
	if g.IsPointMass() {
		return fmt.Sprintf("GammaPower.PointMass(%g, power=%g)", g.Point(), g.Power)
	}
	return fmt.Sprintf("GammaPower(%g, %g, power=%g)", g.Shape, g.Rate, g.Power)
}

var _ Family[GammaPower] = (*GammaPower)(nil)
