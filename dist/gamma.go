package dist

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mathext"
)

// Gamma is the Gamma family in (Shape, Rate): density ∝ x^{Shape−1}·e^{−Rate·x}
// on x > 0. Shape = 1, Rate = 0 is the uniform state. A point mass is
// encoded by Rate = +Inf with Shape holding the point location.
type Gamma struct {
	Shape float64
	Rate  float64
}

// NewGamma returns the Gamma with the given shape and rate.
func NewGamma(shape, rate float64) Gamma {
	return Gamma{Shape: shape, Rate: rate}
}

// GammaFromMeanAndVariance moment-matches a Gamma: shape = m²/v,
// rate = m/v.
func GammaFromMeanAndVariance(mean, variance float64) Gamma {
	if variance == 0 {
		return GammaPointMass(mean)
	}
	return Gamma{Shape: mean * mean / variance, Rate: mean / variance}
}

// GammaPointMass returns the point mass at v ≥ 0.
func GammaPointMass(v float64) Gamma {
	return Gamma{Shape: v, Rate: math.Inf(1)}
}

// GammaUniform returns the uniform (zero-information) state.
func GammaUniform() Gamma {
	return Gamma{Shape: 1, Rate: 0}
}

// IsPointMass reports whether g has zero variance.
func (g Gamma) IsPointMass() bool { return math.IsInf(g.Rate, 1) }

// Point returns the point-mass location; meaningful only when
// IsPointMass reports true.
func (g Gamma) Point() float64 { return g.Shape }

// IsUniform reports whether g carries no information.
func (g Gamma) IsUniform() bool { return g.Shape == 1 && g.Rate == 0 }

// IsProper reports whether g is normalizable.
func (g Gamma) IsProper() bool {
	return g.IsPointMass() || (g.Shape > 0 && g.Rate > 0)
}

// GetMeanAndVariance reports (Shape/Rate, Shape/Rate²), the point with
// zero variance for a point mass, and infinite variance for improper
// states.
func (g Gamma) GetMeanAndVariance() (mean, variance float64) {
	if g.IsPointMass() {
		return g.Shape, 0
	}
	if g.Rate == 0 {
		return math.Inf(1), math.Inf(1)
	}
	return g.Shape / g.Rate, g.Shape / (g.Rate * g.Rate)
}

// GetMean returns the mean.
func (g Gamma) GetMean() float64 {
	m, _ := g.GetMeanAndVariance()
	return m
}

// GetMeanLog returns E[log x] = ψ(Shape) − log Rate.
func (g Gamma) GetMeanLog() float64 {
	if g.IsPointMass() {
		return math.Log(g.Shape)
	}
	return mathext.Digamma(g.Shape) - math.Log(g.Rate)
}

// GetLogProb evaluates the log density at x > 0.
func (g Gamma) GetLogProb(x float64) float64 {
	if g.IsPointMass() {
		if x == g.Shape {
			return 0
		}
		return math.Inf(-1)
	}
	if x < 0 {
		return math.Inf(-1)
	}
	lg, _ := math.Lgamma(g.Shape)
	return g.Shape*math.Log(g.Rate) - lg + (g.Shape-1)*math.Log(x) - g.Rate*x
}

// GetLogNormalizer returns ln Γ(Shape) − Shape·ln Rate, 0 for improper
// states.
func (g Gamma) GetLogNormalizer() float64 {
	if !g.IsProper() || g.IsPointMass() {
		return 0
	}
	lg, _ := math.Lgamma(g.Shape)
	return lg - g.Shape*math.Log(g.Rate)
}

// SetToProduct sets g to the normalized product a·b: natural parameters
// (shape−1, −rate) add.
func (g *Gamma) SetToProduct(a, b Gamma) error {
	switch {
	case a.IsPointMass() && b.IsPointMass():
		if a.Point() != b.Point() {
			return fmt.Errorf("gamma product at %v vs %v: %w", a.Point(), b.Point(), ErrContradiction)
		}
		*g = a
	case a.IsPointMass():
		*g = a
	case b.IsPointMass():
		*g = b
	default:
		shape := a.Shape + b.Shape - 1
		rate := a.Rate + b.Rate
		if math.IsNaN(shape) || math.IsNaN(rate) {
			return ErrNaN
		}
		*g = Gamma{Shape: shape, Rate: rate}
	}
	return nil
}

// SetToRatio sets g to num/den. A non-positive shape or negative rate is
// outside the family domain; ForceProper clamps the rate (only) to zero.
func (g *Gamma) SetToRatio(num, den Gamma) error {
	switch {
	case num.IsPointMass():
		if den.IsPointMass() {
			if num.Point() != den.Point() {
				return fmt.Errorf("gamma ratio of point masses: %w", ErrContradiction)
			}
			*g = GammaUniform()
			return nil
		}
		*g = num
		return nil
	case den.IsPointMass():
		return fmt.Errorf("gamma ratio: %w", ErrUndefinedRatio)
	}
	shape := num.Shape - den.Shape + 1
	rate := num.Rate - den.Rate
	if math.IsNaN(shape) || math.IsNaN(rate) {
		return ErrNaN
	}
	if shape <= 0 {
		return fmt.Errorf("gamma ratio shape %v: %w", shape, ErrImproper)
	}
	if rate < 0 {
		if !ForceProper {
			return fmt.Errorf("gamma ratio rate %v: %w", rate, ErrImproper)
		}
		rate = 0
	}
	*g = Gamma{Shape: shape, Rate: rate}
	return nil
}

// GetLogAverageOf returns log ∫ g(x)·that(x) dx:
//
//	Γ(a₁+a₂−1) · b₁^{a₁} · b₂^{a₂} / (Γ(a₁)·Γ(a₂)·(b₁+b₂)^{a₁+a₂−1}).
func (g Gamma) GetLogAverageOf(that Gamma) float64 {
	if g.IsPointMass() {
		return that.GetLogProb(g.Point())
	}
	if that.IsPointMass() {
		return g.GetLogProb(that.Point())
	}
	if g.IsUniform() || that.IsUniform() {
		return 0
	}
	a := g.Shape + that.Shape - 1
	b := g.Rate + that.Rate
	lgA, _ := math.Lgamma(a)
	lg1, _ := math.Lgamma(g.Shape)
	lg2, _ := math.Lgamma(that.Shape)
	return lgA - lg1 - lg2 +
		g.Shape*math.Log(g.Rate) + that.Shape*math.Log(that.Rate) - a*math.Log(b)
}

// GetAverageLog returns E_that[log g] using E[log x] = ψ(a)−ln b and
// E[x] = a/b under that.
func (g Gamma) GetAverageLog(that Gamma) float64 {
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
	meanLog := that.GetMeanLog()
	mean := that.GetMean()
	lg, _ := math.Lgamma(g.Shape)
	return (g.Shape-1)*meanLog - g.Rate*mean + g.Shape*math.Log(g.Rate) - lg
}

// String renders the shape/rate parameterization for diagnostics.
func (g Gamma) String() string {
	if g.IsPointMass() {
		return fmt.Sprintf("Gamma.PointMass(%g)", g.Point())
	}
	return fmt.Sprintf("Gamma(%g, %g)", g.Shape, g.Rate)
}

var _ Family[Gamma] = (*Gamma)(nil)
