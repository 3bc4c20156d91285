package dist

import (
	"fmt"
	"math"

	"github.com/katalvlaran/epkernel/special"
)

// TruncatedGaussian is a Gaussian restricted to the interval
// [Low, High] and renormalized. Low = −Inf or High = +Inf recovers
// one-sided truncation; both infinite recovers the plain Gaussian.
type TruncatedGaussian struct {
	Gaussian Gaussian
	Low      float64
	High     float64
}

// NewTruncatedGaussian returns the base Gaussian(mean, variance)
// truncated to [low, high]. It panics when low > high.
func NewTruncatedGaussian(mean, variance, low, high float64) TruncatedGaussian {
	if low > high {
		panic(fmt.Sprintf("dist: truncated gaussian with low %v > high %v", low, high))
	}
	return TruncatedGaussian{Gaussian: NewGaussian(mean, variance), Low: low, High: high}
}

// TruncatedGaussianPointMass returns the point mass at v.
func TruncatedGaussianPointMass(v float64) TruncatedGaussian {
	return TruncatedGaussian{Gaussian: GaussianPointMass(v), Low: math.Inf(-1), High: math.Inf(1)}
}

// TruncatedGaussianUniform returns the zero-information state on the
// whole real line.
func TruncatedGaussianUniform() TruncatedGaussian {
	return TruncatedGaussian{Gaussian: GaussianUniform(), Low: math.Inf(-1), High: math.Inf(1)}
}

// IsPointMass reports whether t has zero variance.
func (t TruncatedGaussian) IsPointMass() bool {
	return t.Gaussian.IsPointMass() || t.Low == t.High
}

// Point returns the point-mass location; meaningful only when
// IsPointMass reports true.
func (t TruncatedGaussian) Point() float64 {
	if t.Gaussian.IsPointMass() {
		return t.Gaussian.Point()
	}
	return t.Low
}

// IsUniform reports whether t carries no information.
func (t TruncatedGaussian) IsUniform() bool {
	return t.Gaussian.IsUniform() && math.IsInf(t.Low, -1) && math.IsInf(t.High, 1)
}

// IsProper reports whether t is normalizable. A Gaussian that is
// improper on the real line can still be proper on a finite interval,
// but this family only certifies the simple cases.
func (t TruncatedGaussian) IsProper() bool {
	if t.IsPointMass() {
		return true
	}
	if t.Gaussian.Precision > 0 {
		return true
	}
	return !math.IsInf(t.Low, 0) && !math.IsInf(t.High, 0)
}

// logZ returns the log normalization ln ∫_Low^High N(x) dx of the base
// Gaussian over the interval.
func (t TruncatedGaussian) logZ() float64 {
	m, v := t.Gaussian.GetMeanAndVariance()
	sigma := math.Sqrt(v)
	return special.LogNormalProbBetween((t.Low-m)/sigma, (t.High-m)/sigma)
}

// GetMeanAndVariance reports the truncated moments.
func (t TruncatedGaussian) GetMeanAndVariance() (mean, variance float64) {
	if t.IsPointMass() {
		return t.Point(), 0
	}
	m, v := t.Gaussian.GetMeanAndVariance()
	if math.IsInf(t.Low, -1) && math.IsInf(t.High, 1) {
		return m, v
	}
	if math.IsInf(v, 1) {
		// Uniform base over a finite interval.
		mid := (t.Low + t.High) / 2
		w := t.High - t.Low
		return mid, w * w / 12
	}
	sigma := math.Sqrt(v)
	_, mz, vz := special.TruncatedNormalStats((t.Low-m)/sigma, (t.High-m)/sigma)
	return m + sigma*mz, v * vz
}

// GetLogProb evaluates the log density at x, −Inf outside [Low, High].
func (t TruncatedGaussian) GetLogProb(x float64) float64 {
	if x < t.Low || x > t.High {
		return math.Inf(-1)
	}
	if t.IsPointMass() {
		if x == t.Point() {
			return 0
		}
		return math.Inf(-1)
	}
	return t.Gaussian.GetLogProb(x) - t.logZ()
}

// SetToProduct sets t to the normalized product: the base Gaussians
// multiply and the intervals intersect. An empty intersection, or a
// point mass outside the other interval, is a contradiction.
func (t *TruncatedGaussian) SetToProduct(a, b TruncatedGaussian) error {
	low := math.Max(a.Low, b.Low)
	high := math.Min(a.High, b.High)
	if low > high {
		return fmt.Errorf("truncated gaussian product with intervals [%v,%v] and [%v,%v]: %w",
			a.Low, a.High, b.Low, b.High, ErrContradiction)
	}
	var g Gaussian
	if err := g.SetToProduct(a.Gaussian, b.Gaussian); err != nil {
		return err
	}
	if g.IsPointMass() && (g.Point() < low || g.Point() > high) {
		return fmt.Errorf("truncated gaussian product: point %v outside [%v,%v]: %w",
			g.Point(), low, high, ErrContradiction)
	}
	*t = TruncatedGaussian{Gaussian: g, Low: low, High: high}
	return nil
}

// SetToRatio sets t to num/den. The denominator's interval must contain
// the numerator's, so that the ratio stays supported on the numerator's
// interval; otherwise the ratio has no member in this family.
func (t *TruncatedGaussian) SetToRatio(num, den TruncatedGaussian) error {
	if num.Low < den.Low || num.High > den.High {
		return fmt.Errorf("truncated gaussian ratio with intervals [%v,%v] / [%v,%v]: %w",
			num.Low, num.High, den.Low, den.High, ErrIncompatible)
	}
	var g Gaussian
	if err := g.SetToRatio(num.Gaussian, den.Gaussian); err != nil {
		return err
	}
	*t = TruncatedGaussian{Gaussian: g, Low: num.Low, High: num.High}
	return nil
}

// GetLogAverageOf returns log ∫ t(x)·that(x) dx. The product of the two
// base Gaussians is integrated over the intersected interval, and the
// two truncation normalizers divide out.
func (t TruncatedGaussian) GetLogAverageOf(that TruncatedGaussian) float64 {
	if t.IsPointMass() {
		return that.GetLogProb(t.Point())
	}
	if that.IsPointMass() {
		return t.GetLogProb(that.Point())
	}
	low := math.Max(t.Low, that.Low)
	high := math.Min(t.High, that.High)
	if low > high {
		return math.Inf(-1)
	}
	var g Gaussian
	if err := g.SetToProduct(t.Gaussian, that.Gaussian); err != nil {
		return math.NaN()
	}
	overlap := t.Gaussian.GetLogAverageOf(that.Gaussian)
	m, v := g.GetMeanAndVariance()
	sigma := math.Sqrt(v)
	return overlap + special.LogNormalProbBetween((low-m)/sigma, (high-m)/sigma) -
		t.logZ() - that.logZ()
}

// GetAverageLog returns E_that[log t]. It is −Inf whenever that places
// mass outside [Low, High].
func (t TruncatedGaussian) GetAverageLog(that TruncatedGaussian) float64 {
	if that.Low < t.Low || that.High > t.High {
		return math.Inf(-1)
	}
	if t.IsPointMass() {
		if that.IsPointMass() && that.Point() == t.Point() {
			return 0
		}
		return math.Inf(-1)
	}
	em, ev := that.GetMeanAndVariance()
	ex2 := ev + em*em
	g := t.Gaussian
	logNorm := g.GetLogNormalizer() + t.logZ()
	return g.MeanTimesPrecision*em - g.Precision*ex2/2 - logNorm
}

// ToGaussian projects t onto the Gaussian family by moment matching.
func (t TruncatedGaussian) ToGaussian() Gaussian {
	if t.IsPointMass() {
		return GaussianPointMass(t.Point())
	}
	m, v := t.GetMeanAndVariance()
	return NewGaussian(m, v)
}

// String renders the base parameters and interval for diagnostics.
func (t TruncatedGaussian) String() string {
	if t.IsPointMass() {
		return fmt.Sprintf("TruncatedGaussian.PointMass(%g)", t.Point())
	}
	return fmt.Sprintf("Truncated(%v, [%g, %g])", t.Gaussian, t.Low, t.High)
}

var _ Family[TruncatedGaussian] = (*TruncatedGaussian)(nil)
