package dist

import (
	"fmt"
	"math"

	"github.com/katalvlaran/epkernel/special"
)

// Bernoulli is the Bernoulli family in log-odds form:
// P(true) = σ(LogOdds). LogOdds = 0 is the uniform state and
// LogOdds = ±Inf the point masses at true/false.
type Bernoulli struct {
	LogOdds float64
}

// NewBernoulli returns the Bernoulli with P(true) = p.
func NewBernoulli(p float64) Bernoulli {
	return Bernoulli{LogOdds: special.Logit(p)}
}

// BernoulliFromLogOdds returns the Bernoulli with the given log-odds.
func BernoulliFromLogOdds(logOdds float64) Bernoulli {
	return Bernoulli{LogOdds: logOdds}
}

// BernoulliPointMass returns the point mass at the given value.
func BernoulliPointMass(value bool) Bernoulli {
	if value {
		return Bernoulli{LogOdds: math.Inf(1)}
	}
	return Bernoulli{LogOdds: math.Inf(-1)}
}

// BernoulliUniform returns the uniform state.
func BernoulliUniform() Bernoulli { return Bernoulli{LogOdds: 0} }

// GetProbTrue returns P(true) = σ(LogOdds).
func (b Bernoulli) GetProbTrue() float64 { return special.Logistic(b.LogOdds) }

// GetLogProbTrue returns log P(true).
func (b Bernoulli) GetLogProbTrue() float64 { return special.LogisticLn(b.LogOdds) }

// GetLogProbFalse returns log P(false).
func (b Bernoulli) GetLogProbFalse() float64 { return special.LogisticLn(-b.LogOdds) }

// IsPointMass reports whether b is deterministic.
func (b Bernoulli) IsPointMass() bool { return math.IsInf(b.LogOdds, 0) }

// Point returns the point-mass value; meaningful only when IsPointMass
// reports true.
func (b Bernoulli) Point() bool { return b.LogOdds > 0 }

// IsUniform reports whether b carries no information.
func (b Bernoulli) IsUniform() bool { return b.LogOdds == 0 }

// IsProper reports whether the log-odds is well defined.
func (b Bernoulli) IsProper() bool { return !math.IsNaN(b.LogOdds) }

// GetMeanAndVariance reports (p, p(1−p)).
func (b Bernoulli) GetMeanAndVariance() (mean, variance float64) {
	p := b.GetProbTrue()
	return p, p * (1 - p)
}

// GetLogProb evaluates the log mass at x, where x ≠ 0 means true.
func (b Bernoulli) GetLogProb(x float64) float64 {
	if x != 0 {
		return b.GetLogProbTrue()
	}
	return b.GetLogProbFalse()
}

// SetToProduct sets b to the normalized product: log-odds add.
func (b *Bernoulli) SetToProduct(x, y Bernoulli) error {
	if x.IsPointMass() && y.IsPointMass() && x.Point() != y.Point() {
		return fmt.Errorf("bernoulli product of opposite point masses: %w", ErrContradiction)
	}
	lo := x.LogOdds + y.LogOdds
	if math.IsNaN(lo) {
		// Inf + (-Inf) with matching point masses cannot happen here.
		return ErrNaN
	}
	*b = Bernoulli{LogOdds: lo}
	return nil
}

// SetToRatio sets b to num/den: log-odds subtract. Dividing by a point
// mass is undefined unless the numerator is the same point mass.
func (b *Bernoulli) SetToRatio(num, den Bernoulli) error {
	if den.IsPointMass() {
		if num.IsPointMass() && num.Point() == den.Point() {
			*b = BernoulliUniform()
			return nil
		}
		return fmt.Errorf("bernoulli ratio: %w", ErrUndefinedRatio)
	}
	lo := num.LogOdds - den.LogOdds
	if math.IsNaN(lo) {
		return ErrNaN
	}
	*b = Bernoulli{LogOdds: lo}
	return nil
}

// GetLogAverageOf returns log Σ_x b(x)·that(x), computed in log space.
func (b Bernoulli) GetLogAverageOf(that Bernoulli) float64 {
	if b.IsPointMass() {
		if b.Point() {
			return that.GetLogProbTrue()
		}
		return that.GetLogProbFalse()
	}
	if that.IsPointMass() {
		return that.GetLogAverageOf(b)
	}
	return special.LogSumExp(
		b.GetLogProbTrue()+that.GetLogProbTrue(),
		b.GetLogProbFalse()+that.GetLogProbFalse(),
	)
}

// GetAverageLog returns E_that[log b].
func (b Bernoulli) GetAverageLog(that Bernoulli) float64 {
	p := that.GetProbTrue()
	lt := b.GetLogProbTrue()
	lf := b.GetLogProbFalse()
	switch {
	case p == 0:
		return lf
	case p == 1:
		return lt
	}
	return p*lt + (1-p)*lf
}

// String renders the log-odds for diagnostics.
func (b Bernoulli) String() string {
	if b.IsPointMass() {
		return fmt.Sprintf("Bernoulli.PointMass(%v)", b.Point())
	}
	return fmt.Sprintf("Bernoulli(%g)", b.GetProbTrue())
}

var _ Family[Bernoulli] = (*Bernoulli)(nil)
