package between

import (
	"fmt"
	"math"

	"github.com/katalvlaran/epkernel/dist"
	"github.com/katalvlaran/epkernel/special"
)

// boundGeometry is the standardized description of the two-sided
// constraint with Gaussian bounds: D = X − L and E = U − X are jointly
// Gaussian with correlation r = −v_x/(σ_D·σ_E), and the truncation
// probability is the upper orthant P(D ≥ 0, E ≥ 0).
type boundGeometry struct {
	h, k, r float64 // standardized means of D, E and their correlation
	sigmaD  float64
	sigmaE  float64
	logZ    float64
}

func newBoundGeometry(x, lower, upper dist.Gaussian) (boundGeometry, error) {
	for _, g := range []dist.Gaussian{x, lower, upper} {
		if !g.IsProper() && !g.IsPointMass() {
			return boundGeometry{}, fmt.Errorf("between: improper message to a bound operator: %w", dist.ErrImproper)
		}
	}
	mx, vx := x.GetMeanAndVariance()
	ml, vl := lower.GetMeanAndVariance()
	mu, vu := upper.GetMeanAndVariance()

	g := boundGeometry{
		sigmaD: math.Sqrt(vx + vl),
		sigmaE: math.Sqrt(vx + vu),
	}
	if g.sigmaD == 0 || g.sigmaE == 0 {
		return boundGeometry{}, fmt.Errorf("between: degenerate bound geometry: %w", dist.ErrNumeric)
	}
	g.h = (mx - ml) / g.sigmaD
	g.k = (mu - mx) / g.sigmaE
	g.r = -vx / (g.sigmaD * g.sigmaE)
	g.logZ = special.NormalCdf2Ln(g.h, g.k, g.r)
	return g, nil
}

// LogProbBetweenGaussianBounds returns log P(L ≤ X ≤ U) for independent
// Gaussian x, lower and upper. Point-mass bounds degenerate to the
// univariate LogProbBetween.
func LogProbBetweenGaussianBounds(x, lower, upper dist.Gaussian) (float64, error) {
	if lower.IsPointMass() && upper.IsPointMass() {
		return LogProbBetween(x, lower.Point(), upper.Point())
	}
	if x.IsUniform() {
		return 0, fmt.Errorf("between: uniform x with random bounds: %w", dist.ErrImproper)
	}
	g, err := newBoundGeometry(x, lower, upper)
	if err != nil {
		return 0, err
	}
	return g.logZ, nil
}

// tailSlope returns t = φ(a)·Φ(c)/Z and u = φ(a)·φ(c)/Z in one go, where
// c = (b − r·a)/√(1−r²); t is ∂Z/∂a over Z, the workhorse of the bound
// derivatives. Both are assembled in the log domain so deep-tail
// geometries keep their relative accuracy.
func (g boundGeometry) tailSlope(a, b float64) (t, u float64) {
	s := math.Sqrt(1 - g.r*g.r)
	if s == 0 {
		// r = ±1: the orthant is effectively univariate and the slope
		// saturates at the hazard of the binding coordinate.
		t = math.Exp(special.NormalPdfLn(a) - special.NormalCdfLn(a))
		return t, 0
	}
	c := (b - g.r*a) / s
	t = math.Exp(special.NormalPdfLn(a) + special.NormalCdfLn(c) - g.logZ)
	u = math.Exp(special.NormalPdfLn(a) + special.NormalPdfLn(c) - g.logZ)
	return t, u
}

// LowerBoundAverageConditional returns the EP message to the lower
// bound L of an observed-true truncation L ≤ X ≤ U with Gaussian
// bounds.
//
// The alpha/beta pair comes from the analytic derivatives of
// ln Φ₂: ∂Φ₂/∂h = φ(h)·Φ((k−rh)/√(1−r²)) and its h-derivative, scaled
// by ∂h/∂m_l = −1/σ_D.
func LowerBoundAverageConditional(isBetween dist.Bernoulli, x, lower, upper dist.Gaussian) (dist.Gaussian, error) {
	if err := requireObservedTrue(isBetween); err != nil {
		return dist.Gaussian{}, err
	}
	if lower.IsPointMass() {
		return dist.GaussianUniform(), nil
	}
	g, err := newBoundGeometry(x, lower, upper)
	if err != nil {
		return dist.Gaussian{}, err
	}
	if math.IsInf(g.logZ, -1) {
		return dist.Gaussian{}, fmt.Errorf("between: bound constraint has zero probability: %w", dist.ErrContradiction)
	}
	t, u := g.tailSlope(g.h, g.k)
	// d ln Z/dh = t; d² ln Z/dh² = −h·t − (r/√(1−r²))·u − t².
	s := math.Sqrt(1 - g.r*g.r)
	var cross float64
	if s > 0 {
		cross = g.r / s * u
	}
	alpha := -t / g.sigmaD
	beta := (g.h*t + cross + t*t) / (g.sigmaD * g.sigmaD)
	if math.IsNaN(alpha) || math.IsNaN(beta) {
		return dist.Gaussian{}, fmt.Errorf("between: bound alpha/beta is NaN: %w", dist.ErrNumeric)
	}
	return dist.FromAlphaBeta(lower, alpha, beta)
}

// UpperBoundAverageConditional is the mirror image for the upper bound,
// driven by the k-derivatives of ln Φ₂ with ∂k/∂m_u = 1/σ_E.
func UpperBoundAverageConditional(isBetween dist.Bernoulli, x, lower, upper dist.Gaussian) (dist.Gaussian, error) {
	if err := requireObservedTrue(isBetween); err != nil {
		return dist.Gaussian{}, err
	}
	if upper.IsPointMass() {
		return dist.GaussianUniform(), nil
	}
	g, err := newBoundGeometry(x, lower, upper)
	if err != nil {
		return dist.Gaussian{}, err
	}
	if math.IsInf(g.logZ, -1) {
		return dist.Gaussian{}, fmt.Errorf("between: bound constraint has zero probability: %w", dist.ErrContradiction)
	}
	t, u := g.tailSlope(g.k, g.h)
	s := math.Sqrt(1 - g.r*g.r)
	var cross float64
	if s > 0 {
		cross = g.r / s * u
	}
	alpha := t / g.sigmaE
	beta := (g.k*t + cross + t*t) / (g.sigmaE * g.sigmaE)
	if math.IsNaN(alpha) || math.IsNaN(beta) {
		return dist.Gaussian{}, fmt.Errorf("between: bound alpha/beta is NaN: %w", dist.ErrNumeric)
	}
	return dist.FromAlphaBeta(upper, alpha, beta)
}

// LogAverageFactorGaussianBounds returns the log evidence of an
// observed isBetween with Gaussian bounds.
func LogAverageFactorGaussianBounds(isBetween bool, x, lower, upper dist.Gaussian) (float64, error) {
	logP, err := LogProbBetweenGaussianBounds(x, lower, upper)
	if err != nil {
		return 0, err
	}
	if isBetween {
		return logP, nil
	}
	if logP == 0 {
		return math.Inf(-1), nil
	}
	return math.Log(-math.Expm1(logP)), nil
}

// requireObservedTrue rejects the isBetween states the bound operators
// have no update for: refuted or uncertain truncations would need the
// complement orthant mixture, which the exact factor does not admit in
// Gaussian form.
func requireObservedTrue(isBetween dist.Bernoulli) error {
	if isBetween.IsPointMass() && isBetween.Point() {
		return nil
	}
	return fmt.Errorf("between: bound message needs isBetween observed true: %w", ErrNotSupported)
}
