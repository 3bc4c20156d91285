package between

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/epkernel/dist"
	"github.com/katalvlaran/epkernel/special"
)

// ErrNotSupported is returned for argument combinations that have no
// defined update, such as bound messages under a refuted truncation.
var ErrNotSupported = errors.New("between: update rule not defined for this argument combination")

// wellInsideZ is the standardized margin beyond which the interval is
// treated as covering the bulk of the distribution: the direct
// density-difference formulas for alpha and beta are then both accurate
// and cancellation-free, while the moment path would lose the tiny
// correction in v − V.
const wellInsideZ = 2.5

// LogProbBetween returns log P(L ≤ X < U) for Gaussian x.
//
// Description:
//
//	Degenerate inputs resolve structurally: an inverted interval is a
//	contradiction, an empty one has zero probability, point-mass and
//	uniform x reduce to interval tests. The general case standardizes
//	the bounds and defers to the moment-ratio machinery, which picks a
//	cancellation-free form no matter how far the window sits in a tail.
func LogProbBetween(x dist.Gaussian, low, high float64) (float64, error) {
	if math.IsNaN(low) || math.IsNaN(high) {
		return 0, fmt.Errorf("between: NaN bound: %w", dist.ErrNumeric)
	}
	if low > high {
		return 0, fmt.Errorf("between: interval [%v, %v] is inverted: %w", low, high, dist.ErrContradiction)
	}
	if low == high {
		return math.Inf(-1), nil
	}
	if math.IsInf(low, -1) && math.IsInf(high, 1) {
		return 0, nil
	}
	if x.IsPointMass() {
		if p := x.Point(); low <= p && p < high {
			return 0, nil
		}
		return math.Inf(-1), nil
	}
	if x.IsUniform() {
		switch {
		case math.IsInf(low, -1) != math.IsInf(high, 1):
			// Exactly one bound is finite: half of the line.
			return -special.Ln2, nil
		default:
			// A finite window has no mass under the improper uniform.
			return math.Inf(-1), nil
		}
	}
	if !x.IsProper() {
		return 0, fmt.Errorf("between: improper x message: %w", dist.ErrImproper)
	}
	m, v := x.GetMeanAndVariance()
	sigma := math.Sqrt(v)
	return special.LogNormalProbBetween((low-m)/sigma, (high-m)/sigma), nil
}

// IsBetweenAverageConditional returns the EP message to the isBetween
// output: a Bernoulli whose log-odds is logit P(L ≤ X < U).
func IsBetweenAverageConditional(x dist.Gaussian, low, high float64) (dist.Bernoulli, error) {
	logP, err := LogProbBetween(x, low, high)
	if err != nil {
		return dist.Bernoulli{}, err
	}
	switch {
	case logP == 0:
		return dist.BernoulliPointMass(true), nil
	case math.IsInf(logP, -1):
		return dist.BernoulliPointMass(false), nil
	}
	// log-odds = log p − log(1−p) with 1−p kept accurate near p = 1.
	return dist.BernoulliFromLogOdds(logP - math.Log(-math.Expm1(logP))), nil
}

// XAverageConditional returns the EP message to X given the isBetween
// message and fixed bounds.
//
// Description:
//
//	An observed-true truncation with the interval well inside the bulk
//	uses the direct density-difference alpha/beta, which stay accurate
//	as the correction shrinks toward zero. Every other informative case
//	is a log-weighted mixture of up to three regions — inside, lower
//	tail, upper tail — whose moments come from the same reference-point
//	machinery as LogProbBetween. The mixture is moment-matched and the
//	incoming message divided out through dist.FromAlphaBeta, so the
//	result is well defined even as x.Precision → 0.
//
// Edge cases: a point-mass x gets a uniform message (nothing to refine),
// a zero-width interval asserted true collapses to a point mass at the
// bound, and an uninformative uniform x asserted inside a finite window
// gets the window's own moment-matched Gaussian.
func XAverageConditional(isBetween dist.Bernoulli, x dist.Gaussian, low, high float64) (dist.Gaussian, error) {
	if math.IsNaN(low) || math.IsNaN(high) {
		return dist.Gaussian{}, fmt.Errorf("between: NaN bound: %w", dist.ErrNumeric)
	}
	if low > high {
		return dist.Gaussian{}, fmt.Errorf("between: interval [%v, %v] is inverted: %w", low, high, dist.ErrContradiction)
	}
	if isBetween.IsUniform() || x.IsPointMass() {
		return dist.GaussianUniform(), nil
	}
	if low == high {
		if isBetween.IsPointMass() && isBetween.Point() {
			return dist.GaussianPointMass(low), nil
		}
		// Avoiding a measure-zero point constrains nothing.
		return dist.GaussianUniform(), nil
	}
	if x.IsUniform() {
		if isBetween.IsPointMass() && isBetween.Point() &&
			!math.IsInf(low, 0) && !math.IsInf(high, 0) {
			w := high - low
			return dist.NewGaussian((low+high)/2, w*w/12), nil
		}
		return dist.GaussianUniform(), nil
	}
	if !x.IsProper() {
		return dist.Gaussian{}, fmt.Errorf("between: improper x message: %w", dist.ErrImproper)
	}

	m, v := x.GetMeanAndVariance()
	sigma := math.Sqrt(v)
	zL := (low - m) / sigma
	zU := (high - m) / sigma

	if isBetween.IsPointMass() && isBetween.Point() && zL <= -wellInsideZ && zU >= wellInsideZ {
		return insideBulkMessage(x, sigma, zL, zU)
	}

	alpha, beta, err := mixtureAlphaBeta(isBetween, sigma, zL, zU)
	if err != nil {
		return dist.Gaussian{}, err
	}
	return dist.FromAlphaBeta(x, alpha, beta)
}

// insideBulkMessage handles an observed-true truncation whose window
// covers the bulk: alpha and beta are assembled from the boundary
// densities directly, so the near-cancellation of v − V never happens.
func insideBulkMessage(x dist.Gaussian, sigma, zL, zU float64) (dist.Gaussian, error) {
	logZ := special.LogNormalProbBetween(zL, zU)
	phiL := math.Exp(special.NormalPdfLn(zL) - logZ)
	phiU := math.Exp(special.NormalPdfLn(zU) - logZ)
	alpha := (phiL - phiU) / sigma
	beta := alpha*alpha + (zU*phiU-zL*phiL)/(sigma*sigma)
	if math.IsNaN(alpha) || math.IsNaN(beta) {
		return dist.Gaussian{}, fmt.Errorf("between: bulk alpha/beta is NaN: %w", dist.ErrNumeric)
	}
	return dist.FromAlphaBeta(x, alpha, beta)
}

// regionMoments is the log weight and standardized moments of one
// segment of the partition.
type regionMoments struct {
	logW, mean, variance float64
}

// mixtureAlphaBeta moment-matches the posterior over the standardized
// variable across the active regions and converts to alpha/beta on the
// original scale.
func mixtureAlphaBeta(isBetween dist.Bernoulli, sigma, zL, zU float64) (alpha, beta float64, err error) {
	logPT := isBetween.GetLogProbTrue()
	logPF := isBetween.GetLogProbFalse()

	regions := make([]regionMoments, 0, 3)
	if !math.IsInf(logPT, -1) {
		lz, mz, vz := special.TruncatedNormalStats(zL, zU)
		regions = append(regions, regionMoments{logPT + lz, mz, vz})
	}
	if !math.IsInf(logPF, -1) {
		if !math.IsInf(zL, -1) {
			lz, mz, vz := special.TruncatedNormalStats(math.Inf(-1), zL)
			regions = append(regions, regionMoments{logPF + lz, mz, vz})
		}
		if !math.IsInf(zU, 1) {
			lz, mz, vz := special.TruncatedNormalStats(zU, math.Inf(1))
			regions = append(regions, regionMoments{logPF + lz, mz, vz})
		}
	}

	logTotal := math.Inf(-1)
	for _, r := range regions {
		logTotal = special.LogSumExp(logTotal, r.logW)
	}
	if math.IsInf(logTotal, -1) {
		return 0, 0, fmt.Errorf("between: truncation leaves zero mass: %w", dist.ErrContradiction)
	}
	if math.IsNaN(logTotal) {
		return 0, 0, fmt.Errorf("between: mixture weight is NaN: %w", dist.ErrNumeric)
	}

	var mean, second float64
	for _, r := range regions {
		w := math.Exp(r.logW - logTotal)
		mean += w * r.mean
		second += w * (r.variance + r.mean*r.mean)
	}
	variance := second - mean*mean
	if variance < 0 || math.IsNaN(mean) {
		return 0, 0, fmt.Errorf("between: mixture variance %v: %w", variance, dist.ErrNumeric)
	}
	// Standardized posterior (mean, variance) against the N(0,1) prior.
	return mean / sigma, (1 - variance) / (sigma * sigma), nil
}

// LogAverageFactorFixed returns the log-evidence contribution of an
// observed isBetween value.
func LogAverageFactorFixed(isBetween bool, x dist.Gaussian, low, high float64) (float64, error) {
	logP, err := LogProbBetween(x, low, high)
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

// LogAverageFactor returns the log-evidence contribution with an
// uncertain isBetween message: log(p·Z + (1−p)·(1−Z)) assembled in the
// log domain.
func LogAverageFactor(isBetween dist.Bernoulli, x dist.Gaussian, low, high float64) (float64, error) {
	if isBetween.IsPointMass() {
		return LogAverageFactorFixed(isBetween.Point(), x, low, high)
	}
	logP, err := LogProbBetween(x, low, high)
	if err != nil {
		return 0, err
	}
	logQ := math.Inf(-1)
	if logP != 0 {
		logQ = math.Log(-math.Expm1(logP))
	}
	return special.LogSumExp(isBetween.GetLogProbTrue()+logP, isBetween.GetLogProbFalse()+logQ), nil
}

// LogEvidenceRatio returns the factor's net contribution to the EP
// model evidence. With a Bernoulli output the fresh outgoing message
// cancels the average exactly, leaving zero; an observed assertion
// contributes its raw log-average.
func LogEvidenceRatio(isBetween dist.Bernoulli, x dist.Gaussian, low, high float64) (float64, error) {
	if isBetween.IsPointMass() {
		return LogAverageFactorFixed(isBetween.Point(), x, low, high)
	}
	return 0, nil
}
