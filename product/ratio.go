package product

import (
	"fmt"
	"math"

	"github.com/katalvlaran/epkernel/dist"
)

// The Ratio = A ÷ B factor is the product factor read backwards:
// A = Ratio·B. Every ratio operator delegates to the product machinery
// with the numerator A in the product role and Ratio in the A role.

// RatioAverageConditional returns the EP message to Ratio, given the
// incoming ratio message and the numerator and denominator operands.
//
// The a/0 corner follows the limit semantics of the exact factor: with
// a ≠ 0 and b = 0 the ratio escapes to ±∞ with the sign of a/b⁺, so an
// asserted infinite ratio of matching sign is confirmed as a point-mass
// limit, while a sign mismatch or any finite assertion is a
// contradiction.
func RatioAverageConditional(ratio dist.Gaussian, a, b Operand) (dist.Gaussian, error) {
	if b.IsFixed() && b.Value() == 0 {
		if a.IsFixed() && a.Value() == 0 {
			// 0/0 constrains nothing.
			return dist.GaussianUniform(), nil
		}
		if a.IsFixed() {
			if ratio.IsPointMass() && math.IsInf(ratio.Point(), 0) &&
				math.Signbit(ratio.Point()) == math.Signbit(a.Value()) {
				return dist.GaussianPointMass(ratio.Point()), nil
			}
			return dist.Gaussian{}, fmt.Errorf("product: ratio %v/0: %w", a.Value(), dist.ErrContradiction)
		}
		return dist.Gaussian{}, fmt.Errorf("product: ratio of a random numerator by fixed 0: %w", dist.ErrContradiction)
	}
	return AAverageConditional(a.asGaussian(), Random(ratio), b)
}

// RatioNumeratorAverageConditional returns the EP message to the
// numerator A of Ratio = A ÷ B: A plays the product role of
// A = Ratio·B.
func RatioNumeratorAverageConditional(a dist.Gaussian, ratio, b Operand) (dist.Gaussian, error) {
	return ProductAverageConditional(a, ratio, b)
}

// RatioDenominatorAverageConditional returns the EP message to the
// denominator B of Ratio = A ÷ B.
func RatioDenominatorAverageConditional(a dist.Gaussian, ratio, b Operand) (dist.Gaussian, error) {
	return BAverageConditional(a, ratio, b)
}

// RatioLogAverageFactor returns the log-evidence contribution of the
// ratio factor, the product evidence of A = Ratio·B.
func RatioLogAverageFactor(a dist.Gaussian, ratio, b Operand) (float64, error) {
	return LogAverageFactor(a, ratio, b)
}

// RatioLogEvidenceRatio subtracts the log-average of the message the
// ratio variable consumed, mirroring LogEvidenceRatio with the roles
// transposed: here the numerator A is the derived child.
func RatioLogEvidenceRatio(a dist.Gaussian, ratio, b Operand, toRatio dist.Gaussian) (float64, error) {
	laf, err := RatioLogAverageFactor(a, ratio, b)
	if err != nil {
		return 0, err
	}
	if ratio.IsFixed() {
		return laf, nil
	}
	return laf - toRatio.GetLogAverageOf(ratio.Dist()), nil
}
