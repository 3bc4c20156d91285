package special

import "math"

// Erfcx computes the scaled complementary error function
//
//	erfcx(x) = exp(x²)·erfc(x),
//
// which stays representable for arbitrarily large x where erfc(x) itself
// underflows and exp(x²) overflows.
//
// Strategy:
//   - x < 0: erfc(x) = 2 − erfc(−x), so erfcx(x) = 2·exp(x²) − erfcx(−x).
//     Overflows to +Inf for x below about −26.6, which is the correct
//     limit value.
//   - 0 ≤ x < 26: direct product exp(x²)·erfc(x); erfc stays a normal
//     float and exp(x²) stays finite on this whole range, so the product
//     carries full precision.
//   - x ≥ 26: alternating asymptotic series
//     1/(x√π)·Σ (−1)ᵏ (2k−1)!!/(2x²)ᵏ, whose smallest term is already
//     below machine epsilon at the handover.
func Erfcx(x float64) float64 {
	if math.IsNaN(x) {
		return math.NaN()
	}
	if x < 0 {
		return 2*math.Exp(x*x) - Erfcx(-x)
	}
	if x < erfcxDirectLimit {
		return math.Exp(x*x) * math.Erfc(x)
	}
	return erfcxAsymptotic(x)
}

// erfcxAsymptotic sums the large-x expansion of erfcx. The series is
// divergent in the tail, so the loop stops at the first non-decreasing
// term; for x ≥ 26 that happens far below 1 ulp of the sum.
func erfcxAsymptotic(x float64) float64 {
	inv2x2 := 1 / (2 * x * x)
	sum := 1.0
	term := 1.0
	for k := 0; k < seriesMaxIter; k++ {
		next := -term * float64(2*k+1) * inv2x2
		if math.Abs(next) >= math.Abs(term) {
			break
		}
		term = next
		sum += term
		if math.Abs(term) < 1e-17*sum {
			break
		}
	}
	return sum * InvSqrtPi / x
}
