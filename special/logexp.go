package special

import "math"

// logAddThreshold: exp of anything below this contributes less than one
// ulp to a log-domain sum and is skipped.
const logAddThreshold = -37.0

// LogSumExp returns log(exp(a) + exp(b)) without overflow, treating −Inf
// as log 0.
func LogSumExp(a, b float64) float64 {
	if a < b {
		a, b = b, a
	}
	if math.IsInf(b, -1) || b-a < logAddThreshold {
		return a
	}
	return a + math.Log1p(math.Exp(b-a))
}

// LogDiffExp returns log(exp(a) − exp(b)) for a ≥ b, −Inf when a == b.
// Callers must not pass a < b; the result would be NaN and the operator
// layer treats that as an internal error.
func LogDiffExp(a, b float64) float64 {
	if math.IsInf(b, -1) {
		return a
	}
	if a == b {
		return math.Inf(-1)
	}
	return a + math.Log1p(-math.Exp(b-a))
}

// Logistic returns 1/(1+exp(−x)), saturating cleanly at 0 and 1.
func Logistic(x float64) float64 {
	if x > 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// LogisticLn returns log Logistic(x) = −log(1+exp(−x)) without overflow
// for any x.
func LogisticLn(x float64) float64 {
	if x < 0 {
		return x - math.Log1p(math.Exp(x))
	}
	return -math.Log1p(math.Exp(-x))
}

// Logit returns log(p/(1−p)). p outside [0,1] yields NaN, which callers
// surface as an error; p of exactly 0 or 1 maps to ∓Inf (point masses).
func Logit(p float64) float64 {
	return math.Log(p) - math.Log1p(-p)
}
