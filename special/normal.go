package special

import "math"

// NormalPdfLn returns the log density of the standard normal at x,
// −x²/2 − ln √(2π).
func NormalPdfLn(x float64) float64 {
	return -0.5*x*x - LnSqrt2Pi
}

// NormalCdf returns Φ(x), the standard normal CDF, via erfc so the lower
// tail keeps full relative accuracy down to the underflow threshold near
// x ≈ −37.5.
func NormalCdf(x float64) float64 {
	return 0.5 * math.Erfc(-x*InvSqrt2)
}

// NormalCdfLn returns ln Φ(x) for every finite x without underflow.
//
// Regimes:
//   - x > 4: ln(1−Φ(−x)) via log1p on the tiny upper-tail mass;
//   - −4 ≤ x ≤ 4: plain log of NormalCdf;
//   - x < −4: ln Φ = ln R(x) + ln φ(x) where R is the CDF ratio, which is
//     evaluated in scaled form and never underflows.
func NormalCdfLn(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return math.NaN()
	case x > 4:
		return math.Log1p(-NormalCdf(-x))
	case x >= -4:
		return math.Log(NormalCdf(x))
	default:
		return math.Log(NormalCdfRatio(x)) + NormalPdfLn(x)
	}
}

// NormalCdfRatio returns R(x) = Φ(x)/φ(x).
//
// R is the workhorse of truncation algebra: Φ(x) and φ(x) both underflow
// deep in the lower tail while their ratio stays ≈ −1/x. For x ≤ 0 it is
// computed from the scaled complementary error function with no
// cancellation; for x > 0 the complement identity
// R(x) = √(2π)·exp(x²/2) − R(−x) is used (overflowing to +Inf only where
// the true value does).
func NormalCdfRatio(x float64) float64 {
	if math.IsNaN(x) {
		return math.NaN()
	}
	if x > 0 {
		return Sqrt2Pi*math.Exp(0.5*x*x) - NormalCdfRatio(-x)
	}
	// Φ(x)/φ(x) = √(π/2)·erfcx(−x/√2) for x ≤ 0.
	return Sqrt2Pi * 0.5 * Erfcx(-x*InvSqrt2)
}

// NormalCdfMomentRatio returns
//
//	MR(n, x) = (1/n!) · ∫₀^∞ tⁿ · exp(x·t − t²/2) dt,
//
// the n-th moment ratio of the normal CDF. MR(0, x) = R(x) and
// MR(1, x) = R′(x); successive ratios obey
//
//	MR(n, x) = (x·MR(n−1, x) + MR(n−2, x)) / n,   MR(−1, x) ≡ 1.
//
// The recurrence is used for x > −10, where its cancellation stays a few
// orders above ulp; for x ≤ −10 the alternating asymptotic series
//
//	MR(n, −y) = (1/n!) Σₖ (−1)ᵏ (n+2k)!/(k!·2ᵏ) · y^{−(n+2k+1)}
//
// already converges to machine precision. Supported for 0 ≤ n ≤ 4.
func NormalCdfMomentRatio(n int, x float64) float64 {
	if n < 0 || n > 4 {
		panic("special: NormalCdfMomentRatio supports 0 ≤ n ≤ 4")
	}
	if math.IsNaN(x) {
		return math.NaN()
	}
	if x <= momentRatioSeriesLimit {
		return momentRatioAsymptotic(n, -x)
	}
	prev := 1.0 // MR(−1, x)
	cur := NormalCdfRatio(x)
	for k := 1; k <= n; k++ {
		prev, cur = cur, (x*cur+prev)/float64(k)
	}
	return cur
}

// momentRatioAsymptotic evaluates MR(n, −y) for large y > 0 by the
// alternating asymptotic series, truncating when terms fall below
// machine precision relative to the partial sum.
func momentRatioAsymptotic(n int, y float64) float64 {
	// term_0 = n!/(n!·1·1) · y^{−(n+1)} = y^{−(n+1)}
	term := math.Pow(y, -float64(n+1))
	sum := term
	y2 := y * y
	for k := 1; k <= seriesMaxIter; k++ {
		// ratio term_k/term_{k−1} = −(n+2k−1)(n+2k)/(2k·y²)
		term *= -float64(n+2*k-1) * float64(n+2*k) / (2 * float64(k) * y2)
		next := sum + term
		if next == sum {
			break
		}
		sum = next
	}
	return sum
}
