package special

import "math"

// GaussIntervalMoments returns the raw moments
//
//	mₖ = ∫₀ʷ tᵏ · exp(−z·t − t²/2) dt,   k = 0, 1, 2,
//
// of the (unnormalized) Gaussian tail density referenced at its left
// endpoint. w may be +Inf. Precondition: w ≥ 0 and 2z + w ≥ 0 — i.e. the
// interval midpoint lies at or right of the density peak — which callers
// establish by reflection; it guarantees the endpoint density ratio
// q = exp(−z·w − w²/2) never exceeds 1.
//
// Three regimes:
//   - w = ∞: one-sided moments, k!·MR(k, −z);
//   - w·(|z|+w) small: power series in w (no subtraction at all);
//   - otherwise: difference of one-sided moments at the two endpoints,
//     which cannot cancel outside the series regime.
func GaussIntervalMoments(z, w float64) (m0, m1, m2 float64) {
	if math.IsInf(w, 1) {
		return NormalCdfRatio(-z),
			NormalCdfMomentRatio(1, -z),
			2 * NormalCdfMomentRatio(2, -z)
	}
	if w*(math.Abs(z)+w) <= intervalSeriesLimit {
		return gaussIntervalSeries(z, w)
	}
	zU := z + w
	q := math.Exp(-z*w - 0.5*w*w)
	r0L := NormalCdfRatio(-z)
	r0U := NormalCdfRatio(-zU)
	r1L := NormalCdfMomentRatio(1, -z)
	r1U := NormalCdfMomentRatio(1, -zU)
	r2L := 2 * NormalCdfMomentRatio(2, -z)
	r2U := 2 * NormalCdfMomentRatio(2, -zU)
	m0 = r0L - q*r0U
	m1 = r1L - q*(w*r0U+r1U)
	m2 = r2L - q*(w*w*r0U+2*w*r1U+r2U)
	return m0, m1, m2
}

// gaussIntervalSeries integrates exp(−z·t − t²/2) = Σ cₖ tᵏ term by term
// over [0, w]. The coefficient recurrence follows from
// f′ = −(z+t)·f:  (k+1)·c_{k+1} = −(z·cₖ + c_{k−1}),  c₀ = 1.
func gaussIntervalSeries(z, w float64) (m0, m1, m2 float64) {
	cPrev, c := 0.0, 1.0 // c_{−1}, c₀
	wp := w              // w^{k+1}
	smallRun := 0
	for k := 0; k <= seriesMaxIter; k++ {
		t0 := c * wp / float64(k+1)
		m0 += t0
		m1 += c * wp * w / float64(k+2)
		m2 += c * wp * w * w / float64(k+3)
		// A single tiny term is not convergence: at z = 0 every odd
		// coefficient vanishes exactly, so require two in a row.
		if math.Abs(t0) < 1e-18*math.Abs(m0) {
			smallRun++
			if smallRun == 2 {
				break
			}
		} else {
			smallRun = 0
		}
		cPrev, c = c, -(z*c+cPrev)/float64(k+1)
		wp *= w
	}
	return m0, m1, m2
}

// TruncatedNormalStats returns the log mass, mean, and variance of a
// standard normal truncated to [zL, zU].
//
// Precondition: zL ≤ zU (callers reject inverted intervals as
// contradictions before reaching here). Degenerate results:
//   - zL = −∞, zU = +∞: (0, 0, 1);
//   - zL = zU: (−Inf, zL, 0), the point-mass limit.
//
// The computation is reflected so the interval midpoint is right of the
// mode (one hard tail case instead of two), then:
//   - bulk-interior intervals use the direct CDF-difference form, whose
//     φ and z·φ terms are tiny and exact;
//   - everything else runs through GaussIntervalMoments referenced at the
//     near bound, which stays accurate arbitrarily deep in the tail.
func TruncatedNormalStats(zL, zU float64) (logZ, mean, variance float64) {
	if math.IsInf(zL, -1) && math.IsInf(zU, 1) {
		return 0, 0, 1
	}
	if zL == zU {
		return math.Inf(-1), zL, 0
	}
	if zL+zU < 0 {
		logZ, mean, variance = TruncatedNormalStats(-zU, -zL)
		return logZ, -mean, variance
	}
	if zL <= -1 {
		// Bulk interior: Z is order 1, tail corrections are tiny.
		phiL := math.Exp(NormalPdfLn(zL))
		phiU, zphiU := 0.0, 0.0
		if !math.IsInf(zU, 1) {
			phiU = math.Exp(NormalPdfLn(zU))
			zphiU = zU * phiU
		}
		s := NormalCdf(zL) + NormalCdf(-zU)
		z := 1 - s
		mean = (phiL - phiU) / z
		variance = 1 + (zL*phiL-zphiU)/z - mean*mean
		return math.Log1p(-s), mean, variance
	}
	w := zU - zL
	m0, m1, m2 := GaussIntervalMoments(zL, w)
	r1 := m1 / m0
	return NormalPdfLn(zL) + math.Log(m0), zL + r1, m2/m0 - r1*r1
}

// LogNormalProbBetween returns log(Φ(zU) − Φ(zL)) for zL ≤ zU, choosing
// between the CDF-difference and reflected-survival forms and falling
// back to the endpoint-referenced series where the two CDFs are nearly
// equal. −Inf when zL = zU.
func LogNormalProbBetween(zL, zU float64) float64 {
	logZ, _, _ := TruncatedNormalStats(zL, zU)
	return logZ
}
