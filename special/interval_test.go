package special_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/katalvlaran/epkernel/special"
)

// numericIntervalMoment integrates tᵏ·exp(−z·t−t²/2) over [0,w] with a
// dense fixed-order Gauss-Legendre rule; the oracle for the analytic paths.
func numericIntervalMoment(k int, z, w float64) float64 {
	f := func(t float64) float64 {
		return math.Pow(t, float64(k)) * math.Exp(-z*t-0.5*t*t)
	}
	return quad.Fixed(f, 0, w, 200, quad.Legendre{}, 0)
}

// TestGaussIntervalMoments_AgainstQuadrature checks both the series and
// the endpoint-difference regimes against brute-force integration.
func TestGaussIntervalMoments_AgainstQuadrature(t *testing.T) {
	cases := []struct{ z, w float64 }{
		{0, 0.1},   // series regime, symmetric peak
		{2, 0.2},   // series regime, decaying
		{-0.4, 1},  // mildly interior reference point
		{1, 3},     // difference regime
		{5, 2},     // steep decay
		{30, 1},    // deep tail, narrow-ish
		{100, 0.5}, // deep tail
	}
	for _, c := range cases {
		m0, m1, m2 := special.GaussIntervalMoments(c.z, c.w)
		assert.InEpsilon(t, numericIntervalMoment(0, c.z, c.w), m0, 1e-9, "m0 z=%v w=%v", c.z, c.w)
		assert.InEpsilon(t, numericIntervalMoment(1, c.z, c.w), m1, 1e-9, "m1 z=%v w=%v", c.z, c.w)
		assert.InEpsilon(t, numericIntervalMoment(2, c.z, c.w), m2, 1e-8, "m2 z=%v w=%v", c.z, c.w)
	}
}

// TestGaussIntervalMoments_SymmetricSeries pins the z=0 series against the
// hand expansion of ∫₀ʷ tᵏ·exp(−t²/2): every odd series coefficient is
// exactly zero there, so the even curvature terms must still be summed.
func TestGaussIntervalMoments_SymmetricSeries(t *testing.T) {
	w := 0.1
	m0, m1, m2 := special.GaussIntervalMoments(0, w)
	w3, w5 := w*w*w, w*w*w*w*w
	assert.InEpsilon(t, w-w3/6+w5/40, m0, 1e-8, "m0 must carry the −w³/6 term")
	assert.InEpsilon(t, w*w/2-w3*w/8+w5*w/48, m1, 1e-8, "m1 expansion")
	assert.InEpsilon(t, w3/3-w5/10+w5*w*w/56, m2, 1e-8, "m2 expansion")
}

// TestGaussIntervalMoments_OneSided pins the w=∞ branch to the
// moment-ratio identities.
func TestGaussIntervalMoments_OneSided(t *testing.T) {
	for _, z := range []float64{-0.5, 0, 1, 10} {
		m0, m1, m2 := special.GaussIntervalMoments(z, math.Inf(1))
		assert.InEpsilon(t, special.NormalCdfRatio(-z), m0, 1e-14)
		assert.InEpsilon(t, special.NormalCdfMomentRatio(1, -z), m1, 1e-14)
		assert.InEpsilon(t, 2*special.NormalCdfMomentRatio(2, -z), m2, 1e-14)
	}
}

// TestTruncatedNormalStats_BulkAgainstQuadrature compares mean/variance
// with direct numerical integration over a moderate interval.
func TestTruncatedNormalStats_BulkAgainstQuadrature(t *testing.T) {
	cases := [][2]float64{{-1, 2}, {-3, -0.5}, {0.5, 4}, {-0.2, 0.3}, {-6, 6}}
	for _, c := range cases {
		zL, zU := c[0], c[1]
		f := func(k int) float64 {
			return quad.Fixed(func(x float64) float64 {
				return math.Pow(x, float64(k)) * math.Exp(special.NormalPdfLn(x))
			}, zL, zU, 300, quad.Legendre{}, 0)
		}
		z0, z1, z2 := f(0), f(1), f(2)
		wantMean := z1 / z0
		wantVar := z2/z0 - wantMean*wantMean

		logZ, mean, variance := special.TruncatedNormalStats(zL, zU)
		assert.InDelta(t, math.Log(z0), logZ, 1e-10, "logZ [%v,%v]", zL, zU)
		assert.InDelta(t, wantMean, mean, 1e-10, "mean [%v,%v]", zL, zU)
		assert.InDelta(t, wantVar, variance, 1e-9, "variance [%v,%v]", zL, zU)
	}
}

// TestTruncatedNormalStats_DeepTail: an interval one hundred standard
// deviations out must yield a finite log mass and moments hugging the
// near bound.
func TestTruncatedNormalStats_DeepTail(t *testing.T) {
	logZ, mean, variance := special.TruncatedNormalStats(100, 101)
	require.False(t, math.IsInf(logZ, -1), "mass underflowed to log 0")
	require.False(t, math.IsNaN(logZ))
	assert.Less(t, logZ, -5000.0)
	assert.Greater(t, logZ, -5210.0)
	// Near-exponential tail: mean ≈ 100 + 1/100, variance ≈ 1/100².
	assert.InDelta(t, 100.0099, mean, 5e-4)
	assert.InDelta(t, 1e-4, variance, 5e-6)
	assert.Greater(t, variance, 0.0)
}

// TestTruncatedNormalStats_ReflectionSymmetry: flipping the interval
// through zero must negate the mean and preserve mass and variance.
func TestTruncatedNormalStats_ReflectionSymmetry(t *testing.T) {
	cases := [][2]float64{{0.5, 2}, {3, 10}, {-1, 4}, {50, 51}}
	for _, c := range cases {
		lz1, m1, v1 := special.TruncatedNormalStats(c[0], c[1])
		lz2, m2, v2 := special.TruncatedNormalStats(-c[1], -c[0])
		assert.InDelta(t, lz1, lz2, 1e-12*(1+math.Abs(lz1)), "mass [%v,%v]", c[0], c[1])
		assert.InDelta(t, m1, -m2, 1e-10*(1+math.Abs(m1)), "mean [%v,%v]", c[0], c[1])
		assert.InDelta(t, v1, v2, 1e-10, "variance [%v,%v]", c[0], c[1])
	}
}

// TestTruncatedNormalStats_Degenerate covers the closed-form limits.
func TestTruncatedNormalStats_Degenerate(t *testing.T) {
	logZ, mean, variance := special.TruncatedNormalStats(math.Inf(-1), math.Inf(1))
	assert.Equal(t, 0.0, logZ)
	assert.Equal(t, 0.0, mean)
	assert.Equal(t, 1.0, variance)

	logZ, mean, variance = special.TruncatedNormalStats(5, 5)
	assert.True(t, math.IsInf(logZ, -1), "zero-width interval has zero mass")
	assert.Equal(t, 5.0, mean)
	assert.Equal(t, 0.0, variance)
}

// TestLogNormalProbBetween_Properties: basic interval-mass laws.
func TestLogNormalProbBetween_Properties(t *testing.T) {
	// Never positive.
	for _, c := range [][2]float64{{-1, 1}, {-10, 10}, {3, 3.001}, {-40, -39}} {
		lp := special.LogNormalProbBetween(c[0], c[1])
		assert.LessOrEqual(t, lp, 0.0, "[%v,%v]", c[0], c[1])
		assert.False(t, math.IsNaN(lp))
	}
	// Event plus complement sums to one.
	a, b := -0.7, 1.3
	in := math.Exp(special.LogNormalProbBetween(a, b))
	lo := math.Exp(special.LogNormalProbBetween(math.Inf(-1), a))
	hi := math.Exp(special.LogNormalProbBetween(b, math.Inf(1)))
	assert.InDelta(t, 1.0, in+lo+hi, 1e-12)

	// Limits.
	assert.InDelta(t, 0.0, special.LogNormalProbBetween(math.Inf(-1), math.Inf(1)), 0)
	assert.True(t, math.IsInf(special.LogNormalProbBetween(2, 2), -1))
	// Narrow interval: log Z ≈ log(width·φ(z)).
	width := 1e-12
	lp := special.LogNormalProbBetween(1, 1+width)
	assert.InDelta(t, math.Log(width)+special.NormalPdfLn(1), lp, 1e-6)
}
