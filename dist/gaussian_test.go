package dist

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/epkernel/special"
)

// TestGaussian_MomentRoundTrip converts (mean, variance) to natural
// parameters and back.
func TestGaussian_MomentRoundTrip(t *testing.T) {
	cases := []struct{ mean, variance float64 }{
		{0, 1},
		{2, 4},
		{-3.5, 0.25},
		{1e6, 1e-6},
	}
	for _, c := range cases {
		g := NewGaussian(c.mean, c.variance)
		m, v := g.GetMeanAndVariance()
		assert.InDelta(t, c.mean, m, 1e-9*math.Abs(c.mean)+1e-12, "mean should survive the round trip")
		assert.InDelta(t, c.variance, v, 1e-9*c.variance, "variance should survive the round trip")
	}
}

// TestGaussian_LogProb compares against gonum's univariate normal.
func TestGaussian_LogProb(t *testing.T) {
	g := NewGaussian(1.5, 4)
	ref := distuv.Normal{Mu: 1.5, Sigma: 2}
	for _, x := range []float64{-3, 0, 1.5, 2.7, 10} {
		assert.InDelta(t, ref.LogProb(x), g.GetLogProb(x), 1e-12,
			"log density should match the reference at x=%v", x)
	}
}

// TestGaussian_ProductAndRatio multiplies two Gaussians and divides the
// result back out.
func TestGaussian_ProductAndRatio(t *testing.T) {
	a := NewGaussian(0, 1)
	b := NewGaussian(2, 1)

	var prod Gaussian
	require.NoError(t, prod.SetToProduct(a, b))
	m, v := prod.GetMeanAndVariance()
	assert.InDelta(t, 1.0, m, 1e-12, "product of equal-precision Gaussians centers between the means")
	assert.InDelta(t, 0.5, v, 1e-12, "precisions add under multiplication")

	var ratio Gaussian
	require.NoError(t, ratio.SetToRatio(prod, b))
	assert.InDelta(t, a.MeanTimesPrecision, ratio.MeanTimesPrecision, 1e-12, "ratio should undo the product")
	assert.InDelta(t, a.Precision, ratio.Precision, 1e-12, "ratio should undo the product")
}

// TestGaussian_PointMassAndUniform exercises the degenerate states.
func TestGaussian_PointMassAndUniform(t *testing.T) {
	p := GaussianPointMass(3)
	assert.True(t, p.IsPointMass(), "infinite precision encodes a point mass")
	m, v := p.GetMeanAndVariance()
	assert.Equal(t, 3.0, m, "point mass mean is the point")
	assert.Zero(t, v, "point mass has zero variance")

	u := GaussianUniform()
	assert.True(t, u.IsUniform(), "zero natural parameters encode the uniform state")

	// Multiplying by uniform is the identity; by a point mass it collapses.
	var g Gaussian
	require.NoError(t, g.SetToProduct(p, u))
	assert.True(t, g.IsPointMass(), "uniform absorbs into the point mass")
	assert.Equal(t, 3.0, g.Point(), "the point location survives")

	// Two point masses at different locations cannot be reconciled.
	err := g.SetToProduct(p, GaussianPointMass(4))
	assert.ErrorIs(t, err, ErrContradiction, "distinct point masses contradict")
}

// TestGaussian_RatioImproper checks the improper-result policy with and
// without ForceProper.
func TestGaussian_RatioImproper(t *testing.T) {
	num := NewGaussian(0, 2) // precision 0.5
	den := NewGaussian(0, 1) // precision 1

	var g Gaussian
	err := g.SetToRatio(num, den)
	assert.ErrorIs(t, err, ErrImproper, "negative result precision is improper")

	ForceProper = true
	defer func() { ForceProper = false }()
	require.NoError(t, g.SetToRatio(num, den), "ForceProper admits the ratio")
	assert.Zero(t, g.Precision, "the precision clamps to the uniform boundary")
}

// TestGaussian_LogAverageOf checks ∫N(x;m₁,v₁)N(x;m₂,v₂)dx = N(m₁;m₂,v₁+v₂).
func TestGaussian_LogAverageOf(t *testing.T) {
	a := NewGaussian(1, 2)
	b := NewGaussian(-0.5, 3)
	want := special.NormalPdfLn((1 - (-0.5)) / math.Sqrt(5))
	want -= 0.5 * math.Log(5) // scale of the convolved density
	assert.InDelta(t, want, a.GetLogAverageOf(b), 1e-12,
		"overlap integral should equal the convolution density at the mean gap")
	assert.InDelta(t, a.GetLogAverageOf(b), b.GetLogAverageOf(a), 1e-12,
		"the overlap integral is symmetric")
}

// TestGaussian_AverageLog cross-checks E_q[log p] against a direct
// expectation of the quadratic form.
func TestGaussian_AverageLog(t *testing.T) {
	p := NewGaussian(1, 2)
	q := NewGaussian(0.5, 0.25)
	em, ev := q.GetMeanAndVariance()
	want := -0.5*math.Log(2*math.Pi*2) - ((em-1)*(em-1)+ev)/(2*2)
	assert.InDelta(t, want, p.GetAverageLog(q), 1e-12, "E_q[log p] for Gaussians is closed form")
}

// TestGaussian_AverageLog_PointMass pins the delta convention: a point
// mass scored at its own location is 0, matching GetLogProb, and −Inf
// anywhere else.
func TestGaussian_AverageLog_PointMass(t *testing.T) {
	pm := GaussianPointMass(2.5)
	assert.Zero(t, pm.GetAverageLog(GaussianPointMass(2.5)),
		"identical point masses must agree with GetLogProb at the point")
	assert.Zero(t, pm.GetLogProb(2.5), "GetLogProb at the point is the reference")
	assert.True(t, math.IsInf(pm.GetAverageLog(GaussianPointMass(2.4)), -1),
		"a mismatched point has zero probability")
	assert.True(t, math.IsInf(pm.GetAverageLog(NewGaussian(2.5, 1)), -1),
		"a diffuse q cannot integrate a delta's log density")
}

// TestGaussian_FromAlphaBeta verifies the posterior identities
// m_post = m + v·α and v_post = v − v²·β after multiplying the message
// back onto the prior.
func TestGaussian_FromAlphaBeta(t *testing.T) {
	prior := NewGaussian(0.3, 1.7)
	alpha, beta := 0.5, 0.2

	msg, err := FromAlphaBeta(prior, alpha, beta)
	require.NoError(t, err, "proper alpha/beta pair must build a message")
	var post Gaussian
	require.NoError(t, post.SetToProduct(prior, msg))
	m, v := prior.GetMeanAndVariance()
	pm, pv := post.GetMeanAndVariance()
	assert.InDelta(t, m+v*alpha, pm, 1e-10, "posterior mean identity")
	assert.InDelta(t, v-v*v*beta, pv, 1e-10, "posterior variance identity")
}

// TestGaussian_FromAlphaBeta_Degenerate covers β = τ (zero posterior
// variance) and a point-mass prior.
func TestGaussian_FromAlphaBeta_Degenerate(t *testing.T) {
	prior := NewGaussian(0, 1)
	msg, err := FromAlphaBeta(prior, 2, prior.Precision)
	require.NoError(t, err)
	assert.True(t, msg.IsPointMass(), "β = τ collapses the message to a point")
	assert.InDelta(t, 2.0, msg.Point(), 1e-12, "the point is (mtp+α)/τ")

	msg, err = FromAlphaBeta(GaussianPointMass(1), 0.5, 0.1)
	require.NoError(t, err)
	assert.True(t, msg.IsUniform(), "a point-mass prior yields a uniform message")

	_, err = FromAlphaBeta(prior, math.NaN(), 0.1)
	assert.True(t, errors.Is(err, ErrNaN), "NaN score must be rejected, not propagated")
}

func TestGaussian_RatioUndefined(t *testing.T) {
	var g Gaussian
	err := g.SetToRatio(NewGaussian(0, 1), GaussianPointMass(2))
	assert.True(t, errors.Is(err, ErrUndefinedRatio), "dividing by a point mass is undefined")
}
