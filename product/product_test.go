package product

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/katalvlaran/epkernel/dist"
	"github.com/katalvlaran/epkernel/special"
)

// posteriorOracle integrates prior(a)·exp(logLik(a)) on a dense finite
// grid and reports the normalizer and the posterior mean and variance.
// It shares no node layout with the operator's two-piece rule.
func posteriorOracle(prior dist.Gaussian, logLik func(float64) float64) (z, mean, variance float64) {
	m, v := prior.GetMeanAndVariance()
	sigma := math.Sqrt(v)
	lo, hi := m-12*sigma, m+12*sigma
	f := func(k int) func(float64) float64 {
		return func(a float64) float64 {
			return math.Pow(a, float64(k)) * math.Exp(prior.GetLogProb(a)+logLik(a))
		}
	}
	z = quad.Fixed(f(0), lo, hi, 1200, quad.Legendre{}, 0)
	mean = quad.Fixed(f(1), lo, hi, 1200, quad.Legendre{}, 0) / z
	e2 := quad.Fixed(f(2), lo, hi, 1200, quad.Legendre{}, 0) / z
	return z, mean, e2 - mean*mean
}

// posteriorOf multiplies a message onto a prior and reports moments.
func posteriorOf(t *testing.T, prior, msg dist.Gaussian) (float64, float64) {
	t.Helper()
	var post dist.Gaussian
	require.NoError(t, post.SetToProduct(prior, msg))
	return post.GetMeanAndVariance()
}

// TestProductAverageConditional_Fixed covers the closed-form operand
// combinations.
func TestProductAverageConditional_Fixed(t *testing.T) {
	// Two observations collapse to their product.
	msg, err := ProductAverageConditional(dist.GaussianUniform(), Fixed(3), Fixed(-2))
	require.NoError(t, err)
	assert.True(t, msg.IsPointMass(), "fixed·fixed is deterministic")
	assert.Equal(t, -6.0, msg.Point(), "the point is a·b")

	// One observation scales the other belief.
	msg, err = ProductAverageConditional(dist.GaussianUniform(), Fixed(2), Random(dist.NewGaussian(1, 1)))
	require.NoError(t, err)
	m, v := msg.GetMeanAndVariance()
	assert.InDelta(t, 2.0, m, 1e-12, "the mean scales by c")
	assert.InDelta(t, 4.0, v, 1e-12, "the variance scales by c²")

	// A zero observation pins the product.
	msg, err = ProductAverageConditional(dist.GaussianUniform(), Fixed(0), Random(dist.NewGaussian(1, 1)))
	require.NoError(t, err)
	assert.True(t, msg.IsPointMass(), "0·B is deterministic")
	assert.Equal(t, 0.0, msg.Point(), "the point is zero")
}

// TestProductAverageConditional_UniformProduct checks the exact moment
// projection for independent random operands.
func TestProductAverageConditional_UniformProduct(t *testing.T) {
	a := Random(dist.NewGaussian(2, 3))
	b := Random(dist.NewGaussian(-1, 0.5))
	msg, err := ProductAverageConditional(dist.GaussianUniform(), a, b)
	require.NoError(t, err)
	m, v := msg.GetMeanAndVariance()
	assert.InDelta(t, -2.0, m, 1e-12, "E[AB] = mₐ·m_b")
	assert.InDelta(t, 4*0.5+1*3+3*0.5, v, 1e-12, "V[AB] = mₐ²v_b + m_b²vₐ + vₐv_b")
}

// TestProductAverageConditional_Quadrature compares the quadrature path
// against a dense-grid oracle through the resulting posterior.
func TestProductAverageConditional_Quadrature(t *testing.T) {
	product := dist.NewGaussian(5, 2)
	a := dist.NewGaussian(2, 1)
	b := dist.NewGaussian(3, 1.5)

	msg, err := ProductAverageConditional(product, Random(a), Random(b))
	require.NoError(t, err)
	gotM, gotV := posteriorOf(t, product, msg)

	// Oracle: dense-grid mixture over a of the conditional x|a stats.
	mp, vp := product.GetMeanAndVariance()
	mb, vb := b.GetMeanAndVariance()
	var z, xm, x2 float64
	m, v := a.GetMeanAndVariance()
	sigma := math.Sqrt(v)
	mix := func(av float64) float64 {
		s2 := vp + av*av*vb
		return math.Exp(a.GetLogProb(av) + special.NormalPdfLn((mp-av*mb)/math.Sqrt(s2)) - 0.5*math.Log(s2))
	}
	z = quad.Fixed(mix, m-12*sigma, m+12*sigma, 1200, quad.Legendre{}, 0)
	xm = quad.Fixed(func(av float64) float64 {
		denom := av*av*vb + vp
		cm := (av*mb*vp + mp*av*av*vb) / denom
		return mix(av) * cm
	}, m-12*sigma, m+12*sigma, 1200, quad.Legendre{}, 0) / z
	x2 = quad.Fixed(func(av float64) float64 {
		denom := av*av*vb + vp
		cm := (av*mb*vp + mp*av*av*vb) / denom
		cv := av * av * vb * vp / denom
		return mix(av) * (cv + cm*cm)
	}, m-12*sigma, m+12*sigma, 1200, quad.Legendre{}, 0) / z

	assert.InDelta(t, xm, gotM, 5e-3, "posterior product mean should match the oracle")
	assert.InDelta(t, x2-xm*xm, gotV, 5e-3, "posterior product variance should match the oracle")
}

// TestAAverageConditional_FixedCounterpart checks the exact scaling
// branch and the zero-counterpart cases.
func TestAAverageConditional_FixedCounterpart(t *testing.T) {
	product := dist.NewGaussian(4, 1)

	msg, err := AAverageConditional(product, Random(dist.NewGaussian(0, 10)), Fixed(2))
	require.NoError(t, err)
	m, v := msg.GetMeanAndVariance()
	assert.InDelta(t, 2.0, m, 1e-12, "the product message divides by c")
	assert.InDelta(t, 0.25, v, 1e-12, "the variance divides by c²")

	// b = 0 erases all information about A.
	msg, err = AAverageConditional(product, Random(dist.NewGaussian(0, 10)), Fixed(0))
	require.NoError(t, err)
	assert.True(t, msg.IsUniform(), "a·0 carries no information about a")

	// ...unless the product is asserted nonzero.
	_, err = AAverageConditional(dist.GaussianPointMass(4), Random(dist.NewGaussian(0, 10)), Fixed(0))
	assert.ErrorIs(t, err, dist.ErrContradiction, "4 = a·0 has no solution")
}

// TestAAverageConditional_Quadrature compares the quadrature posterior
// over A against the dense-grid oracle.
func TestAAverageConditional_Quadrature(t *testing.T) {
	product := dist.NewGaussian(5, 2)
	a := dist.NewGaussian(2, 1)
	b := dist.NewGaussian(3, 1.5)

	msg, err := AAverageConditional(product, Random(a), Random(b))
	require.NoError(t, err)
	gotM, gotV := posteriorOf(t, a, msg)

	mp, vp := product.GetMeanAndVariance()
	mb, vb := b.GetMeanAndVariance()
	_, wantM, wantV := posteriorOracle(a, func(av float64) float64 {
		s2 := vp + av*av*vb
		return special.NormalPdfLn((mp-av*mb)/math.Sqrt(s2)) - 0.5*math.Log(s2)
	})
	assert.InDelta(t, wantM, gotM, 5e-3, "posterior mean over A should match the oracle")
	assert.InDelta(t, wantV, gotV, 5e-3, "posterior variance over A should match the oracle")
}

// TestBAverageConditional_Mirror checks the A/B symmetry.
func TestBAverageConditional_Mirror(t *testing.T) {
	product := dist.NewGaussian(5, 2)
	a := dist.NewGaussian(2, 1)
	b := dist.NewGaussian(3, 1.5)
	toB, err := BAverageConditional(product, Random(a), Random(b))
	require.NoError(t, err)
	toA, err := AAverageConditional(product, Random(b), Random(a))
	require.NoError(t, err)
	assert.InDelta(t, toA.MeanTimesPrecision, toB.MeanTimesPrecision, 1e-12, "swapping operands swaps the messages")
	assert.InDelta(t, toA.Precision, toB.Precision, 1e-12, "swapping operands swaps the messages")
}

// TestLogAverageFactor covers the closed forms and the quadrature path.
func TestLogAverageFactor(t *testing.T) {
	// Both fixed: the product message is evaluated at a·b.
	product := dist.NewGaussian(5, 2)
	got, err := LogAverageFactor(product, Fixed(2), Fixed(3))
	require.NoError(t, err)
	assert.InDelta(t, product.GetLogProb(6), got, 1e-12, "fixed·fixed evaluates the density")

	// One fixed: the affine image is averaged.
	got, err = LogAverageFactor(product, Fixed(2), Random(dist.NewGaussian(3, 1.5)))
	require.NoError(t, err)
	want := product.GetLogAverageOf(dist.NewGaussian(6, 6))
	assert.InDelta(t, want, got, 1e-12, "the affine image is N(c·m_b, c²·v_b)")

	// Structural contradiction.
	_, err = LogAverageFactor(dist.GaussianPointMass(4), Fixed(0), Random(dist.NewGaussian(0, 1)))
	assert.ErrorIs(t, err, dist.ErrContradiction, "4 = 0·b has no solution")

	// Both random: against the dense-grid oracle.
	a := dist.NewGaussian(2, 1)
	b := dist.NewGaussian(3, 1.5)
	got, err = LogAverageFactor(product, Random(a), Random(b))
	require.NoError(t, err)
	mp, vp := product.GetMeanAndVariance()
	mb, vb := b.GetMeanAndVariance()
	z, _, _ := posteriorOracle(a, func(av float64) float64 {
		s2 := vp + av*av*vb
		return special.NormalPdfLn((mp-av*mb)/math.Sqrt(s2)) - 0.5*math.Log(s2)
	})
	assert.InDelta(t, math.Log(z), got, 1e-3, "evidence should match the oracle")
}

// TestLogEvidenceRatio subtracts the consumed message's log-average.
func TestLogEvidenceRatio(t *testing.T) {
	product := dist.NewGaussian(5, 2)
	a := Random(dist.NewGaussian(2, 1))
	b := Random(dist.NewGaussian(3, 1.5))
	toProduct, err := ProductAverageConditional(product, a, b)
	require.NoError(t, err)

	laf, err := LogAverageFactor(product, a, b)
	require.NoError(t, err)
	ler, err := LogEvidenceRatio(product, a, b, toProduct)
	require.NoError(t, err)
	assert.InDelta(t, laf-toProduct.GetLogAverageOf(product), ler, 1e-12,
		"the evidence ratio subtracts the consumed message")

	// An observed product consumes nothing.
	obs := dist.GaussianPointMass(6)
	laf, err = LogAverageFactor(obs, Fixed(2), b)
	require.NoError(t, err)
	ler, err = LogEvidenceRatio(obs, Fixed(2), b, dist.GaussianUniform())
	require.NoError(t, err)
	assert.InDelta(t, laf, ler, 1e-12, "a point-mass product keeps the raw evidence")
}

// TestOperand_PointMassNormalizes makes degenerate beliefs structural.
func TestOperand_PointMassNormalizes(t *testing.T) {
	o := Random(dist.GaussianPointMass(3))
	assert.True(t, o.IsFixed(), "point-mass beliefs normalize to Fixed")
	assert.Equal(t, 3.0, o.Value(), "the point survives")

	// Point-mass reduction: the operand behaves exactly like Fixed.
	product := dist.NewGaussian(5, 2)
	b := Random(dist.NewGaussian(3, 1.5))
	viaPoint, err := ProductAverageConditional(product, o, b)
	require.NoError(t, err)
	viaFixed, err := ProductAverageConditional(product, Fixed(3), b)
	require.NoError(t, err)
	assert.Equal(t, viaFixed, viaPoint, "Random(point mass) and Fixed agree on every path")
}

// TestQuadrature_WideBudget hits the narrow-likelihood branch and still
// matches the oracle.
func TestQuadrature_WideBudget(t *testing.T) {
	product := dist.NewGaussian(6, 0.001) // far sharper than the priors
	a := dist.NewGaussian(2, 4)
	b := dist.NewGaussian(3, 0.01)
	require.Equal(t, WideQuadratureNodeCount,
		chooseNodes(a, 3, 0.01, 6, 0.001), "a narrow ridge should widen the node budget")

	msg, err := AAverageConditional(product, Random(a), Random(b))
	require.NoError(t, err)
	gotM, gotV := posteriorOf(t, a, msg)
	mp, vp := product.GetMeanAndVariance()
	mb, vb := b.GetMeanAndVariance()
	_, wantM, wantV := posteriorOracle(a, func(av float64) float64 {
		s2 := vp + av*av*vb
		return special.NormalPdfLn((mp-av*mb)/math.Sqrt(s2)) - 0.5*math.Log(s2)
	})
	assert.InDelta(t, wantM, gotM, 0.02, "posterior mean under a sharp product message")
	assert.InDelta(t, wantV, gotV, 0.02, "posterior variance under a sharp product message")
}
