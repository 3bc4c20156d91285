package product

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/epkernel/dist"
)

// TestRatioAverageConditional_FixedDenominator scales the numerator
// message by 1/b.
func TestRatioAverageConditional_FixedDenominator(t *testing.T) {
	a := Random(dist.NewGaussian(6, 4))
	msg, err := RatioAverageConditional(dist.GaussianUniform(), a, Fixed(2))
	require.NoError(t, err)
	m, v := msg.GetMeanAndVariance()
	assert.InDelta(t, 3.0, m, 1e-12, "the ratio mean is mₐ/b")
	assert.InDelta(t, 1.0, v, 1e-12, "the ratio variance is vₐ/b²")
}

// TestRatioAverageConditional_ZeroDenominator covers the a/0 limit
// semantics.
func TestRatioAverageConditional_ZeroDenominator(t *testing.T) {
	// 0/0 constrains nothing.
	msg, err := RatioAverageConditional(dist.GaussianUniform(), Fixed(0), Fixed(0))
	require.NoError(t, err)
	assert.True(t, msg.IsUniform(), "0/0 carries no information")

	// a/0 with a matching asserted infinite ratio confirms the limit.
	msg, err = RatioAverageConditional(dist.GaussianPointMass(math.Inf(1)), Fixed(3), Fixed(0))
	require.NoError(t, err)
	assert.True(t, msg.IsPointMass(), "the limit is a point mass")
	assert.True(t, math.IsInf(msg.Point(), 1), "the sign follows the numerator")

	// Sign mismatch contradicts.
	_, err = RatioAverageConditional(dist.GaussianPointMass(math.Inf(-1)), Fixed(3), Fixed(0))
	assert.ErrorIs(t, err, dist.ErrContradiction, "−∞ cannot be 3/0⁺")

	// A finite asserted ratio contradicts too.
	_, err = RatioAverageConditional(dist.NewGaussian(5, 1), Fixed(3), Fixed(0))
	assert.ErrorIs(t, err, dist.ErrContradiction, "no finite ratio satisfies 3 = r·0")
}

// TestRatio_DelegatesToProduct checks the A = Ratio·B transposition on
// the random paths.
func TestRatio_DelegatesToProduct(t *testing.T) {
	aMsg := dist.NewGaussian(5, 2)
	ratioMsg := dist.NewGaussian(2, 1)
	ratio := Random(ratioMsg)
	b := Random(dist.NewGaussian(3, 1.5))

	toRatio, err := RatioAverageConditional(ratioMsg, Random(aMsg), b)
	require.NoError(t, err)
	viaProduct, err := AAverageConditional(aMsg, ratio, b)
	require.NoError(t, err)
	assert.Equal(t, viaProduct, toRatio, "the ratio is the product-role A")

	toNum, err := RatioNumeratorAverageConditional(aMsg, ratio, b)
	require.NoError(t, err)
	direct, err := ProductAverageConditional(aMsg, ratio, b)
	require.NoError(t, err)
	assert.Equal(t, direct, toNum, "the numerator is the product-role child")

	toDen, err := RatioDenominatorAverageConditional(aMsg, ratio, b)
	require.NoError(t, err)
	directB, err := BAverageConditional(aMsg, ratio, b)
	require.NoError(t, err)
	assert.Equal(t, directB, toDen, "the denominator is the product-role B")

	lafRatio, err := RatioLogAverageFactor(aMsg, ratio, b)
	require.NoError(t, err)
	lafProduct, err := LogAverageFactor(aMsg, ratio, b)
	require.NoError(t, err)
	assert.Equal(t, lafProduct, lafRatio, "ratio evidence is product evidence transposed")
}
