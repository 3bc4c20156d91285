package product

import (
	"fmt"

	"github.com/katalvlaran/epkernel/dist"
)

// ProductAverageLogarithm returns the VMP message to Product: under the
// mean-field factorization A and B are independent, so the product's
// moments are exact — mean mₐ·m_b, variance mₐ²·v_b + m_b²·vₐ + vₐ·v_b.
func ProductAverageLogarithm(a, b Operand) (dist.Gaussian, error) {
	if a.IsFixed() && b.IsFixed() {
		return dist.GaussianPointMass(a.Value() * b.Value()), nil
	}
	mean, variance := productMoments(a, b)
	if err := checkMoments(mean, variance); err != nil {
		return dist.Gaussian{}, err
	}
	return dist.NewGaussian(mean, variance), nil
}

// AAverageLogarithm returns the VMP message to A: dropping terms
// constant in a from E_B[log N(m_p; a·b, 1/τ_p)] leaves the Gaussian
// pseudo-likelihood with precision τ_p·E[b²] and natural mean
// (τ_p·m_p)·E[b].
//
// A fixed (point-mass) product with a random B has no VMP update: the
// evidence bound is −∞ for every Gaussian message, so the pairing is
// rejected with ErrNotSupported rather than approximated.
func AAverageLogarithm(product dist.Gaussian, a, b Operand) (dist.Gaussian, error) {
	if product.IsPointMass() {
		if !b.IsFixed() {
			return dist.Gaussian{}, fmt.Errorf("product: VMP toward a fixed product with random B: %w", ErrNotSupported)
		}
		c := b.Value()
		if c == 0 {
			if product.Point() != 0 {
				return dist.Gaussian{}, fmt.Errorf("product: %v = a·0 asserted: %w",
					product.Point(), dist.ErrContradiction)
			}
			return dist.GaussianUniform(), nil
		}
		return dist.GaussianPointMass(product.Point() / c), nil
	}
	mb, vb := b.moments()
	eb2 := mb*mb + vb
	return dist.GaussianFromNatural(product.MeanTimesPrecision*mb, product.Precision*eb2), nil
}

// BAverageLogarithm is the mirror image of AAverageLogarithm.
func BAverageLogarithm(product dist.Gaussian, a, b Operand) (dist.Gaussian, error) {
	return AAverageLogarithm(product, b, a)
}

// AverageLogFactor returns the factor's contribution to the VMP
// evidence bound. The product factor is deterministic, so the
// contribution is accounted for by the child variable and is zero here.
func AverageLogFactor() float64 { return 0 }
