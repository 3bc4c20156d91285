package product

import (
	"fmt"
	"math"

	"github.com/katalvlaran/epkernel/dist"
	"github.com/katalvlaran/epkernel/special"
)

// ProductAverageConditional returns the EP message to Product for the
// factor Product = A·B, given the incoming product message and the two
// operands.
//
// Description:
//
//	Fixed operands give exact results: two observations collapse to a
//	point mass, one observation c turns the other belief into its affine
//	image (precision/c², natural mean/c). Two random operands with an
//	uninformative product message are moment-matched in closed form.
//	Otherwise the toProduct projection needs the full posterior: the
//	operator integrates over A with Gauss-Legendre nodes folded onto the
//	real line, conditioning the product on each node, and divides the
//	matched posterior by the incoming message through FromAlphaBeta.
//	A product message sharper than LargePrecisionThreshold switches to
//	the Laplace variant, whose mode tracking survives the thin ridge
//	that defeats fixed quadrature nodes.
//
// Complexity: O(1) closed forms; O(n) in the node budget otherwise.
func ProductAverageConditional(product dist.Gaussian, a, b Operand) (dist.Gaussian, error) {
	if a.IsFixed() && b.IsFixed() {
		return dist.GaussianPointMass(a.Value() * b.Value()), nil
	}
	if a.IsFixed() || b.IsFixed() {
		c, g := splitFixed(a, b)
		return affineImage(c, g), nil
	}

	// Both random.
	if product.IsUniform() {
		mean, variance := productMoments(a, b)
		if err := checkMoments(mean, variance); err != nil {
			return dist.Gaussian{}, err
		}
		return dist.NewGaussian(mean, variance), nil
	}
	if product.IsPointMass() {
		// A point mass cannot be refined; the ratio of the projected
		// posterior to the incoming message is flat.
		return dist.GaussianUniform(), nil
	}
	if !product.IsProper() {
		return dist.Gaussian{}, fmt.Errorf("product: toProduct with improper product message: %w", dist.ErrImproper)
	}
	if product.Precision > LargePrecisionThreshold {
		return productLaplace(product, a, b, nil)
	}

	prior, other, err := quadraturePair(a, b)
	if err != nil {
		return dist.Gaussian{}, err
	}
	mb, vb := other.moments()
	mp, vp := product.GetMeanAndVariance()
	_, mean, variance, err := quadratureMixture(prior,
		productLogLik(mb, vb, mp, vp),
		func(av float64) (float64, float64) {
			// Product | A = av fuses N(av·m_b, av²·v_b) with the message.
			denom := av*av*vb + vp
			cm := (av*mb*vp + mp*av*av*vb) / denom
			cv := av * av * vb * vp / denom
			return cm, cv + cm*cm
		},
		chooseNodes(prior, mb, vb, mp, vp))
	if err != nil {
		return dist.Gaussian{}, err
	}
	alpha := (mean - mp) / vp
	beta := (vp - variance) / (vp * vp)
	return dist.FromAlphaBeta(product, alpha, beta)
}

// AAverageConditional returns the EP message to A for the factor
// Product = A·B. The message to B is the mirror image, BAverageConditional.
//
// Description:
//
//	A fixed counterpart c scales the product message by 1/c; c = 0
//	erases all information unless the product is asserted nonzero, which
//	is a contradiction. A random counterpart makes the likelihood in A
//	the non-Gaussian curve L(a) = N(m_p; a·m_b, v_p + a²·v_b): the
//	posterior over A is moment-matched by quadrature and the incoming
//	message divided out through FromAlphaBeta, so the result stays
//	finite as the prior precision approaches zero.
func AAverageConditional(product dist.Gaussian, a, b Operand) (dist.Gaussian, error) {
	if a.IsFixed() {
		// Messages to observed variables carry no information.
		return dist.GaussianUniform(), nil
	}
	if b.IsFixed() {
		c := b.Value()
		if c == 0 {
			if product.IsPointMass() && product.Point() != 0 {
				return dist.Gaussian{}, fmt.Errorf("product: %v = a·0 asserted: %w",
					product.Point(), dist.ErrContradiction)
			}
			return dist.GaussianUniform(), nil
		}
		return scaleMessage(product, 1/c), nil
	}

	if product.IsUniform() {
		return dist.GaussianUniform(), nil
	}
	prior := a.Dist()
	if !prior.IsProper() {
		return dist.Gaussian{}, fmt.Errorf("product: toA quadrature needs a proper A message: %w", dist.ErrImproper)
	}
	mb, vb := b.moments()
	mp, vp := product.GetMeanAndVariance()
	if vp < 0 {
		return dist.Gaussian{}, fmt.Errorf("product: toA with improper product message: %w", dist.ErrImproper)
	}
	_, mean, variance, err := quadratureMixture(prior,
		productLogLik(mb, vb, mp, vp),
		func(av float64) (float64, float64) { return av, av * av },
		chooseNodes(prior, mb, vb, mp, vp))
	if err != nil {
		return dist.Gaussian{}, err
	}
	ma, va := prior.GetMeanAndVariance()
	alpha := (mean - ma) / va
	beta := (va - variance) / (va * va)
	return dist.FromAlphaBeta(prior, alpha, beta)
}

// BAverageConditional returns the EP message to B for Product = A·B.
func BAverageConditional(product dist.Gaussian, a, b Operand) (dist.Gaussian, error) {
	return AAverageConditional(product, b, a)
}

// LogAverageFactor returns the log-evidence contribution
// log ∫ m_p(ab)·m_a(a)·m_b(b) da db of the product factor.
//
// Structural impossibilities — a fixed zero operand against a nonzero
// asserted product — are ErrContradiction rather than −Inf, since no
// amount of soft evidence can explain them away.
func LogAverageFactor(product dist.Gaussian, a, b Operand) (float64, error) {
	if product.IsPointMass() && product.Point() != 0 {
		if (a.IsFixed() && a.Value() == 0) || (b.IsFixed() && b.Value() == 0) {
			return 0, fmt.Errorf("product: %v = a·b with a zero factor: %w",
				product.Point(), dist.ErrContradiction)
		}
	}
	if a.IsFixed() && b.IsFixed() {
		return product.GetLogProb(a.Value() * b.Value()), nil
	}
	if a.IsFixed() || b.IsFixed() {
		c, g := splitFixed(a, b)
		return product.GetLogAverageOf(affineImage(c, g)), nil
	}
	if product.IsUniform() {
		return 0, nil
	}
	prior, other, err := quadraturePair(a, b)
	if err != nil {
		return 0, err
	}
	mb, vb := other.moments()
	mp, vp := product.GetMeanAndVariance()
	logZ, _, _, err := quadratureMixture(prior,
		productLogLik(mb, vb, mp, vp),
		func(av float64) (float64, float64) { return av, av * av },
		chooseNodes(prior, mb, vb, mp, vp))
	return logZ, err
}

// LogEvidenceRatio returns LogAverageFactor minus the log-average of the
// message the product variable already consumed, the quantity EP adds to
// the model evidence. An observed (point-mass) product consumes nothing.
func LogEvidenceRatio(product dist.Gaussian, a, b Operand, toProduct dist.Gaussian) (float64, error) {
	laf, err := LogAverageFactor(product, a, b)
	if err != nil {
		return 0, err
	}
	if product.IsPointMass() {
		return laf, nil
	}
	return laf - toProduct.GetLogAverageOf(product), nil
}

// productLogLik returns a ↦ log N(m_p; a·m_b, v_p + a²·v_b), the product
// likelihood with B and the product message collapsed out.
func productLogLik(mb, vb, mp, vp float64) func(float64) float64 {
	return func(av float64) float64 {
		s2 := vp + av*av*vb
		if s2 == 0 {
			// Measure-zero node of a doubly deterministic configuration.
			return math.Inf(-1)
		}
		s := math.Sqrt(s2)
		return special.NormalPdfLn((mp-av*mb)/s) - math.Log(s)
	}
}

// productMoments reports the exact mean and variance of A·B for
// independent operands.
func productMoments(a, b Operand) (mean, variance float64) {
	ma, va := a.moments()
	mb, vb := b.moments()
	return ma * mb, ma*ma*vb + mb*mb*va + va*vb
}

// splitFixed orders a mixed operand pair into its fixed value and random
// belief.
func splitFixed(a, b Operand) (float64, dist.Gaussian) {
	if a.IsFixed() {
		return a.Value(), b.Dist()
	}
	return b.Value(), a.Dist()
}

// affineImage returns the distribution of c·X for X ~ g.
func affineImage(c float64, g dist.Gaussian) dist.Gaussian {
	if c == 0 {
		return dist.GaussianPointMass(0)
	}
	return dist.GaussianFromNatural(g.MeanTimesPrecision/c, g.Precision/(c*c))
}

// scaleMessage returns the message m scaled through x ↦ c·x, handling
// the degenerate states that the natural-parameter transform mangles.
func scaleMessage(m dist.Gaussian, c float64) dist.Gaussian {
	if m.IsPointMass() {
		return dist.GaussianPointMass(m.Point() * c)
	}
	return affineImage(c, m)
}

// quadraturePair picks which random operand to integrate over: the
// proper one. Both improper leaves no normalizable axis.
func quadraturePair(a, b Operand) (prior dist.Gaussian, other Operand, err error) {
	if a.Dist().IsProper() {
		return a.Dist(), b, nil
	}
	if b.Dist().IsProper() {
		return b.Dist(), a, nil
	}
	return dist.Gaussian{}, Operand{}, fmt.Errorf("product: quadrature needs one proper operand: %w", dist.ErrImproper)
}
