package product

import (
	"fmt"
	"math"

	"github.com/katalvlaran/epkernel/dist"
)

// Mode-search iteration caps and tolerance.
const (
	modeMaxIter = 100
	modeTol     = 1e-10
)

// ModeBuffer carries the joint mode (A, B) of the product posterior
// between Laplace-variant calls, so each message update resumes the
// fixed-point search from the previous solution instead of from the
// priors. The zero value means "not initialized yet".
type ModeBuffer struct {
	A, B float64
	set  bool
}

// UpdateMode runs the alternating fixed-point search for the joint mode
// of m_a(a)·m_b(b)·m_p(ab) and stores it in buf. Given one coordinate
// the conditional posterior of the other is exactly Gaussian, so each
// half-step is closed form.
func UpdateMode(buf *ModeBuffer, product dist.Gaussian, a, b Operand) {
	ma, va := a.moments()
	mb, vb := b.moments()
	mp, vp := product.GetMeanAndVariance()

	ahat, bhat := ma, mb
	if buf.set {
		ahat, bhat = buf.A, buf.B
	}
	for i := 0; i < modeMaxIter; i++ {
		prevA, prevB := ahat, bhat
		ahat = conditionalMode(ma, va, mp, vp, bhat)
		bhat = conditionalMode(mb, vb, mp, vp, ahat)
		if math.Abs(ahat-prevA) <= modeTol*(1+math.Abs(ahat)) &&
			math.Abs(bhat-prevB) <= modeTol*(1+math.Abs(bhat)) {
			break
		}
	}
	buf.A, buf.B = ahat, bhat
	buf.set = true
}

// conditionalMode maximizes N(x; m, v)·N(m_p; x·c, v_p) over x.
func conditionalMode(m, v, mp, vp, c float64) float64 {
	if v == 0 {
		return m
	}
	return (m/v + c*mp/vp) / (1/v + c*c/vp)
}

// laplaceExpansion holds the local model at the mode: the posterior
// covariance of (A, B) and the third- and fourth-derivative tensors of
// the joint log density, from which corrected moments are read off.
type laplaceExpansion struct {
	ahat, bhat float64
	cov        [2][2]float64
	g3         [2][2][2]float64 // third derivatives of log f at the mode
	g4         float64          // ∂⁴ log f / ∂a²∂b²; other fourths vanish
	z          float64          // normalizer of the correction series
}

// newLaplaceExpansion builds the expansion of
// log f = log m_a(a) + log m_b(b) + log N(m_p; ab, v_p) around the mode.
func newLaplaceExpansion(buf *ModeBuffer, product dist.Gaussian, a, b Operand) (*laplaceExpansion, error) {
	UpdateMode(buf, product, a, b)
	_, va := a.moments()
	_, vb := b.moments()
	mp, vp := product.GetMeanAndVariance()
	if vp <= 0 {
		return nil, fmt.Errorf("product: laplace needs a proper product message: %w", dist.ErrImproper)
	}
	ah, bh := buf.A, buf.B

	gaa := -bh*bh/vp - 1/va
	gbb := -ah*ah/vp - 1/vb
	gab := (mp - 2*ah*bh) / vp
	// det = gaa·gbb − gab² with the a²b²/vp² products cancelled
	// symbolically, using a²b² − (mp−2ab)² = (3ab−mp)(mp−ab): the naive
	// float difference loses the prior curvature once the product message
	// is sharp, and reports a healthy mode as indefinite.
	det := bh*bh/(vp*vb) + ah*ah/(va*vp) + 1/(va*vb) +
		(3*ah*bh-mp)*(mp-ah*bh)/(vp*vp)
	if det <= 0 || gaa >= 0 {
		return nil, fmt.Errorf("product: laplace hessian not negative definite: %w", dist.ErrNumeric)
	}
	e := &laplaceExpansion{ahat: ah, bhat: bh}
	// cov = (−H)⁻¹ for H = [[gaa, gab], [gab, gbb]].
	e.cov[0][0] = -gbb / det
	e.cov[1][1] = -gaa / det
	e.cov[0][1] = gab / det
	e.cov[1][0] = gab / det

	gaab := -2 * bh / vp
	gabb := -2 * ah / vp
	for _, idx := range [][3]int{{0, 0, 1}, {0, 1, 0}, {1, 0, 0}} {
		e.g3[idx[0]][idx[1]][idx[2]] = gaab
	}
	for _, idx := range [][3]int{{0, 1, 1}, {1, 0, 1}, {1, 1, 0}} {
		e.g3[idx[0]][idx[1]][idx[2]] = gabb
	}
	e.g4 = -2 / vp
	e.z = e.correctedWick(nil)
	if e.z <= 0 || math.IsNaN(e.z) {
		return nil, fmt.Errorf("product: laplace correction series diverged: %w", dist.ErrNumeric)
	}
	return e, nil
}

// wick returns the Gaussian expectation E[Δ_{i₁}···Δ_{iₖ}] under the
// mode covariance: zero for odd k, the sum over perfect pairings
// otherwise.
func (e *laplaceExpansion) wick(idx []int) float64 {
	n := len(idx)
	if n == 0 {
		return 1
	}
	if n%2 == 1 {
		return 0
	}
	var sum float64
	rest := make([]int, 0, n-2)
	for j := 1; j < n; j++ {
		rest = rest[:0]
		rest = append(rest, idx[1:j]...)
		rest = append(rest, idx[j+1:]...)
		sum += e.cov[idx[0]][idx[j]] * e.wick(rest)
	}
	return sum
}

// correctedWick returns E[Δ_base·(1 + C₃ + C₄ + ½C₃²)] where
// C₃ = (1/6)Σ g₃ᵢⱼₖ ΔᵢΔⱼΔₖ and C₄ = (1/24)·g₄-terms are the cubic and
// quartic tails of the log density. Dividing two of these values gives
// posterior moments beyond the bare delta method.
func (e *laplaceExpansion) correctedWick(base []int) float64 {
	total := e.wick(base)

	var triples [][3]int
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				if e.g3[i][j][k] != 0 {
					triples = append(triples, [3]int{i, j, k})
				}
			}
		}
	}
	buf := make([]int, 0, len(base)+6)
	for _, t := range triples {
		buf = append(buf[:0], base...)
		buf = append(buf, t[0], t[1], t[2])
		total += e.g3[t[0]][t[1]][t[2]] / 6 * e.wick(buf)
	}
	// Quartic term: the only surviving derivative pattern is a²b².
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				for l := 0; l < 2; l++ {
					if i+j+k+l != 2 {
						continue
					}
					buf = append(buf[:0], base...)
					buf = append(buf, i, j, k, l)
					total += e.g4 / 24 * e.wick(buf)
				}
			}
		}
	}
	for _, t1 := range triples {
		for _, t2 := range triples {
			buf = append(buf[:0], base...)
			buf = append(buf, t1[0], t1[1], t1[2], t2[0], t2[1], t2[2])
			coeff := e.g3[t1[0]][t1[1]][t1[2]] * e.g3[t2[0]][t2[1]][t2[2]] / 72
			total += coeff * e.wick(buf)
		}
	}
	return total
}

// moment returns the corrected posterior expectation E[Δ_idx].
func (e *laplaceExpansion) moment(idx ...int) float64 {
	return e.correctedWick(idx) / e.z
}

// marginalMoments returns the corrected posterior mean and variance of
// coordinate i (0 for A, 1 for B).
func (e *laplaceExpansion) marginalMoments(i int) (mean, variance float64) {
	center := e.ahat
	if i == 1 {
		center = e.bhat
	}
	d1 := e.moment(i)
	d2 := e.moment(i, i)
	return center + d1, d2 - d1*d1
}

// productMomentsAt returns the corrected posterior mean and variance of
// the product AB, expanding (â+Δa)(b̂+Δb) through the correction series.
func (e *laplaceExpansion) productMomentsAt() (mean, variance float64) {
	ah, bh := e.ahat, e.bhat
	da := e.moment(0)
	db := e.moment(1)
	dab := e.moment(0, 1)
	mean = ah*bh + bh*da + ah*db + dab

	// u = b̂Δa + âΔb + ΔaΔb; E[(x̂+u)²] − mean².
	u2 := bh*bh*e.moment(0, 0) + ah*ah*e.moment(1, 1) + 2*ah*bh*dab +
		2*bh*e.moment(0, 0, 1) + 2*ah*e.moment(0, 1, 1) + e.moment(0, 0, 1, 1)
	second := ah*bh*ah*bh + 2*ah*bh*(bh*da+ah*db+dab) + u2
	return mean, second - mean*mean
}

// productLaplace is the Laplace-variant toProduct message.
func productLaplace(product dist.Gaussian, a, b Operand, buf *ModeBuffer) (dist.Gaussian, error) {
	if buf == nil {
		buf = &ModeBuffer{}
	}
	e, err := newLaplaceExpansion(buf, product, a, b)
	if err != nil {
		return dist.Gaussian{}, err
	}
	mean, variance := e.productMomentsAt()
	if err := checkMoments(mean, variance); err != nil {
		return dist.Gaussian{}, err
	}
	mp, vp := product.GetMeanAndVariance()
	alpha := (mean - mp) / vp
	beta := (vp - variance) / (vp * vp)
	return dist.FromAlphaBeta(product, alpha, beta)
}

// ProductAverageConditionalLaplace is ProductAverageConditional forced
// onto the Laplace path, threading an explicit mode buffer between
// iterations of the surrounding schedule.
func ProductAverageConditionalLaplace(product dist.Gaussian, a, b Operand, buf *ModeBuffer) (dist.Gaussian, error) {
	if a.IsFixed() || b.IsFixed() || product.IsUniform() || product.IsPointMass() {
		return ProductAverageConditional(product, a, b)
	}
	return productLaplace(product, a, b, buf)
}

// AAverageConditionalLaplace returns the Laplace-variant message to A,
// moment-matching the corrected marginal and dividing out the incoming
// message.
func AAverageConditionalLaplace(product dist.Gaussian, a, b Operand, buf *ModeBuffer) (dist.Gaussian, error) {
	if a.IsFixed() || b.IsFixed() || product.IsUniform() || product.IsPointMass() {
		return AAverageConditional(product, a, b)
	}
	if buf == nil {
		buf = &ModeBuffer{}
	}
	e, err := newLaplaceExpansion(buf, product, a, b)
	if err != nil {
		return dist.Gaussian{}, err
	}
	mean, variance := e.marginalMoments(0)
	if err := checkMoments(mean, variance); err != nil {
		return dist.Gaussian{}, err
	}
	prior := a.Dist()
	ma, va := prior.GetMeanAndVariance()
	alpha := (mean - ma) / va
	beta := (va - variance) / (va * va)
	return dist.FromAlphaBeta(prior, alpha, beta)
}

// BAverageConditionalLaplace is the mirror image of
// AAverageConditionalLaplace. The buffer stores (A, B) in factor order
// either way.
func BAverageConditionalLaplace(product dist.Gaussian, a, b Operand, buf *ModeBuffer) (dist.Gaussian, error) {
	if a.IsFixed() || b.IsFixed() || product.IsUniform() || product.IsPointMass() {
		return BAverageConditional(product, a, b)
	}
	if buf == nil {
		buf = &ModeBuffer{}
	}
	e, err := newLaplaceExpansion(buf, product, a, b)
	if err != nil {
		return dist.Gaussian{}, err
	}
	mean, variance := e.marginalMoments(1)
	if err := checkMoments(mean, variance); err != nil {
		return dist.Gaussian{}, err
	}
	prior := b.Dist()
	mb, vb := prior.GetMeanAndVariance()
	alpha := (mean - mb) / vb
	beta := (vb - variance) / (vb * vb)
	return dist.FromAlphaBeta(prior, alpha, beta)
}
