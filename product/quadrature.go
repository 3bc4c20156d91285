package product

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/katalvlaran/epkernel/dist"
)

// realLineNodes returns abscissas and weights of a 2n-point rule for
// ∫_ℝ f: an n-point Gauss-Legendre rule on [−1, 1] applied once to the
// integrand directly and once under the substitution x → 1/u with its
// 1/u² Jacobian, which folds both infinite tails back onto [−1, 1]. A
// node at u = 0 maps to infinity and is dropped; integrands here decay
// faster than any polynomial, so it carries no mass.
func realLineNodes(n int) (x, w []float64) {
	gx := make([]float64, n)
	gw := make([]float64, n)
	quad.Legendre{}.FixedLocations(gx, gw, -1, 1)

	x = make([]float64, 0, 2*n)
	w = make([]float64, 0, 2*n)
	for i := 0; i < n; i++ {
		x = append(x, gx[i])
		w = append(w, gw[i])
	}
	for i := 0; i < n; i++ {
		if gx[i] == 0 {
			continue
		}
		x = append(x, 1/gx[i])
		w = append(w, gw[i]/(gx[i]*gx[i]))
	}
	return x, w
}

// quadratureMixture integrates the unnormalized posterior
// prior(a)·exp(logLik(a)) over the real line, standardized by the prior,
// and moment-matches the statistic reported by stats: for each node a,
// stats returns the conditional mean and conditional second moment of
// the quantity being projected. It reports the log normalizer and the
// mixture mean and variance.
func quadratureMixture(prior dist.Gaussian, logLik func(a float64) float64,
	stats func(a float64) (m, m2 float64), n int) (logZ, mean, variance float64, err error) {

	pm, pv := prior.GetMeanAndVariance()
	sigma := math.Sqrt(pv)
	xs, ws := realLineNodes(n)

	logw := make([]float64, len(xs))
	for i, s := range xs {
		a := pm + sigma*s
		lw := math.Log(ws[i]*sigma) + prior.GetLogProb(a) + logLik(a)
		if math.IsNaN(lw) {
			return 0, 0, 0, fmt.Errorf("product: quadrature weight is NaN: %w", dist.ErrNumeric)
		}
		logw[i] = lw
	}
	maxLog := floats.Max(logw)
	if math.IsInf(maxLog, -1) {
		return math.Inf(-1), 0, 0, fmt.Errorf("product: quadrature found no mass: %w", dist.ErrNumeric)
	}

	var z, zm, zm2 float64
	for i, s := range xs {
		wi := math.Exp(logw[i] - maxLog)
		if wi == 0 {
			continue
		}
		a := pm + sigma*s
		m, m2 := stats(a)
		z += wi
		zm += wi * m
		zm2 += wi * m2
	}
	mean = zm / z
	variance = zm2/z - mean*mean
	if err := checkMoments(mean, variance); err != nil {
		return 0, 0, 0, err
	}
	return floats.LogSumExp(logw), mean, variance, nil
}

// chooseNodes widens the node budget when the product likelihood is much
// narrower in the integration variable than the prior, so the default
// rule would straddle the mass with too few interior nodes.
func chooseNodes(prior dist.Gaussian, mb, vb, mp, vp float64) int {
	if mb == 0 {
		return QuadratureNodeCount
	}
	ridge := mp / mb
	width := math.Sqrt(vp+vb*ridge*ridge) / math.Abs(mb)
	_, pv := prior.GetMeanAndVariance()
	if 4*width < math.Sqrt(pv) {
		return WideQuadratureNodeCount
	}
	return QuadratureNodeCount
}
