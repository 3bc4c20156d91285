// Package special provides the numerically guarded scalar special
// functions the message operators are built on: normal CDF tails,
// CDF-to-density ratios and their higher moment ratios, truncated-normal
// interval integrals, bivariate normal tail probabilities, and log-domain
// composition helpers.
//
// 🚀 Why a dedicated package?
//
//	Message operators live or die in the tails.  Naive formulas such as
//	log(Φ(b)−Φ(a)) cancel catastrophically when a and b are close or when
//	both sit many standard deviations from zero.  Every function here
//	selects its evaluation strategy from the input regime up front:
//	  • direct closed form where it is well conditioned,
//	  • scaled (erfcx-style) evaluation where exp/CDF factors would
//	    under- or overflow,
//	  • series or asymptotic expansion where subtraction would cancel.
//
// ✨ Key entry points:
//
//   - Erfcx, NormalCdf, NormalCdfLn — stable Φ and log Φ for all arguments
//   - NormalCdfRatio, NormalCdfMomentRatio — Φ/φ and its derivative family,
//     the currency of truncated-Gaussian algebra
//   - LogNormalProbBetween, TruncatedNormalStats — interval mass and
//     truncated moments, exact deep in the tails
//   - NormalCdf2, NormalCdf2Ln — bivariate normal tail probability with a
//     separate high-correlation expansion
//   - LogSumExp, LogDiffExp, Logistic, Logit, LogisticLn — log-domain
//     composition
//
// All functions are pure and allocation-free. Preconditions are stated
// per function; violating them is a programming error in the caller, and
// the operator layer converts any resulting invalid value into an
// explicit numeric-inconsistency error rather than letting NaN escape.
package special
