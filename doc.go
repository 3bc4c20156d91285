// Package epkernel is the message-computation kernel for approximate
// probabilistic inference over factor graphs — the operator layer that
// turns incoming beliefs into outgoing Expectation-Propagation (EP) and
// Variational-Message-Passing (VMP) messages.
//
// 🚀 What is epkernel?
//
//	A pure-Go library of closed-form and numerically guarded message
//	operators for continuous-variable factors:
//	  • Distribution families: Gaussian, Gamma, GammaPower, Wishart,
//	    VectorGaussian, TruncatedGaussian, Bernoulli
//	  • Special functions: stable normal CDF tails, CDF/density ratios,
//	    bivariate normal tail probabilities, log-domain composition
//	  • Product/Ratio factors: output = a·b and a÷b under every mix of
//	    fixed and random operands, with quadrature and Laplace fallbacks
//	  • IsBetween factor: L ≤ X < U truncation messages built from
//	    alpha/beta (score/curvature) pairs that stay finite as
//	    precision → 0
//
// ✨ Why choose epkernel?
//
//   - Pure functions only — no shared state, safe for parallel schedulers
//   - Explicit regime selection — point mass / uniform / tail / cancellation
//     branches chosen up front, never retried on failure
//   - Honest errors — contradictions, unsupported pairings, and NaN
//     intermediates are returned as errors, never masked
//   - Scheduler-agnostic — you own invocation order and belief folding;
//     epkernel owns one bounded numerical computation per call
//
// Under the hood, everything is organized under four subpackages:
//
//	special — numerically stable scalar special functions
//	dist    — exponential-family distribution representations
//	product — deterministic-arithmetic (Product / Ratio) operators
//	between — boundedness / truncation (IsBetween) operator
//
// See each package's doc.go for contracts, numeric policy, and examples.
package epkernel
