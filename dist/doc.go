// Package dist implements the tractable distribution families messages
// are expressed in: Gaussian, Gamma, GammaPower, Wishart, VectorGaussian,
// TruncatedGaussian, and Bernoulli.
//
// 🚀 What is a message family?
//
//	Approximate inference passes beliefs around as members of closed
//	exponential families. Each family here stores natural parameters —
//	the parameterization under which multiplying distributions is
//	parameter addition — and supports the full capability set message
//	operators rely on:
//	  • uniform state: zero information, the identity for products
//	  • point mass: zero variance, an exact value
//	  • SetToProduct / SetToRatio: combine or divide out messages
//	  • GetMeanAndVariance, GetLogProb: moment and density queries
//	  • GetLogAverageOf: log ∫ p·q, the evidence inner product
//	  • GetAverageLog: E_q[log p], the VMP energy term
//
// ✨ Conventions:
//
//   - Scalar families are immutable value types; multivariate ones copy
//     on construction. Operators never share mutable state.
//   - Precision parameters are ≥ 0 always: 0 encodes uniform and +Inf a
//     point mass. A ratio that would leave the valid domain returns an
//     error unless ForceProper is set, which clamps to the domain
//     boundary instead.
//   - −Inf log-density means zero probability; NaN parameters are
//     rejected at construction rather than propagated.
//
// The Gaussian additionally provides FromAlphaBeta, the score/curvature
// message constructor that keeps truncation messages well-defined as the
// incoming precision tends to zero.
package dist
