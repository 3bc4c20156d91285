// Package product implements the message operators for the deterministic
// arithmetic factors Product = A·B and Ratio = A÷B over Gaussian
// variables.
//
// What it gives you:
//
//   - 🚀 EP messages — ProductAverageConditional, AAverageConditional and
//     BAverageConditional cover every fixed/random operand combination,
//     from exact affine transforms to reparameterized Gauss-Legendre
//     quadrature over the whole real line.
//   - ✨ Laplace refinement — a mode-tracking variant with third- and
//     fourth-derivative corrections takes over when the product message
//     is too sharp for quadrature to resolve.
//   - 📈 Evidence — LogAverageFactor and LogEvidenceRatio supply the
//     log-normalizer bookkeeping that model comparison needs.
//   - 🔁 VMP — ProductAverageLogarithm and the pseudo-likelihood
//     AAverageLogarithm / BAverageLogarithm pair implement the
//     variational update rules for the same factor.
//   - ➗ Ratio — the Ratio* operators reuse the product machinery through
//     the identity A = Ratio·B, including the signed a/0 limit cases.
//
// Operands are passed as the Operand tagged union: Fixed(v) for observed
// values, Random(g) for Gaussian beliefs. Point-mass Gaussians normalize
// to Fixed at construction, so a degenerate belief and an observation
// take identical code paths.
//
// All operators are pure functions over value types; the only mutable
// piece of state is the explicit ModeBuffer that the Laplace variant
// threads between calls.
package product
