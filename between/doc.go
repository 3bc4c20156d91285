// Package between implements the message operators for the truncation
// factor isBetween = (L ≤ X < U) over a Gaussian variable X.
//
// What it gives you:
//
//   - 📏 Interval probability — LogProbBetween evaluates log P(L ≤ X < U)
//     without cancellation, from bulk intervals down to windows hundreds
//     of standard deviations into a tail.
//   - 🚀 EP messages — XAverageConditional covers observed and uncertain
//     isBetween values, mixing inside and outside moments in the log
//     domain and building the outgoing Gaussian through alpha/beta
//     message construction so it survives a vanishing prior precision.
//   - 🎲 Uncertain truncation — IsBetweenAverageConditional reports the
//     interval probability as a Bernoulli in log-odds form.
//   - 📐 Random bounds — LowerBoundAverageConditional and
//     UpperBoundAverageConditional treat Gaussian bounds through the
//     bivariate normal tail integral and its analytic derivatives.
//   - 📈 Evidence — LogAverageFactor and LogEvidenceRatio in both the
//     fixed-assertion and Bernoulli forms.
//
// The numerical core lives in package special: stable one-sided tails,
// the moment-ratio machinery behind truncated moments, and the Genz
// bivariate CDF.
package between
