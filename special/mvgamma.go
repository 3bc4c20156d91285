package special

import (
	"math"

	"gonum.org/v1/gonum/mathext"
)

// MvLnGamma returns the log multivariate gamma function
//
//	ln Γ_d(a) = (d(d−1)/4)·ln π + Σ_{i=1..d} ln Γ(a + (1−i)/2),
//
// the normalizer of the d-dimensional Wishart family. Requires
// a > (d−1)/2 for finiteness.
func MvLnGamma(d int, a float64) float64 {
	s := float64(d*(d-1)) / 4 * math.Log(math.Pi)
	for i := 1; i <= d; i++ {
		lg, _ := math.Lgamma(a + float64(1-i)/2)
		s += lg
	}
	return s
}

// MvDiGamma returns the derivative of MvLnGamma in a,
// Σ_{i=1..d} ψ(a + (1−i)/2); used for Wishart expected
// log-determinants.
func MvDiGamma(d int, a float64) float64 {
	s := 0.0
	for i := 1; i <= d; i++ {
		s += mathext.Digamma(a + float64(1-i)/2)
	}
	return s
}
