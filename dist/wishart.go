package dist

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/epkernel/special"
)

// Wishart is the Wishart family over positive-definite matrices in
// (Shape, Rate) form: density ∝ |X|^{Shape−(d+1)/2}·e^{−tr(Rate·X)}.
// The mean is Shape·Rate⁻¹. A point mass is stored explicitly.
//
// Like VectorGaussian, Wishart mirrors the Family method set with
// matrix signatures instead of satisfying the scalar interface.
type Wishart struct {
	Shape float64
	Rate  *mat.SymDense

	point *mat.SymDense
}

// NewWishart returns the Wishart with the given shape and rate matrix.
func NewWishart(shape float64, rate *mat.SymDense) Wishart {
	return Wishart{Shape: shape, Rate: rate}
}

// WishartFromMeanAndShape returns the Wishart with the given mean
// matrix and shape: Rate = Shape·Mean⁻¹.
func WishartFromMeanAndShape(mean *mat.SymDense, shape float64) (Wishart, error) {
	var chol mat.Cholesky
	if !chol.Factorize(mean) {
		return Wishart{}, fmt.Errorf("wishart mean not positive definite: %w", ErrImproper)
	}
	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return Wishart{}, err
	}
	inv.ScaleSym(shape, &inv)
	return Wishart{Shape: shape, Rate: &inv}, nil
}

// WishartPointMass returns the point mass at the given matrix.
func WishartPointMass(point *mat.SymDense) Wishart {
	d := point.SymmetricDim()
	cp := mat.NewSymDense(d, nil)
	cp.CopySym(point)
	return Wishart{point: cp}
}

// WishartUniform returns the d-dimensional zero-information state:
// Shape = (d+1)/2 and a zero rate, so the exponent of |X| vanishes.
func WishartUniform(d int) Wishart {
	return Wishart{Shape: float64(d+1) / 2, Rate: mat.NewSymDense(d, nil)}
}

// Dim returns the matrix dimension.
func (w Wishart) Dim() int {
	if w.point != nil {
		return w.point.SymmetricDim()
	}
	return w.Rate.SymmetricDim()
}

// IsPointMass reports whether w has zero variance.
func (w Wishart) IsPointMass() bool { return w.point != nil }

// Point returns the point-mass matrix; meaningful only when IsPointMass
// reports true.
func (w Wishart) Point() *mat.SymDense { return w.point }

// IsUniform reports whether w carries no information.
func (w Wishart) IsUniform() bool {
	if w.point != nil {
		return false
	}
	return w.Shape == float64(w.Dim()+1)/2 && mat.Norm(w.Rate, 1) == 0
}

// IsProper reports whether w is normalizable: Shape > (d−1)/2 and a
// positive-definite rate.
func (w Wishart) IsProper() bool {
	if w.point != nil {
		return true
	}
	if w.Shape <= float64(w.Dim()-1)/2 {
		return false
	}
	var chol mat.Cholesky
	return chol.Factorize(w.Rate)
}

// GetMean returns E[X] = Shape·Rate⁻¹.
func (w Wishart) GetMean() (*mat.SymDense, error) {
	if w.point != nil {
		d := w.point.SymmetricDim()
		cp := mat.NewSymDense(d, nil)
		cp.CopySym(w.point)
		return cp, nil
	}
	var chol mat.Cholesky
	if !chol.Factorize(w.Rate) {
		return nil, fmt.Errorf("wishart rate not positive definite: %w", ErrImproper)
	}
	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return nil, err
	}
	inv.ScaleSym(w.Shape, &inv)
	return &inv, nil
}

// GetMeanLogDet returns E[ln|X|] = ψ_d(Shape) − ln|Rate|, where ψ_d is
// the multivariate digamma.
func (w Wishart) GetMeanLogDet() float64 {
	if w.point != nil {
		var chol mat.Cholesky
		if !chol.Factorize(w.point) {
			return math.Inf(-1)
		}
		return chol.LogDet()
	}
	var chol mat.Cholesky
	if !chol.Factorize(w.Rate) {
		return math.NaN()
	}
	return special.MvDiGamma(w.Dim(), w.Shape) - chol.LogDet()
}

// GetLogProbSym evaluates the log density at a positive-definite x.
func (w Wishart) GetLogProbSym(x *mat.SymDense) float64 {
	if w.point != nil {
		if mat.Equal(x, w.point) {
			return 0
		}
		return math.Inf(-1)
	}
	var chol mat.Cholesky
	if !chol.Factorize(x) {
		return math.Inf(-1)
	}
	d := w.Dim()
	var rx mat.Dense
	rx.Mul(w.Rate, x)
	return (w.Shape-float64(d+1)/2)*chol.LogDet() - mat.Trace(&rx) - w.GetLogNormalizer()
}

// GetLogNormalizer returns ln Γ_d(Shape) − Shape·ln|Rate|, 0 for
// improper states.
func (w Wishart) GetLogNormalizer() float64 {
	if w.point != nil || !w.IsProper() {
		return 0
	}
	var chol mat.Cholesky
	chol.Factorize(w.Rate)
	return special.MvLnGamma(w.Dim(), w.Shape) - w.Shape*chol.LogDet()
}

// SetToProduct sets w to the normalized product: the |X| exponents add,
// giving shape = a₁ + a₂ − (d+1)/2, and the rates add.
func (w *Wishart) SetToProduct(a, b Wishart) error {
	switch {
	case a.IsPointMass() && b.IsPointMass():
		if !mat.Equal(a.point, b.point) {
			return fmt.Errorf("wishart product of distinct point masses: %w", ErrContradiction)
		}
		*w = WishartPointMass(a.point)
	case a.IsPointMass():
		*w = WishartPointMass(a.point)
	case b.IsPointMass():
		*w = WishartPointMass(b.point)
	default:
		d := a.Dim()
		if b.Dim() != d {
			return fmt.Errorf("wishart product with dims %d and %d: %w", d, b.Dim(), ErrIncompatible)
		}
		var rate mat.SymDense
		rate.AddSym(a.Rate, b.Rate)
		*w = Wishart{Shape: a.Shape + b.Shape - float64(d+1)/2, Rate: &rate}
	}
	return nil
}

// SetToRatio sets w to num/den. A result shape outside the proper range
// is an error; ForceProper projects the rate back to the
// positive-semidefinite boundary by zeroing it.
func (w *Wishart) SetToRatio(num, den Wishart) error {
	switch {
	case num.IsPointMass():
		if den.IsPointMass() {
			if !mat.Equal(num.point, den.point) {
				return fmt.Errorf("wishart ratio of distinct point masses: %w", ErrContradiction)
			}
			*w = WishartUniform(num.Dim())
			return nil
		}
		*w = WishartPointMass(num.point)
		return nil
	case den.IsPointMass():
		return fmt.Errorf("wishart ratio: %w", ErrUndefinedRatio)
	}
	d := num.Dim()
	if den.Dim() != d {
		return fmt.Errorf("wishart ratio with dims %d and %d: %w", d, den.Dim(), ErrIncompatible)
	}
	shape := num.Shape - den.Shape + float64(d+1)/2
	if shape <= float64(d-1)/2 {
		return fmt.Errorf("wishart ratio shape %v: %w", shape, ErrImproper)
	}
	var negDen mat.SymDense
	negDen.ScaleSym(-1, den.Rate)
	var rate mat.SymDense
	rate.AddSym(num.Rate, &negDen)
	if mat.Norm(&rate, 1) != 0 {
		var chol mat.Cholesky
		if !chol.Factorize(&rate) {
			if !ForceProper {
				return fmt.Errorf("wishart ratio rate not positive definite: %w", ErrImproper)
			}
			rate = *mat.NewSymDense(d, nil)
		}
	}
	*w = Wishart{Shape: shape, Rate: &rate}
	return nil
}

// GetLogAverageOf returns log ∫ w(X)·that(X) dX:
//
//	Γ_d(a₁₂)·|B₁|^{a₁}·|B₂|^{a₂} / (Γ_d(a₁)·Γ_d(a₂)·|B₁+B₂|^{a₁₂})
//
// with a₁₂ = a₁ + a₂ − (d+1)/2.
func (w Wishart) GetLogAverageOf(that Wishart) float64 {
	if w.IsPointMass() {
		return that.GetLogProbSym(w.point)
	}
	if that.IsPointMass() {
		return w.GetLogProbSym(that.point)
	}
	if w.IsUniform() || that.IsUniform() {
		return 0
	}
	var prod Wishart
	if err := prod.SetToProduct(w, that); err != nil {
		return math.NaN()
	}
	return prod.GetLogNormalizer() - w.GetLogNormalizer() - that.GetLogNormalizer()
}

// GetAverageLog returns E_that[log w] using E[ln|X|] and E[X] under
// that.
func (w Wishart) GetAverageLog(that Wishart) float64 {
	if w.IsPointMass() {
		if that.IsPointMass() && mat.Equal(that.point, w.point) {
			return 0
		}
		return math.Inf(-1)
	}
	if w.IsUniform() {
		return 0
	}
	if !that.IsProper() && !that.IsPointMass() {
		return math.Inf(-1)
	}
	meanLogDet := that.GetMeanLogDet()
	meanX, err := that.GetMean()
	if err != nil {
		return math.Inf(-1)
	}
	d := w.Dim()
	var rx mat.Dense
	rx.Mul(w.Rate, meanX)
	return (w.Shape-float64(d+1)/2)*meanLogDet - mat.Trace(&rx) - w.GetLogNormalizer()
}

// String renders the shape and dimension for diagnostics.
func (w Wishart) String() string {
	if w.IsPointMass() {
		return fmt.Sprintf("Wishart.PointMass(dim=%d)", w.Dim())
	}
	return fmt.Sprintf("Wishart(%g, dim=%d)", w.Shape, w.Dim())
}
