package dist

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/epkernel/special"
)

// VectorGaussian is the multivariate Gaussian family in natural form:
// MeanTimesPrecision = Λ·μ and Precision = Λ. A zero precision matrix
// is the uniform state; a point mass is stored explicitly.
//
// Unlike the scalar families, VectorGaussian does not satisfy Family,
// whose moment accessors are scalar; it mirrors the same method set
// with vector and matrix signatures.
type VectorGaussian struct {
	MeanTimesPrecision *mat.VecDense
	Precision          *mat.SymDense

	point *mat.VecDense
}

// NewVectorGaussian returns the Gaussian with the given mean and
// covariance. The covariance must be positive definite.
func NewVectorGaussian(mean *mat.VecDense, covariance *mat.SymDense) (VectorGaussian, error) {
	d := mean.Len()
	var chol mat.Cholesky
	if !chol.Factorize(covariance) {
		return VectorGaussian{}, fmt.Errorf("vector gaussian covariance not positive definite: %w", ErrImproper)
	}
	var prec mat.SymDense
	if err := chol.InverseTo(&prec); err != nil {
		return VectorGaussian{}, fmt.Errorf("vector gaussian covariance inverse: %w", err)
	}
	mtp := mat.NewVecDense(d, nil)
	mtp.MulVec(&prec, mean)
	return VectorGaussian{MeanTimesPrecision: mtp, Precision: &prec}, nil
}

// VectorGaussianFromNatural returns the Gaussian with the given natural
// parameters, without checking properness.
func VectorGaussianFromNatural(meanTimesPrecision *mat.VecDense, precision *mat.SymDense) VectorGaussian {
	return VectorGaussian{MeanTimesPrecision: meanTimesPrecision, Precision: precision}
}

// VectorGaussianPointMass returns the point mass at the given location.
func VectorGaussianPointMass(point *mat.VecDense) VectorGaussian {
	return VectorGaussian{point: mat.VecDenseCopyOf(point)}
}

// VectorGaussianUniform returns the d-dimensional zero-information
// state.
func VectorGaussianUniform(d int) VectorGaussian {
	return VectorGaussian{
		MeanTimesPrecision: mat.NewVecDense(d, nil),
		Precision:          mat.NewSymDense(d, nil),
	}
}

// Dim returns the dimension.
func (v VectorGaussian) Dim() int {
	if v.point != nil {
		return v.point.Len()
	}
	return v.MeanTimesPrecision.Len()
}

// IsPointMass reports whether v has zero covariance.
func (v VectorGaussian) IsPointMass() bool { return v.point != nil }

// Point returns the point-mass location; meaningful only when
// IsPointMass reports true.
func (v VectorGaussian) Point() *mat.VecDense { return v.point }

// IsUniform reports whether v carries no information.
func (v VectorGaussian) IsUniform() bool {
	if v.point != nil {
		return false
	}
	return mat.Norm(v.Precision, 1) == 0 && mat.Norm(v.MeanTimesPrecision, 1) == 0
}

// IsProper reports whether the precision matrix is positive definite.
func (v VectorGaussian) IsProper() bool {
	if v.point != nil {
		return true
	}
	var chol mat.Cholesky
	return chol.Factorize(v.Precision)
}

// GetMeanAndCovariance solves Λ·μ = Λμ for the mean and inverts Λ for
// the covariance. The precision must be positive definite.
func (v VectorGaussian) GetMeanAndCovariance() (*mat.VecDense, *mat.SymDense, error) {
	d := v.Dim()
	if v.point != nil {
		return mat.VecDenseCopyOf(v.point), mat.NewSymDense(d, nil), nil
	}
	var chol mat.Cholesky
	if !chol.Factorize(v.Precision) {
		return nil, nil, fmt.Errorf("vector gaussian precision not positive definite: %w", ErrImproper)
	}
	mean := mat.NewVecDense(d, nil)
	if err := chol.SolveVecTo(mean, v.MeanTimesPrecision); err != nil {
		return nil, nil, err
	}
	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		return nil, nil, err
	}
	return mean, &cov, nil
}

// GetLogProbVec evaluates the log density at x.
func (v VectorGaussian) GetLogProbVec(x *mat.VecDense) float64 {
	if v.point != nil {
		if mat.Equal(x, v.point) {
			return 0
		}
		return math.Inf(-1)
	}
	d := v.Dim()
	var chol mat.Cholesky
	if !chol.Factorize(v.Precision) {
		return math.NaN()
	}
	mean, _, err := v.GetMeanAndCovariance()
	if err != nil {
		return math.NaN()
	}
	diff := mat.NewVecDense(d, nil)
	diff.SubVec(x, mean)
	tmp := mat.NewVecDense(d, nil)
	tmp.MulVec(v.Precision, diff)
	quad := mat.Dot(diff, tmp)
	return 0.5*chol.LogDet() - float64(d)*special.LnSqrt2Pi - 0.5*quad
}

// SetToProduct sets v to the normalized product: natural parameters
// add. A pair of distinct point masses is a contradiction.
func (v *VectorGaussian) SetToProduct(a, b VectorGaussian) error {
	switch {
	case a.IsPointMass() && b.IsPointMass():
		if !mat.Equal(a.point, b.point) {
			return fmt.Errorf("vector gaussian product of distinct point masses: %w", ErrContradiction)
		}
		*v = VectorGaussianPointMass(a.point)
	case a.IsPointMass():
		*v = VectorGaussianPointMass(a.point)
	case b.IsPointMass():
		*v = VectorGaussianPointMass(b.point)
	default:
		d := a.Dim()
		if b.Dim() != d {
			return fmt.Errorf("vector gaussian product with dims %d and %d: %w", d, b.Dim(), ErrIncompatible)
		}
		mtp := mat.NewVecDense(d, nil)
		mtp.AddVec(a.MeanTimesPrecision, b.MeanTimesPrecision)
		var prec mat.SymDense
		prec.AddSym(a.Precision, b.Precision)
		*v = VectorGaussian{MeanTimesPrecision: mtp, Precision: &prec}
	}
	return nil
}

// SetToRatio sets v to num/den: natural parameters subtract. A result
// outside the positive-definite cone is an error; ForceProper replaces
// the precision with zero while keeping the linear term.
func (v *VectorGaussian) SetToRatio(num, den VectorGaussian) error {
	switch {
	case num.IsPointMass():
		if den.IsPointMass() {
			if !mat.Equal(num.point, den.point) {
				return fmt.Errorf("vector gaussian ratio of distinct point masses: %w", ErrContradiction)
			}
			*v = VectorGaussianUniform(num.Dim())
			return nil
		}
		*v = VectorGaussianPointMass(num.point)
		return nil
	case den.IsPointMass():
		return fmt.Errorf("vector gaussian ratio: %w", ErrUndefinedRatio)
	}
	d := num.Dim()
	if den.Dim() != d {
		return fmt.Errorf("vector gaussian ratio with dims %d and %d: %w", d, den.Dim(), ErrIncompatible)
	}
	mtp := mat.NewVecDense(d, nil)
	mtp.SubVec(num.MeanTimesPrecision, den.MeanTimesPrecision)
	var negDen mat.SymDense
	negDen.ScaleSym(-1, den.Precision)
	var prec mat.SymDense
	prec.AddSym(num.Precision, &negDen)
	if mat.Norm(&prec, 1) != 0 {
		var chol mat.Cholesky
		if !chol.Factorize(&prec) {
			if !ForceProper {
				return fmt.Errorf("vector gaussian ratio precision not positive definite: %w", ErrImproper)
			}
			prec = *mat.NewSymDense(d, nil)
		}
	}
	*v = VectorGaussian{MeanTimesPrecision: mtp, Precision: &prec}
	return nil
}

// GetLogNormalizer returns the log-partition of the natural form:
// ½ μᵀΛμ − ½ ln|Λ| + (d/2)·ln 2π.
func (v VectorGaussian) GetLogNormalizer() float64 {
	if v.point != nil {
		return 0
	}
	var chol mat.Cholesky
	if !chol.Factorize(v.Precision) {
		return 0
	}
	d := v.Dim()
	mean := mat.NewVecDense(d, nil)
	if err := chol.SolveVecTo(mean, v.MeanTimesPrecision); err != nil {
		return math.NaN()
	}
	return 0.5*mat.Dot(mean, v.MeanTimesPrecision) - 0.5*chol.LogDet() +
		float64(d)*special.LnSqrt2Pi
}

// GetLogAverageOf returns log ∫ v(x)·that(x) dx via the log-partition
// identity logZ(v·that) − logZ(v) − logZ(that).
func (v VectorGaussian) GetLogAverageOf(that VectorGaussian) float64 {
	if v.IsPointMass() {
		return that.GetLogProbVec(v.point)
	}
	if that.IsPointMass() {
		return v.GetLogProbVec(that.point)
	}
	var prod VectorGaussian
	if err := prod.SetToProduct(v, that); err != nil {
		return math.NaN()
	}
	return prod.GetLogNormalizer() - v.GetLogNormalizer() - that.GetLogNormalizer()
}

// GetAverageLog returns E_that[log v] using E[x] and E[xxᵀ] under that.
func (v VectorGaussian) GetAverageLog(that VectorGaussian) float64 {
	if v.IsPointMass() {
		if that.IsPointMass() && mat.Equal(that.point, v.point) {
			return 0
		}
		return math.Inf(-1)
	}
	if v.IsUniform() {
		return 0
	}
	mean, cov, err := that.GetMeanAndCovariance()
	if err != nil {
		return math.Inf(-1)
	}
	d := v.Dim()
	tmp := mat.NewVecDense(d, nil)
	tmp.MulVec(v.Precision, mean)
	// E[xᵀΛx] = tr(Λ·Σ) + μᵀΛμ under that.
	var lc mat.Dense
	lc.Mul(v.Precision, cov)
	return mat.Dot(v.MeanTimesPrecision, mean) -
		0.5*(mat.Trace(&lc)+mat.Dot(mean, tmp)) -
		v.GetLogNormalizer()
}

// String renders the dimension and point-mass state for diagnostics.
func (v VectorGaussian) String() string {
	if v.IsPointMass() {
		return fmt.Sprintf("VectorGaussian.PointMass(dim=%d)", v.Dim())
	}
	return fmt.Sprintf("VectorGaussian(dim=%d)", v.Dim())
}
