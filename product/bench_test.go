package product

import (
	"testing"

	"github.com/katalvlaran/epkernel/dist"
)

var benchMsg dist.Gaussian

func BenchmarkProductAverageConditional_Affine(b *testing.B) {
	g := Random(dist.NewGaussian(1, 1))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		benchMsg, _ = ProductAverageConditional(dist.GaussianUniform(), Fixed(2), g)
	}
}

func BenchmarkAAverageConditional_Quadrature(b *testing.B) {
	product := dist.NewGaussian(5, 2)
	a := Random(dist.NewGaussian(2, 1))
	bb := Random(dist.NewGaussian(3, 1.5))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		benchMsg, _ = AAverageConditional(product, a, bb)
	}
}

func BenchmarkAAverageConditionalLaplace(b *testing.B) {
	product := dist.NewGaussian(6, 0.05)
	a := Random(dist.NewGaussian(2, 0.2))
	bb := Random(dist.NewGaussian(3, 0.2))
	var buf ModeBuffer
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		benchMsg, _ = AAverageConditionalLaplace(product, a, bb, &buf)
	}
}
