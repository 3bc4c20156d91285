package between_test

import (
	"fmt"

	"github.com/katalvlaran/epkernel/between"
	"github.com/katalvlaran/epkernel/dist"
)

// ExampleIsBetweenAverageConditional asks how likely a standard normal
// variable is to fall within one standard deviation.
func ExampleIsBetweenAverageConditional() {
	x := dist.NewGaussian(0, 1)
	b, err := between.IsBetweenAverageConditional(x, -1, 1)
	if err != nil {
		fmt.Println("between:", err)
		return
	}
	fmt.Printf("P(inside) = %.4f\n", b.GetProbTrue())

	// Output:
	// P(inside) = 0.6827
}

// ExampleXAverageConditional conditions a prior belief on a sensor's
// reported range [1, 3] and reads off the updated estimate.
func ExampleXAverageConditional() {
	prior := dist.NewGaussian(0, 4)
	msg, err := between.XAverageConditional(dist.BernoulliPointMass(true), prior, 1, 3)
	if err != nil {
		fmt.Println("between:", err)
		return
	}

	var posterior dist.Gaussian
	if err := posterior.SetToProduct(prior, msg); err != nil {
		fmt.Println("between:", err)
		return
	}
	mean, variance := posterior.GetMeanAndVariance()
	fmt.Printf("mean     = %.3f\n", mean)
	fmt.Printf("variance = %.3f\n", variance)

	// Output:
	// mean     = 1.841
	// variance = 0.308
}
