package special

import "math"

// Gauss-Legendre half-tables used by the bivariate integrator: 6-point
// for |r| < 0.3, 12-point for |r| < 0.75, 20-point otherwise.
var (
	bvnW6 = []float64{0.1713244923791705, 0.3607615730481384, 0.4679139345726904}
	bvnX6 = []float64{0.9324695142031522, 0.6612093864662647, 0.2386191860831970}

	bvnW12 = []float64{
		0.04717533638651177, 0.1069393259953183, 0.1600783285433464,
		0.2031674267230659, 0.2334925365383547, 0.2491470458134029,
	}
	bvnX12 = []float64{
		0.9815606342467191, 0.9041172563704750, 0.7699026741943050,
		0.5873179542866171, 0.3678314989981802, 0.1252334085114692,
	}

	bvnW20 = []float64{
		0.01761400713915212, 0.04060142980038694, 0.06267204833410906,
		0.08327674157670475, 0.1019301198172404, 0.1181945319615184,
		0.1316886384491766, 0.1420961093183821, 0.1491729864726037,
		0.1527533871307259,
	}
	bvnX20 = []float64{
		0.9931285991850949, 0.9639719272779138, 0.9122344282513259,
		0.8391169718222188, 0.7463319064601508, 0.6360536807265150,
		0.5108670019508271, 0.3737060887154196, 0.2277858511416451,
		0.07652652113349733,
	}
)

// NormalCdf2 returns the bivariate normal probability
//
//	Φ₂(h, k; r) = P(X ≤ h, Y ≤ k),  corr(X, Y) = r,
//
// by the Drezner–Wesolowsky Gauss-Legendre scheme for |r| < 0.925 and the
// transformed tail-difference expansion above that — the separately
// derived form that stays accurate as r → ±1. |r| > 1 or NaN inputs
// return NaN.
func NormalCdf2(h, k, r float64) float64 {
	if math.IsNaN(h) || math.IsNaN(k) || math.IsNaN(r) || math.Abs(r) > 1 {
		return math.NaN()
	}
	return bvnUpper(-h, -k, r)
}

// bvnUpper returns P(X > dh, Y > dk) for standard bivariate normal with
// correlation r. Port of the classic BVND quadrature.
func bvnUpper(dh, dk, r float64) float64 {
	const twoPi = 2 * math.Pi

	var xs, ws []float64
	switch {
	case math.Abs(r) < 0.3:
		xs, ws = bvnX6, bvnW6
	case math.Abs(r) < 0.75:
		xs, ws = bvnX12, bvnW12
	default:
		xs, ws = bvnX20, bvnW20
	}

	h, k := dh, dk
	hk := h * k
	bvn := 0.0
	if math.Abs(r) < 0.925 {
		if r != 0 {
			hs := (h*h + k*k) / 2
			asr := math.Asin(r)
			for i := range xs {
				for _, is := range []float64{-1, 1} {
					sn := math.Sin(asr * (is*xs[i] + 1) / 2)
					bvn += ws[i] * math.Exp((sn*hk-hs)/(1-sn*sn))
				}
			}
			bvn = bvn * asr / (2 * twoPi)
		}
		return bvn + NormalCdf(-h)*NormalCdf(-k)
	}

	if r < 0 {
		k = -k
		hk = -hk
	}
	if math.Abs(r) < 1 {
		as := (1 - r) * (1 + r)
		a := math.Sqrt(as)
		bs := (h - k) * (h - k)
		c := (4 - hk) / 8
		d := (12 - hk) / 16
		asr := -(bs/as + hk) / 2
		if asr > -100 {
			bvn = a * math.Exp(asr) * (1 - c*(bs-as)*(1-d*bs/5)/3 + c*d*as*as/5)
		}
		if -hk < 100 {
			b := math.Sqrt(bs)
			bvn -= math.Exp(-hk/2) * Sqrt2Pi * NormalCdf(-b/a) * b * (1 - c*bs*(1-d*bs/5)/3)
		}
		a /= 2
		for i := range xs {
			for _, is := range []float64{-1, 1} {
				x := a * (is*xs[i] + 1)
				xsq := x * x
				rs := math.Sqrt(1 - xsq)
				asr = -(bs/xsq + hk) / 2
				if asr > -100 {
					sp := 1 + c*xsq*(1+d*xsq)
					ep := math.Exp(-hk*(1-rs)/(2*(1+rs))) / rs
					bvn += a * ws[i] * math.Exp(asr) * (ep - sp)
				}
			}
		}
		bvn = -bvn / twoPi
	}
	if r > 0 {
		return bvn + NormalCdf(-math.Max(h, k))
	}
	bvn = -bvn
	if k > h {
		bvn += NormalCdf(k) - NormalCdf(h)
	}
	return bvn
}

// NormalCdf2Ln returns ln Φ₂(h, k; r). For probabilities safely above the
// underflow threshold it is the log of NormalCdf2; deeper in the joint
// tail it switches to the conditional-factorization asymptotic
//
//	ln Φ₂ ≈ ln Φ(h) + ln Φ((k − r·E[X|X≤h]) / √(1−r²)),  h ≤ k,
//
// which keeps the exponential scale exact where the quadrature result
// would round to zero. r = ±1 are handled in closed form.
func NormalCdf2Ln(h, k, r float64) float64 {
	if math.IsNaN(h) || math.IsNaN(k) || math.IsNaN(r) || math.Abs(r) > 1 {
		return math.NaN()
	}
	if r == 1 {
		return NormalCdfLn(math.Min(h, k))
	}
	if r == -1 {
		// max(0, Φ(h)+Φ(k)−1) = max(0, 1 − Φ(−h) − Φ(−k))
		s := NormalCdf(-h) + NormalCdf(-k)
		if s >= 1 {
			return math.Inf(-1)
		}
		return math.Log1p(-s)
	}
	p := NormalCdf2(h, k, r)
	if p > 1e-292 {
		return math.Log(p)
	}
	if k < h {
		h, k = k, h
	}
	condMean := -1 / NormalCdfRatio(h) // E[X | X ≤ h]
	c := (k - r*condMean) / math.Sqrt((1-r)*(1+r))
	return NormalCdfLn(h) + NormalCdfLn(c)
}
