package budget

import "math"

// epsilon matches the smallest step above 1.0 so values such as 1.005,
// stored as 1.00499999..., still round up.
const epsilon = 2.220446049250313e-16

// Above this magnitude a float64 cannot hold cents, and scaling by 100
// could overflow.
const maxCents = 1e15

// Round2 rounds to cents, half away from zero. Values too large to carry
// cents are returned unchanged.
func Round2(v float64) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > maxCents {
		return v
	}
	return math.Round((v+math.Copysign(epsilon, v))*100) / 100
}

// saturate keeps a derived amount finite. Products of large inputs can
// overflow, and an infinite subtotal times a zero fee percentage is NaN.
func saturate(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	}
	return v
}
