package lda

import (
	"math"

	"gonum.org/v1/gonum/mathext"
)

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}

func digamma(x float64) float64 {
	return mathext.Digamma(x)
}

// trigamma computes the derivative of the digamma function via the
// recurrence psi'(x) = psi'(x+1) + 1/x^2 and the asymptotic expansion
// for large arguments. Used only by the Newton step for alpha.
func trigamma(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return math.NaN()
	}
	if x <= 0 {
		return math.NaN()
	}

	acc := 0.0
	for x < 6 {
		acc += 1 / (x * x)
		x++
	}

	inv := 1 / x
	inv2 := inv * inv
	// 1/x + 1/2x^2 + 1/6x^3 - 1/30x^5 + 1/42x^7 - 1/30x^9
	series := inv * (1 + inv*(0.5+inv*(1.0/6-inv2*(1.0/30-inv2*(1.0/42-inv2/30)))))
	return acc + series
}
