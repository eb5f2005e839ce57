package inference

import (
	"math"
	"sort"

	"gostai/domain/core"
	domainstats "gostai/domain/stats"

	"gonum.org/v1/gonum/stat/distuv"
)

// Polynomial coefficients from Royston (1995), algorithm AS R94
var (
	swG  = []float64{-2.273, 0.459}
	swC1 = []float64{0.0, 0.221157, -0.147981, -2.071190, 4.434685, -2.706056}
	swC2 = []float64{0.0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.5440, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
)

const swSmall = 1e-19

// ShapiroWilk tests the null hypothesis that data was drawn from a normal
// distribution, using Royston's approximation for W and its p-value. n must be at least 3.
// A constant sample gives W = 1 and p = 1.
func ShapiroWilk(data []float64) (domainstats.TestResult, error) {
	n := len(data)
	if n < 3 {
		return domainstats.TestResult{}, core.NewInsufficientDataError("Shapiro-Wilk", n, 3)
	}

	x := append([]float64(nil), data...)
	sort.Float64s(x)

	if x[n-1]-x[0] < swSmall {
		return domainstats.TestResult{Test: domainstats.TestShapiroWilk, Statistic: 1, PValue: 1}, nil
	}

	a := shapiroCoefficients(n)

	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(n)

	ssq := 0.0
	for _, v := range x {
		d := v - mean
		ssq += d * d
	}

	num := 0.0
	for i := range a {
		num += a[i] * (x[n-1-i] - x[i])
	}

	w := num * num / ssq
	if w > 1 {
		w = 1
	}

	return domainstats.TestResult{
		Test:      domainstats.TestShapiroWilk,
		Statistic: w,
		PValue:    shapiroPValue(w, n),
	}, nil
}

// shapiroCoefficients returns the n/2 antisymmetric weights a_i, largest first
func shapiroCoefficients(n int) []float64 {
	nn2 := n / 2
	a := make([]float64, nn2)

	if n == 3 {
		a[0] = math.Sqrt(0.5)
		return a
	}

	an := float64(n)
	an25 := an + 0.25
	m := make([]float64, nn2)
	summ2 := 0.0
	for i := 0; i < nn2; i++ {
		m[i] = distuv.UnitNormal.Quantile((float64(i+1) - 0.375) / an25)
		summ2 += m[i] * m[i]
	}
	summ2 *= 2
	ssumm2 := math.Sqrt(summ2)
	rsn := 1 / math.Sqrt(an)

	a1 := poly(swC1, rsn) - m[0]/ssumm2

	var i1 int
	var fac float64
	if n > 5 {
		i1 = 2
		a2 := -m[1]/ssumm2 + poly(swC2, rsn)
		fac = math.Sqrt((summ2 - 2*m[0]*m[0] - 2*m[1]*m[1]) / (1 - 2*a1*a1 - 2*a2*a2))
		a[1] = a2
	} else {
		i1 = 1
		fac = math.Sqrt((summ2 - 2*m[0]*m[0]) / (1 - 2*a1*a1))
	}
	a[0] = a1
	for i := i1; i < nn2; i++ {
		a[i] = -m[i] / fac
	}
	return a
}

func shapiroPValue(w float64, n int) float64 {
	an := float64(n)

	if n == 3 {
		const pi6 = 6 / math.Pi
		const stqr = math.Pi / 3
		pw := pi6 * (math.Asin(math.Sqrt(w)) - stqr)
		return math.Max(pw, 0)
	}

	y := math.Log(1 - w)
	var m, s float64
	if n <= 11 {
		gamma := poly(swG, an)
		if y >= gamma {
			return 1e-99
		}
		y = -math.Log(gamma - y)
		m = poly(swC3, an)
		s = math.Exp(poly(swC4, an))
	} else {
		xx := math.Log(an)
		m = poly(swC5, xx)
		s = math.Exp(poly(swC6, xx))
	}

	return distuv.UnitNormal.Survival((y - m) / s)
}

// poly evaluates c[0] + c[1]x + c[2]x² + ...
func poly(c []float64, x float64) float64 {
	result := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		result = result*x + c[i]
	}
	return result
}
