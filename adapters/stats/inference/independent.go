package inference

import (
	"math"

	"gostai/domain/core"
	domainstats "gostai/domain/stats"

	moremath "github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// mannWhitneyExactLimit bounds each group size for the exact U distribution
const mannWhitneyExactLimit = 8

// TTest compares two independent samples assuming equal variances.
func TTest(x, y []float64) (domainstats.TestResult, error) {
	if len(x) < 2 || len(y) < 2 {
		return domainstats.TestResult{}, core.NewInsufficientDataError("t-test", min(len(x), len(y)), 2)
	}

	res, err := moremath.TwoSampleTTest(moremath.Sample{Xs: x}, moremath.Sample{Xs: y}, moremath.LocationDiffers)
	if err != nil {
		return domainstats.TestResult{}, translateMoremathError(err)
	}

	return domainstats.TestResult{
		Test:      domainstats.TestTTest,
		Statistic: res.T,
		DF1:       res.DoF,
		PValue:    res.P,
	}, nil
}

// MannWhitneyU runs the two-sided rank-sum test. The statistic is U for x.
// Untied samples where either group has at most 8 values use the exact
// distribution; otherwise the normal approximation with tie and continuity
// corrections applies.
func MannWhitneyU(x, y []float64) (domainstats.TestResult, error) {
	n1, n2 := len(x), len(y)
	if n1 == 0 || n2 == 0 {
		return domainstats.TestResult{}, core.NewInsufficientDataError("Mann-Whitney U", min(n1, n2), 1)
	}

	all := concat([][]float64{x, y})
	ties := tieTerm(all)

	ranks := computeRanks(all)
	r1 := 0.0
	for i := 0; i < n1; i++ {
		r1 += ranks[i]
	}

	fn1, fn2 := float64(n1), float64(n2)
	n := fn1 + fn2
	u1 := r1 - fn1*(fn1+1)/2
	u2 := fn1*fn2 - u1

	if (n1 <= mannWhitneyExactLimit || n2 <= mannWhitneyExactLimit) && ties == 0 {
		dist := moremath.UDist{N1: n1, N2: n2}
		p := 2 * dist.CDF(math.Min(u1, u2))
		return domainstats.TestResult{
			Test:      domainstats.TestMannWhitney,
			Statistic: u1,
			PValue:    math.Min(1, p),
			Exact:     true,
		}, nil
	}

	u := math.Max(u1, u2)
	mu := fn1 * fn2 / 2
	s := math.Sqrt(fn1 * fn2 / 12 * ((n + 1) - ties/(n*(n-1))))
	if s == 0 {
		return domainstats.TestResult{Test: domainstats.TestMannWhitney, Statistic: u1, PValue: 1}, nil
	}
	z := (u - mu - 0.5) / s
	p := 2 * distuv.UnitNormal.Survival(z)

	return domainstats.TestResult{
		Test:      domainstats.TestMannWhitney,
		Statistic: u1,
		PValue:    math.Max(0, math.Min(1, p)),
	}, nil
}
