package inference

import (
	"math"

	"gostai/domain/core"
	domainstats "gostai/domain/stats"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Spearman computes the rank correlation of x and y. The p-value comes from
// a t distribution with n-2 degrees of freedom.
func Spearman(x, y []float64) (domainstats.TestResult, error) {
	if len(x) != len(y) {
		return domainstats.TestResult{}, core.ErrMismatchedPairs
	}
	n := len(x)
	if n < 3 {
		return domainstats.TestResult{}, core.NewInsufficientDataError("Spearman", n, 3)
	}

	rho := stat.Correlation(computeRanks(x), computeRanks(y), nil)
	if math.IsNaN(rho) {
		return domainstats.TestResult{}, core.ErrZeroVariance
	}
	if math.Abs(rho) > 1-1e-12 {
		rho = math.Copysign(1, rho)
	}

	df := float64(n - 2)
	p := 0.0
	if math.Abs(rho) < 1 {
		t := rho * math.Sqrt(df/((1+rho)*(1-rho)))
		p = 2 * distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Survival(math.Abs(t))
	}

	return domainstats.TestResult{
		Test:      domainstats.TestSpearman,
		Statistic: rho,
		DF1:       df,
		PValue:    p,
	}, nil
}
