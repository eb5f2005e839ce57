package inference

import (
	"math"

	"gostai/domain/core"
	domainstats "gostai/domain/stats"

	moremath "github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// wilcoxonExactLimit is the largest sample for which the exact signed-rank distribution is used
const wilcoxonExactLimit = 50

// PairedTTest compares two related samples. The statistic is computed on a - b.
func PairedTTest(a, b []float64) (domainstats.TestResult, error) {
	if len(a) != len(b) {
		return domainstats.TestResult{}, core.ErrMismatchedPairs
	}
	if len(a) < 2 {
		return domainstats.TestResult{}, core.NewInsufficientDataError("paired t-test", len(a), 2)
	}

	res, err := moremath.PairedTTest(a, b, 0, moremath.LocationDiffers)
	if err != nil {
		return domainstats.TestResult{}, translateMoremathError(err)
	}

	return domainstats.TestResult{
		Test:      domainstats.TestPairedT,
		Statistic: res.T,
		DF1:       res.DoF,
		PValue:    res.P,
	}, nil
}

// Wilcoxon runs the two-sided signed-rank test on a - b. Zero differences are
// dropped before ranking. The statistic is min(R+, R-). The exact null
// distribution is used for up to 50 pairs when no zero differences and no
// tied magnitudes occur; otherwise the normal approximation with tie
// correction and no continuity correction is used.
func Wilcoxon(a, b []float64) (domainstats.TestResult, error) {
	if len(a) != len(b) {
		return domainstats.TestResult{}, core.ErrMismatchedPairs
	}

	hasZeros := false
	d := make([]float64, 0, len(a))
	for i := range a {
		diff := a[i] - b[i]
		if diff == 0 {
			hasZeros = true
			continue
		}
		d = append(d, diff)
	}

	n := len(d)
	if n == 0 {
		return domainstats.TestResult{}, core.NewInsufficientDataError("Wilcoxon signed-rank", 0, 1)
	}

	abs := make([]float64, n)
	for i, v := range d {
		abs[i] = math.Abs(v)
	}
	ranks := computeRanks(abs)

	rPlus, rMinus := 0.0, 0.0
	for i, v := range d {
		if v > 0 {
			rPlus += ranks[i]
		} else {
			rMinus += ranks[i]
		}
	}
	t := math.Min(rPlus, rMinus)

	ties := tieTerm(abs)
	if n <= wilcoxonExactLimit && !hasZeros && ties == 0 {
		return domainstats.TestResult{
			Test:      domainstats.TestWilcoxon,
			Statistic: t,
			PValue:    math.Min(1, 2*signedRankCDF(n, int(t))),
			Exact:     true,
		}, nil
	}

	fn := float64(n)
	mn := fn * (fn + 1) / 4
	se := fn*(fn+1)*(2*fn+1)/24 - ties/48
	if se <= 0 {
		return domainstats.TestResult{}, core.ErrZeroVariance
	}
	z := (t - mn) / math.Sqrt(se)

	return domainstats.TestResult{
		Test:      domainstats.TestWilcoxon,
		Statistic: t,
		PValue:    math.Min(1, 2*distuv.UnitNormal.CDF(-math.Abs(z))),
	}, nil
}

// signedRankCDF returns P(T <= t) for the signed-rank statistic of n untied, non-zero differences
func signedRankCDF(n, t int) float64 {
	maxSum := n * (n + 1) / 2
	counts := make([]float64, maxSum+1)
	counts[0] = 1
	for k := 1; k <= n; k++ {
		for s := maxSum; s >= k; s-- {
			counts[s] += counts[s-k]
		}
	}

	below := 0.0
	for s := 0; s <= t && s <= maxSum; s++ {
		below += counts[s]
	}
	return below / math.Pow(2, float64(n))
}

func translateMoremathError(err error) error {
	switch err {
	case moremath.ErrSampleSize:
		return core.ErrInsufficientData
	case moremath.ErrZeroVariance:
		return core.ErrZeroVariance
	case moremath.ErrMismatchedSamples:
		return core.ErrMismatchedPairs
	}
	return err
}
