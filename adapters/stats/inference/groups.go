package inference

import (
	"math"

	"gostai/domain/core"
	domainstats "gostai/domain/stats"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// OneWayANOVA tests equality of group means.
func OneWayANOVA(groups [][]float64) (domainstats.TestResult, error) {
	if err := checkGroups("ANOVA", groups, 1); err != nil {
		return domainstats.TestResult{}, err
	}

	ssBetween, ssWithin, n := sumsOfSquares(groups)
	k := float64(len(groups))
	dfBetween := k - 1
	dfWithin := n - k
	if dfWithin <= 0 {
		return domainstats.TestResult{}, core.NewInsufficientDataError("ANOVA", int(n), len(groups)+1)
	}
	if ssWithin == 0 {
		return domainstats.TestResult{}, core.ErrZeroVariance
	}

	f := (ssBetween / dfBetween) / (ssWithin / dfWithin)
	return domainstats.TestResult{
		Test:      domainstats.TestANOVA,
		Statistic: f,
		DF1:       dfBetween,
		DF2:       dfWithin,
		PValue:    distuv.F{D1: dfBetween, D2: dfWithin}.Survival(f),
	}, nil
}

// KruskalWallis tests whether groups come from the same distribution, with tie correction.
func KruskalWallis(groups [][]float64) (domainstats.TestResult, error) {
	if err := checkGroups("Kruskal-Wallis", groups, 1); err != nil {
		return domainstats.TestResult{}, err
	}

	all := concat(groups)
	ranks := computeRanks(all)
	n := float64(len(all))

	h := 0.0
	offset := 0
	for _, g := range groups {
		sum := floats.Sum(ranks[offset : offset+len(g)])
		h += sum * sum / float64(len(g))
		offset += len(g)
	}
	h = 12/(n*(n+1))*h - 3*(n+1)

	correction := 1 - tieTerm(all)/(n*n*n-n)
	if correction == 0 {
		return domainstats.TestResult{}, core.ErrZeroVariance
	}
	h /= correction

	df := float64(len(groups) - 1)
	return domainstats.TestResult{
		Test:      domainstats.TestKruskalWallis,
		Statistic: h,
		DF1:       df,
		PValue:    distuv.ChiSquared{K: df}.Survival(h),
	}, nil
}

// Levene tests homogeneity of variance using absolute deviations from each group's median.
func Levene(groups [][]float64) (domainstats.TestResult, error) {
	if err := checkGroups("Levene", groups, 2); err != nil {
		return domainstats.TestResult{}, err
	}

	deviations := make([][]float64, len(groups))
	for i, g := range groups {
		median, err := stats.Median(g)
		if err != nil {
			return domainstats.TestResult{}, err
		}
		dev := make([]float64, len(g))
		for j, v := range g {
			dev[j] = math.Abs(v - median)
		}
		deviations[i] = dev
	}

	ssBetween, ssWithin, n := sumsOfSquares(deviations)
	k := float64(len(groups))
	if ssWithin == 0 {
		return domainstats.TestResult{}, core.ErrZeroVariance
	}

	w := ((n - k) / (k - 1)) * ssBetween / ssWithin
	return domainstats.TestResult{
		Test:      domainstats.TestLevene,
		Statistic: w,
		DF1:       k - 1,
		DF2:       n - k,
		PValue:    distuv.F{D1: k - 1, D2: n - k}.Survival(w),
	}, nil
}

// sumsOfSquares partitions total variation into between- and within-group parts
func sumsOfSquares(groups [][]float64) (between, within, n float64) {
	all := concat(groups)
	grand := stat.Mean(all, nil)
	for _, g := range groups {
		m := stat.Mean(g, nil)
		between += float64(len(g)) * (m - grand) * (m - grand)
		for _, v := range g {
			within += (v - m) * (v - m)
		}
	}
	return between, within, float64(len(all))
}

func checkGroups(test string, groups [][]float64, minSize int) error {
	if len(groups) < 2 {
		return core.NewInsufficientDataError(test+" (groups)", len(groups), 2)
	}
	for _, g := range groups {
		if len(g) < minSize {
			return core.NewInsufficientDataError(test, len(g), minSize)
		}
	}
	return nil
}
