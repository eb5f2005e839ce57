package inference

import (
	"gostai/domain/core"

	"gonum.org/v1/gonum/stat"
)

// EtaSquared returns SS_between / SS_total, the share of variance explained by
// group membership. It is 0 when the pooled data has no variance.
func EtaSquared(groups [][]float64) float64 {
	between, within, _ := sumsOfSquares(groups)
	total := between + within
	if total <= 0 {
		return 0
	}
	return between / total
}

// PairedCohensD returns mean(a-b) / sd(a-b), the standardized mean difference
// for a repeated-measures design.
func PairedCohensD(a, b []float64) (d, meanDiff, sdDiff float64, err error) {
	if len(a) != len(b) {
		return 0, 0, 0, core.ErrMismatchedPairs
	}
	if len(a) < 2 {
		return 0, 0, 0, core.NewInsufficientDataError("Cohen's d", len(a), 2)
	}

	diff := make([]float64, len(a))
	for i := range a {
		diff[i] = a[i] - b[i]
	}
	meanDiff, sdDiff = stat.MeanStdDev(diff, nil)
	if sdDiff == 0 {
		return 0, meanDiff, 0, core.ErrZeroVariance
	}
	return meanDiff / sdDiff, meanDiff, sdDiff, nil
}
