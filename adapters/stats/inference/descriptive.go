package inference

import (
	"gostai/domain/core"
	domainstats "gostai/domain/stats"

	"github.com/montanaflynn/stats"
)

// Describe computes n, mean, sample standard deviation, median, min and max.
// A single observation yields a NaN standard deviation.
func Describe(data []float64) (domainstats.Summary, error) {
	if len(data) == 0 {
		return domainstats.Summary{}, core.NewInsufficientDataError("descriptive statistics", 0, 1)
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return domainstats.Summary{}, err
	}
	stdDev, err := stats.StandardDeviationSample(data)
	if err != nil {
		return domainstats.Summary{}, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return domainstats.Summary{}, err
	}
	min, err := stats.Min(data)
	if err != nil {
		return domainstats.Summary{}, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return domainstats.Summary{}, err
	}

	return domainstats.Summary{
		N:      len(data),
		Mean:   mean,
		StdDev: stdDev,
		Median: median,
		Min:    min,
		Max:    max,
	}, nil
}
