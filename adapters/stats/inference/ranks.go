package inference

import (
	"sort"
)

// computeRanks converts values to 1-based ranks, averaging ranks across ties
func computeRanks(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return []float64{}
	}

	type pair struct {
		value float64
		index int
	}

	pairs := make([]pair, n)
	for i, val := range data {
		pairs[i] = pair{value: val, index: i}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].value < pairs[j].value
	})

	ranks := make([]float64, n)

	i := 0
	for i < n {
		j := i + 1
		for j < n && pairs[j].value == pairs[i].value {
			j++
		}

		groupSize := j - i
		avgRank := float64(i+1) + float64(groupSize-1)/2.0

		for k := i; k < j; k++ {
			ranks[pairs[k].index] = avgRank
		}

		i = j
	}

	return ranks
}

// tieSizes returns the size of every group of equal values with more than one member
func tieSizes(data []float64) []int {
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)

	var sizes []int
	i := 0
	for i < len(sorted) {
		j := i + 1
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if j-i > 1 {
			sizes = append(sizes, j-i)
		}
		i = j
	}
	return sizes
}

// tieTerm returns Σ(t³ - t) over tie groups, the quantity every rank test's tie correction uses
func tieTerm(data []float64) float64 {
	sum := 0.0
	for _, t := range tieSizes(data) {
		ft := float64(t)
		sum += ft*ft*ft - ft
	}
	return sum
}

func concat(groups [][]float64) []float64 {
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	out := make([]float64, 0, total)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
