package charts

import (
	"sort"

	"github.com/censusstack/income-explorer/internal/models"
)

// boxSummary computes the five-number summary plus mean of vals.
// Quartiles interpolate linearly between closest ranks. vals must be
// non-empty.
func boxSummary(group, series string, vals []int) models.BoxSummary {
	sorted := make([]float64, len(vals))
	for i, v := range vals {
		sorted[i] = float64(v)
	}
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}

	return models.BoxSummary{
		Group:  group,
		Series: series,
		Count:  len(sorted),
		Min:    sorted[0],
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
		Mean:   sum / float64(len(sorted)),
	}
}

// quantile returns the p-quantile (0..1) of an ascending-sorted slice.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	h := p * float64(len(sorted)-1)
	lo := int(h)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
