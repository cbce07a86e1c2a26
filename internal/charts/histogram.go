package charts

import (
	"fmt"
	"math"

	"github.com/censusstack/income-explorer/internal/models"
)

// logBinning fixes one set of histogram bucket edges, evenly spaced in
// log10 between the smallest and largest positive value it was built
// from. Series bucketed against the same binning line up point for
// point. Zeros cannot sit on a log axis; when the combined input holds
// any, the binning reserves a leading "0" bucket for every series.
type logBinning struct {
	bins   int
	zeros  bool
	minPos int
	maxPos int
	lo     float64
	width  float64
}

// newLogBinning derives bucket edges from the combined values of every
// series the histogram will carry.
func newLogBinning(vals []int, bins int) logBinning {
	if bins <= 0 {
		bins = 50
	}
	b := logBinning{bins: bins}
	for _, v := range vals {
		if v <= 0 {
			b.zeros = true
			continue
		}
		if b.minPos == 0 || v < b.minPos {
			b.minPos = v
		}
		if v > b.maxPos {
			b.maxPos = v
		}
	}
	if b.minPos != 0 && b.minPos != b.maxPos {
		b.lo = math.Log10(float64(b.minPos))
		b.width = (math.Log10(float64(b.maxPos)) - b.lo) / float64(b.bins)
	}
	return b
}

// points buckets one series' values against the shared edges. Values
// outside the binning's range clamp into the first or last bucket.
// Returns nil when the binning was built from no values.
func (b logBinning) points(vals []int) []models.Point {
	zeros, pos := 0, 0
	for _, v := range vals {
		if v <= 0 {
			zeros++
		} else {
			pos++
		}
	}

	var out []models.Point
	if b.zeros {
		out = append(out, models.Point{Label: "0", Value: float64(zeros)})
	}
	if b.minPos == 0 {
		return out
	}
	if b.minPos == b.maxPos {
		return append(out, models.Point{Label: fmt.Sprintf("%d", b.minPos), Value: float64(pos)})
	}

	counts := make([]int, b.bins)
	for _, v := range vals {
		if v <= 0 {
			continue
		}
		idx := int((math.Log10(float64(v)) - b.lo) / b.width)
		if idx < 0 {
			idx = 0
		}
		if idx >= b.bins {
			idx = b.bins - 1
		}
		counts[idx]++
	}

	for i, c := range counts {
		from := math.Pow(10, b.lo+float64(i)*b.width)
		to := math.Pow(10, b.lo+float64(i+1)*b.width)
		out = append(out, models.Point{
			Label: fmt.Sprintf("%.0f-%.0f", from, to),
			Value: float64(c),
		})
	}
	return out
}
