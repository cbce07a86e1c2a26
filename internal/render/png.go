// Package render rasterizes chart artifacts for clients that want an
// image instead of the JSON artifact.
package render

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/censusstack/income-explorer/internal/models"
)

// ErrUnsupported marks artifact kinds with no PNG rendering. Box and
// sunburst artifacts stay JSON-only; the dashboard draws those
// client-side.
var ErrUnsupported = errors.New("no png renderer for chart kind")

// ErrNoData marks a placeholder artifact: there is nothing to draw.
var ErrNoData = errors.New("nothing to render")

const (
	chartWidth  = 1024
	chartHeight = 512
)

// PNG rasterizes a bar-family artifact. Grouped series flatten into
// one bar per (category, series) pair.
func PNG(a models.Artifact) ([]byte, error) {
	switch a.Kind {
	case models.KindBar, models.KindGroupedBar, models.KindHistogram:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, a.Kind)
	}
	if a.Placeholder {
		return nil, ErrNoData
	}

	bars, maxVal := flatten(a)
	if len(bars) == 0 || maxVal <= 0 {
		return nil, ErrNoData
	}

	bc := chart.BarChart{
		Title:      a.Title,
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   barWidth(len(bars)),
		BarSpacing: 6,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 40}},
		XAxis:      chart.Style{TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Name: a.YLabel,
			// Explicit range: go-chart rejects a degenerate min==max
			// range, which a single-bar artifact would otherwise hit.
			Range: &chart.ContinuousRange{Min: 0, Max: maxVal * 1.1},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", a.Chart, err)
	}
	return buf.Bytes(), nil
}

func flatten(a models.Artifact) ([]chart.Value, float64) {
	var out []chart.Value
	maxVal := 0.0
	multi := len(a.Series) > 1
	for _, s := range a.Series {
		for _, p := range s.Points {
			label := p.Label
			if multi {
				label = fmt.Sprintf("%s (%s)", p.Label, s.Name)
			}
			out = append(out, chart.Value{Label: label, Value: p.Value})
			if p.Value > maxVal {
				maxVal = p.Value
			}
		}
	}
	return out, maxVal
}

func barWidth(n int) int {
	if n <= 0 {
		return 40
	}
	w := (chartWidth - 120) / n
	if w < 8 {
		w = 8
	}
	if w > 60 {
		w = 60
	}
	return w
}
