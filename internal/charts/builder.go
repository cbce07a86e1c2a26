// Package charts turns the current filtered view into renderable
// chart artifacts. Builders are pure: they never mutate the view, and
// each applies at most its own local refinement before aggregating.
package charts

import (
	"errors"
	"fmt"

	"github.com/censusstack/income-explorer/internal/engine"
	"github.com/censusstack/income-explorer/internal/models"
)

// ErrUnknownChart marks a request for a chart name not in the registry.
var ErrUnknownChart = errors.New("unknown chart")

// Builder computes one chart artifact from the shared global view.
type Builder func(v *engine.View) models.Artifact

// registry lists the charts in dashboard presentation order.
var registry = []struct {
	name  string
	build Builder
}{
	{"occupations_preview", buildOccupationsPreview},
	{"age_by_income_gender", buildAgeByIncomeGender},
	{"race_income", buildRaceIncome},
	{"age_groups", buildAgeGroups},
	{"education_income", buildEducationIncome},
	{"top_occupations", buildTopOccupations},
	{"capital_gain", buildCapitalGain},
	{"hours_by_income", buildHoursByIncome},
}

// Names returns the registered chart names in presentation order.
func Names() []string {
	out := make([]string, len(registry))
	for i, e := range registry {
		out[i] = e.name
	}
	return out
}

// Build computes the named chart from the view.
func Build(name string, v *engine.View) (models.Artifact, error) {
	for _, e := range registry {
		if e.name == name {
			return e.build(v), nil
		}
	}
	return models.Artifact{}, fmt.Errorf("%w: %q", ErrUnknownChart, name)
}

// placeholder is the artifact consumers render when a filter
// combination leaves nothing to draw. Never an error.
func placeholder(chart, kind, title string) models.Artifact {
	return models.Artifact{
		Chart:       chart,
		Kind:        kind,
		Title:       title,
		Placeholder: true,
		Message:     models.PlaceholderMessage,
	}
}
