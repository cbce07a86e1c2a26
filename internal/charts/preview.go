package charts

import (
	"github.com/censusstack/income-explorer/internal/engine"
	"github.com/censusstack/income-explorer/internal/models"
)

// buildOccupationsPreview aggregates over the whole dataset on
// purpose: the landing card shows the overall occupation mix no
// matter how the sidebar filters are set.
func buildOccupationsPreview(v *engine.View) models.Artifact {
	title := "Top occupations overall"
	ds := v.Dataset()
	if ds.Len() == 0 {
		return placeholder("occupations_preview", models.KindGroupedBar, title)
	}

	g := newGroupedCounter()
	for i := 0; i < ds.Len(); i++ {
		r := ds.Record(i)
		g.add(r.Occupation, r.Income)
	}

	cats := g.topCategories(8)
	return models.Artifact{
		Chart:  "occupations_preview",
		Kind:   models.KindGroupedBar,
		Title:  title,
		XLabel: "occupation",
		YLabel: "count",
		Rows:   ds.Len(),
		Series: g.seriesPoints(ds.Facets().IncomeLabels, cats),
	}
}
