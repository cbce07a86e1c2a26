package charts

import (
	"github.com/censusstack/income-explorer/internal/engine"
	"github.com/censusstack/income-explorer/internal/models"
)

// highIncome is the dataset's upper income label.
const highIncome = ">50K"

// buildEducationIncome counts records per education level, split by
// income, after the tab's local education refinement. Levels order by
// combined count descending.
func buildEducationIncome(v *engine.View) models.Artifact {
	title := "Education by income"
	if v.Len() == 0 {
		return placeholder("education_income", models.KindGroupedBar, title)
	}

	edu := v.Params().Education
	g := newGroupedCounter()
	rows := 0
	for i := 0; i < v.Len(); i++ {
		r := v.Record(i)
		if edu != models.All && r.Education != edu {
			continue
		}
		g.add(r.Education, r.Income)
		rows++
	}
	if rows == 0 {
		return placeholder("education_income", models.KindGroupedBar, title)
	}

	return models.Artifact{
		Chart:  "education_income",
		Kind:   models.KindGroupedBar,
		Title:  title,
		XLabel: "education",
		YLabel: "count",
		Rows:   rows,
		Series: g.seriesPoints(v.Dataset().Facets().IncomeLabels, g.categoriesByTotal()),
	}
}

// buildTopOccupations ranks occupations among records earning above
// the threshold, after the tab's local occupation refinement. Top 10,
// ties in first-encountered order.
func buildTopOccupations(v *engine.View) models.Artifact {
	title := "Top occupations among >50K earners"
	if v.Len() == 0 {
		return placeholder("top_occupations", models.KindBar, title)
	}

	occ := v.Params().Occupation
	c := newCounter()
	rows := 0
	for i := 0; i < v.Len(); i++ {
		r := v.Record(i)
		if occ != models.All && r.Occupation != occ {
			continue
		}
		if r.Income != highIncome {
			continue
		}
		c.add(r.Occupation)
		rows++
	}
	if rows == 0 {
		return placeholder("top_occupations", models.KindBar, title)
	}

	return models.Artifact{
		Chart:  "top_occupations",
		Kind:   models.KindBar,
		Title:  title,
		XLabel: "occupation",
		YLabel: "count",
		Rows:   rows,
		Series: []models.Series{{Name: highIncome, Points: c.points(c.top(10))}},
	}
}
