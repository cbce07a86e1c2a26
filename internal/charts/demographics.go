package charts

import (
	"github.com/censusstack/income-explorer/internal/dataset"
	"github.com/censusstack/income-explorer/internal/engine"
	"github.com/censusstack/income-explorer/internal/models"
)

// buildAgeByIncomeGender summarizes age per income label, split by
// gender. Box groups appear in sorted label order; combinations with
// no records are omitted rather than zero-filled, since an empty box
// has no summary.
func buildAgeByIncomeGender(v *engine.View) models.Artifact {
	title := "Age by income and gender"
	if v.Len() == 0 {
		return placeholder("age_by_income_gender", models.KindBox, title)
	}

	incomes := newCounter()
	genders := newCounter()
	ages := make(map[string][]int)
	for i := 0; i < v.Len(); i++ {
		r := v.Record(i)
		incomes.add(r.Income)
		genders.add(r.Gender)
		key := r.Income + "\x00" + r.Gender
		ages[key] = append(ages[key], r.Age)
	}

	var boxes []models.BoxSummary
	for _, income := range incomes.sorted() {
		for _, gender := range genders.sorted() {
			vals := ages[income+"\x00"+gender]
			if len(vals) == 0 {
				continue
			}
			boxes = append(boxes, boxSummary(income, gender, vals))
		}
	}

	return models.Artifact{
		Chart:  "age_by_income_gender",
		Kind:   models.KindBox,
		Title:  title,
		XLabel: "income",
		YLabel: "age",
		Rows:   v.Len(),
		Boxes:  boxes,
	}
}

// buildRaceIncome nests income counts under each race. Races order by
// count descending with first-encountered tie-break; income children
// sort by label.
func buildRaceIncome(v *engine.View) models.Artifact {
	title := "Race and income"
	if v.Len() == 0 {
		return placeholder("race_income", models.KindSunburst, title)
	}

	races := newCounter()
	byRace := make(map[string]*counter)
	for i := 0; i < v.Len(); i++ {
		r := v.Record(i)
		races.add(r.Race)
		sub, ok := byRace[r.Race]
		if !ok {
			sub = newCounter()
			byRace[r.Race] = sub
		}
		sub.add(r.Income)
	}

	segments := make([]models.Segment, 0, len(races.order))
	for _, race := range races.top(0) {
		sub := byRace[race]
		children := make([]models.Segment, 0, len(sub.order))
		for _, income := range sub.sorted() {
			children = append(children, models.Segment{Label: income, Count: sub.count(income)})
		}
		segments = append(segments, models.Segment{
			Label:    race,
			Count:    races.count(race),
			Children: children,
		})
	}

	return models.Artifact{
		Chart:    "race_income",
		Kind:     models.KindSunburst,
		Title:    title,
		Rows:     v.Len(),
		Segments: segments,
	}
}

// buildAgeGroups counts records per derived age bin, split by income.
// Bins appear in ascending age order; records outside the binned range
// carry no bin and are skipped.
func buildAgeGroups(v *engine.View) models.Artifact {
	title := "Age groups by income"
	if v.Len() == 0 {
		return placeholder("age_groups", models.KindGroupedBar, title)
	}

	g := newGroupedCounter()
	rows := 0
	for i := 0; i < v.Len(); i++ {
		r := v.Record(i)
		if r.AgeGroup == "" {
			continue
		}
		g.add(r.AgeGroup, r.Income)
		rows++
	}
	if rows == 0 {
		return placeholder("age_groups", models.KindGroupedBar, title)
	}

	cats := make([]string, 0, len(g.total.order))
	for _, bin := range dataset.AgeGroupLabels() {
		if g.total.count(bin) > 0 {
			cats = append(cats, bin)
		}
	}

	return models.Artifact{
		Chart:  "age_groups",
		Kind:   models.KindGroupedBar,
		Title:  title,
		XLabel: "age_group",
		YLabel: "count",
		Rows:   rows,
		Series: g.seriesPoints(v.Dataset().Facets().IncomeLabels, cats),
	}
}
