package charts

import (
	"github.com/censusstack/income-explorer/internal/engine"
	"github.com/censusstack/income-explorer/internal/models"
)

const capitalGainBins = 50

// buildCapitalGain histograms capital gains per income label on a log
// x-axis, every series bucketed against one shared set of edges. The
// tab's local flag narrows to records with a positive gain; without
// it, the zero bucket dominates.
func buildCapitalGain(v *engine.View) models.Artifact {
	title := "Capital gain distribution"
	if v.Len() == 0 {
		return placeholder("capital_gain", models.KindHistogram, title)
	}

	only := v.Params().CapitalGainOnly
	incomes := newCounter()
	byIncome := make(map[string][]int)
	all := make([]int, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		r := v.Record(i)
		if only && r.CapitalGain <= 0 {
			continue
		}
		incomes.add(r.Income)
		byIncome[r.Income] = append(byIncome[r.Income], r.CapitalGain)
		all = append(all, r.CapitalGain)
	}
	if len(all) == 0 {
		return placeholder("capital_gain", models.KindHistogram, title)
	}

	binning := newLogBinning(all, capitalGainBins)
	series := make([]models.Series, 0, len(byIncome))
	for _, income := range incomes.sorted() {
		series = append(series, models.Series{Name: income, Points: binning.points(byIncome[income])})
	}

	return models.Artifact{
		Chart:  "capital_gain",
		Kind:   models.KindHistogram,
		Title:  title,
		XLabel: "capital_gain",
		YLabel: "count",
		LogX:   true,
		Rows:   len(all),
		Series: series,
	}
}

// buildHoursByIncome summarizes hours per week for each income label
// after the tab's local hours-range refinement.
func buildHoursByIncome(v *engine.View) models.Artifact {
	title := "Hours per week by income"
	if v.Len() == 0 {
		return placeholder("hours_by_income", models.KindBox, title)
	}

	hours := v.Params().Hours
	incomes := newCounter()
	byIncome := make(map[string][]int)
	rows := 0
	for i := 0; i < v.Len(); i++ {
		r := v.Record(i)
		if !hours.Contains(r.HoursPerWeek) {
			continue
		}
		incomes.add(r.Income)
		byIncome[r.Income] = append(byIncome[r.Income], r.HoursPerWeek)
		rows++
	}
	if rows == 0 {
		return placeholder("hours_by_income", models.KindBox, title)
	}

	boxes := make([]models.BoxSummary, 0, len(byIncome))
	for _, income := range incomes.sorted() {
		boxes = append(boxes, boxSummary(income, "", byIncome[income]))
	}

	return models.Artifact{
		Chart:  "hours_by_income",
		Kind:   models.KindBox,
		Title:  title,
		XLabel: "income",
		YLabel: "hours_per_week",
		Rows:   rows,
		Boxes:  boxes,
	}
}
