package charts

import (
	"sort"

	"github.com/censusstack/income-explorer/internal/models"
)

// counter accumulates label frequencies while remembering the order
// labels were first seen, so ties always break the same way for the
// same dataset.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(label string) {
	if _, ok := c.counts[label]; !ok {
		c.order = append(c.order, label)
	}
	c.counts[label]++
}

func (c *counter) count(label string) int {
	return c.counts[label]
}

// labels returns all labels in first-encountered order.
func (c *counter) labels() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// sorted returns all labels in ascending label order.
func (c *counter) sorted() []string {
	out := c.labels()
	sort.Strings(out)
	return out
}

// top returns the n most frequent labels: count descending, ties in
// first-encountered order. n <= 0 returns everything.
func (c *counter) top(n int) []string {
	out := c.labels()
	sort.SliceStable(out, func(i, j int) bool {
		return c.counts[out[i]] > c.counts[out[j]]
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// points materializes the given labels as chart points.
func (c *counter) points(labels []string) []models.Point {
	out := make([]models.Point, len(labels))
	for i, l := range labels {
		out[i] = models.Point{Label: l, Value: float64(c.counts[l])}
	}
	return out
}

// groupedCounter counts (category, series) pairs, e.g. occupation by
// income label. Category order is first-encountered; series sets are
// supplied by the caller so absent combinations become zero points.
type groupedCounter struct {
	total  *counter
	series map[string]*counter
}

func newGroupedCounter() *groupedCounter {
	return &groupedCounter{total: newCounter(), series: make(map[string]*counter)}
}

func (g *groupedCounter) add(category, series string) {
	g.total.add(category)
	sc, ok := g.series[series]
	if !ok {
		sc = newCounter()
		g.series[series] = sc
	}
	sc.add(category)
}

// topCategories returns the n categories with the highest combined
// count, ties in first-encountered order.
func (g *groupedCounter) topCategories(n int) []string {
	return g.total.top(n)
}

// categoriesByTotal returns every category, combined count descending,
// ties in first-encountered order.
func (g *groupedCounter) categoriesByTotal() []string {
	return g.total.top(0)
}

// seriesPoints builds one aligned series per name: a point for every
// category, zero when the combination never occurred.
func (g *groupedCounter) seriesPoints(names, categories []string) []models.Series {
	out := make([]models.Series, 0, len(names))
	for _, name := range names {
		points := make([]models.Point, len(categories))
		sc := g.series[name]
		for i, cat := range categories {
			v := 0
			if sc != nil {
				v = sc.count(cat)
			}
			points[i] = models.Point{Label: cat, Value: float64(v)}
		}
		out = append(out, models.Series{Name: name, Points: points})
	}
	return out
}
