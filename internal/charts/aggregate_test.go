package charts

import "testing"

func TestCounterTopTieBreak(t *testing.T) {
	c := newCounter()
	for _, l := range []string{"b", "a", "a", "c", "b", "d"} {
		c.add(l)
	}

	top := c.top(3)
	if len(top) != 3 {
		t.Fatalf("expected 3 labels, got %d", len(top))
	}
	// a and b tie at 2; b was seen first.
	if top[0] != "b" || top[1] != "a" {
		t.Fatalf("tie-break broken: %v", top)
	}
	// c and d tie at 1; c was seen first.
	if top[2] != "c" {
		t.Fatalf("expected c third, got %q", top[2])
	}

	all := c.top(0)
	if len(all) != 4 || all[3] != "d" {
		t.Fatalf("expected full ordering, got %v", all)
	}
}

func TestCounterSorted(t *testing.T) {
	c := newCounter()
	for _, l := range []string{"zebra", "apple", "mango"} {
		c.add(l)
	}
	s := c.sorted()
	if s[0] != "apple" || s[1] != "mango" || s[2] != "zebra" {
		t.Fatalf("unexpected order: %v", s)
	}
}

func TestGroupedCounterZeroFill(t *testing.T) {
	g := newGroupedCounter()
	g.add("x", "low")
	g.add("x", "low")
	g.add("y", "high")

	series := g.seriesPoints([]string{"low", "high"}, []string{"x", "y"})
	if len(series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(series))
	}
	low := series[0]
	if low.Points[0].Value != 2 || low.Points[1].Value != 0 {
		t.Fatalf("unexpected low counts: %+v", low.Points)
	}
	high := series[1]
	if high.Points[0].Value != 0 || high.Points[1].Value != 1 {
		t.Fatalf("unexpected high counts: %+v", high.Points)
	}
}

func TestGroupedCounterCategoryOrder(t *testing.T) {
	g := newGroupedCounter()
	g.add("rare", "s")
	g.add("common", "s")
	g.add("common", "s")

	cats := g.categoriesByTotal()
	if cats[0] != "common" || cats[1] != "rare" {
		t.Fatalf("expected total-descending order, got %v", cats)
	}
	if top := g.topCategories(1); len(top) != 1 || top[0] != "common" {
		t.Fatalf("unexpected top: %v", top)
	}
}
