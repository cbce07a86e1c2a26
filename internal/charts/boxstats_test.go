package charts

import "testing"

func TestBoxSummaryOddCount(t *testing.T) {
	b := boxSummary("g", "s", []int{40, 20, 30})
	if b.Group != "g" || b.Series != "s" || b.Count != 3 {
		t.Fatalf("unexpected identity: %+v", b)
	}
	if b.Min != 20 || b.Max != 40 || b.Median != 30 {
		t.Fatalf("unexpected summary: %+v", b)
	}
	if b.Q1 != 25 || b.Q3 != 35 {
		t.Fatalf("unexpected quartiles: %+v", b)
	}
	if b.Mean != 30 {
		t.Fatalf("unexpected mean: %v", b.Mean)
	}
}

func TestBoxSummaryEvenCount(t *testing.T) {
	b := boxSummary("g", "", []int{10, 20, 30, 40})
	if b.Median != 25 {
		t.Fatalf("expected interpolated median 25, got %v", b.Median)
	}
	if b.Q1 != 17.5 || b.Q3 != 32.5 {
		t.Fatalf("unexpected quartiles: %+v", b)
	}
}

func TestBoxSummarySingleValue(t *testing.T) {
	b := boxSummary("g", "", []int{42})
	if b.Min != 42 || b.Q1 != 42 || b.Median != 42 || b.Q3 != 42 || b.Max != 42 {
		t.Fatalf("expected degenerate box, got %+v", b)
	}
}

func TestQuantileBounds(t *testing.T) {
	sorted := []float64{1, 2, 3}
	if q := quantile(sorted, 0); q != 1 {
		t.Fatalf("expected 1 at p=0, got %v", q)
	}
	if q := quantile(sorted, 1); q != 3 {
		t.Fatalf("expected 3 at p=1, got %v", q)
	}
}
