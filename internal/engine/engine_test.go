package engine

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/censusstack/income-explorer/internal/dataset"
	"github.com/censusstack/income-explorer/internal/models"
)

type fakeObserver struct {
	recomputes int
	hits       int
	lastSize   int
}

func (f *fakeObserver) ViewRecomputed(size int) {
	f.recomputes++
	f.lastSize = size
}

func (f *fakeObserver) ViewCacheHit() {
	f.hits++
}

const testHeader = "age,workclass,occupation,native_country,race,gender,education,hours_per_week,capital_gain,income"

func testRow(age int, race, gender, occupation string) string {
	return fmt.Sprintf("%d,Private,%s,United-States,%s,%s,Bachelors,40,0,<=50K", age, occupation, race, gender)
}

func makeDataset(t *testing.T, rows ...string) *dataset.Dataset {
	t.Helper()
	src := testHeader + "\n" + strings.Join(rows, "\n") + "\n"
	d, err := dataset.Parse(strings.NewReader(src), ',')
	if err != nil {
		t.Fatalf("parse test dataset: %v", err)
	}
	return d
}

func TestCurrentViewMemoizes(t *testing.T) {
	obs := &fakeObserver{}
	e := New(makeDataset(t,
		testRow(30, "White", "Male", "Sales"),
		testRow(40, "Black", "Female", "Craft-repair"),
	), obs)

	v1 := e.CurrentView()
	v2 := e.CurrentView()
	if v1 != v2 {
		t.Fatal("expected pointer-identical view for unchanged parameters")
	}
	if obs.recomputes != 1 {
		t.Fatalf("expected 1 recomputation, got %d", obs.recomputes)
	}
	if obs.hits != 1 {
		t.Fatalf("expected 1 cache hit, got %d", obs.hits)
	}
}

func TestManyPullsOneRecompute(t *testing.T) {
	obs := &fakeObserver{}
	e := New(makeDataset(t, testRow(30, "White", "Male", "Sales")), obs)

	var last *View
	for i := 0; i < 8; i++ {
		v := e.CurrentView()
		if last != nil && v != last {
			t.Fatalf("pull %d returned a different view", i)
		}
		last = v
	}
	if obs.recomputes != 1 {
		t.Fatalf("expected 1 recomputation across 8 pulls, got %d", obs.recomputes)
	}
}

func TestWriteInvalidatesCachedView(t *testing.T) {
	obs := &fakeObserver{}
	e := New(makeDataset(t,
		testRow(30, "White", "Male", "Sales"),
		testRow(40, "White", "Female", "Sales"),
	), obs)

	v1 := e.CurrentView()
	if err := e.SetGender("Female"); err != nil {
		t.Fatalf("set gender: %v", err)
	}
	v2 := e.CurrentView()
	if v1 == v2 {
		t.Fatal("expected a fresh view after a parameter write")
	}
	if obs.recomputes != 2 {
		t.Fatalf("expected 2 recomputations, got %d", obs.recomputes)
	}

	// Writing the value already in place still invalidates.
	if err := e.SetGender("Female"); err != nil {
		t.Fatalf("set gender again: %v", err)
	}
	v3 := e.CurrentView()
	if v3 == v2 {
		t.Fatal("expected identical-value write to invalidate the view")
	}
	if obs.recomputes != 3 {
		t.Fatalf("expected 3 recomputations, got %d", obs.recomputes)
	}
}

func TestRejectedWriteKeepsCache(t *testing.T) {
	obs := &fakeObserver{}
	e := New(makeDataset(t, testRow(30, "White", "Male", "Sales")), obs)

	v1 := e.CurrentView()
	err := e.SetRace("Martian")
	if !errors.Is(err, ErrInvalidParam) {
		t.Fatalf("expected ErrInvalidParam, got %v", err)
	}
	if e.CurrentView() != v1 {
		t.Fatal("rejected write must not invalidate the cached view")
	}
	if obs.recomputes != 1 {
		t.Fatalf("expected 1 recomputation, got %d", obs.recomputes)
	}
	if got := e.Params().Race; got != models.All {
		t.Fatalf("expected race to stay %q, got %q", models.All, got)
	}
}

func TestGlobalPredicateScenario(t *testing.T) {
	// 100 records: 40 female, of which 30 fall in [25,60]; the other
	// 10 are older. The 60 males all fall in range.
	rows := make([]string, 0, 100)
	for i := 0; i < 30; i++ {
		rows = append(rows, testRow(30, "White", "Female", "Sales"))
	}
	for i := 0; i < 10; i++ {
		rows = append(rows, testRow(70, "White", "Female", "Sales"))
	}
	for i := 0; i < 60; i++ {
		rows = append(rows, testRow(40, "White", "Male", "Sales"))
	}
	e := New(makeDataset(t, rows...), nil)

	if err := e.SetGender("Female"); err != nil {
		t.Fatalf("set gender: %v", err)
	}
	if err := e.SetAgeRange(25, 60); err != nil {
		t.Fatalf("set age: %v", err)
	}

	v := e.CurrentView()
	if v.Len() != 30 {
		t.Fatalf("expected 30 records, got %d", v.Len())
	}
	for i := 0; i < v.Len(); i++ {
		r := v.Record(i)
		if r.Gender != "Female" || r.Age < 25 || r.Age > 60 {
			t.Fatalf("record %d violates predicates: %+v", i, r)
		}
	}
}

func TestViewPreservesDatasetOrder(t *testing.T) {
	e := New(makeDataset(t,
		testRow(50, "White", "Male", "Sales"),
		testRow(30, "Black", "Female", "Craft-repair"),
		testRow(45, "White", "Male", "Exec-managerial"),
	), nil)

	v := e.CurrentView()
	if v.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", v.Len())
	}
	ages := []int{50, 30, 45}
	for i, want := range ages {
		if got := v.Record(i).Age; got != want {
			t.Fatalf("position %d: expected age %d, got %d", i, want, got)
		}
	}
}

func TestAgeBoundaries(t *testing.T) {
	e := New(makeDataset(t,
		testRow(24, "White", "Male", "Sales"),
		testRow(25, "White", "Male", "Sales"),
		testRow(60, "White", "Male", "Sales"),
		testRow(61, "White", "Male", "Sales"),
	), nil)

	// Both bounds inclusive.
	v := e.CurrentView()
	if v.Len() != 2 {
		t.Fatalf("expected ages 25 and 60 under [25,60], got %d records", v.Len())
	}

	// lo == hi selects exactly that age.
	if err := e.SetAgeRange(60, 60); err != nil {
		t.Fatalf("set age: %v", err)
	}
	v = e.CurrentView()
	if v.Len() != 1 || v.Record(0).Age != 60 {
		t.Fatalf("expected single age-60 record, got %d records", v.Len())
	}

	// A range entirely outside the dataset yields an empty view, not
	// an error.
	if err := e.SetAgeRange(90, 99); err != nil {
		t.Fatalf("set age: %v", err)
	}
	v = e.CurrentView()
	if v.Len() != 0 {
		t.Fatalf("expected empty view, got %d records", v.Len())
	}

	// Reversed bounds are rejected.
	if err := e.SetAgeRange(50, 20); !errors.Is(err, ErrInvalidParam) {
		t.Fatalf("expected ErrInvalidParam for reversed range, got %v", err)
	}
}

func TestApplyAtomic(t *testing.T) {
	obs := &fakeObserver{}
	e := New(makeDataset(t,
		testRow(30, "White", "Male", "Sales"),
		testRow(40, "Black", "Female", "Craft-repair"),
	), obs)
	e.CurrentView()

	female := "Female"
	bogus := "Martian"
	_, err := e.Apply(models.ParamPatch{Gender: &female, Race: &bogus})
	if !errors.Is(err, ErrInvalidParam) {
		t.Fatalf("expected ErrInvalidParam, got %v", err)
	}
	if p := e.Params(); p.Gender != models.All {
		t.Fatalf("failed patch must not apply partially, gender=%q", p.Gender)
	}
	if e.CurrentView() != e.CurrentView() {
		t.Fatal("failed patch must not invalidate the view")
	}
	if obs.recomputes != 1 {
		t.Fatalf("expected 1 recomputation, got %d", obs.recomputes)
	}

	// A valid multi-field patch bumps the version exactly once.
	white := "White"
	verBefore := e.Version()
	p, err := e.Apply(models.ParamPatch{Gender: &female, Race: &white, Age: &models.Range{Lo: 20, Hi: 50}})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if e.Version() != verBefore+1 {
		t.Fatalf("expected one version bump, got %d -> %d", verBefore, e.Version())
	}
	if p.Gender != "Female" || p.Race != "White" || p.Age.Lo != 20 || p.Age.Hi != 50 {
		t.Fatalf("unexpected params after patch: %+v", p)
	}
}

func TestApplyEmptyPatch(t *testing.T) {
	e := New(makeDataset(t, testRow(30, "White", "Male", "Sales")), nil)
	v := e.CurrentView()
	if _, err := e.Apply(models.ParamPatch{}); err != nil {
		t.Fatalf("apply empty: %v", err)
	}
	if e.CurrentView() != v {
		t.Fatal("empty patch must not invalidate the view")
	}
}

func TestReset(t *testing.T) {
	e := New(makeDataset(t,
		testRow(30, "White", "Male", "Sales"),
		testRow(40, "Black", "Female", "Craft-repair"),
	), nil)

	if err := e.SetGender("Female"); err != nil {
		t.Fatalf("set gender: %v", err)
	}
	v := e.CurrentView()

	p := e.Reset()
	if p != models.DefaultParams() {
		t.Fatalf("expected defaults after reset, got %+v", p)
	}
	if e.CurrentView() == v {
		t.Fatal("reset must invalidate the view")
	}
}

func TestLocalParamWriteInvalidatesGlobalView(t *testing.T) {
	// Local refinements live in the same parameter tuple, so writing
	// one refreshes the snapshot consumers read their params from.
	obs := &fakeObserver{}
	e := New(makeDataset(t, testRow(30, "White", "Male", "Sales")), obs)

	v1 := e.CurrentView()
	e.SetCapitalGainOnly(true)
	v2 := e.CurrentView()
	if v1 == v2 {
		t.Fatal("expected fresh view after local parameter write")
	}
	if !v2.Params().CapitalGainOnly {
		t.Fatal("expected view snapshot to carry the new local parameter")
	}
	if v2.Len() != v1.Len() {
		t.Fatalf("local refinement must not narrow the global view: %d vs %d", v2.Len(), v1.Len())
	}
}
