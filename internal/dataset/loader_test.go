package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
)

const sampleCSV = `Age, Workclass, Occupation, Native-Country, Race, Gender, Education, Hours-Per-Week, Capital-Gain, Income
39, State-gov, Adm-clerical, United-States, White, Male, Bachelors, 40, 2174, <=50K
50, ?, Exec-managerial, United-States, White, Male, Bachelors, 13, 0, <=50K
38, Private, ?, United-States, White, Female, HS-grad, 40, 0, <=50K
53, Private, Handlers-cleaners, ?, Black, Male, 11th, 40, 0, <=50K
abc, Private, Sales, Cuba, White, Female, Bachelors, 40, 0, <=50K
28, Private, Prof-specialty, Cuba, Black, Female, Bachelors, 40, 0, >50K
66, Self-emp-not-inc, Farming-fishing, United-States, White, Male, HS-grad, 45, 0, >50K
`

func TestParseCleaningPolicy(t *testing.T) {
	d, err := Parse(strings.NewReader(sampleCSV), ',')
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if d.Len() != 4 {
		t.Fatalf("expected 4 retained rows, got %d", d.Len())
	}
	drops := d.Dropped()
	if drops.UnknownWorkclass != 1 || drops.UnknownOccupation != 1 || drops.Malformed != 1 {
		t.Fatalf("unexpected drop stats: %+v", drops)
	}

	cols := d.Columns()
	want := []string{"age", "workclass", "occupation", "native_country", "race", "gender", "education", "hours_per_week", "capital_gain", "income", "age_group"}
	if len(cols) != len(want) {
		t.Fatalf("expected %d columns, got %d (%v)", len(want), len(cols), cols)
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Fatalf("column %d: expected %q, got %q", i, want[i], cols[i])
		}
	}

	// Row with native_country "?" is kept with the relabeled value.
	kept := d.Record(1)
	if kept.Age != 53 || kept.NativeCountry != "Unknown" {
		t.Fatalf("expected relabeled native_country, got %+v", kept)
	}
	if got := d.Row(1)[d.ColumnIndex("native_country")]; got != "Unknown" {
		t.Fatalf("expected cell relabel, got %q", got)
	}

	// Source order is preserved for everything that survives.
	ages := []int{39, 53, 28, 66}
	for i, want := range ages {
		if got := d.Record(i).Age; got != want {
			t.Fatalf("row %d: expected age %d, got %d", i, want, got)
		}
	}
}

func TestParseMissingColumns(t *testing.T) {
	src := "age,workclass,occupation\n39,Private,Sales\n"
	_, err := Parse(strings.NewReader(src), ',')
	if err == nil {
		t.Fatal("expected error for missing columns")
	}
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}
}

func TestParseShortRowDropped(t *testing.T) {
	src := sampleCSV + "31, Private, Sales, Cuba, White\n"
	d, err := Parse(strings.NewReader(src), ',')
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Len() != 4 {
		t.Fatalf("expected short row to be dropped, got %d rows", d.Len())
	}
	if d.Dropped().Malformed != 2 {
		t.Fatalf("expected 2 malformed drops, got %d", d.Dropped().Malformed)
	}
}

func TestParseIdempotence(t *testing.T) {
	first, err := Parse(strings.NewReader(sampleCSV), ',')
	if err != nil {
		t.Fatalf("first parse: %v", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(first.Columns()); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for i := 0; i < first.Len(); i++ {
		if err := w.Write(first.Row(i)); err != nil {
			t.Fatalf("write row %d: %v", i, err)
		}
	}
	w.Flush()

	second, err := Parse(bytes.NewReader(buf.Bytes()), ',')
	if err != nil {
		t.Fatalf("second parse: %v", err)
	}
	if second.Dropped().Total() != 0 {
		t.Fatalf("expected no drops on cleaned input, got %+v", second.Dropped())
	}
	if second.Len() != first.Len() {
		t.Fatalf("expected %d rows, got %d", first.Len(), second.Len())
	}
	for i := 0; i < first.Len(); i++ {
		a, b := first.Row(i), second.Row(i)
		if len(a) != len(b) {
			t.Fatalf("row %d: width %d vs %d", i, len(a), len(b))
		}
		for j := range a {
			if a[j] != b[j] {
				t.Fatalf("row %d col %d: %q vs %q", i, j, a[j], b[j])
			}
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.csv", ',')
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}
}

func TestParseFacets(t *testing.T) {
	d, err := Parse(strings.NewReader(sampleCSV), ',')
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	f := d.Facets()

	if len(f.Genders) != 2 || f.Genders[0] != "Female" || f.Genders[1] != "Male" {
		t.Fatalf("unexpected genders: %v", f.Genders)
	}
	if len(f.Races) != 2 || f.Races[0] != "Black" || f.Races[1] != "White" {
		t.Fatalf("unexpected races: %v", f.Races)
	}
	if len(f.IncomeLabels) != 2 || f.IncomeLabels[0] != "<=50K" || f.IncomeLabels[1] != ">50K" {
		t.Fatalf("unexpected income labels: %v", f.IncomeLabels)
	}
	if f.AgeMin != 28 || f.AgeMax != 66 {
		t.Fatalf("unexpected age bounds: [%d,%d]", f.AgeMin, f.AgeMax)
	}
	if f.HoursMin != 40 || f.HoursMax != 45 {
		t.Fatalf("unexpected hours bounds: [%d,%d]", f.HoursMin, f.HoursMax)
	}
}
