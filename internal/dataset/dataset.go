package dataset

import "sort"

// Record is one cleaned row. The typed fields cover the columns the
// filter engine and chart builders read; cells keeps every source
// column (plus the derived age_group) for faithful export.
type Record struct {
	Age           int
	HoursPerWeek  int
	CapitalGain   int
	Gender        string
	Race          string
	Education     string
	Occupation    string
	Workclass     string
	NativeCountry string
	Income        string
	AgeGroup      string

	cells []string
}

// Dataset is the cleaned source table. It is immutable after load and
// safe for concurrent readers.
type Dataset struct {
	columns []string
	colIdx  map[string]int
	records []Record
	facets  Facets
	dropped DropStats
}

// Facets lists the observed category values and numeric bounds of the
// filterable columns, for control population and input validation.
type Facets struct {
	Genders      []string
	Races        []string
	Educations   []string
	Occupations  []string
	IncomeLabels []string
	AgeMin       int
	AgeMax       int
	HoursMin     int
	HoursMax     int
}

// DropStats counts rows excluded during cleaning. Drops are silent at
// load time; the counts exist so the operator can see them in the
// startup log.
type DropStats struct {
	UnknownWorkclass  int
	UnknownOccupation int
	Malformed         int
}

// Total is the number of source rows that did not survive cleaning.
func (s DropStats) Total() int {
	return s.UnknownWorkclass + s.UnknownOccupation + s.Malformed
}

// Len returns the number of retained records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Record returns the record at position i in source order.
func (d *Dataset) Record(i int) Record {
	return d.records[i]
}

// Row returns the raw cell values at position i, aligned with
// Columns. Callers must not modify the returned slice.
func (d *Dataset) Row(i int) []string {
	return d.records[i].cells
}

// Columns returns the cleaned column names in source order, with
// age_group appended when the source did not carry it. Callers must
// not modify the returned slice.
func (d *Dataset) Columns() []string {
	return d.columns
}

// ColumnIndex returns the position of a cleaned column name, or -1.
func (d *Dataset) ColumnIndex(name string) int {
	if i, ok := d.colIdx[name]; ok {
		return i
	}
	return -1
}

// Facets returns the observed category values and numeric bounds.
func (d *Dataset) Facets() Facets {
	return d.facets
}

// Dropped returns the cleaning drop counters.
func (d *Dataset) Dropped() DropStats {
	return d.dropped
}

// Age group bin edges and labels. Bins are right-open except the last,
// which is closed at 100. Ages outside [18,100] map to the empty
// string and fall out of any age_group aggregation.
var (
	ageGroupEdges  = []int{18, 25, 35, 45, 55, 65, 100}
	ageGroupLabels = []string{"18-25", "26-35", "36-45", "46-55", "56-65", "65+"}
)

// AgeGroup buckets an age into its dashboard bin label.
func AgeGroup(age int) string {
	if age < ageGroupEdges[0] || age > ageGroupEdges[len(ageGroupEdges)-1] {
		return ""
	}
	for i := 1; i < len(ageGroupEdges)-1; i++ {
		if age < ageGroupEdges[i] {
			return ageGroupLabels[i-1]
		}
	}
	return ageGroupLabels[len(ageGroupLabels)-1]
}

// AgeGroupLabels returns the bin labels in ascending age order.
func AgeGroupLabels() []string {
	out := make([]string, len(ageGroupLabels))
	copy(out, ageGroupLabels)
	return out
}

func buildFacets(records []Record) Facets {
	genders := map[string]struct{}{}
	races := map[string]struct{}{}
	educations := map[string]struct{}{}
	occupations := map[string]struct{}{}
	incomes := map[string]struct{}{}

	f := Facets{}
	for i, r := range records {
		genders[r.Gender] = struct{}{}
		races[r.Race] = struct{}{}
		educations[r.Education] = struct{}{}
		occupations[r.Occupation] = struct{}{}
		incomes[r.Income] = struct{}{}
		if i == 0 {
			f.AgeMin, f.AgeMax = r.Age, r.Age
			f.HoursMin, f.HoursMax = r.HoursPerWeek, r.HoursPerWeek
			continue
		}
		if r.Age < f.AgeMin {
			f.AgeMin = r.Age
		}
		if r.Age > f.AgeMax {
			f.AgeMax = r.Age
		}
		if r.HoursPerWeek < f.HoursMin {
			f.HoursMin = r.HoursPerWeek
		}
		if r.HoursPerWeek > f.HoursMax {
			f.HoursMax = r.HoursPerWeek
		}
	}

	f.Genders = sortedKeys(genders)
	f.Races = sortedKeys(races)
	f.Educations = sortedKeys(educations)
	f.Occupations = sortedKeys(occupations)
	f.IncomeLabels = sortedKeys(incomes)
	return f
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
