package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrLoad marks any failure to read or parse the source table.
// Surfaced at startup: the process must not serve without a dataset.
var ErrLoad = errors.New("dataset load failed")

// requiredColumns must all be present after header normalization.
var requiredColumns = []string{
	"age", "workclass", "occupation", "native_country", "race",
	"gender", "education", "hours_per_week", "capital_gain", "income",
}

const ageGroupColumn = "age_group"

// Load reads and cleans the source file. Called once per process; the
// returned Dataset is immutable.
func Load(path string, delim rune) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	defer f.Close()
	return Parse(f, delim)
}

// Parse cleans an already-open source table. Cleaning policy:
//
//  1. Column names are trimmed, lowercased and hyphen-to-underscore
//     normalized.
//  2. Rows with workclass or occupation equal to "?" are dropped.
//  3. native_country "?" is relabeled "Unknown"; the row is kept.
//  4. age_group is derived from age; if the source already carries the
//     column it is recomputed in place, so re-parsing cleaned output
//     yields the same table.
//
// Rows with the wrong cell count or non-numeric values in age,
// hours_per_week or capital_gain are dropped silently and counted in
// DropStats.
func Parse(r io.Reader, delim rune) (*Dataset, error) {
	if delim == 0 {
		delim = ','
	}
	rd := csv.NewReader(r)
	rd.Comma = delim
	rd.TrimLeadingSpace = true
	rd.FieldsPerRecord = -1

	header, err := rd.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrLoad, err)
	}

	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = normalizeColumn(name)
	}
	srcWidth := len(columns)

	colIdx := make(map[string]int, len(columns)+1)
	for i, name := range columns {
		colIdx[name] = i
	}
	if missing := missingColumns(colIdx); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns: %s", ErrLoad, strings.Join(missing, ", "))
	}

	groupIdx, hadGroup := colIdx[ageGroupColumn]
	if !hadGroup {
		groupIdx = len(columns)
		columns = append(columns, ageGroupColumn)
		colIdx[ageGroupColumn] = groupIdx
	}

	var (
		records []Record
		dropped DropStats
	)
	ageIdx := colIdx["age"]
	workIdx := colIdx["workclass"]
	occIdx := colIdx["occupation"]
	countryIdx := colIdx["native_country"]
	raceIdx := colIdx["race"]
	genderIdx := colIdx["gender"]
	eduIdx := colIdx["education"]
	hoursIdx := colIdx["hours_per_week"]
	gainIdx := colIdx["capital_gain"]
	incomeIdx := colIdx["income"]

	for {
		row, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			dropped.Malformed++
			continue
		}
		if len(row) != srcWidth {
			dropped.Malformed++
			continue
		}

		cells := make([]string, len(columns))
		for i := 0; i < srcWidth; i++ {
			cells[i] = strings.TrimSpace(row[i])
		}

		if cells[workIdx] == "?" {
			dropped.UnknownWorkclass++
			continue
		}
		if cells[occIdx] == "?" {
			dropped.UnknownOccupation++
			continue
		}
		if cells[countryIdx] == "?" {
			cells[countryIdx] = "Unknown"
		}

		age, err := strconv.Atoi(cells[ageIdx])
		if err != nil {
			dropped.Malformed++
			continue
		}
		hours, err := strconv.Atoi(cells[hoursIdx])
		if err != nil {
			dropped.Malformed++
			continue
		}
		gain, err := strconv.Atoi(cells[gainIdx])
		if err != nil {
			dropped.Malformed++
			continue
		}

		cells[groupIdx] = AgeGroup(age)

		records = append(records, Record{
			Age:           age,
			HoursPerWeek:  hours,
			CapitalGain:   gain,
			Gender:        cells[genderIdx],
			Race:          cells[raceIdx],
			Education:     cells[eduIdx],
			Occupation:    cells[occIdx],
			Workclass:     cells[workIdx],
			NativeCountry: cells[countryIdx],
			Income:        cells[incomeIdx],
			AgeGroup:      cells[groupIdx],
			cells:         cells,
		})
	}

	return &Dataset{
		columns: columns,
		colIdx:  colIdx,
		records: records,
		facets:  buildFacets(records),
		dropped: dropped,
	}, nil
}

func normalizeColumn(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}

func missingColumns(colIdx map[string]int) []string {
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := colIdx[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
