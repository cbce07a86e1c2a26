// Command gen-dataset writes a synthetic census extract in the UCI
// adult layout so the explorer can be exercised locally without the
// real download. Output is deterministic for a given seed and includes
// a small share of dirty rows to exercise load-time cleaning.
package main

import (
	"encoding/csv"
	"flag"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
)

var header = []string{
	"age", "workclass", "fnlwgt", "education", "educational-num",
	"marital-status", "occupation", "relationship", "race", "gender",
	"capital-gain", "capital-loss", "hours-per-week", "native-country", "income",
}

var workclasses = []string{
	"Private", "Self-emp-not-inc", "Self-emp-inc", "Federal-gov",
	"Local-gov", "State-gov", "Without-pay",
}

// educations maps each level to its ordinal encoding.
var educations = []struct {
	name string
	num  int
}{
	{"Preschool", 1}, {"1st-4th", 2}, {"5th-6th", 3}, {"7th-8th", 4},
	{"9th", 5}, {"10th", 6}, {"11th", 7}, {"12th", 8},
	{"HS-grad", 9}, {"Some-college", 10}, {"Assoc-voc", 11}, {"Assoc-acdm", 12},
	{"Bachelors", 13}, {"Masters", 14}, {"Prof-school", 15}, {"Doctorate", 16},
}

var maritalStatuses = []string{
	"Married-civ-spouse", "Divorced", "Never-married", "Separated",
	"Widowed", "Married-spouse-absent",
}

var occupations = []string{
	"Tech-support", "Craft-repair", "Other-service", "Sales",
	"Exec-managerial", "Prof-specialty", "Handlers-cleaners",
	"Machine-op-inspct", "Adm-clerical", "Farming-fishing",
	"Transport-moving", "Priv-house-serv", "Protective-serv",
	"Armed-Forces",
}

var relationships = []string{
	"Wife", "Own-child", "Husband", "Not-in-family", "Other-relative", "Unmarried",
}

var races = []string{
	"White", "Asian-Pac-Islander", "Amer-Indian-Eskimo", "Other", "Black",
}

var countries = []string{
	"United-States", "United-States", "United-States", "United-States",
	"Mexico", "Philippines", "Germany", "Canada", "India", "Cuba",
	"England", "Jamaica", "China", "Italy", "Poland",
}

func main() {
	var (
		out   string
		rows  int
		seed  int64
		dirty bool
	)
	flag.StringVar(&out, "out", "data/adult.csv", "Output CSV path")
	flag.IntVar(&rows, "rows", 5000, "Number of clean rows to generate")
	flag.Int64Var(&seed, "seed", 42, "Random seed")
	flag.BoolVar(&dirty, "dirty", true, "Include unknown-sentinel and malformed rows")
	flag.Parse()

	logger := log.New(log.Writer(), "gen-dataset ", log.LstdFlags)

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	f, err := os.Create(out)
	if err != nil {
		logger.Fatalf("create %s: %v", out, err)
	}
	defer f.Close()

	rng := rand.New(rand.NewSource(seed))
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		logger.Fatalf("write header: %v", err)
	}

	var unknownWorkclass, unknownOccupation, unknownCountry int
	for i := 0; i < rows; i++ {
		rec := randomRow(rng)
		if dirty {
			switch {
			case rng.Float64() < 0.02:
				rec[1] = "?"
				unknownWorkclass++
			case rng.Float64() < 0.02:
				rec[6] = "?"
				unknownOccupation++
			case rng.Float64() < 0.01:
				rec[13] = "?"
				unknownCountry++
			}
		}
		if err := w.Write(rec); err != nil {
			logger.Fatalf("write row: %v", err)
		}
	}

	malformed := 0
	if dirty {
		// A short row and a non-numeric age, both dropped at load time.
		bad := [][]string{
			{"44", "Private", "102308"},
			append([]string{"abc"}, randomRow(rng)[1:]...),
		}
		for _, rec := range bad {
			if err := w.Write(rec); err != nil {
				logger.Fatalf("write malformed row: %v", err)
			}
			malformed++
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		logger.Fatalf("flush: %v", err)
	}

	logger.Printf("wrote %s: %d rows (workclass ?=%d, occupation ?=%d, country ?=%d, malformed=%d)",
		out, rows, unknownWorkclass, unknownOccupation, unknownCountry, malformed)
}

func randomRow(rng *rand.Rand) []string {
	age := 17 + rng.Intn(63) + rng.Intn(11) // skews away from the edges
	edu := educations[rng.Intn(len(educations))]
	hours := clamp(int(rng.NormFloat64()*12+40), 1, 99)

	gain := 0
	if rng.Float64() < 0.10 {
		gain = 500 + rng.Intn(20000)
	}
	loss := 0
	if rng.Float64() < 0.05 {
		loss = 100 + rng.Intn(3000)
	}

	gender := "Male"
	if rng.Float64() < 0.48 {
		gender = "Female"
	}

	// Income odds rise with education, hours and capital gain.
	p := 0.04*float64(edu.num-8) + 0.01*float64(hours-38) + 0.1
	if gain > 0 {
		p += 0.35
	}
	income := "<=50K"
	if rng.Float64() < clampFloat(p, 0.02, 0.9) {
		income = ">50K"
	}

	return []string{
		strconv.Itoa(age),
		workclasses[rng.Intn(len(workclasses))],
		strconv.Itoa(10000 + rng.Intn(700000)),
		edu.name,
		strconv.Itoa(edu.num),
		maritalStatuses[rng.Intn(len(maritalStatuses))],
		occupations[rng.Intn(len(occupations))],
		relationships[rng.Intn(len(relationships))],
		races[weightedIndex(rng, len(races))],
		gender,
		strconv.Itoa(gain),
		strconv.Itoa(loss),
		strconv.Itoa(hours),
		countries[rng.Intn(len(countries))],
		income,
	}
}

// weightedIndex biases toward the first entries so category counts are
// uneven, like the real extract.
func weightedIndex(rng *rand.Rand, n int) int {
	if rng.Float64() < 0.75 {
		return 0
	}
	return rng.Intn(n)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
