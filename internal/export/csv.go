package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/censusstack/income-explorer/internal/engine"
)

// WriteCSV streams the view as UTF-8 CSV: one header row with the
// cleaned column names, then the rows in dataset order, nothing
// reordered and no index column.
func WriteCSV(w io.Writer, v *engine.View) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(v.Columns()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := 0; i < v.Len(); i++ {
		if err := cw.Write(v.Row(i)); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
