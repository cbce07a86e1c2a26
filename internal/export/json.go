package export

import (
	"encoding/json"
	"io"

	"github.com/censusstack/income-explorer/internal/engine"
)

// jsonTable is the JSON export envelope. Rows stay positional so the
// column order survives serialization.
type jsonTable struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// WriteJSON serializes the view as a column-ordered table.
func WriteJSON(w io.Writer, v *engine.View) error {
	table := jsonTable{
		Columns: v.Columns(),
		Rows:    make([][]string, v.Len()),
	}
	for i := 0; i < v.Len(); i++ {
		table.Rows[i] = v.Row(i)
	}
	enc := json.NewEncoder(w)
	return enc.Encode(table)
}
