// Package export serializes the current global filtered view. The
// export always covers the engine's view as-is: local chart
// refinements never leak into a download.
package export

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/censusstack/income-explorer/internal/engine"
)

// Supported export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// ErrUnsupportedFormat marks a request for a format not listed above.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Formats lists the supported formats, default first.
func Formats() []string {
	return []string{FormatCSV, FormatJSON, FormatXLSX}
}

// Write serializes the view to w in the requested format.
func Write(w io.Writer, format string, v *engine.View) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, v)
	case FormatJSON:
		return WriteJSON(w, v)
	case FormatXLSX:
		return WriteXLSX(w, v)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ContentType returns the MIME type served for a format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Filename builds the download name for a format, stamped to the
// second so repeated downloads stay distinct.
func Filename(format string, now time.Time) string {
	return fmt.Sprintf("income_explorer_%s.%s", now.UTC().Format("20060102T150405Z"), format)
}
