package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/censusstack/income-explorer/internal/engine"
)

// SheetName is the single worksheet the XLSX export writes.
const SheetName = "Filtered"

// WriteXLSX serializes the view as an XLSX workbook with one sheet:
// header row, then the rows in dataset order. Numeric-looking cells
// are written as numbers so spreadsheet tooling can aggregate them.
func WriteXLSX(w io.Writer, v *engine.View) error {
	f := excelize.NewFile()
	defer f.Close()

	if index, _ := f.GetSheetIndex(SheetName); index == -1 {
		if _, err := f.NewSheet(SheetName); err != nil {
			return fmt.Errorf("xlsx sheet: %w", err)
		}
	}
	activeIndex, _ := f.GetSheetIndex(SheetName)
	f.SetActiveSheet(activeIndex)
	if SheetName != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	for i, name := range v.Columns() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, name); err != nil {
			return fmt.Errorf("xlsx header: %w", err)
		}
	}

	for i := 0; i < v.Len(); i++ {
		row := v.Row(i)
		for j, val := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if n, err := strconv.Atoi(val); err == nil {
				_ = f.SetCellValue(SheetName, cell, n)
			} else {
				_ = f.SetCellValue(SheetName, cell, val)
			}
		}
	}

	if last, err := excelize.ColumnNumberToName(len(v.Columns())); err == nil {
		_ = f.SetColWidth(SheetName, "A", last, 16)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}
