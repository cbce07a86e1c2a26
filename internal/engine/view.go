package engine

import (
	"github.com/censusstack/income-explorer/internal/dataset"
	"github.com/censusstack/income-explorer/internal/models"
)

// View is one immutable snapshot of the globally filtered dataset: the
// records matching the gender, age and race predicates at the version
// it was computed for. It stores row indices into the dataset rather
// than copies of the records.
//
// Consumers apply their own local refinements (education, occupation,
// capital gain, hours) on top; the view itself never changes.
type View struct {
	ds      *dataset.Dataset
	params  models.Params
	version uint64
	indices []int
}

// Len returns the number of records in the view.
func (v *View) Len() int {
	return len(v.indices)
}

// Record returns the i-th record of the view in dataset order.
func (v *View) Record(i int) dataset.Record {
	return v.ds.Record(v.indices[i])
}

// Row returns the raw cells of the i-th record, aligned with Columns.
func (v *View) Row(i int) []string {
	return v.ds.Row(v.indices[i])
}

// Columns returns the cleaned column names of the underlying dataset.
func (v *View) Columns() []string {
	return v.ds.Columns()
}

// Params returns the full parameter snapshot the view was computed
// under, including the local-refinement fields consumers read.
func (v *View) Params() models.Params {
	return v.params
}

// Version returns the parameter version the view reflects.
func (v *View) Version() uint64 {
	return v.version
}

// Dataset returns the underlying unfiltered dataset, for consumers
// that deliberately aggregate over the whole table.
func (v *View) Dataset() *dataset.Dataset {
	return v.ds
}
