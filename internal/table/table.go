// Package table provides the columnar value the built-in transform modules
// pass through the pipeline. The engine itself never depends on it; pipeline
// data crosses the engine boundary as plain any.
package table

import (
	"fmt"
	"sort"
)

// Table is a small ordered collection of equal-length float columns.
type Table struct {
	order []string
	cols  map[string][]float64
}

// New creates an empty table.
func New() *Table {
	return &Table{cols: make(map[string][]float64)}
}

// FromColumns builds a table from named columns in the given order. All
// columns must have the same length.
func FromColumns(names []string, cols map[string][]float64) (*Table, error) {
	t := New()
	for _, name := range names {
		vals, ok := cols[name]
		if !ok {
			return nil, fmt.Errorf("column %q listed in order but not provided", name)
		}
		if err := t.SetColumn(name, vals); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// SetColumn adds or replaces a column. New columns are appended to the
// column order; the first column fixes the row count.
func (t *Table) SetColumn(name string, vals []float64) error {
	if len(t.order) > 0 {
		if existing := t.NumRows(); len(vals) != existing {
			return fmt.Errorf("column %q has %d rows, table has %d", name, len(vals), existing)
		}
	}
	if _, exists := t.cols[name]; !exists {
		t.order = append(t.order, name)
	}
	t.cols[name] = vals
	return nil
}

// Column returns the values of a named column.
func (t *Table) Column(name string) ([]float64, bool) {
	vals, ok := t.cols[name]
	return vals, ok
}

// Columns returns the column names in insertion order. The returned slice
// is a copy.
func (t *Table) Columns() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// NumRows returns the row count, zero for an empty table.
func (t *Table) NumRows() int {
	if len(t.order) == 0 {
		return 0
	}
	return len(t.cols[t.order[0]])
}

// NumColumns returns the column count.
func (t *Table) NumColumns() int {
	return len(t.order)
}

// Clone returns a deep copy. Transforms that add columns clone first so the
// incoming value is never mutated.
func (t *Table) Clone() *Table {
	out := &Table{
		order: make([]string, len(t.order)),
		cols:  make(map[string][]float64, len(t.cols)),
	}
	copy(out.order, t.order)
	for name, vals := range t.cols {
		copied := make([]float64, len(vals))
		copy(copied, vals)
		out.cols[name] = copied
	}
	return out
}

// SortedColumns returns the column names sorted lexically. Useful for
// stable assertions and log output.
func (t *Table) SortedColumns() []string {
	out := t.Columns()
	sort.Strings(out)
	return out
}
