// Package checks provides the data-quality check handlers run against the
// final pipeline output.
package checks

import (
	"context"
	"math"

	"github.com/pipewright/pipewright/internal/registry"
	"github.com/pipewright/pipewright/internal/table"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// NoMissingValues passes when no value in the frame is NaN or infinite.
func NoMissingValues(ctx context.Context, df *table.Table) (bool, error) {
	for _, name := range df.Columns() {
		vals, _ := df.Column(name)
		for _, x := range vals {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return false, nil
			}
		}
	}
	return true, nil
}

// NonEmpty passes when the frame has at least one row and one column.
func NonEmpty(ctx context.Context, df *table.Table) (bool, error) {
	return df.NumRows() > 0 && df.NumColumns() > 0, nil
}

// Register registers the handlers with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterCheck("checks:no_missing_values", &registry.RegisteredCheck{
		Fn: NoMissingValues,
	})
	r.RegisterCheck("checks:non_empty", &registry.RegisteredCheck{
		Fn: NonEmpty,
	})
}
