// Package output provides the final-stage transform that rounds every value
// to a fixed number of decimals before the frame leaves the pipeline.
package output

import (
	"context"
	"fmt"
	"math"

	"github.com/pipewright/pipewright/internal/registry"
	"github.com/pipewright/pipewright/internal/table"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// RoundParams defines the parameters for round_values.
type RoundParams struct {
	Decimals int `pipe:"decimals"`
}

// RoundValues rounds every value in the frame to p.Decimals places.
func RoundValues(ctx context.Context, df *table.Table, p *RoundParams) (*table.Table, error) {
	if p.Decimals < 0 {
		return nil, fmt.Errorf("decimals must not be negative, got %d", p.Decimals)
	}

	factor := math.Pow(10, float64(p.Decimals))
	out := df.Clone()
	for _, name := range out.Columns() {
		vals, _ := out.Column(name)
		rounded := make([]float64, len(vals))
		for i, x := range vals {
			rounded[i] = math.Round(x*factor) / factor
		}
		if err := out.SetColumn(name, rounded); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Register registers the handlers with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTransform("output:round_values", &registry.RegisteredTransform{
		NewParams: func() any { return new(RoundParams) },
		Fn:        RoundValues,
	})
}
