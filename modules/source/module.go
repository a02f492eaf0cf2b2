// Package source provides the make_frame generator: a deterministic
// synthetic frame used to seed pipeline runs that have no external input.
package source

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/pipewright/pipewright/internal/registry"
	"github.com/pipewright/pipewright/internal/table"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// MakeFrameParams defines the parameters for the make_frame generator.
type MakeFrameParams struct {
	Rows int   `pipe:"rows"`
	Cols int   `pipe:"cols"`
	Seed int64 `pipe:"seed"`
}

// MakeFrame produces a frame of normally distributed values. The same seed
// always yields the same frame.
func MakeFrame(ctx context.Context, p *MakeFrameParams) (*table.Table, error) {
	if p.Rows <= 0 {
		return nil, fmt.Errorf("rows must be positive, got %d", p.Rows)
	}
	if p.Cols <= 0 {
		return nil, fmt.Errorf("cols must be positive, got %d", p.Cols)
	}

	rng := rand.New(rand.NewSource(p.Seed))
	frame := table.New()
	for c := 1; c <= p.Cols; c++ {
		vals := make([]float64, p.Rows)
		for i := range vals {
			vals[i] = rng.NormFloat64()
		}
		if err := frame.SetColumn(fmt.Sprintf("c%d", c), vals); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// Register registers the handlers with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterGenerator("source:make_frame", &registry.RegisteredGenerator{
		NewParams: func() any { return new(MakeFrameParams) },
		Fn:        MakeFrame,
	})
}
