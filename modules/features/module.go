// Package features provides the feature-engineering transforms: rolling
// mean, first difference, and lagged copies. Each transform appends a
// suffixed column per input column.
package features

import (
	"context"
	"fmt"

	"github.com/pipewright/pipewright/internal/registry"
	"github.com/pipewright/pipewright/internal/table"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// RollingMeanParams defines the parameters for add_rolling_mean.
type RollingMeanParams struct {
	Window int `pipe:"window"`
}

// AddRollingMean appends "<col>_roll_mean" columns: the mean of the trailing
// window. Rows before the window fills use the partial prefix mean.
func AddRollingMean(ctx context.Context, df *table.Table, p *RollingMeanParams) (*table.Table, error) {
	if p.Window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %d", p.Window)
	}

	out := df.Clone()
	for _, name := range df.Columns() {
		vals, _ := df.Column(name)

		rolled := make([]float64, len(vals))
		sum := 0.0
		for i, x := range vals {
			sum += x
			if i >= p.Window {
				sum -= vals[i-p.Window]
				rolled[i] = sum / float64(p.Window)
			} else {
				rolled[i] = sum / float64(i+1)
			}
		}
		if err := out.SetColumn(name+"_roll_mean", rolled); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// AddDiff appends "<col>_diff" columns: the first difference, with the
// first row fixed at zero.
func AddDiff(ctx context.Context, df *table.Table, _ *struct{}) (*table.Table, error) {
	out := df.Clone()
	for _, name := range df.Columns() {
		vals, _ := df.Column(name)

		diffed := make([]float64, len(vals))
		for i := 1; i < len(vals); i++ {
			diffed[i] = vals[i] - vals[i-1]
		}
		if err := out.SetColumn(name+"_diff", diffed); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// LagParams defines the parameters for add_lag.
type LagParams struct {
	NLags int `pipe:"n_lags"`
}

// AddLag appends "<col>_lag<n>" columns for each lag 1..n_lags, shifting
// values down and zero-filling the head.
func AddLag(ctx context.Context, df *table.Table, p *LagParams) (*table.Table, error) {
	if p.NLags <= 0 {
		return nil, fmt.Errorf("n_lags must be positive, got %d", p.NLags)
	}

	out := df.Clone()
	for _, name := range df.Columns() {
		vals, _ := df.Column(name)

		for lag := 1; lag <= p.NLags; lag++ {
			lagged := make([]float64, len(vals))
			for i := lag; i < len(vals); i++ {
				lagged[i] = vals[i-lag]
			}
			if err := out.SetColumn(fmt.Sprintf("%s_lag%d", name, lag), lagged); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// Register registers the handlers with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTransform("features:add_rolling_mean", &registry.RegisteredTransform{
		NewParams: func() any { return new(RollingMeanParams) },
		Fn:        AddRollingMean,
	})
	r.RegisterTransform("features:add_diff", &registry.RegisteredTransform{
		Fn: AddDiff,
	})
	r.RegisterTransform("features:add_lag", &registry.RegisteredTransform{
		NewParams: func() any { return new(LagParams) },
		Fn:        AddLag,
	})
}
