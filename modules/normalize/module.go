// Package normalize provides the normalization transforms: column-wise
// z-score, min-max, and robust scaling. Each transform appends a suffixed
// column per input column and leaves the originals untouched.
package normalize

import (
	"context"
	"math"
	"sort"

	"github.com/pipewright/pipewright/internal/registry"
	"github.com/pipewright/pipewright/internal/table"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// AddZScore appends "<col>_zscore" columns: (x - mean) / std. Columns with
// zero deviation normalize to all zeros.
func AddZScore(ctx context.Context, df *table.Table, _ *struct{}) (*table.Table, error) {
	return appendScaled(df, "_zscore", func(vals []float64) (center, scale float64) {
		return mean(vals), std(vals)
	})
}

// AddMinMax appends "<col>_minmax" columns: (x - min) / (max - min).
// Constant columns normalize to all zeros.
func AddMinMax(ctx context.Context, df *table.Table, _ *struct{}) (*table.Table, error) {
	return appendScaled(df, "_minmax", func(vals []float64) (center, scale float64) {
		lo, hi := minMax(vals)
		return lo, hi - lo
	})
}

// AddRobust appends "<col>_robust" columns: (x - median) / IQR. Columns
// with zero interquartile range normalize to all zeros.
func AddRobust(ctx context.Context, df *table.Table, _ *struct{}) (*table.Table, error) {
	return appendScaled(df, "_robust", func(vals []float64) (center, scale float64) {
		return quantile(vals, 0.5), quantile(vals, 0.75) - quantile(vals, 0.25)
	})
}

// appendScaled clones the frame and appends one scaled column per existing
// column, using the center and scale the stat function derives. A zero
// scale yields a zero column rather than dividing by it.
func appendScaled(df *table.Table, suffix string, stat func([]float64) (float64, float64)) (*table.Table, error) {
	out := df.Clone()
	for _, name := range df.Columns() {
		vals, _ := df.Column(name)
		center, scale := stat(vals)

		scaled := make([]float64, len(vals))
		if scale != 0 {
			for i, x := range vals {
				scaled[i] = (x - center) / scale
			}
		}
		if err := out.SetColumn(name+suffix, scaled); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range vals {
		sum += x
	}
	return sum / float64(len(vals))
}

func std(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	m := mean(vals)
	sum := 0.0
	for _, x := range vals {
		sum += (x - m) * (x - m)
	}
	return math.Sqrt(sum / float64(len(vals)-1))
}

func minMax(vals []float64) (lo, hi float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	lo, hi = vals[0], vals[0]
	for _, x := range vals[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}

// quantile interpolates linearly between the two nearest order statistics.
func quantile(vals []float64, q float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Register registers the handlers with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTransform("normalize:add_zscore", &registry.RegisteredTransform{
		Fn: AddZScore,
	})
	r.RegisterTransform("normalize:add_minmax", &registry.RegisteredTransform{
		Fn: AddMinMax,
	})
	r.RegisterTransform("normalize:add_robust", &registry.RegisteredTransform{
		Fn: AddRobust,
	})
}
