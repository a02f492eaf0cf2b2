package normalize_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipewright/pipewright/internal/table"
	"github.com/pipewright/pipewright/modules/normalize"
)

func frame(t *testing.T, vals []float64) *table.Table {
	t.Helper()
	df := table.New()
	require.NoError(t, df.SetColumn("x", vals))
	return df
}

func TestAddZScore(t *testing.T) {
	df := frame(t, []float64{1, 2, 3})

	out, err := normalize.AddZScore(context.Background(), df, nil)
	require.NoError(t, err)

	scaled, ok := out.Column("x_zscore")
	require.True(t, ok)
	assert.InDelta(t, -1, scaled[0], 1e-9)
	assert.InDelta(t, 0, scaled[1], 1e-9)
	assert.InDelta(t, 1, scaled[2], 1e-9)

	// original column untouched
	orig, _ := out.Column("x")
	assert.Equal(t, []float64{1, 2, 3}, orig)
}

func TestAddZScore_ConstantColumn(t *testing.T) {
	df := frame(t, []float64{4, 4, 4})

	out, err := normalize.AddZScore(context.Background(), df, nil)
	require.NoError(t, err)

	scaled, _ := out.Column("x_zscore")
	assert.Equal(t, []float64{0, 0, 0}, scaled)
}

func TestAddMinMax(t *testing.T) {
	df := frame(t, []float64{2, 4, 6})

	out, err := normalize.AddMinMax(context.Background(), df, nil)
	require.NoError(t, err)

	scaled, _ := out.Column("x_minmax")
	assert.Equal(t, []float64{0, 0.5, 1}, scaled)
}

func TestAddRobust(t *testing.T) {
	df := frame(t, []float64{1, 2, 3, 4, 5})

	out, err := normalize.AddRobust(context.Background(), df, nil)
	require.NoError(t, err)

	scaled, _ := out.Column("x_robust")
	// median 3, IQR 2
	assert.InDelta(t, -1, scaled[0], 1e-9)
	assert.InDelta(t, 0, scaled[2], 1e-9)
	assert.InDelta(t, 1, scaled[4], 1e-9)
}

func TestInputFrameNotMutated(t *testing.T) {
	df := frame(t, []float64{1, 2, 3})

	_, err := normalize.AddZScore(context.Background(), df, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"x"}, df.Columns())
}
