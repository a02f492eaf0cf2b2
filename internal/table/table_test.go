package table_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipewright/pipewright/internal/table"
)

func TestSetColumn_OrderAndReplacement(t *testing.T) {
	df := table.New()
	require.NoError(t, df.SetColumn("b", []float64{1, 2}))
	require.NoError(t, df.SetColumn("a", []float64{3, 4}))

	assert.Equal(t, []string{"b", "a"}, df.Columns())
	assert.Equal(t, []string{"a", "b"}, df.SortedColumns())

	// replacing keeps the original position
	require.NoError(t, df.SetColumn("b", []float64{5, 6}))
	assert.Equal(t, []string{"b", "a"}, df.Columns())
	vals, _ := df.Column("b")
	assert.Equal(t, []float64{5, 6}, vals)
}

func TestSetColumn_RowCountEnforced(t *testing.T) {
	df := table.New()
	require.NoError(t, df.SetColumn("a", []float64{1, 2, 3}))

	err := df.SetColumn("b", []float64{1})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "has 1 rows, table has 3")
}

func TestFromColumns(t *testing.T) {
	df, err := table.FromColumns([]string{"x", "y"}, map[string][]float64{
		"x": {1, 2},
		"y": {3, 4},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, df.NumRows())
	assert.Equal(t, 2, df.NumColumns())

	_, err = table.FromColumns([]string{"x", "missing"}, map[string][]float64{"x": {1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not provided")
}

func TestClone_IsDeep(t *testing.T) {
	df := table.New()
	require.NoError(t, df.SetColumn("a", []float64{1, 2}))

	clone := df.Clone()
	require.NoError(t, clone.SetColumn("b", []float64{3, 4}))
	vals, _ := clone.Column("a")
	vals[0] = 99

	assert.Equal(t, []string{"a"}, df.Columns())
	orig, _ := df.Column("a")
	assert.Equal(t, []float64{1, 2}, orig)
}

func TestEmptyTable(t *testing.T) {
	df := table.New()

	assert.Zero(t, df.NumRows())
	assert.Zero(t, df.NumColumns())
	_, ok := df.Column("a")
	assert.False(t, ok)
}
