package source_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipewright/pipewright/modules/source"
)

func TestMakeFrame(t *testing.T) {
	frame, err := source.MakeFrame(context.Background(), &source.MakeFrameParams{Rows: 10, Cols: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{"c1", "c2"}, frame.Columns())
	assert.Equal(t, 10, frame.NumRows())
}

func TestMakeFrame_DeterministicForSeed(t *testing.T) {
	p := &source.MakeFrameParams{Rows: 5, Cols: 1, Seed: 42}

	first, err := source.MakeFrame(context.Background(), p)
	require.NoError(t, err)
	second, err := source.MakeFrame(context.Background(), p)
	require.NoError(t, err)

	a, _ := first.Column("c1")
	b, _ := second.Column("c1")
	assert.Equal(t, a, b)
}

func TestMakeFrame_Validation(t *testing.T) {
	_, err := source.MakeFrame(context.Background(), &source.MakeFrameParams{Rows: 0, Cols: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rows must be positive")

	_, err = source.MakeFrame(context.Background(), &source.MakeFrameParams{Rows: 1, Cols: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cols must be positive")
}
