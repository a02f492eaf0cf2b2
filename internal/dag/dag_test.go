package dag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipewright/pipewright/internal/config"
)

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.NotNil(t, g.nodes)
	assert.Empty(t, g.nodes)
}

func TestAddNode(t *testing.T) {
	g := New()

	g.AddNode("a")
	assert.Equal(t, 1, g.Len())
	nodeA, ok := g.nodes["a"]
	require.True(t, ok)
	assert.Equal(t, "a", nodeA.id)

	g.AddNode("a") // idempotent
	assert.Equal(t, 1, g.Len())

	g.AddNode("b")
	assert.Equal(t, 2, g.Len())
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")

		err := g.AddEdge("a", "b") // b depends on a
		require.NoError(t, err)

		deps, err := g.Dependencies("b")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, deps)
	})

	t.Run("error cases", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")

		err := g.AddEdge("dne", "a")
		assert.ErrorContains(t, err, "source node not found")

		err = g.AddEdge("a", "dne")
		assert.ErrorContains(t, err, "destination node not found")

		err = g.AddEdge("a", "a")
		assert.ErrorContains(t, err, "self-referential edge")
	})
}

func TestDetectCycles(t *testing.T) {
	t.Run("empty graph has no cycles", func(t *testing.T) {
		g := New()
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("valid dag has no cycles", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		g.AddNode("c")
		g.AddNode("d")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "c"))
		require.NoError(t, g.AddEdge("a", "c")) // Transitive edge
		require.NoError(t, g.AddEdge("c", "d"))
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("simple direct cycle is detected", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "a"))
		err := g.DetectCycles()
		assert.ErrorContains(t, err, "cycle detected")
	})

	t.Run("cycle in a disjoint component is detected", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("a", "b"))

		g.AddNode("x")
		g.AddNode("y")
		g.AddNode("z")
		require.NoError(t, g.AddEdge("x", "y"))
		require.NoError(t, g.AddEdge("y", "z"))
		require.NoError(t, g.AddEdge("z", "y"))

		err := g.DetectCycles()
		assert.ErrorContains(t, err, "cycle detected")
	})
}

func TestTopoOrder(t *testing.T) {
	t.Run("linear chain keeps declaration order", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		g.AddNode("c")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "c"))

		order, err := g.TopoOrder()
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, order)
	})

	t.Run("ties broken by insertion order", func(t *testing.T) {
		g := New()
		g.AddNode("left")
		g.AddNode("right")
		g.AddNode("sink")
		require.NoError(t, g.AddEdge("left", "sink"))
		require.NoError(t, g.AddEdge("right", "sink"))

		order, err := g.TopoOrder()
		require.NoError(t, err)
		assert.Equal(t, []string{"left", "right", "sink"}, order)
	})

	t.Run("every node ordered after its dependencies", func(t *testing.T) {
		g := New()
		for _, id := range []string{"d", "c", "b", "a"} {
			g.AddNode(id)
		}
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "d"))
		require.NoError(t, g.AddEdge("c", "d"))

		order, err := g.TopoOrder()
		require.NoError(t, err)

		pos := make(map[string]int)
		for i, id := range order {
			pos[id] = i
		}
		assert.Less(t, pos["a"], pos["b"])
		assert.Less(t, pos["b"], pos["d"])
		assert.Less(t, pos["c"], pos["d"])
	})

	t.Run("cycle yields error", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "a"))

		_, err := g.TopoOrder()
		assert.ErrorContains(t, err, "cycle detected")
	})

	t.Run("deterministic across repeated calls", func(t *testing.T) {
		g := New()
		for _, id := range []string{"n1", "n2", "n3", "n4", "n5"} {
			g.AddNode(id)
		}
		require.NoError(t, g.AddEdge("n1", "n3"))
		require.NoError(t, g.AddEdge("n2", "n3"))
		require.NoError(t, g.AddEdge("n3", "n5"))

		first, err := g.TopoOrder()
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			again, err := g.TopoOrder()
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})
}

func TestFromStages(t *testing.T) {
	t.Run("connects consecutive stages by type contract", func(t *testing.T) {
		stages := []config.StageDecl{
			{ID: "normalization", Input: "RawFrame", Output: "NormFrame"},
			{ID: "features", Input: "NormFrame", Output: "NormFrame"},
			{ID: "output", Input: "NormFrame", Output: "NormFrame"},
		}

		g, err := FromStages(context.Background(), stages)
		require.NoError(t, err)

		order, err := g.TopoOrder()
		require.NoError(t, err)
		assert.Equal(t, []string{"normalization", "features", "output"}, order)

		deps, err := g.Dependencies("features")
		require.NoError(t, err)
		assert.Equal(t, []string{"normalization"}, deps)
	})

	t.Run("mismatched contract leaves stages unconnected", func(t *testing.T) {
		stages := []config.StageDecl{
			{ID: "first", Input: "A", Output: "A"},
			{ID: "second", Input: "B", Output: "B"},
		}

		g, err := FromStages(context.Background(), stages)
		require.NoError(t, err)

		deps, err := g.Dependencies("second")
		require.NoError(t, err)
		assert.Empty(t, deps)
	})
}
