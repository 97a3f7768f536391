package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvandervort/graphoid/pkg/value"
)

func chain(t *testing.T, typ string, ids ...string) *value.Graph {
	t.Helper()
	g := value.NewGraph(typ)
	for _, id := range ids {
		_, err := g.AddNode(id, value.Str(id))
		require.NoError(t, err)
	}
	for i := 0; i < len(ids)-1; i++ {
		require.NoError(t, g.AddEdge(ids[i], ids[i+1], "next", nil, nil))
	}
	return g
}

func TestBFS_VisitsInBreadthOrder(t *testing.T) {
	g := value.NewGraph("directed")
	for _, id := range []string{"a", "b", "c", "d"} {
		_, _ = g.AddNode(id, value.None())
	}
	require.NoError(t, g.AddEdge("a", "b", "e", nil, nil))
	require.NoError(t, g.AddEdge("a", "c", "e", nil, nil))
	require.NoError(t, g.AddEdge("b", "d", "e", nil, nil))

	order, err := BFS(g, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, order)
}

func TestDFS_VisitsDepthFirst(t *testing.T) {
	g := chain(t, "directed", "a", "b", "c")
	order, err := DFS(g, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestDijkstra_FindsShortestWeightedPath(t *testing.T) {
	g := value.NewGraph("directed")
	for _, id := range []string{"a", "b", "c", "d"} {
		_, _ = g.AddNode(id, value.None())
	}
	w := func(x float64) *float64 { return &x }
	require.NoError(t, g.AddEdge("a", "b", "e", w(5), nil))
	require.NoError(t, g.AddEdge("a", "c", "e", w(1), nil))
	require.NoError(t, g.AddEdge("c", "b", "e", w(1), nil))
	require.NoError(t, g.AddEdge("b", "d", "e", w(1), nil))

	path, dist, err := Dijkstra(g, "a", "d")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b", "d"}, path)
	assert.Equal(t, 3.0, dist)
}

func TestDijkstra_NoPathReturnsNil(t *testing.T) {
	g := value.NewGraph("directed")
	_, _ = g.AddNode("a", value.None())
	_, _ = g.AddNode("b", value.None())

	path, dist, err := Dijkstra(g, "a", "b")
	require.NoError(t, err)
	assert.Nil(t, path)
	assert.Equal(t, 0.0, dist)
}

func TestTopoSort_OrdersByDependency(t *testing.T) {
	g := chain(t, "directed", "a", "b", "c")
	order, err := TopoSort(g)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestTopoSort_DetectsCycle(t *testing.T) {
	g := value.NewGraph("directed")
	_, _ = g.AddNode("a", value.None())
	_, _ = g.AddNode("b", value.None())
	require.NoError(t, g.AddEdge("a", "b", "e", nil, nil))
	require.NoError(t, g.AddEdge("b", "a", "e", nil, nil))

	_, err := TopoSort(g)
	assert.Error(t, err)
}
