package persist

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvandervort/graphoid/pkg/value"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	g := value.NewGraph("directed")
	_, err := g.AddNode("alice", value.Str("Alice"))
	require.NoError(t, err)
	_, err = g.AddNode("bob", value.Str("Bob"))
	require.NoError(t, err)
	weight := 4.5
	require.NoError(t, g.AddEdge("alice", "bob", "knows", &weight, map[string]value.Value{
		"since": value.Num(2020),
	}))

	dbPath := filepath.Join(t.TempDir(), "graph.db")
	require.NoError(t, Save(g, dbPath))

	loaded, err := Load(dbPath)
	require.NoError(t, err)

	assert.Equal(t, "directed", loaded.Type)
	ids := loaded.DataNodeIDs(false)
	assert.ElementsMatch(t, []string{"alice", "bob"}, ids)

	aliceRec, ok := loaded.Nodes["alice"]
	require.True(t, ok)
	assert.True(t, value.Equals(value.Str("Alice"), aliceRec.Value))

	edge, ok := aliceRec.Neighbors["bob"]
	require.True(t, ok)
	assert.Equal(t, "knows", edge.EdgeType)
	require.NotNil(t, edge.Weight)
	assert.Equal(t, 4.5, *edge.Weight)
	assert.True(t, value.Equals(value.Num(2020), edge.Properties["since"]))
}

func TestLoadMissingDatabase(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}
