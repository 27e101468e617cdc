//go:build cgo

package graph

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a fresh in-memory KuzuStore with an initialized schema.
// It registers a cleanup function to close the store when the test finishes.
func newTestStore(t *testing.T) *KuzuStore {
	t.Helper()
	s, err := NewKuzuStore()
	require.NoError(t, err, "NewKuzuStore should not fail")
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	require.NoError(t, s.InitSchema(ctx), "InitSchema should not fail")
	return s
}

// mirroredFixture builds the fixture model and mirrors it into a new store.
func mirroredFixture(t *testing.T) (*Graph, *KuzuStore) {
	t.Helper()
	g := buildFixture(t)
	s, err := NewKuzuStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, Mirror(context.Background(), g, s))
	return g, s
}

// sorted returns a sorted copy of the given string slice so that assertions
// are deterministic regardless of result order.
func sorted(ss []string) []string {
	out := make([]string, len(ss))
	copy(out, ss)
	sort.Strings(out)
	return out
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestKuzuStore_InitSchema(t *testing.T) {
	s, err := NewKuzuStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()

	// First call creates the tables.
	require.NoError(t, s.InitSchema(ctx))

	// Second call should be idempotent (IF NOT EXISTS).
	require.NoError(t, s.InitSchema(ctx))
}

func TestKuzuStore_NodeRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	node := Node{
		ID:          "lc-1",
		Tag:         "ownedLogicalComponents",
		Name:        "Flight Controller",
		File:        "/models/drone.capella",
		Line:        4,
		Description: "Stabilizes the airframe",
	}
	require.NoError(t, s.AddNode(ctx, node))

	got, err := s.GetNode(ctx, "lc-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, node, *got)

	missing, err := s.GetNode(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestKuzuStore_RejectsUnknownEdgeKind(t *testing.T) {
	s := newTestStore(t)
	err := s.AddEdge(context.Background(), Edge{Source: "a", Target: "b", Kind: "references"})
	require.Error(t, err)
}

func TestKuzuStore_MirrorMatchesGraph(t *testing.T) {
	g, s := mirroredFixture(t)
	ctx := context.Background()

	edges, err := s.GetAllEdges(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, g.Edges(), edges)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, g.Len(), stats.NodeCount)
	assert.Equal(t, g.EdgeCount(), stats.EdgeCount)
	assert.Equal(t, 0, stats.UnnamedCount)
}

func TestKuzuStore_QueryNodes(t *testing.T) {
	_, s := mirroredFixture(t)
	ctx := context.Background()

	nodes, err := s.QueryNodes(ctx, "BATTERY", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"lc-2", "pt-1"}, sorted(nodeIDs(nodes)))

	limited, err := s.QueryNodes(ctx, "compute", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestKuzuStore_QueryNodesFollowsGraphOrder(t *testing.T) {
	g, s := mirroredFixture(t)
	ctx := context.Background()

	for _, q := range []string{"o", "battery", "r"} {
		for _, limit := range []int{0, 1, 2, 3} {
			want, err := g.QueryNodes(ctx, q, limit)
			require.NoError(t, err)
			got, err := s.QueryNodes(ctx, q, limit)
			require.NoError(t, err)
			assert.Equal(t, nodeIDs(want), nodeIDs(got), "query %q limit %d", q, limit)
		}
	}
}

func TestKuzuStore_GetContainment(t *testing.T) {
	g, s := mirroredFixture(t)
	ctx := context.Background()

	for _, dir := range []Direction{DirectionDown, DirectionUp} {
		for _, id := range []string{"proj-1", "se-1", "lf-3"} {
			want, err := g.GetContainment(ctx, id, dir, 10)
			require.NoError(t, err)
			got, err := s.GetContainment(ctx, id, dir, 10)
			require.NoError(t, err)
			assert.ElementsMatch(t, want, got, "%s %s", dir, id)
		}
	}
}
