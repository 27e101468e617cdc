package graph

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePath = "../../testdata/fixtures/capella/drone.capella"

func buildString(t *testing.T, src string) *Graph {
	t.Helper()
	g, err := BuildFrom(context.Background(), strings.NewReader(src), "/models/mem.xml")
	require.NoError(t, err)
	return g
}

func buildFixture(t *testing.T) *Graph {
	t.Helper()
	g, err := Build(context.Background(), fixturePath)
	require.NoError(t, err)
	return g
}

func nodeIDs(nodes []Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestBuild_EndToEnd(t *testing.T) {
	g := buildString(t, `<system id="A"><part id="B" name="Pump"/><part id="C" name="Pump"/></system>`)

	assert.Equal(t, 3, g.Len())
	assert.Equal(t, 2, g.EdgeCount())
	assert.Equal(t, []Edge{
		{Source: "A", Target: "B", Kind: EdgeKindContains},
		{Source: "A", Target: "C", Kind: EdgeKindContains},
	}, g.Edges())

	ix := NewNameIndex(g)
	assert.Equal(t, []string{"B", "C"}, ix.Lookup("pump"))

	r := NewResolver(ix, DefaultResolverOptions())
	assert.Equal(t, []string{"B", "C"}, r.Resolve("Pump"))
	// "Pimp" vs "Pump" scores 75, below the default cutoff.
	assert.Empty(t, r.Resolve("Pimp"))
}

func TestBuild_IdentityPriority(t *testing.T) {
	g := buildString(t, `<root xmlns:xmi="http://www.omg.org/XMI">
  <el xmi:id="ns-1" id="plain-1" name="Both"/>
  <el id="plain-2" name="PlainOnly"/>
  <el xmlns:x="http://www.omg.org/XMI" x:id="ns-3" name="OtherPrefix"/>
  <el xmi:id="" id="plain-4" name="EmptyNamespaced"/>
</root>`)

	_, ok := g.Node("plain-1")
	assert.False(t, ok)

	tests := []struct {
		id   string
		name string
	}{
		{"ns-1", "Both"},
		{"plain-2", "PlainOnly"},
		{"ns-3", "OtherPrefix"},
		{"plain-4", "EmptyNamespaced"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := g.Node(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.name, n.Name)
			assert.Equal(t, "el", n.Tag)
		})
	}
}

func TestBuild_SkipsMissingIdentity(t *testing.T) {
	g := buildString(t, `<root id="R">
  <group name="no identity">
    <item id="I1" name="Inner"/>
  </group>
  <item id="I2" name="Direct"/>
</root>`)

	assert.ElementsMatch(t, []string{"I1", "I2", "R"}, nodeIDs(g.Nodes()))
	for _, n := range g.Nodes() {
		assert.NotEqual(t, "group", n.Tag)
	}

	// I1's structural parent has no identity, so I1 has no container.
	assert.Empty(t, g.Parents("I1"))
	assert.Equal(t, []string{"R"}, g.Parents("I2"))
	assert.Equal(t, []string{"I2"}, g.Children("R"))
	assert.ElementsMatch(t, []string{"I1", "R"}, g.Roots())

	stats, err := g.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.SkippedCount)
	assert.Equal(t, 2, stats.RootCount)
}

func TestBuild_ContainmentFidelity(t *testing.T) {
	g := buildFixture(t)

	want := map[[2]string]bool{
		{"lc-1", "lf-1"}:   true,
		{"lc-1", "lf-2"}:   true,
		{"se-1", "lc-1"}:   true,
		{"lc-2", "lf-3"}:   true,
		{"se-1", "lc-2"}:   true,
		{"se-1", "diag-1"}: true,
		{"proj-1", "se-1"}: true,
	}
	edges := g.Edges()
	require.Len(t, edges, len(want))
	for _, e := range edges {
		assert.Equal(t, EdgeKindContains, e.Kind)
		assert.True(t, want[[2]string{e.Source, e.Target}], "unexpected edge %s -> %s", e.Source, e.Target)
		_, ok := g.Node(e.Source)
		assert.True(t, ok, "edge source %s must be a node", e.Source)
		_, ok = g.Node(e.Target)
		assert.True(t, ok, "edge target %s must be a node", e.Target)
	}
}

func TestBuild_FixtureNodes(t *testing.T) {
	g := buildFixture(t)

	abs, err := filepath.Abs(fixturePath)
	require.NoError(t, err)
	assert.Equal(t, abs, g.File())

	assert.Equal(t,
		[]string{"lf-1", "lf-2", "lc-1", "lf-3", "lc-2", "pt-1", "diag-1", "se-1", "proj-1"},
		nodeIDs(g.Nodes()),
		"nodes are visited at their closing tag")

	lc1, ok := g.Node("lc-1")
	require.True(t, ok)
	assert.Equal(t, Node{
		ID:          "lc-1",
		Tag:         "ownedLogicalComponents",
		Name:        "Flight Controller",
		File:        abs,
		Line:        4,
		Description: "Stabilizes the airframe",
	}, lc1)

	root, ok := g.Node("proj-1")
	require.True(t, ok)
	assert.Equal(t, "Project", root.Tag, "tag is namespace-stripped")
	assert.Equal(t, 2, root.Line)

	stats, err := g.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, GraphStats{
		NodeCount:    9,
		EdgeCount:    7,
		RootCount:    2,
		SkippedCount: 2,
		MaxDepth:     4,
	}, *stats)
}

func TestBuild_DuplicateIdentityLastWriteWins(t *testing.T) {
	g := buildString(t, `<root id="R">
  <a id="X" name="first"/>
  <b id="Y" name="other"/>
  <c id="X" name="second"/>
</root>`)

	assert.Equal(t, []string{"X", "Y", "R"}, nodeIDs(g.Nodes()), "duplicate keeps its first position")

	x, ok := g.Node("X")
	require.True(t, ok)
	assert.Equal(t, "second", x.Name)
	assert.Equal(t, "c", x.Tag)
	assert.Equal(t, 4, x.Line)

	assert.Equal(t, 2, g.EdgeCount(), "repeated containment is recorded once")

	stats, err := g.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.DuplicateCount)
}

func TestBuild_MissingNameAndDescription(t *testing.T) {
	g := buildString(t, `<root id="R"/>`)

	n, ok := g.Node("R")
	require.True(t, ok)
	assert.Equal(t, "", n.Name)
	assert.Equal(t, "", n.Description)

	stats, err := g.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.UnnamedCount)
}

func TestBuild_ParseErrorAborts(t *testing.T) {
	_, err := BuildFrom(context.Background(), strings.NewReader(`<root id="R"><a id="A"></root>`), "/models/bad.xml")
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "/models/bad.xml", perr.Path)
}

func TestBuild_RejectsDocumentsWithoutSingleRoot(t *testing.T) {
	for _, src := range []string{`<a id="1"/><b id="2"/>`, `<a id="1"/>trailing junk`, "", "   \n"} {
		_, err := BuildFrom(context.Background(), strings.NewReader(src), "/models/bad.xml")
		var perr *ParseError
		require.ErrorAs(t, err, &perr, "input %q", src)
	}
}

func TestBuild_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, fixturePath)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuild_MissingFile(t *testing.T) {
	_, err := Build(context.Background(), filepath.Join(t.TempDir(), "absent.capella"))
	require.Error(t, err)
}
