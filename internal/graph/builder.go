package graph

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
)

// identityAttrs lists identity attributes in priority order.
var identityAttrs = []xml.Name{
	{Space: XMINamespace, Local: "id"},
	{Local: "id"},
}

// Identity returns the first non-empty identity attribute of el, or "".
func Identity(el *Element) string {
	if el == nil {
		return ""
	}
	for _, name := range identityAttrs {
		if v := el.Attr(name.Space, name.Local); v != "" {
			return v
		}
	}
	return ""
}

// Build streams the model file at path into a containment graph.
func Build(ctx context.Context, path string) (*Graph, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve model path: %w", err)
	}
	r, err := OpenElements(abs)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return build(ctx, r, abs)
}

// BuildFrom builds a graph from an already opened document. file is recorded
// as every node's provenance and should be the absolute path of the source.
func BuildFrom(ctx context.Context, src io.Reader, file string) (*Graph, error) {
	return build(ctx, NewElementReader(src, file), file)
}

func build(ctx context.Context, r *ElementReader, file string) (*Graph, error) {
	b := newBuilder(file)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		el, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		b.add(el)
	}
	return b.finalize(), nil
}

// builder accumulates nodes and edges until the document is exhausted.
type builder struct {
	file    string
	nodes   map[string]Node
	order   []string
	edges   []Edge
	edgeSet map[[2]string]bool
	stats   GraphStats
}

func newBuilder(file string) *builder {
	return &builder{
		file:    file,
		nodes:   make(map[string]Node),
		edgeSet: make(map[[2]string]bool),
	}
}

func (b *builder) add(el *Element) {
	if el.Depth+1 > b.stats.MaxDepth {
		b.stats.MaxDepth = el.Depth + 1
	}

	id := Identity(el)
	if id == "" {
		b.stats.SkippedCount++
		return
	}

	// Last write wins; the node keeps the position of its first occurrence.
	if _, seen := b.nodes[id]; seen {
		b.stats.DuplicateCount++
	} else {
		b.order = append(b.order, id)
	}
	b.nodes[id] = Node{
		ID:          id,
		Tag:         el.Name.Local,
		Name:        el.Attr("", "name"),
		File:        b.file,
		Line:        el.Line,
		Description: el.Attr("", "description"),
	}

	parentID := Identity(el.Parent)
	if parentID == "" {
		return
	}
	key := [2]string{parentID, id}
	if b.edgeSet[key] {
		return
	}
	b.edgeSet[key] = true
	b.edges = append(b.edges, Edge{Source: parentID, Target: id, Kind: EdgeKindContains})
}

func (b *builder) finalize() *Graph {
	g := &Graph{
		file:     b.file,
		nodes:    b.nodes,
		order:    b.order,
		edges:    b.edges,
		children: make(map[string][]string),
		parents:  make(map[string][]string),
		stats:    b.stats,
	}
	for _, e := range b.edges {
		g.children[e.Source] = append(g.children[e.Source], e.Target)
		g.parents[e.Target] = append(g.parents[e.Target], e.Source)
	}
	g.stats.NodeCount = len(g.nodes)
	g.stats.EdgeCount = len(g.edges)
	for _, id := range g.order {
		if len(g.parents[id]) == 0 {
			g.stats.RootCount++
		}
		if g.nodes[id].Name == "" {
			g.stats.UnnamedCount++
		}
	}
	return g
}
