package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dusk-indust/modelgraph/internal/graph"
)

// GraphSource is the part of *graph.Graph the exporters read.
type GraphSource interface {
	Nodes() []graph.Node
	Edges() []graph.Edge
}

// NodeLinkGraph is the node-link JSON representation of a containment graph.
type NodeLinkGraph struct {
	Directed   bool           `json:"directed"`
	Multigraph bool           `json:"multigraph"`
	Graph      map[string]any `json:"graph"`
	Nodes      []NodeLinkNode `json:"nodes"`
	Links      []NodeLinkLink `json:"links"`
}

// NodeLinkNode carries a node's attributes followed by its id.
type NodeLinkNode struct {
	Tag         string `json:"tag"`
	Name        string `json:"name"`
	File        string `json:"file"`
	Line        int    `json:"line"`
	Description string `json:"description"`
	ID          string `json:"id"`
}

// NodeLinkLink is one edge with its attributes and endpoints.
type NodeLinkLink struct {
	Type   string `json:"type"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// NodeLink converts g into its node-link representation. Nodes and links
// keep the graph's order.
func NodeLink(g GraphSource) NodeLinkGraph {
	nodes := g.Nodes()
	edges := g.Edges()

	out := NodeLinkGraph{
		Directed: true,
		Graph:    map[string]any{},
		Nodes:    make([]NodeLinkNode, 0, len(nodes)),
		Links:    make([]NodeLinkLink, 0, len(edges)),
	}
	for _, n := range nodes {
		out.Nodes = append(out.Nodes, NodeLinkNode{
			Tag:         n.Tag,
			Name:        n.Name,
			File:        n.File,
			Line:        n.Line,
			Description: n.Description,
			ID:          n.ID,
		})
	}
	for _, e := range edges {
		out.Links = append(out.Links, NodeLinkLink{
			Type:   string(e.Kind),
			Source: e.Source,
			Target: e.Target,
		})
	}
	return out
}

// MarshalIndented encodes v as UTF-8 JSON with two-space indentation and a
// trailing newline. HTML characters are not escaped so XML snippets stay
// readable.
func MarshalIndented(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphJSON writes the node-link JSON of g to path.
func WriteGraphJSON(g GraphSource, path string) error {
	data, err := MarshalIndented(NodeLink(g))
	if err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write graph json: %w", err)
	}
	return nil
}

// ExportGraph resolves target with ResolveGraphPath and writes the graph
// there. It returns the path written.
func ExportGraph(g GraphSource, target string, now time.Time) (string, error) {
	path, err := ResolveGraphPath(target, now)
	if err != nil {
		return "", err
	}
	if err := WriteGraphJSON(g, path); err != nil {
		return "", err
	}
	return path, nil
}
