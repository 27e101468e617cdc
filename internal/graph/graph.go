package graph

import (
	"context"
	"strings"
)

// Compile-time assertion: *Graph satisfies Reader.
var _ Reader = (*Graph)(nil)

// Graph is the finalized containment graph of one model document. It has no
// mutators; every accessor returns copies, so it is safe for concurrent reads.
type Graph struct {
	file     string
	nodes    map[string]Node
	order    []string // element completion order
	edges    []Edge
	children map[string][]string
	parents  map[string][]string
	stats    GraphStats
}

// File returns the absolute path of the source document.
func (g *Graph) File() string { return g.file }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.order) }

// EdgeCount returns the number of containment edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in element completion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Children returns the ids directly contained by id.
func (g *Graph) Children(id string) []string {
	return cloneStrings(g.children[id])
}

// Parents returns the ids that directly contain id. A well-formed model has
// at most one; duplicate identities in the source can produce more.
func (g *Graph) Parents(id string) []string {
	return cloneStrings(g.parents[id])
}

// Names maps every node id to its name.
func (g *Graph) Names() map[string]string {
	out := make(map[string]string, len(g.nodes))
	for id, n := range g.nodes {
		out[id] = n.Name
	}
	return out
}

// GetNode returns the node for the given id, or nil if not found.
func (g *Graph) GetNode(_ context.Context, id string) (*Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

// QueryNodes returns nodes whose name contains query (case-insensitive),
// up to limit results. A limit <= 0 returns all matches.
func (g *Graph) QueryNodes(_ context.Context, query string, limit int) ([]Node, error) {
	lowerQuery := strings.ToLower(query)
	var results []Node
	for _, id := range g.order {
		n := g.nodes[id]
		if strings.Contains(strings.ToLower(n.Name), lowerQuery) {
			results = append(results, n)
			if limit > 0 && len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

// GetContainment performs a BFS from id in the given direction, up to
// maxDepth hops. It returns one ContainmentChain per reachable node.
func (g *Graph) GetContainment(_ context.Context, id string, direction Direction, maxDepth int) ([]ContainmentChain, error) {
	if maxDepth <= 0 {
		return nil, nil
	}

	type bfsEntry struct {
		id   string
		path []string
	}

	visited := map[string]bool{id: true}
	queue := []bfsEntry{{id: id, path: []string{id}}}
	var chains []ContainmentChain

	for depth := 0; depth < maxDepth && len(queue) > 0; depth++ {
		var nextQueue []bfsEntry
		for _, entry := range queue {
			for _, nb := range g.neighbors(entry.id, direction) {
				if visited[nb] {
					continue
				}
				visited[nb] = true
				newPath := make([]string, len(entry.path), len(entry.path)+1)
				copy(newPath, entry.path)
				newPath = append(newPath, nb)
				chains = append(chains, ContainmentChain{
					Nodes: newPath,
					Depth: len(newPath) - 1,
				})
				nextQueue = append(nextQueue, bfsEntry{id: nb, path: newPath})
			}
		}
		queue = nextQueue
	}

	return chains, nil
}

func (g *Graph) neighbors(id string, direction Direction) []string {
	switch direction {
	case DirectionDown:
		return g.children[id]
	case DirectionUp:
		return g.parents[id]
	default:
		return nil
	}
}

// GetAllEdges returns a copy of all edges.
func (g *Graph) GetAllEdges(_ context.Context) ([]Edge, error) {
	return g.Edges(), nil
}

// Stats returns the counters collected while building.
func (g *Graph) Stats(_ context.Context) (*GraphStats, error) {
	s := g.stats
	return &s, nil
}

// Roots returns the nodes without a recorded container, in visitation order.
func (g *Graph) Roots() []string {
	var out []string
	for _, id := range g.order {
		if len(g.parents[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
