package graph

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrNodeNotFound is returned when an id does not name a node in the graph.
var ErrNodeNotFound = errors.New("node not found")

// Reader is the query surface shared by the in-memory Graph and mirrored
// backends. Collaborators that only read the containment graph take a Reader.
// QueryNodes returns matches in node insertion order.
type Reader interface {
	GetNode(ctx context.Context, id string) (*Node, error)
	QueryNodes(ctx context.Context, query string, limit int) ([]Node, error)
	GetContainment(ctx context.Context, id string, direction Direction, maxDepth int) ([]ContainmentChain, error)
	GetAllEdges(ctx context.Context) ([]Edge, error)
	Stats(ctx context.Context) (*GraphStats, error)
}

// Store is a writable backend a finalized Graph can be mirrored into.
// Implementations: KuzuStore (cgo, in-memory Cypher).
type Store interface {
	Reader
	io.Closer

	// InitSchema is called once before any data is inserted.
	InitSchema(ctx context.Context) error

	AddNode(ctx context.Context, node Node) error
	AddEdge(ctx context.Context, edge Edge) error
}

// Direction controls containment traversal direction.
type Direction string

const (
	DirectionDown Direction = "down" // what does this contain?
	DirectionUp   Direction = "up"   // what contains this?
)

// ParseDirection maps user input to a Direction, defaulting to DirectionDown.
func ParseDirection(s string) Direction {
	switch s {
	case "up", "upstream", "ancestors":
		return DirectionUp
	default:
		return DirectionDown
	}
}

// Mirror copies every node and edge of g into store. Nodes are written
// before edges so edge endpoints always exist.
func Mirror(ctx context.Context, g *Graph, store Store) error {
	if err := store.InitSchema(ctx); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	for _, n := range g.Nodes() {
		if err := store.AddNode(ctx, n); err != nil {
			return fmt.Errorf("add node %s: %w", n.ID, err)
		}
	}
	for _, e := range g.edges {
		if err := store.AddEdge(ctx, e); err != nil {
			return fmt.Errorf("add edge %s->%s: %w", e.Source, e.Target, err)
		}
	}
	return nil
}
