package main

import (
	"context"
	"fmt"

	"github.com/dusk-indust/modelgraph/internal/graph"
)

const (
	backendMem  = "mem"
	backendKuzu = "kuzu"
)

// openReader returns the query surface for g on the named backend and a
// function releasing it.
func openReader(ctx context.Context, backend string, g *graph.Graph) (graph.Reader, func() error, error) {
	switch backend {
	case "", backendMem:
		return g, func() error { return nil }, nil
	case backendKuzu:
		return openKuzu(ctx, g)
	default:
		return nil, nil, fmt.Errorf("unknown backend %q (want %s or %s)", backend, backendMem, backendKuzu)
	}
}
