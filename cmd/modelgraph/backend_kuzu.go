//go:build cgo

package main

import (
	"context"
	"fmt"

	"github.com/dusk-indust/modelgraph/internal/graph"
)

func openKuzu(ctx context.Context, g *graph.Graph) (graph.Reader, func() error, error) {
	store, err := graph.NewKuzuStore()
	if err != nil {
		return nil, nil, err
	}
	if err := graph.Mirror(ctx, g, store); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("mirror graph: %w", err)
	}
	return store, store.Close, nil
}
