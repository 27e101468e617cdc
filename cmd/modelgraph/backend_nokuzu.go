//go:build !cgo

package main

import (
	"context"
	"errors"

	"github.com/dusk-indust/modelgraph/internal/graph"
)

func openKuzu(context.Context, *graph.Graph) (graph.Reader, func() error, error) {
	return nil, nil, errors.New("the kuzu backend requires a cgo build")
}
