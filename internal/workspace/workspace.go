// Package workspace bundles a built containment graph with the indexes
// derived from it, and swaps whole bundles when the model is rebuilt.
package workspace

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dusk-indust/modelgraph/internal/graph"
	"github.com/dusk-indust/modelgraph/internal/logger"
	"github.com/dusk-indust/modelgraph/internal/snippet"
)

// Workspace is one immutable build of a model file.
type Workspace struct {
	Path     string
	Graph    *graph.Graph
	Index    *graph.NameIndex
	Resolver *graph.Resolver
	Slicer   *snippet.Slicer
	BuiltAt  time.Time
}

// Load builds the graph at path and derives its name index and resolver.
func Load(ctx context.Context, path string, opts graph.ResolverOptions) (*Workspace, error) {
	start := time.Now()
	g, err := graph.Build(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	ix := graph.NewNameIndex(g)

	stats, _ := g.Stats(ctx)
	logger.Debug("graph built",
		"file", g.File(),
		"nodes", stats.NodeCount,
		"edges", stats.EdgeCount,
		"skipped", stats.SkippedCount,
		"duplicates", stats.DuplicateCount,
		"names", ix.Len(),
		"elapsed", time.Since(start),
	)
	if stats.DuplicateCount > 0 {
		logger.Warn("duplicate identities, later elements win", "file", g.File(), "count", stats.DuplicateCount)
	}

	return &Workspace{
		Path:     g.File(),
		Graph:    g,
		Index:    ix,
		Resolver: graph.NewResolver(ix, opts),
		Slicer:   snippet.NewSlicer(g),
		BuiltAt:  time.Now(),
	}, nil
}

// Holder publishes the current Workspace. Readers never see a partial build.
type Holder struct {
	current atomic.Pointer[Workspace]
	reload  sync.Mutex // one rebuild at a time
}

// NewHolder returns a Holder publishing ws.
func NewHolder(ws *Workspace) *Holder {
	h := &Holder{}
	h.current.Store(ws)
	return h
}

// Current returns the latest successfully built Workspace.
func (h *Holder) Current() *Workspace {
	return h.current.Load()
}

// Reload rebuilds the current workspace's model file with the same resolver
// options. On failure the previous workspace stays published.
func (h *Holder) Reload(ctx context.Context) (*Workspace, error) {
	h.reload.Lock()
	defer h.reload.Unlock()

	old := h.Current()
	ws, err := Load(ctx, old.Path, old.Resolver.Options())
	if err != nil {
		logger.Error("reload failed, keeping previous graph", "file", old.Path, "err", err)
		return old, err
	}
	h.current.Store(ws)
	logger.Info("model reloaded", "file", ws.Path, "nodes", ws.Graph.Len())
	return ws, nil
}
