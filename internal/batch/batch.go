// Package batch resolves many entity mentions against one workspace and
// mints a citation token for every matched element.
package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/modelgraph/internal/export"
	"github.com/dusk-indust/modelgraph/internal/graph"
	"github.com/dusk-indust/modelgraph/internal/snippet"
	"github.com/dusk-indust/modelgraph/internal/workspace"
)

// ErrEmptyQuery is recorded for blank queries.
var ErrEmptyQuery = errors.New("empty query")

// Match is one node a query resolved to.
type Match struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Tag  string `json:"tag"`
	// Token is the bracketed citation token, empty when Excluded.
	Token string `json:"token,omitempty"`
	// Excluded marks layout elements, which are never cited.
	Excluded bool `json:"excluded,omitempty"`
}

// Record is the outcome of one query. Error is set instead of Matches when
// the query failed.
type Record struct {
	Query   string  `json:"query"`
	Matches []Match `json:"matches"`
	Error   string  `json:"error,omitempty"`
}

// Report is the full batch result as written to disk.
type Report struct {
	Model       string                    `json:"model"`
	GeneratedAt string                    `json:"generatedAt"`
	Records     []Record                  `json:"records"`
	Sources     map[string]snippet.Source `json:"sources"`
}

// Options configures a Runner.
type Options struct {
	Concurrency int
	CiteLen     int // zero or less means snippet.DefaultCiteLen
	OnProgress  func(ProgressEvent)
}

// Runner resolves queries in parallel against an immutable workspace.
type Runner struct {
	ws          *workspace.Workspace
	sources     *snippet.SourceMap
	concurrency int
	citeLen     int
	onProgress  func(ProgressEvent)
}

// NewRunner creates a Runner. Citation tokens are registered in sources,
// which may be shared with other runners; nil creates a private map.
func NewRunner(ws *workspace.Workspace, sources *snippet.SourceMap, opts Options) *Runner {
	if sources == nil {
		sources = snippet.NewSourceMap()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.CiteLen <= 0 {
		opts.CiteLen = snippet.DefaultCiteLen
	}
	return &Runner{
		ws:          ws,
		sources:     sources,
		concurrency: opts.Concurrency,
		citeLen:     opts.CiteLen,
		onProgress:  opts.OnProgress,
	}
}

// Sources returns the source map tokens are registered in.
func (r *Runner) Sources() *snippet.SourceMap { return r.sources }

// Run resolves every query, at most Concurrency at a time. A failing query
// is recorded in its Record and does not stop the others; only context
// cancellation aborts the batch. Records keep the order of queries.
func (r *Runner) Run(ctx context.Context, queries []string) (*Report, error) {
	records := make([]Record, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for _, q := range queries {
		r.emit(ProgressEvent{Query: q, Status: ProgressPending})
	}

	for i, q := range queries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r.emit(ProgressEvent{Query: q, Status: ProgressWorking})

			matches, err := r.resolve(q)
			if err != nil {
				records[i] = Record{Query: q, Error: err.Error()}
				r.emit(ProgressEvent{Query: q, Status: ProgressFailed, Message: err.Error()})
				return nil
			}
			records[i] = Record{Query: q, Matches: matches}
			r.emit(ProgressEvent{
				Query:   q,
				Status:  ProgressComplete,
				Message: fmt.Sprintf("%d match(es)", len(matches)),
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Report{
		Model:       r.ws.Path,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Records:     records,
		Sources:     r.sources.Snapshot(),
	}, nil
}

func (r *Runner) resolve(query string) ([]Match, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	ids := r.ws.Resolver.Resolve(query)
	matches := make([]Match, 0, len(ids))
	for _, id := range ids {
		n, ok := r.ws.Graph.Node(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", graph.ErrNodeNotFound, id)
		}
		m := Match{ID: n.ID, Name: n.Name, Tag: n.Tag}

		text, err := snippet.Cite(n, r.citeLen)
		if err != nil {
			return nil, fmt.Errorf("cite %s: %w", id, err)
		}
		if text == "" {
			m.Excluded = true
		} else {
			m.Token = snippet.Bracket(r.sources.Register(snippet.ModelSource(n, text)))
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func (r *Runner) emit(ev ProgressEvent) {
	if r.onProgress != nil {
		r.onProgress(ev)
	}
}

// LoadQueries reads a JSON array of query strings.
func LoadQueries(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}
	var queries []string
	if err := json.Unmarshal(data, &queries); err != nil {
		return nil, fmt.Errorf("parse queries %s: %w", path, err)
	}
	return queries, nil
}

// WriteReport writes report into outDir as resolve_results_<timestamp>.json
// and returns the file path.
func WriteReport(report *Report, outDir string, now time.Time) (string, error) {
	name := "resolve_results_" + now.Format(export.TimestampLayout) + ".json"
	path, err := export.ResolveOutputPath(outDir+string(os.PathSeparator), name)
	if err != nil {
		return "", err
	}
	data, err := export.MarshalIndented(report)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
