package mcptools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/modelgraph/internal/graph"
	"github.com/dusk-indust/modelgraph/internal/snippet"
	"github.com/dusk-indust/modelgraph/internal/workspace"
)

const (
	defaultQueryLimit = 20
	defaultMaxDepth   = 5
)

// ModelService holds the workspace and citation map used by MCP tool handlers.
type ModelService struct {
	holder  *workspace.Holder
	sources *snippet.SourceMap
	citeLen int
}

// NewModelService creates a ModelService reading from holder. Tokens minted by
// cite_node are registered in sources so resolve_citations can find them.
// A citeLen of zero or less uses snippet.DefaultCiteLen.
func NewModelService(holder *workspace.Holder, sources *snippet.SourceMap, citeLen int) *ModelService {
	if sources == nil {
		sources = snippet.NewSourceMap()
	}
	if citeLen <= 0 {
		citeLen = snippet.DefaultCiteLen
	}
	return &ModelService{holder: holder, sources: sources, citeLen: citeLen}
}

// GraphStats summarizes the current workspace.
func (s *ModelService) GraphStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ GraphStatsInput,
) (*mcp.CallToolResult, GraphStatsOutput, error) {
	ws := s.holder.Current()
	stats, err := ws.Graph.Stats(ctx)
	if err != nil {
		return nil, GraphStatsOutput{}, fmt.Errorf("stats: %w", err)
	}
	return nil, GraphStatsOutput{
		File:    ws.Path,
		Stats:   *stats,
		Names:   ws.Index.Len(),
		BuiltAt: ws.BuiltAt.UTC().Format(time.RFC3339),
	}, nil
}

// ResolveEntity maps a free-text name to element ids.
func (s *ModelService) ResolveEntity(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ResolveEntityInput,
) (*mcp.CallToolResult, ResolveEntityOutput, error) {
	if strings.TrimSpace(input.Entity) == "" {
		return nil, ResolveEntityOutput{}, fmt.Errorf("entity is required")
	}

	ws := s.holder.Current()
	resolver := ws.Resolver
	if input.NoFuzzy {
		opts := resolver.Options()
		opts.Fuzzy = false
		resolver = graph.NewResolver(ws.Index, opts)
	}

	ids := resolver.Resolve(input.Entity)
	nodes := make([]graph.Node, 0, len(ids))
	for _, id := range ids {
		if n, ok := ws.Graph.Node(id); ok {
			nodes = append(nodes, n)
		}
	}
	return nil, ResolveEntityOutput{Entity: input.Entity, IDs: ids, Nodes: nodes}, nil
}

// FuzzyCandidates scores a query against every element name.
func (s *ModelService) FuzzyCandidates(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input FuzzyCandidatesInput,
) (*mcp.CallToolResult, FuzzyCandidatesOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, FuzzyCandidatesOutput{}, fmt.Errorf("query is required")
	}
	if input.Cutoff < 0 || input.Cutoff > 100 {
		return nil, FuzzyCandidatesOutput{}, fmt.Errorf("cutoff must be between 0 and 100")
	}

	ws := s.holder.Current()
	opts := ws.Resolver.Options()
	if input.Cutoff > 0 {
		opts.Cutoff = input.Cutoff
	}
	if input.Limit > 0 {
		opts.Limit = input.Limit
	}

	candidates := graph.NewResolver(ws.Index, opts).Candidates(input.Query)
	if candidates == nil {
		candidates = []graph.Candidate{}
	}
	return nil, FuzzyCandidatesOutput{Candidates: candidates}, nil
}

// SliceNode returns the raw XML of one element.
func (s *ModelService) SliceNode(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SliceNodeInput,
) (*mcp.CallToolResult, SliceNodeOutput, error) {
	if input.ID == "" {
		return nil, SliceNodeOutput{}, fmt.Errorf("id is required")
	}
	if input.ContextLines < 0 {
		return nil, SliceNodeOutput{}, fmt.Errorf("contextLines must not be negative")
	}

	text, err := s.holder.Current().Slicer.SliceID(input.ID, input.ContextLines)
	if err != nil {
		return nil, SliceNodeOutput{}, err
	}
	return nil, SliceNodeOutput{ID: input.ID, Snippet: text}, nil
}

// CiteNode renders one element as a citation and registers a token for it.
func (s *ModelService) CiteNode(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input CiteNodeInput,
) (*mcp.CallToolResult, CiteNodeOutput, error) {
	if input.ID == "" {
		return nil, CiteNodeOutput{}, fmt.Errorf("id is required")
	}

	maxLen := s.citeLen
	if input.MaxLen != 0 {
		maxLen = input.MaxLen
	}

	ws := s.holder.Current()
	n, ok := ws.Graph.Node(input.ID)
	if !ok {
		return nil, CiteNodeOutput{}, fmt.Errorf("%w: %s", graph.ErrNodeNotFound, input.ID)
	}
	text, err := snippet.Cite(n, maxLen)
	if err != nil {
		return nil, CiteNodeOutput{}, err
	}

	out := CiteNodeOutput{ID: n.ID, Citation: text}
	if text == "" {
		out.Excluded = true
		return nil, out, nil
	}
	out.Token = snippet.Bracket(s.sources.Register(snippet.ModelSource(n, text)))
	return nil, out, nil
}

// ResolveCitations maps the citation tokens in a text back to their sources.
func (s *ModelService) ResolveCitations(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ResolveCitationsInput,
) (*mcp.CallToolResult, ResolveCitationsOutput, error) {
	citations := s.sources.ResolveText(input.Text)
	unknown := []string{}
	for _, c := range citations {
		if c.Source == nil {
			unknown = append(unknown, c.Token)
		}
	}
	return nil, ResolveCitationsOutput{Citations: citations, Unknown: unknown}, nil
}

// GetContainment walks the containment hierarchy from an element.
func (s *ModelService) GetContainment(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetContainmentInput,
) (*mcp.CallToolResult, GetContainmentOutput, error) {
	if input.NodeID == "" {
		return nil, GetContainmentOutput{}, fmt.Errorf("nodeId is required")
	}

	ws := s.holder.Current()
	if _, ok := ws.Graph.Node(input.NodeID); !ok {
		return nil, GetContainmentOutput{}, fmt.Errorf("%w: %s", graph.ErrNodeNotFound, input.NodeID)
	}

	maxDepth := input.MaxDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	chains, err := ws.Graph.GetContainment(ctx, input.NodeID, graph.ParseDirection(input.Direction), maxDepth)
	if err != nil {
		return nil, GetContainmentOutput{}, fmt.Errorf("get containment: %w", err)
	}
	if chains == nil {
		chains = []graph.ContainmentChain{}
	}
	return nil, GetContainmentOutput{Chains: chains}, nil
}

// QueryNodes searches elements by name substring.
func (s *ModelService) QueryNodes(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryNodesInput,
) (*mcp.CallToolResult, QueryNodesOutput, error) {
	if input.Query == "" {
		return nil, QueryNodesOutput{}, fmt.Errorf("query is required")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	nodes, err := s.holder.Current().Graph.QueryNodes(ctx, input.Query, limit)
	if err != nil {
		return nil, QueryNodesOutput{}, fmt.Errorf("query nodes: %w", err)
	}
	if nodes == nil {
		nodes = []graph.Node{}
	}
	return nil, QueryNodesOutput{Nodes: nodes, Total: len(nodes)}, nil
}
