package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewModelMCPServer creates an MCP server with the model graph tools registered.
func NewModelMCPServer(svc *ModelService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "modelgraph",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "graph_stats",
		Description: "Summarize the loaded model: node, edge, root and unnamed counts, skipped elements without identity, duplicate identities and nesting depth.",
	}, svc.GraphStats)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_entity",
		Description: "Resolve a free-text element name to element ids. Exact case-insensitive name matches win; otherwise token-set fuzzy matching above the configured cutoff is used.",
	}, svc.ResolveEntity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fuzzy_candidates",
		Description: "Score a query against every element name with token-set similarity (0-100) and return the best candidates with their scores.",
	}, svc.FuzzyCandidates)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "slice_node",
		Description: "Return the raw XML source of an element, cut from the model file by its recorded line.",
	}, svc.SliceNode)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "cite_node",
		Description: "Return a single-line, truncated rendering of an element's XML and a [Sxxxxxx] citation token for it. Diagram and layout elements are excluded and get no token.",
	}, svc.CiteNode)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_citations",
		Description: "Find every [Sxxxxxx] citation token in a text and return the element source each one stands for.",
	}, svc.ResolveCitations)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_containment",
		Description: "Walk the containment hierarchy down (contained elements) or up (containers) from an element. Returns one chain per reachable element.",
	}, svc.GetContainment)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_nodes",
		Description: "Search elements by case-insensitive name substring.",
	}, svc.QueryNodes)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin is
// closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
