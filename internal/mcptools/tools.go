package mcptools

import (
	"github.com/dusk-indust/modelgraph/internal/graph"
	"github.com/dusk-indust/modelgraph/internal/snippet"
)

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// GraphStatsInput is the input for the graph_stats MCP tool.
type GraphStatsInput struct{}

// GraphStatsOutput is the result of the graph_stats MCP tool.
type GraphStatsOutput struct {
	File    string           `json:"file"`
	Stats   graph.GraphStats `json:"stats"`
	Names   int              `json:"names"`
	BuiltAt string           `json:"builtAt"`
}

// ResolveEntityInput is the input for the resolve_entity MCP tool.
type ResolveEntityInput struct {
	Entity  string `json:"entity" jsonschema:"free-text element name as written by the user"`
	NoFuzzy bool   `json:"noFuzzy,omitempty" jsonschema:"only accept exact case-insensitive name matches"`
}

// ResolveEntityOutput is the result of the resolve_entity MCP tool.
type ResolveEntityOutput struct {
	Entity string       `json:"entity"`
	IDs    []string     `json:"ids"`
	Nodes  []graph.Node `json:"nodes"`
}

// FuzzyCandidatesInput is the input for the fuzzy_candidates MCP tool.
type FuzzyCandidatesInput struct {
	Query  string  `json:"query" jsonschema:"text to score against every element name"`
	Cutoff float64 `json:"cutoff,omitempty" jsonschema:"minimum score 0-100 (default: configured cutoff)"`
	Limit  int     `json:"limit,omitempty" jsonschema:"maximum number of candidates (default: configured limit)"`
}

// FuzzyCandidatesOutput is the result of the fuzzy_candidates MCP tool.
type FuzzyCandidatesOutput struct {
	Candidates []graph.Candidate `json:"candidates"`
}

// SliceNodeInput is the input for the slice_node MCP tool.
type SliceNodeInput struct {
	ID           string `json:"id" jsonschema:"element id"`
	ContextLines int    `json:"contextLines,omitempty" jsonschema:"lines of context before the element (default: 0)"`
}

// SliceNodeOutput is the result of the slice_node MCP tool.
type SliceNodeOutput struct {
	ID      string `json:"id"`
	Snippet string `json:"snippet"`
}

// CiteNodeInput is the input for the cite_node MCP tool.
type CiteNodeInput struct {
	ID     string `json:"id" jsonschema:"element id"`
	MaxLen int    `json:"maxLen,omitempty" jsonschema:"maximum citation length in characters, at least 1 (default: configured length)"`
}

// CiteNodeOutput is the result of the cite_node MCP tool.
type CiteNodeOutput struct {
	ID       string `json:"id"`
	Token    string `json:"token,omitempty"`
	Citation string `json:"citation"`
	Excluded bool   `json:"excluded"`
}

// ResolveCitationsInput is the input for the resolve_citations MCP tool.
type ResolveCitationsInput struct {
	Text string `json:"text" jsonschema:"generated text containing [Sxxxxxx] citation tokens"`
}

// ResolveCitationsOutput is the result of the resolve_citations MCP tool.
type ResolveCitationsOutput struct {
	Citations []snippet.Citation `json:"citations"`
	Unknown   []string           `json:"unknown"`
}

// GetContainmentInput is the input for the get_containment MCP tool.
type GetContainmentInput struct {
	NodeID    string `json:"nodeId" jsonschema:"element id to start from"`
	Direction string `json:"direction,omitempty" jsonschema:"down (contained elements) or up (containers). Default: down"`
	MaxDepth  int    `json:"maxDepth,omitempty" jsonschema:"maximum traversal depth (default: 5)"`
}

// GetContainmentOutput is the result of the get_containment MCP tool.
type GetContainmentOutput struct {
	Chains []graph.ContainmentChain `json:"chains"`
}

// QueryNodesInput is the input for the query_nodes MCP tool.
type QueryNodesInput struct {
	Query string `json:"query" jsonschema:"substring of element names (case-insensitive)"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results (default: 20)"`
}

// QueryNodesOutput is the result of the query_nodes MCP tool.
type QueryNodesOutput struct {
	Nodes []graph.Node `json:"nodes"`
	Total int          `json:"total"`
}
