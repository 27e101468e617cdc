package graph

// --- Enums ---

// EdgeKind classifies relationships between nodes.
type EdgeKind string

// EdgeKindContains is the only relationship the builder records: the source
// element directly encloses the target element in the model document.
const EdgeKindContains EdgeKind = "contains"

// XMINamespace is the namespace URI of the XMI identity attribute.
const XMINamespace = "http://www.omg.org/XMI"

// --- Models ---

// Node is one identified element of the model document.
type Node struct {
	ID          string `json:"id"`
	Tag         string `json:"tag"`
	Name        string `json:"name"`
	File        string `json:"file"`
	Line        int    `json:"line"`
	Description string `json:"description"`
}

// Edge represents a relationship between two nodes.
type Edge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Kind   EdgeKind `json:"type"`
}

// GraphStats summarizes a containment graph.
type GraphStats struct {
	NodeCount      int `json:"nodeCount"`
	EdgeCount      int `json:"edgeCount"`
	RootCount      int `json:"rootCount"`
	UnnamedCount   int `json:"unnamedCount"`
	SkippedCount   int `json:"skippedCount"`   // elements without identity
	DuplicateCount int `json:"duplicateCount"` // identities seen more than once
	MaxDepth       int `json:"maxDepth"`
}

// ContainmentChain is an ordered path through the containment hierarchy.
type ContainmentChain struct {
	Nodes []string `json:"nodes"` // node IDs in order
	Depth int      `json:"depth"`
}
