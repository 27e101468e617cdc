package export

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dusk-indust/modelgraph/internal/graph"
)

// GenerateMermaid produces a Mermaid graph TD diagram from a graph reader.
// Nodes are grouped by element tag; contains edges become arrows. At most
// maxNodes nodes are drawn, taken breadth-first from the roots; maxNodes <= 0
// draws everything.
func GenerateMermaid(ctx context.Context, reader graph.Reader, maxNodes int) (string, error) {
	nodes, err := reader.QueryNodes(ctx, "", 0)
	if err != nil {
		return "", fmt.Errorf("list nodes: %w", err)
	}

	edges, err := reader.GetAllEdges(ctx)
	if err != nil {
		return "", fmt.Errorf("get edges: %w", err)
	}

	selected := breadthFirst(nodes, edges, maxNodes)

	// Build node -> ID mapping for Mermaid (alphanumeric only).
	nodeIDs := make(map[string]string)
	nextID := 0
	getID := func(key string) string {
		if id, ok := nodeIDs[key]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		nodeIDs[key] = id
		return id
	}

	byTag := make(map[string][]graph.Node)
	for _, n := range selected {
		byTag[n.Tag] = append(byTag[n.Tag], n)
	}
	tags := make([]string, 0, len(byTag))
	for tag := range byTag {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	// Emit one subgraph per element tag.
	for _, tag := range tags {
		sb.WriteString(fmt.Sprintf("  subgraph %s[\"%.40s\"]\n", getID("tag:"+tag), tag))
		for _, n := range byTag[tag] {
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", getID(n.ID), label(n)))
		}
		sb.WriteString("  end\n")
	}

	// Emit contains edges between drawn nodes.
	for _, e := range edges {
		if e.Kind != graph.EdgeKindContains {
			continue
		}
		srcID, srcOK := nodeIDs[e.Source]
		tgtID, tgtOK := nodeIDs[e.Target]
		if !srcOK || !tgtOK {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s --> %s\n", srcID, tgtID))
	}

	return sb.String(), nil
}

// breadthFirst orders nodes level by level from the roots and keeps at most
// limit of them. Nodes unreachable from any root follow in input order.
func breadthFirst(nodes []graph.Node, edges []graph.Edge, limit int) []graph.Node {
	byID := make(map[string]graph.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	children := make(map[string][]string)
	contained := make(map[string]bool)
	for _, e := range edges {
		children[e.Source] = append(children[e.Source], e.Target)
		contained[e.Target] = true
	}

	full := func(out []graph.Node) bool { return limit > 0 && len(out) >= limit }

	var queue []string
	for _, n := range nodes {
		if !contained[n.ID] {
			queue = append(queue, n.ID)
		}
	}

	visited := make(map[string]bool, len(nodes))
	var out []graph.Node
	for len(queue) > 0 && !full(out) {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		out = append(out, byID[id])
		queue = append(queue, children[id]...)
	}
	for _, n := range nodes {
		if full(out) {
			break
		}
		if !visited[n.ID] {
			visited[n.ID] = true
			out = append(out, n)
		}
	}
	return out
}

// label returns the display text for a node: its name, else its tag and id.
func label(n graph.Node) string {
	text := n.Name
	if text == "" {
		text = n.Tag + " " + n.ID
	}
	text = strings.ReplaceAll(text, `"`, "#quot;")
	if r := []rune(text); len(r) > 40 {
		text = string(r[:40])
	}
	return text
}
