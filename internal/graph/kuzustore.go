//go:build cgo

package graph

import (
	"context"
	"fmt"
	"sync/atomic"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore mirrors a containment graph into an in-memory KuzuDB instance so
// it can be queried with Cypher. It requires CGO because the go-kuzu driver
// wraps KuzuDB's C library. Nothing is written to disk.
//
// Each node is stamped with an insertion sequence number so that reads
// return nodes in the order they were added, matching Graph.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection
	seq  atomic.Int64
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(":memory:", cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ---------- Schema setup ----------

// ddlStatements defines the Cypher DDL executed by InitSchema.
// Order matters: node tables must precede relationship tables.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS ModelNode(
		id STRING,
		tag STRING,
		name STRING,
		file STRING,
		line INT64,
		description STRING,
		seq INT64,
		PRIMARY KEY(id)
	)`,
	`CREATE REL TABLE IF NOT EXISTS CONTAINS(FROM ModelNode TO ModelNode)`,
}

// InitSchema creates the node and relationship tables if they do not exist.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// ---------- Write operations ----------

// AddNode inserts a ModelNode after all previously added ones.
func (s *KuzuStore) AddNode(_ context.Context, node Node) error {
	return s.exec(
		`CREATE (n:ModelNode {
			id: $id,
			tag: $tag,
			name: $name,
			file: $file,
			line: $line,
			description: $desc,
			seq: $seq
		})`,
		map[string]any{
			"id":   node.ID,
			"tag":  node.Tag,
			"name": node.Name,
			"file": node.File,
			"line": int64(node.Line),
			"desc": node.Description,
			"seq":  s.seq.Add(1),
		},
	)
}

// AddEdge inserts a CONTAINS relationship between two existing nodes.
func (s *KuzuStore) AddEdge(_ context.Context, edge Edge) error {
	if edge.Kind != EdgeKindContains {
		return fmt.Errorf("kuzu: unsupported edge kind: %s", edge.Kind)
	}
	return s.exec(
		`MATCH (a:ModelNode {id: $src}), (b:ModelNode {id: $dst})
		 CREATE (a)-[:CONTAINS]->(b)`,
		map[string]any{
			"src": edge.Source,
			"dst": edge.Target,
		},
	)
}

// ---------- Read operations ----------

const nodeColumns = "n.id, n.tag, n.name, n.file, n.line, n.description"

// GetNode retrieves a single node by id, or returns nil if not found.
func (s *KuzuStore) GetNode(_ context.Context, id string) (*Node, error) {
	rows, err := s.query(
		"MATCH (n:ModelNode {id: $id}) RETURN "+nodeColumns,
		map[string]any{"id": id},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rowToNode(rows[0]), nil
}

// QueryNodes returns nodes whose lowercased name contains the lowercased
// query, in insertion order, up to limit results.
func (s *KuzuStore) QueryNodes(_ context.Context, queryStr string, limit int) ([]Node, error) {
	cypher := "MATCH (n:ModelNode) WHERE lower(n.name) CONTAINS lower($q) RETURN " + nodeColumns +
		" ORDER BY n.seq"
	params := map[string]any{"q": queryStr}
	if limit > 0 {
		cypher += " LIMIT $lim"
		params["lim"] = int64(limit)
	}
	rows, err := s.query(cypher, params)
	if err != nil {
		return nil, err
	}
	out := make([]Node, 0, len(rows))
	for _, r := range rows {
		out = append(out, *rowToNode(r))
	}
	return out, nil
}

// ---------- Graph traversal ----------

// GetContainment performs a BFS over CONTAINS edges starting from id.
// It returns one ContainmentChain per reachable node.
func (s *KuzuStore) GetContainment(_ context.Context, id string, dir Direction, maxDepth int) ([]ContainmentChain, error) {
	if maxDepth <= 0 {
		return nil, nil
	}

	type bfsEntry struct {
		path  []string
		depth int
	}
	visited := map[string]bool{id: true}
	queue := []bfsEntry{{path: []string{id}, depth: 0}}
	var chains []ContainmentChain

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}
		tip := cur.path[len(cur.path)-1]
		neighbors, err := s.neighbors(tip, dir)
		if err != nil {
			return nil, err
		}
		for _, nb := range neighbors {
			if visited[nb] {
				continue
			}
			visited[nb] = true
			newPath := make([]string, len(cur.path)+1)
			copy(newPath, cur.path)
			newPath[len(cur.path)] = nb
			chains = append(chains, ContainmentChain{
				Nodes: newPath,
				Depth: cur.depth + 1,
			})
			queue = append(queue, bfsEntry{path: newPath, depth: cur.depth + 1})
		}
	}
	return chains, nil
}

// neighbors returns immediate neighbors along CONTAINS edges.
func (s *KuzuStore) neighbors(id string, dir Direction) ([]string, error) {
	var cypher string
	switch dir {
	case DirectionDown:
		cypher = "MATCH (a:ModelNode {id: $id})-[:CONTAINS]->(b:ModelNode) RETURN b.id"
	case DirectionUp:
		cypher = "MATCH (a:ModelNode)-[:CONTAINS]->(b:ModelNode {id: $id}) RETURN a.id"
	default:
		return nil, fmt.Errorf("kuzu: unknown direction: %s", dir)
	}
	rows, err := s.query(cypher, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, toString(r[0]))
	}
	return out, nil
}

// GetAllEdges returns every CONTAINS relationship.
func (s *KuzuStore) GetAllEdges(_ context.Context) ([]Edge, error) {
	rows, err := s.query("MATCH (a:ModelNode)-[:CONTAINS]->(b:ModelNode) RETURN a.id, b.id", nil)
	if err != nil {
		return nil, err
	}
	edges := make([]Edge, 0, len(rows))
	for _, r := range rows {
		edges = append(edges, Edge{
			Source: toString(r[0]),
			Target: toString(r[1]),
			Kind:   EdgeKindContains,
		})
	}
	return edges, nil
}

// ---------- Stats ----------

// Stats returns node, edge and unnamed-node counts. Build-time counters
// (skipped elements, duplicates, depth) are not mirrored.
func (s *KuzuStore) Stats(_ context.Context) (*GraphStats, error) {
	nodes, err := s.count("MATCH (n:ModelNode) RETURN count(n)")
	if err != nil {
		return nil, err
	}
	edges, err := s.count("MATCH ()-[r:CONTAINS]->() RETURN count(r)")
	if err != nil {
		return nil, err
	}
	unnamed, err := s.count("MATCH (n:ModelNode) WHERE n.name = '' RETURN count(n)")
	if err != nil {
		return nil, err
	}
	return &GraphStats{
		NodeCount:    nodes,
		EdgeCount:    edges,
		UnnamedCount: unnamed,
	}, nil
}

// ---------- Internal helpers ----------

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows.
// Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// count runs a single-value count query.
func (s *KuzuStore) count(cypher string) (int, error) {
	rows, err := s.query(cypher, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

// rowToNode converts a 6-column result row into a Node.
// Column order: id, tag, name, file, line, description.
func rowToNode(r []any) *Node {
	return &Node{
		ID:          toString(r[0]),
		Tag:         toString(r[1]),
		Name:        toString(r[2]),
		File:        toString(r[3]),
		Line:        toInt(r[4]),
		Description: toString(r[5]),
	}
}

// ---------- Type coercion helpers ----------
// KuzuDB returns typed Go values (int64, float64, bool, string).

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
