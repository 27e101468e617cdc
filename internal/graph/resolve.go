package graph

import (
	"sort"
	"strings"
)

// NameIndex maps lowercase node names to the ids carrying that name. It is
// derived from one finalized Graph and never updated; build a new index for
// a new graph.
type NameIndex struct {
	ids     map[string][]string
	choices []Choice
}

// Choice is one fuzzy-matching candidate: a node id and its raw name.
type Choice struct {
	ID   string
	Name string
}

// NewNameIndex builds the index in a single pass over g's nodes. Ids under
// one key keep the graph's visitation order.
func NewNameIndex(g *Graph) *NameIndex {
	ix := &NameIndex{
		ids:     make(map[string][]string),
		choices: make([]Choice, 0, g.Len()),
	}
	for _, n := range g.Nodes() {
		key := strings.ToLower(n.Name)
		ix.ids[key] = append(ix.ids[key], n.ID)
		ix.choices = append(ix.choices, Choice{ID: n.ID, Name: n.Name})
	}
	return ix
}

// Lookup returns the ids whose lowercased name equals strings.ToLower(name).
func (ix *NameIndex) Lookup(name string) []string {
	return cloneStrings(ix.ids[strings.ToLower(name)])
}

// Has reports whether name (case-insensitive) is an exact key.
func (ix *NameIndex) Has(name string) bool {
	_, ok := ix.ids[strings.ToLower(name)]
	return ok
}

// Len returns the number of distinct keys.
func (ix *NameIndex) Len() int { return len(ix.ids) }

// Keys returns every distinct lowercase name, sorted.
func (ix *NameIndex) Keys() []string {
	out := make([]string, 0, len(ix.ids))
	for k := range ix.ids {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Choices returns every node as a fuzzy-matching candidate, in node order.
func (ix *NameIndex) Choices() []Choice {
	out := make([]Choice, len(ix.choices))
	copy(out, ix.choices)
	return out
}

// ResolverOptions tunes entity resolution.
type ResolverOptions struct {
	Fuzzy  bool    // fall back to fuzzy matching on an exact miss
	Cutoff float64 // minimum TokenSetRatio score kept, 0..100
	Limit  int     // maximum fuzzy candidates returned
}

// DefaultResolverOptions returns fuzzy matching with cutoff 80 and limit 5.
func DefaultResolverOptions() ResolverOptions {
	return ResolverOptions{Fuzzy: true, Cutoff: 80, Limit: 5}
}

// Candidate is a scored fuzzy match.
type Candidate struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Resolver turns free-text entity mentions into node ids.
type Resolver struct {
	index *NameIndex
	opts  ResolverOptions
}

// NewResolver creates a Resolver over index. A non-positive Limit falls back
// to the default of 5.
func NewResolver(index *NameIndex, opts ResolverOptions) *Resolver {
	if opts.Limit <= 0 {
		opts.Limit = DefaultResolverOptions().Limit
	}
	return &Resolver{index: index, opts: opts}
}

// Options returns the options the resolver was built with.
func (r *Resolver) Options() ResolverOptions { return r.opts }

// Resolve returns the ids for entity. An exact case-insensitive name match
// short-circuits fuzzy matching. A miss yields an empty, non-nil slice.
func (r *Resolver) Resolve(entity string) []string {
	if ids := r.index.Lookup(entity); ids != nil {
		return ids
	}
	if !r.opts.Fuzzy {
		return []string{}
	}
	candidates := r.Candidates(entity)
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.ID)
	}
	return out
}

// Candidates scores query against every node name and returns the matches at
// or above the cutoff, best first, capped at the limit. Equal scores keep
// node order.
func (r *Resolver) Candidates(query string) []Candidate {
	var out []Candidate
	for _, c := range r.index.choices {
		score := TokenSetRatio(query, c.Name)
		if score >= r.opts.Cutoff {
			out = append(out, Candidate{ID: c.ID, Name: c.Name, Score: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > r.opts.Limit {
		out = out[:r.opts.Limit]
	}
	return out
}
