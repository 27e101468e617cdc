package snippet

import (
	"sync"

	"github.com/dusk-indust/modelgraph/internal/graph"
)

// SourceKindModel marks a source cut from the model file.
const SourceKindModel = "model"

// Source is the record a citation token stands for.
type Source struct {
	Kind    string `json:"kind"`
	ID      string `json:"id"`
	Tag     string `json:"tag_name"`
	Name    string `json:"name"`
	Snippet string `json:"snippet"`
}

// ModelSource builds the Source record for a cited node.
func ModelSource(n graph.Node, snippet string) Source {
	return Source{
		Kind:    SourceKindModel,
		ID:      n.ID,
		Tag:     n.Tag,
		Name:    n.Name,
		Snippet: snippet,
	}
}

// Citation pairs a token found in text with its source. Source is nil when
// the token was never registered.
type Citation struct {
	Token  string  `json:"token"`
	Source *Source `json:"source,omitempty"`
}

// SourceMap assigns citation tokens to sources. It is safe for concurrent use.
type SourceMap struct {
	mu      sync.RWMutex
	entries map[string]Source
	order   []string
}

// NewSourceMap returns an empty SourceMap.
func NewSourceMap() *SourceMap {
	return &SourceMap{entries: make(map[string]Source)}
}

// Register stores src under a fresh token and returns the bare token.
func (m *SourceMap) Register(src Source) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for {
		tok := NewToken()
		if _, taken := m.entries[tok]; taken {
			continue
		}
		m.entries[tok] = src
		m.order = append(m.order, tok)
		return tok
	}
}

// Lookup returns the source for a bare or bracketed token, in any case.
func (m *SourceMap) Lookup(token string) (Source, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src, ok := m.entries[NormalizeToken(token)]
	return src, ok
}

// ResolveText extracts every citation token in text and resolves it.
func (m *SourceMap) ResolveText(text string) []Citation {
	tokens := ExtractTokens(text)
	out := make([]Citation, 0, len(tokens))
	for _, tok := range tokens {
		c := Citation{Token: tok}
		if src, ok := m.Lookup(tok); ok {
			c.Source = &src
		}
		out = append(out, c)
	}
	return out
}

// Len returns the number of registered sources.
func (m *SourceMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}

// Tokens returns the registered bare tokens in registration order.
func (m *SourceMap) Tokens() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Snapshot returns a copy of all entries keyed by bare token.
func (m *SourceMap) Snapshot() map[string]Source {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]Source, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}
