// Package snippet cuts the source text of model elements back out of the
// model file and prepares it for citation.
package snippet

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dusk-indust/modelgraph/internal/graph"
)

// DefaultCiteLen is the citation length callers fall back to when none is
// configured. Cite itself never substitutes it.
const DefaultCiteLen = 600

// Ellipsis is appended to truncated citations.
const Ellipsis = "…"

// ErrLineOutOfRange is returned when a node's recorded line is not in its file.
var ErrLineOutOfRange = errors.New("line out of range")

// ErrInvalidMaxLen is returned for a citation length below one.
var ErrInvalidMaxLen = errors.New("citation length must be positive")

// layoutMarkers identify diagram and layout metadata that is never cited.
var layoutMarkers = []string{"ownedDiagrams", "layoutData", "filters"}

// Slice returns the source lines of n, from contextLines before its opening
// line to the first line where the tag's open/close balance drops to zero.
//
// The balance counts literal "<tag" and "</tag>" occurrences per line and is
// only tested on lines holding a "</tag>". A self-closing element spanning
// several sibling lines therefore runs on until a matching close tag or the
// end of the file, and so does a prefixed element such as <ns:tag>, whose
// opening and closing tags never match the unprefixed patterns.
func Slice(n graph.Node, contextLines int) (string, error) {
	lines, err := readLines(n.File)
	if err != nil {
		return "", err
	}
	if n.Line < 1 || n.Line > len(lines) {
		return "", fmt.Errorf("%w: %s:%d (file has %d lines)", ErrLineOutOfRange, n.File, n.Line, len(lines))
	}

	start := max(n.Line-1-max(contextLines, 0), 0)
	end := spanEnd(lines, n.Line-1, n.Tag)
	return strings.Join(lines[start:end+1], "\n"), nil
}

// spanEnd returns the index of the line closing the element opened at first.
func spanEnd(lines []string, first int, tag string) int {
	openTag, closeTag := "<"+tag, "</"+tag+">"
	balance := 0
	for i := first; i < len(lines); i++ {
		balance += strings.Count(lines[i], openTag)
		closes := strings.Count(lines[i], closeTag)
		if closes == 0 {
			continue
		}
		balance -= closes
		if balance <= 0 {
			return i
		}
	}
	return len(lines) - 1
}

// Cite returns a single-line rendering of n's source for prompt citation:
// whitespace collapsed, truncated to maxLen characters plus Ellipsis. Layout
// elements yield "" with a nil error. maxLen must be at least 1; anything
// lower fails with ErrInvalidMaxLen before the file is read.
func Cite(n graph.Node, maxLen int) (string, error) {
	if maxLen < 1 {
		return "", fmt.Errorf("%w: %d", ErrInvalidMaxLen, maxLen)
	}
	raw, err := Slice(n, 0)
	if err != nil {
		return "", err
	}
	return Minify(raw, maxLen)
}

// Minify applies the citation pass to an already sliced text. It rejects
// maxLen below 1 the same way Cite does.
func Minify(raw string, maxLen int) (string, error) {
	if maxLen < 1 {
		return "", fmt.Errorf("%w: %d", ErrInvalidMaxLen, maxLen)
	}
	if IsLayout(raw) {
		return "", nil
	}
	text := strings.Join(strings.Fields(raw), " ")
	if utf8.RuneCountInString(text) <= maxLen {
		return text, nil
	}
	runes := []rune(text)
	return string(runes[:maxLen]) + Ellipsis, nil
}

// IsLayout reports whether text contains diagram or layout metadata.
func IsLayout(text string) bool {
	for _, m := range layoutMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

// NodeLookup finds nodes by id. *graph.Graph implements it.
type NodeLookup interface {
	Node(id string) (graph.Node, bool)
}

// Slicer slices nodes addressed by id.
type Slicer struct {
	nodes NodeLookup
}

// NewSlicer returns a Slicer over nodes.
func NewSlicer(nodes NodeLookup) *Slicer {
	return &Slicer{nodes: nodes}
}

// SliceID slices the node with the given id.
func (s *Slicer) SliceID(id string, contextLines int) (string, error) {
	n, err := s.lookup(id)
	if err != nil {
		return "", err
	}
	return Slice(n, contextLines)
}

// CiteID renders the node with the given id for citation.
func (s *Slicer) CiteID(id string, maxLen int) (string, error) {
	n, err := s.lookup(id)
	if err != nil {
		return "", err
	}
	return Cite(n, maxLen)
}

func (s *Slicer) lookup(id string) (graph.Node, error) {
	n, ok := s.nodes.Node(id)
	if !ok {
		return graph.Node{}, fmt.Errorf("%w: %s", graph.ErrNodeNotFound, id)
	}
	return n, nil
}
