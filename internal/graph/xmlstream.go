package graph

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
)

// Element is a fully parsed start tag handed out when its end tag is read.
// Only the chain of still-open ancestors is reachable through Parent; the
// reader keeps no reference to elements it has already returned.
type Element struct {
	Name   xml.Name
	Attrs  []xml.Attr
	Line   int // 1-based line of the opening '<'
	Depth  int // 0 for the document element
	Parent *Element
}

// Attr returns the value of the attribute with the given namespace URI and
// local name, or "" when absent.
func (e *Element) Attr(space, local string) string {
	for _, a := range e.Attrs {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// ParseError reports malformed XML. It aborts the whole build.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ElementReader yields the elements of an XML document in end-tag order.
// It is single pass: once Next returns io.EOF or an error, it keeps doing so.
type ElementReader struct {
	dec    *xml.Decoder
	path   string
	closer io.Closer
	stack  []*Element
	err    error

	seenRoot bool
}

var (
	errNoRoot        = errors.New("no root element")
	errSecondRoot    = errors.New("more than one root element")
	errTextOutside   = errors.New("text outside the root element")
	errUnexpectedEnd = errors.New("unexpected end element")
)

// OpenElements opens the file at path for streaming. Callers must Close the
// reader, including when they stop before the end of the document.
func OpenElements(path string) (*ElementReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	r := NewElementReader(bufio.NewReader(f), path)
	r.closer = f
	return r, nil
}

// NewElementReader streams elements from r. path is only used in errors.
func NewElementReader(r io.Reader, path string) *ElementReader {
	return &ElementReader{
		dec:  xml.NewDecoder(r),
		path: path,
	}
}

// Next returns the next completed element, or io.EOF after the last one.
func (r *ElementReader) Next() (*Element, error) {
	if r.err != nil {
		return nil, r.err
	}
	for {
		// Character data between tags is its own token, so the decoder sits
		// on the '<' of the next tag here.
		line, _ := r.dec.InputPos()

		tok, err := r.dec.Token()
		if err != nil {
			r.err = r.wrap(err)
			return nil, r.err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(r.stack) == 0 {
				if r.seenRoot {
					return nil, r.fail(line, errSecondRoot)
				}
				r.seenRoot = true
			}
			t = t.Copy()
			el := &Element{
				Name:  t.Name,
				Attrs: t.Attr,
				Line:  line,
				Depth: len(r.stack),
			}
			if len(r.stack) > 0 {
				el.Parent = r.stack[len(r.stack)-1]
			}
			r.stack = append(r.stack, el)

		case xml.EndElement:
			n := len(r.stack) - 1
			if n < 0 {
				return nil, r.fail(line, errUnexpectedEnd)
			}
			el := r.stack[n]
			r.stack[n] = nil
			r.stack = r.stack[:n]
			return el, nil

		case xml.CharData:
			if len(r.stack) == 0 && len(bytes.Trim(t, " \t\r\n\ufeff")) > 0 {
				return nil, r.fail(line, errTextOutside)
			}
		}
	}
}

func (r *ElementReader) fail(line int, err error) error {
	r.err = &ParseError{Path: r.path, Line: line, Err: err}
	return r.err
}

func (r *ElementReader) wrap(err error) error {
	if errors.Is(err, io.EOF) {
		switch {
		case !r.seenRoot:
			err = errNoRoot
		case len(r.stack) == 0:
			return io.EOF
		default:
			err = io.ErrUnexpectedEOF
		}
	}
	line, _ := r.dec.InputPos()
	var syn *xml.SyntaxError
	if errors.As(err, &syn) {
		line = syn.Line
	}
	return &ParseError{Path: r.path, Line: line, Err: err}
}

// Close releases the underlying file, if any.
func (r *ElementReader) Close() error {
	r.stack = nil
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}
