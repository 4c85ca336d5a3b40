// ABOUTME: Graph output sink interface, node attributes and the DOT writer
// ABOUTME: Renders heap graphs as Graphviz digraph text

// Package dot renders heap graphs in the Graphviz DOT language.
package dot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrNotOpen is returned when writing to a Writer before Open or after Close.
var ErrNotOpen = errors.New("dot writer is not open")

// NodeID names a node in the output graph.
type NodeID string

// RootsID is the synthetic source of every root edge.
const RootsID NodeID = "roots"

// AttrKind selects how a NodeAttr is rendered.
type AttrKind int

const (
	StringAttrKind AttrKind = iota
	NumberAttrKind
	FlagAttrKind
)

// NodeAttr is one piece of rendering metadata attached to a node.
type NodeAttr struct {
	Kind   AttrKind
	Key    string
	Value  string
	Number uint64
}

// StringAttr renders as key="value".
func StringAttr(key, value string) NodeAttr {
	return NodeAttr{Kind: StringAttrKind, Key: key, Value: value}
}

// NumberAttr renders as key=value.
func NumberAttr(key string, value uint64) NodeAttr {
	return NodeAttr{Kind: NumberAttrKind, Key: key, Number: value}
}

// FlagAttr renders as key=yes.
func FlagAttr(key string) NodeAttr {
	return NodeAttr{Kind: FlagAttrKind, Key: key}
}

func (a NodeAttr) String() string {
	key := formatID(NodeID(a.Key))
	switch a.Kind {
	case NumberAttrKind:
		return key + "=" + strconv.FormatUint(a.Number, 10)
	case FlagAttrKind:
		return key + "=yes"
	default:
		return key + "=" + quote(a.Value)
	}
}

// GraphOutput receives nodes and edges as a traversal discovers them.
type GraphOutput interface {
	AddNode(id NodeID, attrs []NodeAttr) error
	AddSlot(src, dst NodeID) error
}

// Writer is a GraphOutput producing DOT text.
//
// The caller must Close a Writer once Open has succeeded, on every path;
// Close writes the closing brace and flushes. Close is idempotent.
type Writer struct {
	w      *bufio.Writer
	name   string
	open   bool
	closed bool
	err    error
}

// NewWriter returns a writer for a graph called name. An empty name means
// "heap".
func NewWriter(w io.Writer, name string) *Writer {
	if name == "" {
		name = "heap"
	}
	return &Writer{w: bufio.NewWriter(w), name: name}
}

// Open writes the graph header.
func (w *Writer) Open() error {
	if w.open || w.closed {
		return fmt.Errorf("open %s: already opened", w.name)
	}
	if _, err := fmt.Fprintf(w.w, "digraph %s {\n", formatID(NodeID(w.name))); err != nil {
		return w.fail(err)
	}
	w.open = true
	return nil
}

// AddNode writes one node declaration.
func (w *Writer) AddNode(id NodeID, attrs []NodeAttr) error {
	if err := w.ready(); err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(formatID(id))
	b.WriteString(" [")
	for i, a := range attrs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(a.String())
	}
	b.WriteString("];\n")
	if _, err := w.w.WriteString(b.String()); err != nil {
		return w.fail(err)
	}
	return nil
}

// AddSlot writes one directed edge.
func (w *Writer) AddSlot(src, dst NodeID) error {
	if err := w.ready(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w.w, "  %s -> %s;\n", formatID(src), formatID(dst)); err != nil {
		return w.fail(err)
	}
	return nil
}

// Close writes the footer and flushes. It returns the first error the writer
// encountered, including errors from earlier writes. Calls after the first
// return nil.
func (w *Writer) Close() error {
	if w.closed || !w.open {
		return nil
	}
	w.closed = true
	w.open = false
	if _, err := w.w.WriteString("}\n"); err != nil {
		w.fail(err)
	}
	if err := w.w.Flush(); err != nil {
		w.fail(err)
	}
	return w.err
}

func (w *Writer) ready() error {
	if !w.open {
		return ErrNotOpen
	}
	return nil
}

// fail remembers the first write error and returns err.
func (w *Writer) fail(err error) error {
	if w.err == nil {
		w.err = err
	}
	return err
}

var keywords = map[string]bool{
	"node": true, "edge": true, "graph": true,
	"digraph": true, "subgraph": true, "strict": true,
}

// formatID leaves plain identifiers bare and quotes everything else.
func formatID(id NodeID) string {
	s := string(id)
	if s == "" || keywords[strings.ToLower(s)] {
		return quote(s)
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return quote(s)
		}
	}
	return s
}

// quote renders s as a DOT double-quoted string. Newlines become label
// breaks and tabs become spaces. Other control characters are dropped.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range strings.ToValidUTF8(s, "\uFFFD") {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteByte(' ')
		case r < 0x20 || r == 0x7f:
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
