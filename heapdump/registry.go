// ABOUTME: Registry for heap snapshot parsers
// ABOUTME: Manages parser plugins and selects the parser for a snapshot

package heapdump

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/prateek/heapwalk/graph"
)

var (
	// ErrNoParser is returned when no parser can handle the snapshot format
	ErrNoParser = errors.New("no parser found for snapshot format")
)

// previewSize is how much of a snapshot parsers see during detection
const previewSize = 4096

type parserRegistry struct {
	mu      sync.RWMutex
	parsers []Parser
}

var registry = &parserRegistry{}

// Register adds a parser. Parsers are tried in registration order
func Register(p Parser) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.parsers = append(registry.parsers, p)
}

// Formats lists the names of the registered parsers
func Formats() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	names := make([]string, len(registry.parsers))
	for i, p := range registry.parsers {
		names[i] = p.Name()
	}
	return names
}

// Open reads a snapshot with the first registered parser that recognises it
func Open(r io.Reader) (graph.Graph, error) {
	preview := make([]byte, previewSize)
	n, err := io.ReadFull(r, preview)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("read snapshot preview: %w", err)
	}
	preview = preview[:n]

	registry.mu.RLock()
	defer registry.mu.RUnlock()

	for _, p := range registry.parsers {
		if !p.CanParse(bytes.NewReader(preview)) {
			continue
		}
		g, err := p.Parse(io.MultiReader(bytes.NewReader(preview), r))
		if err != nil {
			return nil, fmt.Errorf("parse %s snapshot: %w", p.Name(), err)
		}
		slog.Default().Debug("loaded heap snapshot",
			slog.String("format", p.Name()),
			slog.Int("objects", g.NumObjects()))
		return g, nil
	}
	return nil, ErrNoParser
}

// OpenFile reads the snapshot stored at path
func OpenFile(path string) (graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := Open(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
