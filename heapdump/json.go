// ABOUTME: JSON heap snapshot parser
// ABOUTME: Reads objects, ordinary roots and pinned roots from a JSON document

package heapdump

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/prateek/heapwalk/graph"
)

// JSONParser reads snapshots of the form
//
//	{"objects": [{"id": 4096, "type": "T", "size": 16, "ptrs": [8192, 0]}],
//	 "roots": [4096], "pinned": [8192]}
//
// A zero entry in ptrs is a null field, a zero root is an empty root slot.
type JSONParser struct{}

type jsonSnapshot struct {
	Objects []jsonObject  `json:"objects"`
	Roots   []graph.ObjID `json:"roots"`
	Pinned  []graph.ObjID `json:"pinned"`
}

type jsonObject struct {
	ID   graph.ObjID   `json:"id"`
	Type string        `json:"type"`
	Size uint64        `json:"size"`
	Ptrs []graph.ObjID `json:"ptrs"`
}

func (p *JSONParser) Name() string {
	return "json"
}

// CanParse looks for a leading JSON object with an "objects" key. Keys may
// come in any order and the preview may cut the document short, so an object
// whose keys run past the end of the preview is accepted too.
func (p *JSONParser) CanParse(r io.Reader) bool {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return false
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return false
	}
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return previewExhausted(err)
		}
		if key == "objects" {
			return true
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return previewExhausted(err)
		}
	}
	// The preview may also end right after a complete value.
	_, err = dec.Token()
	return err != nil && previewExhausted(err)
}

// previewExhausted reports whether err means the input ended mid-document
// rather than being malformed.
func previewExhausted(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

func (p *JSONParser) Parse(r io.Reader) (graph.Graph, error) {
	var snap jsonSnapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	if snap.Objects == nil {
		return nil, errors.New(`snapshot has no "objects" list`)
	}

	g := graph.NewMemGraph()
	for i, obj := range snap.Objects {
		if obj.ID == 0 {
			return nil, fmt.Errorf("object at index %d missing ID", i)
		}
		if g.Contains(obj.ID) {
			return nil, fmt.Errorf("object at index %d reuses address %#x", i, uint64(obj.ID))
		}
		g.AddObject(&graph.Object{
			ID:   obj.ID,
			Type: obj.Type,
			Size: obj.Size,
			Ptrs: obj.Ptrs,
		})
	}
	g.SetRoots(graph.Roots{IDs: snap.Roots, Pinned: snap.Pinned})
	return g, nil
}

func init() {
	Register(&JSONParser{})
}
