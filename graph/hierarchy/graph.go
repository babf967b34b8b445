// Package hierarchy builds the class hierarchy graph: one node per class
// defined anywhere in the codebase, one edge per resolved base class. It
// also owns the graph's on-disk representation, the "opaque, versioned
// binary blob" the builder CLI writes and the checker CLI reads back.
package hierarchy

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"
)

// graphFormatVersion is bumped whenever Entry's shape changes in a way
// that would make an old dump unreadable by a newer binary.
const graphFormatVersion = 1

// Entry is one class's resolved parents and the file it was defined in.
type Entry struct {
	Bases      []string
	SourceFile string
}

// ClassGraph maps a fully qualified class identifier ("<module>.<Class>")
// to its Entry. It is the checker's only interchange format between the
// graph-build stage and the consistency-check stage.
type ClassGraph struct {
	Classes map[string]*Entry
}

// New returns an empty class hierarchy graph.
func New() *ClassGraph {
	return &ClassGraph{Classes: make(map[string]*Entry)}
}

// SortedIDs returns every class identifier in the graph, sorted, so
// diagnostics are deterministic regardless of Go's randomized map
// iteration order. Save does not use it: it encodes the Classes map
// directly, so two dumps of the same graph can differ byte for byte.
func (g *ClassGraph) SortedIDs() []string {
	ids := make([]string, 0, len(g.Classes))
	for id := range g.Classes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NumResolvedBases counts every edge in the graph (the total number of
// base-class references that were successfully resolved).
func (g *ClassGraph) NumResolvedBases() int {
	n := 0
	for _, e := range g.Classes {
		n += len(e.Bases)
	}
	return n
}

type dumpEnvelope struct {
	Version int
	Classes map[string]*Entry
}

// Save serializes the graph with encoding/gob. gob is used rather than a
// third-party binary codec because no dependency anywhere in this
// project's stack (protobuf, flatbuffers, msgpack, cap'n proto) is
// otherwise exercised by any other component; reaching for one here would
// add a dependency solely to serialize a single Go map, which the standard
// library already does simply and portably for a same-binary round trip.
func Save(g *ClassGraph) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(dumpEnvelope{Version: graphFormatVersion, Classes: g.Classes}); err != nil {
		return nil, fmt.Errorf("encoding class hierarchy graph: %w", err)
	}
	return buf.Bytes(), nil
}

// Load deserializes a graph previously written by Save.
func Load(data []byte) (*ClassGraph, error) {
	var envelope dumpEnvelope
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding class hierarchy graph: %w", err)
	}
	if envelope.Version != graphFormatVersion {
		return nil, fmt.Errorf("class hierarchy graph format version %d is not supported by this build (expected %d)", envelope.Version, graphFormatVersion)
	}
	if envelope.Classes == nil {
		envelope.Classes = make(map[string]*Entry)
	}
	return &ClassGraph{Classes: envelope.Classes}, nil
}
