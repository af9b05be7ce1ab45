//  Copyright (c) 2026 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package graphdump dumps summaries of exploded graphs to disk for debugging. Dumps are
// gob-encoded and compressed with s2.
package graphdump

import (
	"encoding/gob"
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/s2"
	"go.uber.org/getput/engine"
)

// Extension is the file extension of the dumps.
const Extension = ".egraph.s2"

// Graph is the summary of the exploded graph of one routine.
type Graph struct {
	// Func is the fully qualified name of the routine.
	Func string
	// Steps is the number of nodes executed during the exploration.
	Steps int
	// Identities is the number of symbolic identities interned during the exploration.
	Identities int
	Nodes      []Node
}

// Node is the summary of one exploded graph node.
type Node struct {
	ID int
	// Block is the index of the basic block of the node.
	Block   int
	Parents []Edge
}

// Edge is the summary of one parent edge.
type Edge struct {
	From    int
	Learned []Learned
}

// Learned is the summary of a constraint learned on an edge.
type Learned struct {
	Subject    string
	Constraint string
	Position   string
}

// Summarize builds the summary of an exploded graph.
func Summarize(fset *token.FileSet, g *engine.Graph) *Graph {
	summary := &Graph{
		Func:       g.Func.String(),
		Steps:      g.Steps,
		Identities: g.Arena.Len(),
		Nodes:      make([]Node, 0, len(g.Nodes)),
	}
	for _, n := range g.Nodes {
		node := Node{ID: n.ID, Block: n.Block.Index}
		for _, e := range n.Parents {
			edge := Edge{From: e.From.ID}
			for _, l := range e.Learned {
				edge.Learned = append(edge.Learned, Learned{
					Subject:    l.Subject,
					Constraint: l.Constraint.String(),
					Position:   fset.Position(l.Pos).String(),
				})
			}
			node.Parents = append(node.Parents, edge)
		}
		summary.Nodes = append(summary.Nodes, node)
	}
	return summary
}

// Encode writes the compressed encoding of g to w.
func Encode(w io.Writer, g *Graph) (err error) {
	writer := s2.NewWriter(w)
	defer func() {
		if cerr := writer.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	return gob.NewEncoder(writer).Encode(g)
}

// Decode reads a graph encoded by Encode from r.
func Decode(r io.Reader) (*Graph, error) {
	var g Graph
	if err := gob.NewDecoder(s2.NewReader(r)).Decode(&g); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	return &g, nil
}

// Write dumps g into dir and returns the path of the dump. The file name is derived from the
// routine name.
func Write(dir string, g *Graph) (_ string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create dump directory: %w", err)
	}
	path := filepath.Join(dir, FileName(g.Func))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create dump: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	if err := Encode(f, g); err != nil {
		return "", fmt.Errorf("encode graph of %s: %w", g.Func, err)
	}
	return path, nil
}

// Read reads a dump written by Write.
func Read(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

var _fileNameReplacer = strings.NewReplacer("/", "_", "*", "", "(", "", ")", "", " ", "", "$", "_", "[", "_", "]", "_", ",", "_")

// FileName returns the name of the dump file of a routine.
func FileName(fn string) string {
	return _fileNameReplacer.Replace(fn) + Extension
}
