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

package engine

import (
	"fmt"
	"go/token"
	"strings"

	"golang.org/x/tools/go/ssa"
)

// MaxTraces bounds the number of alternative traces returned by Graph.Justify for a single node.
const MaxTraces = 8

// Learned records a constraint the engine learned when following a branch.
type Learned struct {
	// ID is the identity that was constrained.
	ID Identity
	// Constraint is the learned constraint.
	Constraint Constraint
	// Pos is the position of the branch condition.
	Pos token.Pos
	// Subject is the source text (or a description) of the constrained value.
	Subject string
}

// Step is one element of an explanatory trace.
type Step struct {
	Pos     token.Pos
	Message string
}

// Trace is an ordered sequence of explanatory steps.
type Trace []Step

func (t Trace) key() string {
	var sb strings.Builder
	for _, s := range t {
		fmt.Fprintf(&sb, "%d:%s;", s.Pos, s.Message)
	}
	return sb.String()
}

// Edge connects a node to one of its predecessors in the exploded graph.
type Edge struct {
	// From is the predecessor node.
	From *Node
	// Learned lists the constraints learned when going from From to the child node.
	Learned []Learned
}

// Node is one abstract program state at the entry of one block. A node may be reached from
// several predecessors when different paths lead to equal states.
type Node struct {
	ID      int
	Block   *ssa.BasicBlock
	State   *State
	Parents []Edge
}

type nodeKey struct {
	block       *ssa.BasicBlock
	fingerprint string
}

// Graph is the exploded graph of a routine: the set of explored (block, state) pairs.
type Graph struct {
	Func  *ssa.Function
	Arena *Arena
	Nodes []*Node
	// Steps is the number of nodes executed during exploration.
	Steps int

	index map[nodeKey]*Node
}

func newGraph(fn *ssa.Function, arena *Arena) *Graph {
	return &Graph{Func: fn, Arena: arena, index: make(map[nodeKey]*Node)}
}

// node returns the node for (block, state), creating it if it does not exist yet. The boolean
// result reports whether the node was created.
func (g *Graph) node(block *ssa.BasicBlock, state *State, fingerprint string) (*Node, bool) {
	key := nodeKey{block: block, fingerprint: fingerprint}
	if n, ok := g.index[key]; ok {
		return n, false
	}
	n := &Node{ID: len(g.Nodes), Block: block, State: state}
	g.Nodes = append(g.Nodes, n)
	g.index[key] = n
	return n, true
}

// classify returns the classification of a lookup result id under state s.
func (g *Graph) classify(s *State, id Identity) Classification {
	switch g.constraint(s, id) {
	case Nil:
		return Absent
	case NonNil:
		return Present
	}
	if flag, ok := g.Arena.PresenceFlag(id); ok {
		switch g.constraint(s, flag) {
		case False:
			return Absent
		case True:
			return Present
		}
	}
	return Unknown
}

func (g *Graph) constraint(s *State, id Identity) Constraint {
	if c := s.constraints[id]; c != Unconstrained {
		return c
	}
	return g.Arena.Intrinsic(id)
}

// Justify returns the minimal sets of steps explaining the classification of id at node. It walks
// the exploded graph backwards and keeps only the constraints learned on id (or on its presence
// flag); a walk stops at the first ancestor where those constraints were not established yet.
// Steps are ordered from the node backwards. Distinct paths yielding distinct steps produce
// distinct traces, up to MaxTraces. The result is never empty; it holds a single empty trace if
// the classification is intrinsic.
func (g *Graph) Justify(node *Node, id Identity) []Trace {
	relevant := g.Arena.related(id)
	memo := make(map[*Node][]Trace)

	var walk func(n *Node) []Trace
	walk = func(n *Node) []Trace {
		if traces, ok := memo[n]; ok {
			return traces
		}
		if len(n.Parents) == 0 || !n.State.constrainedAny(relevant) {
			memo[n] = []Trace{nil}
			return memo[n]
		}

		var traces []Trace
		seen := make(map[string]bool)
		for _, e := range n.Parents {
			var steps Trace
			for _, l := range e.Learned {
				for _, r := range relevant {
					if l.ID == r {
						steps = append(steps, Step{Pos: l.Pos, Message: fmt.Sprintf("implies `%s` is %s", l.Subject, l.Constraint)})
					}
				}
			}
			for _, t := range walk(e.From) {
				trace := make(Trace, 0, len(steps)+len(t))
				trace = append(trace, steps...)
				trace = append(trace, t...)
				if k := trace.key(); !seen[k] && len(traces) < MaxTraces {
					seen[k] = true
					traces = append(traces, trace)
				}
			}
		}
		memo[n] = traces
		return traces
	}

	return walk(node)
}
