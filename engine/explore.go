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

// Package engine implements a path-sensitive symbolic execution engine over the SSA form of a
// single routine. It explores every feasible path as an exploded graph of abstract program
// states, tracks nilness and truth constraints of symbolic values learned from branch conditions,
// and notifies a Checker before and after every call so that path-sensitive checks can be built on
// top of it.
package engine

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"slices"

	"golang.org/x/tools/go/ssa"
)

// ErrBudgetExceeded is returned by Explore when a routine needs more steps than allowed.
var ErrBudgetExceeded = errors.New("exploration budget exceeded")

const (
	// DefaultMaxSteps is the default maximum number of nodes executed for one routine.
	DefaultMaxSteps = 16000
	// DefaultMaxBlockVisits is the default maximum number of times a single path may enter the
	// same block, i.e., loops are unrolled at most this many times.
	DefaultMaxBlockVisits = 2
)

// Config configures an Engine.
type Config struct {
	// MaxSteps bounds the number of nodes executed for one routine. Zero means DefaultMaxSteps.
	MaxSteps int
	// MaxBlockVisits bounds the number of times a path may enter the same block. Zero means
	// DefaultMaxBlockVisits.
	MaxBlockVisits int
	// PureCall reports calls that do not modify memory visible to the routine. All other calls
	// (except built-ins) invalidate what is known about the heap.
	PureCall func(*ssa.CallCommon) bool
	// FileOf returns the syntax tree containing a position, used to describe values in
	// explanations with their source text. It may be nil.
	FileOf func(token.Pos) *ast.File
}

// PathState is the view of the current abstract program state offered to checkers.
type PathState interface {
	// Node returns the exploded graph node being executed.
	Node() *Node
	// Identity returns the symbolic identity of an SSA value in the current state.
	Identity(v ssa.Value) Identity
	// Classify returns the classification of a lookup result in the current state.
	Classify(id Identity) Classification
}

// Checker is notified around every call executed during exploration. Notifications arrive in
// exploration order, from a single goroutine.
type Checker interface {
	// PreStatement is called before the call is evaluated.
	PreStatement(ps PathState, call *ssa.Call)
	// PostStatement is called after the call is evaluated, i.e., its result has an identity.
	PostStatement(ps PathState, call *ssa.Call)
}

// Engine explores routines. It holds only configuration and can be shared by concurrent
// explorations; every call to Explore owns its arena and graph.
type Engine struct {
	conf Config
}

// New creates an Engine.
func New(conf Config) *Engine {
	if conf.MaxSteps <= 0 {
		conf.MaxSteps = DefaultMaxSteps
	}
	if conf.MaxBlockVisits <= 0 {
		conf.MaxBlockVisits = DefaultMaxBlockVisits
	}
	return &Engine{conf: conf}
}

// Explore explores all feasible paths of fn, notifying checker, and returns the exploded graph.
// It returns an error wrapping ErrBudgetExceeded if the routine needs more than the configured
// number of steps, or the context error if ctx is done; the partial graph is not returned in
// either case.
func (e *Engine) Explore(ctx context.Context, fn *ssa.Function, checker Checker) (*Graph, error) {
	arena := NewArena()
	graph := newGraph(fn, arena)
	if len(fn.Blocks) == 0 {
		return graph, nil
	}
	if checker == nil {
		checker = nopChecker{}
	}

	x := &explorer{
		conf:    e.conf,
		fn:      fn,
		graph:   graph,
		arena:   arena,
		live:    computeLiveness(fn),
		order:   valueOrder(fn),
		checker: checker,
	}

	entry := fn.Blocks[0]
	s := newState()
	s.visits[entry] = 1
	root, _ := graph.node(entry, s, s.fingerprint(x.order))
	x.worklist = append(x.worklist, root)

	for len(x.worklist) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if graph.Steps >= e.conf.MaxSteps {
			return nil, fmt.Errorf("%w after %d steps", ErrBudgetExceeded, graph.Steps)
		}
		n := x.worklist[len(x.worklist)-1]
		x.worklist = x.worklist[:len(x.worklist)-1]
		graph.Steps++
		x.execute(n)
	}
	return graph, nil
}

type nopChecker struct{}

func (nopChecker) PreStatement(PathState, *ssa.Call)  {}
func (nopChecker) PostStatement(PathState, *ssa.Call) {}

// explorer carries the state of a single exploration.
type explorer struct {
	conf     Config
	fn       *ssa.Function
	graph    *Graph
	arena    *Arena
	live     *liveness
	order    map[ssa.Value]int
	checker  Checker
	worklist []*Node
}

// CheckerContext implements PathState for the node being executed.
type CheckerContext struct {
	x     *explorer
	node  *Node
	state *State
}

// Node returns the node being executed.
func (c *CheckerContext) Node() *Node { return c.node }

// Identity returns the identity of v in the current state.
func (c *CheckerContext) Identity(v ssa.Value) Identity { return c.x.sym(c.state, v) }

// Classify returns the classification of the lookup result id in the current state.
func (c *CheckerContext) Classify(id Identity) Classification {
	return c.x.graph.classify(c.state, id)
}

// execute runs the instructions of n's block on a private copy of n's state, and enqueues the
// successor nodes.
func (x *explorer) execute(n *Node) {
	s := n.State.clone()
	ps := &CheckerContext{x: x, node: n, state: s}
	for _, instr := range n.Block.Instrs {
		switch instr := instr.(type) {
		case *ssa.Phi, *ssa.DebugRef:
			// Phis are bound when entering the block.
		case *ssa.Call:
			x.checker.PreStatement(ps, instr)
			x.call(s, instr)
			x.checker.PostStatement(ps, instr)
		case *ssa.If:
			x.branch(n, s, instr)
		case *ssa.Jump:
			x.follow(n, s, n.Block.Succs[0], nil)
		case *ssa.Return, *ssa.Panic:
			// End of path.
		default:
			x.transfer(s, instr)
		}
	}
}

// branch follows both successors of an If, assuming the condition holds on the first and does
// not hold on the second. Infeasible successors are dropped.
func (x *explorer) branch(n *Node, s *State, instr *ssa.If) {
	for i, truth := range [...]bool{true, false} {
		next := s.clone()
		learned, feasible := x.assume(next, instr.Cond, truth, n.Block)
		if feasible {
			x.follow(n, next, n.Block.Succs[i], learned)
		}
	}
}

// follow moves the state s (owned by the caller and consumed here) along the edge from's block ->
// succ, and records the edge in the exploded graph.
func (x *explorer) follow(from *Node, s *State, succ *ssa.BasicBlock, learned []Learned) {
	if s.visits[succ] >= x.conf.MaxBlockVisits {
		return
	}

	// Phis are evaluated in parallel, in the environment of the predecessor.
	type binding struct {
		phi *ssa.Phi
		id  Identity
	}
	var phis []binding
	if pred := slices.Index(succ.Preds, from.Block); pred >= 0 {
		for _, instr := range succ.Instrs {
			phi, ok := instr.(*ssa.Phi)
			if !ok {
				break
			}
			phis = append(phis, binding{phi: phi, id: x.sym(s, phi.Edges[pred])})
		}
	}

	s.visits[succ]++
	for v := range s.env {
		if !x.live.liveIn(succ, v) {
			delete(s.env, v)
		}
	}
	for _, b := range phis {
		s.env[b.phi] = b.id
	}

	node, created := x.graph.node(succ, s, s.fingerprint(x.order))
	node.Parents = append(node.Parents, Edge{From: from, Learned: learned})
	if created {
		x.worklist = append(x.worklist, node)
	}
}

// valueOrder numbers the instruction values of fn in block order.
func valueOrder(fn *ssa.Function) map[ssa.Value]int {
	order := make(map[ssa.Value]int)
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if v, ok := instr.(ssa.Value); ok {
				order[v] = len(order)
			}
		}
	}
	return order
}
