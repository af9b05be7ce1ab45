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
	"go/constant"
	"go/token"
	"go/types"
	"maps"

	"golang.org/x/tools/go/ssa"
)

// sym returns the symbolic identity of v in state s.
func (x *explorer) sym(s *State, v ssa.Value) Identity {
	switch v := v.(type) {
	case nil:
		return NoIdentity
	case *ssa.Const:
		return x.arena.constIdentity(v)
	case *ssa.Parameter, *ssa.FreeVar, *ssa.Global, *ssa.Function, *ssa.Builtin:
		return x.arena.stableIdentity(v)
	}
	if id, ok := s.env[v]; ok {
		return id
	}
	if instr, ok := v.(ssa.Instruction); ok {
		return x.arena.valueIdentity(v, s.visits[instr.Block()])
	}
	return x.arena.stableIdentity(v)
}

// fresh binds v to the identity of its current occurrence on this path.
func (x *explorer) fresh(s *State, v ssa.Value) {
	s.env[v] = x.arena.valueIdentity(v, s.visits[v.(ssa.Instruction).Block()])
}

// call evaluates a call instruction.
func (x *explorer) call(s *State, c *ssa.Call) {
	x.fresh(s, c)
	if !x.pure(&c.Call) {
		s.invalidateHeap()
	}
}

func (x *explorer) pure(common *ssa.CallCommon) bool {
	if _, ok := common.Value.(*ssa.Builtin); ok {
		return true
	}
	return x.conf.PureCall != nil && x.conf.PureCall(common)
}

// transfer evaluates every non-call, non-control-flow instruction.
func (x *explorer) transfer(s *State, instr ssa.Instruction) {
	switch i := instr.(type) {
	case *ssa.Store:
		x.store(s, x.sym(s, i.Addr), x.sym(s, i.Val))
	case *ssa.Go, *ssa.Send, *ssa.RunDefers:
		s.invalidateHeap()
	case *ssa.MakeInterface:
		s.env[i] = x.arena.boxIdentity(x.sym(s, i.X), i.Type())
	case *ssa.ChangeType:
		s.env[i] = x.sym(s, i.X)
	case *ssa.ChangeInterface:
		s.env[i] = x.sym(s, i.X)
	case *ssa.TypeAssert:
		if !i.CommaOk && types.IsInterface(i.AssertedType) {
			s.env[i] = x.sym(s, i.X)
		} else {
			x.fresh(s, i)
		}
	case *ssa.FieldAddr:
		s.env[i] = x.arena.addrIdentity(x.sym(s, i.X), NoIdentity, i.Field)
	case *ssa.IndexAddr:
		s.env[i] = x.arena.addrIdentity(x.sym(s, i.X), x.sym(s, i.Index), -1)
	case *ssa.Field:
		s.env[i] = x.arena.elemIdentity(x.sym(s, i.X), NoIdentity, i.Field)
	case *ssa.Index:
		s.env[i] = x.arena.elemIdentity(x.sym(s, i.X), x.sym(s, i.Index), -1)
	case *ssa.Extract:
		s.env[i] = x.arena.extractIdentity(x.sym(s, i.Tuple), i.Index)
	case *ssa.UnOp:
		if i.Op == token.MUL {
			s.env[i] = x.load(s, x.sym(s, i.X))
		} else {
			x.fresh(s, i)
		}
	case ssa.Value:
		x.fresh(s, i)
	}
}

// store writes val at addr. Any other address may alias addr, except when both lie in distinct
// allocations of this routine, so the values known at all other addresses are forgotten.
func (x *explorer) store(s *State, addr, val Identity) {
	var kept map[Identity]Identity
	if root := x.arena.allocation(addr); root != NoIdentity {
		for a, v := range s.heap {
			if r := x.arena.allocation(a); r != NoIdentity && r != root {
				if kept == nil {
					kept = make(map[Identity]Identity)
				}
				kept[a] = v
			}
		}
	}
	s.invalidateHeap()
	maps.Copy(s.heap, kept)
	s.heap[addr] = val
}

// load returns the value stored at addr, or the identity of the unknown value held at addr since
// the last heap invalidation.
func (x *explorer) load(s *State, addr Identity) Identity {
	if id, ok := s.heap[addr]; ok {
		return id
	}
	id := x.arena.loadIdentity(addr, s.epoch)
	s.heap[addr] = id
	return id
}

// assume constrains s so that cond evaluates to truth. It returns the constraints learned, and
// false if the assumption contradicts what is already known (the path is infeasible).
func (x *explorer) assume(s *State, cond ssa.Value, truth bool, block *ssa.BasicBlock) ([]Learned, bool) {
	var learned []Learned
	ok := x.assumeValue(s, cond, truth, x.position(cond, block), x.describe(cond), &learned)
	return learned, ok
}

func (x *explorer) assumeValue(s *State, v ssa.Value, truth bool, pos token.Pos, subject string, learned *[]Learned) bool {
	switch c := v.(type) {
	case *ssa.UnOp:
		if c.Op == token.NOT {
			if !x.assumeValue(s, c.X, !truth, pos, x.operandText(c, c.X), learned) {
				return false
			}
		}
	case *ssa.BinOp:
		if c.Op == token.EQL || c.Op == token.NEQ {
			if !x.assumeComparison(s, c, (c.Op == token.EQL) == truth, pos, learned) {
				return false
			}
		}
	}
	return x.constrain(s, x.sym(s, v), boolConstraint(truth), pos, subject, learned)
}

// assumeComparison constrains s so that the operands of c are equal (eq) or different.
func (x *explorer) assumeComparison(s *State, c *ssa.BinOp, eq bool, pos token.Pos, learned *[]Learned) bool {
	if x.sym(s, c.X) == x.sym(s, c.Y) && !isFloat(c.X.Type()) {
		return eq
	}

	operand, other := c.X, c.Y
	if _, ok := operand.(*ssa.Const); ok {
		operand, other = other, operand
	}
	k, ok := other.(*ssa.Const)
	if !ok {
		return true
	}
	subject := x.operandText(c, operand)
	switch {
	case k.IsNil():
		return x.constrain(s, x.sym(s, operand), nilConstraint(eq), pos, subject, learned)
	case k.Value != nil && k.Value.Kind() == constant.Bool:
		return x.assumeValue(s, operand, constant.BoolVal(k.Value) == eq, pos, subject, learned)
	}
	return true
}

// constrain records that id satisfies c, unless it is already known to.
func (x *explorer) constrain(s *State, id Identity, c Constraint, pos token.Pos, subject string, learned *[]Learned) bool {
	switch x.graph.constraint(s, id) {
	case c:
		return true
	case Unconstrained:
	default:
		return false
	}
	s.constraints[id] = c
	*learned = append(*learned, Learned{ID: id, Constraint: c, Pos: pos, Subject: subject})
	return true
}

// position returns the position of v, or of the last positioned instruction of block.
func (x *explorer) position(v ssa.Value, block *ssa.BasicBlock) token.Pos {
	if pos := v.Pos(); pos.IsValid() {
		return pos
	}
	for i := len(block.Instrs) - 1; i >= 0; i-- {
		if pos := block.Instrs[i].Pos(); pos.IsValid() {
			return pos
		}
	}
	return x.fn.Pos()
}

func isFloat(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Info()&(types.IsFloat|types.IsComplex) != 0
}
