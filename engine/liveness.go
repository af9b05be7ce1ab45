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
	"golang.org/x/tools/go/ssa"
)

// liveness holds, for every block of a routine, the set of instruction values that are live at the
// block's entry. Bindings of dead values are dropped from states so that paths that differ only
// in values never used again can be merged.
type liveness struct {
	in map[*ssa.BasicBlock]map[ssa.Value]bool
}

func computeLiveness(fn *ssa.Function) *liveness {
	uses := make(map[*ssa.BasicBlock]map[ssa.Value]bool, len(fn.Blocks))
	defs := make(map[*ssa.BasicBlock]map[ssa.Value]bool, len(fn.Blocks))
	// phiUses[p] holds the values flowing from block p into the phis of its successors.
	phiUses := make(map[*ssa.BasicBlock]map[ssa.Value]bool, len(fn.Blocks))
	for _, b := range fn.Blocks {
		uses[b], defs[b] = make(map[ssa.Value]bool), make(map[ssa.Value]bool)
		if phiUses[b] == nil {
			phiUses[b] = make(map[ssa.Value]bool)
		}
	}

	var operands []*ssa.Value
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if v, ok := instr.(ssa.Value); ok {
				defs[b][v] = true
			}
			if phi, ok := instr.(*ssa.Phi); ok {
				for i, edge := range phi.Edges {
					if isLocal(edge) && i < len(b.Preds) {
						phiUses[b.Preds[i]][edge] = true
					}
				}
				continue
			}
			operands = instr.Operands(operands[:0])
			for _, op := range operands {
				if op != nil && isLocal(*op) && !defs[b][*op] {
					uses[b][*op] = true
				}
			}
		}
	}

	in := make(map[*ssa.BasicBlock]map[ssa.Value]bool, len(fn.Blocks))
	for _, b := range fn.Blocks {
		in[b] = make(map[ssa.Value]bool)
	}
	for changed := true; changed; {
		changed = false
		for i := len(fn.Blocks) - 1; i >= 0; i-- {
			b := fn.Blocks[i]
			live := make(map[ssa.Value]bool)
			for v := range phiUses[b] {
				live[v] = true
			}
			for _, s := range b.Succs {
				for v := range in[s] {
					live[v] = true
				}
			}
			for v := range defs[b] {
				delete(live, v)
			}
			for v := range uses[b] {
				live[v] = true
			}
			if len(live) != len(in[b]) {
				in[b] = live
				changed = true
			}
		}
	}
	return &liveness{in: in}
}

// liveIn returns if v is live at the entry of b.
func (l *liveness) liveIn(b *ssa.BasicBlock, v ssa.Value) bool {
	return l.in[b][v]
}

// isLocal returns if v is computed by an instruction of the routine (as opposed to constants,
// parameters, globals and the like, which have stable identities).
func isLocal(v ssa.Value) bool {
	_, ok := v.(ssa.Instruction)
	return ok
}
