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
	"cmp"
	"crypto/sha256"
	"encoding/binary"
	"maps"
	"slices"

	"golang.org/x/tools/go/ssa"
)

// State is the abstract program state at the entry of a block on one explored path. States stored
// in the exploded graph are never mutated; the explorer works on private copies.
type State struct {
	// env binds the SSA values live at this point to their identities.
	env map[ssa.Value]Identity
	// heap maps address identities to the identity last stored there during the current epoch.
	heap map[Identity]Identity
	// epoch is bumped whenever the heap is invalidated (e.g., by a call with unknown effects), so
	// that loads after the invalidation obtain fresh identities.
	epoch int
	// constraints holds the constraints learned on this path.
	constraints map[Identity]Constraint
	// visits counts how many times each block has been entered on this path.
	visits map[*ssa.BasicBlock]int
}

func newState() *State {
	return &State{
		env:         make(map[ssa.Value]Identity),
		heap:        make(map[Identity]Identity),
		constraints: make(map[Identity]Constraint),
		visits:      make(map[*ssa.BasicBlock]int),
	}
}

func (s *State) clone() *State {
	return &State{
		env:         maps.Clone(s.env),
		heap:        maps.Clone(s.heap),
		epoch:       s.epoch,
		constraints: maps.Clone(s.constraints),
		visits:      maps.Clone(s.visits),
	}
}

// Constraint returns the constraint learned for id on this path, ignoring intrinsic constraints.
func (s *State) Constraint(id Identity) Constraint {
	return s.constraints[id]
}

// Visits returns how many times block has been entered on this path.
func (s *State) Visits(block *ssa.BasicBlock) int {
	return s.visits[block]
}

func (s *State) invalidateHeap() {
	clear(s.heap)
	s.epoch++
}

// constrainedAny returns if any of ids carries a learned constraint.
func (s *State) constrainedAny(ids []Identity) bool {
	for _, id := range ids {
		if s.constraints[id] != Unconstrained {
			return true
		}
	}
	return false
}

// fingerprint returns a digest of the state that is equal for equal states. order provides a
// stable numbering of the SSA values of the routine.
func (s *State) fingerprint(order map[ssa.Value]int) string {
	buf := make([]byte, 0, 16*(len(s.env)+len(s.heap)+len(s.constraints)+len(s.visits)+1))

	env := make([][2]uint64, 0, len(s.env))
	for v, id := range s.env {
		env = append(env, [2]uint64{uint64(order[v]), uint64(id)})
	}
	buf = appendPairs(buf, env)

	heap := make([][2]uint64, 0, len(s.heap))
	for addr, id := range s.heap {
		heap = append(heap, [2]uint64{uint64(addr), uint64(id)})
	}
	buf = appendPairs(buf, heap)

	constraints := make([][2]uint64, 0, len(s.constraints))
	for id, c := range s.constraints {
		constraints = append(constraints, [2]uint64{uint64(id), uint64(c)})
	}
	buf = appendPairs(buf, constraints)

	visits := make([][2]uint64, 0, len(s.visits))
	for b, n := range s.visits {
		visits = append(visits, [2]uint64{uint64(b.Index), uint64(n)})
	}
	buf = appendPairs(buf, visits)

	buf = binary.AppendUvarint(buf, uint64(s.epoch))
	sum := sha256.Sum256(buf)
	return string(sum[:])
}

func appendPairs(buf []byte, pairs [][2]uint64) []byte {
	slices.SortFunc(pairs, func(a, b [2]uint64) int { return cmp.Compare(a[0], b[0]) })
	buf = binary.AppendUvarint(buf, uint64(len(pairs)))
	for _, p := range pairs {
		buf = binary.AppendUvarint(buf, p[0])
		buf = binary.AppendUvarint(buf, p[1])
	}
	return buf
}
