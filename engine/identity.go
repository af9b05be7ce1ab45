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
	"go/constant"
	"go/types"

	"golang.org/x/tools/go/ssa"
)

// Identity is an opaque handle for a symbolic value. Two SSA operands denote the same runtime value
// on an explored path if and only if they evaluate to the same Identity. The zero Identity is
// never handed out.
type Identity uint32

// NoIdentity is the invalid Identity.
const NoIdentity Identity = 0

// symKind distinguishes the structural keys that identities are interned from.
type symKind uint8

const (
	// _kindValue is the value of an instruction during the n-th visit of its block on a path.
	_kindValue symKind = iota + 1
	// _kindStable is a value that does not change during the execution of a routine (parameters,
	// free variables, globals, functions).
	_kindStable
	// _kindConst is a non-nil constant.
	_kindConst
	// _kindNil is the nil constant of any type.
	_kindNil
	// _kindBox is a value converted to an interface type.
	_kindBox
	// _kindAddr is the address of a field or an element of an aggregate.
	_kindAddr
	// _kindElem is the value of a field or an element of an aggregate.
	_kindElem
	// _kindLoad is the value read from an address during a given heap epoch.
	_kindLoad
	// _kindExtract is a component of a tuple.
	_kindExtract
)

type symKey struct {
	kind  symKind
	value ssa.Value
	base  Identity
	aux   Identity
	n     int
	lit   string
}

// Arena interns the symbolic values of a single routine. Identities are derived from structural
// keys only, so two paths that evaluate the same instruction the same number of times obtain the
// same Identity, which lets equal states on different paths be merged. An Arena must not be shared
// between routines, and is not safe for concurrent use.
type Arena struct {
	ids       map[symKey]Identity
	keys      []symKey
	labels    []string
	intrinsic []Constraint
}

// NewArena returns an empty Arena.
func NewArena() *Arena {
	return &Arena{ids: make(map[symKey]Identity)}
}

// Len returns the number of identities interned so far.
func (a *Arena) Len() int {
	return len(a.keys)
}

// Label returns a human-readable description of id.
func (a *Arena) Label(id Identity) string {
	if id == NoIdentity || int(id) > len(a.labels) {
		return "<unknown>"
	}
	return a.labels[id-1]
}

// Intrinsic returns the constraint that holds for id on every path, e.g., `Nil` for the nil
// constant or `NonNil` for a fresh allocation.
func (a *Arena) Intrinsic(id Identity) Constraint {
	if id == NoIdentity || int(id) > len(a.intrinsic) {
		return Unconstrained
	}
	return a.intrinsic[id-1]
}

// PresenceFlag returns the identity of the boolean component of the tuple id (i.e., the `ok` of a
// `v, ok := ...` form), if it has been interned.
func (a *Arena) PresenceFlag(id Identity) (Identity, bool) {
	flag, ok := a.ids[symKey{kind: _kindExtract, base: id, n: 1}]
	return flag, ok
}

// related returns id together with the identities whose constraints classify it.
func (a *Arena) related(id Identity) []Identity {
	if flag, ok := a.PresenceFlag(id); ok {
		return []Identity{id, flag}
	}
	return []Identity{id}
}

// allocation returns the allocation of this routine that id is the address of, or an address
// within, or NoIdentity if id may point anywhere.
func (a *Arena) allocation(id Identity) Identity {
	for id != NoIdentity && int(id) <= len(a.keys) {
		key := a.keys[id-1]
		switch key.kind {
		case _kindAddr:
			id = key.base
		case _kindValue:
			if _, ok := key.value.(*ssa.Alloc); ok {
				return id
			}
			return NoIdentity
		default:
			return NoIdentity
		}
	}
	return NoIdentity
}

func (a *Arena) intern(key symKey, label string, intrinsic Constraint) Identity {
	if id, ok := a.ids[key]; ok {
		return id
	}
	a.keys = append(a.keys, key)
	a.labels = append(a.labels, label)
	a.intrinsic = append(a.intrinsic, intrinsic)
	id := Identity(len(a.keys))
	a.ids[key] = id
	return id
}

// constIdentity interns an SSA constant by its type and literal value, so that equal literals
// always share an identity.
func (a *Arena) constIdentity(c *ssa.Const) Identity {
	if c.IsNil() {
		return a.intern(symKey{kind: _kindNil}, "nil", Nil)
	}
	lit := c.String()
	intrinsic := NonNil
	if c.Value != nil {
		lit = c.Value.ExactString()
		if c.Value.Kind() == constant.Bool {
			intrinsic = False
			if constant.BoolVal(c.Value) {
				intrinsic = True
			}
		}
	}
	return a.intern(symKey{kind: _kindConst, lit: types.TypeString(c.Type(), nil) + " " + lit}, lit, intrinsic)
}

func (a *Arena) stableIdentity(v ssa.Value) Identity {
	intrinsic := Unconstrained
	switch v.(type) {
	case *ssa.Global, *ssa.Function:
		intrinsic = NonNil
	}
	return a.intern(symKey{kind: _kindStable, value: v}, v.Name(), intrinsic)
}

func (a *Arena) valueIdentity(v ssa.Value, visit int) Identity {
	intrinsic := Unconstrained
	switch v.(type) {
	case *ssa.Alloc, *ssa.MakeMap, *ssa.MakeChan, *ssa.MakeSlice, *ssa.MakeClosure:
		intrinsic = NonNil
	}
	return a.intern(symKey{kind: _kindValue, value: v, n: visit}, valueLabel(v), intrinsic)
}

func (a *Arena) boxIdentity(base Identity, iface types.Type) Identity {
	return a.intern(symKey{kind: _kindBox, base: base, lit: types.TypeString(iface, nil)}, a.Label(base), NonNil)
}

func (a *Arena) addrIdentity(base, index Identity, field int) Identity {
	label := fmt.Sprintf("&%s[%s]", a.Label(base), a.Label(index))
	if index == NoIdentity {
		label = fmt.Sprintf("&%s.#%d", a.Label(base), field)
	}
	return a.intern(symKey{kind: _kindAddr, base: base, aux: index, n: field}, label, NonNil)
}

func (a *Arena) elemIdentity(base, index Identity, field int) Identity {
	label := fmt.Sprintf("%s[%s]", a.Label(base), a.Label(index))
	if index == NoIdentity {
		label = fmt.Sprintf("%s.#%d", a.Label(base), field)
	}
	return a.intern(symKey{kind: _kindElem, base: base, aux: index, n: field}, label, Unconstrained)
}

func (a *Arena) loadIdentity(addr Identity, epoch int) Identity {
	return a.intern(symKey{kind: _kindLoad, base: addr, n: epoch}, "*"+a.Label(addr), Unconstrained)
}

func (a *Arena) extractIdentity(tuple Identity, index int) Identity {
	return a.intern(symKey{kind: _kindExtract, base: tuple, n: index},
		fmt.Sprintf("result %d of %s", index, a.Label(tuple)), Unconstrained)
}

// valueLabel returns a short description of an SSA value for use in messages.
func valueLabel(v ssa.Value) string {
	if call, ok := v.(*ssa.Call); ok {
		if call.Call.IsInvoke() {
			return call.Call.Method.Name() + "()"
		}
		if callee := call.Call.StaticCallee(); callee != nil {
			return callee.Name() + "()"
		}
	}
	return v.Name()
}
