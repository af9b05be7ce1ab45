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

// Package matcher recognizes lookups and insertions on key-value containers among SSA calls. A
// container is any type whose method set offers both a lookup method (one key parameter, and
// either a single nilable result or a (value, bool) pair) and an insertion method (two parameters,
// the first one of the key type), as selected by configurable container specs.
package matcher

import (
	"go/types"
	"regexp"
	"slices"

	"go.uber.org/getput/config"
	"go.uber.org/getput/util/typeshelper"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/types/typeutil"
)

// Operands are the relevant operands of a matched lookup or insertion call.
type Operands struct {
	// Container is the receiver of the call.
	Container ssa.Value
	// Key is the key argument of the call.
	Key ssa.Value
	// Method is the name of the called method.
	Method string
	// AbsentFill is the name of the atomic insert-if-absent method of the container, or "" if it
	// has none.
	AbsentFill string
	// PresentUpdate is the name of the atomic update-if-present method of the container, or "" if
	// it has none.
	PresentUpdate string
}

// spec is the compiled form of a config.ContainerSpec.
type spec struct {
	// typ matches "<pkg path>.<type name>" of the receiver; nil matches any receiver.
	typ           *regexp.Regexp
	lookup        []string
	insert        []string
	absentFill    []string
	presentUpdate []string
}

// Matcher matches calls against container specs. It is safe for concurrent use.
type Matcher struct {
	specs []spec
	cache typeutil.MethodSetCache
}

// New compiles the container specs into a Matcher. Specs are tried in order and the first one
// accepting a call wins.
func New(specs []config.ContainerSpec) (*Matcher, error) {
	m := &Matcher{specs: make([]spec, 0, len(specs))}
	for _, s := range specs {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		compiled := spec{
			lookup:        s.Lookup,
			insert:        s.Insert,
			absentFill:    s.AbsentFill,
			presentUpdate: s.PresentUpdate,
		}
		if s.Type != "" {
			// Validate has already checked that the pattern compiles.
			compiled.typ = regexp.MustCompile(s.Type)
		}
		m.specs = append(m.specs, compiled)
	}
	return m, nil
}

// MatchLookup returns the operands of call if it is a lookup on a container.
func (m *Matcher) MatchLookup(call *ssa.CallCommon) (Operands, bool) {
	return m.match(call, func(s *spec) []string { return s.lookup }, isLookup)
}

// MatchInsertion returns the operands of call if it is an insertion into a container.
func (m *Matcher) MatchInsertion(call *ssa.CallCommon) (Operands, bool) {
	return m.match(call, func(s *spec) []string { return s.insert }, isInsertion)
}

// IsLookup reports whether call is a lookup on a container.
func (m *Matcher) IsLookup(call *ssa.CallCommon) bool {
	_, ok := m.MatchLookup(call)
	return ok
}

// match checks call against every spec: the method name must be listed by names, the method must
// have the expected shape, and the receiver type must have the full container capability.
func (m *Matcher) match(call *ssa.CallCommon, names func(*spec) []string, shape func(*types.Signature) (types.Type, bool)) (Operands, bool) {
	recv, method, args, ok := receiver(call)
	if !ok || len(args) == 0 {
		return Operands{}, false
	}
	recvType := recv.Type()

	for i := range m.specs {
		s := &m.specs[i]
		if !slices.Contains(names(s), method) || !s.accepts(recvType) {
			continue
		}
		sig, ok := m.signature(recvType, method)
		if !ok {
			continue
		}
		key, ok := shape(sig)
		if !ok || !m.isContainer(s, recvType, key) {
			continue
		}
		return Operands{
			Container:     recv,
			Key:           args[0],
			Method:        method,
			AbsentFill:    m.first(recvType, s.absentFill),
			PresentUpdate: m.first(recvType, s.presentUpdate),
		}, true
	}
	return Operands{}, false
}

func (s *spec) accepts(t types.Type) bool {
	if s.typ == nil {
		return true
	}
	name, ok := typeshelper.QualifiedName(t)
	return ok && s.typ.MatchString(name)
}

// isContainer returns if t has both a lookup and an insertion method of s with key type key.
func (m *Matcher) isContainer(s *spec, t, key types.Type) bool {
	has := func(names []string, shape func(*types.Signature) (types.Type, bool)) bool {
		for _, name := range names {
			sig, ok := m.signature(t, name)
			if !ok {
				continue
			}
			if k, ok := shape(sig); ok && types.Identical(k, key) {
				return true
			}
		}
		return false
	}
	return has(s.lookup, isLookup) && has(s.insert, isInsertion)
}

// first returns the first of names that is a method of t, or "".
func (m *Matcher) first(t types.Type, names []string) string {
	for _, name := range names {
		if _, ok := m.signature(t, name); ok {
			return name
		}
	}
	return ""
}

// signature returns the signature of the method of t with the given name. Methods of both t and
// *t are considered, the way a call on an addressable value would.
func (m *Matcher) signature(t types.Type, name string) (*types.Signature, bool) {
	for _, sel := range typeutil.IntuitiveMethodSet(t, &m.cache) {
		if sel.Obj().Name() == name {
			sig, ok := sel.Obj().Type().(*types.Signature)
			return sig, ok
		}
	}
	return nil, false
}

// isLookup returns the key type of a lookup method signature.
func isLookup(sig *types.Signature) (types.Type, bool) {
	if sig.Params().Len() != 1 || sig.Variadic() {
		return nil, false
	}
	results := sig.Results()
	switch results.Len() {
	case 1:
		if !typeshelper.IsNilable(results.At(0).Type()) {
			return nil, false
		}
	case 2:
		if !typeshelper.IsBool(results.At(1).Type()) {
			return nil, false
		}
	default:
		return nil, false
	}
	return sig.Params().At(0).Type(), true
}

// isInsertion returns the key type of an insertion method signature.
func isInsertion(sig *types.Signature) (types.Type, bool) {
	if sig.Params().Len() != 2 || sig.Variadic() {
		return nil, false
	}
	return sig.Params().At(0).Type(), true
}

// receiver returns the receiver, the method name and the remaining arguments of a method call,
// for both interface method invocations and static calls of concrete methods.
func receiver(call *ssa.CallCommon) (ssa.Value, string, []ssa.Value, bool) {
	if call.IsInvoke() {
		return call.Value, call.Method.Name(), call.Args, true
	}
	callee := call.StaticCallee()
	if callee == nil || callee.Signature.Recv() == nil || len(call.Args) == 0 {
		return nil, "", nil, false
	}
	name := callee.Name()
	if obj, ok := callee.Object().(*types.Func); ok {
		// Instances of generic methods carry their type arguments in their SSA names.
		name = obj.Name()
	}
	return call.Args[0], name, call.Args[1:], true
}
