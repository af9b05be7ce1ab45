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
	"context"
	"go/ast"
	"go/constant"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

const _src = `package p

type M struct{}

func (*M) Get(k string) *int        { return nil }
func (*M) Load(k string) (any, bool) { return nil, false }

type box struct{ p *int }

func use(p *int) {}
func mark(v any) {}
func touch()     {}

func nilCheck(m *M) {
	v := m.Get("a")
	if v == nil { // nilCheck:if
		use(v)
	} else {
		use(v)
	}
}

func commaOk(m *M) {
	v, ok := m.Load("a")
	if !ok {
		mark(v)
		return
	}
	mark(v)
}

func infeasible(m *M) {
	v := m.Get("a")
	if v == nil {
		if v != nil {
			use(v)
		}
	}
}

func heapLoad(b *box) {
	if b.p == nil {
		use(b.p)
	}
}

func heapInvalidated(b *box) {
	if b.p == nil {
		touch()
		use(b.p)
	}
}

func aliasedStore(b *box, q **int) {
	if b.p == nil {
		*q = new(int)
		use(b.p)
	}
}

func distinctAllocations() {
	a, b := &box{}, &box{}
	if a.p == nil {
		b.p = new(int)
		use(a.p)
	}
}

func boxed(p *int) {
	var v any = p
	if v == nil {
		mark(v)
	}
}

func phi(m *M, c bool) {
	var v *int
	if c {
		v = m.Get("a")
	} else {
		v = m.Get("b")
	}
	if v != nil {
		use(v)
	}
}

func loop(m *M, keys []string) {
	for _, k := range keys {
		if m.Get(k) == nil {
			use(nil)
		}
	}
}
`

type testProgram struct {
	fset  *token.FileSet
	file  *ast.File
	funcs map[string]*ssa.Function
}

func buildProgram(t *testing.T) *testProgram {
	t.Helper()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "p.go", _src, parser.ParseComments)
	require.NoError(t, err)
	pkg, _, err := ssautil.BuildPackage(
		&types.Config{Importer: importer.Default()}, fset, types.NewPackage("p", ""), []*ast.File{file}, ssa.SanityCheckFunctions)
	require.NoError(t, err)

	funcs := make(map[string]*ssa.Function)
	for _, member := range pkg.Members {
		if fn, ok := member.(*ssa.Function); ok {
			funcs[fn.Name()] = fn
		}
	}
	return &testProgram{fset: fset, file: file, funcs: funcs}
}

func (p *testProgram) explore(t *testing.T, name string, checker Checker) *Graph {
	t.Helper()

	fn, ok := p.funcs[name]
	require.True(t, ok, "function %q not found", name)
	e := New(Config{FileOf: func(token.Pos) *ast.File { return p.file }})
	graph, err := e.Explore(context.Background(), fn, checker)
	require.NoError(t, err)
	return graph
}

// lineOf returns the line of the first occurrence of marker in the test source.
func lineOf(t *testing.T, marker string) int {
	t.Helper()

	i := strings.Index(_src, marker)
	require.GreaterOrEqual(t, i, 0, "marker %q not found", marker)
	return strings.Count(_src[:i], "\n") + 1
}

type observation struct {
	node           *Node
	id             Identity
	classification Classification
}

// observer records the classification of the argument of every call to a given function. For
// arguments extracted from a tuple, the tuple itself is classified.
type observer struct {
	callee       string
	observations []observation
}

func (o *observer) PreStatement(ps PathState, call *ssa.Call) {
	callee := call.Call.StaticCallee()
	if callee == nil || callee.Name() != o.callee {
		return
	}
	arg := call.Call.Args[0]
	if extract, ok := arg.(*ssa.Extract); ok {
		arg = extract.Tuple
	}
	id := ps.Identity(arg)
	o.observations = append(o.observations, observation{node: ps.Node(), id: id, classification: ps.Classify(id)})
}

func (o *observer) PostStatement(PathState, *ssa.Call) {}

func (o *observer) classifications() []Classification {
	var res []Classification
	for _, obs := range o.observations {
		res = append(res, obs.classification)
	}
	return res
}

func TestExplore_NilCheck(t *testing.T) {
	t.Parallel()

	p := buildProgram(t)
	o := &observer{callee: "use"}
	graph := p.explore(t, "nilCheck", o)

	require.ElementsMatch(t, []Classification{Absent, Present}, o.classifications())

	for _, obs := range o.observations {
		traces := graph.Justify(obs.node, obs.id)
		require.Len(t, traces, 1)
		require.Len(t, traces[0], 1)
		step := traces[0][0]
		require.Equal(t, lineOf(t, "nilCheck:if"), p.fset.Position(step.Pos).Line)
		want := "implies `v` is not nil"
		if obs.classification == Absent {
			want = "implies `v` is nil"
		}
		require.Equal(t, want, step.Message)
	}
}

func TestExplore_CommaOk(t *testing.T) {
	t.Parallel()

	p := buildProgram(t)
	o := &observer{callee: "mark"}
	graph := p.explore(t, "commaOk", o)

	require.ElementsMatch(t, []Classification{Absent, Present}, o.classifications())
	for _, obs := range o.observations {
		traces := graph.Justify(obs.node, obs.id)
		require.Len(t, traces, 1)
		require.Len(t, traces[0], 1)
		want := "implies `ok` is true"
		if obs.classification == Absent {
			want = "implies `ok` is false"
		}
		require.Equal(t, want, traces[0][0].Message)
	}
}

func TestExplore_InfeasiblePathsArePruned(t *testing.T) {
	t.Parallel()

	p := buildProgram(t)

	o := &observer{callee: "use"}
	p.explore(t, "infeasible", o)
	require.Empty(t, o.observations)

	// A non-nil pointer converted to an interface is never equal to a nil interface.
	o = &observer{callee: "mark"}
	p.explore(t, "boxed", o)
	require.Empty(t, o.observations)
}

func TestExplore_Heap(t *testing.T) {
	t.Parallel()

	p := buildProgram(t)

	o := &observer{callee: "use"}
	p.explore(t, "heapLoad", o)
	require.Equal(t, []Classification{Absent}, o.classifications())

	o = &observer{callee: "use"}
	p.explore(t, "heapInvalidated", o)
	require.Equal(t, []Classification{Unknown}, o.classifications())
}

func TestExplore_StoresForgetAliasedAddresses(t *testing.T) {
	t.Parallel()

	p := buildProgram(t)

	// q may point to b.p, so b.p must be reloaded after the store.
	o := &observer{callee: "use"}
	p.explore(t, "aliasedStore", o)
	require.Equal(t, []Classification{Unknown}, o.classifications())

	// Fields of distinct allocations never alias.
	o = &observer{callee: "use"}
	p.explore(t, "distinctAllocations", o)
	require.Equal(t, []Classification{Absent}, o.classifications())
}

func TestExplore_PureCallsKeepTheHeap(t *testing.T) {
	t.Parallel()

	p := buildProgram(t)
	o := &observer{callee: "use"}
	e := New(Config{PureCall: func(c *ssa.CallCommon) bool {
		callee := c.StaticCallee()
		return callee != nil && callee.Name() == "touch"
	}})
	_, err := e.Explore(context.Background(), p.funcs["heapInvalidated"], o)
	require.NoError(t, err)
	require.Equal(t, []Classification{Absent}, o.classifications())
}

func TestExplore_PhiTakesTheIncomingIdentity(t *testing.T) {
	t.Parallel()

	p := buildProgram(t)
	o := &observer{callee: "use"}
	p.explore(t, "phi", o)

	require.Equal(t, []Classification{Present, Present}, o.classifications())
	require.NotEqual(t, o.observations[0].id, o.observations[1].id)
}

func TestExplore_LoopsAreBounded(t *testing.T) {
	t.Parallel()

	p := buildProgram(t)
	graph := p.explore(t, "loop", nil)

	require.NotEmpty(t, graph.Nodes)
	require.Equal(t, len(graph.Nodes), graph.Steps)
	for _, n := range graph.Nodes {
		require.LessOrEqual(t, n.State.Visits(n.Block), DefaultMaxBlockVisits)
	}
}

func TestExplore_Budget(t *testing.T) {
	t.Parallel()

	p := buildProgram(t)
	e := New(Config{MaxSteps: 1})
	graph, err := e.Explore(context.Background(), p.funcs["nilCheck"], nil)
	require.ErrorIs(t, err, ErrBudgetExceeded)
	require.Nil(t, graph)
}

func TestExplore_Cancellation(t *testing.T) {
	t.Parallel()

	p := buildProgram(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	graph, err := New(Config{}).Explore(ctx, p.funcs["nilCheck"], nil)
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, graph)
}

func TestArena(t *testing.T) {
	t.Parallel()

	p := buildProgram(t)
	fn := p.funcs["commaOk"]

	a := NewArena()
	nilConst := ssa.NewConst(nil, types.NewPointer(types.Typ[types.Int]))
	trueConst := ssa.NewConst(constant.MakeBool(true), types.Typ[types.Bool])
	require.Equal(t, a.constIdentity(nilConst), a.constIdentity(nilConst))
	require.Equal(t, Nil, a.Intrinsic(a.constIdentity(nilConst)))
	require.Equal(t, Unconstrained, a.Intrinsic(a.stableIdentity(fn.Params[0])))
	require.Equal(t, NonNil, a.Intrinsic(a.stableIdentity(fn)))
	require.Equal(t, True, a.Intrinsic(a.constIdentity(trueConst)))
	require.NotEqual(t, a.constIdentity(nilConst), a.constIdentity(trueConst))

	tuple := a.stableIdentity(fn.Params[0])
	_, ok := a.PresenceFlag(tuple)
	require.False(t, ok)
	flag := a.extractIdentity(tuple, 1)
	got, ok := a.PresenceFlag(tuple)
	require.True(t, ok)
	require.Equal(t, flag, got)
	require.Equal(t, "m", a.Label(tuple))
	require.Equal(t, 5, a.Len())
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
