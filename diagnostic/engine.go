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

// Package diagnostic hosts the diagnostic engine, which is responsible for collecting the findings
// of the detector and generating user-friendly diagnostics from them.
package diagnostic

import (
	"cmp"
	"go/ast"
	"go/token"
	"slices"

	"go.uber.org/getput/detector"
	"go.uber.org/getput/util/analysishelper"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/ssa"
)

// Engine is the main engine for generating diagnostics from findings.
type Engine struct {
	pass    *analysishelper.EnhancedPass
	reports []report
	// noLint lists the scopes where diagnostics are suppressed.
	noLint []Range
}

// NewEngine creates a new diagnostic engine. Diagnostics within the given nolint ranges are
// suppressed.
func NewEngine(pass *analysishelper.EnhancedPass, noLint []Range) *Engine {
	return &Engine{pass: pass, noLint: noLint}
}

// AddFinding adds a finding of the detector to the engine.
func (e *Engine) AddFinding(f detector.Finding) {
	pos := e.lookupPos(f.Lookup.Call)
	r := report{
		pos:      pos,
		position: e.pass.Fset.Position(pos),
		message:  f.Message,
	}
	for _, trace := range f.Traces {
		var fl flow
		for _, step := range trace {
			fl.addStep(e.pass.Fset.Position(step.Pos), step.Message)
		}
		r.flows = append(r.flows, fl)
	}
	if len(f.Traces) > 0 {
		for _, step := range f.Traces[0] {
			if step.Pos.IsValid() {
				r.related = append(r.related, analysis.RelatedInformation{Pos: step.Pos, Message: step.Message})
			}
		}
	}
	e.reports = append(e.reports, r)
}

// Diagnostics generates diagnostics from the internally-stored reports, dropping those within
// nolint ranges. The returned slice of diagnostics are sorted by file names and then offsets in
// the file.
func (e *Engine) Diagnostics() []analysis.Diagnostic {
	slices.SortStableFunc(e.reports, func(a, b report) int {
		if n := cmp.Compare(a.position.Filename, b.position.Filename); n != 0 {
			return n
		}
		return cmp.Compare(a.position.Offset, b.position.Offset)
	})

	diagnostics := make([]analysis.Diagnostic, 0, len(e.reports))
	for _, r := range e.reports {
		if e.suppressed(r.position) {
			continue
		}
		diagnostics = append(diagnostics, analysis.Diagnostic{
			Pos:     r.pos,
			Message: r.String(),
			Related: r.related,
		})
	}
	return diagnostics
}

func (e *Engine) suppressed(position token.Position) bool {
	for _, rng := range e.noLint {
		if rng.Filename == position.Filename && rng.From <= position.Line && position.Line <= rng.To {
			return true
		}
	}
	return false
}

// lookupPos returns the position of the method name of the lookup call (e.g., "Load" in
// "m.Load(k)"), or the position of the call if the syntax is not available.
func (e *Engine) lookupPos(call *ssa.Call) token.Pos {
	pos := call.Pos()
	file := e.pass.FileOf(pos)
	if file == nil {
		return pos
	}
	path, _ := astutil.PathEnclosingInterval(file, pos, pos)
	for _, n := range path {
		if c, ok := n.(*ast.CallExpr); ok && c.Lparen == pos {
			if sel, ok := ast.Unparen(c.Fun).(*ast.SelectorExpr); ok {
				return sel.Sel.Pos()
			}
			break
		}
	}
	return pos
}
