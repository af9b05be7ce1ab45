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

// Package accumulation drives the analysis of one package: it explores every in-scope routine
// concurrently, runs the detector over each exploded graph, and collects the resulting findings
// as diagnostics for the upper-level analyzer to report.
package accumulation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime/debug"
	"sync"

	"go.uber.org/getput/config"
	"go.uber.org/getput/detector"
	"go.uber.org/getput/diagnostic"
	"go.uber.org/getput/engine"
	"go.uber.org/getput/graphdump"
	"go.uber.org/getput/matcher"
	"go.uber.org/getput/util/analysishelper"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/buildssa"
	"golang.org/x/tools/go/ssa"
)

const _doc = "Explore every routine of this package symbolically, track container lookups and the" +
	" insertions that follow them under the same key, and collect the redundant lookup-then-insert" +
	" sequences as diagnostics that a later analyzer will report"

// Analyzer collects the findings of all routines in the package.
var Analyzer = &analysis.Analyzer{
	Name:       "getput_accumulation_analyzer",
	Doc:        _doc,
	Run:        run,
	Requires:   []*analysis.Analyzer{config.Analyzer, buildssa.Analyzer, diagnostic.NoLintAnalyzer},
	ResultType: reflect.TypeOf(([]analysis.Diagnostic)(nil)),
}

// routineResult is the outcome of analyzing a single routine.
type routineResult struct {
	findings []detector.Finding
	err      error
	// index is the position of the routine in the package's source order, so that findings are
	// collected as if the routines were analyzed serially.
	index int
}

func run(p *analysis.Pass) (result interface{}, _ error) {
	// As a last resort, we recover from a panic when running the analyzer, convert the panic to
	// a diagnostic and return.
	defer func() {
		if r := recover(); r != nil {
			// Diagnostics with invalid positions (<= 0) will be silently suppressed, so here we use 1.
			d := analysis.Diagnostic{Pos: 1, Message: fmt.Sprintf("INTERNAL PANIC: %s\n%s", r, string(debug.Stack()))}
			if diagnostics, ok := result.([]analysis.Diagnostic); ok {
				result = append(diagnostics, d)
			} else {
				result = []analysis.Diagnostic{d}
			}
		}
	}()

	pass := analysishelper.NewEnhancedPass(p)
	conf := pass.ResultOf[config.Analyzer].(*config.Config)
	if !conf.IsPkgInScope(pass.Pkg) {
		// Must return a typed nil since the driver is using reflection to retrieve the result.
		return ([]analysis.Diagnostic)(nil), nil
	}

	noLint, err := analysishelper.ResultOf[[]diagnostic.Range](pass.Pass, diagnostic.NoLintAnalyzer)
	if err != nil {
		return errorsToDiagnostics([]error{err}), nil
	}

	m, err := matcher.New(conf.Containers)
	if err != nil {
		return errorsToDiagnostics([]error{err}), nil
	}
	eng := engine.New(engine.Config{
		MaxSteps:       conf.MaxSteps,
		MaxBlockVisits: conf.MaxBlockVisits,
		// Lookups only read the container, so what is known about the heap survives them.
		PureCall: m.IsLookup,
		FileOf:   pass.FileOf,
	})

	ctx := context.Background()
	if conf.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, conf.Timeout)
		defer cancel()
	}

	var wg sync.WaitGroup
	funcChan := make(chan routineResult)
	routines := routinesOf(pass, conf)
	for i, fn := range routines {
		wg.Add(1)
		go analyzeRoutine(ctx, pass, conf, eng, m, fn, i, funcChan, &wg)
	}

	// Close the channel once all analyses are done so that the receive loop below terminates.
	go func() {
		wg.Wait()
		close(funcChan)
	}()

	var errs []error
	routineFindings := make([][]detector.Finding, len(routines))
	for r := range funcChan {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		routineFindings[r.index] = r.findings
	}

	diagEngine := diagnostic.NewEngine(pass, noLint)
	for _, findings := range routineFindings {
		for _, f := range findings {
			diagEngine.AddFinding(f)
		}
	}
	return append(diagEngine.Diagnostics(), errorsToDiagnostics(errs)...), nil
}

// routinesOf returns the source routines of the package that are in scope for the analysis, in
// source order. Function literals follow their enclosing routine.
func routinesOf(pass *analysishelper.EnhancedPass, conf *config.Config) []*ssa.Function {
	var routines []*ssa.Function
	for _, fn := range pass.ResultOf[buildssa.Analyzer].(*buildssa.SSA).SrcFuncs {
		// Skip declarations without a body.
		if len(fn.Blocks) == 0 {
			continue
		}
		file := pass.FileOf(fn.Pos())
		if file == nil || !conf.IsFileInScope(file) {
			continue
		}
		routines = append(routines, fn)
	}
	return routines
}

func analyzeRoutine(
	ctx context.Context,
	pass *analysishelper.EnhancedPass,
	conf *config.Config,
	eng *engine.Engine,
	m *matcher.Matcher,
	fn *ssa.Function,
	index int,
	funcChan chan routineResult,
	wg *sync.WaitGroup,
) {
	defer wg.Done()
	state := detector.NewRoutineState(m)
	// As a last resort, convert the panics into errors and return.
	defer func() {
		if r := recover(); r != nil {
			e := fmt.Errorf("INTERNAL PANIC: %s\n%s", r, string(debug.Stack()))
			funcChan <- routineResult{err: e, index: index}
		}
	}()

	graph, err := eng.Explore(ctx, fn, state)
	switch {
	case errors.Is(err, engine.ErrBudgetExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		// Partial explorations say nothing about the routine, so nothing is reported for it.
		state.Discard()
		funcChan <- routineResult{index: index}
		return
	case err != nil:
		state.Discard()
		pos := pass.Fset.Position(fn.Pos())
		funcChan <- routineResult{
			err:   fmt.Errorf("analyzing routine %s at %s:%d.%d: %w", fn.Name(), pos.Filename, pos.Line, pos.Column, err),
			index: index,
		}
		return
	}

	if conf.DumpGraphDir != "" {
		if _, err := graphdump.Write(conf.DumpGraphDir, graphdump.Summarize(pass.Fset, graph)); err != nil {
			state.Discard()
			funcChan <- routineResult{err: err, index: index}
			return
		}
	}

	funcChan <- routineResult{findings: state.End(graph), index: index}
}

// errorsToDiagnostics converts the internal errors to a slice of analysis.Diagnostic to be reported.
func errorsToDiagnostics(errs []error) []analysis.Diagnostic {
	diagnostics := make([]analysis.Diagnostic, len(errs))
	for i, err := range errs {
		// Diagnostics with invalid positions (<= 0) will be silently suppressed, so here we use 1.
		diagnostics[i] = analysis.Diagnostic{Pos: 1, Message: "INTERNAL ERROR: " + err.Error()}
	}
	return diagnostics
}
