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

// Package analysishelper provides helper functions for the `go/analysis` package.
package analysishelper

import (
	"fmt"
	"runtime/debug"

	"golang.org/x/tools/go/analysis"
)

// Result is the result of a sub-analyzer run through WrapRun. Errors travel in the result
// instead of failing the analysis, so that the upper-level analyzer decides what to do with them.
type Result[T any] struct {
	// Res is the actual result from the sub-analyzer.
	Res T
	// Err is the optional error from the sub-analyzer.
	Err error
}

// WrapRun adapts f to the run function of an analyzer whose ResultType is *Result[T]. Errors
// returned by f, and panics recovered from it (with their stack traces), are prefixed with the
// analyzer name and stored in Result.Err.
func WrapRun[T any](f func(*analysis.Pass) (T, error)) func(*analysis.Pass) (any, error) {
	return func(pass *analysis.Pass) (wrapped any, _ error) {
		name := ""
		if pass != nil && pass.Analyzer != nil {
			name = pass.Analyzer.Name
		}

		// The result is returned even if f panics.
		result := &Result[T]{}
		wrapped = result
		defer func() {
			if r := recover(); r != nil {
				result.Err = fmt.Errorf("INTERNAL PANIC from %q: %s\n%s", name, r, string(debug.Stack()))
			}
		}()

		res, err := f(pass)
		if err != nil {
			err = fmt.Errorf("%s: %w", name, err)
		}
		result.Res, result.Err = res, err
		return result, nil
	}
}

// ResultOf returns the result of the required analyzer a, which must run through WrapRun with the
// result type T.
func ResultOf[T any](pass *analysis.Pass, a *analysis.Analyzer) (T, error) {
	r, ok := pass.ResultOf[a].(*Result[T])
	if !ok {
		var zero T
		return zero, fmt.Errorf("unexpected result type %T of analyzer %q", pass.ResultOf[a], a.Name)
	}
	return r.Res, r.Err
}
