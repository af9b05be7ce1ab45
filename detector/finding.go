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

package detector

import (
	"fmt"
	"math/bits"

	"go.uber.org/getput/engine"
	"go.uber.org/getput/util/orderedmap"
	"golang.org/x/tools/go/ssa"
)

// MessageKey identifies the kind of a finding.
type MessageKey string

const (
	// AbsentFill is the key of findings where the lookup result is absent at the insertion.
	AbsentFill MessageKey = "absent-fill"
	// PresentUpdate is the key of findings where the lookup result is present at the insertion.
	PresentUpdate MessageKey = "present-update"
)

// Finding is a deduplicated and explained candidate.
type Finding struct {
	Candidate
	Key     MessageKey
	Message string
	// Traces are the alternative explanations of the finding. Each one starts with the insertion
	// step and ends with the lookup step.
	Traces []engine.Trace
}

// deduplicate keeps, for every lookup site whose candidates all agree on the classification, the
// first candidate of the site. Sites with conflicting classifications are dropped.
func deduplicate(candidates []Candidate) []Candidate {
	type site struct {
		first Candidate
		// seen is the set of classifications of the site's candidates.
		seen uint8
	}
	sites := orderedmap.New[*ssa.Call, *site]()
	for _, c := range candidates {
		s, ok := sites.Load(c.Lookup.Call)
		if !ok {
			s = &site{first: c}
			sites.Store(c.Lookup.Call, s)
		}
		s.seen |= 1 << c.Classification
	}

	var retained []Candidate
	sites.OrderedRange(func(_ *ssa.Call, s *site) bool {
		if bits.OnesCount8(s.seen) == 1 {
			retained = append(retained, s.first)
		}
		return true
	})
	return retained
}

// explain brackets every justification of the candidate's classification with the insertion and
// the lookup steps.
func explain(explainer Explainer, c Candidate) []engine.Trace {
	justifications := explainer.Justify(c.Node, c.Result)
	if len(justifications) == 0 {
		justifications = []engine.Trace{nil}
	}

	insertion := engine.Step{Pos: c.Insertion.Call.Pos(), Message: fmt.Sprintf("`%s()` is invoked with the same key", c.Insertion.Method)}
	lookup := engine.Step{Pos: c.Lookup.Call.Pos(), Message: fmt.Sprintf("`%s()` is invoked", c.Lookup.Method)}
	traces := make([]engine.Trace, 0, len(justifications))
	for _, j := range justifications {
		trace := make(engine.Trace, 0, len(j)+2)
		trace = append(trace, insertion)
		trace = append(trace, j...)
		trace = append(trace, lookup)
		traces = append(traces, trace)
	}
	return traces
}

// message selects the message of a finding by the classification of its candidate.
func message(c Candidate) (MessageKey, string) {
	if c.Classification == engine.Absent {
		return AbsentFill, suggestion(c.Lookup.Method, c.Lookup.AbsentFill, "insert-if-absent")
	}
	return PresentUpdate, suggestion(c.Lookup.Method, c.Lookup.PresentUpdate, "update-if-present")
}

func suggestion(lookup, replacement, operation string) string {
	if replacement == "" {
		return fmt.Sprintf("replace this `%s()` and condition with a single atomic %s operation", lookup, operation)
	}
	return fmt.Sprintf("replace this `%s()` and condition with a call to `%s()`", lookup, replacement)
}
