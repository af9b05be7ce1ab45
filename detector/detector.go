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

// Package detector detects a lookup on a key-value container followed, on the same path, by an
// insertion into the same container with the same key, where the lookup result is provably absent
// (or present) at the insertion. Such sequences can be replaced by a single atomic
// insert-if-absent (or update-if-present) operation.
//
// The detector is driven by the path exploration of the engine package: it records lookups after
// they are evaluated, correlates insertions with recorded lookups before they are evaluated, and
// turns every correlated pair whose lookup result is classified on the current path into a
// candidate. Once the routine is fully explored, candidates are deduplicated across paths and
// explained.
package detector

import (
	"go.uber.org/getput/engine"
	"go.uber.org/getput/matcher"
	"golang.org/x/tools/go/ssa"
)

// Matcher recognizes lookups and insertions on key-value containers.
type Matcher interface {
	MatchLookup(call *ssa.CallCommon) (matcher.Operands, bool)
	MatchInsertion(call *ssa.CallCommon) (matcher.Operands, bool)
}

// Explainer provides the minimal justification of the classification of a value at a node.
// *engine.Graph implements it.
type Explainer interface {
	Justify(node *engine.Node, id engine.Identity) []engine.Trace
}

// Site is a lookup or insertion call site.
type Site struct {
	Call *ssa.Call
	matcher.Operands
}

// Candidate is a correlated lookup and insertion whose lookup result is classified at the
// insertion on one explored path. Candidates are never modified once created.
type Candidate struct {
	// Node is the exploded graph node of the insertion on the path the candidate was found on.
	Node *engine.Node
	// Lookup is the lookup call site.
	Lookup Site
	// Insertion is the insertion call site.
	Insertion Site
	// Result is the identity of the lookup result.
	Result engine.Identity
	// Classification is the classification of Result at Node.
	Classification engine.Classification
}

// RoutineState holds the detector state for the analysis of a single routine. It implements
// engine.Checker. A RoutineState must be created for every routine and must not be shared by
// concurrent explorations; once End or Discard is called it must not be used anymore.
type RoutineState struct {
	matcher    Matcher
	recorder   *recorder
	candidates []Candidate
	finished   bool
}

// NewRoutineState creates the detector state for a routine about to be explored.
func NewRoutineState(m Matcher) *RoutineState {
	return &RoutineState{matcher: m, recorder: newRecorder()}
}

var _ engine.Checker = (*RoutineState)(nil)

// PostStatement records call if it is a lookup.
func (r *RoutineState) PostStatement(ps engine.PathState, call *ssa.Call) {
	r.mustBeActive()

	ops, ok := r.matcher.MatchLookup(call.Common())
	if !ok {
		return
	}
	r.recorder.record(ps.Identity(ops.Container), ps.Identity(ops.Key), ps.Identity(call), Site{Call: call, Operands: ops})
}

// PreStatement correlates call with the recorded lookups if it is an insertion, and creates a
// candidate if the lookup result is classified on the current path.
func (r *RoutineState) PreStatement(ps engine.PathState, call *ssa.Call) {
	r.mustBeActive()

	ops, ok := r.matcher.MatchInsertion(call.Common())
	if !ok {
		return
	}
	lookup, ok := r.recorder.correlate(ps.Identity(ops.Container), ps.Identity(ops.Key))
	if !ok {
		return
	}
	classification := ps.Classify(lookup.result)
	if classification == engine.Unknown {
		// The pair is not provably redundant on this path.
		return
	}
	r.candidates = append(r.candidates, Candidate{
		Node:           ps.Node(),
		Lookup:         lookup.site,
		Insertion:      Site{Call: call, Operands: ops},
		Result:         lookup.result,
		Classification: classification,
	})
}

// End finishes the analysis of the routine: it deduplicates the candidates across paths and
// returns the explained findings, in the order their lookups were first found redundant.
func (r *RoutineState) End(explainer Explainer) []Finding {
	r.mustBeActive()
	defer r.release()

	retained := deduplicate(r.candidates)
	if len(retained) == 0 {
		return nil
	}
	findings := make([]Finding, 0, len(retained))
	for _, c := range retained {
		key, msg := message(c)
		findings = append(findings, Finding{
			Candidate: c,
			Key:       key,
			Message:   msg,
			Traces:    explain(explainer, c),
		})
	}
	return findings
}

// Discard drops all partial state of the routine, e.g., after its exploration was aborted.
func (r *RoutineState) Discard() {
	r.mustBeActive()
	r.release()
}

func (r *RoutineState) release() {
	r.finished = true
	r.recorder = nil
	r.candidates = nil
}

// mustBeActive panics if the state is used after the end of its routine. Sharing detector state
// across routines is an integration bug of the host, not a condition to recover from.
func (r *RoutineState) mustBeActive() {
	if r.finished {
		panic("detector: routine state used after the end of its routine")
	}
}
