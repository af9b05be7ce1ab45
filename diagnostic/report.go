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

package diagnostic

import (
	"fmt"
	"go/token"
	"strings"

	"go.uber.org/getput/util"
	"golang.org/x/tools/go/analysis"
)

// report is a finding ready to be rendered.
type report struct {
	pos      token.Pos
	position token.Position
	message  string
	// flows are the alternative explanations of the finding, the first one being the main one.
	flows   []flow
	related []analysis.RelatedInformation
}

func (r *report) String() string {
	var sb strings.Builder
	sb.WriteString(r.message)
	if len(r.flows) > 0 {
		sb.WriteString(". Observed flow from the insertion back to the lookup:")
		sb.WriteString(r.flows[0].String())
	}
	if alternatives := r.flows[min(1, len(r.flows)):]; len(alternatives) > 0 {
		sb.WriteString(fmt.Sprintf("\n\n(Same conclusion also reached through %d other flow(s):", len(alternatives)))
		for i, f := range alternatives {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(f.String())
		}
		sb.WriteString(")")
	}
	sb.WriteString("\n")
	return sb.String()
}

// flow is one explanation of a finding, from the insertion back to the lookup.
type flow struct {
	steps []step
}

func (f *flow) addStep(position token.Position, reason string) {
	f.steps = append(f.steps, step{position: util.TruncatePosition(position), reason: reason})
}

// String converts a flow to a string representation, where each entry is of the form: `<pos>: <reason>`
func (f *flow) String() string {
	lines := make([]string, 0, len(f.steps))
	for _, s := range f.steps {
		lines = append(lines, s.String())
	}
	return "\n" + strings.Join(lines, "\n")
}

type step struct {
	position token.Position
	reason   string
}

func (s *step) String() string {
	posStr := "<no pos info>"
	if s.position.IsValid() {
		posStr = s.position.String()
	}
	return fmt.Sprintf("\t- %s: %s", posStr, s.reason)
}
