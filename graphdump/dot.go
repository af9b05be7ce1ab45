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

package graphdump

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteDOT renders g in the Graphviz DOT language. Edges are labeled with the constraints learned
// on them.
func WriteDOT(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "digraph %q {\n", g.Func)
	fmt.Fprintf(bw, "\tlabel=%q;\n", fmt.Sprintf("%s (%d steps, %d identities)", g.Func, g.Steps, g.Identities))
	for _, n := range g.Nodes {
		fmt.Fprintf(bw, "\tn%d [label=\"n%d\\nblock %d\"];\n", n.ID, n.ID, n.Block)
	}
	for _, n := range g.Nodes {
		for _, e := range n.Parents {
			if len(e.Learned) == 0 {
				fmt.Fprintf(bw, "\tn%d -> n%d;\n", e.From, n.ID)
				continue
			}
			labels := make([]string, 0, len(e.Learned))
			for _, l := range e.Learned {
				labels = append(labels, fmt.Sprintf("%s is %s", l.Subject, l.Constraint))
			}
			fmt.Fprintf(bw, "\tn%d -> n%d [label=%q];\n", e.From, n.ID, strings.Join(labels, "\n"))
		}
	}
	bw.WriteString("}\n")
	return bw.Flush()
}
