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

// egraph converts the exploded graphs dumped by GetPut (see the dump-graph-dir flag) into the
// Graphviz DOT language, for debugging the analysis of a single function:
//
//	egraph /tmp/graphs/example.com_cache.LRU.Refresh.egraph.s2 | dot -Tsvg > refresh.svg
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/getput/graphdump"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s <dump%s>...\n", os.Args[0], graphdump.Extension)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	for _, path := range flag.Args() {
		g, err := graphdump.Read(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
			os.Exit(1)
		}
		if err := graphdump.WriteDOT(os.Stdout, g); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
			os.Exit(1)
		}
	}
}
