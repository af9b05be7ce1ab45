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
	"go/ast"
	"reflect"
	"strings"

	"go.uber.org/getput/util/analysishelper"
	"golang.org/x/tools/go/analysis"
)

// NoLintAnalyzer is an analyzer that reads all GetPut's nolint comments of a package. Drivers such
// as singlechecker do not respect nolint comments, so GetPut parses them and does the filtering
// itself in [Engine].
var NoLintAnalyzer = &analysis.Analyzer{
	Name:       "getput_nolint_analyzer",
	Doc:        "Read GetPut's nolint comments for GetPut's diagnostic engine.",
	Run:        analysishelper.WrapRun(run),
	Requires:   []*analysis.Analyzer{},
	ResultType: reflect.TypeOf((*analysishelper.Result[[]Range])(nil)),
}

// Range is a minimal struct that stores the filename and the start and end lines of a nolint scope.
type Range struct {
	Filename string
	From, To int
}

func run(pass *analysis.Pass) ([]Range, error) {
	var ranges []Range
	for _, f := range pass.Files {
		// CommentMap will correctly associate comments to the largest node group
		// applicable. This handles inline comments that might trail a large
		// assignment and will apply the comment to the entire assignment.
		commentMap := ast.NewCommentMap(pass.Fset, f, f.Comments)
		for node, groups := range commentMap {
			for _, group := range groups {
				for _, comm := range group.List {
					if !nolintContainsGetPut(comm.Text) {
						continue
					}
					fromPos, toPos := pass.Fset.Position(node.Pos()), pass.Fset.Position(node.End())
					ranges = append(ranges, Range{Filename: fromPos.Filename, From: fromPos.Line, To: toPos.Line})
				}
			}
		}
	}
	return ranges, nil
}

// https://github.com/bazel-contrib/rules_go/blob/eb13b736d9568044427f23359329155e67071948/go/tools/builders/nolint.go#L21

// nolintContainsGetPut checks if the comment is a nolint directive applying to GetPut, i.e., a bare
// "//nolint" or one listing "getput" or "all".
func nolintContainsGetPut(text string) bool {
	text = strings.TrimLeft(text, "/ ")
	if !strings.HasPrefix(text, "nolint") {
		return false
	}

	// strip explanation comments
	split := strings.Split(text, "//")
	text = strings.TrimSpace(split[0])

	parts := strings.Split(text, ":")
	if len(parts) == 1 {
		return true
	}
	for _, linter := range strings.Split(strings.TrimSpace(parts[1]), ",") {
		if strings.EqualFold(linter, "all") || strings.EqualFold(linter, "getput") {
			return true
		}
	}
	return false
}
