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

package analysishelper

import (
	"go/ast"
	"go/token"
	"sort"

	"golang.org/x/tools/go/analysis"
)

// EnhancedPass is a drop-in replacement for `*analysis.Pass` that provides additional helper methods
// to make it easier to work with the analysis pass.
type EnhancedPass struct {
	*analysis.Pass

	// files holds pass.Files sorted by their starting position for FileOf lookups.
	files []*ast.File
}

// NewEnhancedPass creates a new EnhancedPass from the given *analysis.Pass.
func NewEnhancedPass(pass *analysis.Pass) *EnhancedPass {
	files := make([]*ast.File, len(pass.Files))
	copy(files, pass.Files)
	sort.Slice(files, func(i, j int) bool { return files[i].FileStart < files[j].FileStart })
	return &EnhancedPass{Pass: pass, files: files}
}

// FileOf returns the syntax tree of the package file that contains pos, or nil if pos is not
// within any file of the current package (e.g., synthesized code or upstream positions).
func (p *EnhancedPass) FileOf(pos token.Pos) *ast.File {
	if !pos.IsValid() {
		return nil
	}
	i := sort.Search(len(p.files), func(i int) bool { return p.files[i].FileEnd >= pos })
	if i < len(p.files) && p.files[i].FileStart <= pos {
		return p.files[i]
	}
	return nil
}
