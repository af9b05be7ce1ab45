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

// Package config implements the configurations for GetPut. All user-configurable options are
// exposed as flags of the special config Analyzer, whose result is a *Config shared by the other
// analyzers.
package config

import (
	"go/ast"
	"go/types"
	"strings"
	"time"
)

// Config is the struct that stores the user-configurable options for GetPut.
type Config struct {
	// PrettyPrint indicates whether the error messages should be pretty printed.
	PrettyPrint bool

	// Containers lists the container types whose lookups and insertions are checked, in matching
	// order: the specs loaded from the containers file come first, then DefaultContainers.
	Containers []ContainerSpec

	// MaxSteps bounds the number of exploded graph nodes executed for one routine.
	MaxSteps int

	// MaxBlockVisits bounds the number of times one path may enter the same block.
	MaxBlockVisits int

	// Timeout is the time budget for analyzing all routines of one package.
	Timeout time.Duration

	// DumpGraphDir, if not empty, is the directory where the exploded graph of every analyzed
	// routine is dumped.
	DumpGraphDir string

	// includePkgs is the list of packages to analyze (all packages if empty).
	includePkgs []string

	// excludePkgs is the list of packages to exclude from analysis. Exclusion takes precedence
	// over inclusion.
	excludePkgs []string

	// excludeFileDocStrings is the list of docstrings that, if present in a file, exclude the file
	// from analysis.
	excludeFileDocStrings []string
}

// IsPkgInScope returns true iff the passed package is in scope for analysis, i.e., it is included
// (or no inclusion list is given) and not excluded.
func (c *Config) IsPkgInScope(pkg *types.Package) bool {
	if pkg == nil {
		return false
	}
	return c.isPkgPathInScope(pkg.Path())
}

func (c *Config) isPkgPathInScope(path string) bool {
	for _, exclude := range c.excludePkgs {
		if strings.HasPrefix(path, exclude) {
			return false
		}
	}
	if len(c.includePkgs) == 0 {
		return true
	}
	for _, include := range c.includePkgs {
		if strings.HasPrefix(path, include) {
			return true
		}
	}
	return false
}

// IsFileInScope returns true iff the passed file is in scope for analysis: it is not generated and
// none of its comments contains an excluded docstring.
func (c *Config) IsFileInScope(file *ast.File) bool {
	if ast.IsGenerated(file) {
		return false
	}
	for _, docstring := range c.excludeFileDocStrings {
		for _, group := range file.Comments {
			if strings.Contains(group.Text(), docstring) {
				return false
			}
		}
	}
	return true
}
