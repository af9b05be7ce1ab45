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

// main package makes it possible to build GetPut as a standalone code checker that can be
// independently invoked to check other packages.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/getput"
	"go.uber.org/getput/config"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/singlechecker"
)

// Analyzer wraps getput.Analyzer with a run function that filters the reported diagnostics by
// file, since the singlechecker does not support error suppression like other linter drivers.
var Analyzer = &analysis.Analyzer{
	Name:       getput.Analyzer.Name,
	Doc:        getput.Analyzer.Doc,
	Run:        run,
	FactTypes:  getput.Analyzer.FactTypes,
	ResultType: getput.Analyzer.ResultType,
	Requires:   getput.Analyzer.Requires,
}

var (
	// _includeErrorsInFiles is a driver flag for specifying the list of file prefixes to only report errors.
	_includeErrorsInFiles string
	// _excludeErrorsInFiles is a driver flag for specifying the list of file prefixes to not report errors.
	_excludeErrorsInFiles string
)

func run(pass *analysis.Pass) (interface{}, error) {
	includes, err := parseFilePrefixes(_includeErrorsInFiles)
	if err != nil {
		return nil, fmt.Errorf("parse file prefixes for error inclusion: %w", err)
	}
	excludes, err := parseFilePrefixes(_excludeErrorsInFiles)
	if err != nil {
		return nil, fmt.Errorf("parse file prefixes for error exclusion: %w", err)
	}

	report := pass.Report
	pass.Report = func(d analysis.Diagnostic) {
		if reportable(pass.Fset.File(d.Pos).Name(), includes, excludes) {
			report(d)
		}
	}

	return getput.Analyzer.Run(pass)
}

// reportable returns whether diagnostics in the file at path should be reported: the path must
// start with one of the included prefixes and none of the excluded ones.
func reportable(path string, includes, excludes []string) bool {
	for _, e := range excludes {
		if strings.HasPrefix(path, e) {
			return false
		}
	}
	for _, i := range includes {
		if strings.HasPrefix(path, i) {
			return true
		}
	}
	return false
}

// parseFilePrefixes parses the comma-separated list of file prefixes, converts them to absolute
// file paths, and returns them as a slice.
func parseFilePrefixes(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}

	list := strings.Split(s, ",")
	for i := range list {
		p, err := filepath.Abs(list[i])
		if err != nil {
			return nil, fmt.Errorf("convert %q to absolute path: %w", list[i], err)
		}
		list[i] = p
	}
	return list, nil
}

func main() {
	// Lift the flags of config.Analyzer to the top level, so that users can write
	// `getput -max-steps 1000 ./...` instead of `getput -getput_config.max-steps 1000 ./...`.
	config.Analyzer.Flags.VisitAll(func(f *flag.Flag) { flag.Var(f.Value, f.Name, f.Usage) })

	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get working directory: %v\n", err)
		os.Exit(1)
	}
	flag.StringVar(&_includeErrorsInFiles, "include-errors-in-files", wd, "A comma-separated list of file prefixes to report errors, default is current working directory.")
	flag.StringVar(&_excludeErrorsInFiles, "exclude-errors-in-files", "", "A comma-separated list of file prefixes to exclude from error reporting. This takes precedence over include-errors-in-files.")

	singlechecker.Main(Analyzer)
}
