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

package config

import (
	"flag"
	"fmt"
	"reflect"
	"strings"
	"time"

	"golang.org/x/tools/go/analysis"
)

// Analyzer is an analyzer that does not perform any analysis but only gathers configurations
// from the flags and exports them as a *Config for the other analyzers.
var Analyzer = &analysis.Analyzer{
	Name:       "getput_config",
	Doc:        "Config analyzer is a special analyzer that sets up and exports the configurations for the other analyzers",
	Run:        run,
	Flags:      newFlagSet(),
	ResultType: reflect.TypeOf((*Config)(nil)),
}

const (
	// PrettyPrintFlag is the flag for pretty printing the error messages.
	PrettyPrintFlag = "pretty-print"
	// IncludePkgsFlag is the flag name for include package prefixes.
	IncludePkgsFlag = "include-pkgs"
	// ExcludePkgsFlag is the flag name for exclude package prefixes.
	ExcludePkgsFlag = "exclude-pkgs"
	// ExcludeFileDocStringsFlag is the flag name for the docstrings that exclude files from analysis.
	ExcludeFileDocStringsFlag = "exclude-file-docstrings"
	// ContainersFlag is the flag name for the YAML file with additional container specs.
	ContainersFlag = "containers"
	// MaxStepsFlag is the flag name for the per-routine exploration budget.
	MaxStepsFlag = "max-steps"
	// MaxBlockVisitsFlag is the flag name for the per-path loop unrolling bound.
	MaxBlockVisitsFlag = "max-block-visits"
	// TimeoutFlag is the flag name for the per-package time budget.
	TimeoutFlag = "timeout"
	// DumpGraphDirFlag is the flag name for the directory receiving exploded graph dumps.
	DumpGraphDirFlag = "dump-graph-dir"
)

func newFlagSet() flag.FlagSet {
	fs := flag.NewFlagSet("getput_config", flag.ExitOnError)

	// We do not keep the returned pointer to the flags because we will not use them directly here.
	// Instead, we will use the flags through the analyzer's Flags field later.
	_ = fs.Bool(PrettyPrintFlag, true, "Pretty print the error messages")
	_ = fs.String(IncludePkgsFlag, "", "Comma-separated list of package prefixes to analyze (all packages if empty)")
	_ = fs.String(ExcludePkgsFlag, "", "Comma-separated list of package prefixes to exclude from analysis, takes precedence over include-pkgs")
	_ = fs.String(ExcludeFileDocStringsFlag, "", "Comma-separated list of docstrings to exclude from analysis")
	_ = fs.String(ContainersFlag, "", "Path to a YAML file with additional container specs")
	_ = fs.Int(MaxStepsFlag, DefaultMaxSteps, "Maximum number of exploration steps for a single function")
	_ = fs.Int(MaxBlockVisitsFlag, DefaultMaxBlockVisits, "Maximum number of times a single path may enter the same block")
	_ = fs.Duration(TimeoutFlag, DefaultTimeout, "Time budget for analyzing all functions of a package")
	_ = fs.String(DumpGraphDirFlag, "", "Directory to dump the exploded graph of every analyzed function to (for debugging)")

	return *fs
}

func run(pass *analysis.Pass) (any, error) {
	// Set up default values for the config.
	conf := &Config{
		PrettyPrint:    true,
		MaxSteps:       DefaultMaxSteps,
		MaxBlockVisits: DefaultMaxBlockVisits,
		Timeout:        DefaultTimeout,
	}

	// Override default values if the user provides flags.
	flags := &pass.Analyzer.Flags
	if prettyPrint, ok := lookup(flags, PrettyPrintFlag).(bool); ok {
		conf.PrettyPrint = prettyPrint
	}
	if include, ok := lookup(flags, IncludePkgsFlag).(string); ok {
		conf.includePkgs = splitList(include)
	}
	if exclude, ok := lookup(flags, ExcludePkgsFlag).(string); ok {
		conf.excludePkgs = splitList(exclude)
	}
	if docstrings, ok := lookup(flags, ExcludeFileDocStringsFlag).(string); ok {
		conf.excludeFileDocStrings = splitList(docstrings)
	}
	if steps, ok := lookup(flags, MaxStepsFlag).(int); ok && steps > 0 {
		conf.MaxSteps = steps
	}
	if visits, ok := lookup(flags, MaxBlockVisitsFlag).(int); ok && visits > 0 {
		conf.MaxBlockVisits = visits
	}
	if timeout, ok := lookup(flags, TimeoutFlag).(time.Duration); ok && timeout > 0 {
		conf.Timeout = timeout
	}
	if dir, ok := lookup(flags, DumpGraphDirFlag).(string); ok {
		conf.DumpGraphDir = dir
	}

	if path, ok := lookup(flags, ContainersFlag).(string); ok && path != "" {
		specs, err := LoadContainers(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", ContainersFlag, err)
		}
		conf.Containers = append(conf.Containers, specs...)
	}
	conf.Containers = append(conf.Containers, DefaultContainers...)

	return conf, nil
}

// lookup returns the current value of the named flag, or nil if the flag does not exist.
func lookup(fs *flag.FlagSet, name string) any {
	f := fs.Lookup(name)
	if f == nil {
		return nil
	}
	getter, ok := f.Value.(flag.Getter)
	if !ok {
		return nil
	}
	return getter.Get()
}

// splitList splits a comma-separated list, dropping empty elements.
func splitList(s string) []string {
	var list []string
	for _, e := range strings.Split(s, ",") {
		if e = strings.TrimSpace(e); e != "" {
			list = append(list, e)
		}
	}
	return list
}
