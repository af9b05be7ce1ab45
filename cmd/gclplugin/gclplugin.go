//  Copyright (c) 2024 Uber Technologies, Inc.
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

// Package gclplugin implements the golangci-lint's module plugin interface for GetPut to be used
// as a private linter in golangci-lint. See more details at
// https://golangci-lint.run/plugins/module-plugins/.
package gclplugin

import (
	"fmt"
	"strconv"

	"github.com/golangci/plugin-module-register/register"
	"go.uber.org/getput"
	"go.uber.org/getput/config"
	"golang.org/x/tools/go/analysis"
)

func init() {
	register.Plugin("getput", New)
}

// New returns the golangci-lint plugin that wraps the GetPut analyzer. The settings are the
// command line flags of GetPut; scalar YAML values (e.g., `max-steps: 1000`) are accepted
// along with strings.
func New(settings any) (register.LinterPlugin, error) {
	s, ok := settings.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expect GetPut's configurations to be a map from flag names to "+
			"values (similar to command line flags), got %T", settings)
	}
	conf := make(map[string]string, len(s))
	for k, v := range s {
		switch v := v.(type) {
		case string:
			conf[k] = v
		case bool:
			conf[k] = strconv.FormatBool(v)
		case int:
			conf[k] = strconv.Itoa(v)
		default:
			return nil, fmt.Errorf("expect GetPut's configuration value for %q to be a string, bool or int, got %T", k, v)
		}
	}

	return &GetPutPlugin{conf: conf}, nil
}

// GetPutPlugin is the GetPut plugin wrapper for golangci-lint.
type GetPutPlugin struct {
	conf map[string]string
}

// BuildAnalyzers builds the GetPut analyzer with the configurations applied to the config analyzer.
func (p *GetPutPlugin) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	for k, v := range p.conf {
		if err := config.Analyzer.Flags.Set(k, v); err != nil {
			return nil, fmt.Errorf("set config flag %s with %s: %w", k, v, err)
		}
	}

	return []*analysis.Analyzer{getput.Analyzer}, nil
}

// GetLoadMode returns the load mode of the GetPut plugin (requiring types info for SSA).
func (p *GetPutPlugin) GetLoadMode() string { return register.LoadModeTypesInfo }
