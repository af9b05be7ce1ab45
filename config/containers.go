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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// ContainerSpec describes a family of key-value container types: the methods used to look up and
// insert values, and the atomic methods that can replace a lookup followed by an insertion.
type ContainerSpec struct {
	// Type is a regular expression matched against "<pkg path>.<type name>" of the receiver of
	// the lookup and insertion calls. An empty Type matches any receiver type, including
	// interfaces.
	Type string `yaml:"type"`
	// Lookup lists the names of the lookup methods (e.g., "Get", "Load").
	Lookup []string `yaml:"lookup"`
	// Insert lists the names of the insertion methods (e.g., "Put", "Store").
	Insert []string `yaml:"insert"`
	// AbsentFill lists the names of the atomic insert-if-absent methods (e.g., "LoadOrStore").
	// The first one declared by the container type is suggested.
	AbsentFill []string `yaml:"absent-fill"`
	// PresentUpdate lists the names of the atomic update-if-present methods (e.g.,
	// "CompareAndSwap"). The first one declared by the container type is suggested.
	PresentUpdate []string `yaml:"present-update"`
}

// Validate checks that the spec can be used for matching.
func (s ContainerSpec) Validate() error {
	if _, err := regexp.Compile(s.Type); err != nil {
		return fmt.Errorf("invalid type pattern %q: %w", s.Type, err)
	}
	if len(s.Lookup) == 0 {
		return fmt.Errorf("container %q: no lookup method", s.Type)
	}
	if len(s.Insert) == 0 {
		return fmt.Errorf("container %q: no insertion method", s.Type)
	}
	return nil
}

// DefaultContainers are the container specs always in effect: the standard library's sync.Map,
// and any other type exposing one of the conventional lookup / insertion method pairs.
var DefaultContainers = []ContainerSpec{
	{
		Type:          `^sync\.Map$`,
		Lookup:        []string{"Load"},
		Insert:        []string{"Store"},
		AbsentFill:    []string{"LoadOrStore"},
		PresentUpdate: []string{"CompareAndSwap"},
	},
	{
		Lookup:        []string{"Get", "Load", "Lookup"},
		Insert:        []string{"Put", "Set", "Store"},
		AbsentFill:    []string{"LoadOrStore", "PutIfAbsent", "SetIfAbsent", "GetOrSet", "ComputeIfAbsent"},
		PresentUpdate: []string{"CompareAndSwap", "ComputeIfPresent", "Update"},
	},
}

// containersFile is the layout of the YAML file given by the containers flag.
type containersFile struct {
	Containers []ContainerSpec `yaml:"containers"`
}

// LoadContainers reads the container specs from the YAML file at path. Unknown fields are
// rejected so that typos do not silently disable a spec.
func LoadContainers(path string) ([]ContainerSpec, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read containers file: %w", err)
	}
	return ParseContainers(content)
}

// ParseContainers parses container specs from YAML content.
func ParseContainers(content []byte) ([]ContainerSpec, error) {
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	var f containersFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode containers: %w", err)
	}
	var errs []error
	for _, spec := range f.Containers {
		if err := spec.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return f.Containers, nil
}
