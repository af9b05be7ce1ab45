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

import "time"

// This file hosts non-user-configurable parameters --- these are for development and testing purposes only.

const uberPkgPathPrefix = "go.uber.org"

// GetPutPkgPathPrefix is the package prefix for GetPut.
const GetPutPkgPathPrefix = uberPkgPathPrefix + "/getput"

// DefaultMaxSteps is the default number of exploration steps allowed for a single routine.
const DefaultMaxSteps = 16000

// DefaultMaxBlockVisits is the default number of times a single path may enter the same block.
const DefaultMaxBlockVisits = 2

// DefaultTimeout is the default time budget for analyzing all routines of one package. Routines
// whose exploration does not finish in time are skipped silently.
const DefaultTimeout = 30 * time.Second

// DirLevelsToPrintForTriggers controls the number of enclosing directories to print when referring
// to the locations that explain a finding - right now it seems as if 1 is sufficient disambiguation,
// but feel free to increase.
const DirLevelsToPrintForTriggers = 1
