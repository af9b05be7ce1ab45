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

/*
This package tests the suppression of diagnostics with nolint comments.
*/
package nolint

import "sync"

func suppressedStatement(m *sync.Map, k string) {
	//nolint:getput
	if _, ok := m.Load(k); !ok {
		m.Store(k, 1)
	}
}

func suppressedInline(m *sync.Map, k string) {
	_, ok := m.Load(k) //nolint:all // the value is cheap to recompute
	if !ok {
		m.Store(k, 1)
	}
}

func otherLinter(m *sync.Map, k string) {
	//nolint:revive
	if _, ok := m.Load(k); !ok { // want `replace this .Load\(\). and condition with a call to .LoadOrStore\(\).`
		m.Store(k, 1)
	}
}
