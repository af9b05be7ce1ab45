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
This package tests lookup and insertion pairs that must not be reported.
*/
package nonredundant

import "sync"

var sideEffects int

func touch() {
	sideEffects++
}

func unconditional(m *sync.Map, k string, v int) {
	m.Load(k)
	m.Store(k, v)
}

func overwrite(m *sync.Map, k string, v, w int) {
	if _, ok := m.Load(k); ok {
		v = w
	}
	m.Store(k, v)
}

func differentKey(m *sync.Map, k, j string) {
	if _, ok := m.Load(k); !ok {
		m.Store(j, 1)
	}
}

func differentContainer(m, n *sync.Map, k string) {
	if _, ok := m.Load(k); !ok {
		n.Store(k, 1)
	}
}

type holder struct {
	key string
}

func keyReloadedAfterCall(m *sync.Map, h *holder) {
	if _, ok := m.Load(h.key); !ok {
		touch()
		m.Store(h.key, 1)
	}
}

// keyOverwrittenThroughAlias may insert under a different key: p can point to h.key.
func keyOverwrittenThroughAlias(m *sync.Map, h *holder, p *string) {
	if _, ok := m.Load(h.key); !ok {
		*p = "other"
		m.Store(h.key, 1)
	}
}

func keyOverwrittenThroughOtherHolder(m *sync.Map, h, other *holder) {
	if _, ok := m.Load(h.key); !ok {
		other.key = "other"
		m.Store(h.key, 1)
	}
}

func infeasible(m *sync.Map, k string) {
	if _, ok := m.Load(k); !ok {
		if ok {
			m.Store(k, 1)
		}
	}
}

func builtinMap(cache map[string]int, k string) {
	if _, ok := cache[k]; !ok {
		cache[k] = len(k)
	}
}

func noInsertion(m *sync.Map, k string) int {
	if _, ok := m.Load(k); !ok {
		return 0
	}
	return 1
}
