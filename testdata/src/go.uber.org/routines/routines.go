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
This package tests that every kind of routine is analyzed on its own: methods, function literals,
loops, and calls through interfaces.
*/
package routines

import "sync"

type Store interface {
	Lookup(key string) (any, bool)
	Set(key string, value any)
}

func viaInterface(s Store, k string) {
	if _, ok := s.Lookup(k); !ok { // want `replace this .Lookup\(\). and condition with a single atomic insert-if-absent operation`
		s.Set(k, 1)
	}
}

func closure(m *sync.Map) func(string) {
	return func(k string) {
		if _, ok := m.Load(k); !ok { // want `replace this .Load\(\). and condition with a call to .LoadOrStore\(\).`
			m.Store(k, true)
		}
	}
}

func loop(m *sync.Map, keys []string) {
	for _, k := range keys {
		if _, ok := m.Load(k); !ok { // want `replace this .Load\(\). and condition with a call to .LoadOrStore\(\).`
			m.Store(k, 1)
		}
	}
}

type service struct {
	seen sync.Map
}

func (s *service) observe(k string) {
	if _, ok := s.seen.Load(k); ok { // want `replace this .Load\(\). and condition with a call to .CompareAndSwap\(\).`
		s.seen.Store(k, 2)
	}
}

// lookupOnly and insertOnly split the pair over two routines, which is never reported.
func lookupOnly(m *sync.Map, k string) bool {
	_, ok := m.Load(k)
	return ok
}

func insertOnly(m *sync.Map, k string) {
	if !lookupOnly(m, k) {
		m.Store(k, 1)
	}
}
