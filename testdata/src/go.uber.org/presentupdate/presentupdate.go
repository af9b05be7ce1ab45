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
This package tests lookups whose result is known to be present when an insertion follows under the
same key.
*/
package presentupdate

import "sync"

type Entry struct {
	hits int
}

type Registry struct {
	entries map[string]*Entry
}

func (r *Registry) Get(key string) *Entry {
	return r.entries[key]
}

func (r *Registry) Put(key string, e *Entry) {
	r.entries[key] = e
}

func (r *Registry) Update(key string, fn func(*Entry) *Entry) {
	r.entries[key] = fn(r.entries[key])
}

type Counter struct {
	counts map[string]int
}

func (c *Counter) Load(key string) (int, bool) {
	n, ok := c.counts[key]
	return n, ok
}

func (c *Counter) Store(key string, n int) {
	c.counts[key] = n
}

func bump(e *Entry) *Entry {
	return &Entry{hits: e.hits + 1}
}

func commaOk(m *sync.Map, k string, v int) {
	if _, ok := m.Load(k); ok { // want `replace this .Load\(\). and condition with a call to .CompareAndSwap\(\).`
		m.Store(k, v)
	}
}

func nonNilCheck(r *Registry, k string) {
	if e := r.Get(k); e != nil { // want `replace this .Get\(\). and condition with a call to .Update\(\).`
		r.Put(k, bump(e))
	}
}

func notNil(r *Registry, k string) {
	e := r.Get(k) // want `replace this .Get\(\). and condition with a call to .Update\(\).`
	if e == nil {
		return
	}
	r.Put(k, bump(e))
}

func withoutAtomicUpdate(c *Counter, k string) {
	n, ok := c.Load(k) // want `replace this .Load\(\). and condition with a single atomic update-if-present operation`
	if ok {
		c.Store(k, n+1)
	}
}
