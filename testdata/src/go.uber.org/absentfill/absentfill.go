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
This package tests lookups whose result is known to be absent when an insertion follows under the
same key.
*/
package absentfill

import "sync"

type Entry struct {
	value int
}

type Cache struct {
	entries map[string]*Entry
}

func (c *Cache) Get(key string) *Entry {
	return c.entries[key]
}

func (c *Cache) Put(key string, e *Entry) {
	c.entries[key] = e
}

type Index struct {
	ids map[string]int
}

func (i *Index) Lookup(key string) (int, bool) {
	id, ok := i.ids[key]
	return id, ok
}

func (i *Index) Set(key string, id int) {
	i.ids[key] = id
}

func (i *Index) SetIfAbsent(key string, id int) (int, bool) {
	if id, ok := i.ids[key]; ok {
		return id, false
	}
	i.ids[key] = id
	return id, true
}

func commaOk(m *sync.Map, k string, v int) {
	if _, ok := m.Load(k); !ok { // want `replace this .Load\(\). and condition with a call to .LoadOrStore\(\).`
		m.Store(k, v)
	}
}

func commaOkNegated(m *sync.Map, k string) {
	_, ok := m.Load(k) // want `replace this .Load\(\). and condition with a call to .LoadOrStore\(\).`
	if ok {
		return
	}
	m.Store(k, 1)
}

func comparedWithFalse(m *sync.Map, k string) {
	_, ok := m.Load(k) // want `replace this .Load\(\). and condition with a call to .LoadOrStore\(\).`
	if ok == false {
		m.Store(k, 1)
	}
}

func nilCheck(c *Cache, k string) *Entry {
	e := c.Get(k) // want `replace this .Get\(\). and condition with a single atomic insert-if-absent operation`
	if e == nil {
		e = &Entry{}
		c.Put(k, e)
	}
	return e
}

func suggestsDeclaredMethod(i *Index, k string) int {
	id, ok := i.Lookup(k) // want `replace this .Lookup\(\). and condition with a call to .SetIfAbsent\(\).`
	if !ok {
		id = len(k)
		i.Set(k, id)
	}
	return id
}

type holder struct {
	key string
}

func keyFromField(m *sync.Map, h *holder) {
	if _, ok := m.Load(h.key); !ok { // want `replace this .Load\(\). and condition with a call to .LoadOrStore\(\).`
		m.Store(h.key, true)
	}
}
