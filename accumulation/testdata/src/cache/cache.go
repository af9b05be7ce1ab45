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

package cache

import "sync"

type Cache struct {
	m sync.Map
}

func (c *Cache) Fill(k string) {
	if _, ok := c.m.Load(k); !ok {
		c.m.Store(k, 1)
	}
}

func (c *Cache) Bump(k string, n int) {
	if _, ok := c.m.Load(k); ok {
		c.m.Store(k, n)
	}
}

func (c *Cache) Overwrite(k string) {
	c.m.Load(k)
	c.m.Store(k, 0)
}
