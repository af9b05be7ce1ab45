// Package ignoredpkg tests GetPut's ability to ignore packages that are configured to be ignored.
package ignoredpkg

import "sync"

func fill(m *sync.Map, k string) {
	// A redundant lookup, but it is OK since this package is ignored.
	if _, ok := m.Load(k); !ok {
		m.Store(k, 1)
	}
}
