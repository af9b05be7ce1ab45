// Package prettyprint tests the colored rendering of diagnostics.
package prettyprint

import "sync"

func fill(m *sync.Map, k string) {
	if _, ok := m.Load(k); !ok { // want `error: .*replace this .*Load\(\)`
		m.Store(k, 1)
	}
}
