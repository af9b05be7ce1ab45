// This file is excluded from analysis by its docstring.
// @generated
package generated

import "sync"

func fillAgain(m *sync.Map, k string) {
	if _, ok := m.Load(k); !ok {
		m.Store(k, 1)
	}
}
