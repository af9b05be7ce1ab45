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

package util

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPortionAfterSep(t *testing.T) {
	t.Parallel()

	require.Equal(t, "b/c.go", PortionAfterSep("a/b/c.go", "/", 1))
	require.Equal(t, "c.go", PortionAfterSep("a/b/c.go", "/", 0))
	require.Equal(t, "a/b/c.go", PortionAfterSep("a/b/c.go", "/", 5))
}

func TestTruncatePosition(t *testing.T) {
	t.Parallel()

	pos := TruncatePosition(token.Position{Filename: "/home/user/src/cache/lru.go", Line: 3, Column: 7})
	require.Equal(t, "cache/lru.go:3:7", pos.String())
}

func TestPrettyPrintErrorMessage(t *testing.T) {
	t.Parallel()

	msg := PrettyPrintErrorMessage("replace this `Load()`:\n\t- cache/lru.go:3:7: implies `ok` is false")
	// Only the opening sequences are checked since the reset sequences depend on the attribute.
	require.Contains(t, msg, "\x1b[31merror: ")
	require.Contains(t, msg, "\x1b[95m`Load()`")
	require.Contains(t, msg, "\t- \x1b[36mcache/lru.go:3:7")
	require.Contains(t, msg, "\x1b[1mis false")
}
