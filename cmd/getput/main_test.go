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

package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFilePrefixes(t *testing.T) {
	t.Parallel()

	prefixes, err := parseFilePrefixes("")
	require.NoError(t, err)
	require.Empty(t, prefixes)

	prefixes, err = parseFilePrefixes("/abs/pkg,rel/pkg")
	require.NoError(t, err)
	rel, err := filepath.Abs("rel/pkg")
	require.NoError(t, err)
	require.Equal(t, []string{"/abs/pkg", rel}, prefixes)
}

func TestReportable(t *testing.T) {
	t.Parallel()

	includes := []string{"/src/app"}
	excludes := []string{"/src/app/vendor"}
	require.True(t, reportable("/src/app/cache/lru.go", includes, excludes))
	require.False(t, reportable("/src/app/vendor/lib/lib.go", includes, excludes))
	require.False(t, reportable("/src/other/main.go", includes, excludes))
	require.False(t, reportable("/src/app/cache/lru.go", nil, nil))
}
