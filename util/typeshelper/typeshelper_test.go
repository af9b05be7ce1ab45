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

package typeshelper

import (
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsNilableAndIsBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		typeStr string
		nilable bool
		isBool  bool
	}{
		{"Pointer", "*int", true, false},
		{"Slice", "[]int", true, false},
		{"Map", "map[string]int", true, false},
		{"Chan", "chan int", true, false},
		{"Func", "func()", true, false},
		{"Interface", "any", true, false},
		{"Error", "error", true, false},
		{"Int", "int", false, false},
		{"Bool", "bool", false, true},
		{"Array", "[2]*int", false, false},
		{"Struct", "struct{ p *int }", false, false},
	}

	fset := token.NewFileSet()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pkg := types.NewPackage("testpkg", "testpkg")
			typeInfo, err := types.Eval(fset, pkg, 0, tt.typeStr)
			require.NoError(t, err)
			require.Equal(t, tt.nilable, IsNilable(typeInfo.Type), "IsNilable(%s)", tt.typeStr)
			require.Equal(t, tt.isBool, IsBool(typeInfo.Type), "IsBool(%s)", tt.typeStr)
		})
	}
}

func TestIsNilable_TypeParam(t *testing.T) {
	t.Parallel()

	tp := types.NewTypeParam(types.NewTypeName(token.NoPos, nil, "T", nil), types.NewInterfaceType(nil, nil))
	require.False(t, IsNilable(tp))
}

func TestQualifiedName(t *testing.T) {
	t.Parallel()

	pkg := types.NewPackage("example.com/cache", "cache")
	named := types.NewNamed(types.NewTypeName(token.NoPos, pkg, "LRU", nil), types.NewStruct(nil, nil), nil)

	name, ok := QualifiedName(named)
	require.True(t, ok)
	require.Equal(t, "example.com/cache.LRU", name)

	name, ok = QualifiedName(types.NewPointer(named))
	require.True(t, ok)
	require.Equal(t, "example.com/cache.LRU", name)

	name, ok = QualifiedName(types.Universe.Lookup("error").Type())
	require.True(t, ok)
	require.Equal(t, "error", name)

	_, ok = QualifiedName(types.NewSlice(named))
	require.False(t, ok)
}
