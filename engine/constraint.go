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

package engine

// Constraint is a property of a symbolic value that the engine tracks along a path.
type Constraint uint8

const (
	// Unconstrained means nothing is known about the value.
	Unconstrained Constraint = iota
	// Nil means the value is known to be nil.
	Nil
	// NonNil means the value is known to be non-nil.
	NonNil
	// True means the (boolean) value is known to be true.
	True
	// False means the (boolean) value is known to be false.
	False
)

func (c Constraint) String() string {
	switch c {
	case Nil:
		return "nil"
	case NonNil:
		return "not nil"
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unconstrained"
	}
}

func boolConstraint(b bool) Constraint {
	if b {
		return True
	}
	return False
}

func nilConstraint(isNil bool) Constraint {
	if isNil {
		return Nil
	}
	return NonNil
}

// Classification is the outcome of a lookup as established by the constraints on its result.
type Classification uint8

const (
	// Unknown means the constraints on this path do not tell whether the lookup found an entry.
	Unknown Classification = iota
	// Absent means the lookup found no entry: its result is nil, or its presence flag is false.
	Absent
	// Present means the lookup found an entry: its result is non-nil, or its presence flag is true.
	Present
)

func (c Classification) String() string {
	switch c {
	case Absent:
		return "absent"
	case Present:
		return "present"
	default:
		return "unknown"
	}
}
