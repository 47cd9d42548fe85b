// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package matrix

import "fmt"

// Kind classifies the result of an interference check.  Kinds are ordered
// according to how costly the conflict is to resolve, with Free being the
// cheapest.
type Kind uint8

const (
	// Free indicates no interference was found.
	Free Kind = iota
	// ConflictsWithVirtual indicates overlap with a live range currently
	// assigned to (a unit of) the physical register.  Such a range could be
	// evicted.
	ConflictsWithVirtual
	// ConflictsWithFixedUnit indicates overlap with a fixed occupant of a
	// register unit.
	ConflictsWithFixedUnit
	// ConflictsWithRegMask indicates that the live range crosses a register
	// mask which clobbers the physical register.
	ConflictsWithRegMask
)

// ParseKind parses a kind from its short name (as used in scenario files).
func ParseKind(name string) (Kind, error) {
	switch name {
	case "free":
		return Free, nil
	case "virtual":
		return ConflictsWithVirtual, nil
	case "fixed":
		return ConflictsWithFixedUnit, nil
	case "regmask":
		return ConflictsWithRegMask, nil
	default:
		return Free, fmt.Errorf("unknown interference kind \"%s\"", name)
	}
}

// ShortName returns the name of this kind as accepted by ParseKind.
func (k Kind) ShortName() string {
	switch k {
	case Free:
		return "free"
	case ConflictsWithVirtual:
		return "virtual"
	case ConflictsWithFixedUnit:
		return "fixed"
	case ConflictsWithRegMask:
		return "regmask"
	}
	//
	panic(fmt.Sprintf("unknown interference kind %d", k))
}

func (k Kind) String() string {
	switch k {
	case Free:
		return "Free"
	case ConflictsWithVirtual:
		return "ConflictsWithVirtual"
	case ConflictsWithFixedUnit:
		return "ConflictsWithFixedUnit"
	case ConflictsWithRegMask:
		return "ConflictsWithRegMask"
	}
	//
	return fmt.Sprintf("Kind(%d)", k)
}
