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
package live

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-regmatrix/pkg/machine"
)

// Coalescable determines whether an overlap between a virtual register and
// (the fixed occupant of) a physical register, which begins at a given program
// point, can be ignored.  Typically, this holds when the overlap begins at a
// copy between the two, since both then hold the same value.
type Coalescable func(virt VirtId, reg machine.Register, at Slot) bool

// Database provides access to the liveness information of a function being
// allocated.
type Database interface {
	// Range returns the live range of a given virtual register, or nil if no
	// such register exists.
	Range(virt VirtId) *Range

	// UnitRange returns the live range of the fixed (i.e. non-virtual)
	// occupant of a given register unit.  This captures, for example,
	// registers reserved by the ABI around calls.  The range may be empty, but
	// is never nil.
	UnitRange(unit machine.Unit) *Range

	// CheckRegMaskInterference determines whether a given live range crosses
	// any register mask (e.g. a call clobbering a set of registers).  If so,
	// it returns true along with the set of registers which are preserved by
	// every crossed mask (i.e. those still usable for the range).  Otherwise,
	// it returns false and the returned set should be ignored.
	CheckRegMaskInterference(r *Range) (*bitset.BitSet, bool)
}
