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

import "fmt"

// Slot identifies a program point.  Slots are totally ordered, such that
// smaller slots occur earlier in the program.
type Slot uint32

// Interval represents a non-empty, half-open range of program points [Start,
// End).
type Interval struct {
	Start Slot
	End   Slot
}

// NewInterval constructs a new interval, or panics if the interval would be
// empty.
func NewInterval(start Slot, end Slot) Interval {
	if end <= start {
		panic(fmt.Sprintf("invalid interval [%d,%d)", start, end))
	}
	//
	return Interval{start, end}
}

// Contains checks whether a given program point lies within this interval.
func (p Interval) Contains(slot Slot) bool {
	return p.Start <= slot && slot < p.End
}

// Overlaps checks whether this interval shares at least one program point with
// another.
func (p Interval) Overlaps(other Interval) bool {
	return p.Start < other.End && other.Start < p.End
}

func (p Interval) String() string {
	return fmt.Sprintf("[%d,%d)", p.Start, p.End)
}
