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
	"cmp"
	"fmt"
	"slices"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-regmatrix/pkg/machine"
)

// RegMask represents a program point at which some registers are clobbered
// (e.g. a call site).  Only those registers in the preserved set survive the
// program point.
type RegMask struct {
	At        Slot
	Preserved *bitset.BitSet
}

// Copy represents a move between a virtual register and a physical register at
// a given program point.
type Copy struct {
	At   Slot
	Virt VirtId
	Reg  machine.Register
}

// Intervals provides a straightforward in-memory implementation of a liveness
// database.
type Intervals struct {
	registers uint
	// Live ranges for virtual registers, indexed by VirtId.
	ranges []*Range
	// Live ranges of fixed occupants, indexed by unit.
	units []*Range
	// Register masks, sorted by program point.
	regmasks []RegMask
	// Copies between virtual and physical registers.
	copies map[Copy]bool
}

// NewIntervals constructs an empty database for a target with a given number
// of registers and register units.
func NewIntervals(registers uint, units uint) *Intervals {
	fixed := make([]*Range, units)
	//
	for i := range fixed {
		fixed[i] = &Range{Name: fmt.Sprintf("unit%d", i)}
	}
	//
	return &Intervals{registers, nil, fixed, nil, make(map[Copy]bool)}
}

// NewRange allocates a fresh virtual register whose live range is made up
// from the given intervals.
func (p *Intervals) NewRange(name string, intervals ...Interval) *Range {
	r := NewRange(VirtId(len(p.ranges)), name, intervals...)
	p.ranges = append(p.ranges, r)
	//
	return r
}

// Range implementation for the Database interface.
func (p *Intervals) Range(virt VirtId) *Range {
	if uint(virt) < uint(len(p.ranges)) {
		return p.ranges[virt]
	}
	//
	return nil
}

// Ranges returns all virtual live ranges, in order of allocation.
func (p *Intervals) Ranges() []*Range {
	return p.ranges
}

// AddFixed records that a given register unit is occupied by a fixed (i.e.
// non-virtual) value over the given intervals.
func (p *Intervals) AddFixed(unit machine.Unit, intervals ...Interval) {
	r := p.UnitRange(unit)
	merged := append(slices.Clone(r.intervals), intervals...)
	p.units[unit] = NewRange(r.Id, r.Name, merged...)
}

// UnitRange implementation for the Database interface.
func (p *Intervals) UnitRange(unit machine.Unit) *Range {
	if uint(unit) >= uint(len(p.units)) {
		panic(fmt.Sprintf("invalid register unit %d", unit))
	}
	//
	return p.units[unit]
}

// AddRegMask records that all registers except those preserved are clobbered
// at a given program point.
func (p *Intervals) AddRegMask(at Slot, preserved ...machine.Register) {
	mask := bitset.New(p.registers)
	//
	for _, reg := range preserved {
		mask.Set(uint(reg))
	}
	// Maintain sorted order
	i, _ := slices.BinarySearchFunc(p.regmasks, at, func(m RegMask, s Slot) int {
		return cmp.Compare(m.At, s)
	})
	p.regmasks = slices.Insert(p.regmasks, i, RegMask{at, mask})
}

// CheckRegMaskInterference implementation for the Database interface.  A
// register mask at program point p is crossed by an interval [s,e) when s < p
// < e.  That is, a value defined by (or last used at) the clobbering
// instruction itself is not affected by it.
func (p *Intervals) CheckRegMaskInterference(r *Range) (*bitset.BitSet, bool) {
	var (
		usable *bitset.BitSet
		k      = 0
	)
	//
	for _, ith := range r.intervals {
		// Skip masks at or before the start of this interval.
		for k < len(p.regmasks) && p.regmasks[k].At <= ith.Start {
			k++
		}
		// Visit masks strictly within this interval.
		for ; k < len(p.regmasks) && p.regmasks[k].At < ith.End; k++ {
			if usable == nil {
				usable = bitset.New(p.registers).FlipRange(0, p.registers)
			}
			//
			usable.InPlaceIntersection(p.regmasks[k].Preserved)
		}
	}
	//
	return usable, usable != nil
}

// AddCopy records a copy between a virtual and a physical register at a given
// program point.
func (p *Intervals) AddCopy(at Slot, virt VirtId, reg machine.Register) {
	p.copies[Copy{at, virt, reg}] = true
}

// Coalescer returns a coalescing strategy which permits an overlap between a
// virtual and a physical register when it begins at a recorded copy between
// them.
func (p *Intervals) Coalescer() Coalescable {
	return func(virt VirtId, reg machine.Register, at Slot) bool {
		return p.copies[Copy{at, virt, reg}]
	}
}
