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
	"strings"
)

// VirtId identifies a virtual register (i.e. the entity whose live range is
// being allocated).
type VirtId uint32

// Range captures the set of program points at which a virtual register is
// live, represented as a sorted sequence of disjoint, non-adjacent intervals.
type Range struct {
	// Virtual register which this range describes.
	Id VirtId
	// Human readable name (for debugging).
	Name string
	// Sorted, disjoint and non-adjacent intervals.
	intervals []Interval
}

// NewRange constructs a live range from a given set of intervals.  The
// intervals may be given in any order, and may overlap or abut one another;
// they are normalised into a sorted sequence of disjoint intervals.
func NewRange(id VirtId, name string, intervals ...Interval) *Range {
	var (
		sorted = slices.Clone(intervals)
		r      = &Range{Id: id, Name: name}
	)
	//
	slices.SortFunc(sorted, func(a, b Interval) int {
		return cmp.Compare(a.Start, b.Start)
	})
	//
	for _, ith := range sorted {
		r.Add(ith)
	}
	//
	return r
}

// Add an interval onto the end of this range.  The interval must not start
// before the start of the last interval in the range.  Intervals which overlap
// or abut the last interval are merged with it.
func (p *Range) Add(interval Interval) {
	n := len(p.intervals)
	//
	if interval.End <= interval.Start {
		panic(fmt.Sprintf("invalid interval %s", interval.String()))
	} else if n != 0 {
		last := &p.intervals[n-1]
		//
		if interval.Start < last.Start {
			panic(fmt.Sprintf("interval %s added out of order", interval.String()))
		} else if interval.Start <= last.End {
			last.End = max(last.End, interval.End)
			return
		}
	}
	//
	p.intervals = append(p.intervals, interval)
}

// Intervals returns the (sorted) intervals making up this range.  This should
// not be modified.
func (p *Range) Intervals() []Interval {
	return p.intervals
}

// IsEmpty checks whether this range covers no program points.
func (p *Range) IsEmpty() bool {
	return len(p.intervals) == 0
}

// Start returns the first program point covered by this range.
func (p *Range) Start() Slot {
	return p.intervals[0].Start
}

// End returns the first program point after this range.
func (p *Range) End() Slot {
	return p.intervals[len(p.intervals)-1].End
}

// Covers checks whether a given program point is covered by this range.
func (p *Range) Covers(slot Slot) bool {
	// Find first interval ending after slot
	i, _ := slices.BinarySearchFunc(p.intervals, slot, func(ith Interval, s Slot) int {
		if ith.End <= s {
			return -1
		}
		//
		return 1
	})
	//
	return i < len(p.intervals) && p.intervals[i].Contains(slot)
}

// Overlaps checks whether this range shares at least one program point with
// another range.
func (p *Range) Overlaps(other *Range) bool {
	return p.OverlapsUnless(other, nil)
}

// OverlapsUnless checks whether this range shares at least one program point
// with another range, ignoring any overlap which begins at a program point for
// which the given (optional) filter holds.
func (p *Range) OverlapsUnless(other *Range, ignore func(Slot) bool) bool {
	var (
		x = p.intervals
		y = other.intervals
		i = 0
		j = 0
	)
	//
	for i < len(x) && j < len(y) {
		if x[i].End <= y[j].Start {
			i++
		} else if y[j].End <= x[i].Start {
			j++
		} else if ignore == nil || !ignore(max(x[i].Start, y[j].Start)) {
			return true
		} else if x[i].End <= y[j].End {
			i++
		} else {
			j++
		}
	}
	//
	return false
}

func (p *Range) String() string {
	var builder strings.Builder
	//
	if p.Name != "" {
		builder.WriteString(p.Name)
	} else {
		builder.WriteString(fmt.Sprintf("%%%d", p.Id))
	}
	//
	builder.WriteString("=")
	//
	for _, ith := range p.intervals {
		builder.WriteString(ith.String())
	}
	//
	return builder.String()
}
