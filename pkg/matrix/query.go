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

import (
	"github.com/consensys/go-regmatrix/pkg/live"
)

// Query determines whether a given live range interferes with the union of a
// single register unit.  Queries live in a per-unit arena owned by the matrix,
// and are rebound (rather than reallocated) whenever a different live range,
// generation or union state is queried.  The answer is computed lazily, and
// cached until the query is rebound.
type Query struct {
	union *Union
	vr    *live.Range
	// Generation this query was bound in.
	generation Generation
	// Tag of the union when the answer was cached.
	tag uint64
	// Indicates whether result holds a valid answer.
	checked bool
	result  bool
}

// Range returns the live range this query is bound to.
func (p *Query) Range() *live.Range {
	return p.vr
}

// Generation returns the generation this query was bound in.
func (p *Query) Generation() Generation {
	return p.generation
}

// CheckInterference determines whether the live range of this query overlaps
// any segment of the union.  This is a merge walk over both sorted sequences,
// which stops at the first overlap found.
func (p *Query) CheckInterference() bool {
	if p.checked && p.tag == p.union.tag {
		return p.result
	}
	//
	p.result = overlaps(p.vr.Intervals(), p.union.segments)
	p.tag = p.union.tag
	p.checked = true
	//
	return p.result
}

// Interferences returns the live ranges in the union which overlap the live
// range of this query, in order of their first overlapping segment.  At most
// limit ranges are returned, unless limit is zero (in which case all are
// returned).
func (p *Query) Interferences(limit uint) []*live.Range {
	var (
		intervals = p.vr.Intervals()
		seen      = make(map[*live.Range]bool)
		ranges    []*live.Range
		i         = 0
	)
	//
	for _, s := range p.union.segments {
		// Intervals ending before this segment cannot overlap any later one.
		for i < len(intervals) && intervals[i].End <= s.Start {
			i++
		}
		//
		if i == len(intervals) {
			break
		} else if intervals[i].Start < s.End && !seen[s.Owner] {
			seen[s.Owner] = true
			ranges = append(ranges, s.Owner)
			//
			if uint(len(ranges)) == limit {
				break
			}
		}
	}
	//
	return ranges
}

// Check whether this query is bound to the given state.
func (p *Query) isBoundTo(union *Union, vr *live.Range, generation Generation) bool {
	return p.union == union && p.vr == vr && p.generation == generation
}

// Rebind this query to a given state, discarding any cached answer.
func (p *Query) bind(union *Union, vr *live.Range, generation Generation) {
	*p = Query{union: union, vr: vr, generation: generation}
}

// Determine whether any interval overlaps any segment, where intervals are
// sorted and disjoint, but segments are only sorted by start.  Since segments
// may overlap each other, the furthest end point reached by any segment
// visited so far is tracked.
func overlaps(intervals []live.Interval, segments []Segment) bool {
	var (
		reach live.Slot
		j     = 0
	)
	//
	for _, ith := range intervals {
		for j < len(segments) && segments[j].Start < ith.End {
			reach = max(reach, segments[j].End)
			j++
		}
		//
		if reach > ith.Start {
			return true
		} else if j == len(segments) {
			break
		}
	}
	//
	return false
}
