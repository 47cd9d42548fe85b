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
	"fmt"
	"slices"
	"strings"

	"github.com/consensys/go-regmatrix/pkg/live"
)

// Segment is a single interval within a union, tagged with the live range which
// contributed it.
type Segment struct {
	live.Interval
	// Live range which contributed this segment.
	Owner *live.Range
}

// Union accumulates the live ranges assigned to a single register unit.  Each
// segment retains its owner so that one live range can later be extracted
// without disturbing the others, even when segments from different owners
// overlap.  Segments are kept sorted by (start, end, owner).
type Union struct {
	segments []Segment
	// Incremented on every change.
	tag uint64
}

// Segments returns the segments of this union in sorted order.  This should
// not be modified.
func (p *Union) Segments() []Segment {
	return p.segments
}

// Size returns the number of segments in this union.
func (p *Union) Size() uint {
	return uint(len(p.segments))
}

// IsEmpty checks whether any live range currently contributes to this union.
func (p *Union) IsEmpty() bool {
	return len(p.segments) == 0
}

// Tag identifies the current state of this union.  Any change to the union
// produces a different tag.
func (p *Union) Tag() uint64 {
	return p.tag
}

// Contains checks whether a given live range currently contributes to this
// union.
func (p *Union) Contains(r *live.Range) bool {
	for _, s := range p.segments {
		if s.Owner == r {
			return true
		}
	}
	//
	return false
}

// Unify a live range into this union, by merging its (sorted) intervals with
// the existing (sorted) segments.
func (p *Union) unify(r *live.Range) {
	var (
		left   = p.segments
		right  = r.Intervals()
		merged = make([]Segment, 0, len(left)+len(right))
		i, j   = 0, 0
	)
	//
	if len(right) == 0 {
		return
	}
	//
	for i < len(left) && j < len(right) {
		ith := Segment{right[j], r}
		//
		if segmentLess(left[i], ith) {
			merged = append(merged, left[i])
			i++
		} else {
			merged = append(merged, ith)
			j++
		}
	}
	// Handle anything left
	merged = append(merged, left[i:]...)
	//
	for ; j < len(right); j++ {
		merged = append(merged, Segment{right[j], r})
	}
	//
	p.segments = merged
	p.tag++
}

// Extract a previously unified live range from this union, leaving all other
// segments (including those which overlap it) untouched.
func (p *Union) extract(r *live.Range) {
	if r.IsEmpty() {
		return
	}
	// Check before modifying anything
	if count := p.count(r); count != len(r.Intervals()) {
		panic(fmt.Sprintf("extracting %s from union inconsistent with it (%d of %d segments found)",
			r.String(), count, len(r.Intervals())))
	}
	// Also zeroes the vacated tail, dropping dangling owners.
	p.segments = slices.DeleteFunc(p.segments, func(s Segment) bool { return s.Owner == r })
	p.tag++
}

// Count the segments owned by a given range.
func (p *Union) count(r *live.Range) int {
	count := 0
	//
	for _, s := range p.segments {
		if s.Owner == r {
			count++
		}
	}
	//
	return count
}

// Remove all segments from this union.
func (p *Union) reset() {
	p.segments = nil
	p.tag++
}

func (p *Union) String() string {
	var builder strings.Builder
	//
	for i, s := range p.segments {
		if i != 0 {
			builder.WriteString(" ")
		}
		//
		builder.WriteString(fmt.Sprintf("%s:%s", s.Interval.String(), ownerName(s.Owner)))
	}
	//
	return builder.String()
}

func segmentLess(l Segment, r Segment) bool {
	if l.Start != r.Start {
		return l.Start < r.Start
	} else if l.End != r.End {
		return l.End < r.End
	}
	//
	return l.Owner.Id < r.Owner.Id
}

func ownerName(r *live.Range) string {
	if r.Name != "" {
		return r.Name
	}
	//
	return fmt.Sprintf("%%%d", r.Id)
}
