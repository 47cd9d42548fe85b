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
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Interval_00(t *testing.T) {
	i := NewInterval(2, 5)
	assert.True(t, i.Contains(2))
	assert.True(t, i.Contains(4))
	assert.False(t, i.Contains(5))
	assert.True(t, i.Overlaps(NewInterval(4, 8)))
	assert.False(t, i.Overlaps(NewInterval(5, 8)))
	assert.False(t, i.Overlaps(NewInterval(0, 2)))
	assert.Equal(t, "[2,5)", i.String())
	assert.Panics(t, func() { NewInterval(3, 3) })
}

func Test_Range_00(t *testing.T) {
	r := NewRange(0, "x", NewInterval(20, 30), NewInterval(0, 10), NewInterval(10, 12), NewInterval(25, 40))
	// Abutting and overlapping intervals are merged.
	assert.Equal(t, []Interval{{0, 12}, {20, 40}}, r.Intervals())
	assert.Equal(t, Slot(0), r.Start())
	assert.Equal(t, Slot(40), r.End())
	assert.Equal(t, "x=[0,12)[20,40)", r.String())
}

func Test_Range_01(t *testing.T) {
	r := NewRange(3, "")
	assert.True(t, r.IsEmpty())
	assert.Equal(t, "%3=", r.String())
	r.Add(NewInterval(4, 6))
	assert.False(t, r.IsEmpty())
	assert.Panics(t, func() { r.Add(Interval{2, 3}) })
	assert.Panics(t, func() { r.Add(Interval{8, 8}) })
}

func Test_Range_02(t *testing.T) {
	r := NewRange(0, "x", NewInterval(0, 10), NewInterval(20, 30))
	assert.True(t, r.Covers(0))
	assert.True(t, r.Covers(9))
	assert.False(t, r.Covers(10))
	assert.False(t, r.Covers(15))
	assert.True(t, r.Covers(20))
	assert.False(t, r.Covers(30))
}

func Test_Range_03(t *testing.T) {
	x := NewRange(0, "x", NewInterval(0, 10), NewInterval(20, 30))
	assert.True(t, x.Overlaps(NewRange(1, "y", NewInterval(5, 15))))
	assert.True(t, x.Overlaps(NewRange(1, "y", NewInterval(29, 35))))
	assert.False(t, x.Overlaps(NewRange(1, "y", NewInterval(10, 20))))
	assert.False(t, x.Overlaps(NewRange(1, "y", NewInterval(30, 35))))
	assert.False(t, x.Overlaps(NewRange(1, "y")))
}

func Test_Range_04(t *testing.T) {
	x := NewRange(0, "x", NewInterval(0, 10), NewInterval(20, 30))
	y := NewRange(1, "y", NewInterval(5, 8), NewInterval(25, 27))
	// Ignore overlap starting at 5 only
	assert.True(t, x.OverlapsUnless(y, func(s Slot) bool { return s == 5 }))
	// Ignore both overlaps
	assert.False(t, x.OverlapsUnless(y, func(s Slot) bool { return s == 5 || s == 25 }))
	assert.False(t, y.OverlapsUnless(x, func(s Slot) bool { return s == 5 || s == 25 }))
}

// Randomised comparison against a brute-force oracle.
func Test_Range_05(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	//
	for i := 0; i < 1000; i++ {
		x := randomRange(rng, 0)
		y := randomRange(rng, 1)
		require.Equal(t, bruteOverlaps(x, y), x.Overlaps(y), "%s vs %s", x, y)
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func randomRange(rng *rand.Rand, id VirtId) *Range {
	var intervals []Interval
	//
	for n := rng.Intn(4); n > 0; n-- {
		start := Slot(rng.Intn(50))
		intervals = append(intervals, NewInterval(start, start+1+Slot(rng.Intn(8))))
	}
	//
	return NewRange(id, "", intervals...)
}

func bruteOverlaps(x *Range, y *Range) bool {
	for s := Slot(0); s < 64; s++ {
		if x.Covers(s) && y.Covers(s) {
			return true
		}
	}
	//
	return false
}
