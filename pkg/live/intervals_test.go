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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Intervals_00(t *testing.T) {
	db := NewIntervals(4, 4)
	x := db.NewRange("x", NewInterval(0, 10))
	y := db.NewRange("y", NewInterval(5, 6))
	assert.Equal(t, VirtId(0), x.Id)
	assert.Equal(t, VirtId(1), y.Id)
	assert.Same(t, y, db.Range(1))
	assert.Nil(t, db.Range(2))
	assert.Len(t, db.Ranges(), 2)
}

func Test_Intervals_01(t *testing.T) {
	db := NewIntervals(4, 2)
	assert.True(t, db.UnitRange(1).IsEmpty())
	db.AddFixed(1, NewInterval(10, 20))
	db.AddFixed(1, NewInterval(0, 4))
	assert.Equal(t, []Interval{{0, 4}, {10, 20}}, db.UnitRange(1).Intervals())
	assert.True(t, db.UnitRange(0).IsEmpty())
	assert.Panics(t, func() { db.UnitRange(2) })
}

func Test_Intervals_02(t *testing.T) {
	db := NewIntervals(4, 4)
	db.AddRegMask(10, 0, 1)
	db.AddRegMask(30, 1, 2)
	// Does not cross any mask
	_, found := db.CheckRegMaskInterference(NewRange(0, "", NewInterval(0, 10)))
	assert.False(t, found)
	_, found = db.CheckRegMaskInterference(NewRange(0, "", NewInterval(10, 20)))
	assert.False(t, found)
	// Crosses first mask only
	usable, found := db.CheckRegMaskInterference(NewRange(0, "", NewInterval(5, 15)))
	require.True(t, found)
	assert.True(t, usable.Test(0))
	assert.True(t, usable.Test(1))
	assert.False(t, usable.Test(2))
	assert.False(t, usable.Test(3))
	// Crosses both masks
	usable, found = db.CheckRegMaskInterference(NewRange(0, "", NewInterval(5, 15), NewInterval(25, 35)))
	require.True(t, found)
	assert.Equal(t, uint(1), usable.Count())
	assert.True(t, usable.Test(1))
}

func Test_Intervals_03(t *testing.T) {
	db := NewIntervals(2, 2)
	// Masks added out of order
	db.AddRegMask(30)
	db.AddRegMask(10, 0, 1)
	usable, found := db.CheckRegMaskInterference(NewRange(0, "", NewInterval(5, 15)))
	require.True(t, found)
	assert.Equal(t, uint(2), usable.Count())
	// Mask preserving nothing
	usable, found = db.CheckRegMaskInterference(NewRange(0, "", NewInterval(25, 35)))
	require.True(t, found)
	assert.Equal(t, uint(0), usable.Count())
}

func Test_Intervals_04(t *testing.T) {
	db := NewIntervals(2, 2)
	x := db.NewRange("x", NewInterval(0, 10))
	db.AddCopy(5, x.Id, 1)
	coalescer := db.Coalescer()
	assert.True(t, coalescer(x.Id, 1, 5))
	assert.False(t, coalescer(x.Id, 0, 5))
	assert.False(t, coalescer(x.Id, 1, 6))
}
