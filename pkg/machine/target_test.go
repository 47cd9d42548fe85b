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
package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

// x86-ish register file: ax = {al,ah}, al, ah, bx
func x86ish(t *testing.T) *Target {
	target, err := NewTarget(0,
		RegisterInfo{"ax", []Unit{0, 1}},
		RegisterInfo{"al", []Unit{0}},
		RegisterInfo{"ah", []Unit{1}},
		RegisterInfo{"bx", []Unit{2}},
	)
	require.NoError(t, err)

	return target
}

func Test_Target_00(t *testing.T) {
	target := x86ish(t)
	assert.Equal(t, uint(4), target.NumRegisters())
	assert.Equal(t, uint(3), target.NumUnits())
	assert.Equal(t, []Unit{0, 1}, target.Units(0).Collect())
	assert.Equal(t, []Unit{2}, target.Units(3).Collect())
	assert.Equal(t, "ah", target.Name(2))
}

func Test_Target_01(t *testing.T) {
	target := x86ish(t)
	assert.True(t, target.Aliases(0, 1))
	assert.True(t, target.Aliases(0, 2))
	assert.False(t, target.Aliases(1, 2))
	assert.False(t, target.Aliases(0, 3))
	assert.Equal(t, []Register{0, 1}, target.Owners(0))
	assert.Equal(t, []Register{3}, target.Owners(2))
}

func Test_Target_02(t *testing.T) {
	target := x86ish(t)
	reg, ok := target.Lookup("bx")
	assert.True(t, ok)
	assert.Equal(t, Register(3), reg)
	_, ok = target.Lookup("cx")
	assert.False(t, ok)
}

func Test_Target_03(t *testing.T) {
	// Explicit unit count can exceed those referenced
	target, err := NewTarget(8, RegisterInfo{"r0", []Unit{0}})
	require.NoError(t, err)
	assert.Equal(t, uint(8), target.NumUnits())
	assert.Empty(t, target.Owners(7))
}

func Test_Target_04(t *testing.T) {
	_, err := NewTarget(0,
		RegisterInfo{"r0", nil},
		RegisterInfo{"r0", []Unit{1}},
		RegisterInfo{"r1", []Unit{2, 2}},
		RegisterInfo{"", []Unit{3}},
	)
	require.Error(t, err)
	// Every problem is reported
	assert.Len(t, multierr.Errors(err), 4)
}

func Test_Target_05(t *testing.T) {
	target := x86ish(t)
	assert.Panics(t, func() { target.Units(4) })
	assert.Panics(t, func() { target.Owners(3) })
}

func Test_Target_06(t *testing.T) {
	// Unit counts are bounded, whether given or referenced
	_, err := NewTarget(MaxUnits+1, RegisterInfo{"r0", []Unit{0}})
	assert.Error(t, err)
	_, err = NewTarget(0, RegisterInfo{"r0", []Unit{0, MaxUnits}})
	assert.Error(t, err)
	_, err = NewTarget(1<<50, RegisterInfo{"r0", []Unit{1 << 50}})
	assert.Len(t, multierr.Errors(err), 2)
	// The bound itself is fine
	target, err := NewTarget(MaxUnits, RegisterInfo{"r0", []Unit{MaxUnits - 1}})
	require.NoError(t, err)
	assert.Equal(t, uint(MaxUnits), target.NumUnits())
}

func Test_UsedRegisters_00(t *testing.T) {
	used := NewUsedRegisters(4)
	assert.Equal(t, uint(0), used.Count())
	used.MarkUsed(3)
	used.MarkUsed(1)
	used.MarkUsed(3)
	assert.True(t, used.IsUsed(1))
	assert.False(t, used.IsUsed(0))
	assert.Equal(t, []Register{1, 3}, used.Registers())
	used.Reset()
	assert.Equal(t, uint(0), used.Count())
	assert.Empty(t, used.Registers())
}
