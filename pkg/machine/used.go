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

import "github.com/bits-and-blooms/bitset"

// UsedRegisters records which physical registers have been used at any point
// (e.g. so that a prologue knows which callee-saved registers to preserve).
// Registers are only ever added, until the set is explicitly reset.
type UsedRegisters struct {
	bits *bitset.BitSet
}

// NewUsedRegisters constructs an empty set of used registers sized for a given
// number of registers.
func NewUsedRegisters(n uint) *UsedRegisters {
	return &UsedRegisters{bitset.New(n)}
}

// MarkUsed records that a given register has been used.
func (p *UsedRegisters) MarkUsed(reg Register) {
	p.bits.Set(uint(reg))
}

// IsUsed checks whether a given register has been used.
func (p *UsedRegisters) IsUsed(reg Register) bool {
	return p.bits.Test(uint(reg))
}

// Count returns the number of used registers.
func (p *UsedRegisters) Count() uint {
	return p.bits.Count()
}

// Registers returns the used registers in increasing order.
func (p *UsedRegisters) Registers() []Register {
	var regs []Register
	//
	for i, ok := p.bits.NextSet(0); ok; i, ok = p.bits.NextSet(i + 1) {
		regs = append(regs, Register(i))
	}
	//
	return regs
}

// Reset clears all used registers.
func (p *UsedRegisters) Reset() {
	p.bits.ClearAll()
}
