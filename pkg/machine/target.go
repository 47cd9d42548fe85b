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
	"fmt"
	"strings"

	"github.com/consensys/go-regmatrix/pkg/util/collection/iter"
	"go.uber.org/multierr"
)

// MaxUnits is the largest number of register units a target can have.
const MaxUnits = 1 << 16

// Register identifies a physical register within a given target.  Registers
// are numbered consecutively from 0.
type Register uint

// Unit identifies a single register unit.  A register unit is the smallest
// indivisible piece of a physical register, such that two registers alias
// exactly when they share a unit (e.g. AX and AL share a unit, whilst AL and
// AH do not).
type Unit uint

// RegisterInfo describes a single physical register in a machine description.
type RegisterInfo struct {
	// Name of the register (e.g. "rax").
	Name string
	// Units making up this register, in strictly increasing order.
	Units []Unit
}

// Target captures the register file of a machine, and specifically how each
// physical register decomposes into register units.
type Target struct {
	registers []RegisterInfo
	// Number of register units
	units uint
	// Maps each unit to the registers which include it.
	owners [][]Register
}

// NewTarget constructs a target from a given set of registers.  The number of
// units is the maximum unit referenced by any register (plus one), unless a
// larger number is explicitly given.  An error is returned if the description
// is malformed, in which case all problems found are reported together.  This
// includes a unit count (given or referenced) above MaxUnits.
func NewTarget(units uint, registers ...RegisterInfo) (*Target, error) {
	var (
		err   error
		names = make(map[string]bool)
	)
	//
	if units > MaxUnits {
		err = multierr.Append(err, fmt.Errorf("too many register units %d (max %d)", units, MaxUnits))
	}
	//
	for i, reg := range registers {
		if reg.Name == "" {
			err = multierr.Append(err, fmt.Errorf("register #%d has no name", i))
		} else if names[reg.Name] {
			err = multierr.Append(err, fmt.Errorf("register %s declared twice", reg.Name))
		}
		//
		names[reg.Name] = true
		//
		if len(reg.Units) == 0 {
			err = multierr.Append(err, fmt.Errorf("register %s has no units", reg.Name))
		}
		//
		for j, u := range reg.Units {
			if j > 0 && reg.Units[j-1] >= u {
				err = multierr.Append(err, fmt.Errorf("units of register %s not strictly increasing", reg.Name))
				break
			} else if uint(u) >= MaxUnits {
				err = multierr.Append(err, fmt.Errorf("unit %d of register %s out of range (max %d)", u, reg.Name, MaxUnits))
				break
			}
			// Update unit count
			units = max(units, uint(u)+1)
		}
	}
	//
	if err != nil {
		return nil, err
	}
	// Determine owners for each unit
	owners := make([][]Register, units)
	//
	for i, reg := range registers {
		for _, u := range reg.Units {
			owners[u] = append(owners[u], Register(i))
		}
	}
	//
	return &Target{registers, units, owners}, nil
}

// NumRegisters returns the number of physical registers in this target.
func (p *Target) NumRegisters() uint {
	return uint(len(p.registers))
}

// NumUnits returns the number of register units in this target.
func (p *Target) NumUnits() uint {
	return p.units
}

// Name returns the name of a given register.
func (p *Target) Name(reg Register) string {
	return p.register(reg).Name
}

// Lookup a register by its name, returning false if no such register exists.
func (p *Target) Lookup(name string) (Register, bool) {
	for i, reg := range p.registers {
		if reg.Name == name {
			return Register(i), true
		}
	}
	//
	return 0, false
}

// Units returns an iterator over the register units of a given register, in
// increasing order.
func (p *Target) Units(reg Register) iter.Iterator[Unit] {
	return iter.NewArrayIterator(p.register(reg).Units)
}

// Owners returns the registers which include a given unit.
func (p *Target) Owners(unit Unit) []Register {
	if uint(unit) >= p.units {
		panic(fmt.Sprintf("invalid register unit %d", unit))
	}
	//
	return p.owners[unit]
}

// Aliases checks whether two registers share at least one register unit.
func (p *Target) Aliases(r1 Register, r2 Register) bool {
	var (
		left  = p.register(r1).Units
		right = p.register(r2).Units
		i, j  = 0, 0
	)
	// Both unit lists are sorted, hence a merge suffices.
	for i < len(left) && j < len(right) {
		if left[i] < right[j] {
			i++
		} else if left[i] > right[j] {
			j++
		} else {
			return true
		}
	}
	//
	return false
}

func (p *Target) register(reg Register) *RegisterInfo {
	if uint(reg) >= uint(len(p.registers)) {
		panic(fmt.Sprintf("invalid register %d", reg))
	}
	//
	return &p.registers[reg]
}

func (p *Target) String() string {
	var builder strings.Builder
	//
	for i, reg := range p.registers {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(fmt.Sprintf("%s%v", reg.Name, reg.Units))
	}
	//
	return builder.String()
}
