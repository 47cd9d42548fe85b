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
package vreg

import (
	"fmt"
	"maps"
	"slices"

	"github.com/consensys/go-regmatrix/pkg/live"
	"github.com/consensys/go-regmatrix/pkg/machine"
)

// Assignments records which physical register (if any) each virtual register
// currently occupies.
type Assignments struct {
	phys map[live.VirtId]machine.Register
}

// NewAssignments constructs an empty assignment map.
func NewAssignments() *Assignments {
	return &Assignments{make(map[live.VirtId]machine.Register)}
}

// HasPhys checks whether a given virtual register is currently assigned.
func (p *Assignments) HasPhys(virt live.VirtId) bool {
	_, ok := p.phys[virt]
	return ok
}

// Phys returns the physical register assigned to a given virtual register, or
// panics if it is not assigned.
func (p *Assignments) Phys(virt live.VirtId) machine.Register {
	if reg, ok := p.phys[virt]; ok {
		return reg
	}
	//
	panic(fmt.Sprintf("virtual register %%%d not assigned", virt))
}

// Assign a virtual register to a given physical register.  The virtual
// register must not already be assigned.
func (p *Assignments) Assign(virt live.VirtId, reg machine.Register) {
	if old, ok := p.phys[virt]; ok {
		panic(fmt.Sprintf("virtual register %%%d already assigned to %d", virt, old))
	}
	//
	p.phys[virt] = reg
}

// Clear the assignment of a given virtual register.  The virtual register must
// currently be assigned.
func (p *Assignments) Clear(virt live.VirtId) {
	if _, ok := p.phys[virt]; !ok {
		panic(fmt.Sprintf("virtual register %%%d not assigned", virt))
	}
	//
	delete(p.phys, virt)
}

// Len returns the number of assigned virtual registers.
func (p *Assignments) Len() uint {
	return uint(len(p.phys))
}

// Assigned returns the assigned virtual registers in increasing order.
func (p *Assignments) Assigned() []live.VirtId {
	virts := slices.Collect(maps.Keys(p.phys))
	slices.Sort(virts)
	//
	return virts
}
