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
package scenario

import (
	"fmt"

	"github.com/consensys/go-regmatrix/pkg/live"
	"github.com/consensys/go-regmatrix/pkg/machine"
	"github.com/consensys/go-regmatrix/pkg/matrix"
	"github.com/consensys/go-regmatrix/pkg/util"
	"go.uber.org/multierr"
)

// Operations which a step can perform.
const (
	opAssign = iota
	opUnassign
	opCheck
	opInvalidate
)

// Scenario is a validated scenario file, with all names resolved.
type Scenario struct {
	// Register file of the scenario
	Target *machine.Target
	// Liveness information of the scenario
	Database *live.Intervals
	// Number of register units to initialise the matrix with
	units uint
	steps []step
}

type step struct {
	index  uint
	op     uint
	vr     *live.Range
	reg    machine.Register
	expect util.Option[matrix.Kind]
}

// Build validates a scenario file and resolves all names within it.  All
// problems found are reported together.  Steps are also checked for contract
// violations (e.g. assigning an already assigned range), so that a built
// scenario can always be run.
func (p *File) Build() (*Scenario, error) {
	var err error
	// Construct the register file
	registers := make([]machine.RegisterInfo, len(p.Registers))
	//
	for i, reg := range p.Registers {
		units := make([]machine.Unit, len(reg.Units))
		//
		for j, u := range reg.Units {
			units[j] = machine.Unit(u)
		}
		//
		registers[i] = machine.RegisterInfo{Name: reg.Name, Units: units}
	}
	//
	target, err := machine.NewTarget(p.Units, registers...)
	//
	if err != nil {
		return nil, err
	}
	//
	var (
		db     = live.NewIntervals(target.NumRegisters(), target.NumUnits())
		ranges = make(map[string]*live.Range)
	)
	// Live ranges
	for i, entry := range p.Ranges {
		intervals, ierr := toIntervals(fmt.Sprintf("range %s", entry.Name), entry.Intervals)
		err = multierr.Append(err, ierr)
		//
		if entry.Name == "" {
			err = multierr.Append(err, fmt.Errorf("range #%d has no name", i))
		} else if _, ok := ranges[entry.Name]; ok {
			err = multierr.Append(err, fmt.Errorf("range %s declared twice", entry.Name))
		} else if ierr == nil {
			ranges[entry.Name] = db.NewRange(entry.Name, intervals...)
		}
	}
	// Fixed occupants
	for _, entry := range p.Fixed {
		intervals, ierr := toIntervals(fmt.Sprintf("fixed unit %d", entry.Unit), entry.Intervals)
		//
		if entry.Unit >= target.NumUnits() {
			err = multierr.Append(err, fmt.Errorf("fixed unit %d out of range", entry.Unit))
		} else if ierr != nil {
			err = multierr.Append(err, ierr)
		} else {
			db.AddFixed(machine.Unit(entry.Unit), intervals...)
		}
	}
	// Register masks
	for _, entry := range p.RegMasks {
		var preserved []machine.Register
		//
		for _, name := range entry.Preserved {
			if reg, ok := target.Lookup(name); ok {
				preserved = append(preserved, reg)
			} else {
				err = multierr.Append(err, fmt.Errorf("regmask at %d preserves unknown register %s", entry.Slot, name))
			}
		}
		//
		db.AddRegMask(live.Slot(entry.Slot), preserved...)
	}
	// Copies
	for _, entry := range p.Copies {
		vr, ok1 := ranges[entry.Range]
		reg, ok2 := target.Lookup(entry.Register)
		//
		if !ok1 {
			err = multierr.Append(err, fmt.Errorf("copy at %d from unknown range %s", entry.Slot, entry.Range))
		} else if !ok2 {
			err = multierr.Append(err, fmt.Errorf("copy at %d to unknown register %s", entry.Slot, entry.Register))
		} else {
			db.AddCopy(live.Slot(entry.Slot), vr.Id, reg)
		}
	}
	//
	steps, serr := p.buildSteps(target, ranges)
	err = multierr.Append(err, serr)
	//
	if err != nil {
		return nil, err
	}
	//
	return &Scenario{target, db, target.NumUnits(), steps}, nil
}

func (p *File) buildSteps(target *machine.Target, ranges map[string]*live.Range) ([]step, error) {
	var (
		err      error
		steps    []step
		assigned = make(map[*live.Range]bool)
	)
	//
	for i, entry := range p.Steps {
		var (
			s     = step{index: uint(i), expect: util.None[matrix.Kind]()}
			vr    = ranges[entry.Range]
			reg   machine.Register
			regOk bool
		)
		//
		s.vr = vr
		reg, regOk = target.Lookup(entry.Register)
		s.reg = reg
		//
		switch entry.Op {
		case "assign":
			s.op = opAssign
		case "unassign":
			s.op = opUnassign
		case "check":
			s.op = opCheck
		case "invalidate":
			s.op = opInvalidate
		default:
			err = multierr.Append(err, fmt.Errorf("step %d: unknown operation \"%s\"", i, entry.Op))
			continue
		}
		// Check operands
		if s.op != opInvalidate && vr == nil {
			err = multierr.Append(err, fmt.Errorf("step %d: unknown range \"%s\"", i, entry.Range))
			continue
		} else if (s.op == opAssign || s.op == opCheck) && !regOk {
			err = multierr.Append(err, fmt.Errorf("step %d: unknown register \"%s\"", i, entry.Register))
			continue
		}
		// Check contract
		switch {
		case s.op == opAssign && assigned[vr]:
			err = multierr.Append(err, fmt.Errorf("step %d: range %s already assigned", i, entry.Range))
		case s.op == opUnassign && !assigned[vr]:
			err = multierr.Append(err, fmt.Errorf("step %d: range %s not assigned", i, entry.Range))
		case s.op == opAssign:
			assigned[vr] = true
		case s.op == opUnassign:
			delete(assigned, vr)
		}
		// Check expectation
		if entry.Expect != "" {
			kind, kerr := matrix.ParseKind(entry.Expect)
			//
			if kerr != nil {
				err = multierr.Append(err, fmt.Errorf("step %d: %w", i, kerr))
			} else if s.op != opCheck {
				err = multierr.Append(err, fmt.Errorf("step %d: expectation given for %s", i, entry.Op))
			}
			//
			s.expect = util.Some(kind)
		}
		//
		steps = append(steps, s)
	}
	//
	return steps, err
}

// Range returns the live range with a given name, or nil if no such range
// exists.
func (p *Scenario) Range(name string) *live.Range {
	for _, r := range p.Database.Ranges() {
		if r.Name == name {
			return r
		}
	}
	//
	return nil
}

// NumSteps returns the number of steps in this scenario.
func (p *Scenario) NumSteps() uint {
	return uint(len(p.steps))
}

func toIntervals(context string, pairs [][2]uint32) ([]live.Interval, error) {
	var (
		err       error
		intervals = make([]live.Interval, 0, len(pairs))
	)
	//
	for _, pair := range pairs {
		if pair[1] <= pair[0] {
			err = multierr.Append(err, fmt.Errorf("%s has empty interval [%d,%d)", context, pair[0], pair[1]))
		} else {
			intervals = append(intervals, live.NewInterval(live.Slot(pair[0]), live.Slot(pair[1])))
		}
	}
	//
	return intervals, err
}
