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
	"strings"

	"github.com/consensys/go-regmatrix/pkg/live"
	"github.com/consensys/go-regmatrix/pkg/machine"
	"github.com/consensys/go-regmatrix/pkg/matrix"
	"github.com/consensys/go-regmatrix/pkg/util"
	"github.com/consensys/go-regmatrix/pkg/vreg"
	log "github.com/sirupsen/logrus"
)

// Outcome records the result of a single check step.
type Outcome struct {
	// Index of the step within the scenario.
	Step uint
	// Live range being checked
	Range *live.Range
	// Name of physical register being checked
	Register string
	// Kind of interference found
	Kind matrix.Kind
	// Expected kind of interference (if given)
	Expect util.Option[matrix.Kind]
	// Assigned live ranges found to interfere, when Kind is
	// ConflictsWithVirtual.
	Interfering []*live.Range
}

// Ok determines whether this outcome met its expectation (if any).
func (p Outcome) Ok() bool {
	return p.Expect.IsEmpty() || p.Expect.Unwrap() == p.Kind
}

func (p Outcome) String() string {
	var builder strings.Builder
	//
	builder.WriteString(fmt.Sprintf("#%d %s => %s: %s", p.Step, p.Range.String(), p.Register, p.Kind.ShortName()))
	//
	if len(p.Interfering) > 0 {
		names := make([]string, len(p.Interfering))
		//
		for i, r := range p.Interfering {
			names[i] = rangeName(r)
		}
		//
		builder.WriteString(fmt.Sprintf(" (%s)", strings.Join(names, ", ")))
	}
	//
	if !p.Ok() {
		builder.WriteString(fmt.Sprintf(" [expected %s]", p.Expect.Unwrap().ShortName()))
	}
	//
	return builder.String()
}

// Run captures the state after a scenario has been executed.
type Run struct {
	// Register file of the scenario
	Target *machine.Target
	// Matrix which was driven
	Matrix *matrix.Matrix
	// Final assignment of live ranges to physical registers
	Assignments *vreg.Assignments
	// Physical registers used during the run
	Used *machine.UsedRegisters
	// Outcomes of all check steps, in order.
	Outcomes []Outcome
}

// Failures returns those outcomes which did not meet their expectation.
func (p *Run) Failures() []Outcome {
	var failures []Outcome
	//
	for _, o := range p.Outcomes {
		if !o.Ok() {
			failures = append(failures, o)
		}
	}
	//
	return failures
}

// Run executes this scenario against a freshly initialised interference
// matrix.
func (p *Scenario) Run() (*Run, error) {
	var (
		vrm  = vreg.NewAssignments()
		used = machine.NewUsedRegisters(p.Target.NumRegisters())
		m    = matrix.New(p.Target, p.Database, vrm, used)
		run  = &Run{Target: p.Target, Matrix: m, Assignments: vrm, Used: used}
	)
	//
	if err := m.Init(p.units); err != nil {
		return nil, err
	}
	//
	m.SetCoalescer(p.Database.Coalescer())
	//
	for _, s := range p.steps {
		switch s.op {
		case opAssign:
			m.Assign(s.vr, s.reg)
		case opUnassign:
			m.Unassign(s.vr)
		case opInvalidate:
			m.Invalidate()
		case opCheck:
			outcome := p.check(m, s)
			log.Debugf("step %s", outcome.String())
			run.Outcomes = append(run.Outcomes, outcome)
		}
	}
	//
	return run, nil
}

func (p *Scenario) check(m *matrix.Matrix, s step) Outcome {
	outcome := Outcome{
		Step:     s.index,
		Range:    s.vr,
		Register: p.Target.Name(s.reg),
		Kind:     m.CheckInterference(s.vr, s.reg),
		Expect:   s.expect,
	}
	//
	if outcome.Kind == matrix.ConflictsWithVirtual {
		seen := make(map[*live.Range]bool)
		//
		for it := p.Target.Units(s.reg); it.HasNext(); {
			for _, r := range m.Query(s.vr, it.Next()).Interferences(0) {
				if !seen[r] {
					seen[r] = true
					outcome.Interfering = append(outcome.Interfering, r)
				}
			}
		}
	}
	//
	return outcome
}

func rangeName(r *live.Range) string {
	if r.Name != "" {
		return r.Name
	}
	//
	return fmt.Sprintf("%%%d", r.Id)
}
