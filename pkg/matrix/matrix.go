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

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-regmatrix/pkg/live"
	"github.com/consensys/go-regmatrix/pkg/machine"
	"github.com/consensys/go-regmatrix/pkg/stats"
	"github.com/consensys/go-regmatrix/pkg/util"
	"github.com/consensys/go-regmatrix/pkg/util/collection/iter"
	log "github.com/sirupsen/logrus"
)

// MaxUnits is the largest number of register units for which a matrix can be
// initialised.
const MaxUnits = machine.MaxUnits

// Generation identifies a period during which cached query results remain
// valid.  Invalidating a matrix moves it into a new generation, thereby
// discarding every cached result at once.
type Generation uint64

// Counters maintained by a matrix in its statistics table.
const (
	// StatAssigned counts calls to Assign.
	StatAssigned stats.Counter = iota
	// StatUnassigned counts calls to Unassign.
	StatUnassigned
	// StatQueriesRebound counts how often a per-unit query was rebound.
	StatQueriesRebound
	// StatRegMaskHits counts register mask checks answered from the cache.
	StatRegMaskHits
	// StatRegMaskMisses counts register mask checks requiring the database.
	StatRegMaskMisses
	// NumStats is the number of counters in the statistics table.
	NumStats
)

// StatNames gives a human-readable name for each counter.
var StatNames = [NumStats]string{"assigned", "unassigned", "queries rebound", "regmask hits", "regmask misses"}

// Target describes how physical registers decompose into register units.
type Target interface {
	// Name of a given physical register.
	Name(machine.Register) string
	// Units of a given physical register, in increasing order.
	Units(machine.Register) iter.Iterator[machine.Unit]
}

// AssignmentMap records which physical register each virtual register
// currently occupies.
type AssignmentMap interface {
	HasPhys(live.VirtId) bool
	Phys(live.VirtId) machine.Register
	Assign(live.VirtId, machine.Register)
	Clear(live.VirtId)
}

// UsageTracker records which physical registers have been used.
type UsageTracker interface {
	MarkUsed(machine.Register)
}

// Matrix tracks, for every register unit, the union of all live ranges
// currently assigned to a physical register containing that unit.  This allows
// interference between a live range and a physical register to be determined
// without examining every assigned live range.
//
// A matrix is not safe for concurrent use.
type Matrix struct {
	target    Target
	db        live.Database
	vrm       AssignmentMap
	used      UsageTracker
	coalescer live.Coalescable
	// One union per register unit.
	unions []Union
	// One query slot per register unit.
	queries    []Query
	generation Generation
	regMask    regMaskCache
	stats      *stats.Table
	// Set once Init has succeeded.
	initialised bool
}

// The single cached result of a register mask check.
type regMaskCache struct {
	valid      bool
	virt       live.VirtId
	generation Generation
	usable     *bitset.BitSet
	found      bool
}

// New constructs an uninitialised matrix on top of the given collaborators.
// Init must be called before the matrix is used.
func New(target Target, db live.Database, vrm AssignmentMap, used UsageTracker) *Matrix {
	return &Matrix{target: target, db: db, vrm: vrm, used: used, stats: stats.New(uint(NumStats))}
}

// SetCoalescer determines which overlaps with fixed register unit occupants can
// be ignored.  By default (or when nil), none are.
func (p *Matrix) SetCoalescer(coalescer live.Coalescable) {
	p.coalescer = coalescer
}

// Init (re)initialises this matrix for a given number of register units,
// discarding all unions and invalidating all cached results.  The query arena
// is only reallocated when the number of units changes.  If an error is
// returned, the matrix is left exactly as it was.
func (p *Matrix) Init(units uint) error {
	if units > MaxUnits {
		return fmt.Errorf("cannot allocate interference matrix for %d register units (max %d)", units, MaxUnits)
	}
	//
	queries := p.queries
	//
	if uint(len(queries)) != units {
		queries = make([]Query, units)
	}
	//
	p.unions = make([]Union, units)
	p.queries = queries
	p.regMask = regMaskCache{}
	p.initialised = true
	p.Invalidate()
	//
	log.Debugf("initialised interference matrix with %d register units", units)
	//
	return nil
}

// Release discards all unions, for example between functions.  The matrix
// remains initialised.  Note the assignment map is not affected.
func (p *Matrix) Release() {
	p.checkInitialised()
	//
	for i := range p.unions {
		p.unions[i].reset()
	}
	//
	p.regMask = regMaskCache{}
	p.Invalidate()
}

// NumUnits returns the number of register units this matrix was initialised
// for.
func (p *Matrix) NumUnits() uint {
	return uint(len(p.unions))
}

// Generation returns the current generation of this matrix.
func (p *Matrix) Generation() Generation {
	return p.generation
}

// Invalidate all cached results in constant time, by moving into a new
// generation.  This must be called whenever a live range is modified.
func (p *Matrix) Invalidate() {
	p.generation++
}

// Assign a live range to a given physical register.  The live range must not
// already be assigned.
func (p *Matrix) Assign(vr *live.Range, reg machine.Register) {
	p.checkInitialised()
	//
	if p.vrm.HasPhys(vr.Id) {
		panic(fmt.Sprintf("%s already assigned to %s", vr.String(), p.target.Name(p.vrm.Phys(vr.Id))))
	}
	//
	log.Debugf("assigning %s to %s", vr.String(), p.target.Name(reg))
	p.vrm.Assign(vr.Id, reg)
	p.used.MarkUsed(reg)
	//
	for it := p.target.Units(reg); it.HasNext(); {
		p.union(it.Next()).unify(vr)
	}
	//
	p.stats.Increment(StatAssigned)
}

// Unassign a live range from its physical register.  The live range must
// currently be assigned.
func (p *Matrix) Unassign(vr *live.Range) {
	p.checkInitialised()
	//
	if !p.vrm.HasPhys(vr.Id) {
		panic(fmt.Sprintf("%s is not assigned", vr.String()))
	}
	//
	reg := p.vrm.Phys(vr.Id)
	log.Debugf("unassigning %s from %s", vr.String(), p.target.Name(reg))
	// Check every union before touching any, so a provenance mismatch leaves
	// both unions and assignment untouched.
	for it := p.target.Units(reg); it.HasNext(); {
		union := p.union(it.Next())
		//
		if count := union.count(vr); !vr.IsEmpty() && count != len(vr.Intervals()) {
			panic(fmt.Sprintf("cannot unassign %s (%d of %d segments found)", vr.String(), count, len(vr.Intervals())))
		}
	}
	//
	for it := p.target.Units(reg); it.HasNext(); {
		p.union(it.Next()).extract(vr)
	}
	//
	p.vrm.Clear(vr.Id)
	p.stats.Increment(StatUnassigned)
}

// IsPhysRegUsed checks whether any live range is assigned to a register unit of
// a given physical register.
func (p *Matrix) IsPhysRegUsed(reg machine.Register) bool {
	p.checkInitialised()
	//
	for it := p.target.Units(reg); it.HasNext(); {
		if !p.union(it.Next()).IsEmpty() {
			return true
		}
	}
	//
	return false
}

// Union returns the union for a given register unit.  This should not be
// modified.
func (p *Matrix) Union(unit machine.Unit) *Union {
	p.checkInitialised()
	//
	return p.union(unit)
}

// Query returns the query for a given live range against a given register
// unit.  The query slot for that unit is rebound if it was last used for a
// different live range, or in a different generation.  No interference is
// computed until the query is checked.
func (p *Matrix) Query(vr *live.Range, unit machine.Unit) *Query {
	union := p.Union(unit)
	query := &p.queries[unit]
	//
	if !query.isBoundTo(union, vr, p.generation) {
		query.bind(union, vr, p.generation)
		p.stats.Increment(StatQueriesRebound)
	}
	//
	return query
}

// CheckRegMaskInterference checks whether a live range crosses a register mask
// which clobbers a given physical register.  When no physical register is
// given, this checks whether the live range crosses any register mask at all.
// The answer from the database is cached for the most recent live range,
// until the generation changes.
func (p *Matrix) CheckRegMaskInterference(vr *live.Range, reg util.Option[machine.Register]) bool {
	p.checkInitialised()
	//
	cache := &p.regMask
	//
	if cache.valid && cache.virt == vr.Id && cache.generation == p.generation {
		p.stats.Increment(StatRegMaskHits)
	} else {
		usable, found := p.db.CheckRegMaskInterference(vr)
		*cache = regMaskCache{true, vr.Id, p.generation, usable, found}
		p.stats.Increment(StatRegMaskMisses)
	}
	//
	if !cache.found {
		return false
	}
	//
	return reg.IsEmpty() || !cache.usable.Test(uint(reg.Unwrap()))
}

// CheckRegUnitInterference checks whether a live range overlaps the fixed
// occupant of any register unit of a given physical register.  Overlaps for
// which the given (optional) coalescing strategy holds are ignored.
func (p *Matrix) CheckRegUnitInterference(vr *live.Range, reg machine.Register, coalescer live.Coalescable) bool {
	p.checkInitialised()
	//
	var ignore func(live.Slot) bool
	//
	if coalescer != nil {
		ignore = func(at live.Slot) bool { return coalescer(vr.Id, reg, at) }
	}
	//
	for it := p.target.Units(reg); it.HasNext(); {
		if vr.OverlapsUnless(p.db.UnitRange(it.Next()), ignore) {
			return true
		}
	}
	//
	return false
}

// CheckInterference determines whether a live range can be assigned to a given
// physical register and, if not, the cheapest kind of conflict preventing it.
// Checks are performed from cheapest to most expensive, and stop at the first
// conflict found.
func (p *Matrix) CheckInterference(vr *live.Range, reg machine.Register) Kind {
	p.checkInitialised()
	//
	if vr.IsEmpty() {
		return Free
	} else if p.CheckRegMaskInterference(vr, util.Some(reg)) {
		return ConflictsWithRegMask
	} else if p.CheckRegUnitInterference(vr, reg, p.coalescer) {
		return ConflictsWithFixedUnit
	}
	//
	for it := p.target.Units(reg); it.HasNext(); {
		if p.Query(vr, it.Next()).CheckInterference() {
			return ConflictsWithVirtual
		}
	}
	//
	return Free
}

// Stats returns a new reference to the statistics table of this matrix.  The
// caller should detach it when finished.
func (p *Matrix) Stats() *stats.Table {
	return p.stats.Attach()
}

// NumAssigned returns the number of calls to Assign so far.
func (p *Matrix) NumAssigned() uint64 {
	return p.stats.Get(StatAssigned)
}

// NumUnassigned returns the number of calls to Unassign so far.
func (p *Matrix) NumUnassigned() uint64 {
	return p.stats.Get(StatUnassigned)
}

func (p *Matrix) union(unit machine.Unit) *Union {
	if uint(unit) >= uint(len(p.unions)) {
		panic(fmt.Sprintf("invalid register unit %d (matrix has %d)", unit, len(p.unions)))
	}
	//
	return &p.unions[unit]
}

func (p *Matrix) checkInitialised() {
	if !p.initialised {
		panic("interference matrix used before initialisation")
	}
}
