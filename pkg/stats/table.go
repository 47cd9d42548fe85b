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
package stats

import (
	"fmt"
	"sync"

	"go.uber.org/atomic"
)

// Counter identifies a single counter within a statistics table.
type Counter uint

// Table is a fixed-size (though growable) table of counters.  Counters can be
// updated concurrently from multiple goroutines.  A table is reference
// counted: it is created with one reference, further references are taken with
// Attach, and the table is released when the last reference is detached.
type Table struct {
	refs atomic.Int32
	// Guards the counters slice itself (not the counter values), since a
	// resize replaces it.
	mutex    sync.RWMutex
	counters []atomic.Uint64
}

// New constructs a table with a given number of counters, all initially zero.
func New(n uint) *Table {
	table := &Table{counters: make([]atomic.Uint64, n)}
	table.refs.Store(1)
	//
	return table
}

// Attach takes a new reference to this table.
func (p *Table) Attach() *Table {
	for {
		refs := p.refs.Load()
		//
		if refs <= 0 {
			panic("attaching to released statistics table")
		} else if p.refs.CAS(refs, refs+1) {
			return p
		}
	}
}

// Detach drops a reference to this table, returning true if this was the last
// reference (in which case the table is released and must no longer be used).
func (p *Table) Detach() bool {
	var refs int32
	//
	for {
		if refs = p.refs.Load(); refs <= 0 {
			panic("detaching from released statistics table")
		} else if p.refs.CAS(refs, refs-1) {
			break
		}
	}
	//
	if refs == 1 {
		p.mutex.Lock()
		p.counters = nil
		p.mutex.Unlock()
		//
		return true
	}
	//
	return false
}

// Len returns the number of counters in this table.
func (p *Table) Len() uint {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	//
	return uint(len(p.counters))
}

// Increment a given counter.
func (p *Table) Increment(c Counter) {
	p.update(c, func(v *atomic.Uint64) { v.Inc() })
}

// Decrement a given counter.
func (p *Table) Decrement(c Counter) {
	p.update(c, func(v *atomic.Uint64) { v.Dec() })
}

// Set a given counter to a given value.
func (p *Table) Set(c Counter, val uint64) {
	p.update(c, func(v *atomic.Uint64) { v.Store(val) })
}

// Get the current value of a given counter.
func (p *Table) Get(c Counter) uint64 {
	var val uint64
	//
	p.update(c, func(v *atomic.Uint64) { val = v.Load() })
	//
	return val
}

// Resize this table so that it has (at least) n counters.  Existing counters
// retain their values, and new counters are zero.  A table is never shrunk.
func (p *Table) Resize(n uint) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	//
	if p.counters == nil {
		panic("resizing released statistics table")
	} else if uint(len(p.counters)) >= n {
		return
	}
	//
	counters := make([]atomic.Uint64, n)
	//
	for i := range p.counters {
		counters[i].Store(p.counters[i].Load())
	}
	//
	p.counters = counters
}

// Dump calls a given function for each counter in turn (in order), passing the
// counter and its value.  Counters whose value is zero are skipped unless
// zeros is set.
func (p *Table) Dump(fn func(Counter, uint64), zeros bool) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	//
	for i := range p.counters {
		if val := p.counters[i].Load(); val != 0 || zeros {
			fn(Counter(i), val)
		}
	}
}

func (p *Table) update(c Counter, fn func(*atomic.Uint64)) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	//
	if p.counters == nil {
		panic("use of released statistics table")
	} else if uint(c) >= uint(len(p.counters)) {
		panic(fmt.Sprintf("invalid counter %d (table has %d)", c, len(p.counters)))
	}
	//
	fn(&p.counters[c])
}
