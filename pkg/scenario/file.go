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
	"bytes"
	"fmt"
	"os"

	"github.com/segmentio/encoding/json"
)

// File captures the raw contents of a scenario file.  A scenario describes a
// register file, a set of live ranges (along with fixed register unit
// occupants, register masks and copies), and a sequence of steps to perform
// against an interference matrix.  For example:
//
//	{"registers": [{"name": "r0", "units": [0]}],
//	 "ranges": [{"name": "x", "intervals": [[0, 10]]}],
//	 "steps": [{"op": "check", "range": "x", "register": "r0", "expect": "free"}]}
type File struct {
	// Number of register units (optional, otherwise inferred from registers).
	Units uint `json:"units,omitempty"`
	// Physical registers
	Registers []RegisterEntry `json:"registers"`
	// Virtual live ranges
	Ranges []RangeEntry `json:"ranges"`
	// Fixed register unit occupants
	Fixed []FixedEntry `json:"fixed,omitempty"`
	// Register masks
	RegMasks []RegMaskEntry `json:"regmasks,omitempty"`
	// Copies between live ranges and physical registers
	Copies []CopyEntry `json:"copies,omitempty"`
	// Steps to perform
	Steps []Step `json:"steps"`
}

// RegisterEntry describes a physical register.
type RegisterEntry struct {
	Name  string `json:"name"`
	Units []uint `json:"units"`
}

// RangeEntry describes a virtual live range.  Each interval is a half-open
// pair [start, end).
type RangeEntry struct {
	Name      string      `json:"name"`
	Intervals [][2]uint32 `json:"intervals"`
}

// FixedEntry describes the fixed occupant of a register unit.
type FixedEntry struct {
	Unit      uint        `json:"unit"`
	Intervals [][2]uint32 `json:"intervals"`
}

// RegMaskEntry describes a program point at which all but the preserved
// registers are clobbered.
type RegMaskEntry struct {
	Slot      uint32   `json:"slot"`
	Preserved []string `json:"preserved"`
}

// CopyEntry describes a copy between a live range and a physical register.
type CopyEntry struct {
	Slot     uint32 `json:"slot"`
	Range    string `json:"range"`
	Register string `json:"register"`
}

// Step is a single operation to perform on the matrix.
type Step struct {
	// One of "assign", "unassign", "check" or "invalidate".
	Op       string `json:"op"`
	Range    string `json:"range,omitempty"`
	Register string `json:"register,omitempty"`
	// Expected outcome of a check (optional).
	Expect string `json:"expect,omitempty"`
}

// Parse a scenario file from its JSON representation.  Unknown fields are
// rejected.
func Parse(data []byte) (*File, error) {
	var file File
	//
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	//
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("malformed scenario: %w", err)
	}
	//
	return &file, nil
}

// ReadFile reads and parses a scenario file.
func ReadFile(filename string) (*File, error) {
	data, err := os.ReadFile(filename)
	//
	if err != nil {
		return nil, err
	}
	//
	file, err := Parse(data)
	//
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	//
	return file, nil
}
