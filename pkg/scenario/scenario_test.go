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
	"path/filepath"
	"testing"

	"github.com/consensys/go-regmatrix/pkg/live"
	"github.com/consensys/go-regmatrix/pkg/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

// Determines the (relative) location of the test directory.
const TestDir = "testdata"

func Test_Scenario_Basic(t *testing.T) {
	run := check_Scenario(t, "basic")
	// Interfering ranges are reported by name
	assert.Equal(t, "L1", run.Outcomes[0].Interfering[0].Name)
	assert.Equal(t, "L2", run.Outcomes[2].Interfering[0].Name)
	assert.Empty(t, run.Outcomes[3].Interfering)
	assert.Equal(t, uint64(2), run.Matrix.NumAssigned())
	assert.Equal(t, uint64(1), run.Matrix.NumUnassigned())
	assert.Equal(t, uint(1), run.Assignments.Len())
	assert.Equal(t, uint(2), run.Used.Count())
}

func Test_Scenario_Clobbers(t *testing.T) {
	run := check_Scenario(t, "clobbers")
	//
	assert.Equal(t, matrix.ConflictsWithRegMask, run.Outcomes[0].Kind)
	assert.Equal(t, matrix.Free, run.Outcomes[4].Kind)
}

func Test_Scenario_Mismatch(t *testing.T) {
	file, err := Parse([]byte(`{
		"registers": [{"name": "r0", "units": [0]}],
		"ranges": [{"name": "x", "intervals": [[0, 10]]}, {"name": "y", "intervals": [[5, 6]]}],
		"steps": [
			{"op": "assign", "range": "x", "register": "r0"},
			{"op": "check", "range": "y", "register": "r0", "expect": "free"},
			{"op": "check", "range": "y", "register": "r0"}
		]}`))
	require.NoError(t, err)
	scenario, err := file.Build()
	require.NoError(t, err)
	run, err := scenario.Run()
	require.NoError(t, err)
	// Checks without an expectation always succeed.
	require.Len(t, run.Outcomes, 2)
	assert.True(t, run.Outcomes[1].Ok())
	failures := run.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, uint(1), failures[0].Step)
	assert.Equal(t, "#1 y=[5,6) => r0: virtual (x) [expected free]", failures[0].String())
}

func Test_Scenario_Unknown(t *testing.T) {
	_, err := Parse([]byte(`{"registers": [], "rnages": []}`))
	assert.Error(t, err)
	_, err = Parse([]byte(`{"registers": [`))
	assert.Error(t, err)
}

func Test_Scenario_Invalid(t *testing.T) {
	file, err := Parse([]byte(`{
		"registers": [{"name": "r0", "units": [0]}],
		"ranges": [{"name": "x", "intervals": [[0, 10]]}, {"name": "x", "intervals": [[3, 3]]}],
		"fixed": [{"unit": 4, "intervals": [[0, 1]]}],
		"regmasks": [{"slot": 5, "preserved": ["r9"]}],
		"copies": [{"slot": 5, "range": "z", "register": "r0"}],
		"steps": [
			{"op": "assign", "range": "x", "register": "r0"},
			{"op": "assign", "range": "x", "register": "r0"},
			{"op": "unassign", "range": "y"},
			{"op": "check", "range": "x", "register": "r7"},
			{"op": "check", "range": "x", "register": "r0", "expect": "maybe"},
			{"op": "frobnicate"}
		]}`))
	require.NoError(t, err)
	scenario, err := file.Build()
	assert.Nil(t, scenario)
	// Every problem is reported, not just the first.
	assert.Len(t, multierr.Errors(err), 10)
}

func Test_Scenario_Target(t *testing.T) {
	file, err := Parse([]byte(`{"registers": [{"name": "r0", "units": [1, 0]}], "ranges": [], "steps": []}`))
	require.NoError(t, err)
	_, err = file.Build()
	assert.Error(t, err)
}

func Test_Scenario_Units(t *testing.T) {
	for _, units := range []string{"70000", "1125899906842624"} {
		file, err := Parse([]byte(`{"units": ` + units + `,
			"registers": [{"name": "r0", "units": [0]}], "ranges": [], "steps": []}`))
		require.NoError(t, err)
		scenario, err := file.Build()
		assert.Error(t, err)
		assert.Nil(t, scenario)
	}
	// Likewise for a unit referenced by a register
	file, err := Parse([]byte(`{"registers": [{"name": "r0", "units": [1125899906842624]}], "ranges": [], "steps": []}`))
	require.NoError(t, err)
	_, err = file.Build()
	assert.Error(t, err)
}

func Test_Scenario_Contract(t *testing.T) {
	file, err := Parse([]byte(`{
		"registers": [{"name": "r0", "units": [0]}],
		"ranges": [{"name": "x", "intervals": [[0, 10]]}],
		"steps": [
			{"op": "unassign", "range": "x"},
			{"op": "assign", "range": "x", "register": "r0", "expect": "free"}
		]}`))
	require.NoError(t, err)
	_, err = file.Build()
	assert.Len(t, multierr.Errors(err), 2)
}

func Test_Scenario_Range(t *testing.T) {
	file, err := ReadFile(filepath.Join(TestDir, "basic.json"))
	require.NoError(t, err)
	scenario, err := file.Build()
	require.NoError(t, err)
	assert.Equal(t, uint(10), scenario.NumSteps())
	assert.Equal(t, live.VirtId(2), scenario.Range("L3").Id)
	assert.Nil(t, scenario.Range("L9"))
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Scenario(t *testing.T, name string) *Run {
	file, err := ReadFile(filepath.Join(TestDir, name+".json"))
	require.NoError(t, err)
	scenario, err := file.Build()
	require.NoError(t, err)
	run, err := scenario.Run()
	require.NoError(t, err)
	//
	for _, outcome := range run.Outcomes {
		assert.True(t, outcome.Ok(), outcome.String())
	}
	//
	return run
}
