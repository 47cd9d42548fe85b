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
package termio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Table_00(t *testing.T) {
	var (
		out   strings.Builder
		table = NewTablePrinter(2, 2)
	)
	//
	table.SetRow(0, "unit", "union")
	table.Set(0, 1, "0")
	table.Set(1, 1, "[0,10):x")
	require.NoError(t, table.Write(&out))
	assert.Equal(t, " unit |    union |\n    0 | [0,10):x |\n", out.String())
	assert.Equal(t, "0", table.Get(0, 1))
	assert.Equal(t, uint(2), table.Height())
}

func Test_Table_01(t *testing.T) {
	var (
		out   strings.Builder
		table = NewTablePrinter(1, 1)
	)
	// Long cells are truncated
	table.Set(0, 0, "abcdefgh")
	table.SetMaxWidths(5)
	require.NoError(t, table.Write(&out))
	assert.Equal(t, " abc.. |\n", out.String())
}

func Test_Table_02(t *testing.T) {
	table := NewTablePrinter(2, 1)
	assert.Panics(t, func() { table.SetRow(0, "x") })
}
