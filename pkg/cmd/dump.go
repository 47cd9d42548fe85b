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
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/consensys/go-regmatrix/pkg/machine"
	"github.com/consensys/go-regmatrix/pkg/scenario"
	"github.com/consensys/go-regmatrix/pkg/util/termio"
	"github.com/spf13/cobra"
)

// Width assumed when stdout is not a terminal.
const defaultTextWidth = 130

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] scenario_file",
	Short: "print the interference matrix after running a scenario.",
	Long: `Run a given scenario file and print the final contents of the
	interference matrix, one register unit per row.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		configureLogging(cmd)
		//
		textWidth := dumpWidth(GetUint(cmd, "textwidth"), termio.TerminalWidth)
		//
		run, err := runScenarioFile(args[0], GetFlag(cmd, "stats"))
		if err != nil {
			exitWithErrors(err)
		}
		//
		if err := printMatrix(os.Stdout, run, textWidth); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		if GetFlag(cmd, "stats") {
			printMatrixStats(run.Matrix)
		}
	},
}

// Determine the width of the dump.  An explicit width takes precedence,
// otherwise the terminal is asked (falling back to a default).
func dumpWidth(textWidth uint, terminalWidth func(uint) uint) uint {
	if textWidth != 0 {
		return textWidth
	}
	//
	return terminalWidth(defaultTextWidth)
}

// Print one row per register unit, giving the registers which contain that
// unit and the current union of live ranges assigned to them.
func printMatrix(out io.Writer, run *scenario.Run, textWidth uint) error {
	var (
		target = run.Target
		n      = run.Matrix.NumUnits()
		table  = termio.NewTablePrinter(3, n+1)
	)
	//
	table.SetRow(0, "unit", "registers", "union")
	//
	for u := uint(0); u < n; u++ {
		var names []string
		//
		for _, reg := range target.Owners(machine.Unit(u)) {
			if run.Used.IsUsed(reg) {
				names = append(names, target.Name(reg)+"*")
			} else {
				names = append(names, target.Name(reg))
			}
		}
		//
		table.SetRow(u+1, fmt.Sprintf("%d", u), strings.Join(names, ","), run.Matrix.Union(machine.Unit(u)).String())
	}
	// Give whatever remains to the union column.
	used := min(textWidth, table.ColumnWidth(0)+table.ColumnWidth(1)+9)
	table.SetMaxWidth(2, textWidth-used)
	//
	return table.Write(out)
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().Uint("textwidth", 0, "Set maximum textwidth to use (default is terminal width)")
}
