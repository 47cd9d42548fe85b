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

	"github.com/consensys/go-regmatrix/pkg/matrix"
	"github.com/consensys/go-regmatrix/pkg/scenario"
	"github.com/consensys/go-regmatrix/pkg/stats"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [flags] scenario_file...",
	Short: "Check the outcomes of one or more scenarios.",
	Long: `Run one or more scenario files against an interference matrix,
	and check each interference query produces the expected outcome.
	Exits with status 1 if any outcome is not as expected.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		configureLogging(cmd)
		//
		status, err := checkScenarios(os.Stdout, args, GetFlag(cmd, "quiet"), GetFlag(cmd, "stats"))
		//
		if err != nil {
			exitWithErrors(err)
		}
		//
		os.Exit(status)
	},
}

// Run and check each scenario file in turn, writing outcomes to a given
// writer.  The exit status is returned: 0 if every outcome was as expected,
// and 1 otherwise.  An error is returned if a scenario could not be run.
func checkScenarios(out io.Writer, filenames []string, quiet bool, showStats bool) (int, error) {
	failures := 0
	//
	for _, filename := range filenames {
		run, err := runScenarioFile(filename, showStats)
		//
		if err != nil {
			return 2, err
		}
		//
		n, err := printOutcomes(out, filename, run, quiet)
		//
		if err != nil {
			return 2, err
		}
		//
		failures += n
		//
		if showStats {
			printMatrixStats(run.Matrix)
		}
	}
	//
	if failures > 0 {
		log.Errorf("%d outcome(s) not as expected", failures)
		return 1, nil
	}
	//
	return 0, nil
}

// Print outcomes of a given run, returning the number of failures.
func printOutcomes(out io.Writer, filename string, run *scenario.Run, quiet bool) (int, error) {
	var failures = 0
	//
	for _, outcome := range run.Outcomes {
		var err error
		//
		if !outcome.Ok() {
			failures++
			//
			_, err = fmt.Fprintf(out, "%s: FAIL %s\n", filename, outcome.String())
		} else if !quiet {
			_, err = fmt.Fprintf(out, "%s: ok %s\n", filename, outcome.String())
		}
		//
		if err != nil {
			return failures, err
		}
	}
	//
	return failures, nil
}

// Print the statistics table of a given matrix.
func printMatrixStats(m *matrix.Matrix) {
	table := m.Stats()
	// Done with this reference
	defer table.Detach()
	//
	table.Dump(func(c stats.Counter, val uint64) {
		log.Infof("%s: %d", matrix.StatNames[c], val)
	}, true)
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolP("quiet", "q", false, "only report outcomes which are not as expected")
}
