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
	"os"

	"github.com/consensys/go-regmatrix/pkg/scenario"
	"github.com/consensys/go-regmatrix/pkg/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer flag, or exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Configure logging based on the (persistent) verbose flag.
func configureLogging(cmd *cobra.Command) {
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
}

// Read, validate and run a scenario file.  All problems found whilst
// validating are returned together, each prefixed with the filename.
func runScenarioFile(filename string, stats bool) (*scenario.Run, error) {
	perf := util.NewPerfStats()
	//
	file, err := scenario.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	//
	sc, err := file.Build()
	if err != nil {
		var errs error
		//
		for _, e := range multierr.Errors(err) {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", filename, e))
		}
		//
		return nil, errs
	}
	//
	if stats {
		perf.Log(fmt.Sprintf("Reading %s", filename))
		perf = util.NewPerfStats()
	}
	//
	run, err := sc.Run()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	//
	if stats {
		perf.Log(fmt.Sprintf("Running %s (%d steps)", filename, sc.NumSteps()))
	}
	//
	return run, nil
}

// Report every error (e.g. from runScenarioFile) and exit with status 2.
func exitWithErrors(err error) {
	for _, e := range multierr.Errors(err) {
		fmt.Println(e)
	}
	//
	os.Exit(2)
}
