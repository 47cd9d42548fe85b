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
	"os"

	"golang.org/x/term"
)

// TerminalWidth returns the width of the terminal attached to stdout.  If
// stdout is not a terminal (e.g. output is being piped), or its size cannot be
// determined, the given fallback is returned instead.
func TerminalWidth(fallback uint) uint {
	fd := int(os.Stdout.Fd())
	//
	if !term.IsTerminal(fd) {
		return fallback
	}
	//
	w, _, err := term.GetSize(fd)
	//
	if err != nil || w <= 0 {
		return fallback
	}
	//
	return uint(w)
}
