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

func Test_AnsiEscape_01(t *testing.T) {
	assert.Equal(t, "\033[0m", ResetAnsiEscape().Build())
	assert.Equal(t, "\033[1m", BoldAnsiEscape().Build())
	assert.Equal(t, "\033[1;31m", BoldAnsiEscape().FgColour(TERM_RED).Build())
	assert.Equal(t, "\033[1;32;44m", BoldAnsiEscape().FgColour(TERM_GREEN).BgColour(TERM_BLUE).Build())
}

func Test_AnsiEscape_02(t *testing.T) {
	var (
		bold = BoldAnsiEscape()
		red  = bold.FgColour(TERM_RED)
	)
	// Deriving an escape does not alter the original
	assert.Equal(t, "\033[1m", bold.Build())
	assert.Equal(t, "\033[1;31mr0\033[0m", red.Wrap("r0"))
}

func Test_TablePrinter_01(t *testing.T) {
	var (
		table = NewTablePrinter(3)
		out   strings.Builder
	)
	//
	table.AddRow("input", "r0", "u64.private")
	table.AddRow("", "r10", "boolean")
	require.NoError(t, table.Print(&out))
	//
	assert.Equal(t, uint(2), table.Height())
	assert.Equal(t, "r10", table.Get(1, 1))
	assert.Equal(t, "input  r0   u64.private\n       r10  boolean\n", out.String())
}

func Test_TablePrinter_02(t *testing.T) {
	var (
		table = NewTablePrinter(2)
		out   strings.Builder
	)
	//
	row := table.AddRow("r0", "u64")
	table.SetEscape(0, row, BoldAnsiEscape())
	require.NoError(t, table.Print(&out))
	assert.Equal(t, "\033[1mr0\033[0m  u64\n", out.String())
	// Disable escapes
	out.Reset()
	table.AnsiEscapes(false)
	require.NoError(t, table.Print(&out))
	assert.Equal(t, "r0  u64\n", out.String())
}

func Test_TablePrinter_03(t *testing.T) {
	assert.Panics(t, func() { NewTablePrinter(2).AddRow("r0") })
}
