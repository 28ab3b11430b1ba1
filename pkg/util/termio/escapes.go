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
	"fmt"
	"strings"
)

// Terminal colours, as used in ANSI escapes.
const (
	TERM_BLACK uint = iota
	TERM_RED
	TERM_GREEN
	TERM_YELLOW
	TERM_BLUE
	TERM_MAGENTA
	TERM_CYAN
	TERM_WHITE
)

// AnsiEscape represents an ANSI escape code used for formatting text in a
// terminal, built from zero or more select graphic rendition codes.
type AnsiEscape struct {
	codes []uint
}

// ResetAnsiEscape constructs an escape which clears all formatting.
func ResetAnsiEscape() AnsiEscape {
	return AnsiEscape{[]uint{0}}
}

// BoldAnsiEscape constructs an escape for bold text.
func BoldAnsiEscape() AnsiEscape {
	return AnsiEscape{[]uint{1}}
}

// FgColour adds a foreground colour to this escape.
func (p AnsiEscape) FgColour(col uint) AnsiEscape {
	return p.with(30 + col)
}

// BgColour adds a background colour to this escape.
func (p AnsiEscape) BgColour(col uint) AnsiEscape {
	return p.with(40 + col)
}

// Build constructs the final escape
func (p AnsiEscape) Build() string {
	var codes = make([]string, len(p.codes))
	//
	for i, c := range p.codes {
		codes[i] = fmt.Sprintf("%d", c)
	}
	//
	return "\033[" + strings.Join(codes, ";") + "m"
}

// Wrap some text in this escape, such that formatting is reset afterwards.
func (p AnsiEscape) Wrap(text string) string {
	return p.Build() + text + ResetAnsiEscape().Build()
}

func (p AnsiEscape) with(code uint) AnsiEscape {
	var codes = append([]uint(nil), p.codes...)
	//
	return AnsiEscape{append(codes, code)}
}
