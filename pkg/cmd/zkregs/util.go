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
package zkregs

import (
	"fmt"
	"os"
	"strings"

	"github.com/consensys/go-zkregs/pkg/program"
	"github.com/consensys/go-zkregs/pkg/program/manifest"
	"github.com/consensys/go-zkregs/pkg/stack"
	"github.com/consensys/go-zkregs/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetString gets an expected string, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetStringArray gets an expected string array, or exits if an error arises.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// LoadStack reads the manifest of a program, along with the manifests of any
// programs it imports, and constructs the corresponding stack.  Imported
// manifests must be given in dependency order.
func LoadStack(filename string, imports []string) (*stack.Stack, error) {
	var stacks = make(map[program.ProgramID]*stack.Stack)
	//
	load := func(filename string) (*stack.Stack, error) {
		log.Debug(fmt.Sprintf("reading manifest %s", filename))
		//
		prog, err := manifest.Load(filename)
		if err != nil {
			return nil, err
		}
		//
		var deps []*stack.Stack
		//
		for _, pid := range prog.Imports() {
			if dep, ok := stacks[pid]; ok {
				deps = append(deps, dep)
			}
		}
		//
		ctx, err := stack.New(prog, deps...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		//
		stacks[prog.ID()] = ctx
		//
		return ctx, nil
	}
	//
	for _, imp := range imports {
		if _, err := load(imp); err != nil {
			return nil, err
		}
	}
	//
	return load(filename)
}

// loadStackOrExit loads a stack, reporting any errors and exiting.
func loadStackOrExit(cmd *cobra.Command, filename string) *stack.Stack {
	ctx, err := LoadStack(filename, GetStringArray(cmd, "import"))
	if err != nil {
		log.Error(err)
		os.Exit(3)
	}
	//
	return ctx
}

// ParseInputs parses the inputs of a function from the command line.  Only
// literal inputs are supported.
func ParseInputs(args []string) ([]program.Value, error) {
	var inputs = make([]program.Value, len(args))
	//
	for i, arg := range args {
		lit, err := program.ParseLiteral(arg)
		if err != nil {
			return nil, err
		}
		//
		inputs[i] = lit
	}
	//
	return inputs, nil
}

// ParseCaller parses the caller of a transition, which is either an address or
// a program ID (in which case the program's address is used).
func ParseCaller(s string) (program.Address, error) {
	if strings.HasPrefix(s, "addr1") {
		return program.ParseAddress(s)
	}
	//
	pid, err := program.ParseProgramID(s)
	if err != nil {
		return program.Address{}, err
	}
	//
	return pid.ToAddress(), nil
}

// isTerminal checks whether output is being written to a terminal, in which
// case ANSI escapes can be used.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// highlight text in bold, but only when writing to a terminal.
func highlight(text string) string {
	if isTerminal() {
		return termio.BoldAnsiEscape().Wrap(text)
	}
	//
	return text
}
