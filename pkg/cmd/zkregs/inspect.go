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

	"github.com/consensys/go-zkregs/pkg/program"
	"github.com/consensys/go-zkregs/pkg/stack"
	"github.com/consensys/go-zkregs/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] manifest",
	Short: "Inspect the register types of a program.",
	Long: `Report the inferred type of every register used by the closures, functions
and finalize blocks of a program, along with the number of calls made by each
function.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		ctx := loadStackOrExit(cmd, args[0])
		prog := ctx.Program()
		//
		fmt.Printf("program %s\n", highlight(prog.ID().String()))
		//
		for _, c := range prog.Closures() {
			fmt.Printf("\nclosure %s:\n", highlight(c.Name.String()))
			printRegisterTypes(ctx, c.Name)
		}
		//
		for _, fn := range prog.Functions() {
			calls, err := ctx.GetNumberOfCalls(fn.Name)
			if err != nil {
				log.Error(err)
				os.Exit(4)
			}
			//
			fmt.Printf("\nfunction %s (%d calls):\n", highlight(fn.Name.String()), calls)
			printRegisterTypes(ctx, fn.Name)
			//
			if fin, ok := fn.Finalize.Get(); ok {
				fmt.Printf("finalize %s:\n", fin.Name)
				printFinalizeTypes(ctx, fin.Name)
			}
		}
	},
}

func printRegisterTypes(ctx *stack.Stack, name program.Identifier) {
	types, err := ctx.GetRegisterTypes(name)
	if err != nil {
		log.Error(err)
		os.Exit(4)
	}
	//
	printRegisters(types)
}

func printFinalizeTypes(ctx *stack.Stack, name program.Identifier) {
	types, err := ctx.GetFinalizeTypes(name)
	if err != nil {
		log.Error(err)
		os.Exit(4)
	}
	//
	printRegisters(&types.RegisterTypes)
}

// printRegisters prints the input registers followed by the destination
// registers, along with their declared types.
func printRegisters(types *stack.RegisterTypes) {
	var table = termio.NewTablePrinter(3)
	//
	table.AnsiEscapes(isTerminal())
	//
	add := func(kind string, reg program.Register) {
		t, err := types.Type(reg)
		if err != nil {
			log.Error(err)
			os.Exit(4)
		}
		//
		row := table.AddRow(kind, reg.String(), t.String())
		table.SetEscape(1, row, termio.BoldAnsiEscape().FgColour(termio.TERM_CYAN))
	}
	//
	for _, reg := range types.Inputs() {
		add("input", reg)
	}
	//
	for _, reg := range types.Destinations() {
		add("", reg)
	}
	//
	if err := table.Print(os.Stdout); err != nil {
		log.Error(err)
		os.Exit(4)
	}
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(inspectCmd)
}
