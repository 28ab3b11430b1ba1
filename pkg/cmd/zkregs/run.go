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

	"github.com/consensys/go-zkregs/pkg/circuit"
	"github.com/consensys/go-zkregs/pkg/exec"
	"github.com/consensys/go-zkregs/pkg/program"
	"github.com/consensys/go-zkregs/pkg/stack"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] manifest function [inputs...]",
	Short: "Run a function of a program on given inputs.",
	Long: `Run a function of a program on a given set of literal inputs.  In evaluate
mode only plain values are computed, whilst in execute mode a constraint system is
synthesised alongside and checked for satisfaction.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		mode, ok := stack.ParseMode(GetString(cmd, "mode"))
		if !ok || (mode != stack.EVALUATE && mode != stack.EXECUTE) {
			fmt.Printf("unknown mode \"%s\"\n", GetString(cmd, "mode"))
			os.Exit(2)
		}
		//
		caller, err := ParseCaller(GetString(cmd, "caller"))
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		fn, err := program.ParseIdentifier(args[1])
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		inputs, err := ParseInputs(args[2:])
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		ctx := loadStackOrExit(cmd, args[0])
		req := exec.Request{
			Function: fn,
			Caller:   caller,
			Seed:     []byte(GetString(cmd, "tvk-seed")),
			Inputs:   inputs,
		}
		//
		res, err := exec.Execute(ctx, mode, req)
		if err != nil {
			log.Error(err)
			os.Exit(4)
		}
		//
		printResponse(res)
	},
}

func printResponse(res *exec.Response) {
	fmt.Printf("transition %s\n", res.Transition)
	//
	for i, output := range res.Outputs {
		fmt.Printf("\toutput %d: %s\n", i, highlight(fmt.Sprint(output)))
		//
		if c, ok := res.Commitments[i].Get(); ok {
			fmt.Printf("\t\tcommitment %s\n", c.String())
		}
	}
	//
	if res.System != nil {
		fmt.Printf("%d constraints over %d variables (%d public, %d private)\n", res.System.NumConstraints(),
			res.System.NumVariables(), res.System.Count(circuit.PUBLIC), res.System.Count(circuit.PRIVATE))
	}
}

//nolint:errcheck
func init() {
	runCmd.Flags().String("mode", "evaluate", "execution mode (evaluate or execute)")
	runCmd.Flags().String("caller", "zkregs.aleo", "caller of the transition (address or program id)")
	runCmd.Flags().String("tvk-seed", "", "seed from which the transition view key is derived")
	rootCmd.AddCommand(runCmd)
}
