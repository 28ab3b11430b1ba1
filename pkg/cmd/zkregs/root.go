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
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version of this executable.  This is normally injected by the linker (e.g.
// -ldflags "-X ...Version=v1.0.0") and, when absent, falls back to the module
// version recorded in the binary.
var Version string

var rootCmd = &cobra.Command{
	Use:   "zkregs",
	Short: "A toolbox for zkVM register files.",
	Long:  "A toolbox for inspecting and executing programs over plain and circuit register files.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Printf("zkregs %s\n", version())
			return
		}
		//
		fmt.Println(cmd.UsageString())
	},
}

// version reports the version of this executable, or "(unknown version)" when
// it cannot be determined (e.g. under "go run").
func version() string {
	if Version != "" {
		return Version
	} else if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	//
	return "(unknown version)"
}

// Execute runs whichever command is selected by the command-line arguments,
// exiting with a non-zero status if that fails.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Bool("version", false, "report the version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringArray("import", nil, "manifest of an imported program")
}
