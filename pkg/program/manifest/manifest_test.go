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
package manifest

import (
	"path/filepath"
	"testing"

	"github.com/consensys/go-zkregs/pkg/fault"
	"github.com/consensys/go-zkregs/pkg/program"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDir determines the (relative) location of the test manifests.
const TestDir = "../../../testdata/programs"

func Test_Manifest_01(t *testing.T) {
	prog, err := Load(filepath.Join(TestDir, "token.yaml"))
	require.NoError(t, err)
	//
	assert.Equal(t, "token.aleo", prog.ID().String())
	assert.Equal(t, []program.ProgramID{program.MustProgramID("credits.aleo")}, prog.Imports())
	assert.Len(t, prog.Structs(), 2)
	assert.Len(t, prog.Closures(), 2)
	//
	rt, ok := prog.Record("token")
	require.True(t, ok)
	assert.Equal(t, program.PRIVATE, rt.OwnerVisibility)
	assert.Equal(t, program.EntryType{Name: "at", Visibility: program.PUBLIC,
		Type: program.StructPlaintextType("point")}, rt.Entries[1])
	//
	fn, ok := prog.Function("pay")
	require.True(t, ok)
	require.True(t, fn.Finalize.HasValue())
	assert.Equal(t, program.Identifier("pay"), fn.Finalize.Unwrap().Name)
	assert.Equal(t, program.EXTERNAL_RECORD_VALUE, fn.Outputs[0].Type.Kind())
	assert.True(t, fn.Instructions[0].IsExternalCall())
}

func Test_Manifest_02(t *testing.T) {
	prog, err := Load(filepath.Join(TestDir, "credits.yaml"))
	require.NoError(t, err)
	//
	fn, ok := prog.Function("burn")
	require.True(t, ok)
	assert.Equal(t, "r0.microcredits", fn.Outputs[0].Operand.String())
	assert.False(t, fn.Finalize.HasValue())
}

func Test_Manifest_03(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"program", "program: token"},
		{"import", "program: token.aleo\nimports: [credits]"},
		{"member", "program: token.aleo\nstructs:\n  - name: point\n    members: [\"x u64\"]"},
		{"owner", "program: token.aleo\nrecords:\n  - name: token\n    owner: hidden"},
		{"entry", "program: token.aleo\nrecords:\n  - name: token\n    owner: private\n    entries: [\"a as t.record\"]"},
		{"input", "program: token.aleo\nfunctions:\n  - name: main\n    inputs: [\"x0 as u64.private\"]"},
		{"insn", "program: token.aleo\nclosures:\n  - name: main\n    instructions: [\"nop r0\"]"},
		{"duplicate", "program: token.aleo\nstructs:\n  - name: main\nclosures:\n  - name: main"},
	}
	//
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m, err := Parse([]byte(test.yaml))
			require.NoError(t, err)
			//
			_, err = m.Build()
			assert.ErrorIs(t, err, fault.ErrMalformed)
		})
	}
}

func Test_Manifest_04(t *testing.T) {
	_, err := Parse([]byte("program: [token"))
	assert.Error(t, err)
	//
	_, err = Load(filepath.Join(TestDir, "missing.yaml"))
	assert.Error(t, err)
}
