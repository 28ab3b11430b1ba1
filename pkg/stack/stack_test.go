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
package stack

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/consensys/go-zkregs/pkg/fault"
	"github.com/consensys/go-zkregs/pkg/program"
	"github.com/consensys/go-zkregs/pkg/program/manifest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDir determines the (relative) location of the test manifests.
const TestDir = "../../testdata/programs"

func Test_Stack_01(t *testing.T) {
	var _, token = testStacks(t)
	//
	_, err := token.GetRegisterTypes("nonexistent")
	assert.ErrorIs(t, err, fault.ErrNotFound)
	_, err = token.GetFinalizeTypes("nonexistent")
	assert.ErrorIs(t, err, fault.ErrNotFound)
	_, err = token.GetFunction("double")
	assert.ErrorIs(t, err, fault.ErrNotFound)
	_, err = token.GetNumberOfCalls("double")
	assert.ErrorIs(t, err, fault.ErrNotFound)
	// Closures have register types
	types, err := token.GetRegisterTypes("double")
	require.NoError(t, err)
	assert.Equal(t, uint(1), types.NumInputs())
}

func Test_Stack_02(t *testing.T) {
	var (
		credits, token = testStacks(t)
		pid            = program.MustProgramID("credits.aleo")
	)
	//
	p1, err := token.GetExternalProgram(pid)
	require.NoError(t, err)
	p2, err := token.GetExternalProgram(pid)
	require.NoError(t, err)
	assert.Same(t, p1, p2)
	assert.Same(t, credits.Program(), p1)
	//
	_, err = token.GetExternalProgram(program.MustProgramID("other.aleo"))
	assert.ErrorIs(t, err, fault.ErrNotFound)
	_, err = credits.GetExternalProgram(program.MustProgramID("token.aleo"))
	assert.ErrorIs(t, err, fault.ErrNotFound)
	// External records
	assert.True(t, token.ContainsExternalRecord(program.NewLocator(pid, "credits")))
	assert.False(t, token.ContainsExternalRecord(program.NewLocator(pid, "token")))
	assert.False(t, credits.ContainsExternalRecord(program.NewLocator(pid, "credits")))
}

func Test_Stack_03(t *testing.T) {
	var _, token = testStacks(t)
	//
	tests := []struct {
		name  program.Identifier
		calls uint
	}{
		{"sum", 1}, {"mint", 4}, {"shift", 1}, {"span", 1}, {"wrap", 2}, {"pay", 3},
	}
	//
	for _, test := range tests {
		t.Run(test.name.String(), func(t *testing.T) {
			n, err := token.GetNumberOfCalls(test.name)
			require.NoError(t, err)
			assert.Equal(t, test.calls, n)
		})
	}
}

func Test_Stack_04(t *testing.T) {
	var _, token = testStacks(t)
	//
	types, err := token.GetRegisterTypes("shift")
	require.NoError(t, err)
	//
	assert.True(t, types.IsInput(program.MustRegister("r1")))
	assert.True(t, types.IsInput(program.MustRegister("r0.at")))
	assert.False(t, types.IsInput(program.MustRegister("r2")))
	assert.Equal(t, 5, len(types.Destinations()))
	//
	check_MemberType(t, token, types, "r0", "token.record")
	check_MemberType(t, token, types, "r0.owner", "address")
	check_MemberType(t, token, types, "r0.at", "point")
	check_MemberType(t, token, types, "r0.at.y", "u64")
	check_MemberType(t, token, types, "r5", "boolean")
	//
	_, err = types.MemberType(token, program.MustRegister("r0.missing"))
	assert.ErrorIs(t, err, fault.ErrNotFound)
	_, err = types.MemberType(token, program.MustRegister("r0.amount.x"))
	assert.ErrorIs(t, err, fault.ErrTypeMismatch)
	_, err = types.MemberType(token, program.MustRegister("r9"))
	assert.ErrorIs(t, err, fault.ErrNotFound)
}

func Test_Stack_05(t *testing.T) {
	var _, token = testStacks(t)
	// External record members resolve in the owning program
	types, err := token.GetRegisterTypes("wrap")
	require.NoError(t, err)
	check_MemberType(t, token, types, "r0", "credits.aleo/credits.record")
	check_MemberType(t, token, types, "r0.microcredits", "u64")
	// Finalize registers
	fin, err := token.GetFinalizeTypes("pay")
	require.NoError(t, err)
	pt, err := fin.PlaintextType(token, program.MustRegister("r1"))
	require.NoError(t, err)
	assert.Equal(t, "u64", pt.String())
}

func Test_Stack_06(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		kind fault.Kind
	}{
		{"reassign", `
program: test.aleo
functions:
  - name: main
    inputs: ["r0 as u64.private"]
    instructions: ["add r0 r0 into r1", "add r0 r0 into r1"]`, fault.IllegalAssignment},
		{"overwrite_input", `
program: test.aleo
functions:
  - name: main
    inputs: ["r0 as u64.private"]
    instructions: ["add r0 r0 into r0"]`, fault.IllegalAssignment},
		{"undefined", `
program: test.aleo
functions:
  - name: main
    instructions: ["add r0 r0 into r1"]`, fault.NotFound},
		{"mixed", `
program: test.aleo
functions:
  - name: main
    inputs: ["r0 as u64.private", "r1 as u32.private"]
    instructions: ["add r0 r1 into r2"]`, fault.TypeMismatch},
		{"scalar_mul", `
program: test.aleo
functions:
  - name: main
    inputs: ["r0 as scalar.private"]
    instructions: ["mul r0 r0 into r1"]`, fault.TypeMismatch},
		{"output", `
program: test.aleo
functions:
  - name: main
    inputs: ["r0 as u64.private"]
    outputs: ["r0 as u32.private"]`, fault.TypeMismatch},
		{"struct", `
program: test.aleo
structs:
  - name: line
    members: ["a as point"]
  - name: point
    members: ["x as u64"]`, fault.NotFound},
		{"import", `
program: test.aleo
imports: [credits.aleo]`, fault.NotFound},
		{"recursion", `
program: test.aleo
closures:
  - name: loop
    inputs: ["r0 as u64"]
    instructions: ["call loop r0 into r1"]
    outputs: ["r1 as u64"]`, fault.Malformed},
		{"closure_calls_function", `
program: test.aleo
functions:
  - name: main
    inputs: ["r0 as u64.private"]
    outputs: ["r0 as u64.private"]
closures:
  - name: helper
    inputs: ["r0 as u64"]
    instructions: ["call main r0 into r1"]
    outputs: ["r1 as u64"]`, fault.Malformed},
		{"finalize_call", `
program: test.aleo
closures:
  - name: helper
    inputs: ["r0 as u64"]
    outputs: ["r0 as u64"]
functions:
  - name: main
    inputs: ["r0 as u64.private"]
    finalize:
      name: main
      inputs: ["r0 as u64"]
      commands: ["call helper r0 into r1"]`, fault.Malformed},
	}
	//
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := New(testProgram(t, test.yaml))
			require.Error(t, err)
			//
			kind, ok := fault.KindOf(err)
			require.True(t, ok, err.Error())
			assert.Equal(t, test.kind, kind, err.Error())
		})
	}
}

func Test_Stack_07(t *testing.T) {
	var credits, token = testStacks(t)
	// Stacks are read-only, hence can be shared between threads.
	var wg sync.WaitGroup
	//
	for i := 0; i < 8; i++ {
		wg.Add(1)
		//
		go func() {
			defer wg.Done()
			//
			for j := 0; j < 100; j++ {
				n, err := token.GetNumberOfCalls("mint")
				assert.NoError(t, err)
				assert.Equal(t, uint(4), n)
				//
				ext, err := token.GetExternalStack(credits.ProgramID())
				assert.NoError(t, err)
				assert.Same(t, credits, ext)
			}
		}()
	}
	//
	wg.Wait()
}

func Test_CallStack_01(t *testing.T) {
	var (
		calls = NewCallStack(EXECUTE)
		pid   = program.MustProgramID("token.aleo")
	)
	//
	assert.Equal(t, uint(0), calls.Depth())
	assert.Equal(t, "", calls.String())
	// Closures inherit the transition of their caller
	outer := calls.Push(program.NewLocator(pid, "mint"), true)
	inner := calls.Push(program.NewLocator(pid, "double"), false)
	assert.Equal(t, outer.Transition, inner.Transition)
	// Functions begin new transitions
	other := calls.Push(program.NewLocator(pid, "sum"), true)
	assert.NotEqual(t, outer.Transition, other.Transition)
	assert.Equal(t, uint(3), calls.Depth())
	assert.Equal(t, "token.aleo/mint > token.aleo/double > token.aleo/sum", calls.String())
	//
	assert.Equal(t, other, calls.Pop())
	assert.Equal(t, inner, calls.Pop())
	assert.Equal(t, "token.aleo/mint", calls.String())
	// Closures pushed after a pop inherit the remaining transition
	again := calls.Push(program.NewLocator(pid, "double"), false)
	assert.Equal(t, outer.Transition, again.Transition)
	assert.Equal(t, uint(2), calls.Depth())
}

func Test_CallStack_02(t *testing.T) {
	for _, m := range []Mode{EVALUATE, EXECUTE, SYNTHESIZE, CHECK_DEPLOYMENT} {
		parsed, ok := ParseMode(m.String())
		assert.True(t, ok)
		assert.Equal(t, m, parsed)
	}
	//
	_, ok := ParseMode("prove")
	assert.False(t, ok)
	// Closures pushed onto an empty stack still get a transition
	call := NewCallStack(EVALUATE).Push(program.NewLocator(program.MustProgramID("token.aleo"), "double"), false)
	assert.NotEqual(t, uuid.Nil, call.Transition)
}

// ===================================================================
// Test Helpers
// ===================================================================

func testStacks(t *testing.T) (*Stack, *Stack) {
	credits, err := manifest.Load(filepath.Join(TestDir, "credits.yaml"))
	require.NoError(t, err)
	token, err := manifest.Load(filepath.Join(TestDir, "token.yaml"))
	require.NoError(t, err)
	//
	cstack, err := New(credits)
	require.NoError(t, err)
	tstack, err := New(token, cstack)
	require.NoError(t, err)
	//
	return cstack, tstack
}

func testProgram(t *testing.T, yaml string) *program.Program {
	m, err := manifest.Parse([]byte(yaml))
	require.NoError(t, err)
	prog, err := m.Build()
	require.NoError(t, err)
	//
	return prog
}

func check_MemberType(t *testing.T, ctx *Stack, types *RegisterTypes, reg string, expected string) {
	actual, err := types.MemberType(ctx, program.MustRegister(reg))
	require.NoError(t, err, reg)
	assert.Equal(t, expected, actual.String(), reg)
}
