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
package exec

import (
	"path/filepath"
	"testing"

	"github.com/consensys/go-zkregs/pkg/fault"
	"github.com/consensys/go-zkregs/pkg/program"
	"github.com/consensys/go-zkregs/pkg/program/manifest"
	"github.com/consensys/go-zkregs/pkg/stack"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDir determines the (relative) location of the test manifests.
const TestDir = "../../testdata/programs"

var modes = []stack.Mode{stack.EVALUATE, stack.EXECUTE}

func Test_Execute_01(t *testing.T) {
	check_Execute(t, "sum", []program.Value{u64(2), u64(3)}, u64(5))
}

func Test_Execute_02(t *testing.T) {
	// Calls nested closures
	var (
		point = testPoint(t, 1, 2)
		rec   = testToken(t, testCaller(), 12, point)
	)
	//
	check_Execute(t, "mint", []program.Value{u64(3), point}, rec)
}

func Test_Execute_03(t *testing.T) {
	var (
		rec      = testToken(t, testCaller(), 5, testPoint(t, 1, 2))
		expected = testToken(t, testCaller(), 5, testPoint(t, 4, 2))
	)
	//
	check_Execute(t, "shift", []program.Value{rec, u64(3)}, expected, program.BoolLiteral(false),
		program.BoolLiteral(true))
	// Equal points
	check_Execute(t, "shift", []program.Value{rec, u64(0)}, rec, program.BoolLiteral(true),
		program.BoolLiteral(true))
}

func Test_Execute_04(t *testing.T) {
	var (
		start = testPoint(t, 1, 2)
		end   = testPoint(t, 4, 2)
	)
	//
	check_Execute(t, "span", []program.Value{testSegment(t, start, end)}, u64(9), program.BoolLiteral(false))
	check_Execute(t, "span", []program.Value{testSegment(t, start, start)}, u64(0), program.BoolLiteral(true))
}

func Test_Execute_05(t *testing.T) {
	var (
		ctx   = testStack(t)
		other = program.MustProgramID("credits.aleo").ToAddress()
		rec   = testToken(t, other, 5, testPoint(t, 1, 2))
	)
	//
	for _, mode := range modes {
		// Assertion fails, since caller does not own record
		_, err := Execute(ctx, mode, testRequest("shift", rec, u64(3)))
		assert.Error(t, err)
		// Integer underflow
		_, err = Execute(ctx, mode, testRequest("span", testSegment(t, testPoint(t, 4, 0), testPoint(t, 1, 0))))
		assert.Error(t, err)
		// Input types
		_, err = Execute(ctx, mode, testRequest("sum", u64(1), program.MustLiteral("1u32")))
		assert.ErrorIs(t, err, fault.ErrTypeMismatch)
		_, err = Execute(ctx, mode, testRequest("sum", u64(1)))
		assert.ErrorIs(t, err, fault.ErrTypeMismatch)
		// Unknown functions
		_, err = Execute(ctx, mode, testRequest("double", u64(1)))
		assert.ErrorIs(t, err, fault.ErrNotFound)
		// External calls
		_, err = Execute(ctx, mode, testRequest("pay", program.AddressLiteral(testCaller()), u64(1)))
		assert.ErrorContains(t, err, "external call to credits.aleo/mint not supported")
	}
}

func Test_Execute_06(t *testing.T) {
	var ctx = testStack(t)
	//
	r1, err := Execute(ctx, stack.EXECUTE, testRequest("mint", u64(3), testPoint(t, 1, 2)))
	require.NoError(t, err)
	r2, err := Execute(ctx, stack.EXECUTE, testRequest("mint", u64(3), testPoint(t, 1, 2)))
	require.NoError(t, err)
	// Every execution is its own transition
	assert.NotEqual(t, r1.Transition, r2.Transition)
	// Executions are deterministic
	assert.Equal(t, r1.System.NumConstraints(), r2.System.NumConstraints())
	assert.Equal(t, r1.System.NumVariables(), r2.System.NumVariables())
	assert.NotZero(t, r1.System.NumConstraints())
}

func Test_Execute_07(t *testing.T) {
	var (
		ctx      = testStack(t)
		loc      = program.NewLocator(ctx.ProgramID(), "token")
		expected = testToken(t, testCaller(), 12, testPoint(t, 1, 2)).Commitment(loc)
	)
	// Record outputs are committed to, plaintexts are not
	for _, mode := range modes {
		res, err := Execute(ctx, mode, testRequest("mint", u64(3), testPoint(t, 1, 2)))
		require.NoError(t, err)
		require.Len(t, res.Commitments, 1)
		//
		actual, ok := res.Commitments[0].Get()
		assert.True(t, ok)
		assert.True(t, expected.Equal(&actual))
		//
		res, err = Execute(ctx, mode, testRequest("sum", u64(1), u64(2)))
		require.NoError(t, err)
		assert.True(t, res.Commitments[0].IsEmpty())
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Execute(t *testing.T, name program.Identifier, inputs []program.Value, outputs ...program.Value) {
	var ctx = testStack(t)
	//
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			response, err := Execute(ctx, mode, testRequest(name, inputs...))
			require.NoError(t, err)
			require.Equal(t, len(outputs), len(response.Outputs))
			//
			for i, expected := range outputs {
				assert.True(t, program.Equal(expected, response.Outputs[i]), "expected %s, got %s",
					expected, spew.Sdump(response.Outputs[i]))
			}
			//
			if mode == stack.EVALUATE {
				assert.Nil(t, response.System)
			} else {
				assert.NoError(t, response.System.IsSatisfied())
			}
		})
	}
}

func testStack(t *testing.T) *stack.Stack {
	credits, err := manifest.Load(filepath.Join(TestDir, "credits.yaml"))
	require.NoError(t, err)
	token, err := manifest.Load(filepath.Join(TestDir, "token.yaml"))
	require.NoError(t, err)
	//
	cstack, err := stack.New(credits)
	require.NoError(t, err)
	tstack, err := stack.New(token, cstack)
	require.NoError(t, err)
	//
	return tstack
}

func testRequest(name program.Identifier, inputs ...program.Value) Request {
	return Request{Function: name, Caller: testCaller(), Seed: []byte("seed"), Inputs: inputs}
}

func testCaller() program.Address {
	return program.MustProgramID("token.aleo").ToAddress()
}

func u64(n uint64) program.Literal {
	return program.U64Literal(n)
}

func testPoint(t *testing.T, x, y uint64) *program.Struct {
	s, err := program.NewStruct(program.Member{Name: "x", Value: u64(x)}, program.Member{Name: "y", Value: u64(y)})
	require.NoError(t, err)
	//
	return s
}

func testSegment(t *testing.T, start, end *program.Struct) *program.Struct {
	s, err := program.NewStruct(program.Member{Name: "start", Value: start}, program.Member{Name: "end", Value: end})
	require.NoError(t, err)
	//
	return s
}

func testToken(t *testing.T, owner program.Address, amount uint64, at *program.Struct) *program.Record {
	rec, err := program.NewRecord(owner, program.PRIVATE,
		program.Entry{Name: "amount", Visibility: program.PRIVATE, Value: u64(amount)},
		program.Entry{Name: "at", Visibility: program.PUBLIC, Value: at})
	require.NoError(t, err)
	//
	return rec
}
