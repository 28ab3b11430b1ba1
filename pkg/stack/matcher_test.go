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
	"testing"

	"github.com/consensys/go-zkregs/pkg/circuit"
	"github.com/consensys/go-zkregs/pkg/fault"
	"github.com/consensys/go-zkregs/pkg/program"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var literalTypes = []program.LiteralType{
	program.ADDRESS, program.BOOLEAN, program.FIELD, program.SCALAR, program.I8, program.I16, program.I32,
	program.I64, program.U8, program.U16, program.U32, program.U64, program.U128,
}

func Test_Matcher_01(t *testing.T) {
	var _, token = testStacks(t)
	// Literals match only their own type
	for _, lhs := range literalTypes {
		for _, rhs := range literalTypes {
			var (
				lit = testLiteral(lhs)
				pt  = program.LiteralPlaintextType(rhs)
				err = token.MatchPlaintext(lit, pt)
			)
			//
			if lhs == rhs {
				assert.NoError(t, err, "%s against %s", lit, pt)
			} else {
				assert.ErrorIs(t, err, fault.ErrTypeMismatch, "%s against %s", lit, pt)
			}
		}
	}
}

func Test_Matcher_02(t *testing.T) {
	var (
		_, token = testStacks(t)
		point    = program.StructPlaintextType("point")
	)
	//
	tests := []struct {
		name  string
		value program.Plaintext
		err   error
	}{
		{"ok", testStruct(t, "x", program.U64Literal(1), "y", program.U64Literal(2)), nil},
		{"name", testStruct(t, "x", program.U64Literal(1), "z", program.U64Literal(2)), fault.ErrTypeMismatch},
		{"order", testStruct(t, "y", program.U64Literal(1), "x", program.U64Literal(2)), fault.ErrTypeMismatch},
		{"count", testStruct(t, "x", program.U64Literal(1)), fault.ErrTypeMismatch},
		{"member", testStruct(t, "x", program.U64Literal(1), "y", program.MustLiteral("2u32")), fault.ErrTypeMismatch},
		{"literal", program.U64Literal(1), fault.ErrTypeMismatch},
	}
	//
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := token.MatchPlaintext(test.value, point)
			//
			if test.err == nil {
				assert.NoError(t, err, spew.Sdump(test.value))
			} else {
				assert.ErrorIs(t, err, test.err, spew.Sdump(test.value))
			}
		})
	}
	// Unknown structs
	err := token.MatchPlaintext(testStruct(t, "x", program.U64Literal(1)), program.StructPlaintextType("line"))
	assert.ErrorIs(t, err, fault.ErrNotFound)
	// Struct against literal type
	err = token.MatchPlaintext(testStruct(t, "x", program.U64Literal(1)), program.LiteralPlaintextType(program.U64))
	assert.ErrorIs(t, err, fault.ErrTypeMismatch)
}

func Test_Matcher_03(t *testing.T) {
	var (
		_, token = testStacks(t)
		owner    = program.MustProgramID("token.aleo").ToAddress()
		at       = testStruct(t, "x", program.U64Literal(1), "y", program.U64Literal(2))
		amount   = program.U64Literal(5)
	)
	//
	tests := []struct {
		name    string
		owner   program.Visibility
		entries []program.Entry
		err     error
	}{
		{"ok", program.PRIVATE, []program.Entry{{Name: "amount", Visibility: program.PRIVATE, Value: amount}, {Name: "at", Visibility: program.PUBLIC, Value: at}}, nil},
		{"owner", program.PUBLIC, []program.Entry{{Name: "amount", Visibility: program.PRIVATE, Value: amount}, {Name: "at", Visibility: program.PUBLIC, Value: at}},
			fault.ErrTypeMismatch},
		{"visibility", program.PRIVATE, []program.Entry{{Name: "amount", Visibility: program.PUBLIC, Value: amount}, {Name: "at", Visibility: program.PUBLIC, Value: at}},
			fault.ErrTypeMismatch},
		{"name", program.PRIVATE, []program.Entry{{Name: "value", Visibility: program.PRIVATE, Value: amount}, {Name: "at", Visibility: program.PUBLIC, Value: at}},
			fault.ErrTypeMismatch},
		{"count", program.PRIVATE, []program.Entry{{Name: "amount", Visibility: program.PRIVATE, Value: amount}}, fault.ErrTypeMismatch},
		{"content", program.PRIVATE, []program.Entry{{Name: "amount", Visibility: program.PRIVATE, Value: at}, {Name: "at", Visibility: program.PUBLIC, Value: at}},
			fault.ErrTypeMismatch},
	}
	//
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec, err := program.NewRecord(owner, test.owner, test.entries...)
			require.NoError(t, err)
			//
			err = token.MatchRegisterType(rec, program.RecordRegisterType("token"))
			//
			if test.err == nil {
				assert.NoError(t, err, spew.Sdump(rec))
			} else {
				assert.ErrorIs(t, err, test.err, spew.Sdump(rec))
			}
		})
	}
}

func Test_Matcher_04(t *testing.T) {
	var (
		_, token = testStacks(t)
		pid      = program.MustProgramID("credits.aleo")
		rec      = testCredits(t, 10)
	)
	// External records match the layout declared by their own program
	assert.NoError(t, token.MatchValueType(rec, program.ExternalRecordValueType(program.NewLocator(pid, "credits"))))
	assert.NoError(t, token.MatchExternalRecord(rec, program.NewLocator(pid, "credits")))
	//
	err := token.MatchRegisterType(rec, program.ExternalRecordRegisterType(program.NewLocator(pid, "token")))
	assert.ErrorIs(t, err, fault.ErrNotFound)
	//
	err = token.MatchRegisterType(rec, program.ExternalRecordRegisterType(
		program.NewLocator(program.MustProgramID("other.aleo"), "credits")))
	assert.ErrorIs(t, err, fault.ErrNotFound)
	// Records whose origin differs do not match
	local := rec.WithOrigin(program.NewLocator(program.MustProgramID("token.aleo"), "token"))
	err = token.MatchExternalRecord(local, program.NewLocator(pid, "credits"))
	assert.ErrorIs(t, err, fault.ErrTypeMismatch)
	// Records are not plaintexts (and vice versa)
	err = token.MatchValueType(rec, program.PlaintextValueType(program.PRIVATE,
		program.LiteralPlaintextType(program.U64)))
	assert.ErrorIs(t, err, fault.ErrTypeMismatch)
	err = token.MatchValueType(program.U64Literal(1), program.RecordValueType("token"))
	assert.ErrorIs(t, err, fault.ErrTypeMismatch)
	err = token.MatchRegisterType(rec, program.RecordRegisterType("missing"))
	assert.ErrorIs(t, err, fault.ErrNotFound)
}

func Test_Matcher_05(t *testing.T) {
	var (
		_, token = testStacks(t)
		pid      = program.MustProgramID("credits.aleo")
		sys      = circuit.NewSystem()
		rec      = sys.Inject(circuit.PRIVATE, testCredits(t, 10))
		point    = sys.Inject(circuit.PRIVATE, testStruct(t, "x", program.U64Literal(1), "y", program.U64Literal(2)))
		vars     = sys.NumVariables()
	)
	//
	assert.NoError(t, token.MatchCircuitRegisterType(rec, program.ExternalRecordRegisterType(
		program.NewLocator(pid, "credits"))))
	assert.NoError(t, token.MatchCircuitValueType(point, program.PlaintextValueType(program.PUBLIC,
		program.StructPlaintextType("point"))))
	//
	err := token.MatchCircuitRegisterType(point, program.RecordRegisterType("token"))
	assert.ErrorIs(t, err, fault.ErrTypeMismatch)
	err = token.MatchCircuitRegisterType(rec, program.ExternalRecordRegisterType(program.NewLocator(pid, "token")))
	assert.ErrorIs(t, err, fault.ErrNotFound)
	err = token.MatchCircuitPlaintext(point.(circuit.Plaintext), program.StructPlaintextType("segment"))
	assert.ErrorIs(t, err, fault.ErrTypeMismatch)
	// Matching never touches the constraint system
	assert.Equal(t, vars, sys.NumVariables())
}

func Test_Matcher_06(t *testing.T) {
	var (
		_, token = testStacks(t)
		sys      = circuit.NewSystem()
	)
	// Plain and circuit matchers agree
	for _, lhs := range literalTypes {
		for _, rhs := range literalTypes {
			var (
				lit   = testLiteral(lhs)
				clit  = sys.InjectLiteral(circuit.PRIVATE, lit)
				pt    = program.LiteralPlaintextType(rhs)
				plain = token.MatchPlaintext(lit, pt)
				circ  = token.MatchCircuitPlaintext(clit, pt)
			)
			//
			assert.Equal(t, plain == nil, circ == nil, "%s against %s", lit, pt)
		}
	}
}

func Test_Matcher_07(t *testing.T) {
	var (
		_, token = testStacks(t)
		owner    = program.MustProgramID("token.aleo").ToAddress()
		at       = testStruct(t, "x", program.U64Literal(1), "y", program.U64Literal(2))
		bad      = testStruct(t, "y", program.U64Literal(1), "x", program.U64Literal(2))
		amount   = program.U64Literal(5)
		loc      = program.NewLocator(token.ProgramID(), "token")
	)
	// Plain and circuit records fail (or succeed) in the same way
	tests := []struct {
		name    string
		owner   program.Visibility
		entries []program.Entry
		err     error
	}{
		{"ok", program.PRIVATE, []program.Entry{{Name: "amount", Visibility: program.PRIVATE, Value: amount}, {Name: "at", Visibility: program.PUBLIC, Value: at}}, nil},
		{"owner", program.PUBLIC, []program.Entry{{Name: "amount", Visibility: program.PRIVATE, Value: amount}, {Name: "at", Visibility: program.PUBLIC, Value: at}},
			fault.ErrTypeMismatch},
		{"member", program.PRIVATE, []program.Entry{{Name: "amount", Visibility: program.PRIVATE, Value: amount}, {Name: "at", Visibility: program.PUBLIC, Value: bad}},
			fault.ErrTypeMismatch},
		{"literal", program.PRIVATE, []program.Entry{{Name: "amount", Visibility: program.PRIVATE, Value: at}, {Name: "at", Visibility: program.PUBLIC, Value: at}},
			fault.ErrTypeMismatch},
	}
	//
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var sys = circuit.NewSystem()
			//
			rec, err := program.NewRecord(owner, test.owner, test.entries...)
			require.NoError(t, err)
			//
			for _, r := range []*program.Record{rec, rec.WithOrigin(loc)} {
				check_Agreement(t, test.err,
					token.MatchRecord(r, "token"),
					token.MatchCircuitRegisterType(sys.Inject(circuit.PRIVATE, r), program.RecordRegisterType("token")))
			}
		})
	}
	// Records originating elsewhere fail in both representations
	var (
		sys     = circuit.NewSystem()
		credits = testCredits(t, 1).WithOrigin(program.NewLocator(program.MustProgramID("credits.aleo"), "credits"))
	)
	//
	check_Agreement(t, fault.ErrNotFound,
		token.MatchRecord(credits, "credits"),
		token.MatchCircuitRegisterType(sys.Inject(circuit.PRIVATE, credits), program.RecordRegisterType("credits")))
	check_Agreement(t, fault.ErrTypeMismatch,
		token.MatchRecord(credits.WithOrigin(program.NewLocator(token.ProgramID(), "other")), "token"),
		token.MatchCircuitValueType(sys.Inject(circuit.PRIVATE, credits.WithOrigin(program.NewLocator(
			token.ProgramID(), "other"))), program.RecordValueType("token")))
}

// ===================================================================
// Test Helpers
// ===================================================================

// check_Agreement checks that plain and circuit matching produced the same
// outcome.
func check_Agreement(t *testing.T, expected error, plain error, circ error) {
	if expected == nil {
		assert.NoError(t, plain)
		assert.NoError(t, circ)
	} else {
		assert.ErrorIs(t, plain, expected)
		assert.ErrorIs(t, circ, expected)
	}
}

func testLiteral(kind program.LiteralType) program.Literal {
	switch kind {
	case program.ADDRESS:
		return program.AddressLiteral(program.MustProgramID("token.aleo").ToAddress())
	case program.BOOLEAN:
		return program.BoolLiteral(true)
	case program.FIELD, program.SCALAR:
		return program.MustLiteral("1" + kind.String())
	default:
		return program.IntLiteral(kind, 1)
	}
}

// testStruct constructs a struct from alternating member names and values.
func testStruct(t *testing.T, args ...any) *program.Struct {
	var members []program.Member
	//
	for i := 0; i < len(args); i += 2 {
		members = append(members, program.Member{
			Name:  program.MustIdentifier(args[i].(string)),
			Value: args[i+1].(program.Plaintext),
		})
	}
	//
	s, err := program.NewStruct(members...)
	require.NoError(t, err)
	//
	return s
}

func testCredits(t *testing.T, amount uint64) *program.Record {
	var owner = program.MustProgramID("credits.aleo").ToAddress()
	//
	rec, err := program.NewRecord(owner, program.PRIVATE,
		program.Entry{Name: "microcredits", Visibility: program.PRIVATE, Value: program.U64Literal(amount)})
	require.NoError(t, err)
	//
	return rec
}
