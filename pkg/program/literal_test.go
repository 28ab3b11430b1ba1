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
package program

import (
	"math/big"
	"testing"

	"github.com/consensys/go-zkregs/pkg/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Literal_01(t *testing.T) {
	check_Literal(t, "0u8", U8)
	check_Literal(t, "255u8", U8)
	check_Literal(t, "-128i8", I8)
	check_Literal(t, "127i8", I8)
	check_Literal(t, "18446744073709551615u64", U64)
	check_Literal(t, "-1i64", I64)
	check_Literal(t, "340282366920938463463374607431768211455u128", U128)
	check_Literal(t, "3field", FIELD)
	check_Literal(t, "7scalar", SCALAR)
	check_Literal(t, "true", BOOLEAN)
	check_Literal(t, "false", BOOLEAN)
}

func Test_Literal_02(t *testing.T) {
	check_InvalidLiteral(t, "256u8")
	check_InvalidLiteral(t, "-1u8")
	check_InvalidLiteral(t, "128i8")
	check_InvalidLiteral(t, "-129i8")
	check_InvalidLiteral(t, "1u7")
	check_InvalidLiteral(t, "u64")
	check_InvalidLiteral(t, "1boolean")
	check_InvalidLiteral(t, "addr1xyz")
}

func Test_Literal_03(t *testing.T) {
	var (
		neg = MustLiteral("-5i32")
		pos = MustLiteral("5i32")
	)
	//
	assert.Equal(t, int64(-5), neg.BigInt().Int64())
	assert.False(t, neg.Equal(pos))
	assert.False(t, MustLiteral("5u32").Equal(MustLiteral("5u64")))
	assert.True(t, MustLiteral("5u32").Equal(IntLiteral(U32, 5)))
	assert.True(t, U64Literal(5).Equal(MustLiteral("5u64")))
}

func Test_Literal_04(t *testing.T) {
	var (
		pid  = MustProgramID("token.aleo")
		addr = pid.ToAddress()
	)
	//
	parsed, err := ParseAddress(addr.String())
	require.NoError(t, err)
	assert.True(t, addr.Equal(parsed))
	assert.True(t, MustLiteral(addr.String()).Equal(AddressLiteral(addr)))
	assert.False(t, addr.Equal(MustProgramID("credits.aleo").ToAddress()))
}

func Test_Literal_05(t *testing.T) {
	lo, hi := I16.Bounds()
	assert.Equal(t, int64(-32768), lo.Int64())
	assert.Equal(t, int64(32767), hi.Int64())
	//
	lo, hi = U16.Bounds()
	assert.Equal(t, int64(0), lo.Int64())
	assert.Equal(t, int64(65535), hi.Int64())
	//
	_, err := NewLiteral(U128, new(big.Int).Lsh(big.NewInt(1), 128))
	assert.ErrorIs(t, err, fault.ErrTypeMismatch)
	//
	assert.Equal(t, uint(0), FIELD.BitWidth())
	assert.True(t, I8.IsSigned())
	assert.False(t, U8.IsSigned())
	assert.False(t, SCALAR.IsInteger())
}

// ===================================================================
// Identifiers
// ===================================================================

func Test_Identifier_01(t *testing.T) {
	for _, s := range []string{"main", "a", "transfer_public", "x1"} {
		id, err := ParseIdentifier(s)
		require.NoError(t, err)
		assert.Equal(t, s, id.String())
	}
}

func Test_Identifier_02(t *testing.T) {
	for _, s := range []string{"", "1x", "_x", "a-b", "self", "record", "u64", "field"} {
		_, err := ParseIdentifier(s)
		assert.ErrorIs(t, err, fault.ErrMalformed, s)
	}
}

func Test_Identifier_03(t *testing.T) {
	loc, err := ParseLocator("credits.aleo/credits")
	require.NoError(t, err)
	assert.Equal(t, MustProgramID("credits.aleo"), loc.ProgramID)
	assert.Equal(t, Identifier("credits"), loc.Resource)
	assert.Equal(t, "credits.aleo/credits", loc.String())
	//
	_, err = ParseProgramID("credits.eth")
	assert.ErrorIs(t, err, fault.ErrMalformed)
	_, err = ParseLocator("credits.aleo")
	assert.ErrorIs(t, err, fault.ErrMalformed)
	assert.True(t, ProgramID{}.IsZero())
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Literal(t *testing.T, s string, kind LiteralType) {
	lit, err := ParseLiteral(s)
	require.NoError(t, err, s)
	assert.Equal(t, kind, lit.Type())
	assert.Equal(t, s, lit.String())
}

func check_InvalidLiteral(t *testing.T, s string) {
	_, err := ParseLiteral(s)
	assert.Error(t, err, s)
}
