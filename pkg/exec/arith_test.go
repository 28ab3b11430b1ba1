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
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/go-zkregs/pkg/fault"
	"github.com/consensys/go-zkregs/pkg/program"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Arithmetic_01(t *testing.T) {
	var minusOne = new(big.Int).Sub(fr.Modulus(), big.NewInt(1))
	// Field and scalar literals share the modulus of the field
	for _, kind := range []string{"field", "scalar"} {
		res, err := evalArithmetic(program.SUB, program.MustLiteral("0"+kind), program.MustLiteral("1"+kind))
		require.NoError(t, err)
		assert.Zero(t, minusOne.Cmp(res.BigInt()), kind)
		assert.True(t, res.Equal(program.MustLiteral("-1"+kind)), kind)
		//
		res, err = evalArithmetic(program.ADD, res, program.MustLiteral("2"+kind))
		require.NoError(t, err)
		assert.True(t, res.Equal(program.MustLiteral("1"+kind)), kind)
	}
}

func Test_Arithmetic_02(t *testing.T) {
	// Integers do not wrap
	_, err := evalArithmetic(program.SUB, u64(0), u64(1))
	assert.ErrorIs(t, err, fault.ErrTypeMismatch)
	_, err = evalArithmetic(program.ADD, program.MustLiteral("127i8"), program.MustLiteral("1i8"))
	assert.ErrorIs(t, err, fault.ErrTypeMismatch)
	//
	res, err := evalArithmetic(program.MUL, program.MustLiteral("-3i8"), program.MustLiteral("4i8"))
	require.NoError(t, err)
	assert.True(t, res.Equal(program.MustLiteral("-12i8")))
	// Mixed and non-arithmetic types
	_, err = evalArithmetic(program.ADD, u64(1), program.MustLiteral("1u32"))
	assert.ErrorIs(t, err, fault.ErrTypeMismatch)
	_, err = evalArithmetic(program.ADD, program.BoolLiteral(true), program.BoolLiteral(true))
	assert.ErrorIs(t, err, fault.ErrTypeMismatch)
}
