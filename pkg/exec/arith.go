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
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/go-zkregs/pkg/fault"
	"github.com/consensys/go-zkregs/pkg/program"
)

// evalArithmetic applies an arithmetic opcode to two plain literals of the
// same type.  Field and scalar arithmetic wraps modulo the field order, whilst
// integer arithmetic fails on overflow.
func evalArithmetic(op program.Opcode, lhs, rhs program.Literal) (program.Literal, error) {
	var kind = lhs.Type()
	//
	if kind != rhs.Type() {
		return program.Literal{}, fault.TypeMismatchf("cannot %s %s and %s", op, kind, rhs.Type())
	} else if kind.IsInteger() {
		return evalInteger(op, lhs, rhs)
	} else if kind != program.FIELD && kind != program.SCALAR {
		return program.Literal{}, fault.TypeMismatchf("%s not defined over %s", op, kind)
	}
	//
	var (
		x, y = lhs.Element(), rhs.Element()
		res  fr.Element
	)
	//
	switch op {
	case program.ADD:
		res.Add(&x, &y)
	case program.SUB:
		res.Sub(&x, &y)
	case program.MUL:
		res.Mul(&x, &y)
	default:
		panic(fmt.Sprintf("unknown arithmetic opcode %s", op))
	}
	//
	return program.ElementLiteral(kind, res), nil
}

func evalInteger(op program.Opcode, lhs, rhs program.Literal) (program.Literal, error) {
	var (
		x, y = lhs.BigInt(), rhs.BigInt()
	)
	//
	switch op {
	case program.ADD:
		x.Add(x, y)
	case program.SUB:
		x.Sub(x, y)
	case program.MUL:
		x.Mul(x, y)
	default:
		panic(fmt.Sprintf("unknown arithmetic opcode %s", op))
	}
	//
	res, err := program.NewLiteral(lhs.Type(), x)
	if err != nil {
		return res, fmt.Errorf("integer overflow in %s %s %s: %w", op, lhs, rhs, err)
	}
	//
	return res, nil
}
