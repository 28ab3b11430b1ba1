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

	"github.com/consensys/go-zkregs/pkg/program"
	"github.com/consensys/go-zkregs/pkg/registers"
	"github.com/consensys/go-zkregs/pkg/stack"
)

// evalPlain applies a (non-call) instruction to a plain register file.
func evalPlain(ctx *stack.Stack, file *registers.Plain, insn *program.Instruction) error {
	switch insn.Opcode {
	case program.ADD, program.SUB, program.MUL:
		lhs, err := file.LoadLiteral(ctx, insn.Operands[0])
		if err != nil {
			return err
		}
		//
		rhs, err := file.LoadLiteral(ctx, insn.Operands[1])
		if err != nil {
			return err
		}
		//
		res, err := evalArithmetic(insn.Opcode, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return file.StoreLiteral(ctx, insn.Destinations[0], res)
	case program.IS_EQ, program.IS_NEQ, program.ASSERT_EQ:
		lhs, rhs, err := loadPair(ctx, file, insn)
		if err != nil {
			return err
		}
		//
		var eq = program.Equal(lhs, rhs)
		//
		switch insn.Opcode {
		case program.IS_EQ:
			return file.StoreLiteral(ctx, insn.Destinations[0], program.BoolLiteral(eq))
		case program.IS_NEQ:
			return file.StoreLiteral(ctx, insn.Destinations[0], program.BoolLiteral(!eq))
		case program.ASSERT_EQ:
			if !eq {
				return fmt.Errorf("assertion failed: %s != %s", lhs, rhs)
			}
		}
		//
		return nil
	case program.CAST:
		value, err := castPlain(ctx, file, insn)
		if err != nil {
			return err
		}
		//
		return file.Store(ctx, insn.Destinations[0], value)
	default:
		return fmt.Errorf("unsupported opcode %s", insn.Opcode)
	}
}

func loadPair(ctx *stack.Stack, file *registers.Plain, insn *program.Instruction) (program.Value,
	program.Value, error) {
	//
	lhs, err := file.Load(ctx, insn.Operands[0])
	if err != nil {
		return nil, nil, err
	}
	//
	rhs, err := file.Load(ctx, insn.Operands[1])
	//
	return lhs, rhs, err
}

// castPlain constructs a struct or record from the operands of a cast.
func castPlain(ctx *stack.Stack, file *registers.Plain, insn *program.Instruction) (program.Value, error) {
	var target = insn.CastType
	//
	if target.Kind() == program.RECORD_REGISTER {
		rt, _ := ctx.Program().Record(target.Record())
		//
		owner, err := file.LoadLiteral(ctx, insn.Operands[0])
		if err != nil {
			return nil, err
		}
		//
		entries := make([]program.Entry, len(rt.Entries))
		//
		for i, e := range rt.Entries {
			value, err := file.LoadPlaintext(ctx, insn.Operands[i+1])
			if err != nil {
				return nil, err
			}
			//
			entries[i] = program.Entry{Name: e.Name, Visibility: e.Visibility, Value: value}
		}
		//
		rec, err := program.NewRecord(owner.Address(), rt.OwnerVisibility, entries...)
		if err != nil {
			return nil, err
		}
		//
		return rec.WithOrigin(program.NewLocator(ctx.ProgramID(), rt.Name)), nil
	}
	//
	decl, _ := ctx.Program().Struct(target.Plaintext().StructName())
	members := make([]program.Member, len(decl.Members))
	//
	for i, m := range decl.Members {
		value, err := file.LoadPlaintext(ctx, insn.Operands[i])
		if err != nil {
			return nil, err
		}
		//
		members[i] = program.Member{Name: m.Name, Value: value}
	}
	//
	st, err := program.NewStruct(members...)
	if err != nil {
		return nil, err
	}
	//
	return st, nil
}
