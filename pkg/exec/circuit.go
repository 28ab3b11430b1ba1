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

	"github.com/consensys/go-zkregs/pkg/circuit"
	"github.com/consensys/go-zkregs/pkg/program"
	"github.com/consensys/go-zkregs/pkg/registers"
	"github.com/consensys/go-zkregs/pkg/stack"
)

// evalCircuit applies a (non-call) instruction to a circuit register file.
// This assumes the same instruction has already been applied successfully to
// the plain register file, hence operand types are known to be valid.
func evalCircuit(ctx *stack.Stack, file *registers.Circuit, insn *program.Instruction) error {
	var sys = file.Representation().System()
	//
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
		var wire circuit.Variable
		//
		switch insn.Opcode {
		case program.ADD:
			wire = sys.Add(lhs.Wire(), rhs.Wire())
		case program.SUB:
			wire = sys.Sub(lhs.Wire(), rhs.Wire())
		default:
			wire = sys.Mul(lhs.Wire(), rhs.Wire())
		}
		//
		return file.StoreLiteral(ctx, insn.Destinations[0], circuit.NewLiteral(lhs.Type(), wire))
	case program.IS_EQ, program.IS_NEQ, program.ASSERT_EQ:
		lhs, err := file.Load(ctx, insn.Operands[0])
		if err != nil {
			return err
		}
		//
		rhs, err := file.Load(ctx, insn.Operands[1])
		if err != nil {
			return err
		}
		//
		var xs, ys = wires(lhs), wires(rhs)
		//
		if len(xs) != len(ys) {
			return fmt.Errorf("cannot compare %s with %s", lhs, rhs)
		} else if insn.Opcode == program.ASSERT_EQ {
			for i := range xs {
				if err := sys.AssertEqual(xs[i], ys[i]); err != nil {
					return err
				}
			}
			//
			return nil
		}
		//
		eq := isEqual(sys, xs, ys)
		//
		if insn.Opcode == program.IS_NEQ {
			eq = sys.Sub(circuit.One, eq)
		}
		//
		return file.StoreLiteral(ctx, insn.Destinations[0], circuit.NewLiteral(program.BOOLEAN, eq))
	case program.CAST:
		value, err := castCircuit(ctx, file, insn)
		if err != nil {
			return err
		}
		//
		return file.Store(ctx, insn.Destinations[0], value)
	default:
		return fmt.Errorf("unsupported opcode %s", insn.Opcode)
	}
}

// isEqual constrains a boolean which holds exactly when every pair of wires is
// equal.
func isEqual(sys *circuit.System, xs, ys []circuit.Variable) circuit.Variable {
	var eq = circuit.One
	//
	for i := range xs {
		var ith = sys.IsEqual(xs[i], ys[i])
		//
		if i == 0 {
			eq = ith
		} else {
			eq = sys.Mul(eq, ith)
		}
	}
	//
	return eq
}

// wires flattens a circuit value into the sequence of variables it is wired
// to, in declaration order.
func wires(value circuit.Value) []circuit.Variable {
	switch v := value.(type) {
	case circuit.Literal:
		return []circuit.Variable{v.Wire()}
	case *circuit.Struct:
		var ws []circuit.Variable
		//
		for _, m := range v.Members() {
			ws = append(ws, wires(m.Value)...)
		}
		//
		return ws
	case *circuit.Record:
		var ws = []circuit.Variable{v.Owner().Wire()}
		//
		for _, e := range v.Entries() {
			ws = append(ws, wires(e.Value)...)
		}
		//
		return ws
	default:
		panic("unknown circuit value")
	}
}

// castCircuit constructs a circuit struct or record from the operands of a
// cast.
func castCircuit(ctx *stack.Stack, file *registers.Circuit, insn *program.Instruction) (circuit.Value, error) {
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
		entries := make([]circuit.Entry, len(rt.Entries))
		//
		for i, e := range rt.Entries {
			value, err := file.LoadPlaintext(ctx, insn.Operands[i+1])
			if err != nil {
				return nil, err
			}
			//
			entries[i] = circuit.Entry{Name: e.Name, Visibility: e.Visibility, Value: value}
		}
		//
		rec := circuit.NewRecord(circuit.NewAddress(owner.Wire()), rt.OwnerVisibility, entries...)
		//
		return rec.WithOrigin(program.NewLocator(ctx.ProgramID(), rt.Name)), nil
	}
	//
	decl, _ := ctx.Program().Struct(target.Plaintext().StructName())
	members := make([]circuit.Member, len(decl.Members))
	//
	for i, m := range decl.Members {
		value, err := file.LoadPlaintext(ctx, insn.Operands[i])
		if err != nil {
			return nil, err
		}
		//
		members[i] = circuit.Member{Name: m.Name, Value: value}
	}
	//
	return circuit.NewStruct(members...), nil
}
