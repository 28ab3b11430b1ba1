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
	"fmt"

	"github.com/consensys/go-zkregs/pkg/fault"
	"github.com/consensys/go-zkregs/pkg/program"
	log "github.com/sirupsen/logrus"
)

// context identifies the kind of block whose instructions are being checked,
// since this restricts which instructions are permitted.
type context uint8

const (
	functionContext context = iota
	closureContext
	finalizeContext
)

var (
	addressType = program.PlaintextRegisterType(program.LiteralPlaintextType(program.ADDRESS))
	booleanType = program.PlaintextRegisterType(program.LiteralPlaintextType(program.BOOLEAN))
)

// checkInstructions infers the type of every destination register, whilst
// checking every operand is defined before use and has an appropriate type.
func (p *Stack) checkInstructions(types *RegisterTypes, insns []program.Instruction, ctx context) error {
	for i, insn := range insns {
		if err := insn.Validate(); err != nil {
			return fmt.Errorf("instruction %d: %w", i, err)
		}
		//
		operands := make([]program.RegisterType, len(insn.Operands))
		//
		for j, op := range insn.Operands {
			var err error
			//
			if operands[j], err = p.operandType(types, op); err != nil {
				return fmt.Errorf("instruction %d (%s): %w", i, insn.String(), err)
			}
		}
		//
		outputs, err := p.outputTypes(&insn, operands, ctx)
		if err != nil {
			return fmt.Errorf("instruction %d (%s): %w", i, insn.String(), err)
		} else if len(outputs) != len(insn.Destinations) {
			return fault.Malformedf("instruction %d (%s) expects %d destinations", i, insn.String(), len(outputs))
		}
		//
		for j, dst := range insn.Destinations {
			if err := types.addDestination(dst, outputs[j]); err != nil {
				return fmt.Errorf("instruction %d (%s): %w", i, insn.String(), err)
			}
		}
	}
	//
	return nil
}

// operandType determines the type of a given operand.
func (p *Stack) operandType(types *RegisterTypes, op program.Operand) (program.RegisterType, error) {
	switch op.Kind() {
	case program.LITERAL_OPERAND:
		return program.PlaintextRegisterType(program.LiteralPlaintextType(op.Literal().Type())), nil
	case program.CALLER_OPERAND:
		return addressType, nil
	default:
		return types.MemberType(p, op.Register())
	}
}

// outputTypes infers the types of the destinations of a given instruction from
// the types of its operands.
func (p *Stack) outputTypes(insn *program.Instruction, operands []program.RegisterType,
	ctx context) ([]program.RegisterType, error) {
	//
	switch insn.Opcode {
	case program.ADD, program.SUB, program.MUL:
		if err := checkArithmetic(insn.Opcode, operands[0], operands[1]); err != nil {
			return nil, err
		}
		//
		return operands[:1], nil
	case program.IS_EQ, program.IS_NEQ:
		if operands[0] != operands[1] {
			return nil, fault.TypeMismatchf("cannot compare %s with %s", operands[0], operands[1])
		}
		//
		return []program.RegisterType{booleanType}, nil
	case program.ASSERT_EQ:
		if operands[0] != operands[1] {
			return nil, fault.TypeMismatchf("cannot compare %s with %s", operands[0], operands[1])
		}
		//
		return nil, nil
	case program.CAST:
		return p.castType(insn.CastType, operands, ctx)
	case program.CALL:
		if ctx == finalizeContext {
			return nil, fault.Malformedf("call not permitted in finalize")
		}
		//
		return p.callTypes(insn, operands, ctx)
	default:
		return nil, fault.Malformedf("unknown opcode %s", insn.Opcode)
	}
}

func checkArithmetic(op program.Opcode, lhs, rhs program.RegisterType) error {
	if lhs != rhs {
		return fault.TypeMismatchf("operands of %s have different types (%s and %s)", op, lhs, rhs)
	} else if lhs.Kind() != program.PLAINTEXT_REGISTER || lhs.Plaintext().IsStruct() {
		return fault.TypeMismatchf("%s not defined over %s", op, lhs)
	}
	//
	switch t := lhs.Plaintext().Literal(); {
	case t == program.FIELD, t.IsInteger():
		return nil
	case t == program.SCALAR && op != program.MUL:
		return nil
	default:
		return fault.TypeMismatchf("%s not defined over %s", op, t)
	}
}

func (p *Stack) castType(target program.RegisterType, operands []program.RegisterType,
	ctx context) ([]program.RegisterType, error) {
	//
	switch target.Kind() {
	case program.RECORD_REGISTER:
		rt, ok := p.program.Record(target.Record())
		//
		if !ok {
			return nil, fault.NotFoundf("unknown record %s", target.Record())
		} else if ctx == finalizeContext {
			return nil, fault.Malformedf("cannot construct record in finalize")
		} else if len(operands) != len(rt.Entries)+1 {
			return nil, fault.TypeMismatchf("record %s expects %d operands", rt.Name, len(rt.Entries)+1)
		} else if operands[0] != addressType {
			return nil, fault.TypeMismatchf("record owner must be address, found %s", operands[0])
		}
		//
		for i, e := range rt.Entries {
			if operands[i+1] != program.PlaintextRegisterType(e.Type) {
				return nil, fault.TypeMismatchf("entry '%s' expects %s, found %s", e.Name, e.Type, operands[i+1])
			}
		}
	default:
		st, ok := p.program.Struct(target.Plaintext().StructName())
		//
		if !ok {
			return nil, fault.NotFoundf("unknown struct %s", target.Plaintext().StructName())
		} else if len(operands) != len(st.Members) {
			return nil, fault.TypeMismatchf("struct %s expects %d operands", st.Name, len(st.Members))
		}
		//
		for i, m := range st.Members {
			if operands[i] != program.PlaintextRegisterType(m.Type) {
				return nil, fault.TypeMismatchf("member '%s' expects %s, found %s", m.Name, m.Type, operands[i])
			}
		}
	}
	//
	return []program.RegisterType{target}, nil
}

// callTypes determines the types returned from a call instruction.  The types
// of a callee in an external program are translated into the context of this
// program, such that its records become external records.
func (p *Stack) callTypes(insn *program.Instruction, operands []program.RegisterType,
	ctx context) ([]program.RegisterType, error) {
	var (
		inputs, outputs []program.RegisterType
		callee          = insn.Callee
	)
	//
	if insn.IsExternalCall() {
		ext, err := p.GetExternalStack(callee.ProgramID)
		if err != nil {
			return nil, err
		}
		//
		fn, ok := ext.program.Function(callee.Resource)
		if !ok {
			return nil, fault.NotFoundf("function %s does not exist", callee)
		}
		//
		inputs, outputs = functionSignature(fn, callee.ProgramID)
	} else if c, ok := p.program.Closure(callee.Resource); ok {
		inputs, outputs = closureSignature(c)
	} else if fn, ok := p.program.Function(callee.Resource); ok {
		inputs, outputs = functionSignature(fn, program.ProgramID{})
	} else {
		return nil, fault.NotFoundf("unknown callee %s", callee.Resource)
	}
	//
	if ctx == closureContext && (insn.IsExternalCall() || !p.isClosure(callee.Resource)) {
		return nil, fault.Malformedf("closure cannot call function %s", insn.Callee.Resource)
	} else if len(inputs) != len(operands) {
		return nil, fault.TypeMismatchf("%s expects %d operands, found %d", callee.Resource, len(inputs), len(operands))
	}
	//
	for i, t := range inputs {
		if operands[i] != t {
			return nil, fault.TypeMismatchf("operand %d of call expects %s, found %s", i, t, operands[i])
		}
	}
	//
	return outputs, nil
}

func (p *Stack) isClosure(name program.Identifier) bool {
	_, ok := p.program.Closure(name)
	return ok
}

func closureSignature(c *program.Closure) (inputs []program.RegisterType, outputs []program.RegisterType) {
	for _, in := range c.Inputs {
		inputs = append(inputs, in.Type)
	}
	//
	for _, out := range c.Outputs {
		outputs = append(outputs, out.Type)
	}
	//
	return inputs, outputs
}

// functionSignature returns the register types of a function's inputs and
// outputs.  When the function belongs to an external program (pid non-zero),
// its records are translated into external records.
func functionSignature(fn *program.Function, pid program.ProgramID) (inputs []program.RegisterType,
	outputs []program.RegisterType) {
	var translate = func(t program.ValueType) program.RegisterType {
		if t.Kind() == program.RECORD_VALUE && !pid.IsZero() {
			return program.ExternalRecordRegisterType(program.NewLocator(pid, t.Record()))
		}
		//
		return t.ToRegisterType()
	}
	//
	for _, in := range fn.Inputs {
		inputs = append(inputs, translate(in.Type))
	}
	//
	for _, out := range fn.Outputs {
		outputs = append(outputs, translate(out.Type))
	}
	//
	return inputs, outputs
}

// ============================================================================
// Call Counting
// ============================================================================

// countCalls determines the number of calls made by every function in this
// program.  A function (or closure) counts as one call, plus the calls made by
// each function or closure it calls.  Calls to external functions use the
// counts already determined by the external stack.
func (p *Stack) countCalls() error {
	var (
		closureCalls = make(map[program.Identifier]uint)
		visiting     = make(map[program.Identifier]bool)
		count        func(name program.Identifier, body []program.Instruction, memo map[program.Identifier]uint) (uint, error)
	)
	//
	count = func(name program.Identifier, body []program.Instruction, memo map[program.Identifier]uint) (uint, error) {
		if n, ok := memo[name]; ok {
			return n, nil
		} else if visiting[name] {
			return 0, fault.Malformedf("recursive call to %s", name)
		}
		//
		visiting[name] = true
		defer delete(visiting, name)
		//
		var n uint = 1
		//
		for _, insn := range body {
			if insn.Opcode != program.CALL {
				continue
			}
			//
			m, err := p.countCallee(&insn, func(c program.Identifier) (uint, error) {
				if cl, ok := p.program.Closure(c); ok {
					return count(c, cl.Instructions, closureCalls)
				}
				//
				fn, _ := p.program.Function(c)
				//
				return count(c, fn.Instructions, p.numCalls)
			})
			//
			if err != nil {
				return 0, err
			}
			//
			n += m
		}
		//
		memo[name] = n
		//
		return n, nil
	}
	//
	// Closures are counted even when unreachable, such that recursion is always
	// rejected.
	for _, c := range p.program.Closures() {
		if _, err := count(c.Name, c.Instructions, closureCalls); err != nil {
			return err
		}
	}
	//
	for _, f := range p.program.Functions() {
		n, err := count(f.Name, f.Instructions, p.numCalls)
		if err != nil {
			return err
		}
		//
		log.Debugf("function %s/%s makes %d call(s)", p.ProgramID(), f.Name, n)
	}
	//
	return nil
}

func (p *Stack) countCallee(insn *program.Instruction, local func(program.Identifier) (uint, error)) (uint, error) {
	if !insn.IsExternalCall() {
		return local(insn.Callee.Resource)
	}
	//
	ext, err := p.GetExternalStack(insn.Callee.ProgramID)
	if err != nil {
		return 0, err
	}
	//
	return ext.GetNumberOfCalls(insn.Callee.Resource)
}
