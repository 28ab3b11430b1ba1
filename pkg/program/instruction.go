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
	"strings"

	"github.com/consensys/go-zkregs/pkg/fault"
)

// Opcode identifies the operation performed by an instruction.
type Opcode uint8

// Available opcodes.
const (
	ADD Opcode = iota
	SUB
	MUL
	IS_EQ
	IS_NEQ
	ASSERT_EQ
	CAST
	CALL
)

var opcodeNames = [...]string{"add", "sub", "mul", "is.eq", "is.neq", "assert.eq", "cast", "call"}

// ParseOpcode parses the mnemonic of an opcode.
func ParseOpcode(s string) (Opcode, bool) {
	for i, n := range opcodeNames {
		if n == s {
			return Opcode(i), true
		}
	}
	//
	return 0, false
}

func (op Opcode) String() string {
	return opcodeNames[op]
}

// Instruction represents a single step within the body of a function, closure
// or finalize block.  Instructions read zero or more operands and write zero or
// more destination registers.  Cast instructions additionally declare the type
// being constructed, whilst call instructions identify their callee.  The
// callee of a call to a resource in the same program has a zero program ID.
type Instruction struct {
	Opcode       Opcode
	Operands     []Operand
	Destinations []Register
	CastType     RegisterType
	Callee       Locator
}

// NewInstruction constructs an instruction for a given opcode.
func NewInstruction(op Opcode, operands []Operand, destinations ...Register) Instruction {
	return Instruction{Opcode: op, Operands: operands, Destinations: destinations}
}

// NewCast constructs a cast instruction which builds a value of the given
// (struct or record) type.
func NewCast(operands []Operand, destination Register, castType RegisterType) Instruction {
	return Instruction{Opcode: CAST, Operands: operands, Destinations: []Register{destination}, CastType: castType}
}

// NewCall constructs a call instruction for a given callee.
func NewCall(callee Locator, operands []Operand, destinations ...Register) Instruction {
	return Instruction{Opcode: CALL, Operands: operands, Destinations: destinations, Callee: callee}
}

// IsExternalCall checks whether this is a call to a resource in another
// program.
func (p *Instruction) IsExternalCall() bool {
	return p.Opcode == CALL && !p.Callee.ProgramID.IsZero()
}

// Validate checks that this instruction is well-formed with respect to the
// number of operands and destinations expected by its opcode.
func (p *Instruction) Validate() error {
	var nops, ndsts = len(p.Operands), len(p.Destinations)
	//
	switch p.Opcode {
	case ADD, SUB, MUL, IS_EQ, IS_NEQ:
		if nops != 2 || ndsts != 1 {
			return fault.Malformedf("%s expects 2 operands and 1 destination", p.Opcode)
		}
	case ASSERT_EQ:
		if nops != 2 || ndsts != 0 {
			return fault.Malformedf("%s expects 2 operands and no destination", p.Opcode)
		}
	case CAST:
		if ndsts != 1 {
			return fault.Malformedf("%s expects 1 destination", p.Opcode)
		} else if p.CastType.Kind() == EXTERNAL_RECORD_REGISTER {
			return fault.Malformedf("cannot cast to external record %s", p.CastType)
		} else if p.CastType.Kind() == PLAINTEXT_REGISTER && !p.CastType.Plaintext().IsStruct() {
			return fault.Malformedf("cannot cast to literal type %s", p.CastType)
		}
	case CALL:
		if p.Callee.Resource == "" {
			return fault.Malformedf("call is missing callee")
		}
	}
	//
	for _, dst := range p.Destinations {
		if dst.IsMember() {
			return fault.Malformedf("destination %s cannot be a register member", dst)
		}
	}
	//
	return nil
}

// ParseInstruction parses the textual form of an instruction, such as "add r0
// r1 into r2", "cast r0 r1 into r2 as point", "call token.aleo/mint r0 into
// r1" or "assert.eq r0 r1".
func ParseInstruction(s string) (Instruction, error) {
	var (
		insn   Instruction
		tokens = strings.Fields(s)
		ok     bool
		err    error
	)
	//
	if len(tokens) == 0 {
		return insn, fault.Malformedf("empty instruction")
	} else if insn.Opcode, ok = ParseOpcode(tokens[0]); !ok {
		return insn, fault.Malformedf("unknown opcode '%s'", tokens[0])
	}
	//
	tokens = tokens[1:]
	// Callee
	if insn.Opcode == CALL {
		if len(tokens) == 0 {
			return insn, fault.Malformedf("call is missing callee")
		} else if insn.Callee, err = parseCallee(tokens[0]); err != nil {
			return insn, err
		}
		//
		tokens = tokens[1:]
	}
	// Cast type
	if insn.Opcode == CAST {
		n := len(tokens)
		//
		if n < 2 || tokens[n-2] != "as" {
			return insn, fault.Malformedf("cast is missing type")
		} else if insn.CastType, err = ParseRegisterType(tokens[n-1]); err != nil {
			return insn, err
		}
		//
		tokens = tokens[:n-2]
	}
	// Operands
	for len(tokens) > 0 && tokens[0] != "into" {
		op, err := ParseOperand(tokens[0])
		if err != nil {
			return insn, err
		}
		//
		insn.Operands = append(insn.Operands, op)
		tokens = tokens[1:]
	}
	// Destinations
	if len(tokens) > 0 {
		for _, t := range tokens[1:] {
			reg, err := ParseRegister(t)
			if err != nil {
				return insn, err
			}
			//
			insn.Destinations = append(insn.Destinations, reg)
		}
	}
	//
	return insn, insn.Validate()
}

// MustInstruction parses an instruction, panicking if it is malformed.
func MustInstruction(s string) Instruction {
	insn, err := ParseInstruction(s)
	if err != nil {
		panic(err.Error())
	}
	//
	return insn
}

func parseCallee(s string) (Locator, error) {
	if strings.ContainsRune(s, '/') {
		return ParseLocator(s)
	}
	//
	id, err := ParseIdentifier(s)
	//
	return Locator{Resource: id}, err
}

func (p *Instruction) String() string {
	var builder strings.Builder
	//
	builder.WriteString(p.Opcode.String())
	//
	if p.Opcode == CALL {
		builder.WriteString(" ")
		//
		if p.IsExternalCall() {
			builder.WriteString(p.Callee.String())
		} else {
			builder.WriteString(p.Callee.Resource.String())
		}
	}
	//
	for _, op := range p.Operands {
		builder.WriteString(" ")
		builder.WriteString(op.String())
	}
	//
	if len(p.Destinations) > 0 {
		builder.WriteString(" into")
		//
		for _, dst := range p.Destinations {
			builder.WriteString(" ")
			builder.WriteString(dst.String())
		}
	}
	//
	if p.Opcode == CAST {
		builder.WriteString(" as ")
		builder.WriteString(p.CastType.String())
	}
	//
	return builder.String()
}
