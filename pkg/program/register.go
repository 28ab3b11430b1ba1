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
	"strconv"
	"strings"

	"github.com/consensys/go-zkregs/pkg/fault"
)

// Register identifies a frame-local register ("r3"), optionally followed by a
// member path into the value it holds ("r3.owner", "r2.p.x").
type Register struct {
	Index uint64
	Path  []Identifier
}

// NewRegister constructs a register locator without any member path.
func NewRegister(index uint64) Register {
	return Register{index, nil}
}

// NewMember constructs a register member with the given (non-empty) path.
func NewMember(index uint64, path ...Identifier) Register {
	return Register{index, path}
}

// ParseRegister parses a register or register member.
func ParseRegister(s string) (Register, error) {
	var parts = strings.Split(s, ".")
	//
	if !strings.HasPrefix(parts[0], "r") {
		return Register{}, fault.Malformedf("invalid register '%s'", s)
	}
	//
	index, err := strconv.ParseUint(parts[0][1:], 10, 64)
	if err != nil {
		return Register{}, fault.Malformedf("invalid register '%s'", s)
	}
	//
	var path []Identifier
	//
	for _, p := range parts[1:] {
		id, err := ParseIdentifier(p)
		if err != nil {
			return Register{}, err
		}
		//
		path = append(path, id)
	}
	//
	return Register{index, path}, nil
}

// MustRegister parses a register, panicking if it is malformed.
func MustRegister(s string) Register {
	reg, err := ParseRegister(s)
	if err != nil {
		panic(err.Error())
	}
	//
	return reg
}

// IsMember checks whether this refers to a member of a register, rather than
// the register itself.
func (r Register) IsMember() bool {
	return len(r.Path) > 0
}

// Base returns the register without any member path.
func (r Register) Base() Register {
	return Register{r.Index, nil}
}

func (r Register) String() string {
	var builder strings.Builder
	//
	builder.WriteString("r")
	builder.WriteString(strconv.FormatUint(r.Index, 10))
	//
	for _, p := range r.Path {
		builder.WriteString(".")
		builder.WriteString(p.String())
	}
	//
	return builder.String()
}

// ============================================================================
// Operand
// ============================================================================

// OperandKind distinguishes the variants of an operand.
type OperandKind uint8

// Operand variants.
const (
	LITERAL_OPERAND OperandKind = iota
	REGISTER_OPERAND
	CALLER_OPERAND
)

// Operand is an input to an instruction, which is either an inline literal, a
// register (or register member) or the caller of the current transition.
type Operand struct {
	kind     OperandKind
	literal  Literal
	register Register
}

// LiteralOperand constructs an operand for an inline literal.
func LiteralOperand(lit Literal) Operand {
	return Operand{kind: LITERAL_OPERAND, literal: lit}
}

// RegisterOperand constructs an operand referring to a register.
func RegisterOperand(reg Register) Operand {
	return Operand{kind: REGISTER_OPERAND, register: reg}
}

// CallerOperand constructs an operand referring to the caller.
func CallerOperand() Operand {
	return Operand{kind: CALLER_OPERAND}
}

// ParseOperand parses an operand, such as "r1", "r2.owner", "5u64" or
// "self.caller".
func ParseOperand(s string) (Operand, error) {
	switch {
	case s == "self.caller":
		return CallerOperand(), nil
	case strings.HasPrefix(s, "r") && len(s) > 1 && isDigit(s[1]):
		reg, err := ParseRegister(s)
		return RegisterOperand(reg), err
	default:
		lit, err := ParseLiteral(s)
		return LiteralOperand(lit), err
	}
}

// MustOperand parses an operand, panicking if it is malformed.
func MustOperand(s string) Operand {
	op, err := ParseOperand(s)
	if err != nil {
		panic(err.Error())
	}
	//
	return op
}

// Kind returns the variant of this operand.
func (o Operand) Kind() OperandKind {
	return o.kind
}

// Literal returns the literal of a literal operand.
func (o Operand) Literal() Literal {
	return o.literal
}

// Register returns the register of a register operand.
func (o Operand) Register() Register {
	return o.register
}

func (o Operand) String() string {
	switch o.kind {
	case LITERAL_OPERAND:
		return o.literal.String()
	case REGISTER_OPERAND:
		return o.register.String()
	default:
		return "self.caller"
	}
}
