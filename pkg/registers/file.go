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
package registers

import (
	"fmt"

	"github.com/consensys/go-zkregs/pkg/fault"
	"github.com/consensys/go-zkregs/pkg/program"
	"github.com/consensys/go-zkregs/pkg/stack"
)

// File holds the registers of a single frame.  Every register is either
// unassigned or assigned, and once assigned it holds its value for the
// remainder of the frame.  Input registers are assigned by the caller before
// execution begins, and every other register is assigned at most once by an
// instruction.  Every value is checked against the declared type of its
// register before being assigned.
//
// The same implementation serves both plain and circuit values, as determined
// by the representation R.  A plain and a circuit file for the same frame are
// expected to see exactly the same sequence of operations, though this is not
// checked here.
type File[V any, P any, L any, R Representation[V, P, L]] struct {
	repr     R
	types    *stack.RegisterTypes
	identity *Identity
	values   map[uint64]V
}

// NewFile constructs an empty register file for a given representation and set
// of register types.  The identity provides the value of the caller operand.
func NewFile[V any, P any, L any, R Representation[V, P, L]](repr R, types *stack.RegisterTypes,
	identity *Identity) *File[V, P, L, R] {
	//
	return &File[V, P, L, R]{repr, types, identity, make(map[uint64]V)}
}

// Representation returns the representation of values in this file.
func (p *File[V, P, L, R]) Representation() R {
	return p.repr
}

// Types returns the register types of this file.
func (p *File[V, P, L, R]) Types() *stack.RegisterTypes {
	return p.types
}

// IsAssigned checks whether the base of a given register has been assigned.
func (p *File[V, P, L, R]) IsAssigned(reg program.Register) bool {
	_, ok := p.values[reg.Index]
	return ok
}

// Len returns the number of assigned registers.
func (p *File[V, P, L, R]) Len() uint {
	return uint(len(p.values))
}

// AssignInput assigns the value of an input register, as part of the calling
// convention.  This fails if the register is not an input register, is already
// assigned, or if the value does not match its declared type.
func (p *File[V, P, L, R]) AssignInput(ctx *stack.Stack, reg program.Register, value V) error {
	if reg.IsMember() {
		return fault.IllegalAssignmentf("cannot assign register member %s", reg)
	} else if !p.types.IsInput(reg) {
		return fault.IllegalAssignmentf("register %s is not an input", reg)
	}
	//
	return p.assign(ctx, reg, value)
}

// Store assigns a value to a given register.  This fails if the register is a
// register member, is an input register, or is already assigned.  It also fails
// if the value does not match the register's declared type.  A failed store
// leaves the register unassigned.
func (p *File[V, P, L, R]) Store(ctx *stack.Stack, reg program.Register, value V) error {
	if reg.IsMember() {
		return fault.IllegalAssignmentf("cannot store into register member %s", reg)
	} else if p.types.IsInput(reg) {
		return fault.IllegalAssignmentf("cannot store into input register %s", reg)
	}
	//
	return p.assign(ctx, reg, value)
}

// StoreLiteral assigns a literal to a given register.
func (p *File[V, P, L, R]) StoreLiteral(ctx *stack.Stack, reg program.Register, lit L) error {
	return p.Store(ctx, reg, p.repr.FromLiteral(lit))
}

func (p *File[V, P, L, R]) assign(ctx *stack.Stack, reg program.Register, value V) error {
	if p.IsAssigned(reg) {
		return fault.IllegalAssignmentf("register %s is already assigned", reg)
	}
	//
	t, err := p.types.Type(reg)
	if err != nil {
		return err
	} else if err := p.repr.Match(ctx, value, t); err != nil {
		return fmt.Errorf("register %s: %w", reg, err)
	}
	//
	p.values[reg.Index] = value
	//
	return nil
}

// Load the value of a given operand.  For a register operand, this fails if the
// register is unassigned or if its member path does not exist.  Loading never
// modifies the register file.
func (p *File[V, P, L, R]) Load(_ *stack.Stack, op program.Operand) (V, error) {
	var empty V
	//
	switch op.Kind() {
	case program.LITERAL_OPERAND:
		return p.repr.Constant(op.Literal()), nil
	case program.CALLER_OPERAND:
		return p.repr.Caller(p.identity)
	}
	//
	reg := op.Register()
	value, ok := p.values[reg.Index]
	//
	if !ok {
		return empty, fault.IllegalAccessf("register r%d is not assigned", reg.Index)
	}
	//
	return p.repr.Project(value, reg.Path)
}

// LoadLiteral loads the value of a given operand, which must be a literal.
func (p *File[V, P, L, R]) LoadLiteral(ctx *stack.Stack, op program.Operand) (L, error) {
	var empty L
	//
	value, err := p.Load(ctx, op)
	if err != nil {
		return empty, err
	} else if lit, ok := p.repr.Literal(value); ok {
		return lit, nil
	}
	//
	return empty, fault.NarrowingFailuref("operand %s must be a literal", op)
}

// LoadPlaintext loads the value of a given operand, which must be a plaintext.
func (p *File[V, P, L, R]) LoadPlaintext(ctx *stack.Stack, op program.Operand) (P, error) {
	var empty P
	//
	value, err := p.Load(ctx, op)
	if err != nil {
		return empty, err
	} else if pt, ok := p.repr.Plaintext(value); ok {
		return pt, nil
	}
	//
	return empty, fault.NarrowingFailuref("operand %s must be a plaintext", op)
}
