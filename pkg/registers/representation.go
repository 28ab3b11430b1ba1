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
	"github.com/consensys/go-zkregs/pkg/circuit"
	"github.com/consensys/go-zkregs/pkg/program"
	"github.com/consensys/go-zkregs/pkg/stack"
)

// Representation captures what a register file needs to know about the values
// it holds.  The type V is the value type, P is its plaintext variant and L is
// its literal variant.  There are exactly two representations: plain values and
// circuit values.
type Representation[V any, P any, L any] interface {
	// Match checks a value against the declared type of a register.
	Match(ctx *stack.Stack, value V, t program.RegisterType) error
	// Project the member at a given path within a value.
	Project(value V, path []program.Identifier) (V, error)
	// Constant lifts an inline literal operand into this representation.
	Constant(lit program.Literal) V
	// Caller returns the transition caller in this representation.
	Caller(id *Identity) (V, error)
	// Plaintext narrows a value to its plaintext variant.
	Plaintext(value V) (P, bool)
	// Literal narrows a value to its literal variant.
	Literal(value V) (L, bool)
	// FromLiteral widens a literal into a value.
	FromLiteral(lit L) V
}

// ============================================================================
// Plain
// ============================================================================

// PlainRepr is the representation of plain values.
type PlainRepr struct{}

// Plain is a register file holding plain values.
type Plain = File[program.Value, program.Plaintext, program.Literal, PlainRepr]

// NewPlain constructs an empty register file for plain values.
func NewPlain(types *stack.RegisterTypes, identity *Identity) *Plain {
	return NewFile[program.Value, program.Plaintext, program.Literal](PlainRepr{}, types, identity)
}

// Match implementation for Representation interface.
func (PlainRepr) Match(ctx *stack.Stack, value program.Value, t program.RegisterType) error {
	return ctx.MatchRegisterType(value, t)
}

// Project implementation for Representation interface.
func (PlainRepr) Project(value program.Value, path []program.Identifier) (program.Value, error) {
	return program.Project(value, path)
}

// Constant implementation for Representation interface.
func (PlainRepr) Constant(lit program.Literal) program.Value {
	return lit
}

// Caller implementation for Representation interface.
func (PlainRepr) Caller(id *Identity) (program.Value, error) {
	caller, err := id.Caller()
	if err != nil {
		return nil, err
	}
	//
	return program.AddressLiteral(caller), nil
}

// Plaintext implementation for Representation interface.
func (PlainRepr) Plaintext(value program.Value) (program.Plaintext, bool) {
	pt, ok := value.(program.Plaintext)
	return pt, ok
}

// Literal implementation for Representation interface.
func (PlainRepr) Literal(value program.Value) (program.Literal, bool) {
	lit, ok := value.(program.Literal)
	return lit, ok
}

// FromLiteral implementation for Representation interface.
func (PlainRepr) FromLiteral(lit program.Literal) program.Value {
	return lit
}

// ============================================================================
// Circuit
// ============================================================================

// CircuitRepr is the representation of circuit values, which are wired into a
// given constraint system.
type CircuitRepr struct {
	sys *circuit.System
}

// Circuit is a register file holding circuit values.
type Circuit = File[circuit.Value, circuit.Plaintext, circuit.Literal, CircuitRepr]

// NewCircuit constructs an empty register file for circuit values wired into
// the given constraint system.
func NewCircuit(sys *circuit.System, types *stack.RegisterTypes, identity *Identity) *Circuit {
	return NewFile[circuit.Value, circuit.Plaintext, circuit.Literal](CircuitRepr{sys}, types, identity)
}

// System returns the constraint system into which values are wired.
func (p CircuitRepr) System() *circuit.System {
	return p.sys
}

// Match implementation for Representation interface.  This compares shapes
// only, and never allocates within the constraint system.
func (p CircuitRepr) Match(ctx *stack.Stack, value circuit.Value, t program.RegisterType) error {
	return ctx.MatchCircuitRegisterType(value, t)
}

// Project implementation for Representation interface.
func (p CircuitRepr) Project(value circuit.Value, path []program.Identifier) (circuit.Value, error) {
	return circuit.Project(value, path)
}

// Constant implementation for Representation interface.
func (p CircuitRepr) Constant(lit program.Literal) circuit.Value {
	return p.sys.InjectLiteral(circuit.CONSTANT, lit)
}

// Caller implementation for Representation interface.
func (p CircuitRepr) Caller(id *Identity) (circuit.Value, error) {
	caller, err := id.CallerCircuit()
	if err != nil {
		return nil, err
	}
	//
	return caller.ToLiteral(), nil
}

// Plaintext implementation for Representation interface.
func (p CircuitRepr) Plaintext(value circuit.Value) (circuit.Plaintext, bool) {
	pt, ok := value.(circuit.Plaintext)
	return pt, ok
}

// Literal implementation for Representation interface.
func (p CircuitRepr) Literal(value circuit.Value) (circuit.Literal, bool) {
	lit, ok := value.(circuit.Literal)
	return lit, ok
}

// FromLiteral implementation for Representation interface.
func (p CircuitRepr) FromLiteral(lit circuit.Literal) circuit.Value {
	return lit
}
