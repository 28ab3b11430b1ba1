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
package circuit

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/go-zkregs/pkg/fault"
)

// Mode determines how a variable is exposed by a proof: constants are fixed
// by the circuit itself, public variables are part of the statement, and
// private variables are known only to the prover.
type Mode uint8

// Available modes.
const (
	CONSTANT Mode = iota
	PUBLIC
	PRIVATE
)

func (m Mode) String() string {
	switch m {
	case CONSTANT:
		return "constant"
	case PUBLIC:
		return "public"
	default:
		return "private"
	}
}

// Variable is a handle to a wire within a constraint system.  Variable zero is
// reserved for the constant one.
type Variable uint

// One is the variable holding the constant one.
const One Variable = 0

// Term is a single coefficient-variable product within a linear combination.
type Term struct {
	Coeff fr.Element
	Var   Variable
}

// LinearCombination is a sum of zero or more terms.
type LinearCombination []Term

// Constraint is a rank-1 constraint of the form A * B = C.
type Constraint struct {
	A, B, C LinearCombination
}

// System is a rank-1 constraint system along with a witness assignment for
// each of its variables.  Constraints are recorded as operations are applied
// to variables, such that the resulting system constrains exactly the
// computation performed.
type System struct {
	modes       []Mode
	witness     []fr.Element
	constraints []Constraint
}

// NewSystem constructs an empty constraint system containing only the constant
// one.
func NewSystem() *System {
	var one fr.Element
	//
	one.SetOne()
	//
	return &System{[]Mode{CONSTANT}, []fr.Element{one}, nil}
}

// NumVariables returns the number of variables allocated (including the
// constant one).
func (p *System) NumVariables() uint {
	return uint(len(p.witness))
}

// NumConstraints returns the number of constraints recorded.
func (p *System) NumConstraints() uint {
	return uint(len(p.constraints))
}

// Count returns the number of variables allocated with a given mode.
func (p *System) Count(mode Mode) uint {
	var n uint
	//
	for _, m := range p.modes {
		if m == mode {
			n++
		}
	}
	//
	return n
}

// Constraints returns the constraints of this system.
func (p *System) Constraints() []Constraint {
	return p.constraints
}

// Mode returns the mode of a given variable.
func (p *System) Mode(v Variable) Mode {
	return p.modes[v]
}

// Value returns the witness assigned to a given variable.
func (p *System) Value(v Variable) fr.Element {
	return p.witness[v]
}

// Allocate a fresh variable of the given mode with the given witness.
func (p *System) Allocate(mode Mode, value fr.Element) Variable {
	var v = Variable(len(p.witness))
	//
	p.modes = append(p.modes, mode)
	p.witness = append(p.witness, value)
	//
	return v
}

// Add allocates a variable holding a + b.
func (p *System) Add(a, b Variable) Variable {
	var sum fr.Element
	//
	sum.Add(&p.witness[a], &p.witness[b])
	c := p.Allocate(p.join(a, b), sum)
	// (a + b) * 1 = c
	p.constrain(lc(a, b), lc(One), lc(c))
	//
	return c
}

// Sub allocates a variable holding a - b.
func (p *System) Sub(a, b Variable) Variable {
	var diff fr.Element
	//
	diff.Sub(&p.witness[a], &p.witness[b])
	c := p.Allocate(p.join(a, b), diff)
	// (c + b) * 1 = a
	p.constrain(lc(c, b), lc(One), lc(a))
	//
	return c
}

// Mul allocates a variable holding a * b.
func (p *System) Mul(a, b Variable) Variable {
	var prod fr.Element
	//
	prod.Mul(&p.witness[a], &p.witness[b])
	c := p.Allocate(p.join(a, b), prod)
	// a * b = c
	p.constrain(lc(a), lc(b), lc(c))
	//
	return c
}

// IsEqual allocates a boolean variable which holds one when a = b, and zero
// otherwise.
func (p *System) IsEqual(a, b Variable) Variable {
	var (
		mode     = p.join(a, b)
		diff     = p.Sub(a, b)
		inv, res fr.Element
		minusOne fr.Element
	)
	//
	inv.Inverse(&p.witness[diff])
	//
	if p.witness[diff].IsZero() {
		res.SetOne()
	}
	//
	invVar := p.Allocate(PRIVATE, inv)
	resVar := p.Allocate(mode, res)
	// diff * inv = 1 - res
	minusOne.SetOne()
	minusOne.Neg(&minusOne)
	p.constrain(lc(diff), lc(invVar), LinearCombination{{one(), One}, {minusOne, resVar}})
	// diff * res = 0
	p.constrain(lc(diff), lc(resVar), nil)
	//
	return resVar
}

// AssertEqual constrains a = b, failing immediately if the witnesses differ
// (since the system could then never be satisfied).
func (p *System) AssertEqual(a, b Variable) error {
	p.constrain(lc(a), lc(One), lc(b))
	//
	if !p.witness[a].Equal(&p.witness[b]) {
		return fault.TypeMismatchf("assertion failed: %s != %s", p.witness[a].String(), p.witness[b].String())
	}
	//
	return nil
}

// AssertBoolean constrains v * (1 - v) = 0.
func (p *System) AssertBoolean(v Variable) {
	var minusOne fr.Element
	//
	minusOne.SetOne()
	minusOne.Neg(&minusOne)
	//
	p.constrain(lc(v), LinearCombination{{one(), One}, {minusOne, v}}, nil)
}

// IsSatisfied checks every constraint holds under the current witness.
func (p *System) IsSatisfied() error {
	for i, c := range p.constraints {
		var (
			a   = p.eval(c.A)
			b   = p.eval(c.B)
			rhs = p.eval(c.C)
			lhs fr.Element
		)
		//
		lhs.Mul(&a, &b)
		//
		if !lhs.Equal(&rhs) {
			return fmt.Errorf("constraint %d unsatisfied", i)
		}
	}
	//
	return nil
}

func (p *System) eval(terms LinearCombination) fr.Element {
	var acc fr.Element
	//
	for _, t := range terms {
		var tmp fr.Element
		//
		tmp.Mul(&t.Coeff, &p.witness[t.Var])
		acc.Add(&acc, &tmp)
	}
	//
	return acc
}

func (p *System) constrain(a, b, c LinearCombination) {
	p.constraints = append(p.constraints, Constraint{a, b, c})
}

// join determines the mode of a variable computed from two others.  A result is
// constant only when both inputs are, and is otherwise private.
func (p *System) join(a, b Variable) Mode {
	if p.modes[a] == CONSTANT && p.modes[b] == CONSTANT {
		return CONSTANT
	}
	//
	return PRIVATE
}

func lc(vars ...Variable) LinearCombination {
	var terms = make(LinearCombination, len(vars))
	//
	for i, v := range vars {
		terms[i] = Term{one(), v}
	}
	//
	return terms
}

func one() fr.Element {
	var e fr.Element
	//
	return *e.SetOne()
}
