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
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/go-zkregs/pkg/fault"
	"github.com/consensys/go-zkregs/pkg/program"
)

// Project the value at a given member path within a circuit value.  This
// mirrors program.Project exactly, and never touches the constraint system.
func Project(value Value, path []program.Identifier) (Value, error) {
	if len(path) == 0 {
		return value, nil
	}
	//
	switch v := value.(type) {
	case *Record:
		if path[0] == program.OwnerMember {
			if len(path) > 1 {
				return nil, fault.TypeMismatchf("record owner is not a struct")
			}
			//
			return v.owner.ToLiteral(), nil
		}
		//
		entry, ok := v.Entry(path[0])
		if !ok {
			return nil, fault.NotFoundf("record has no entry '%s'", path[0])
		}
		//
		return findPlaintext(entry.Value, path[1:])
	case Plaintext:
		return findPlaintext(v, path)
	default:
		return nil, fault.TypeMismatchf("unknown value %s", value)
	}
}

func findPlaintext(p Plaintext, path []program.Identifier) (Plaintext, error) {
	for i, name := range path {
		s, ok := p.(*Struct)
		//
		if !ok {
			return nil, fault.TypeMismatchf("cannot access member '%s' of literal", path[i])
		} else if p, ok = s.Member(name); !ok {
			return nil, fault.NotFoundf("struct has no member '%s'", name)
		}
	}
	//
	return p, nil
}

// ============================================================================
// Inject / Eject
// ============================================================================

// Inject allocates variables for every literal within a given plain value.
// Record owners and entries are allocated according to their visibility,
// whilst plaintexts are allocated with the given mode.
func (p *System) Inject(mode Mode, value program.Value) Value {
	switch v := value.(type) {
	case *program.Record:
		return p.injectRecord(v)
	case program.Plaintext:
		return p.injectPlaintext(mode, v)
	default:
		panic("unknown value")
	}
}

// InjectLiteral allocates a variable for a given literal.  Boolean literals
// are additionally constrained to be either zero or one.
func (p *System) InjectLiteral(mode Mode, lit program.Literal) Literal {
	var wire = p.Allocate(mode, lit.Element())
	//
	if lit.Type() == program.BOOLEAN {
		p.AssertBoolean(wire)
	}
	//
	return Literal{lit.Type(), wire}
}

// InjectAddress allocates a variable for a given address.
func (p *System) InjectAddress(mode Mode, addr program.Address) Address {
	return Address{p.Allocate(mode, addr.Element())}
}

// InjectField allocates a variable for a given field element.
func (p *System) InjectField(mode Mode, elem fr.Element) Field {
	return Field{p.Allocate(mode, elem)}
}

func (p *System) injectPlaintext(mode Mode, value program.Plaintext) Plaintext {
	switch v := value.(type) {
	case program.Literal:
		return p.InjectLiteral(mode, v)
	case *program.Struct:
		var members = make([]Member, len(v.Members()))
		//
		for i, m := range v.Members() {
			members[i] = Member{m.Name, p.injectPlaintext(mode, m.Value)}
		}
		//
		return &Struct{members}
	default:
		panic("unknown plaintext")
	}
}

func (p *System) injectRecord(r *program.Record) *Record {
	var (
		owner   = p.InjectAddress(ToMode(r.OwnerVisibility()), r.Owner())
		entries = make([]Entry, len(r.Entries()))
	)
	//
	for i, e := range r.Entries() {
		entries[i] = Entry{e.Name, e.Visibility, p.injectPlaintext(ToMode(e.Visibility), e.Value)}
	}
	//
	return &Record{owner, r.OwnerVisibility(), entries, r.Origin()}
}

// Eject reconstructs the plain value corresponding to a given circuit value
// from the current witness.
func (p *System) Eject(value Value) program.Value {
	switch v := value.(type) {
	case *Record:
		var entries = make([]program.Entry, len(v.entries))
		//
		for i, e := range v.entries {
			entries[i] = program.Entry{Name: e.Name, Visibility: e.Visibility, Value: p.ejectPlaintext(e.Value)}
		}
		//
		rec, err := program.NewRecord(p.EjectAddress(v.owner), v.ownerVisibility, entries...)
		if err != nil {
			panic(err.Error())
		}
		//
		if v.origin.HasValue() {
			rec = rec.WithOrigin(v.origin.Unwrap())
		}
		//
		return rec
	case Plaintext:
		return p.ejectPlaintext(v)
	default:
		panic("unknown value")
	}
}

// EjectLiteral reconstructs the plain literal for a circuit literal.
func (p *System) EjectLiteral(lit Literal) program.Literal {
	return program.ElementLiteral(lit.kind, p.witness[lit.wire])
}

// EjectAddress reconstructs the plain address for a circuit address.
func (p *System) EjectAddress(addr Address) program.Address {
	return program.AddressFromElement(p.witness[addr.wire])
}

// EjectField reconstructs the plain field element for a circuit field.
func (p *System) EjectField(f Field) fr.Element {
	return p.witness[f.wire]
}

func (p *System) ejectPlaintext(value Plaintext) program.Plaintext {
	switch v := value.(type) {
	case Literal:
		return p.EjectLiteral(v)
	case *Struct:
		var members = make([]program.Member, len(v.members))
		//
		for i, m := range v.members {
			members[i] = program.Member{Name: m.Name, Value: p.ejectPlaintext(m.Value)}
		}
		//
		s, err := program.NewStruct(members...)
		if err != nil {
			panic(err.Error())
		}
		//
		return s
	default:
		panic("unknown plaintext")
	}
}

// ToMode converts a visibility into the corresponding variable mode.
func ToMode(vis program.Visibility) Mode {
	switch vis {
	case program.CONSTANT:
		return CONSTANT
	case program.PUBLIC:
		return PUBLIC
	default:
		return PRIVATE
	}
}
