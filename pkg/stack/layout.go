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
	"github.com/consensys/go-zkregs/pkg/fault"
	"github.com/consensys/go-zkregs/pkg/program"
	"github.com/consensys/go-zkregs/pkg/util"
)

// Layout exposes the type information carried by a value, independently of
// whether that value is plain or lives in a constraint system.  Matching a
// value against a type is defined once over layouts, and the plain and circuit
// matchers simply adapt their values.
type Layout interface {
	// Kind of value this is.
	Kind() LayoutKind
	// Literal type of a literal value.
	Literal() program.LiteralType
	// Fields returns the members of a struct, or the entries of a record, in
	// declaration order.
	Fields() []Field
	// Owner returns the visibility of a record's owner.
	Owner() program.Visibility
	// Origin returns the record type a record was constructed from, if known.
	Origin() util.Option[program.Locator]
}

// LayoutKind identifies the shape of a value.
type LayoutKind uint8

const (
	// LITERAL_LAYOUT is a literal.
	LITERAL_LAYOUT LayoutKind = iota
	// STRUCT_LAYOUT is a struct of named members.
	STRUCT_LAYOUT
	// RECORD_LAYOUT is a record with an owner and named entries.
	RECORD_LAYOUT
)

// Field is a named component of a struct or record.  Visibility is only
// meaningful for record entries.
type Field struct {
	Name       program.Identifier
	Visibility program.Visibility
	Value      Layout
}

// matchRegisterType checks a value against a register type.  An external
// record type matches any record which matches the layout of the record it
// locates, provided that locator resolves.
func (p *Stack) matchRegisterType(value Layout, t program.RegisterType) error {
	switch t.Kind() {
	case program.PLAINTEXT_REGISTER:
		if value.Kind() == RECORD_LAYOUT {
			return fault.TypeMismatchf("expected plaintext of type %s, found record", t)
		}
		//
		return p.matchPlaintext(value, t.Plaintext())
	case program.RECORD_REGISTER:
		if value.Kind() != RECORD_LAYOUT {
			return fault.TypeMismatchf("expected record %s, found plaintext", t.Record())
		}
		//
		return p.matchRecord(value, t.Record())
	default:
		if value.Kind() != RECORD_LAYOUT {
			return fault.TypeMismatchf("expected record %s, found plaintext", t.Locator())
		} else if !p.ContainsExternalRecord(t.Locator()) {
			return fault.NotFoundf("external record %s does not exist", t.Locator())
		}
		//
		return p.matchExternalRecord(value, t.Locator())
	}
}

// matchExternalRecord delegates to the stack of the program declaring the
// record.
func (p *Stack) matchExternalRecord(rec Layout, loc program.Locator) error {
	ext, err := p.GetExternalStack(loc.ProgramID)
	if err != nil {
		return err
	}
	//
	return ext.matchRecord(rec, loc.Resource)
}

// matchRecord checks a record against a record declared in this program.
// Entries must match in name, order and visibility, and their contents must
// match the declared plaintext types.
func (p *Stack) matchRecord(rec Layout, name program.Identifier) error {
	var (
		loc     = program.NewLocator(p.ProgramID(), name)
		origin  = rec.Origin()
		entries = rec.Fields()
	)
	//
	rt, ok := p.program.Record(name)
	if !ok {
		return fault.NotFoundf("record %s does not exist", loc)
	} else if origin.HasValue() && origin.Unwrap() != loc {
		return fault.TypeMismatchf("expected record %s, found record %s", loc, origin.Unwrap())
	} else if rec.Owner() != rt.OwnerVisibility {
		return fault.TypeMismatchf("record %s owner must be %s", loc, rt.OwnerVisibility)
	} else if len(entries) != len(rt.Entries) {
		return fault.TypeMismatchf("record %s expects %d entries, found %d", loc, len(rt.Entries), len(entries))
	}
	//
	for i, et := range rt.Entries {
		var entry = entries[i]
		//
		if entry.Name != et.Name {
			return fault.TypeMismatchf("record %s expects entry '%s', found '%s'", loc, et.Name, entry.Name)
		} else if entry.Visibility != et.Visibility {
			return fault.TypeMismatchf("record %s entry '%s' must be %s", loc, et.Name, et.Visibility)
		} else if err := p.matchPlaintext(entry.Value, et.Type); err != nil {
			return err
		}
	}
	//
	return nil
}

// matchPlaintext checks a plaintext against a plaintext type.  Literals must
// have exactly the declared type, whilst structs must have the declared members
// in the declared order.
func (p *Stack) matchPlaintext(pt Layout, t program.PlaintextType) error {
	switch pt.Kind() {
	case LITERAL_LAYOUT:
		if t.IsStruct() {
			return fault.TypeMismatchf("expected struct %s, found %s", t, pt.Literal())
		} else if pt.Literal() != t.Literal() {
			return fault.TypeMismatchf("expected %s, found %s", t, pt.Literal())
		}
		//
		return nil
	case STRUCT_LAYOUT:
		if !t.IsStruct() {
			return fault.TypeMismatchf("expected %s, found struct", t)
		}
		//
		st, ok := p.program.Struct(t.StructName())
		members := pt.Fields()
		//
		if !ok {
			return fault.NotFoundf("struct %s does not exist", t.StructName())
		} else if len(members) != len(st.Members) {
			return fault.TypeMismatchf("struct %s expects %d members, found %d", st.Name, len(st.Members),
				len(members))
		}
		//
		for i, mt := range st.Members {
			if members[i].Name != mt.Name {
				return fault.TypeMismatchf("struct %s expects member '%s', found '%s'", st.Name, mt.Name,
					members[i].Name)
			} else if err := p.matchPlaintext(members[i].Value, mt.Type); err != nil {
				return err
			}
		}
		//
		return nil
	default:
		return fault.TypeMismatchf("expected plaintext of type %s, found record", t)
	}
}
