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
	"strings"

	"github.com/consensys/go-zkregs/pkg/program"
	"github.com/consensys/go-zkregs/pkg/util"
)

// Value is the circuit counterpart of a program value.  Rather than holding
// concrete scalars, circuit values hold variables wired into a constraint
// system.  Type information (literal kinds, member names, visibilities) is kept
// alongside the wiring so that shapes can be checked without touching the
// constraint system.
type Value interface {
	fmt.Stringer
	isValue()
}

// Plaintext is either a Literal or a Struct.
type Plaintext interface {
	Value
	isPlaintext()
}

func (Literal) isValue()     {}
func (Literal) isPlaintext() {}
func (*Struct) isValue()     {}
func (*Struct) isPlaintext() {}
func (*Record) isValue()     {}

// Literal is a tagged scalar wired to a single variable.
type Literal struct {
	kind program.LiteralType
	wire Variable
}

// NewLiteral constructs a literal of the given kind over a given variable.
func NewLiteral(kind program.LiteralType, wire Variable) Literal {
	return Literal{kind, wire}
}

// Type returns the literal type of this literal.
func (l Literal) Type() program.LiteralType {
	return l.kind
}

// Wire returns the variable holding this literal.
func (l Literal) Wire() Variable {
	return l.wire
}

func (l Literal) String() string {
	return fmt.Sprintf("%s@v%d", l.kind, l.wire)
}

// Address is the circuit form of an address.
type Address struct {
	wire Variable
}

// NewAddress constructs an address over a given variable.
func NewAddress(wire Variable) Address {
	return Address{wire}
}

// Wire returns the variable holding this address.
func (a Address) Wire() Variable {
	return a.wire
}

// ToLiteral converts this address into an address literal.
func (a Address) ToLiteral() Literal {
	return Literal{program.ADDRESS, a.wire}
}

// Field is the circuit form of a field element.
type Field struct {
	wire Variable
}

// NewField constructs a field element over a given variable.
func NewField(wire Variable) Field {
	return Field{wire}
}

// Wire returns the variable holding this field element.
func (f Field) Wire() Variable {
	return f.wire
}

// ToLiteral converts this field element into a field literal.
func (f Field) ToLiteral() Literal {
	return Literal{program.FIELD, f.wire}
}

// Member is a named component of a circuit struct.
type Member struct {
	Name  program.Identifier
	Value Plaintext
}

// Struct is an ordered sequence of named plaintext members.
type Struct struct {
	members []Member
}

// NewStruct constructs a circuit struct from its members.
func NewStruct(members ...Member) *Struct {
	return &Struct{members}
}

// Members returns the members of this struct in declaration order.
func (s *Struct) Members() []Member {
	return s.members
}

// Member returns the value of a given member (if it exists).
func (s *Struct) Member(name program.Identifier) (Plaintext, bool) {
	for _, m := range s.members {
		if m.Name == name {
			return m.Value, true
		}
	}
	//
	return nil, false
}

func (s *Struct) String() string {
	var parts = make([]string, len(s.members))
	//
	for i, m := range s.members {
		parts[i] = fmt.Sprintf("%s: %s", m.Name, m.Value)
	}
	//
	return "{ " + strings.Join(parts, ", ") + " }"
}

// Entry is a named component of a circuit record, along with its visibility.
type Entry struct {
	Name       program.Identifier
	Visibility program.Visibility
	Value      Plaintext
}

// Record is the circuit form of a record.
type Record struct {
	owner           Address
	ownerVisibility program.Visibility
	entries         []Entry
	origin          util.Option[program.Locator]
}

// NewRecord constructs a circuit record from its owner and entries.
func NewRecord(owner Address, visibility program.Visibility, entries ...Entry) *Record {
	return &Record{owner, visibility, entries, util.None[program.Locator]()}
}

// WithOrigin returns a copy of this record which records the locator of the
// record type from which it originated.
func (r *Record) WithOrigin(loc program.Locator) *Record {
	var rec = *r
	//
	rec.origin = util.Some(loc)
	//
	return &rec
}

// Origin returns the locator of the originating record type (if known).
func (r *Record) Origin() util.Option[program.Locator] {
	return r.origin
}

// Owner returns the owner of this record.
func (r *Record) Owner() Address {
	return r.owner
}

// OwnerVisibility returns the visibility of the owner.
func (r *Record) OwnerVisibility() program.Visibility {
	return r.ownerVisibility
}

// Entries returns the entries of this record.
func (r *Record) Entries() []Entry {
	return r.entries
}

// Entry returns the entry with the given name (if it exists).
func (r *Record) Entry(name program.Identifier) (Entry, bool) {
	for _, e := range r.entries {
		if e.Name == name {
			return e, true
		}
	}
	//
	return Entry{}, false
}

func (r *Record) String() string {
	var builder strings.Builder
	//
	builder.WriteString(fmt.Sprintf("{ owner: address@v%d.%s", r.owner.wire, r.ownerVisibility))
	//
	for _, e := range r.entries {
		builder.WriteString(fmt.Sprintf(", %s: %s.%s", e.Name, e.Value, e.Visibility))
	}
	//
	builder.WriteString(" }")
	//
	return builder.String()
}
