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
	"fmt"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/go-zkregs/pkg/fault"
	"github.com/consensys/go-zkregs/pkg/util"
	"golang.org/x/crypto/sha3"
)

// Value is either a Plaintext or a Record.
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

// ============================================================================
// Struct
// ============================================================================

// Member is a named component of a struct.
type Member struct {
	Name  Identifier
	Value Plaintext
}

// Struct is an ordered sequence of named plaintext members.
type Struct struct {
	members []Member
}

// NewStruct constructs a struct from the given members, which must have
// distinct names.
func NewStruct(members ...Member) (*Struct, error) {
	for i, m := range members {
		if m.Value == nil {
			return nil, fault.Malformedf("member '%s' has no value", m.Name)
		}
		//
		for _, n := range members[:i] {
			if n.Name == m.Name {
				return nil, fault.Malformedf("duplicate member '%s'", m.Name)
			}
		}
	}
	//
	return &Struct{members}, nil
}

// Members returns the members of this struct in declaration order.
func (s *Struct) Members() []Member {
	return s.members
}

// Member returns the value of a given member (if it exists).
func (s *Struct) Member(name Identifier) (Plaintext, bool) {
	for _, m := range s.members {
		if m.Name == name {
			return m.Value, true
		}
	}
	//
	return nil, false
}

func (s *Struct) String() string {
	var builder strings.Builder
	//
	builder.WriteString("{ ")
	//
	for i, m := range s.members {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(fmt.Sprintf("%s: %s", m.Name, m.Value.String()))
	}
	//
	builder.WriteString(" }")
	//
	return builder.String()
}

// ============================================================================
// Record
// ============================================================================

// Entry is a named component of a record along with its visibility.
type Entry struct {
	Name       Identifier
	Visibility Visibility
	Value      Plaintext
}

// Record is a value with an owner and zero or more entries, each of which
// carries a visibility.  A record may also know the locator of the record type
// from which it originated.
type Record struct {
	owner           Address
	ownerVisibility Visibility
	entries         []Entry
	origin          util.Option[Locator]
}

// NewRecord constructs a record with the given owner and entries, where entries
// must have distinct names.
func NewRecord(owner Address, visibility Visibility, entries ...Entry) (*Record, error) {
	for i, e := range entries {
		if e.Value == nil {
			return nil, fault.Malformedf("entry '%s' has no value", e.Name)
		} else if e.Name == OwnerMember {
			return nil, fault.Malformedf("entry cannot be named '%s'", OwnerMember)
		} else if e.Visibility == CONSTANT {
			return nil, fault.Malformedf("entry '%s' cannot be constant", e.Name)
		}
		//
		for _, f := range entries[:i] {
			if f.Name == e.Name {
				return nil, fault.Malformedf("duplicate entry '%s'", e.Name)
			}
		}
	}
	//
	return &Record{owner, visibility, entries, util.None[Locator]()}, nil
}

// WithOrigin returns a copy of this record which records the locator of the
// record type from which it originated.
func (r *Record) WithOrigin(loc Locator) *Record {
	var rec = *r
	//
	rec.origin = util.Some(loc)
	//
	return &rec
}

// Origin returns the locator of the record type from which this record
// originated (if known).
func (r *Record) Origin() util.Option[Locator] {
	return r.origin
}

// Owner returns the owner of this record.
func (r *Record) Owner() Address {
	return r.owner
}

// OwnerVisibility returns the visibility of the owner.
func (r *Record) OwnerVisibility() Visibility {
	return r.ownerVisibility
}

// Entries returns the entries of this record in declaration order.
func (r *Record) Entries() []Entry {
	return r.entries
}

// Entry returns the entry with the given name (if it exists).
func (r *Record) Entry(name Identifier) (Entry, bool) {
	for _, e := range r.entries {
		if e.Name == name {
			return e, true
		}
	}
	//
	return Entry{}, false
}

// Find the plaintext at the given (non-empty) member path.  The first
// component names either the owner or an entry; any remaining components
// project into struct members.
func (r *Record) Find(path []Identifier) (Plaintext, error) {
	if len(path) == 0 {
		return nil, fault.Malformedf("empty member path")
	} else if path[0] == OwnerMember {
		if len(path) > 1 {
			return nil, fault.TypeMismatchf("record owner is not a struct")
		}
		//
		return AddressLiteral(r.owner), nil
	}
	//
	entry, ok := r.Entry(path[0])
	if !ok {
		return nil, fault.NotFoundf("record has no entry '%s'", path[0])
	}
	//
	return findPlaintext(entry.Value, path[1:])
}

// Commitment computes a binding commitment to this record for the given program
// and record name.
func (r *Record) Commitment(loc Locator) fr.Element {
	var (
		hash = sha3.New256()
		elem fr.Element
	)
	//
	hash.Write([]byte(loc.String()))
	hash.Write([]byte(r.String()))
	elem.SetBytes(hash.Sum(nil))
	//
	return elem
}

func (r *Record) String() string {
	var builder strings.Builder
	//
	builder.WriteString(fmt.Sprintf("{ owner: %s.%s", r.owner, r.ownerVisibility))
	//
	for _, e := range r.entries {
		builder.WriteString(fmt.Sprintf(", %s: %s.%s", e.Name, e.Value.String(), e.Visibility))
	}
	//
	builder.WriteString(" }")
	//
	return builder.String()
}

// ============================================================================
// Projection & Equality
// ============================================================================

// Project the value at a given member path within a value.  An empty path
// returns the value itself.  Projecting into a literal fails with a type
// mismatch, whilst projecting a missing member fails with not found.
func Project(value Value, path []Identifier) (Value, error) {
	if len(path) == 0 {
		return value, nil
	}
	//
	switch v := value.(type) {
	case *Record:
		return v.Find(path)
	case Plaintext:
		return findPlaintext(v, path)
	default:
		return nil, fault.TypeMismatchf("unknown value %s", value)
	}
}

func findPlaintext(p Plaintext, path []Identifier) (Plaintext, error) {
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

// Equal determines whether two values are structurally identical.  Record
// origins are not considered.
func Equal(lhs Value, rhs Value) bool {
	switch l := lhs.(type) {
	case Literal:
		r, ok := rhs.(Literal)
		return ok && l.Equal(r)
	case *Struct:
		r, ok := rhs.(*Struct)
		//
		if !ok || len(l.members) != len(r.members) {
			return false
		}
		//
		for i, m := range l.members {
			if m.Name != r.members[i].Name || !Equal(m.Value, r.members[i].Value) {
				return false
			}
		}
		//
		return true
	case *Record:
		r, ok := rhs.(*Record)
		//
		if !ok || !l.owner.Equal(r.owner) || l.ownerVisibility != r.ownerVisibility ||
			len(l.entries) != len(r.entries) {
			return false
		}
		//
		for i, e := range l.entries {
			f := r.entries[i]
			if e.Name != f.Name || e.Visibility != f.Visibility || !Equal(e.Value, f.Value) {
				return false
			}
		}
		//
		return true
	default:
		return false
	}
}
