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

	"github.com/consensys/go-zkregs/pkg/fault"
)

// Visibility determines whether a value is visible to observers of a
// transition.
type Visibility uint8

// Available visibilities.
const (
	CONSTANT Visibility = iota
	PUBLIC
	PRIVATE
)

// ParseVisibility parses a visibility modifier.
func ParseVisibility(s string) (Visibility, bool) {
	switch s {
	case "constant":
		return CONSTANT, true
	case "public":
		return PUBLIC, true
	case "private":
		return PRIVATE, true
	default:
		return 0, false
	}
}

func (v Visibility) String() string {
	switch v {
	case CONSTANT:
		return "constant"
	case PUBLIC:
		return "public"
	case PRIVATE:
		return "private"
	default:
		return fmt.Sprintf("visibility(%d)", uint8(v))
	}
}

// ============================================================================
// Plaintext Type
// ============================================================================

// PlaintextType describes the shape of a plaintext value, being either a
// literal type or a (named) struct type.
type PlaintextType struct {
	literal LiteralType
	name    Identifier
}

// LiteralPlaintextType constructs a plaintext type for a given literal type.
func LiteralPlaintextType(t LiteralType) PlaintextType {
	return PlaintextType{t, ""}
}

// StructPlaintextType constructs a plaintext type for a named struct.
func StructPlaintextType(name Identifier) PlaintextType {
	return PlaintextType{0, name}
}

// ParsePlaintextType parses either a literal type name or a struct name.
func ParsePlaintextType(s string) (PlaintextType, error) {
	if t, ok := ParseLiteralType(s); ok {
		return LiteralPlaintextType(t), nil
	}
	//
	name, err := ParseIdentifier(s)
	if err != nil {
		return PlaintextType{}, err
	}
	//
	return StructPlaintextType(name), nil
}

// IsStruct checks whether this is a struct type.
func (p PlaintextType) IsStruct() bool {
	return p.name != ""
}

// Literal returns the literal type, assuming this is not a struct type.
func (p PlaintextType) Literal() LiteralType {
	return p.literal
}

// StructName returns the struct name, assuming this is a struct type.
func (p PlaintextType) StructName() Identifier {
	return p.name
}

func (p PlaintextType) String() string {
	if p.IsStruct() {
		return p.name.String()
	}
	//
	return p.literal.String()
}

// ============================================================================
// Value Type
// ============================================================================

// ValueKind distinguishes the variants of a value type.
type ValueKind uint8

// Value type variants.
const (
	CONSTANT_VALUE ValueKind = iota
	PUBLIC_VALUE
	PRIVATE_VALUE
	RECORD_VALUE
	EXTERNAL_RECORD_VALUE
)

// ValueType describes the declared type of a function input or output.  This is
// either a plaintext type with a given visibility, a record type of the
// current program or a record type of an external program.
type ValueType struct {
	kind      ValueKind
	plaintext PlaintextType
	record    Identifier
	locator   Locator
}

// PlaintextValueType constructs a value type for a plaintext of given
// visibility.
func PlaintextValueType(vis Visibility, t PlaintextType) ValueType {
	return ValueType{kind: ValueKind(vis), plaintext: t}
}

// RecordValueType constructs a value type for a record of the current program.
func RecordValueType(name Identifier) ValueType {
	return ValueType{kind: RECORD_VALUE, record: name}
}

// ExternalRecordValueType constructs a value type for a record of an external
// program.
func ExternalRecordValueType(loc Locator) ValueType {
	return ValueType{kind: EXTERNAL_RECORD_VALUE, locator: loc}
}

// ParseValueType parses a value type such as "u64.private", "token.record" or
// "credits.aleo/credits.record".
func ParseValueType(s string) (ValueType, error) {
	var idx = strings.LastIndexByte(s, '.')
	//
	if idx < 0 {
		return ValueType{}, fault.Malformedf("value type '%s' is missing visibility", s)
	}
	//
	prefix, suffix := s[:idx], s[idx+1:]
	//
	if suffix == "record" {
		return parseRecordValueType(prefix)
	} else if vis, ok := ParseVisibility(suffix); !ok {
		return ValueType{}, fault.Malformedf("value type '%s' has unknown visibility '%s'", s, suffix)
	} else if pt, err := ParsePlaintextType(prefix); err != nil {
		return ValueType{}, err
	} else {
		return PlaintextValueType(vis, pt), nil
	}
}

func parseRecordValueType(s string) (ValueType, error) {
	if strings.ContainsRune(s, '/') {
		loc, err := ParseLocator(s)
		return ExternalRecordValueType(loc), err
	}
	//
	name, err := ParseIdentifier(s)
	//
	return RecordValueType(name), err
}

// Kind returns the variant of this value type.
func (v ValueType) Kind() ValueKind {
	return v.kind
}

// IsPlaintext checks whether this is a (constant, public or private)
// plaintext value type.
func (v ValueType) IsPlaintext() bool {
	return v.kind <= PRIVATE_VALUE
}

// Visibility returns the visibility of a plaintext value type.
func (v ValueType) Visibility() Visibility {
	return Visibility(v.kind)
}

// Plaintext returns the plaintext type, assuming this is a plaintext value
// type.
func (v ValueType) Plaintext() PlaintextType {
	return v.plaintext
}

// Record returns the record name, assuming this is a record value type.
func (v ValueType) Record() Identifier {
	return v.record
}

// Locator returns the record locator, assuming this is an external record value
// type.
func (v ValueType) Locator() Locator {
	return v.locator
}

// ToRegisterType strips visibility information to obtain the type of the
// register holding a value of this type.
func (v ValueType) ToRegisterType() RegisterType {
	switch v.kind {
	case RECORD_VALUE:
		return RecordRegisterType(v.record)
	case EXTERNAL_RECORD_VALUE:
		return ExternalRecordRegisterType(v.locator)
	default:
		return PlaintextRegisterType(v.plaintext)
	}
}

func (v ValueType) String() string {
	switch v.kind {
	case RECORD_VALUE:
		return v.record.String() + ".record"
	case EXTERNAL_RECORD_VALUE:
		return v.locator.String() + ".record"
	default:
		return v.plaintext.String() + "." + v.Visibility().String()
	}
}

// ============================================================================
// Register Type
// ============================================================================

// RegisterKind distinguishes the variants of a register type.
type RegisterKind uint8

// Register type variants.
const (
	PLAINTEXT_REGISTER RegisterKind = iota
	RECORD_REGISTER
	EXTERNAL_RECORD_REGISTER
)

// RegisterType describes the declared type of a register.  This is either a
// plaintext type, a record type of the current program or an (opaque) record
// type of an external program.  The latter is used for the results of calls to
// external functions.
type RegisterType struct {
	kind      RegisterKind
	plaintext PlaintextType
	record    Identifier
	locator   Locator
}

// PlaintextRegisterType constructs a register type for a plaintext.
func PlaintextRegisterType(t PlaintextType) RegisterType {
	return RegisterType{kind: PLAINTEXT_REGISTER, plaintext: t}
}

// RecordRegisterType constructs a register type for a record of the current
// program.
func RecordRegisterType(name Identifier) RegisterType {
	return RegisterType{kind: RECORD_REGISTER, record: name}
}

// ExternalRecordRegisterType constructs a register type for a record of an
// external program.
func ExternalRecordRegisterType(loc Locator) RegisterType {
	return RegisterType{kind: EXTERNAL_RECORD_REGISTER, locator: loc}
}

// ParseRegisterType parses a register type such as "u64", "point",
// "token.record" or "credits.aleo/credits.record".
func ParseRegisterType(s string) (RegisterType, error) {
	if prefix, ok := strings.CutSuffix(s, ".record"); ok {
		vt, err := parseRecordValueType(prefix)
		return vt.ToRegisterType(), err
	}
	//
	pt, err := ParsePlaintextType(s)
	//
	return PlaintextRegisterType(pt), err
}

// Kind returns the variant of this register type.
func (r RegisterType) Kind() RegisterKind {
	return r.kind
}

// Plaintext returns the plaintext type, assuming this is a plaintext register
// type.
func (r RegisterType) Plaintext() PlaintextType {
	return r.plaintext
}

// Record returns the record name, assuming this is a record register type.
func (r RegisterType) Record() Identifier {
	return r.record
}

// Locator returns the record locator, assuming this is an external record
// register type.
func (r RegisterType) Locator() Locator {
	return r.locator
}

func (r RegisterType) String() string {
	switch r.kind {
	case RECORD_REGISTER:
		return r.record.String() + ".record"
	case EXTERNAL_RECORD_REGISTER:
		return r.locator.String() + ".record"
	default:
		return r.plaintext.String()
	}
}

// ============================================================================
// Struct & Record Types
// ============================================================================

// MemberType describes a named member of a struct.
type MemberType struct {
	Name Identifier
	Type PlaintextType
}

// StructType describes a struct declared in a program.  The order of members is
// significant.
type StructType struct {
	Name    Identifier
	Members []MemberType
}

// Member returns the type of the given member (if it exists).
func (s *StructType) Member(name Identifier) (PlaintextType, bool) {
	for _, m := range s.Members {
		if m.Name == name {
			return m.Type, true
		}
	}
	//
	return PlaintextType{}, false
}

// EntryType describes a named entry of a record, along with its visibility.
type EntryType struct {
	Name       Identifier
	Visibility Visibility
	Type       PlaintextType
}

// OwnerMember is the name of the implicit owner member of every record.
const OwnerMember Identifier = "owner"

// RecordType describes a record declared in a program.  Every record has an
// owner, whose visibility is part of the declaration, followed by zero or more
// entries.  The order of entries is significant.
type RecordType struct {
	Name            Identifier
	OwnerVisibility Visibility
	Entries         []EntryType
}

// Entry returns the declared entry with the given name (if it exists).
func (r *RecordType) Entry(name Identifier) (EntryType, bool) {
	for _, e := range r.Entries {
		if e.Name == name {
			return e, true
		}
	}
	//
	return EntryType{}, false
}
