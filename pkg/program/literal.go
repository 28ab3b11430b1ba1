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
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/go-zkregs/pkg/fault"
)

// LiteralType identifies one of the fixed set of primitive scalar kinds.
type LiteralType uint8

// Available literal types.
const (
	ADDRESS LiteralType = iota
	BOOLEAN
	FIELD
	SCALAR
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	U128
)

var literalTypeNames = map[string]LiteralType{
	"address": ADDRESS, "boolean": BOOLEAN, "field": FIELD, "scalar": SCALAR,
	"i8": I8, "i16": I16, "i32": I32, "i64": I64,
	"u8": U8, "u16": U16, "u32": U32, "u64": U64, "u128": U128,
}

// ParseLiteralType parses the name of a literal type (e.g. "u64").
func ParseLiteralType(s string) (LiteralType, bool) {
	t, ok := literalTypeNames[s]
	return t, ok
}

func (t LiteralType) String() string {
	for n, k := range literalTypeNames {
		if k == t {
			return n
		}
	}
	//
	return fmt.Sprintf("literal(%d)", uint8(t))
}

// IsInteger checks whether this is one of the (signed or unsigned) integer
// types.
func (t LiteralType) IsInteger() bool {
	return t >= I8 && t <= U128
}

// IsSigned checks whether this is a signed integer type.
func (t LiteralType) IsSigned() bool {
	return t >= I8 && t <= I64
}

// BitWidth returns the number of bits required for an integer type, or 0 for
// any other type.
func (t LiteralType) BitWidth() uint {
	switch t {
	case I8, U8:
		return 8
	case I16, U16:
		return 16
	case I32, U32:
		return 32
	case I64, U64:
		return 64
	case U128:
		return 128
	default:
		return 0
	}
}

// Bounds returns the inclusive range of values for an integer type.
func (t LiteralType) Bounds() (lo *big.Int, hi *big.Int) {
	var (
		one = big.NewInt(1)
		n   = t.BitWidth()
	)
	//
	if t.IsSigned() {
		hi = new(big.Int).Lsh(one, n-1)
		lo = new(big.Int).Neg(hi)
		hi.Sub(hi, one)
	} else {
		lo = big.NewInt(0)
		hi = new(big.Int).Lsh(one, n)
		hi.Sub(hi, one)
	}
	//
	return lo, hi
}

// ============================================================================
// Address
// ============================================================================

// Address identifies an account or program.  Addresses are encoded as
// elements of the scalar field.
type Address struct {
	elem fr.Element
}

// AddressFromBytes constructs an address from big-endian bytes, reducing
// modulo the field order as necessary.
func AddressFromBytes(bytes []byte) Address {
	var elem fr.Element
	//
	elem.SetBytes(bytes)
	//
	return Address{elem}
}

// AddressFromElement constructs an address from a given field element.
func AddressFromElement(elem fr.Element) Address {
	return Address{elem}
}

// ParseAddress parses the textual form of an address ("addr1" followed by 64
// hex digits).
func ParseAddress(s string) (Address, error) {
	var hexits, ok = strings.CutPrefix(s, "addr1")
	//
	if !ok || len(hexits) != 2*fr.Bytes {
		return Address{}, fault.Malformedf("invalid address '%s'", s)
	}
	//
	bytes, err := hex.DecodeString(hexits)
	if err != nil {
		return Address{}, fault.Malformedf("invalid address '%s'", s)
	}
	//
	return AddressFromBytes(bytes), nil
}

// Element returns the field element encoding this address.
func (a Address) Element() fr.Element {
	return a.elem
}

// Equal checks whether two addresses are the same.
func (a Address) Equal(b Address) bool {
	return a.elem.Equal(&b.elem)
}

func (a Address) String() string {
	var bytes = a.elem.Bytes()
	//
	return "addr1" + hex.EncodeToString(bytes[:])
}

// ============================================================================
// Literal
// ============================================================================

// Literal is a tagged scalar value.  Regardless of type, the payload is held as
// a field element where signed integers are held in their field-negated form
// (i.e. -1 is r-1).
type Literal struct {
	kind LiteralType
	elem fr.Element
}

// NewLiteral constructs a literal of the given type from an integer value,
// checking it lies within range for that type.
func NewLiteral(kind LiteralType, val *big.Int) (Literal, error) {
	var elem fr.Element
	//
	switch {
	case kind == BOOLEAN:
		if val.Sign() < 0 || val.Cmp(big.NewInt(1)) > 0 {
			return Literal{}, fault.TypeMismatchf("value %s out of range for boolean", val.String())
		}
	case kind.IsInteger():
		lo, hi := kind.Bounds()
		if val.Cmp(lo) < 0 || val.Cmp(hi) > 0 {
			return Literal{}, fault.TypeMismatchf("value %s out of range for %s", val.String(), kind.String())
		}
	}
	// Negative values are negated in the field
	if val.Sign() < 0 {
		var abs fr.Element
		//
		abs.SetBigInt(new(big.Int).Neg(val))
		elem.Neg(&abs)
	} else {
		elem.SetBigInt(val)
	}
	//
	return Literal{kind, elem}, nil
}

// FieldLiteral constructs a literal of type field.
func FieldLiteral(elem fr.Element) Literal {
	return Literal{FIELD, elem}
}

// ElementLiteral constructs a literal of the given type from a raw field
// element, without any range checking.  This is intended for reconstructing
// literals from their circuit representation.
func ElementLiteral(kind LiteralType, elem fr.Element) Literal {
	return Literal{kind, elem}
}

// BoolLiteral constructs a literal of type boolean.
func BoolLiteral(b bool) Literal {
	var elem fr.Element
	//
	if b {
		elem.SetOne()
	}
	//
	return Literal{BOOLEAN, elem}
}

// AddressLiteral constructs a literal of type address.
func AddressLiteral(addr Address) Literal {
	return Literal{ADDRESS, addr.elem}
}

// U64Literal constructs a literal of type u64.
func U64Literal(val uint64) Literal {
	var elem fr.Element
	//
	elem.SetUint64(val)
	//
	return Literal{U64, elem}
}

// IntLiteral constructs a literal of the given integer type, panicking if the
// value is out of range.  This is mostly useful for tests.
func IntLiteral(kind LiteralType, val int64) Literal {
	lit, err := NewLiteral(kind, big.NewInt(val))
	if err != nil {
		panic(err.Error())
	}
	//
	return lit
}

// ParseLiteral parses the textual form of a literal, such as "5u64", "-1i8",
// "true", "3field" or "addr1...".
func ParseLiteral(s string) (Literal, error) {
	switch {
	case s == "true":
		return BoolLiteral(true), nil
	case s == "false":
		return BoolLiteral(false), nil
	case strings.HasPrefix(s, "addr1"):
		addr, err := ParseAddress(s)
		return AddressLiteral(addr), err
	}
	// Split digits from type suffix
	var i = 0
	//
	if i < len(s) && s[i] == '-' {
		i++
	}
	//
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	//
	kind, ok := ParseLiteralType(s[i:])
	if !ok || kind == ADDRESS || kind == BOOLEAN {
		return Literal{}, fault.Malformedf("invalid literal '%s'", s)
	}
	//
	val, ok := new(big.Int).SetString(s[:i], 10)
	if !ok {
		return Literal{}, fault.Malformedf("invalid literal '%s'", s)
	}
	//
	return NewLiteral(kind, val)
}

// MustLiteral parses a literal, panicking if it is malformed.
func MustLiteral(s string) Literal {
	lit, err := ParseLiteral(s)
	if err != nil {
		panic(err.Error())
	}
	//
	return lit
}

// Type returns the literal type of this literal.
func (l Literal) Type() LiteralType {
	return l.kind
}

// Element returns the field element payload of this literal.
func (l Literal) Element() fr.Element {
	return l.elem
}

// Bool returns the value of a boolean literal.
func (l Literal) Bool() bool {
	return !l.elem.IsZero()
}

// Address returns the value of an address literal.
func (l Literal) Address() Address {
	return Address{l.elem}
}

// BigInt returns the integer value of this literal.  For signed integers this
// accounts for field negation.
func (l Literal) BigInt() *big.Int {
	var val big.Int
	//
	l.elem.BigInt(&val)
	//
	if l.kind.IsSigned() {
		_, hi := l.kind.Bounds()
		//
		if val.Cmp(hi) > 0 {
			val.Sub(&val, fr.Modulus())
		}
	}
	//
	return &val
}

// Equal checks whether two literals have the same type and value.
func (l Literal) Equal(o Literal) bool {
	return l.kind == o.kind && l.elem.Equal(&o.elem)
}

func (l Literal) String() string {
	switch l.kind {
	case ADDRESS:
		return l.Address().String()
	case BOOLEAN:
		if l.Bool() {
			return "true"
		}
		//
		return "false"
	default:
		return l.BigInt().String() + l.kind.String()
	}
}
