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
	"github.com/consensys/go-zkregs/pkg/program"
	"github.com/consensys/go-zkregs/pkg/util"
)

// MatchValueType checks that a given value matches the layout of a value type.
func (p *Stack) MatchValueType(value program.Value, t program.ValueType) error {
	return p.matchRegisterType(PlainLayout(value), t.ToRegisterType())
}

// MatchRegisterType checks that a given value matches the layout of a register
// type.
func (p *Stack) MatchRegisterType(value program.Value, t program.RegisterType) error {
	return p.matchRegisterType(PlainLayout(value), t)
}

// MatchExternalRecord checks that a given record matches the layout of a record
// declared in an imported program.
func (p *Stack) MatchExternalRecord(rec *program.Record, loc program.Locator) error {
	return p.matchExternalRecord(PlainLayout(rec), loc)
}

// MatchRecord checks that a given record matches the layout of a record
// declared in this program.
func (p *Stack) MatchRecord(rec *program.Record, name program.Identifier) error {
	return p.matchRecord(PlainLayout(rec), name)
}

// MatchPlaintext checks that a given plaintext matches the layout of a
// plaintext type.
func (p *Stack) MatchPlaintext(pt program.Plaintext, t program.PlaintextType) error {
	return p.matchPlaintext(PlainLayout(pt), t)
}

// PlainLayout returns the layout of a plain value.
func PlainLayout(value program.Value) Layout {
	return plainLayout{value}
}

type plainLayout struct {
	value program.Value
}

func (p plainLayout) Kind() LayoutKind {
	switch p.value.(type) {
	case program.Literal:
		return LITERAL_LAYOUT
	case *program.Struct:
		return STRUCT_LAYOUT
	default:
		return RECORD_LAYOUT
	}
}

func (p plainLayout) Literal() program.LiteralType {
	return p.value.(program.Literal).Type()
}

func (p plainLayout) Fields() []Field {
	var fields []Field
	//
	switch v := p.value.(type) {
	case *program.Struct:
		for _, m := range v.Members() {
			fields = append(fields, Field{Name: m.Name, Value: plainLayout{m.Value}})
		}
	case *program.Record:
		for _, e := range v.Entries() {
			fields = append(fields, Field{e.Name, e.Visibility, plainLayout{e.Value}})
		}
	}
	//
	return fields
}

func (p plainLayout) Owner() program.Visibility {
	return p.value.(*program.Record).OwnerVisibility()
}

func (p plainLayout) Origin() util.Option[program.Locator] {
	return p.value.(*program.Record).Origin()
}
