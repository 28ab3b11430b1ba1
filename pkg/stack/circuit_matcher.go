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
	"github.com/consensys/go-zkregs/pkg/circuit"
	"github.com/consensys/go-zkregs/pkg/program"
	"github.com/consensys/go-zkregs/pkg/util"
)

// MatchCircuitValueType checks that a circuit value matches the layout of a
// value type.  Only the type information carried by circuit values is
// inspected, hence matching never reads witnesses or allocates variables.
func (p *Stack) MatchCircuitValueType(value circuit.Value, t program.ValueType) error {
	return p.matchRegisterType(CircuitLayout(value), t.ToRegisterType())
}

// MatchCircuitRegisterType checks that a circuit value matches the layout of a
// register type.
func (p *Stack) MatchCircuitRegisterType(value circuit.Value, t program.RegisterType) error {
	return p.matchRegisterType(CircuitLayout(value), t)
}

// MatchCircuitPlaintext checks that a circuit plaintext matches the layout of a
// plaintext type.
func (p *Stack) MatchCircuitPlaintext(pt circuit.Plaintext, t program.PlaintextType) error {
	return p.matchPlaintext(CircuitLayout(pt), t)
}

// CircuitLayout returns the layout of a circuit value.
func CircuitLayout(value circuit.Value) Layout {
	return circuitLayout{value}
}

type circuitLayout struct {
	value circuit.Value
}

func (p circuitLayout) Kind() LayoutKind {
	switch p.value.(type) {
	case circuit.Literal:
		return LITERAL_LAYOUT
	case *circuit.Struct:
		return STRUCT_LAYOUT
	default:
		return RECORD_LAYOUT
	}
}

func (p circuitLayout) Literal() program.LiteralType {
	return p.value.(circuit.Literal).Type()
}

func (p circuitLayout) Fields() []Field {
	var fields []Field
	//
	switch v := p.value.(type) {
	case *circuit.Struct:
		for _, m := range v.Members() {
			fields = append(fields, Field{Name: m.Name, Value: circuitLayout{m.Value}})
		}
	case *circuit.Record:
		for _, e := range v.Entries() {
			fields = append(fields, Field{e.Name, e.Visibility, circuitLayout{e.Value}})
		}
	}
	//
	return fields
}

func (p circuitLayout) Owner() program.Visibility {
	return p.value.(*circuit.Record).OwnerVisibility()
}

func (p circuitLayout) Origin() util.Option[program.Locator] {
	return p.value.(*circuit.Record).Origin()
}
