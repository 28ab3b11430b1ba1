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
	"slices"

	"github.com/consensys/go-zkregs/pkg/fault"
)

// Program is a named collection of struct, record, closure and function
// declarations, along with the set of programs it imports.  All declared
// names share a single namespace.
type Program struct {
	id        ProgramID
	imports   []ProgramID
	structs   []StructType
	records   []RecordType
	closures  []Closure
	functions []Function
}

// New constructs an empty program with the given identifier.
func New(id ProgramID) *Program {
	return &Program{id: id}
}

// ID returns the identifier of this program.
func (p *Program) ID() ProgramID {
	return p.id
}

// Imports returns the programs imported by this program.
func (p *Program) Imports() []ProgramID {
	return p.imports
}

// Structs returns the structs declared in this program.
func (p *Program) Structs() []StructType {
	return p.structs
}

// Records returns the records declared in this program.
func (p *Program) Records() []RecordType {
	return p.records
}

// Closures returns the closures declared in this program.
func (p *Program) Closures() []Closure {
	return p.closures
}

// Functions returns the functions declared in this program.
func (p *Program) Functions() []Function {
	return p.functions
}

// AddImport records that this program imports another.
func (p *Program) AddImport(pid ProgramID) error {
	if pid == p.id {
		return fault.Malformedf("program %s cannot import itself", pid)
	} else if slices.Contains(p.imports, pid) {
		return fault.Malformedf("duplicate import %s", pid)
	}
	//
	p.imports = append(p.imports, pid)
	//
	return nil
}

// AddStruct declares a struct in this program.
func (p *Program) AddStruct(s StructType) error {
	if err := p.checkFresh(s.Name); err != nil {
		return err
	}
	//
	for i, m := range s.Members {
		for _, n := range s.Members[:i] {
			if m.Name == n.Name {
				return fault.Malformedf("duplicate member '%s' in struct %s", m.Name, s.Name)
			}
		}
	}
	//
	p.structs = append(p.structs, s)
	//
	return nil
}

// AddRecord declares a record in this program.
func (p *Program) AddRecord(r RecordType) error {
	if err := p.checkFresh(r.Name); err != nil {
		return err
	} else if r.OwnerVisibility == CONSTANT {
		return fault.Malformedf("record %s cannot have a constant owner", r.Name)
	}
	//
	for i, e := range r.Entries {
		if e.Name == OwnerMember {
			return fault.Malformedf("record %s cannot declare entry '%s'", r.Name, OwnerMember)
		} else if e.Visibility == CONSTANT {
			return fault.Malformedf("record %s cannot have constant members", r.Name)
		}
		//
		for _, f := range r.Entries[:i] {
			if e.Name == f.Name {
				return fault.Malformedf("duplicate entry '%s' in record %s", e.Name, r.Name)
			}
		}
	}
	//
	p.records = append(p.records, r)
	//
	return nil
}

// AddClosure declares a closure in this program.
func (p *Program) AddClosure(c Closure) error {
	if err := p.checkFresh(c.Name); err != nil {
		return err
	}
	//
	p.closures = append(p.closures, c)
	//
	return nil
}

// AddFunction declares a function in this program.
func (p *Program) AddFunction(f Function) error {
	if err := p.checkFresh(f.Name); err != nil {
		return err
	}
	//
	p.functions = append(p.functions, f)
	//
	return nil
}

// Struct returns the struct with the given name (if it exists).
func (p *Program) Struct(name Identifier) (*StructType, bool) {
	return find(p.structs, func(s *StructType) bool { return s.Name == name })
}

// Record returns the record with the given name (if it exists).
func (p *Program) Record(name Identifier) (*RecordType, bool) {
	return find(p.records, func(r *RecordType) bool { return r.Name == name })
}

// Closure returns the closure with the given name (if it exists).
func (p *Program) Closure(name Identifier) (*Closure, bool) {
	return find(p.closures, func(c *Closure) bool { return c.Name == name })
}

// Function returns the function with the given name (if it exists).
func (p *Program) Function(name Identifier) (*Function, bool) {
	return find(p.functions, func(f *Function) bool { return f.Name == name })
}

// Contains checks whether a declaration with the given name exists.
func (p *Program) Contains(name Identifier) bool {
	var (
		_, s = p.Struct(name)
		_, r = p.Record(name)
		_, c = p.Closure(name)
		_, f = p.Function(name)
	)
	//
	return s || r || c || f
}

func (p *Program) checkFresh(name Identifier) error {
	if name == "" {
		return fault.Malformedf("declaration is missing a name")
	} else if p.Contains(name) {
		return fault.Malformedf("duplicate declaration '%s' in program %s", name, p.id)
	}
	//
	return nil
}

func find[T any](items []T, pred func(*T) bool) (*T, bool) {
	for i := range items {
		if pred(&items[i]) {
			return &items[i], true
		}
	}
	//
	return nil, false
}
