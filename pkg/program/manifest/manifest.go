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
package manifest

import (
	"os"
	"strings"

	"github.com/consensys/go-zkregs/pkg/fault"
	"github.com/consensys/go-zkregs/pkg/program"
	"github.com/consensys/go-zkregs/pkg/util"
	"gopkg.in/yaml.v3"
)

// Manifest is the YAML description of a program.  Declarations are given as
// lists (rather than maps) since their order is significant.  Individual
// members, registers and instructions use their textual forms, for example:
//
//	program: token.aleo
//	structs:
//	  - name: point
//	    members: ["x as u64", "y as u64"]
//	functions:
//	  - name: move
//	    inputs: ["r0 as point.private", "r1 as u64.public"]
//	    instructions: ["add r0.x r1 into r2", "cast r2 r0.y into r3 as point"]
//	    outputs: ["r3 as point.private"]
type Manifest struct {
	Program   string     `yaml:"program"`
	Imports   []string   `yaml:"imports"`
	Structs   []Struct   `yaml:"structs"`
	Records   []Record   `yaml:"records"`
	Closures  []Closure  `yaml:"closures"`
	Functions []Function `yaml:"functions"`
}

// Struct declares a struct as a list of "name as type" members.
type Struct struct {
	Name    string   `yaml:"name"`
	Members []string `yaml:"members"`
}

// Record declares a record as the visibility of its owner, and a list of "name
// as type.visibility" entries.
type Record struct {
	Name    string   `yaml:"name"`
	Owner   string   `yaml:"owner"`
	Entries []string `yaml:"entries"`
}

// Closure declares a closure, whose inputs and outputs are of the form
// "register as type".
type Closure struct {
	Name         string   `yaml:"name"`
	Inputs       []string `yaml:"inputs"`
	Instructions []string `yaml:"instructions"`
	Outputs      []string `yaml:"outputs"`
}

// Function declares a function, whose inputs and outputs are of the form
// "register as type.visibility" or "register as name.record".
type Function struct {
	Name         string    `yaml:"name"`
	Inputs       []string  `yaml:"inputs"`
	Instructions []string  `yaml:"instructions"`
	Outputs      []string  `yaml:"outputs"`
	Finalize     *Finalize `yaml:"finalize"`
}

// Finalize declares the finalize block of a function.
type Finalize struct {
	Name     string   `yaml:"name"`
	Inputs   []string `yaml:"inputs"`
	Commands []string `yaml:"commands"`
}

// Read a manifest from a given file.
func Read(filename string) (*Manifest, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	//
	m, err := Parse(bytes)
	if err != nil {
		return nil, fault.Wrap(fault.Malformed, err, "manifest %s", filename)
	}
	//
	return m, nil
}

// Parse a manifest from its YAML form.
func Parse(bytes []byte) (*Manifest, error) {
	var m Manifest
	//
	if err := yaml.Unmarshal(bytes, &m); err != nil {
		return nil, err
	}
	//
	return &m, nil
}

// Load reads a manifest from a given file and builds the program it describes.
func Load(filename string) (*program.Program, error) {
	m, err := Read(filename)
	if err != nil {
		return nil, err
	}
	//
	prog, err := m.Build()
	if err != nil {
		return nil, fault.Wrap(fault.Malformed, err, "manifest %s", filename)
	}
	//
	return prog, nil
}

// Build the program described by this manifest.
func (m *Manifest) Build() (*program.Program, error) {
	pid, err := program.ParseProgramID(m.Program)
	if err != nil {
		return nil, err
	}
	//
	var prog = program.New(pid)
	//
	for _, s := range m.Imports {
		if imp, err := program.ParseProgramID(s); err != nil {
			return nil, err
		} else if err := prog.AddImport(imp); err != nil {
			return nil, err
		}
	}
	//
	for _, s := range m.Structs {
		if decl, err := s.build(); err != nil {
			return nil, err
		} else if err := prog.AddStruct(decl); err != nil {
			return nil, err
		}
	}
	//
	for _, r := range m.Records {
		if decl, err := r.build(); err != nil {
			return nil, err
		} else if err := prog.AddRecord(decl); err != nil {
			return nil, err
		}
	}
	//
	for _, c := range m.Closures {
		if decl, err := c.build(); err != nil {
			return nil, err
		} else if err := prog.AddClosure(decl); err != nil {
			return nil, err
		}
	}
	//
	for _, f := range m.Functions {
		if decl, err := f.build(); err != nil {
			return nil, err
		} else if err := prog.AddFunction(decl); err != nil {
			return nil, err
		}
	}
	//
	return prog, nil
}

func (s *Struct) build() (program.StructType, error) {
	var decl = program.StructType{Members: make([]program.MemberType, len(s.Members))}
	//
	name, err := program.ParseIdentifier(s.Name)
	if err != nil {
		return decl, err
	}
	//
	decl.Name = name
	//
	for i, m := range s.Members {
		lhs, rhs, err := splitAs(m)
		if err != nil {
			return decl, err
		}
		//
		if decl.Members[i].Name, err = program.ParseIdentifier(lhs); err != nil {
			return decl, err
		} else if decl.Members[i].Type, err = program.ParsePlaintextType(rhs); err != nil {
			return decl, err
		}
	}
	//
	return decl, nil
}

func (r *Record) build() (program.RecordType, error) {
	var (
		decl = program.RecordType{Entries: make([]program.EntryType, len(r.Entries))}
		ok   bool
		err  error
	)
	//
	if decl.Name, err = program.ParseIdentifier(r.Name); err != nil {
		return decl, err
	} else if decl.OwnerVisibility, ok = program.ParseVisibility(r.Owner); !ok {
		return decl, fault.Malformedf("record %s has unknown owner visibility '%s'", r.Name, r.Owner)
	}
	//
	for i, e := range r.Entries {
		lhs, rhs, err := splitAs(e)
		if err != nil {
			return decl, err
		}
		//
		vt, err := program.ParseValueType(rhs)
		if err != nil {
			return decl, err
		} else if !vt.IsPlaintext() {
			return decl, fault.Malformedf("record %s entry '%s' must be a plaintext", r.Name, lhs)
		} else if decl.Entries[i].Name, err = program.ParseIdentifier(lhs); err != nil {
			return decl, err
		}
		//
		decl.Entries[i].Visibility = vt.Visibility()
		decl.Entries[i].Type = vt.Plaintext()
	}
	//
	return decl, nil
}

func (c *Closure) build() (program.Closure, error) {
	var (
		decl = program.Closure{
			Inputs:  make([]program.ClosureInput, len(c.Inputs)),
			Outputs: make([]program.ClosureOutput, len(c.Outputs)),
		}
		err error
	)
	//
	if decl.Name, err = program.ParseIdentifier(c.Name); err != nil {
		return decl, err
	}
	//
	for i, s := range c.Inputs {
		lhs, rhs, err := splitAs(s)
		if err != nil {
			return decl, err
		} else if decl.Inputs[i].Register, err = program.ParseRegister(lhs); err != nil {
			return decl, err
		} else if decl.Inputs[i].Type, err = program.ParseRegisterType(rhs); err != nil {
			return decl, err
		}
	}
	//
	if decl.Instructions, err = buildInstructions(c.Instructions); err != nil {
		return decl, err
	}
	//
	for i, s := range c.Outputs {
		lhs, rhs, err := splitAs(s)
		if err != nil {
			return decl, err
		} else if decl.Outputs[i].Operand, err = program.ParseOperand(lhs); err != nil {
			return decl, err
		} else if decl.Outputs[i].Type, err = program.ParseRegisterType(rhs); err != nil {
			return decl, err
		}
	}
	//
	return decl, nil
}

func (f *Function) build() (program.Function, error) {
	var (
		decl = program.Function{
			Inputs:   make([]program.Input, len(f.Inputs)),
			Outputs:  make([]program.Output, len(f.Outputs)),
			Finalize: util.None[program.Finalize](),
		}
		err error
	)
	//
	if decl.Name, err = program.ParseIdentifier(f.Name); err != nil {
		return decl, err
	}
	//
	for i, s := range f.Inputs {
		lhs, rhs, err := splitAs(s)
		if err != nil {
			return decl, err
		} else if decl.Inputs[i].Register, err = program.ParseRegister(lhs); err != nil {
			return decl, err
		} else if decl.Inputs[i].Type, err = program.ParseValueType(rhs); err != nil {
			return decl, err
		}
	}
	//
	if decl.Instructions, err = buildInstructions(f.Instructions); err != nil {
		return decl, err
	}
	//
	for i, s := range f.Outputs {
		lhs, rhs, err := splitAs(s)
		if err != nil {
			return decl, err
		} else if decl.Outputs[i].Operand, err = program.ParseOperand(lhs); err != nil {
			return decl, err
		} else if decl.Outputs[i].Type, err = program.ParseValueType(rhs); err != nil {
			return decl, err
		}
	}
	//
	if f.Finalize != nil {
		fin, err := f.Finalize.build()
		if err != nil {
			return decl, err
		}
		//
		decl.Finalize = util.Some(fin)
	}
	//
	return decl, nil
}

func (f *Finalize) build() (program.Finalize, error) {
	var (
		decl = program.Finalize{Inputs: make([]program.FinalizeInput, len(f.Inputs))}
		err  error
	)
	//
	if decl.Name, err = program.ParseIdentifier(f.Name); err != nil {
		return decl, err
	}
	//
	for i, s := range f.Inputs {
		lhs, rhs, err := splitAs(s)
		if err != nil {
			return decl, err
		} else if decl.Inputs[i].Register, err = program.ParseRegister(lhs); err != nil {
			return decl, err
		}
		// Finalize inputs are always public
		rhs, _ = strings.CutSuffix(rhs, ".public")
		//
		if decl.Inputs[i].Type, err = program.ParsePlaintextType(rhs); err != nil {
			return decl, err
		}
	}
	//
	decl.Commands, err = buildInstructions(f.Commands)
	//
	return decl, err
}

func buildInstructions(lines []string) ([]program.Instruction, error) {
	var insns = make([]program.Instruction, len(lines))
	//
	for i, line := range lines {
		var err error
		//
		if insns[i], err = program.ParseInstruction(line); err != nil {
			return nil, err
		}
	}
	//
	return insns, nil
}

// splitAs splits a declaration of the form "x as t".
func splitAs(s string) (string, string, error) {
	lhs, rhs, ok := strings.Cut(s, " as ")
	if !ok {
		return "", "", fault.Malformedf("declaration '%s' is missing type", s)
	}
	//
	return strings.TrimSpace(lhs), strings.TrimSpace(rhs), nil
}
