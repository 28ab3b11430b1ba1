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
	"fmt"
	"slices"

	"github.com/consensys/go-zkregs/pkg/fault"
	"github.com/consensys/go-zkregs/pkg/program"
	log "github.com/sirupsen/logrus"
)

// Stack provides the static context of a program needed to execute its
// functions.  This includes the program itself, the stacks of any imported
// programs, the register types of every function, closure and finalize block,
// and the number of calls made by every function.  A stack is immutable once
// constructed, and can be safely shared between concurrently executing frames.
type Stack struct {
	program       *program.Program
	external      map[program.ProgramID]*Stack
	registerTypes map[program.Identifier]*RegisterTypes
	finalizeTypes map[program.Identifier]*FinalizeTypes
	numCalls      map[program.Identifier]uint
}

// New constructs a stack for a given program, using the given stacks for the
// programs it imports.  This checks the program is well-formed: declarations
// refer only to known types; every register is typed; and every instruction is
// applied to operands of the expected types.
func New(prog *program.Program, imports ...*Stack) (*Stack, error) {
	var stack = &Stack{
		program:       prog,
		external:      make(map[program.ProgramID]*Stack),
		registerTypes: make(map[program.Identifier]*RegisterTypes),
		finalizeTypes: make(map[program.Identifier]*FinalizeTypes),
		numCalls:      make(map[program.Identifier]uint),
	}
	//
	if err := stack.bindImports(imports); err != nil {
		return nil, err
	} else if err := stack.checkTypes(); err != nil {
		return nil, err
	}
	// Closures first, since functions may call them
	for _, c := range prog.Closures() {
		if err := stack.checkClosure(&c); err != nil {
			return nil, fmt.Errorf("closure %s: %w", c.Name, err)
		}
	}
	//
	for _, f := range prog.Functions() {
		if err := stack.checkFunction(&f); err != nil {
			return nil, fmt.Errorf("function %s: %w", f.Name, err)
		}
	}
	//
	if err := stack.countCalls(); err != nil {
		return nil, err
	}
	//
	log.Debugf("constructed stack for %s (%d functions, %d closures, %d imports)", prog.ID(),
		len(prog.Functions()), len(prog.Closures()), len(imports))
	//
	return stack, nil
}

// Program returns the program of this stack.
func (p *Stack) Program() *program.Program {
	return p.program
}

// ProgramID returns the ID of the program of this stack.
func (p *Stack) ProgramID() program.ProgramID {
	return p.program.ID()
}

// ContainsExternalRecord checks whether the given locator identifies a record
// declared in an imported program.
func (p *Stack) ContainsExternalRecord(loc program.Locator) bool {
	_, err := p.GetExternalRecord(loc)
	//
	return err == nil
}

// GetExternalStack returns the stack of an imported program.
func (p *Stack) GetExternalStack(pid program.ProgramID) (*Stack, error) {
	if ext, ok := p.external[pid]; ok {
		return ext, nil
	}
	//
	return nil, fault.NotFoundf("program %s is not imported by %s", pid, p.ProgramID())
}

// GetExternalProgram returns an imported program.
func (p *Stack) GetExternalProgram(pid program.ProgramID) (*program.Program, error) {
	ext, err := p.GetExternalStack(pid)
	if err != nil {
		return nil, err
	}
	//
	return ext.program, nil
}

// GetExternalRecord returns the type of a record declared in an imported
// program.
func (p *Stack) GetExternalRecord(loc program.Locator) (*program.RecordType, error) {
	ext, err := p.GetExternalProgram(loc.ProgramID)
	if err != nil {
		return nil, err
	}
	//
	if rt, ok := ext.Record(loc.Resource); ok {
		return rt, nil
	}
	//
	return nil, fault.NotFoundf("record %s does not exist", loc)
}

// GetFunction returns the function with the given name.
func (p *Stack) GetFunction(name program.Identifier) (*program.Function, error) {
	if f, ok := p.program.Function(name); ok {
		return f, nil
	}
	//
	return nil, fault.NotFoundf("function %s does not exist in %s", name, p.ProgramID())
}

// GetNumberOfCalls returns the number of calls made by executing the given
// function, including the call of the function itself.  Every call to a
// function or closure reachable from its body is counted, transitively.
func (p *Stack) GetNumberOfCalls(name program.Identifier) (uint, error) {
	if _, err := p.GetFunction(name); err != nil {
		return 0, err
	}
	//
	return p.numCalls[name], nil
}

// GetRegisterTypes returns the register types of the given function or
// closure.
func (p *Stack) GetRegisterTypes(name program.Identifier) (*RegisterTypes, error) {
	if types, ok := p.registerTypes[name]; ok {
		return types, nil
	}
	//
	return nil, fault.NotFoundf("register types for %s do not exist in %s", name, p.ProgramID())
}

// GetFinalizeTypes returns the register types of the given finalize block.
func (p *Stack) GetFinalizeTypes(name program.Identifier) (*FinalizeTypes, error) {
	if types, ok := p.finalizeTypes[name]; ok {
		return types, nil
	}
	//
	return nil, fault.NotFoundf("finalize types for %s do not exist in %s", name, p.ProgramID())
}

// ============================================================================
// Construction
// ============================================================================

func (p *Stack) bindImports(imports []*Stack) error {
	var declared = p.program.Imports()
	//
	for _, ext := range imports {
		var pid = ext.ProgramID()
		//
		if !slices.Contains(declared, pid) {
			return fault.Malformedf("program %s does not import %s", p.ProgramID(), pid)
		}
		//
		p.external[pid] = ext
	}
	//
	for _, pid := range declared {
		if _, ok := p.external[pid]; !ok {
			return fault.NotFoundf("imported program %s is missing", pid)
		}
	}
	//
	return nil
}

// checkTypes ensures struct and record declarations refer only to known types.
// Structs can only refer to structs declared before them, which prevents
// recursive structs.
func (p *Stack) checkTypes() error {
	for i, s := range p.program.Structs() {
		for _, m := range s.Members {
			if m.Type.IsStruct() && !declaredBefore(p.program.Structs()[:i], m.Type.StructName()) {
				return fault.NotFoundf("struct %s member '%s' has unknown type %s", s.Name, m.Name, m.Type)
			}
		}
	}
	//
	for _, r := range p.program.Records() {
		for _, e := range r.Entries {
			if err := p.checkPlaintextType(e.Type); err != nil {
				return fmt.Errorf("record %s entry '%s': %w", r.Name, e.Name, err)
			}
		}
	}
	//
	return nil
}

func (p *Stack) checkPlaintextType(t program.PlaintextType) error {
	if t.IsStruct() {
		if _, ok := p.program.Struct(t.StructName()); !ok {
			return fault.NotFoundf("unknown struct %s", t.StructName())
		}
	}
	//
	return nil
}

func (p *Stack) checkRegisterType(t program.RegisterType) error {
	switch t.Kind() {
	case program.RECORD_REGISTER:
		if _, ok := p.program.Record(t.Record()); !ok {
			return fault.NotFoundf("unknown record %s", t.Record())
		}
	case program.EXTERNAL_RECORD_REGISTER:
		if _, err := p.GetExternalRecord(t.Locator()); err != nil {
			return err
		}
	default:
		return p.checkPlaintextType(t.Plaintext())
	}
	//
	return nil
}

func (p *Stack) checkClosure(c *program.Closure) error {
	var types = newRegisterTypes()
	//
	for _, input := range c.Inputs {
		if err := p.checkRegisterType(input.Type); err != nil {
			return err
		} else if err := types.addInput(input.Register, input.Type); err != nil {
			return err
		}
	}
	//
	if err := p.checkInstructions(types, c.Instructions, closureContext); err != nil {
		return err
	}
	//
	for _, output := range c.Outputs {
		if err := p.checkOutput(types, output.Operand, output.Type); err != nil {
			return err
		}
	}
	//
	p.registerTypes[c.Name] = types
	//
	return nil
}

func (p *Stack) checkFunction(f *program.Function) error {
	var types = newRegisterTypes()
	//
	for _, input := range f.Inputs {
		var t = input.Type.ToRegisterType()
		//
		if err := p.checkRegisterType(t); err != nil {
			return err
		} else if err := types.addInput(input.Register, t); err != nil {
			return err
		}
	}
	//
	if err := p.checkInstructions(types, f.Instructions, functionContext); err != nil {
		return err
	}
	//
	for _, output := range f.Outputs {
		if output.Type.Kind() == program.EXTERNAL_RECORD_VALUE && output.Operand.Kind() != program.REGISTER_OPERAND {
			return fault.Malformedf("external record output %s must be a register", output.Operand)
		} else if err := p.checkOutput(types, output.Operand, output.Type.ToRegisterType()); err != nil {
			return err
		}
	}
	//
	p.registerTypes[f.Name] = types
	//
	if f.Finalize.HasValue() {
		var fin = f.Finalize.Unwrap()
		//
		if err := p.checkFinalize(&fin); err != nil {
			return fmt.Errorf("finalize %s: %w", fin.Name, err)
		}
	}
	//
	return nil
}

func (p *Stack) checkFinalize(f *program.Finalize) error {
	var types = &FinalizeTypes{*newRegisterTypes()}
	//
	if _, ok := p.finalizeTypes[f.Name]; ok {
		return fault.Malformedf("duplicate finalize %s", f.Name)
	}
	//
	for _, input := range f.Inputs {
		var t = program.PlaintextRegisterType(input.Type)
		//
		if err := p.checkRegisterType(t); err != nil {
			return err
		} else if err := types.addInput(input.Register, t); err != nil {
			return err
		}
	}
	//
	if err := p.checkInstructions(&types.RegisterTypes, f.Commands, finalizeContext); err != nil {
		return err
	}
	//
	p.finalizeTypes[f.Name] = types
	//
	return nil
}

func (p *Stack) checkOutput(types *RegisterTypes, operand program.Operand, expected program.RegisterType) error {
	actual, err := p.operandType(types, operand)
	//
	if err != nil {
		return err
	} else if actual != expected {
		return fault.TypeMismatchf("output %s has type %s, expected %s", operand, actual, expected)
	}
	//
	return nil
}

func declaredBefore(structs []program.StructType, name program.Identifier) bool {
	for _, s := range structs {
		if s.Name == name {
			return true
		}
	}
	//
	return false
}
