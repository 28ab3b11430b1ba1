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
	"slices"

	"github.com/consensys/go-zkregs/pkg/fault"
	"github.com/consensys/go-zkregs/pkg/program"
)

// RegisterTypes holds the declared type of every register used by a function
// or closure.  Input registers are assigned by the caller before execution,
// whilst destination registers are assigned by instructions.  Each register
// appears in exactly one of the two.
type RegisterTypes struct {
	inputs       []uint64
	types        map[uint64]program.RegisterType
	destinations []uint64
}

func newRegisterTypes() *RegisterTypes {
	return &RegisterTypes{types: make(map[uint64]program.RegisterType)}
}

func (p *RegisterTypes) addInput(reg program.Register, t program.RegisterType) error {
	if reg.IsMember() {
		return fault.Malformedf("input %s cannot be a register member", reg)
	} else if reg.Index != uint64(len(p.inputs)) {
		return fault.Malformedf("input %s out of order (expected r%d)", reg, len(p.inputs))
	}
	//
	p.inputs = append(p.inputs, reg.Index)
	p.types[reg.Index] = t
	//
	return nil
}

func (p *RegisterTypes) addDestination(reg program.Register, t program.RegisterType) error {
	if reg.IsMember() {
		return fault.Malformedf("destination %s cannot be a register member", reg)
	} else if _, ok := p.types[reg.Index]; ok {
		return fault.IllegalAssignmentf("register %s is assigned more than once", reg)
	}
	//
	p.destinations = append(p.destinations, reg.Index)
	p.types[reg.Index] = t
	//
	return nil
}

// IsInput checks whether the base of a given register is an input register.
func (p *RegisterTypes) IsInput(reg program.Register) bool {
	return slices.Contains(p.inputs, reg.Index)
}

// NumInputs returns the number of input registers.
func (p *RegisterTypes) NumInputs() uint {
	return uint(len(p.inputs))
}

// Inputs returns the input registers in declaration order.
func (p *RegisterTypes) Inputs() []program.Register {
	return toRegisters(p.inputs)
}

// Destinations returns the destination registers in order of assignment.
func (p *RegisterTypes) Destinations() []program.Register {
	return toRegisters(p.destinations)
}

// Type returns the declared type of the base of a given register, ignoring
// any member path.
func (p *RegisterTypes) Type(reg program.Register) (program.RegisterType, error) {
	if t, ok := p.types[reg.Index]; ok {
		return t, nil
	}
	//
	return program.RegisterType{}, fault.NotFoundf("register r%d has no declared type", reg.Index)
}

// MemberType returns the declared type of a register or register member.  For
// members, the path is resolved through the relevant struct and record
// declarations.  Resolution through external records continues in the context
// of the owning program.
func (p *RegisterTypes) MemberType(ctx *Stack, reg program.Register) (program.RegisterType, error) {
	var (
		base, err = p.Type(reg)
		path      = reg.Path
	)
	//
	if err != nil || len(path) == 0 {
		return base, err
	}
	// Resolve record component
	if base.Kind() != program.PLAINTEXT_REGISTER {
		var (
			owner = ctx
			name  = base.Record()
		)
		//
		if base.Kind() == program.EXTERNAL_RECORD_REGISTER {
			if owner, err = ctx.GetExternalStack(base.Locator().ProgramID); err != nil {
				return base, err
			}
			//
			name = base.Locator().Resource
		}
		//
		rt, ok := owner.program.Record(name)
		if !ok {
			return base, fault.NotFoundf("unknown record %s", name)
		} else if path[0] == program.OwnerMember {
			base = program.PlaintextRegisterType(program.LiteralPlaintextType(program.ADDRESS))
		} else if entry, ok := rt.Entry(path[0]); !ok {
			return base, fault.NotFoundf("record %s has no entry '%s'", name, path[0])
		} else {
			base = program.PlaintextRegisterType(entry.Type)
		}
		//
		ctx, path = owner, path[1:]
	}
	// Resolve struct components
	for _, name := range path {
		var pt = base.Plaintext()
		//
		if !pt.IsStruct() {
			return base, fault.TypeMismatchf("cannot access member '%s' of %s", name, pt)
		}
		//
		st, ok := ctx.program.Struct(pt.StructName())
		if !ok {
			return base, fault.NotFoundf("unknown struct %s", pt.StructName())
		}
		//
		mt, ok := st.Member(name)
		if !ok {
			return base, fault.NotFoundf("struct %s has no member '%s'", st.Name, name)
		}
		//
		base = program.PlaintextRegisterType(mt)
	}
	//
	return base, nil
}

// FinalizeTypes holds the declared type of every register used by a finalize
// block.  Finalize registers only ever hold plaintexts.
type FinalizeTypes struct {
	RegisterTypes
}

// PlaintextType returns the declared plaintext type of a given register (or
// register member).
func (p *FinalizeTypes) PlaintextType(ctx *Stack, reg program.Register) (program.PlaintextType, error) {
	t, err := p.MemberType(ctx, reg)
	//
	return t.Plaintext(), err
}

func toRegisters(indices []uint64) []program.Register {
	var regs = make([]program.Register, len(indices))
	//
	for i, index := range indices {
		regs[i] = program.NewRegister(index)
	}
	//
	return regs
}
