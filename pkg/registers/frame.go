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
package registers

import (
	"github.com/consensys/go-zkregs/pkg/circuit"
	"github.com/consensys/go-zkregs/pkg/program"
	"github.com/consensys/go-zkregs/pkg/stack"
	log "github.com/sirupsen/logrus"
)

// Frame holds the registers of an executing function or closure.  A frame
// always has a plain register file, and additionally a circuit register file
// when executing in lockstep with a constraint system.  Both files share the
// same register types and identity.
type Frame struct {
	locator   program.Locator
	callStack *stack.CallStack
	identity  *Identity
	plain     *Plain
	circuit   *Circuit
}

// NewFrame constructs a frame for the given function or closure of a program.
// When sys is nil, no circuit register file is constructed.
func NewFrame(ctx *stack.Stack, callStack *stack.CallStack, name program.Identifier,
	sys *circuit.System) (*Frame, error) {
	//
	types, err := ctx.GetRegisterTypes(name)
	if err != nil {
		return nil, err
	}
	//
	frame := &Frame{
		locator:   program.NewLocator(ctx.ProgramID(), name),
		callStack: callStack,
		identity:  &Identity{},
	}
	//
	frame.plain = NewPlain(types, frame.identity)
	//
	if sys != nil {
		frame.circuit = NewCircuit(sys, types, frame.identity)
	}
	//
	log.Debugf("new frame for %s (%d inputs, %s mode)", frame.locator, types.NumInputs(), callStack.Mode())
	//
	return frame, nil
}

// NewFinalizeFile constructs a plain register file for the given finalize block
// of a program.  Finalize blocks have no caller and no circuit.
func NewFinalizeFile(ctx *stack.Stack, name program.Identifier) (*Plain, error) {
	types, err := ctx.GetFinalizeTypes(name)
	if err != nil {
		return nil, err
	}
	//
	return NewPlain(&types.RegisterTypes, &Identity{}), nil
}

// Inherit the identity of a parent frame, as happens when calling a closure
// (which executes within the transition of its caller).
func (p *Frame) Inherit(parent *Frame) {
	*p.identity = *parent.identity
}

// Locator identifies the function or closure executing in this frame.
func (p *Frame) Locator() program.Locator {
	return p.locator
}

// CallStack returns the call stack of the current execution.
func (p *Frame) CallStack() *stack.CallStack {
	return p.callStack
}

// Identity returns the caller and transition view key registers of this frame.
func (p *Frame) Identity() *Identity {
	return p.identity
}

// Plain returns the plain register file of this frame.
func (p *Frame) Plain() *Plain {
	return p.plain
}

// Circuit returns the circuit register file of this frame (or nil if this
// frame has no circuit).
func (p *Frame) Circuit() *Circuit {
	return p.circuit
}

// HasCircuit checks whether this frame has a circuit register file.
func (p *Frame) HasCircuit() bool {
	return p.circuit != nil
}
