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
package exec

import (
	"fmt"

	"github.com/consensys/go-zkregs/pkg/circuit"
	"github.com/consensys/go-zkregs/pkg/program"
	"github.com/consensys/go-zkregs/pkg/registers"
	"github.com/consensys/go-zkregs/pkg/stack"
	log "github.com/sirupsen/logrus"
)

// run a sequence of instructions within a given frame.  Each instruction is
// applied first to the plain register file and then to the circuit register
// file (if there is one), such that both files progress identically.
func run(ctx *stack.Stack, frame *registers.Frame, insns []program.Instruction) error {
	for i := range insns {
		var insn = &insns[i]
		//
		log.Debugf("%s: %s", frame.CallStack(), insn)
		//
		if err := step(ctx, frame, insn); err != nil {
			return fmt.Errorf("%s: %w", insn, err)
		}
	}
	//
	return nil
}

func step(ctx *stack.Stack, frame *registers.Frame, insn *program.Instruction) error {
	if insn.Opcode == program.CALL {
		return call(ctx, frame, insn)
	} else if err := evalPlain(ctx, frame.Plain(), insn); err != nil {
		return err
	} else if frame.HasCircuit() {
		return evalCircuit(ctx, frame.Circuit(), insn)
	}
	//
	return nil
}

// call a closure of the enclosing program.  The closure executes in a fresh
// frame which inherits the identity of its caller, and within the same
// transition.  Operands are passed directly in both representations (i.e.
// circuit values are not re-injected).
func call(ctx *stack.Stack, frame *registers.Frame, insn *program.Instruction) error {
	var callStack = frame.CallStack()
	//
	if insn.IsExternalCall() {
		return fmt.Errorf("external call to %s not supported", insn.Callee)
	}
	//
	closure, ok := ctx.Program().Closure(insn.Callee.Resource)
	if !ok {
		return fmt.Errorf("call to function %s not supported", insn.Callee.Resource)
	}
	//
	var sys *circuit.System
	//
	if frame.HasCircuit() {
		sys = frame.Circuit().Representation().System()
	}
	//
	callee, err := registers.NewFrame(ctx, callStack, closure.Name, sys)
	if err != nil {
		return err
	}
	//
	callee.Inherit(frame)
	callStack.Push(callee.Locator(), false)
	//
	defer callStack.Pop()
	//
	log.Debugf("entering %s at depth %d", callee.Locator(), callStack.Depth())
	//
	for i, input := range closure.Inputs {
		if err := passArgument(ctx, frame, callee, insn.Operands[i], input.Register); err != nil {
			return err
		}
	}
	//
	if err := run(ctx, callee, closure.Instructions); err != nil {
		return err
	}
	//
	for i, output := range closure.Outputs {
		if err := passResult(ctx, callee, frame, output.Operand, insn.Destinations[i]); err != nil {
			return err
		}
	}
	//
	return nil
}

func passArgument(ctx *stack.Stack, caller, callee *registers.Frame, op program.Operand,
	reg program.Register) error {
	//
	value, err := caller.Plain().Load(ctx, op)
	if err != nil {
		return err
	} else if err := callee.Plain().AssignInput(ctx, reg, value); err != nil {
		return err
	} else if !caller.HasCircuit() {
		return nil
	}
	//
	cvalue, err := caller.Circuit().Load(ctx, op)
	if err != nil {
		return err
	}
	//
	return callee.Circuit().AssignInput(ctx, reg, cvalue)
}

func passResult(ctx *stack.Stack, callee, caller *registers.Frame, op program.Operand,
	reg program.Register) error {
	//
	value, err := callee.Plain().Load(ctx, op)
	if err != nil {
		return err
	} else if err := caller.Plain().Store(ctx, reg, value); err != nil {
		return err
	} else if !callee.HasCircuit() {
		return nil
	}
	//
	cvalue, err := callee.Circuit().Load(ctx, op)
	if err != nil {
		return err
	}
	//
	return caller.Circuit().Store(ctx, reg, cvalue)
}
