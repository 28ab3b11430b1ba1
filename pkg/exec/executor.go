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

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/go-zkregs/pkg/circuit"
	"github.com/consensys/go-zkregs/pkg/fault"
	"github.com/consensys/go-zkregs/pkg/program"
	"github.com/consensys/go-zkregs/pkg/registers"
	"github.com/consensys/go-zkregs/pkg/stack"
	"github.com/consensys/go-zkregs/pkg/util"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Request describes a single invocation of a function.
type Request struct {
	// Function being invoked.
	Function program.Identifier
	// Caller of the transition.
	Caller program.Address
	// Seed from which the transition view key is derived.
	Seed []byte
	// Inputs to the function, one per declared input.
	Inputs []program.Value
}

// Response describes the result of invoking a function.
type Response struct {
	// Transition identifies the transition produced.
	Transition uuid.UUID
	// Outputs of the function, one per declared output.
	Outputs []program.Value
	// Commitments to those outputs which are records (and empty otherwise).
	Commitments []util.Option[fr.Element]
	// System holds the constraints generated (or nil when evaluating).
	System *circuit.System
}

// Execute a given function of a program.  In evaluate mode, only plain values
// are computed.  Otherwise, plain and circuit register files are driven in
// lockstep: every instruction is applied to the plain file and then,
// identically, to the circuit file.  Outputs are checked against their
// declared types and the circuit outputs are checked to eject to the plain
// outputs.
func Execute(ctx *stack.Stack, mode stack.Mode, req Request) (*Response, error) {
	var (
		callStack = stack.NewCallStack(mode)
		sys       *circuit.System
	)
	//
	if mode != stack.EVALUATE {
		sys = circuit.NewSystem()
	}
	//
	fn, err := ctx.GetFunction(req.Function)
	if err != nil {
		return nil, err
	} else if len(req.Inputs) != len(fn.Inputs) {
		return nil, fault.TypeMismatchf("%s expects %d inputs, found %d", fn.Name, len(fn.Inputs), len(req.Inputs))
	}
	//
	for i, input := range fn.Inputs {
		if err := ctx.MatchValueType(req.Inputs[i], input.Type); err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
	}
	//
	call := callStack.Push(program.NewLocator(ctx.ProgramID(), fn.Name), true)
	defer callStack.Pop()
	//
	frame, err := registers.NewFrame(ctx, callStack, fn.Name, sys)
	if err != nil {
		return nil, err
	}
	//
	if err := bindIdentity(frame, sys, req); err != nil {
		return nil, err
	}
	//
	for i, input := range fn.Inputs {
		if err := assignInput(ctx, frame, sys, input.Register, inputMode(input.Type), req.Inputs[i]); err != nil {
			return nil, err
		}
	}
	//
	if err := run(ctx, frame, fn.Instructions); err != nil {
		return nil, err
	}
	//
	var (
		outputs     = make([]program.Value, len(fn.Outputs))
		commitments = make([]util.Option[fr.Element], len(fn.Outputs))
	)
	//
	for i, output := range fn.Outputs {
		if outputs[i], err = loadOutput(ctx, frame, output.Operand, output.Type); err != nil {
			return nil, err
		} else if err = ctx.MatchValueType(outputs[i], output.Type); err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		//
		commitments[i] = commitment(ctx, outputs[i], output.Type)
	}
	//
	if sys != nil {
		if err := sys.IsSatisfied(); err != nil {
			return nil, err
		}
		//
		log.Debugf("%s produced %d constraints over %d variables", call.Locator, sys.NumConstraints(),
			sys.NumVariables())
	}
	//
	return &Response{call.Transition, outputs, commitments, sys}, nil
}

// commitment commits to a record output against the record type it is declared
// as.  Plaintext outputs have no commitment.
func commitment(ctx *stack.Stack, value program.Value, t program.ValueType) util.Option[fr.Element] {
	rec, ok := value.(*program.Record)
	//
	switch {
	case !ok:
		return util.None[fr.Element]()
	case t.Kind() == program.EXTERNAL_RECORD_VALUE:
		return util.Some(rec.Commitment(t.Locator()))
	default:
		return util.Some(rec.Commitment(program.NewLocator(ctx.ProgramID(), t.Record())))
	}
}

// bindIdentity sets the caller and transition view key of a frame, as per the
// calling convention.  The circuit forms are checked to agree with the plain
// forms.
func bindIdentity(frame *registers.Frame, sys *circuit.System, req Request) error {
	var (
		id  = frame.Identity()
		tvk = registers.DeriveTVK(req.Seed, frame.Locator())
	)
	//
	id.SetCaller(req.Caller)
	id.SetTVK(tvk)
	//
	if sys == nil {
		return nil
	}
	//
	id.SetCallerCircuit(sys.InjectAddress(circuit.PUBLIC, req.Caller))
	id.SetTVKCircuit(sys.InjectField(circuit.PRIVATE, tvk))
	//
	return id.CheckConsistency(sys)
}

// inputMode determines the mode with which plaintext inputs are injected.
// Records carry their own visibilities.
func inputMode(t program.ValueType) circuit.Mode {
	if t.IsPlaintext() {
		return circuit.ToMode(t.Visibility())
	}
	//
	return circuit.PRIVATE
}

func assignInput(ctx *stack.Stack, frame *registers.Frame, sys *circuit.System, reg program.Register,
	mode circuit.Mode, value program.Value) error {
	//
	if err := frame.Plain().AssignInput(ctx, reg, value); err != nil {
		return err
	} else if frame.HasCircuit() {
		return frame.Circuit().AssignInput(ctx, reg, sys.Inject(mode, value))
	}
	//
	return nil
}

// loadOutput loads an output operand from both register files, checks both
// against the expected type and checks the circuit value ejects to the plain
// value.
func loadOutput(ctx *stack.Stack, frame *registers.Frame, op program.Operand,
	t program.ValueType) (program.Value, error) {
	//
	value, err := frame.Plain().Load(ctx, op)
	if err != nil || !frame.HasCircuit() {
		return value, err
	}
	//
	cvalue, err := frame.Circuit().Load(ctx, op)
	if err != nil {
		return nil, err
	} else if err := ctx.MatchCircuitValueType(cvalue, t); err != nil {
		return nil, err
	}
	//
	sys := frame.Circuit().Representation().System()
	//
	if ejected := sys.Eject(cvalue); !program.Equal(ejected, value) {
		return nil, fmt.Errorf("circuit output %s diverges from plain output %s", ejected, value)
	}
	//
	return value, nil
}
