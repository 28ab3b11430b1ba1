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

import "github.com/consensys/go-zkregs/pkg/util"

// Input declares an input register of a function, along with its type.
type Input struct {
	Register Register
	Type     ValueType
}

// Output declares an output of a function, along with its type.
type Output struct {
	Operand Operand
	Type    ValueType
}

// Function is an externally callable unit of a program.  Every invocation of a
// function produces a transition, whose inputs and outputs have declared value
// types.  A function may optionally have a finalize block, which is executed
// after the transition is accepted.
type Function struct {
	Name         Identifier
	Inputs       []Input
	Instructions []Instruction
	Outputs      []Output
	Finalize     util.Option[Finalize]
}

// ClosureInput declares an input register of a closure, along with its type.
type ClosureInput struct {
	Register Register
	Type     RegisterType
}

// ClosureOutput declares an output of a closure, along with its type.
type ClosureOutput struct {
	Operand Operand
	Type    RegisterType
}

// Closure is an internal helper of a program.  Unlike a function, calling a
// closure does not produce a transition and its inputs/outputs carry no
// visibility.
type Closure struct {
	Name         Identifier
	Inputs       []ClosureInput
	Instructions []Instruction
	Outputs      []ClosureOutput
}

// FinalizeInput declares an input register of a finalize block.  Finalize
// blocks only operate over plaintexts.
type FinalizeInput struct {
	Register Register
	Type     PlaintextType
}

// Finalize is the (public) continuation of a function.
type Finalize struct {
	Name     Identifier
	Inputs   []FinalizeInput
	Commands []Instruction
}
