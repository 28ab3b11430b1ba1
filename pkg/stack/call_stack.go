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
	"strings"

	"github.com/consensys/go-zkregs/pkg/program"
	"github.com/consensys/go-zkregs/pkg/util/collection/stack"
	"github.com/google/uuid"
)

// Mode determines the purpose for which a call stack is being executed.
type Mode uint8

// Available modes.
const (
	// EVALUATE executes functions over plain values only.
	EVALUATE Mode = iota
	// EXECUTE executes functions over plain and circuit values in lockstep.
	EXECUTE
	// SYNTHESIZE builds circuits without meaningful witnesses (e.g. for key
	// generation).
	SYNTHESIZE
	// CHECK_DEPLOYMENT synthesizes every function of a program being deployed.
	CHECK_DEPLOYMENT
)

func (m Mode) String() string {
	switch m {
	case EVALUATE:
		return "evaluate"
	case EXECUTE:
		return "execute"
	case SYNTHESIZE:
		return "synthesize"
	default:
		return "check-deployment"
	}
}

// ParseMode parses the name of a call stack mode.
func ParseMode(s string) (Mode, bool) {
	for _, m := range []Mode{EVALUATE, EXECUTE, SYNTHESIZE, CHECK_DEPLOYMENT} {
		if m.String() == s {
			return m, true
		}
	}
	//
	return 0, false
}

// Call is an entry on a call stack, identifying the function (or closure)
// being executed and the transition it belongs to.
type Call struct {
	Locator    program.Locator
	Transition uuid.UUID
}

func (c Call) String() string {
	return fmt.Sprintf("%s (%s)", c.Locator, c.Transition)
}

// CallStack tracks the chain of nested invocations within a single execution.
// Only the innermost call is ever active.
type CallStack struct {
	mode  Mode
	calls *stack.Stack[Call]
}

// NewCallStack constructs an empty call stack for the given mode.
func NewCallStack(mode Mode) *CallStack {
	return &CallStack{mode, stack.NewStack[Call]()}
}

// Mode returns the mode of this call stack.
func (p *CallStack) Mode() Mode {
	return p.mode
}

// Push a call to a given resource.  Calls to functions begin a new transition,
// whilst closures execute within the transition of their caller.
func (p *CallStack) Push(loc program.Locator, transition bool) Call {
	var call = Call{Locator: loc}
	//
	if top, ok := p.calls.Top(); ok && !transition {
		call.Transition = top.Transition
	} else {
		call.Transition = uuid.New()
	}
	//
	p.calls.Push(call)
	//
	return call
}

// Pop the innermost call.
func (p *CallStack) Pop() Call {
	return p.calls.Pop()
}

// Depth returns the number of active calls.
func (p *CallStack) Depth() uint {
	return p.calls.Len()
}

// String renders the active calls from outermost to innermost, e.g.
// "token.aleo/mint > token.aleo/double".
func (p *CallStack) String() string {
	var (
		items = p.calls.Items()
		parts = make([]string, len(items))
	)
	//
	for i, call := range items {
		parts[i] = call.Locator.String()
	}
	//
	return strings.Join(parts, " > ")
}
