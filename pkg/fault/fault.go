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
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a failure arising from the register machine.  Every failure
// is deterministic and terminal for the operation which raised it.
type Kind uint8

const (
	// NotFound indicates an unresolved identifier, register, program,
	// function or type signature.
	NotFound Kind = iota
	// TypeMismatch indicates a structural, visibility or arity mismatch of a
	// value against its declared type.
	TypeMismatch
	// IllegalAssignment indicates a double store, a store into an input
	// register or a store into a register member.
	IllegalAssignment
	// IllegalAccess indicates a load from an unassigned register.
	IllegalAccess
	// NarrowingFailure indicates a narrowing accessor (e.g. load literal)
	// applied to a value of an incompatible variant.
	NarrowingFailure
	// NoCallerBound indicates an identity register was read before being set.
	NoCallerBound
	// Malformed indicates a program, manifest or textual form which could not
	// be parsed or is internally inconsistent.
	Malformed
)

var kindNames = [...]string{
	"not found",
	"type mismatch",
	"illegal assignment",
	"illegal access",
	"narrowing failure",
	"no caller bound",
	"malformed",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	//
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound          = &Error{Kind: NotFound}
	ErrTypeMismatch      = &Error{Kind: TypeMismatch}
	ErrIllegalAssignment = &Error{Kind: IllegalAssignment}
	ErrIllegalAccess     = &Error{Kind: IllegalAccess}
	ErrNarrowingFailure  = &Error{Kind: NarrowingFailure}
	ErrNoCallerBound     = &Error{Kind: NoCallerBound}
	ErrMalformed         = &Error{Kind: Malformed}
)

// Error is a failure of a given kind, along with a human-readable message and
// (optionally) the failure which caused it.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// New constructs an error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{kind, fmt.Sprintf(format, args...), nil}
}

// Wrap constructs an error of the given kind which records an underlying
// cause.  The message of the cause is appended to the given message.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{kind, fmt.Sprintf(format, args...), cause}
}

func (e *Error) Error() string {
	var msg = e.Message
	//
	if msg == "" {
		msg = e.Kind.String()
	}
	//
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", msg, e.Cause.Error())
	}
	//
	return msg
}

// Unwrap returns the underlying cause (if any).
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether this error has the same kind as the target.  This means
// errors.Is(err, ErrNotFound) holds for any error of kind NotFound.
func (e *Error) Is(target error) bool {
	var t *Error
	//
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	//
	return false
}

// KindOf returns the kind of the outermost *Error within the chain of err.
func KindOf(err error) (Kind, bool) {
	var e *Error
	//
	if errors.As(err, &e) {
		return e.Kind, true
	}
	//
	return 0, false
}

// Convenience constructors

// NotFoundf constructs a NotFound error.
func NotFoundf(format string, args ...any) *Error {
	return New(NotFound, format, args...)
}

// TypeMismatchf constructs a TypeMismatch error.
func TypeMismatchf(format string, args ...any) *Error {
	return New(TypeMismatch, format, args...)
}

// IllegalAssignmentf constructs an IllegalAssignment error.
func IllegalAssignmentf(format string, args ...any) *Error {
	return New(IllegalAssignment, format, args...)
}

// IllegalAccessf constructs an IllegalAccess error.
func IllegalAccessf(format string, args ...any) *Error {
	return New(IllegalAccess, format, args...)
}

// NarrowingFailuref constructs a NarrowingFailure error.
func NarrowingFailuref(format string, args ...any) *Error {
	return New(NarrowingFailure, format, args...)
}

// Malformedf constructs a Malformed error.
func Malformedf(format string, args ...any) *Error {
	return New(Malformed, format, args...)
}
