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
package util

import "fmt"

// Option is a value which may or may not be present.  The zero value of an
// option is empty.
type Option[T any] struct {
	some  bool
	value T
}

// Some constructs an option holding the given value.
func Some[T any](val T) Option[T] {
	return Option[T]{true, val}
}

// None constructs an empty option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// HasValue checks whether this option holds a value.
func (o Option[T]) HasValue() bool {
	return o.some
}

// IsEmpty checks whether this option is empty.
func (o Option[T]) IsEmpty() bool {
	return !o.some
}

// Get returns the value held by this option (if any), along with a flag
// indicating whether it was present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.some
}

// Unwrap returns the value held by this option, or panics if it is empty.
func (o Option[T]) Unwrap() T {
	if !o.some {
		panic("cannot unwrap an empty option")
	}
	//
	return o.value
}

// UnwrapOr returns the value held by this option, or the given default if it is
// empty.
func (o Option[T]) UnwrapOr(def T) T {
	if o.some {
		return o.value
	}
	//
	return def
}

func (o Option[T]) String() string {
	if o.some {
		return fmt.Sprintf("Some(%v)", o.value)
	}
	//
	return "None"
}
