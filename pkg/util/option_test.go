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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Option_01(t *testing.T) {
	var o Option[uint]
	//
	assert.True(t, o.IsEmpty())
	assert.False(t, o.HasValue())
	assert.Equal(t, uint(7), o.UnwrapOr(7))
	assert.Equal(t, "None", o.String())
	assert.Panics(t, func() { o.Unwrap() })
	assert.Equal(t, None[uint](), o)
}

func Test_Option_02(t *testing.T) {
	var o = Some("r0")
	//
	v, ok := o.Get()
	assert.True(t, ok)
	assert.Equal(t, "r0", v)
	assert.Equal(t, "r0", o.Unwrap())
	assert.Equal(t, "r0", o.UnwrapOr("r1"))
	assert.Equal(t, "Some(r0)", o.String())
}
