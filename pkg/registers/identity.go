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
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/go-zkregs/pkg/circuit"
	"github.com/consensys/go-zkregs/pkg/fault"
	"github.com/consensys/go-zkregs/pkg/program"
	"github.com/consensys/go-zkregs/pkg/util"
	"golang.org/x/crypto/sha3"
)

// Identity holds the caller and transition view key (TVK) of a frame, in both
// plain and circuit form.  These are set by the calling convention before any
// instruction executes.  Setting the plain and circuit forms consistently is
// the responsibility of the caller, and CheckConsistency can be used to
// confirm this.
type Identity struct {
	caller        util.Option[program.Address]
	tvk           util.Option[fr.Element]
	callerCircuit util.Option[circuit.Address]
	tvkCircuit    util.Option[circuit.Field]
}

// Caller returns the transition caller.
func (p *Identity) Caller() (program.Address, error) {
	if caller, ok := p.caller.Get(); ok {
		return caller, nil
	}
	//
	return program.Address{}, fault.New(fault.NoCallerBound, "caller is not set")
}

// SetCaller sets the transition caller, overwriting any previous value.
func (p *Identity) SetCaller(caller program.Address) {
	p.caller = util.Some(caller)
}

// TVK returns the transition view key.
func (p *Identity) TVK() (fr.Element, error) {
	if tvk, ok := p.tvk.Get(); ok {
		return tvk, nil
	}
	//
	return fr.Element{}, fault.New(fault.NoCallerBound, "transition view key is not set")
}

// SetTVK sets the transition view key, overwriting any previous value.
func (p *Identity) SetTVK(tvk fr.Element) {
	p.tvk = util.Some(tvk)
}

// CallerCircuit returns the transition caller as a circuit.
func (p *Identity) CallerCircuit() (circuit.Address, error) {
	if p.callerCircuit.IsEmpty() {
		return circuit.Address{}, fault.New(fault.NoCallerBound, "caller circuit is not set")
	}
	//
	return p.callerCircuit.Unwrap(), nil
}

// SetCallerCircuit sets the transition caller as a circuit, overwriting any
// previous value.
func (p *Identity) SetCallerCircuit(caller circuit.Address) {
	p.callerCircuit = util.Some(caller)
}

// TVKCircuit returns the transition view key as a circuit.
func (p *Identity) TVKCircuit() (circuit.Field, error) {
	if p.tvkCircuit.IsEmpty() {
		return circuit.Field{}, fault.New(fault.NoCallerBound, "transition view key circuit is not set")
	}
	//
	return p.tvkCircuit.Unwrap(), nil
}

// SetTVKCircuit sets the transition view key as a circuit, overwriting any
// previous value.
func (p *Identity) SetTVKCircuit(tvk circuit.Field) {
	p.tvkCircuit = util.Some(tvk)
}

// CheckConsistency checks that the circuit forms of the caller and TVK eject to
// their plain forms within the given constraint system.  Registers which are
// set in only one form are reported as mismatches, whilst registers set in
// neither form are ignored.
func (p *Identity) CheckConsistency(sys *circuit.System) error {
	switch {
	case p.caller.HasValue() != p.callerCircuit.HasValue():
		return fault.TypeMismatchf("caller is set in only one form")
	case p.tvk.HasValue() != p.tvkCircuit.HasValue():
		return fault.TypeMismatchf("transition view key is set in only one form")
	}
	//
	if p.caller.HasValue() {
		if ejected := sys.EjectAddress(p.callerCircuit.Unwrap()); !ejected.Equal(p.caller.Unwrap()) {
			return fault.TypeMismatchf("caller circuit (%s) differs from caller (%s)", ejected, p.caller.Unwrap())
		}
	}
	//
	if p.tvk.HasValue() {
		var (
			ejected = sys.EjectField(p.tvkCircuit.Unwrap())
			tvk     = p.tvk.Unwrap()
		)
		//
		if !ejected.Equal(&tvk) {
			return fault.TypeMismatchf("transition view key circuit differs from transition view key")
		}
	}
	//
	return nil
}

// DeriveTVK derives a transition view key for a call to a given function from
// a secret seed.  Distinct functions (or seeds) give unrelated keys.
func DeriveTVK(seed []byte, loc program.Locator) fr.Element {
	var (
		hash = sha3.New256()
		tvk  fr.Element
	)
	//
	hash.Write(seed)
	hash.Write([]byte(loc.String()))
	tvk.SetBytes(hash.Sum(nil))
	//
	return tvk
}
