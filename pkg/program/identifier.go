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

import (
	"strings"

	"github.com/consensys/go-zkregs/pkg/fault"
	"golang.org/x/crypto/sha3"
)

// Identifier is a name within a program (e.g. of a function, struct, record or
// member).  Identifiers start with a letter, contain only letters, digits and
// underscores, and are not reserved keywords.
type Identifier string

var reserved = map[string]bool{
	"self": true, "record": true, "struct": true, "function": true, "closure": true,
	"finalize": true, "input": true, "output": true, "into": true, "as": true,
	"call": true, "import": true, "program": true, "caller": true,
	"public": true, "private": true, "constant": true,
}

// ParseIdentifier parses and validates an identifier.
func ParseIdentifier(s string) (Identifier, error) {
	if len(s) == 0 {
		return "", fault.Malformedf("empty identifier")
	} else if !isLetter(s[0]) {
		return "", fault.Malformedf("identifier '%s' must start with a letter", s)
	}
	//
	for i := 1; i < len(s); i++ {
		if !isLetter(s[i]) && !isDigit(s[i]) && s[i] != '_' {
			return "", fault.Malformedf("identifier '%s' contains invalid character '%c'", s, s[i])
		}
	}
	//
	if reserved[s] {
		return "", fault.Malformedf("identifier '%s' is a reserved keyword", s)
	} else if _, ok := literalTypeNames[s]; ok {
		return "", fault.Malformedf("identifier '%s' is a literal type", s)
	}
	//
	return Identifier(s), nil
}

// MustIdentifier parses an identifier, panicking if it is malformed.
func MustIdentifier(s string) Identifier {
	id, err := ParseIdentifier(s)
	if err != nil {
		panic(err.Error())
	}
	//
	return id
}

func (id Identifier) String() string {
	return string(id)
}

// ============================================================================
// Program ID
// ============================================================================

// ProgramID uniquely identifies a program, and is written "name.network" (e.g.
// "token.aleo").
type ProgramID struct {
	Name    Identifier
	Network Identifier
}

// ParseProgramID parses a program ID of the form "name.network".
func ParseProgramID(s string) (ProgramID, error) {
	var (
		pid       ProgramID
		err       error
		name, net string
		ok        bool
	)
	//
	if name, net, ok = strings.Cut(s, "."); !ok {
		return pid, fault.Malformedf("program id '%s' is missing network", s)
	} else if pid.Name, err = ParseIdentifier(name); err != nil {
		return pid, err
	} else if net != "aleo" {
		return pid, fault.Malformedf("program id '%s' has unknown network '%s'", s, net)
	}
	//
	pid.Network = Identifier(net)
	//
	return pid, nil
}

// MustProgramID parses a program ID, panicking if it is malformed.
func MustProgramID(s string) ProgramID {
	pid, err := ParseProgramID(s)
	if err != nil {
		panic(err.Error())
	}
	//
	return pid
}

// IsZero checks whether this is the zero program ID (e.g. used to indicate a
// resource within the current program).
func (p ProgramID) IsZero() bool {
	return p.Name == "" && p.Network == ""
}

// ToAddress derives the address of this program, which is obtained by hashing
// its textual form into the scalar field.
func (p ProgramID) ToAddress() Address {
	var digest = sha3.Sum256([]byte(p.String()))
	//
	return AddressFromBytes(digest[:])
}

func (p ProgramID) String() string {
	return p.Name.String() + "." + p.Network.String()
}

// ============================================================================
// Locator
// ============================================================================

// Locator is a fully-qualified reference to a resource within a given program
// (e.g. "token.aleo/transfer").
type Locator struct {
	ProgramID ProgramID
	Resource  Identifier
}

// NewLocator constructs a locator for a given resource in a given program.
func NewLocator(pid ProgramID, resource Identifier) Locator {
	return Locator{pid, resource}
}

// ParseLocator parses a locator of the form "name.network/resource".
func ParseLocator(s string) (Locator, error) {
	var (
		loc     Locator
		err     error
		pid, id string
		ok      bool
	)
	//
	if pid, id, ok = strings.Cut(s, "/"); !ok {
		return loc, fault.Malformedf("locator '%s' is missing resource", s)
	} else if loc.ProgramID, err = ParseProgramID(pid); err != nil {
		return loc, err
	} else if loc.Resource, err = ParseIdentifier(id); err != nil {
		return loc, err
	}
	//
	return loc, nil
}

func (l Locator) String() string {
	return l.ProgramID.String() + "/" + l.Resource.String()
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
