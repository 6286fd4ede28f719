// Copyright 2025 The ethergo Authors
// This file is part of the ethergo library.
//
// The ethergo library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ethergo library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ethergo library. If not, see <http://www.gnu.org/licenses/>.

package abi

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Parameter is the JSON-ABI form of a single method/event parameter, the way
// compilers emit it. Components enumerates the named sub-fields when the
// ultimate element type is a tuple; Indexed is meaningful only for event
// parameters.
type Parameter struct {
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	Components []Parameter `json:"components,omitempty"`
	Indexed    bool        `json:"indexed,omitempty"`
}

// Argument holds the name of an argument and its resolved type.
type Argument struct {
	Name    string
	Type    Type
	Indexed bool // indexed is only used by events
}

// Arguments is an ordered list of arguments, i.e. one side of a function or
// event signature.
type Arguments []Argument

// NewArguments resolves a list of JSON-ABI parameters into Arguments.
func NewArguments(params []Parameter) (Arguments, error) {
	args := make(Arguments, 0, len(params))
	for _, p := range params {
		t, err := NewType(p.Type, p.Components)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", p.Name, err)
		}
		args = append(args, Argument{Name: p.Name, Type: t, Indexed: p.Indexed})
	}
	return args, nil
}

// UnmarshalJSON implements json.Unmarshaler, resolving the type string of the
// marshaled parameter.
func (argument *Argument) UnmarshalJSON(data []byte) error {
	var arg Parameter
	if err := json.Unmarshal(data, &arg); err != nil {
		return fmt.Errorf("argument json err: %v", err)
	}

	typ, err := NewType(arg.Type, arg.Components)
	if err != nil {
		return err
	}
	argument.Type = typ
	argument.Name = arg.Name
	argument.Indexed = arg.Indexed

	return nil
}

// NonIndexed returns the arguments with indexed arguments filtered out.
func (arguments Arguments) NonIndexed() Arguments {
	var ret []Argument
	for _, arg := range arguments {
		if !arg.Indexed {
			ret = append(ret, arg)
		}
	}
	return ret
}

// Pack performs the operation Go format -> Hexdata.
func (arguments Arguments) Pack(args ...interface{}) ([]byte, error) {
	if len(args) != len(arguments) {
		return nil, fmt.Errorf("abi: argument count mismatch: got %d for %d", len(args), len(arguments))
	}
	// Pre-encode every argument into a head/tail chunk, then lay the chunks
	// out. Offsets can only be written once all preceding tail sizes are
	// known, which the chunk pass gives us without backpatching.
	chunks := make([]chunk, len(arguments))
	for i, arg := range arguments {
		c, err := encodeValue(&arguments[i].Type, args[i])
		if err != nil {
			return nil, fmt.Errorf("abi: cannot encode argument %d (%s): %w", i, arg.Type.String(), err)
		}
		chunks[i] = c
	}
	return combineChunks(chunks), nil
}

// Unpack performs the operation Hexdata -> Go format.
func (arguments Arguments) Unpack(data []byte) ([]interface{}, error) {
	if len(data) == 0 {
		if len(arguments.NonIndexed()) != 0 {
			return nil, errors.New("abi: attempting to unmarshal an empty string while arguments are expected")
		}
		return make([]interface{}, 0), nil
	}
	return arguments.UnpackValues(data)
}

// UnpackValues unpacks the abi-encoded data into a value list matching the
// non-indexed arguments in order.
func (arguments Arguments) UnpackValues(data []byte) ([]interface{}, error) {
	nonIndexedArgs := arguments.NonIndexed()
	retval := make([]interface{}, 0, len(nonIndexedArgs))
	virtualArgs := 0
	for index, arg := range nonIndexedArgs {
		marshalledValue, err := decodeHead(&arg.Type, data, (index+virtualArgs)*32)
		if err != nil {
			return nil, err
		}
		if !arg.Type.dynamic {
			// A static type occupies typeSize bytes in the head, the virtual
			// argument count keeps the 32 byte cursor arithmetic aligned.
			virtualArgs += typeSize(&arg.Type)/32 - 1
		}
		retval = append(retval, marshalledValue)
	}
	return retval, nil
}
