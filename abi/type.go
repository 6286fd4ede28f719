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
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Type enumerator
const (
	UintTy byte = iota
	IntTy
	BoolTy
	StringTy
	SliceTy
	ArrayTy
	TupleTy
	AddressTy
	FixedBytesTy
	BytesTy
	EnumTy
)

// Type is the resolved representation of a Solidity parameter type. It forms
// a recursive tree: array types hold their element type behind Elem, tuple
// types enumerate their components in TupleElems.
//
// A Type is immutable once constructed and may be shared freely between
// goroutines.
type Type struct {
	Elem *Type // element type of a slice or array
	Size int   // bit width for int/uint/enum, byte count for fixed bytes, length for arrays
	T    byte  // our own type checking

	stringKind string // holds the canonical string for deriving signatures
	dynamic    bool   // cached head/tail classification, computed on construction

	// Tuple relative fields
	TupleElems    []*Type  // type information of all tuple fields
	TupleRawNames []string // raw field name of all tuple fields
}

// NewType resolves the given Solidity type string into a Type. Tuple types
// require the components list describing their fields; it is passed through
// to the element type for arrays of tuples.
func NewType(t string, components []Parameter) (typ Type, err error) {
	if t == "" {
		return Type{}, errors.New("abi: empty type string")
	}
	// Array suffixes are stripped from the right, so "uint256[3][]" parses
	// as a slice whose element is uint256[3].
	if strings.HasSuffix(t, "]") {
		i := strings.LastIndex(t, "[")
		if i == -1 {
			return Type{}, fmt.Errorf("abi: unmatched bracket in type %q", t)
		}
		embeddedType, err := NewType(t[:i], components)
		if err != nil {
			return Type{}, err
		}
		inner := t[i+1 : len(t)-1]
		typ.Elem = &embeddedType
		if inner == "" {
			typ.T = SliceTy
			typ.stringKind = embeddedType.stringKind + "[]"
			typ.dynamic = true
		} else {
			size, err := strconv.Atoi(inner)
			if err != nil {
				return Type{}, fmt.Errorf("abi: invalid array size in type %q", t)
			}
			if size <= 0 {
				return Type{}, fmt.Errorf("abi: array size must be positive in type %q", t)
			}
			typ.T = ArrayTy
			typ.Size = size
			typ.stringKind = embeddedType.stringKind + "[" + inner + "]"
			typ.dynamic = embeddedType.dynamic
		}
		return typ, nil
	}

	switch {
	case t == "address":
		typ.T = AddressTy
		typ.Size = 20
		typ.stringKind = "address"
	case t == "bool":
		typ.T = BoolTy
		typ.stringKind = "bool"
	case t == "string":
		typ.T = StringTy
		typ.stringKind = "string"
		typ.dynamic = true
	case t == "bytes":
		typ.T = BytesTy
		typ.stringKind = "bytes"
		typ.dynamic = true
	case t == "tuple":
		if err := resolveTuple(&typ, components); err != nil {
			return Type{}, err
		}
	case t == "uint" || t == "int":
		// canonical aliases for the 256 bit forms
		typ.Size = 256
		if t == "uint" {
			typ.T = UintTy
			typ.stringKind = "uint256"
		} else {
			typ.T = IntTy
			typ.stringKind = "int256"
		}
	// A digit suffix selects the sized forms. Other suffixes (e.g. an enum
	// named "intervalKind") fall through to the enum rule below.
	case strings.HasPrefix(t, "uint") && allDigits(t[4:]):
		size, err := parseBitSize(t[4:], t)
		if err != nil {
			return Type{}, err
		}
		typ.T = UintTy
		typ.Size = size
		typ.stringKind = t
	case strings.HasPrefix(t, "int") && allDigits(t[3:]):
		size, err := parseBitSize(t[3:], t)
		if err != nil {
			return Type{}, err
		}
		typ.T = IntTy
		typ.Size = size
		typ.stringKind = t
	case strings.HasPrefix(t, "bytes") && allDigits(t[5:]):
		size, err := strconv.Atoi(t[5:])
		if err != nil {
			return Type{}, fmt.Errorf("abi: invalid fixed bytes size in type %q", t)
		}
		if size < 1 || size > 32 {
			return Type{}, fmt.Errorf("abi: fixed bytes size out of range in type %q", t)
		}
		typ.T = FixedBytesTy
		typ.Size = size
		typ.stringKind = t
	default:
		// Anything else is taken for a user defined Solidity enum, which the
		// ABI encodes as uint8.
		if !isIdentifier(t) {
			return Type{}, fmt.Errorf("abi: unsupported arg type: %s", t)
		}
		typ.T = EnumTy
		typ.Size = 8
		typ.stringKind = "uint8"
	}
	return typ, nil
}

func resolveTuple(typ *Type, components []Parameter) error {
	var (
		elems      []*Type
		names      []string
		expression string // canonical parameter expression
	)
	expression += "("
	for idx, c := range components {
		cType, err := NewType(c.Type, c.Components)
		if err != nil {
			return err
		}
		elems = append(elems, &cType)
		names = append(names, c.Name)
		if cType.dynamic {
			typ.dynamic = true
		}
		expression += cType.stringKind
		if idx != len(components)-1 {
			expression += ","
		}
	}
	expression += ")"
	typ.T = TupleTy
	typ.TupleElems = elems
	typ.TupleRawNames = names
	typ.stringKind = expression
	return nil
}

func parseBitSize(digits, whole string) (int, error) {
	size, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("abi: invalid bit width in type %q", whole)
	}
	if size%8 != 0 || size < 8 || size > 256 {
		return 0, fmt.Errorf("abi: bit width must be a multiple of 8 in [8,256] in type %q", whole)
	}
	return size, nil
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

func isIdentifier(s string) bool {
	for i, c := range s {
		switch {
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '$':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return len(s) > 0
}

// String implements Stringer. It returns the canonical type expression used
// in function and event signatures.
func (t Type) String() string {
	return t.stringKind
}

// IsDynamic reports whether the encoded form of the type has variable size.
// The following types are "dynamic":
// * bytes
// * string
// * T[] for any T
// * T[k] for any dynamic T and any k > 0
// * (T1,...,Tk) if Ti is dynamic for some 1 <= i <= k
func (t Type) IsDynamic() bool {
	return t.dynamic
}

// typeSize returns the number of bytes the type occupies in the head region.
// Static types are encoded in place and occupy their full encoding; dynamic
// types occupy a single 32 byte offset slot.
func typeSize(t *Type) int {
	if t.dynamic {
		return 32
	}
	switch t.T {
	case ArrayTy:
		return t.Size * typeSize(t.Elem)
	case TupleTy:
		total := 0
		for _, elem := range t.TupleElems {
			total += typeSize(elem)
		}
		return total
	default:
		return 32
	}
}
