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
	"testing"
)

func TestTypeRegexp(t *testing.T) {
	tests := []struct {
		blob       string
		components []Parameter
		kind       byte
		size       int
		str        string
		dynamic    bool
	}{
		{"bool", nil, BoolTy, 0, "bool", false},
		{"bool[]", nil, SliceTy, 0, "bool[]", true},
		{"bool[2]", nil, ArrayTy, 2, "bool[2]", false},
		{"bool[2][]", nil, SliceTy, 0, "bool[2][]", true},
		{"bool[][2]", nil, ArrayTy, 2, "bool[][2]", true},
		{"address", nil, AddressTy, 20, "address", false},
		{"address[2]", nil, ArrayTy, 2, "address[2]", false},
		{"uint8", nil, UintTy, 8, "uint8", false},
		{"uint256", nil, UintTy, 256, "uint256", false},
		{"uint", nil, UintTy, 256, "uint256", false},
		{"int", nil, IntTy, 256, "int256", false},
		{"int64", nil, IntTy, 64, "int64", false},
		{"string", nil, StringTy, 0, "string", true},
		{"bytes", nil, BytesTy, 0, "bytes", true},
		{"bytes32", nil, FixedBytesTy, 32, "bytes32", false},
		{"bytes1[]", nil, SliceTy, 0, "bytes1[]", true},
		{"string[2]", nil, ArrayTy, 2, "string[2]", true},
		{"MyEnum", nil, EnumTy, 8, "uint8", false},
		// identifiers that merely start with a builtin name are enums
		{"intervalKind", nil, EnumTy, 8, "uint8", false},
		{"uintx", nil, EnumTy, 8, "uint8", false},
		{"bytesKind", nil, EnumTy, 8, "uint8", false},
		{"tuple", []Parameter{{Name: "a", Type: "uint256"}}, TupleTy, 0, "(uint256)", false},
		{"tuple", []Parameter{{Name: "a", Type: "uint256"}, {Name: "b", Type: "string"}}, TupleTy, 0, "(uint256,string)", true},
		{"tuple[]", []Parameter{{Name: "a", Type: "int64"}}, SliceTy, 0, "(int64)[]", true},
		{"tuple[2]", []Parameter{{Name: "a", Type: "int64"}}, ArrayTy, 2, "(int64)[2]", false},
	}
	for _, tt := range tests {
		typ, err := NewType(tt.blob, tt.components)
		if err != nil {
			t.Fatalf("type %q: unexpected error %v", tt.blob, err)
		}
		if typ.T != tt.kind {
			t.Errorf("type %q: wrong kind, got %d want %d", tt.blob, typ.T, tt.kind)
		}
		if typ.Size != tt.size {
			t.Errorf("type %q: wrong size, got %d want %d", tt.blob, typ.Size, tt.size)
		}
		if typ.String() != tt.str {
			t.Errorf("type %q: wrong canonical string, got %q want %q", tt.blob, typ.String(), tt.str)
		}
		if typ.IsDynamic() != tt.dynamic {
			t.Errorf("type %q: wrong dynamic classification, got %v want %v", tt.blob, typ.IsDynamic(), tt.dynamic)
		}
	}
}

func TestInvalidType(t *testing.T) {
	for _, blob := range []string{
		"",
		"uint256[",
		"uint256[2",
		"uint256[a]",
		"uint256[-1]",
		"uint256[0]",
		"uint7",
		"uint264",
		"int0",
		"bytes0",
		"bytes33",
		"my enum",
		"[]",
	} {
		if _, err := NewType(blob, nil); err == nil {
			t.Errorf("type %q: expected parse error", blob)
		}
	}
}

func TestTypeSize(t *testing.T) {
	tests := []struct {
		blob       string
		components []Parameter
		size       int
	}{
		{"uint256", nil, 32},
		{"bool", nil, 32},
		{"uint256[2]", nil, 64},
		{"uint256[2][3]", nil, 192},
		{"tuple", []Parameter{{Name: "a", Type: "uint256"}, {Name: "b", Type: "address"}}, 64},
		{"tuple[2]", []Parameter{{Name: "a", Type: "uint64"}}, 64},
		// dynamic types occupy a single offset slot
		{"string", nil, 32},
		{"uint256[]", nil, 32},
		{"tuple", []Parameter{{Name: "a", Type: "bytes"}}, 32},
	}
	for _, tt := range tests {
		typ, err := NewType(tt.blob, tt.components)
		if err != nil {
			t.Fatalf("type %q: unexpected error %v", tt.blob, err)
		}
		if got := typeSize(&typ); got != tt.size {
			t.Errorf("type %q: wrong head size, got %d want %d", tt.blob, got, tt.size)
		}
	}
}

func TestNestedDynamicClassification(t *testing.T) {
	// A fixed array is dynamic iff its element is; a tuple is dynamic iff
	// any member is, transitively.
	typ, err := NewType("tuple[3]", []Parameter{
		{Name: "xs", Type: "uint256[2]"},
		{Name: "tag", Type: "bytes"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !typ.IsDynamic() {
		t.Error("tuple[3] containing bytes should be dynamic")
	}

	typ, err = NewType("tuple[3]", []Parameter{
		{Name: "xs", Type: "uint256[2]"},
		{Name: "tag", Type: "bytes4"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if typ.IsDynamic() {
		t.Error("tuple[3] of static members should be static")
	}
}
