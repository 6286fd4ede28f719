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
	"bytes"
	"math/big"
	"testing"

	"github.com/quaylabs/ethergo/common"
	"github.com/stretchr/testify/require"
)

func mustArguments(t *testing.T, params ...Parameter) Arguments {
	t.Helper()
	args, err := NewArguments(params)
	require.NoError(t, err)
	return args
}

func TestPackSingleStatic(t *testing.T) {
	args := mustArguments(t, Parameter{Name: "x", Type: "uint256"})
	packed, err := args.Pack(big.NewInt(127))
	require.NoError(t, err)
	require.Equal(t, common.FromHex("000000000000000000000000000000000000000000000000000000000000007f"), packed)
}

func TestPackDynamicString(t *testing.T) {
	args := mustArguments(t, Parameter{Name: "s", Type: "string"})
	packed, err := args.Pack("dog")
	require.NoError(t, err)
	want := common.FromHex(
		"0000000000000000000000000000000000000000000000000000000000000020" + // offset
			"0000000000000000000000000000000000000000000000000000000000000003" + // length
			"646f670000000000000000000000000000000000000000000000000000000000") // "dog" padded
	require.Equal(t, want, packed)
}

func TestPackDynamicArray(t *testing.T) {
	args := mustArguments(t, Parameter{Name: "xs", Type: "uint256[]"})
	packed, err := args.Pack([]*big.Int{big.NewInt(1), big.NewInt(2)})
	require.NoError(t, err)
	want := common.FromHex(
		"0000000000000000000000000000000000000000000000000000000000000020" +
			"0000000000000000000000000000000000000000000000000000000000000002" +
			"0000000000000000000000000000000000000000000000000000000000000001" +
			"0000000000000000000000000000000000000000000000000000000000000002")
	require.Equal(t, want, packed)
	// the value encoding itself is count word plus two element words
	require.Len(t, packed[32:], 96)
}

func TestPackElementary(t *testing.T) {
	tests := []struct {
		typ   string
		value interface{}
		want  string
	}{
		{"bool", true, "0000000000000000000000000000000000000000000000000000000000000001"},
		{"bool", false, "0000000000000000000000000000000000000000000000000000000000000000"},
		{"uint8", big.NewInt(255), "00000000000000000000000000000000000000000000000000000000000000ff"},
		{"int8", big.NewInt(-1), "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
		{"int256", big.NewInt(-2), "fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffe"},
		{"address", common.HexToAddress("0x1122334455667788990011223344556677889900"),
			"0000000000000000000000001122334455667788990011223344556677889900"},
		// fixed bytes are left aligned with zero padding on the right
		{"bytes1", []byte{0xcf}, "cf00000000000000000000000000000000000000000000000000000000000000"},
		{"bytes4", [4]byte{0xde, 0xad, 0xbe, 0xef}, "deadbeef00000000000000000000000000000000000000000000000000000000"},
		// enums encode as uint8
		{"Direction", uint8(2), "0000000000000000000000000000000000000000000000000000000000000002"},
	}
	for _, tt := range tests {
		args := mustArguments(t, Parameter{Name: "v", Type: tt.typ})
		packed, err := args.Pack(tt.value)
		require.NoError(t, err, "type %s", tt.typ)
		require.Equal(t, common.FromHex(tt.want), packed, "type %s", tt.typ)
	}
}

func TestPackStaticComposite(t *testing.T) {
	// fixed arrays and all-static tuples are concatenated in place, no
	// length and no offsets
	args := mustArguments(t, Parameter{Name: "xs", Type: "uint256[2]"})
	packed, err := args.Pack([]*big.Int{big.NewInt(1), big.NewInt(2)})
	require.NoError(t, err)
	want := common.FromHex(
		"0000000000000000000000000000000000000000000000000000000000000001" +
			"0000000000000000000000000000000000000000000000000000000000000002")
	require.Equal(t, want, packed)

	args = mustArguments(t, Parameter{Name: "t", Type: "tuple", Components: []Parameter{
		{Name: "a", Type: "uint256"},
		{Name: "b", Type: "bool"},
	}})
	packed, err = args.Pack([]interface{}{big.NewInt(5), true})
	require.NoError(t, err)
	want = common.FromHex(
		"0000000000000000000000000000000000000000000000000000000000000005" +
			"0000000000000000000000000000000000000000000000000000000000000001")
	require.Equal(t, want, packed)
}

func TestPackFixedArrayOfStrings(t *testing.T) {
	// fixed array with a dynamic element becomes dynamic, laid out with
	// relative offsets but no count word
	args := mustArguments(t, Parameter{Name: "xs", Type: "string[2]"})
	packed, err := args.Pack([]string{"hi", "bye"})
	require.NoError(t, err)
	want := common.FromHex(
		"0000000000000000000000000000000000000000000000000000000000000020" + // top level offset
			"0000000000000000000000000000000000000000000000000000000000000040" + // offset of "hi"
			"0000000000000000000000000000000000000000000000000000000000000080" + // offset of "bye"
			"0000000000000000000000000000000000000000000000000000000000000002" +
			"6869000000000000000000000000000000000000000000000000000000000000" +
			"0000000000000000000000000000000000000000000000000000000000000003" +
			"6279650000000000000000000000000000000000000000000000000000000000")
	require.Equal(t, want, packed)
}

func TestPackNestedDynamic(t *testing.T) {
	// sam("dave",true,[1,2,3]) from the canonical ABI documentation, minus
	// the selector
	args := mustArguments(t,
		Parameter{Name: "s", Type: "bytes"},
		Parameter{Name: "b", Type: "bool"},
		Parameter{Name: "xs", Type: "uint256[]"},
	)
	packed, err := args.Pack([]byte("dave"), true, []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)})
	require.NoError(t, err)
	want := common.FromHex(
		"0000000000000000000000000000000000000000000000000000000000000060" +
			"0000000000000000000000000000000000000000000000000000000000000001" +
			"00000000000000000000000000000000000000000000000000000000000000a0" +
			"0000000000000000000000000000000000000000000000000000000000000004" +
			"6461766500000000000000000000000000000000000000000000000000000000" +
			"0000000000000000000000000000000000000000000000000000000000000003" +
			"0000000000000000000000000000000000000000000000000000000000000001" +
			"0000000000000000000000000000000000000000000000000000000000000002" +
			"0000000000000000000000000000000000000000000000000000000000000003")
	require.Equal(t, want, packed)
}

func TestPackWordAlignment(t *testing.T) {
	grids := []struct {
		params []Parameter
		values []interface{}
	}{
		{[]Parameter{{Name: "a", Type: "uint64"}}, []interface{}{uint64(9)}},
		{[]Parameter{{Name: "a", Type: "string"}}, []interface{}{"odd length payload"}},
		{[]Parameter{{Name: "a", Type: "bytes"}}, []interface{}{make([]byte, 33)}},
		{[]Parameter{{Name: "a", Type: "uint8[3]"}, {Name: "b", Type: "string"}},
			[]interface{}{[]*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)}, "x"}},
	}
	for _, grid := range grids {
		args := mustArguments(t, grid.params...)
		packed, err := args.Pack(grid.values...)
		require.NoError(t, err)
		require.Zero(t, len(packed)%32, "encoding must be word aligned")
	}
}

func TestPackStaticSizing(t *testing.T) {
	// a parameter list without dynamic types encodes to exactly the sum of
	// the head sizes
	args := mustArguments(t,
		Parameter{Name: "a", Type: "uint256"},
		Parameter{Name: "b", Type: "bool"},
		Parameter{Name: "c", Type: "uint64[2]"},
	)
	packed, err := args.Pack(big.NewInt(1), true, []uint64{2, 3})
	require.NoError(t, err)
	require.Equal(t, 32+32+64, len(packed))
}

func TestPackOffsetMonotonicity(t *testing.T) {
	args := mustArguments(t,
		Parameter{Name: "a", Type: "string"},
		Parameter{Name: "b", Type: "string"},
		Parameter{Name: "c", Type: "string"},
	)
	packed, err := args.Pack("first", "second", "third")
	require.NoError(t, err)
	prev := 0
	for i := 0; i < 3; i++ {
		offset, err := decodeWordInt(packed[i*32 : i*32+32])
		require.NoError(t, err)
		require.GreaterOrEqual(t, offset, 3*32, "offset must point past the head")
		require.Greater(t, offset, prev, "tail data must be laid out in head order")
		prev = offset
	}
}

func TestPackRangeChecks(t *testing.T) {
	tests := []struct {
		typ   string
		value interface{}
	}{
		{"uint8", big.NewInt(256)},
		{"uint8", big.NewInt(-1)},
		{"int8", big.NewInt(128)},
		{"int8", big.NewInt(-129)},
		{"uint64", new(big.Int).Lsh(big.NewInt(1), 64)},
	}
	for _, tt := range tests {
		args := mustArguments(t, Parameter{Name: "v", Type: tt.typ})
		_, err := args.Pack(tt.value)
		require.Error(t, err, "value %v should not fit %s", tt.value, tt.typ)
	}

	// boundary values must still pack
	args := mustArguments(t, Parameter{Name: "v", Type: "int8"})
	_, err := args.Pack(big.NewInt(-128))
	require.NoError(t, err)
	_, err = args.Pack(big.NewInt(127))
	require.NoError(t, err)
}

func TestPackTypeMismatch(t *testing.T) {
	args := mustArguments(t, Parameter{Name: "v", Type: "bool"})
	_, err := args.Pack("not a bool")
	require.Error(t, err)

	args = mustArguments(t, Parameter{Name: "v", Type: "bytes4"})
	_, err = args.Pack([]byte{1, 2, 3, 4, 5})
	require.Error(t, err, "oversized fixed bytes payload must be rejected")

	args = mustArguments(t, Parameter{Name: "v", Type: "uint256[2]"})
	_, err = args.Pack([]*big.Int{big.NewInt(1)})
	require.Error(t, err, "length mismatch for fixed array must be rejected")

	args = mustArguments(t, Parameter{Name: "v", Type: "tuple", Components: []Parameter{{Name: "a", Type: "uint256"}}})
	_, err = args.Pack([]interface{}{big.NewInt(1), big.NewInt(2)})
	require.Error(t, err, "tuple field count mismatch must be rejected")
}

func TestPackArgumentCountMismatch(t *testing.T) {
	args := mustArguments(t, Parameter{Name: "a", Type: "uint256"}, Parameter{Name: "b", Type: "uint256"})
	if _, err := args.Pack(big.NewInt(1)); err == nil {
		t.Fatal("expected argument count mismatch error")
	}
}

func TestPackedBytesAreFresh(t *testing.T) {
	// encoding must not alias the caller's buffers
	args := mustArguments(t, Parameter{Name: "v", Type: "bytes"})
	payload := []byte{1, 2, 3}
	packed, err := args.Pack(payload)
	require.NoError(t, err)
	payload[0] = 9
	require.True(t, bytes.Equal(packed[64:67], []byte{1, 2, 3}))
}
