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

package rlp

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/holiman/uint256"
)

func unhex(s string) []byte {
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		panic("invalid hex: " + s)
	}
	return b
}

func TestWriteBytes(t *testing.T) {
	tests := []struct {
		input []byte
		want  string
	}{
		{[]byte{}, "80"},
		{[]byte{0x00}, "00"},
		{[]byte{0x7f}, "7f"},
		{[]byte{0x80}, "8180"},
		{[]byte("dog"), "83646f67"},
		{[]byte("Lorem ipsum dolor sit amet, consectetur adipisicing elit"),
			"b8384c6f72656d20697073756d20646f6c6f722073697420616d65742c20636f6e7365637465747572206164697069736963696e6720656c6974"},
	}
	for _, tt := range tests {
		var buf EncoderBuffer
		buf.Reset()
		buf.WriteBytes(tt.input)
		if got := buf.Bytes(); !bytes.Equal(got, unhex(tt.want)) {
			t.Errorf("WriteBytes(%x): got %x want %s", tt.input, got, tt.want)
		}
	}
}

func TestWriteUint64(t *testing.T) {
	tests := []struct {
		input uint64
		want  string
	}{
		{0, "80"},
		{15, "0f"},
		{127, "7f"},
		{128, "8180"},
		{256, "820100"},
		{1024, "820400"},
		{0xFFFFFF, "83ffffff"},
		{0xFFFFFFFFFFFFFF, "87ffffffffffffff"},
	}
	for _, tt := range tests {
		var buf EncoderBuffer
		buf.Reset()
		buf.WriteUint64(tt.input)
		if got := buf.Bytes(); !bytes.Equal(got, unhex(tt.want)) {
			t.Errorf("WriteUint64(%d): got %x want %s", tt.input, got, tt.want)
		}
	}
}

func TestWriteBigInt(t *testing.T) {
	tests := []struct {
		input *big.Int
		want  string
	}{
		{big.NewInt(0), "80"},
		{big.NewInt(1), "01"},
		{big.NewInt(127), "7f"},
		{big.NewInt(128), "8180"},
		{big.NewInt(0xFFFFFF), "83ffffff"},
		{new(big.Int).SetBytes(unhex("102030405060708090a0b0c0d0e0f2")),
			"8f102030405060708090a0b0c0d0e0f2"},
		{new(big.Int).SetBytes(unhex("0100020003000400050006000700080009000a000b000c000d000e01")),
			"9c0100020003000400050006000700080009000a000b000c000d000e01"},
	}
	for _, tt := range tests {
		var buf EncoderBuffer
		buf.Reset()
		buf.WriteBigInt(tt.input)
		if got := buf.Bytes(); !bytes.Equal(got, unhex(tt.want)) {
			t.Errorf("WriteBigInt(%v): got %x want %s", tt.input, got, tt.want)
		}
	}
}

func TestWriteUint256(t *testing.T) {
	tests := []struct {
		input *uint256.Int
		want  string
	}{
		{uint256.NewInt(0), "80"},
		{uint256.NewInt(1), "01"},
		{uint256.NewInt(128), "8180"},
		{uint256.MustFromHex("0x102030405060708090a0b0c0d0e0f2"),
			"8f102030405060708090a0b0c0d0e0f2"},
	}
	for _, tt := range tests {
		var buf EncoderBuffer
		buf.Reset()
		buf.WriteUint256(tt.input)
		if got := buf.Bytes(); !bytes.Equal(got, unhex(tt.want)) {
			t.Errorf("WriteUint256(%v): got %x want %s", tt.input, got, tt.want)
		}
	}
}

func TestLists(t *testing.T) {
	// []
	var buf EncoderBuffer
	buf.Reset()
	l := buf.List()
	buf.ListEnd(l)
	if got := buf.Bytes(); !bytes.Equal(got, unhex("c0")) {
		t.Errorf("empty list: got %x want c0", got)
	}

	// ["cat", "dog"]
	buf.Reset()
	l = buf.List()
	buf.WriteString("cat")
	buf.WriteString("dog")
	buf.ListEnd(l)
	if got := buf.Bytes(); !bytes.Equal(got, unhex("c88363617483646f67")) {
		t.Errorf("string list: got %x", got)
	}

	// [ [], [[]], [ [], [[]] ] ]
	buf.Reset()
	outer := buf.List()
	a := buf.List()
	buf.ListEnd(a)
	b := buf.List()
	b1 := buf.List()
	buf.ListEnd(b1)
	buf.ListEnd(b)
	c := buf.List()
	c1 := buf.List()
	buf.ListEnd(c1)
	c2 := buf.List()
	c21 := buf.List()
	buf.ListEnd(c21)
	buf.ListEnd(c2)
	buf.ListEnd(c)
	buf.ListEnd(outer)
	if got := buf.Bytes(); !bytes.Equal(got, unhex("c7c0c1c0c3c0c1c0")) {
		t.Errorf("set theoretical representation of three: got %x want c7c0c1c0c3c0c1c0", got)
	}
}

func TestLongList(t *testing.T) {
	// a list whose payload exceeds 55 bytes needs a multi-byte header
	var buf EncoderBuffer
	buf.Reset()
	l := buf.List()
	for i := 0; i < 60; i++ {
		buf.WriteUint64(uint64(i))
	}
	buf.ListEnd(l)
	out := buf.Bytes()
	if out[0] != 0xf8 {
		t.Errorf("long list header: got %#x want 0xf8", out[0])
	}
	if int(out[1]) != len(out)-2 {
		t.Errorf("long list size: got %d want %d", out[1], len(out)-2)
	}
}

func TestWriteTo(t *testing.T) {
	var buf EncoderBuffer
	buf.Reset()
	l := buf.List()
	buf.WriteString("cat")
	buf.WriteUint64(1024)
	buf.ListEnd(l)

	var w bytes.Buffer
	n, err := buf.WriteTo(&w)
	if err != nil {
		t.Fatal(err)
	}
	if int(n) != len(buf.Bytes()) {
		t.Errorf("WriteTo wrote %d bytes, Bytes has %d", n, len(buf.Bytes()))
	}
	if !bytes.Equal(w.Bytes(), buf.Bytes()) {
		t.Errorf("WriteTo output %x differs from Bytes %x", w.Bytes(), buf.Bytes())
	}
}

func TestRawWrite(t *testing.T) {
	// raw bytes pass through without a header, as used for typed tx
	// envelopes
	var buf EncoderBuffer
	buf.Reset()
	buf.Write([]byte{0x02})
	l := buf.List()
	buf.WriteUint64(1)
	buf.ListEnd(l)
	if got := buf.Bytes(); !bytes.Equal(got, unhex("02c101")) {
		t.Errorf("raw write: got %x want 02c101", got)
	}
}

func TestReset(t *testing.T) {
	var buf EncoderBuffer
	buf.Reset()
	buf.WriteString("junk that should vanish")
	buf.Reset()
	buf.WriteBool(true)
	if got := buf.Bytes(); !bytes.Equal(got, []byte{0x01}) {
		t.Errorf("after reset: got %x want 01", got)
	}
	buf.Reset()
	buf.WriteBool(false)
	if got := buf.Bytes(); !bytes.Equal(got, []byte{0x80}) {
		t.Errorf("false: got %x want 80", got)
	}
}
