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

// Package rlp implements the RLP serialization format.
//
// The package provides an explicit encoder buffer rather than a reflection
// driven codec: callers write values and open/close lists in encoding order.
// This covers everything transaction construction needs while keeping the
// encoder allocation-free on the hot path.
package rlp

import (
	"io"
	"math/big"

	"github.com/holiman/uint256"
)

// EmptyString is the encoding of an empty string.
var EmptyString = []byte{0x80}

// EmptyList is the encoding of an empty list.
var EmptyList = []byte{0xC0}

// EncoderBuffer is a buffer for incremental encoding.
//
// The zero value is ready for use. To reuse a buffer after encoding, call
// Reset.
type EncoderBuffer struct {
	str     []byte     // string data, contains everything except list headers
	lheads  []listhead // all list headers
	lhsize  int        // sum of sizes of all encoded list headers
	lhstack []int      // stack of open list header indexes
	sizebuf [9]byte    // auxiliary buffer for uint encoding
}

type listhead struct {
	offset int // index of this header in string data
	size   int // total size of encoded data (including list headers)
}

// encode writes head to the given buffer, which must be at least 9 bytes long.
// It returns the encoded bytes.
func (head *listhead) encode(buf []byte) []byte {
	return buf[:puthead(buf, 0xC0, 0xF7, uint64(head.size))]
}

// puthead writes a list or string header to buf.
// buf must be at least 9 bytes long.
func puthead(buf []byte, smalltag, largetag byte, size uint64) int {
	if size < 56 {
		buf[0] = smalltag + byte(size)
		return 1
	}
	sizesize := putint(buf[1:], size)
	buf[0] = largetag + byte(sizesize)
	return sizesize + 1
}

// Reset truncates the buffer.
func (buf *EncoderBuffer) Reset() {
	buf.str = buf.str[:0]
	buf.lheads = buf.lheads[:0]
	buf.lhstack = buf.lhstack[:0]
	buf.lhsize = 0
}

// size returns the length of the encoded data.
func (buf *EncoderBuffer) size() int {
	return len(buf.str) + buf.lhsize
}

// Bytes returns the encoded bytes.
func (buf *EncoderBuffer) Bytes() []byte {
	out := make([]byte, buf.size())
	strpos := 0
	pos := 0
	for _, head := range buf.lheads {
		// write string data before header
		n := copy(out[pos:], buf.str[strpos:head.offset])
		pos += n
		strpos += n
		// write the header
		enc := head.encode(out[pos:])
		pos += len(enc)
	}
	// copy string data after the last list header
	copy(out[pos:], buf.str[strpos:])
	return out
}

// WriteTo writes the encoded bytes to w.
func (buf *EncoderBuffer) WriteTo(w io.Writer) (wrote int64, err error) {
	strpos := 0
	for _, head := range buf.lheads {
		// write string data before header
		if head.offset-strpos > 0 {
			n, err := w.Write(buf.str[strpos:head.offset])
			wrote += int64(n)
			if err != nil {
				return wrote, err
			}
			strpos += n
		}
		// write the header
		var enc [9]byte
		n, err := w.Write(head.encode(enc[:]))
		wrote += int64(n)
		if err != nil {
			return wrote, err
		}
	}
	if strpos < len(buf.str) {
		// write string data after the last list header
		n, err := w.Write(buf.str[strpos:])
		wrote += int64(n)
		if err != nil {
			return wrote, err
		}
	}
	return wrote, nil
}

// Write implements io.Writer and appends b directly to the output,
// without a string header. Use this for envelope bytes such as the
// transaction type prefix.
func (buf *EncoderBuffer) Write(b []byte) (int, error) {
	buf.str = append(buf.str, b...)
	return len(b), nil
}

// WriteBool writes b as the integer 0 (false) or 1 (true).
func (buf *EncoderBuffer) WriteBool(b bool) {
	if b {
		buf.str = append(buf.str, 0x01)
	} else {
		buf.str = append(buf.str, 0x80)
	}
}

// WriteUint64 encodes an unsigned integer.
func (buf *EncoderBuffer) WriteUint64(i uint64) {
	if i == 0 {
		buf.str = append(buf.str, 0x80)
	} else if i < 128 {
		// fits single byte
		buf.str = append(buf.str, byte(i))
	} else {
		s := putint(buf.sizebuf[:], i)
		buf.str = append(buf.str, byte(0x80+s))
		buf.str = append(buf.str, buf.sizebuf[:s]...)
	}
}

// WriteBigInt encodes a big.Int as an RLP string.
// The value i must not be negative.
func (buf *EncoderBuffer) WriteBigInt(i *big.Int) {
	bitlen := i.BitLen()
	if bitlen <= 64 {
		buf.WriteUint64(i.Uint64())
		return
	}
	// Integer is larger than 64 bits, encode from i.Bits().
	// The minimal byte length is bitlen rounded up to the next
	// multiple of 8, divided by 8.
	length := ((bitlen + 7) & -8) >> 3
	buf.encodeStringHeader(length)
	buf.str = append(buf.str, make([]byte, length)...)
	index := length
	bytesBuf := buf.str[len(buf.str)-length:]
	for _, d := range i.Bits() {
		for j := 0; j < wordBytes && index > 0; j++ {
			index--
			bytesBuf[index] = byte(d)
			d >>= 8
		}
	}
}

// WriteUint256 encodes uint256.Int as an RLP string.
func (buf *EncoderBuffer) WriteUint256(i *uint256.Int) {
	bitlen := i.BitLen()
	if bitlen <= 64 {
		buf.WriteUint64(i.Uint64())
		return
	}
	nBytes := byte((bitlen + 7) / 8)
	var b [33]byte
	i.WriteToArray32((*[32]byte)(b[1:]))
	b[32-nBytes] = 0x80 + nBytes
	buf.str = append(buf.str, b[32-nBytes:]...)
}

// WriteBytes encodes b as an RLP string.
func (buf *EncoderBuffer) WriteBytes(b []byte) {
	if len(b) == 1 && b[0] <= 0x7F {
		// fits single byte, no string header
		buf.str = append(buf.str, b[0])
	} else {
		buf.encodeStringHeader(len(b))
		buf.str = append(buf.str, b...)
	}
}

// WriteString encodes s as an RLP string.
func (buf *EncoderBuffer) WriteString(s string) {
	buf.WriteBytes([]byte(s))
}

// List adds a new list header to the header stack. It returns the index of
// the header. Call ListEnd with this index after encoding the content of the
// list.
func (buf *EncoderBuffer) List() int {
	buf.lheads = append(buf.lheads, listhead{offset: len(buf.str), size: buf.lhsize})
	buf.lhstack = append(buf.lhstack, len(buf.lheads)-1)
	return len(buf.lheads) - 1
}

// ListEnd should be called after encoding the content of a list.
func (buf *EncoderBuffer) ListEnd(index int) {
	buf.lhstack = buf.lhstack[:len(buf.lhstack)-1]
	jl := &buf.lheads[index]
	jl.size = buf.size() - jl.offset - jl.size
	if jl.size < 56 {
		buf.lhsize++ // length encoded into kind tag
	} else {
		buf.lhsize += 1 + intsize(uint64(jl.size))
	}
}

func (buf *EncoderBuffer) encodeStringHeader(size int) {
	if size < 56 {
		buf.str = append(buf.str, 0x80+byte(size))
	} else {
		sizesize := putint(buf.sizebuf[:], uint64(size))
		buf.str = append(buf.str, byte(0xB7+sizesize))
		buf.str = append(buf.str, buf.sizebuf[:sizesize]...)
	}
}

const wordBytes = (32 << (uint64(^big.Word(0)) >> 63)) / 8

// putint writes i to the beginning of b in big endian byte
// order, using the least number of bytes needed to represent i.
func putint(b []byte, i uint64) (size int) {
	switch {
	case i < (1 << 8):
		b[0] = byte(i)
		return 1
	case i < (1 << 16):
		b[0] = byte(i >> 8)
		b[1] = byte(i)
		return 2
	case i < (1 << 24):
		b[0] = byte(i >> 16)
		b[1] = byte(i >> 8)
		b[2] = byte(i)
		return 3
	case i < (1 << 32):
		b[0] = byte(i >> 24)
		b[1] = byte(i >> 16)
		b[2] = byte(i >> 8)
		b[3] = byte(i)
		return 4
	case i < (1 << 40):
		b[0] = byte(i >> 32)
		b[1] = byte(i >> 24)
		b[2] = byte(i >> 16)
		b[3] = byte(i >> 8)
		b[4] = byte(i)
		return 5
	case i < (1 << 48):
		b[0] = byte(i >> 40)
		b[1] = byte(i >> 32)
		b[2] = byte(i >> 24)
		b[3] = byte(i >> 16)
		b[4] = byte(i >> 8)
		b[5] = byte(i)
		return 6
	case i < (1 << 56):
		b[0] = byte(i >> 48)
		b[1] = byte(i >> 40)
		b[2] = byte(i >> 32)
		b[3] = byte(i >> 24)
		b[4] = byte(i >> 16)
		b[5] = byte(i >> 8)
		b[6] = byte(i)
		return 7
	default:
		b[0] = byte(i >> 56)
		b[1] = byte(i >> 48)
		b[2] = byte(i >> 40)
		b[3] = byte(i >> 32)
		b[4] = byte(i >> 24)
		b[5] = byte(i >> 16)
		b[6] = byte(i >> 8)
		b[7] = byte(i)
		return 8
	}
}

// intsize computes the minimum number of bytes required to store i.
func intsize(i uint64) (size int) {
	for size = 1; ; size++ {
		if i >>= 8; i == 0 {
			return size
		}
	}
}
