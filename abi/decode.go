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
	"fmt"
	"math/big"
	"reflect"

	"github.com/quaylabs/ethergo/common"
)

// decodeHead reads the value of type t whose head slot starts at
// region[index]. Static values are read in place; for dynamic values the head
// slot holds a byte offset, relative to the start of region, where the value's
// own encoding begins.
func decodeHead(t *Type, region []byte, index int) (interface{}, error) {
	if !t.dynamic {
		return decodeStatic(t, region, index)
	}
	if index+32 > len(region) {
		return nil, fmt.Errorf("abi: buffer too short for offset slot: have %d, want %d", len(region), index+32)
	}
	offset, err := decodeWordInt(region[index : index+32])
	if err != nil {
		return nil, err
	}
	if offset > len(region) {
		return nil, fmt.Errorf("abi: offset %d outside buffer of length %d", offset, len(region))
	}
	return decodeTail(t, region[offset:])
}

// decodeTail decodes a dynamic value whose encoding starts at data[0]. Every
// nested container establishes a fresh relative-offset base.
func decodeTail(t *Type, data []byte) (interface{}, error) {
	switch t.T {
	case StringTy, BytesTy:
		if len(data) < 32 {
			return nil, fmt.Errorf("abi: buffer too short for length word: have %d, want 32", len(data))
		}
		length, err := decodeWordInt(data[:32])
		if err != nil {
			return nil, err
		}
		if length > len(data)-32 {
			return nil, fmt.Errorf("abi: declared length %d larger than remaining %d bytes", length, len(data)-32)
		}
		if t.T == StringTy {
			return string(data[32 : 32+length]), nil
		}
		return common.CopyBytes(data[32 : 32+length]), nil

	case SliceTy:
		if len(data) < 32 {
			return nil, fmt.Errorf("abi: buffer too short for count word: have %d, want 32", len(data))
		}
		count, err := decodeWordInt(data[:32])
		if err != nil {
			return nil, err
		}
		// Every element occupies at least one head word, so a count larger
		// than the remaining words cannot be satisfied. This bounds memory
		// allocation against malicious input.
		if count > (len(data)-32)/32 {
			return nil, fmt.Errorf("abi: declared element count %d larger than remaining %d bytes allow", count, len(data)-32)
		}
		return decodeMembers(t.Elem, count, data[32:])

	case ArrayTy:
		return decodeMembers(t.Elem, t.Size, data)

	case TupleTy:
		region := data
		elems := make([]interface{}, 0, len(t.TupleElems))
		cursor := 0
		for _, elem := range t.TupleElems {
			val, err := decodeHead(elem, region, cursor)
			if err != nil {
				return nil, err
			}
			cursor += typeSize(elem)
			elems = append(elems, val)
		}
		return elems, nil

	default:
		return nil, fmt.Errorf("abi: static type %d has no tail encoding", t.T)
	}
}

// decodeMembers decodes count consecutive members of the element type from a
// fresh head/tail region.
func decodeMembers(elem *Type, count int, region []byte) (interface{}, error) {
	out := make([]interface{}, 0, count)
	cursor := 0
	for i := 0; i < count; i++ {
		val, err := decodeHead(elem, region, cursor)
		if err != nil {
			return nil, err
		}
		cursor += typeSize(elem)
		out = append(out, val)
	}
	return out, nil
}

// decodeStatic reads a static value occupying region[index:index+typeSize].
func decodeStatic(t *Type, region []byte, index int) (interface{}, error) {
	size := typeSize(t)
	if index+size > len(region) {
		return nil, fmt.Errorf("abi: buffer too short for static value: have %d, want %d", len(region), index+size)
	}
	switch t.T {
	case ArrayTy:
		out := make([]interface{}, 0, t.Size)
		cursor := index
		for i := 0; i < t.Size; i++ {
			val, err := decodeStatic(t.Elem, region, cursor)
			if err != nil {
				return nil, err
			}
			cursor += typeSize(t.Elem)
			out = append(out, val)
		}
		return out, nil

	case TupleTy:
		out := make([]interface{}, 0, len(t.TupleElems))
		cursor := index
		for _, elem := range t.TupleElems {
			val, err := decodeStatic(elem, region, cursor)
			if err != nil {
				return nil, err
			}
			cursor += typeSize(elem)
			out = append(out, val)
		}
		return out, nil
	}

	word := region[index : index+32]
	switch t.T {
	case UintTy:
		return new(big.Int).SetBytes(word), nil
	case IntTy:
		return readSigned(word), nil
	case EnumTy:
		if !allZero(word[:31]) {
			return nil, errBadEnum
		}
		return word[31], nil
	case BoolTy:
		if !allZero(word[:31]) || word[31] > 1 {
			return nil, errBadBool
		}
		return word[31] == 1, nil
	case AddressTy:
		return common.BytesToAddress(word[12:]), nil
	case FixedBytesTy:
		// left aligned, first Size bytes carry the payload
		array := reflect.New(reflect.ArrayOf(t.Size, reflect.TypeOf(byte(0)))).Elem()
		reflect.Copy(array, reflect.ValueOf(word[:t.Size]))
		return array.Interface(), nil
	default:
		return nil, fmt.Errorf("abi: unknown static type %d", t.T)
	}
}

// readSigned interprets a 32 byte word as a two's-complement signed integer.
func readSigned(word []byte) *big.Int {
	ret := new(big.Int).SetBytes(word)
	if ret.Bit(255) == 1 {
		ret.Sub(ret, maxUint256)
		ret.Sub(ret, common.Big1)
	}
	return ret
}

// decodeWordInt reads a 32 byte word holding a small non-negative quantity
// (an offset, length or element count). Words with high bytes set are
// rejected before any conversion can overflow.
func decodeWordInt(word []byte) (int, error) {
	if !allZero(word[:24]) {
		return 0, fmt.Errorf("abi: quantity word out of range: %x", word)
	}
	v := uint64(word[24])<<56 | uint64(word[25])<<48 | uint64(word[26])<<40 | uint64(word[27])<<32 |
		uint64(word[28])<<24 | uint64(word[29])<<16 | uint64(word[30])<<8 | uint64(word[31])
	if v > uint64(^uint(0)>>1) {
		return 0, fmt.Errorf("abi: quantity word out of range: %d", v)
	}
	return int(v), nil
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
