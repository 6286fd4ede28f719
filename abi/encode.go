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
	"math/big"
	"reflect"

	"github.com/holiman/uint256"
	"github.com/quaylabs/ethergo/common"
)

// chunk is the pre-encoded form of a single value before it is placed into
// the head or tail region of its container.
type chunk struct {
	dynamic bool
	data    []byte
}

// combineChunks lays out pre-encoded members using the head/tail scheme.
// Static members are written into the head in place; dynamic members leave a
// 32 byte offset slot in the head and their encoding is appended to the tail.
// Offsets are byte counts relative to the start of the returned region.
func combineChunks(chunks []chunk) []byte {
	headSize := 0
	tailSize := 0
	for _, c := range chunks {
		if c.dynamic {
			headSize += 32
			tailSize += len(c.data)
		} else {
			headSize += len(c.data)
		}
	}
	out := make([]byte, 0, headSize+tailSize)
	tail := make([]byte, 0, tailSize)
	for _, c := range chunks {
		if c.dynamic {
			out = append(out, packUint64Word(uint64(headSize+len(tail)))...)
			tail = append(tail, c.data...)
		} else {
			out = append(out, c.data...)
		}
	}
	return append(out, tail...)
}

// encodeValue encodes a single value of the given type into a chunk,
// dispatching recursively for containers.
func encodeValue(t *Type, value interface{}) (chunk, error) {
	switch t.T {
	case UintTy, IntTy, EnumTy:
		word, err := packNum(t, value)
		if err != nil {
			return chunk{}, err
		}
		return chunk{data: word}, nil

	case BoolTy:
		b, ok := value.(bool)
		if !ok {
			return chunk{}, typeErr("bool", value)
		}
		word := make([]byte, 32)
		if b {
			word[31] = 1
		}
		return chunk{data: word}, nil

	case AddressTy:
		addr, err := toAddress(value)
		if err != nil {
			return chunk{}, err
		}
		return chunk{data: common.LeftPadBytes(addr[:], 32)}, nil

	case FixedBytesTy:
		b, err := toFixedBytes(t, value)
		if err != nil {
			return chunk{}, err
		}
		// Canonical rule: fixed bytes are left aligned, zero padded on the
		// right.
		return chunk{data: common.RightPadBytes(b, 32)}, nil

	case StringTy:
		s, ok := value.(string)
		if !ok {
			return chunk{}, typeErr("string", value)
		}
		return chunk{dynamic: true, data: packBytesSlice([]byte(s))}, nil

	case BytesTy:
		b, ok := value.([]byte)
		if !ok {
			return chunk{}, typeErr("bytes", value)
		}
		return chunk{dynamic: true, data: packBytesSlice(b)}, nil

	case SliceTy:
		elems, err := toElements(value)
		if err != nil {
			return chunk{}, err
		}
		chunks := make([]chunk, len(elems))
		for i, elem := range elems {
			if chunks[i], err = encodeValue(t.Elem, elem); err != nil {
				return chunk{}, err
			}
		}
		// Dynamic arrays are prefixed with their element count; the offsets
		// inside are relative to the first head slot after it.
		body := combineChunks(chunks)
		out := make([]byte, 0, 32+len(body))
		out = append(out, packUint64Word(uint64(len(elems)))...)
		return chunk{dynamic: true, data: append(out, body...)}, nil

	case ArrayTy:
		elems, err := toElements(value)
		if err != nil {
			return chunk{}, err
		}
		if len(elems) != t.Size {
			return chunk{}, fmt.Errorf("array length mismatch: got %d, want %d", len(elems), t.Size)
		}
		chunks := make([]chunk, len(elems))
		for i, elem := range elems {
			if chunks[i], err = encodeValue(t.Elem, elem); err != nil {
				return chunk{}, err
			}
		}
		// Fixed arrays never carry a count word, even when dynamic.
		return chunk{dynamic: t.dynamic, data: combineChunks(chunks)}, nil

	case TupleTy:
		if len(t.TupleElems) == 0 {
			return chunk{}, errors.New("tuple type without components")
		}
		fields, err := toElements(value)
		if err != nil {
			return chunk{}, err
		}
		if len(fields) != len(t.TupleElems) {
			return chunk{}, fmt.Errorf("tuple field count mismatch: got %d, want %d", len(fields), len(t.TupleElems))
		}
		chunks := make([]chunk, len(fields))
		for i, field := range fields {
			if chunks[i], err = encodeValue(t.TupleElems[i], field); err != nil {
				return chunk{}, err
			}
		}
		return chunk{dynamic: t.dynamic, data: combineChunks(chunks)}, nil

	default:
		return chunk{}, fmt.Errorf("unknown type %d", t.T)
	}
}

// packBytesSlice packs the given bytes as [L, V] as the canonical
// representation: a length word followed by the payload right padded to a
// word boundary.
func packBytesSlice(bytes []byte) []byte {
	out := make([]byte, 0, 32+(len(bytes)+31)/32*32)
	out = append(out, packUint64Word(uint64(len(bytes)))...)
	return append(out, common.RightPadBytes(bytes, (len(bytes)+31)/32*32)...)
}

// packUint64Word encodes i as a 32 byte big-endian word.
func packUint64Word(i uint64) []byte {
	word := make([]byte, 32)
	new(uint256.Int).SetUint64(i).WriteToSlice(word)
	return word
}

// packNum packs the given number as a 32 byte big-endian two's-complement
// word, rejecting values that exceed the declared bit width.
func packNum(t *Type, value interface{}) ([]byte, error) {
	v, err := toBigInt(value)
	if err != nil {
		return nil, err
	}
	switch t.T {
	case UintTy, EnumTy:
		if v.Sign() < 0 {
			return nil, fmt.Errorf("negative value for %s", t.String())
		}
		if v.BitLen() > t.Size {
			return nil, fmt.Errorf("value exceeds %d bits", t.Size)
		}
	case IntTy:
		// [-2^(n-1), 2^(n-1)-1]
		limit := new(big.Int).Lsh(common.Big1, uint(t.Size-1))
		max := new(big.Int).Sub(limit, common.Big1)
		min := new(big.Int).Neg(limit)
		if v.Cmp(min) < 0 || v.Cmp(max) > 0 {
			return nil, fmt.Errorf("value exceeds %d bits", t.Size)
		}
	}
	// Two's complement representation modulo 2^256. big.Int bitwise ops act
	// on the infinite two's complement form, so masking handles negatives.
	u := new(big.Int).And(v, maxUint256)
	word, _ := uint256.FromBig(u)
	b32 := word.Bytes32()
	return b32[:], nil
}

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(common.Big1, 256), common.Big1)

func toBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		if v == nil {
			return nil, typeErr("integer", value)
		}
		return v, nil
	case *uint256.Int:
		if v == nil {
			return nil, typeErr("integer", value)
		}
		return v.ToBig(), nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return new(big.Int).SetUint64(rv.Uint()), nil
	}
	return nil, typeErr("integer", value)
}

func toAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case [20]byte:
		return common.Address(v), nil
	case []byte:
		if len(v) != common.AddressLength {
			return common.Address{}, fmt.Errorf("address must be %d bytes, got %d", common.AddressLength, len(v))
		}
		return common.BytesToAddress(v), nil
	}
	return common.Address{}, typeErr("address", value)
}

func toFixedBytes(t *Type, value interface{}) ([]byte, error) {
	if b, ok := value.([]byte); ok {
		if len(b) > t.Size {
			return nil, fmt.Errorf("fixed bytes payload of %d bytes exceeds bytes%d", len(b), t.Size)
		}
		return b, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8 {
		if rv.Len() != t.Size {
			return nil, fmt.Errorf("fixed bytes payload of %d bytes does not match bytes%d", rv.Len(), t.Size)
		}
		b := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(b), rv)
		return b, nil
	}
	return nil, typeErr(fmt.Sprintf("bytes%d", t.Size), value)
}

// toElements normalizes the accepted container representations ([]interface{}
// or any Go slice/array) into an element list.
func toElements(value interface{}) ([]interface{}, error) {
	if elems, ok := value.([]interface{}); ok {
		return elems, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, typeErr("slice or array", value)
	}
	elems := make([]interface{}, rv.Len())
	for i := range elems {
		elems[i] = rv.Index(i).Interface()
	}
	return elems, nil
}

// typeErr returns a formatted type mismatch error.
func typeErr(expected string, value interface{}) error {
	return fmt.Errorf("cannot use %T as type %s as argument", value, expected)
}
