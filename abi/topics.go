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

	"github.com/quaylabs/ethergo/common"
	"github.com/quaylabs/ethergo/crypto"
)

// MakeTopics converts a filter query argument list into a filter topic set.
// Each inner list is the allowed values for one indexed argument position;
// the outer list positions correspond to the event's indexed arguments in
// order. Values of dynamic type are represented by the Keccak-256 hash of
// their content, per the log topic rules.
func MakeTopics(query ...[]interface{}) ([][]common.Hash, error) {
	topics := make([][]common.Hash, len(query))
	for i, filter := range query {
		for _, rule := range filter {
			var topic common.Hash

			// Try to generate the topic based on simple types
			switch rule := rule.(type) {
			case common.Hash:
				copy(topic[:], rule[:])
			case common.Address:
				copy(topic[common.HashLength-common.AddressLength:], rule[:])
			case *big.Int:
				word, err := math256Bytes(rule)
				if err != nil {
					return nil, err
				}
				copy(topic[:], word)
			case bool:
				if rule {
					topic[common.HashLength-1] = 1
				}
			case int8:
				copy(topic[:], genIntType(int64(rule), 1))
			case int16:
				copy(topic[:], genIntType(int64(rule), 2))
			case int32:
				copy(topic[:], genIntType(int64(rule), 4))
			case int64:
				copy(topic[:], genIntType(rule, 8))
			case uint8:
				blob := new(big.Int).SetUint64(uint64(rule)).Bytes()
				copy(topic[common.HashLength-len(blob):], blob)
			case uint16:
				blob := new(big.Int).SetUint64(uint64(rule)).Bytes()
				copy(topic[common.HashLength-len(blob):], blob)
			case uint32:
				blob := new(big.Int).SetUint64(uint64(rule)).Bytes()
				copy(topic[common.HashLength-len(blob):], blob)
			case uint64:
				blob := new(big.Int).SetUint64(rule).Bytes()
				copy(topic[common.HashLength-len(blob):], blob)
			case string:
				// Dynamic types are hashed into the topic.
				topic = crypto.Keccak256Hash([]byte(rule))
			case []byte:
				topic = crypto.Keccak256Hash(rule)

			default:
				// Indexed parameters of composite type are stored as the
				// keccak256 hash of their encoding; callers filtering on
				// those pass the hash directly as common.Hash above.
				val := indexedValueWord(rule)
				if val == nil {
					return nil, fmt.Errorf("unsupported indexed type: %T", rule)
				}
				copy(topic[:], val)
			}

			topics[i] = append(topics[i], topic)
		}
	}
	return topics, nil
}

func indexedValueWord(rule interface{}) []byte {
	switch rule := rule.(type) {
	case [32]byte:
		return rule[:]
	case [20]byte:
		padded := make([]byte, common.HashLength)
		copy(padded[common.HashLength-20:], rule[:])
		return padded
	}
	return nil
}

func genIntType(rule int64, size uint) []byte {
	var topic [common.HashLength]byte
	if rule < 0 {
		// if a rule is negative, we need to put it into two's complement.
		// extended to common.HashLength bytes.
		topic = [common.HashLength]byte{255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255}
	}
	for i := uint(0); i < size; i++ {
		topic[common.HashLength-i-1] = byte(rule >> (i * 8))
	}
	return topic[:]
}

// math256Bytes encodes a big integer as a 32 byte two's-complement word.
// Values representable in 256 bits are accepted, whether the indexed
// argument is signed or unsigned.
func math256Bytes(n *big.Int) ([]byte, error) {
	t := &Type{T: UintTy, Size: 256}
	if n.Sign() < 0 {
		t = &Type{T: IntTy, Size: 256}
	}
	return packNum(t, n)
}

// ParseTopics converts the indexed topic fields into values matching the
// given arguments in order. Dynamic indexed values cannot be recovered from
// their topic hash and are returned as the raw hash.
func ParseTopics(args Arguments, topics []common.Hash) ([]interface{}, error) {
	indexed := make(Arguments, 0, len(args))
	for _, arg := range args {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	if len(indexed) != len(topics) {
		return nil, errors.New("topic/field count mismatch")
	}
	out := make([]interface{}, 0, len(topics))
	for i, arg := range indexed {
		topic := topics[i]
		switch arg.Type.T {
		case StringTy, BytesTy, SliceTy, ArrayTy, TupleTy:
			// The topic carries only the hash of the value.
			out = append(out, topic)
		case AddressTy:
			out = append(out, common.BytesToAddress(topic[12:]))
		case BoolTy:
			if !allZero(topic[:31]) || topic[31] > 1 {
				return nil, errBadBool
			}
			out = append(out, topic[31] == 1)
		case IntTy:
			out = append(out, readSigned(topic[:]))
		case UintTy:
			out = append(out, new(big.Int).SetBytes(topic[:]))
		case EnumTy:
			if !allZero(topic[:31]) {
				return nil, errBadEnum
			}
			out = append(out, topic[31])
		case FixedBytesTy:
			val, err := decodeStatic(&arg.Type, topic[:], 0)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		default:
			return nil, fmt.Errorf("unsupported indexed type: %v", arg.Type)
		}
	}
	return out, nil
}
