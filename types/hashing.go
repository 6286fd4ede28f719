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

package types

import (
	"sync"

	"github.com/quaylabs/ethergo/common"
	"github.com/quaylabs/ethergo/crypto"
	"github.com/quaylabs/ethergo/rlp"
)

// hasherPool holds KeccakState hashers for hash computations.
var hasherPool = sync.Pool{
	New: func() interface{} { return crypto.NewKeccakState() },
}

// encodeBufferPool holds temporary encoder buffers for hash computations.
var encodeBufferPool = sync.Pool{
	New: func() interface{} { return new(rlp.EncoderBuffer) },
}

// keccakOf computes the Keccak-256 hash of b.
func keccakOf(b []byte) (h common.Hash) {
	sha := hasherPool.Get().(crypto.KeccakState)
	defer hasherPool.Put(sha)
	sha.Reset()
	sha.Write(b)
	sha.Read(h[:])
	return h
}

// rlpHash runs encode against a fresh encoder buffer and hashes the result.
func rlpHash(encode func(*rlp.EncoderBuffer)) (h common.Hash) {
	buf := encodeBufferPool.Get().(*rlp.EncoderBuffer)
	defer encodeBufferPool.Put(buf)
	buf.Reset()
	encode(buf)

	sha := hasherPool.Get().(crypto.KeccakState)
	defer hasherPool.Put(sha)
	sha.Reset()
	buf.WriteTo(sha)
	sha.Read(h[:])
	return h
}

// prefixedRlpHash writes the prefix byte before encoding and hashing,
// as used for typed transaction signing hashes.
func prefixedRlpHash(prefix byte, encode func(*rlp.EncoderBuffer)) (h common.Hash) {
	buf := encodeBufferPool.Get().(*rlp.EncoderBuffer)
	defer encodeBufferPool.Put(buf)
	buf.Reset()
	encode(buf)

	sha := hasherPool.Get().(crypto.KeccakState)
	defer hasherPool.Put(sha)
	sha.Reset()
	sha.Write([]byte{prefix})
	buf.WriteTo(sha)
	sha.Read(h[:])
	return h
}
