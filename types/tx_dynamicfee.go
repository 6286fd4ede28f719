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
	"math/big"

	"github.com/quaylabs/ethergo/common"
	"github.com/quaylabs/ethergo/rlp"
)

// AccessList is an EIP-2930 access list.
type AccessList []AccessTuple

// AccessTuple is the element type of an access list.
type AccessTuple struct {
	Address     common.Address `json:"address"`
	StorageKeys []common.Hash  `json:"storageKeys"`
}

// StorageKeys returns the total number of storage keys in the access list.
func (al AccessList) StorageKeys() int {
	sum := 0
	for _, tuple := range al {
		sum += len(tuple.StorageKeys)
	}
	return sum
}

func (al AccessList) encode(b *rlp.EncoderBuffer) {
	outer := b.List()
	for _, tuple := range al {
		inner := b.List()
		b.WriteBytes(tuple.Address[:])
		keys := b.List()
		for _, key := range tuple.StorageKeys {
			b.WriteBytes(key[:])
		}
		b.ListEnd(keys)
		b.ListEnd(inner)
	}
	b.ListEnd(outer)
}

// DynamicFeeTx represents an EIP-1559 transaction.
type DynamicFeeTx struct {
	ChainID    *big.Int
	Nonce      uint64
	GasTipCap  *big.Int // a.k.a. maxPriorityFeePerGas
	GasFeeCap  *big.Int // a.k.a. maxFeePerGas
	Gas        uint64
	To         *common.Address // nil means contract creation
	Value      *big.Int
	Data       []byte
	AccessList AccessList

	// Signature values
	V, R, S *big.Int
}

// copy creates a deep copy of the transaction data and initializes all fields.
func (tx *DynamicFeeTx) copy() TxData {
	cpy := &DynamicFeeTx{
		Nonce: tx.Nonce,
		To:    copyAddressPtr(tx.To),
		Data:  common.CopyBytes(tx.Data),
		Gas:   tx.Gas,
		// These are copied below.
		AccessList: make(AccessList, len(tx.AccessList)),
		Value:      new(big.Int),
		ChainID:    new(big.Int),
		GasTipCap:  new(big.Int),
		GasFeeCap:  new(big.Int),
		V:          new(big.Int),
		R:          new(big.Int),
		S:          new(big.Int),
	}
	copy(cpy.AccessList, tx.AccessList)
	if tx.Value != nil {
		cpy.Value.Set(tx.Value)
	}
	if tx.ChainID != nil {
		cpy.ChainID.Set(tx.ChainID)
	}
	if tx.GasTipCap != nil {
		cpy.GasTipCap.Set(tx.GasTipCap)
	}
	if tx.GasFeeCap != nil {
		cpy.GasFeeCap.Set(tx.GasFeeCap)
	}
	if tx.V != nil {
		cpy.V.Set(tx.V)
	}
	if tx.R != nil {
		cpy.R.Set(tx.R)
	}
	if tx.S != nil {
		cpy.S.Set(tx.S)
	}
	return cpy
}

// accessors for innerTx.
func (tx *DynamicFeeTx) txType() byte        { return DynamicFeeTxType }
func (tx *DynamicFeeTx) chainID() *big.Int   { return tx.ChainID }
func (tx *DynamicFeeTx) data() []byte        { return tx.Data }
func (tx *DynamicFeeTx) gas() uint64         { return tx.Gas }
func (tx *DynamicFeeTx) gasPrice() *big.Int  { return tx.GasFeeCap }
func (tx *DynamicFeeTx) gasTipCap() *big.Int { return tx.GasTipCap }
func (tx *DynamicFeeTx) gasFeeCap() *big.Int { return tx.GasFeeCap }
func (tx *DynamicFeeTx) value() *big.Int     { return tx.Value }
func (tx *DynamicFeeTx) nonce() uint64       { return tx.Nonce }
func (tx *DynamicFeeTx) to() *common.Address { return tx.To }

func (tx *DynamicFeeTx) rawSignatureValues() (v, r, s *big.Int) {
	return tx.V, tx.R, tx.S
}

func (tx *DynamicFeeTx) setSignatureValues(chainID, v, r, s *big.Int) {
	tx.ChainID, tx.V, tx.R, tx.S = chainID, v, r, s
}

func (tx *DynamicFeeTx) encode(b *rlp.EncoderBuffer) {
	b.WriteBigInt(bigOrZero(tx.ChainID))
	b.WriteUint64(tx.Nonce)
	b.WriteBigInt(bigOrZero(tx.GasTipCap))
	b.WriteBigInt(bigOrZero(tx.GasFeeCap))
	b.WriteUint64(tx.Gas)
	writeTxTo(b, tx.To)
	b.WriteBigInt(bigOrZero(tx.Value))
	b.WriteBytes(tx.Data)
	tx.AccessList.encode(b)
	b.WriteBigInt(bigOrZero(tx.V))
	b.WriteBigInt(bigOrZero(tx.R))
	b.WriteBigInt(bigOrZero(tx.S))
}

// sigFields writes the fields covered by the signing hash, which for
// dynamic fee transactions is everything except V, R, S.
func (tx *DynamicFeeTx) sigFields(b *rlp.EncoderBuffer, chainID *big.Int) {
	b.WriteBigInt(bigOrZero(chainID))
	b.WriteUint64(tx.Nonce)
	b.WriteBigInt(bigOrZero(tx.GasTipCap))
	b.WriteBigInt(bigOrZero(tx.GasFeeCap))
	b.WriteUint64(tx.Gas)
	writeTxTo(b, tx.To)
	b.WriteBigInt(bigOrZero(tx.Value))
	b.WriteBytes(tx.Data)
	tx.AccessList.encode(b)
}
