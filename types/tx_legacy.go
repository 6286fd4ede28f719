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

// LegacyTx is the transaction data of the original Ethereum transactions.
type LegacyTx struct {
	Nonce    uint64          // nonce of sender account
	GasPrice *big.Int        // wei per gas
	Gas      uint64          // gas limit
	To       *common.Address // nil means contract creation
	Value    *big.Int        // wei amount
	Data     []byte          // contract invocation input data
	V, R, S  *big.Int        // signature values
}

// copy creates a deep copy of the transaction data and initializes all fields.
func (tx *LegacyTx) copy() TxData {
	cpy := &LegacyTx{
		Nonce: tx.Nonce,
		To:    copyAddressPtr(tx.To),
		Data:  common.CopyBytes(tx.Data),
		Gas:   tx.Gas,
		// These are initialized below.
		Value:    new(big.Int),
		GasPrice: new(big.Int),
		V:        new(big.Int),
		R:        new(big.Int),
		S:        new(big.Int),
	}
	if tx.Value != nil {
		cpy.Value.Set(tx.Value)
	}
	if tx.GasPrice != nil {
		cpy.GasPrice.Set(tx.GasPrice)
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
func (tx *LegacyTx) txType() byte         { return LegacyTxType }
func (tx *LegacyTx) chainID() *big.Int    { return deriveChainId(tx.V) }
func (tx *LegacyTx) data() []byte         { return tx.Data }
func (tx *LegacyTx) gas() uint64          { return tx.Gas }
func (tx *LegacyTx) gasPrice() *big.Int   { return tx.GasPrice }
func (tx *LegacyTx) gasTipCap() *big.Int  { return tx.GasPrice }
func (tx *LegacyTx) gasFeeCap() *big.Int  { return tx.GasPrice }
func (tx *LegacyTx) value() *big.Int      { return tx.Value }
func (tx *LegacyTx) nonce() uint64        { return tx.Nonce }
func (tx *LegacyTx) to() *common.Address  { return tx.To }

func (tx *LegacyTx) rawSignatureValues() (v, r, s *big.Int) {
	return tx.V, tx.R, tx.S
}

func (tx *LegacyTx) setSignatureValues(chainID, v, r, s *big.Int) {
	tx.V, tx.R, tx.S = v, r, s
}

func (tx *LegacyTx) encode(b *rlp.EncoderBuffer) {
	b.WriteUint64(tx.Nonce)
	b.WriteBigInt(bigOrZero(tx.GasPrice))
	b.WriteUint64(tx.Gas)
	writeTxTo(b, tx.To)
	b.WriteBigInt(bigOrZero(tx.Value))
	b.WriteBytes(tx.Data)
	b.WriteBigInt(bigOrZero(tx.V))
	b.WriteBigInt(bigOrZero(tx.R))
	b.WriteBigInt(bigOrZero(tx.S))
}

// writeTxTo encodes the recipient; contract creations encode as the empty
// string.
func writeTxTo(b *rlp.EncoderBuffer, to *common.Address) {
	if to == nil {
		b.WriteBytes(nil)
	} else {
		b.WriteBytes(to[:])
	}
}

func bigOrZero(i *big.Int) *big.Int {
	if i == nil {
		return common.Big0
	}
	return i
}

// deriveChainId derives the chain id from the given v parameter.
func deriveChainId(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	if v.BitLen() <= 64 {
		u := v.Uint64()
		if u == 27 || u == 28 {
			return new(big.Int)
		}
		return new(big.Int).SetUint64((u - 35) / 2)
	}
	w := new(big.Int).Sub(v, big.NewInt(35))
	return w.Rsh(w, 1)
}
