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
	"encoding/json"
	"errors"
	"math/big"

	"github.com/quaylabs/ethergo/common"
	"github.com/quaylabs/ethergo/common/hexutil"
)

// Header represents a block header as reported by the node. The header hash
// is taken from the wire form rather than recomputed, so headers from chains
// with extended header fields resolve correctly too.
type Header struct {
	Hash        common.Hash    `json:"hash"`
	ParentHash  common.Hash    `json:"parentHash"`
	Coinbase    common.Address `json:"miner"`
	Root        common.Hash    `json:"stateRoot"`
	TxHash      common.Hash    `json:"transactionsRoot"`
	ReceiptHash common.Hash    `json:"receiptsRoot"`
	Number      *big.Int       `json:"number"`
	GasLimit    uint64         `json:"gasLimit"`
	GasUsed     uint64         `json:"gasUsed"`
	Time        uint64         `json:"timestamp"`
	Extra       []byte         `json:"extraData"`
	BaseFee     *big.Int       `json:"baseFeePerGas"`
}

type headerMarshaling struct {
	Hash        *common.Hash    `json:"hash"`
	ParentHash  *common.Hash    `json:"parentHash"`
	Coinbase    *common.Address `json:"miner"`
	Root        *common.Hash    `json:"stateRoot"`
	TxHash      *common.Hash    `json:"transactionsRoot"`
	ReceiptHash *common.Hash    `json:"receiptsRoot"`
	Number      *hexutil.Big    `json:"number"`
	GasLimit    *hexutil.Uint64 `json:"gasLimit"`
	GasUsed     *hexutil.Uint64 `json:"gasUsed"`
	Time        *hexutil.Uint64 `json:"timestamp"`
	Extra       *hexutil.Bytes  `json:"extraData"`
	BaseFee     *hexutil.Big    `json:"baseFeePerGas"`
}

// MarshalJSON encodes the header in the node wire format.
func (h Header) MarshalJSON() ([]byte, error) {
	var enc headerMarshaling
	enc.Hash = &h.Hash
	enc.ParentHash = &h.ParentHash
	enc.Coinbase = &h.Coinbase
	enc.Root = &h.Root
	enc.TxHash = &h.TxHash
	enc.ReceiptHash = &h.ReceiptHash
	enc.Number = (*hexutil.Big)(h.Number)
	gasLimit := hexutil.Uint64(h.GasLimit)
	enc.GasLimit = &gasLimit
	gasUsed := hexutil.Uint64(h.GasUsed)
	enc.GasUsed = &gasUsed
	time := hexutil.Uint64(h.Time)
	enc.Time = &time
	extra := hexutil.Bytes(h.Extra)
	enc.Extra = &extra
	enc.BaseFee = (*hexutil.Big)(h.BaseFee)
	return json.Marshal(&enc)
}

// UnmarshalJSON decodes the node wire format.
func (h *Header) UnmarshalJSON(input []byte) error {
	var dec headerMarshaling
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	if dec.ParentHash == nil {
		return errors.New("missing required field 'parentHash' for Header")
	}
	if dec.Number == nil {
		return errors.New("missing required field 'number' for Header")
	}
	if dec.Hash != nil {
		h.Hash = *dec.Hash
	}
	h.ParentHash = *dec.ParentHash
	if dec.Coinbase != nil {
		h.Coinbase = *dec.Coinbase
	}
	if dec.Root != nil {
		h.Root = *dec.Root
	}
	if dec.TxHash != nil {
		h.TxHash = *dec.TxHash
	}
	if dec.ReceiptHash != nil {
		h.ReceiptHash = *dec.ReceiptHash
	}
	h.Number = (*big.Int)(dec.Number)
	if dec.GasLimit != nil {
		h.GasLimit = uint64(*dec.GasLimit)
	}
	if dec.GasUsed != nil {
		h.GasUsed = uint64(*dec.GasUsed)
	}
	if dec.Time != nil {
		h.Time = uint64(*dec.Time)
	}
	if dec.Extra != nil {
		h.Extra = *dec.Extra
	}
	h.BaseFee = (*big.Int)(dec.BaseFee)
	return nil
}
