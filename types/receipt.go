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

const (
	// ReceiptStatusFailed is the status code of a transaction if execution
	// failed.
	ReceiptStatusFailed = uint64(0)

	// ReceiptStatusSuccessful is the status code of a transaction if
	// execution succeeded.
	ReceiptStatusSuccessful = uint64(1)
)

// Receipt represents the results of a transaction.
type Receipt struct {
	// Consensus fields
	Type              uint8  `json:"type,omitempty"`
	Status            uint64 `json:"status"`
	CumulativeGasUsed uint64 `json:"cumulativeGasUsed"`
	Logs              []*Log `json:"logs"`

	// Implementation fields: These fields are added by the node when
	// processing a transaction.
	TxHash            common.Hash    `json:"transactionHash"`
	ContractAddress   common.Address `json:"contractAddress"`
	GasUsed           uint64         `json:"gasUsed"`
	EffectiveGasPrice *big.Int       `json:"effectiveGasPrice"`

	// Inclusion information: These fields provide information about the
	// inclusion of the transaction corresponding to this receipt.
	BlockHash        common.Hash `json:"blockHash"`
	BlockNumber      *big.Int    `json:"blockNumber"`
	TransactionIndex uint        `json:"transactionIndex"`
}

type receiptMarshaling struct {
	Type              *hexutil.Uint64 `json:"type,omitempty"`
	Status            *hexutil.Uint64 `json:"status"`
	CumulativeGasUsed *hexutil.Uint64 `json:"cumulativeGasUsed"`
	Logs              []*Log          `json:"logs"`
	TxHash            *common.Hash    `json:"transactionHash"`
	ContractAddress   *common.Address `json:"contractAddress"`
	GasUsed           *hexutil.Uint64 `json:"gasUsed"`
	EffectiveGasPrice *hexutil.Big    `json:"effectiveGasPrice"`
	BlockHash         *common.Hash    `json:"blockHash"`
	BlockNumber       *hexutil.Big    `json:"blockNumber"`
	TransactionIndex  *hexutil.Uint64 `json:"transactionIndex"`
}

// MarshalJSON encodes the receipt in the node wire format.
func (r Receipt) MarshalJSON() ([]byte, error) {
	var enc receiptMarshaling
	typ := hexutil.Uint64(r.Type)
	if r.Type != LegacyTxType {
		enc.Type = &typ
	}
	status := hexutil.Uint64(r.Status)
	enc.Status = &status
	cumulative := hexutil.Uint64(r.CumulativeGasUsed)
	enc.CumulativeGasUsed = &cumulative
	enc.Logs = r.Logs
	enc.TxHash = &r.TxHash
	enc.ContractAddress = &r.ContractAddress
	gasUsed := hexutil.Uint64(r.GasUsed)
	enc.GasUsed = &gasUsed
	enc.EffectiveGasPrice = (*hexutil.Big)(r.EffectiveGasPrice)
	enc.BlockHash = &r.BlockHash
	enc.BlockNumber = (*hexutil.Big)(r.BlockNumber)
	txIndex := hexutil.Uint64(r.TransactionIndex)
	enc.TransactionIndex = &txIndex
	return json.Marshal(&enc)
}

// UnmarshalJSON decodes the node wire format.
func (r *Receipt) UnmarshalJSON(input []byte) error {
	var dec receiptMarshaling
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	if dec.Status == nil {
		return errors.New("missing required field 'status' for Receipt")
	}
	if dec.Type != nil {
		r.Type = uint8(*dec.Type)
	}
	r.Status = uint64(*dec.Status)
	if dec.CumulativeGasUsed != nil {
		r.CumulativeGasUsed = uint64(*dec.CumulativeGasUsed)
	}
	r.Logs = dec.Logs
	if dec.TxHash != nil {
		r.TxHash = *dec.TxHash
	}
	if dec.ContractAddress != nil {
		r.ContractAddress = *dec.ContractAddress
	}
	if dec.GasUsed != nil {
		r.GasUsed = uint64(*dec.GasUsed)
	}
	r.EffectiveGasPrice = (*big.Int)(dec.EffectiveGasPrice)
	if dec.BlockHash != nil {
		r.BlockHash = *dec.BlockHash
	}
	r.BlockNumber = (*big.Int)(dec.BlockNumber)
	if dec.TransactionIndex != nil {
		r.TransactionIndex = uint(*dec.TransactionIndex)
	}
	return nil
}
