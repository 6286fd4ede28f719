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

	"github.com/quaylabs/ethergo/common"
	"github.com/quaylabs/ethergo/common/hexutil"
)

// Log represents a contract log event. These events are generated by the LOG
// opcode and stored/indexed by the node.
type Log struct {
	// Consensus fields:
	// address of the contract that generated the event
	Address common.Address `json:"address"`
	// list of topics provided by the contract.
	Topics []common.Hash `json:"topics"`
	// supplied by the contract, usually ABI-encoded
	Data []byte `json:"data"`

	// Derived fields. These fields are filled in by the node
	// but not secured by consensus.
	// block in which the transaction was included
	BlockNumber uint64 `json:"blockNumber"`
	// hash of the transaction
	TxHash common.Hash `json:"transactionHash"`
	// index of the transaction in the block
	TxIndex uint `json:"transactionIndex"`
	// hash of the block in which the transaction was included
	BlockHash common.Hash `json:"blockHash"`
	// index of the log in the block
	Index uint `json:"logIndex"`

	// The Removed field is true if this log was reverted due to a chain
	// reorganisation.
	Removed bool `json:"removed"`
}

type logMarshaling struct {
	Address     common.Address  `json:"address"`
	Topics      []common.Hash   `json:"topics"`
	Data        hexutil.Bytes   `json:"data"`
	BlockNumber *hexutil.Uint64 `json:"blockNumber"`
	TxHash      common.Hash     `json:"transactionHash"`
	TxIndex     *hexutil.Uint64 `json:"transactionIndex"`
	BlockHash   common.Hash     `json:"blockHash"`
	Index       *hexutil.Uint64 `json:"logIndex"`
	Removed     bool            `json:"removed"`
}

// MarshalJSON encodes the log in the node wire format.
func (l Log) MarshalJSON() ([]byte, error) {
	enc := logMarshaling{
		Address:   l.Address,
		Topics:    l.Topics,
		Data:      l.Data,
		TxHash:    l.TxHash,
		BlockHash: l.BlockHash,
		Removed:   l.Removed,
	}
	enc.BlockNumber = (*hexutil.Uint64)(&l.BlockNumber)
	txIndex := hexutil.Uint64(l.TxIndex)
	enc.TxIndex = &txIndex
	index := hexutil.Uint64(l.Index)
	enc.Index = &index
	return json.Marshal(&enc)
}

// UnmarshalJSON decodes the node wire format.
func (l *Log) UnmarshalJSON(input []byte) error {
	var dec logMarshaling
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	if dec.Topics == nil {
		return errors.New("missing required field 'topics' for Log")
	}
	l.Address = dec.Address
	l.Topics = dec.Topics
	l.Data = dec.Data
	l.TxHash = dec.TxHash
	l.BlockHash = dec.BlockHash
	l.Removed = dec.Removed
	if dec.BlockNumber != nil {
		l.BlockNumber = uint64(*dec.BlockNumber)
	}
	if dec.TxIndex != nil {
		l.TxIndex = uint(*dec.TxIndex)
	}
	if dec.Index != nil {
		l.Index = uint(*dec.Index)
	}
	return nil
}
