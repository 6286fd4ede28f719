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

// Package contract binds an on-chain contract address to its ABI, packing
// calls and unpacking results and logs through a backend client.
package contract

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/quaylabs/ethergo"
	"github.com/quaylabs/ethergo/abi"
	"github.com/quaylabs/ethergo/common"
	"github.com/quaylabs/ethergo/crypto"
	"github.com/quaylabs/ethergo/types"
)

var (
	// ErrNoCode is returned by call operations for which the requested
	// contract does not exist. This happens when the contract is destroyed
	// or the address given is not a contract.
	ErrNoCode = errors.New("no contract code at given address")

	// ErrNoSigner is returned by Transact when the options carry no signer
	// function.
	ErrNoSigner = errors.New("no signer to authorize the transaction with")
)

// Backend combines the operations a bound contract performs against a node.
// ethclient.Client satisfies it.
type Backend interface {
	ethergo.ContractCaller
	ethergo.ContractTransactor
	ethergo.LogFilterer
}

// SignerFn signs a transaction on behalf of the given account.
type SignerFn func(common.Address, *types.Transaction) (*types.Transaction, error)

// CallOpts is the collection of options to fine tune a contract call request.
type CallOpts struct {
	From        common.Address // the sender address, otherwise the first account is used
	BlockNumber *big.Int       // block on which the call should be performed, nil for latest
	Context     context.Context
}

// FilterOpts is the collection of options to fine tune filtering for events
// within a bound contract.
type FilterOpts struct {
	Start   uint64  // start of the queried range
	End     *uint64 // end of the range, nil for latest
	Context context.Context
}

// TransactOpts is the collection of authorization data required to create a
// valid Ethereum transaction.
type TransactOpts struct {
	From   common.Address // Ethereum account to send the transaction from
	Nonce  *big.Int       // nil uses the pending nonce
	Signer SignerFn       // signs the transaction before submission

	Value     *big.Int // funds to transfer along the transaction, nil = 0
	GasFeeCap *big.Int // fee cap per gas, nil asks the node
	GasTipCap *big.Int // tip per gas, nil asks the node
	GasLimit  uint64   // 0 estimates via the node

	Context context.Context

	NoSend bool // do all transact steps but do not send the transaction
}

// NewKeyedTransactor creates transact options from a raw private key,
// signing with the latest signer for the given chain id.
func NewKeyedTransactor(key *ecdsa.PrivateKey, chainID *big.Int) (*TransactOpts, error) {
	if chainID == nil {
		return nil, errors.New("no chain id specified")
	}
	keyAddr := crypto.PubkeyToAddress(key.PublicKey)
	signer := types.LatestSignerForChainID(chainID)
	return &TransactOpts{
		From: keyAddr,
		Signer: func(address common.Address, tx *types.Transaction) (*types.Transaction, error) {
			if address != keyAddr {
				return nil, errors.New("not authorized to sign this account")
			}
			return types.SignTx(tx, signer, key)
		},
	}, nil
}

// BoundContract is the base wrapper object that reflects a contract on the
// Ethereum network.
type BoundContract struct {
	address common.Address
	abi     abi.ABI
	backend Backend
}

// NewBoundContract creates a low level contract interface through which calls
// and transactions may be made through.
func NewBoundContract(address common.Address, abi abi.ABI, backend Backend) *BoundContract {
	return &BoundContract{
		address: address,
		abi:     abi,
		backend: backend,
	}
}

// Address returns the contract address.
func (c *BoundContract) Address() common.Address {
	return c.address
}

// Call invokes the (constant) contract method with params as input values
// and returns the decoded output values.
func (c *BoundContract) Call(opts *CallOpts, method string, params ...interface{}) ([]interface{}, error) {
	if opts == nil {
		opts = new(CallOpts)
	}
	input, err := c.abi.Pack(method, params...)
	if err != nil {
		return nil, err
	}
	ctx := ensureContext(opts.Context)
	msg := ethergo.CallMsg{From: opts.From, To: &c.address, Data: input}
	output, err := c.backend.CallContract(ctx, msg, opts.BlockNumber)
	if err != nil {
		return nil, err
	}
	if len(output) == 0 {
		// Make sure we have a contract to operate on, and bail out
		// otherwise.
		code, err := c.backend.CodeAt(ctx, c.address, opts.BlockNumber)
		if err != nil {
			return nil, err
		}
		if len(code) == 0 {
			return nil, ErrNoCode
		}
	}
	return c.abi.Unpack(method, output)
}

// Transact invokes the (paid) contract method with params as input values.
func (c *BoundContract) Transact(opts *TransactOpts, method string, params ...interface{}) (*types.Transaction, error) {
	input, err := c.abi.Pack(method, params...)
	if err != nil {
		return nil, err
	}
	return c.transact(opts, &c.address, input)
}

// Transfer initiates a plain transaction to move funds to the contract,
// calling its default method if one is available.
func (c *BoundContract) Transfer(opts *TransactOpts) (*types.Transaction, error) {
	return c.transact(opts, &c.address, nil)
}

func (c *BoundContract) transact(opts *TransactOpts, to *common.Address, input []byte) (*types.Transaction, error) {
	if opts == nil || opts.Signer == nil {
		return nil, ErrNoSigner
	}
	ctx := ensureContext(opts.Context)

	nonce := uint64(0)
	if opts.Nonce == nil {
		n, err := c.backend.PendingNonceAt(ctx, opts.From)
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve account nonce: %w", err)
		}
		nonce = n
	} else {
		nonce = opts.Nonce.Uint64()
	}

	gasTipCap := opts.GasTipCap
	if gasTipCap == nil {
		tip, err := c.backend.SuggestGasTipCap(ctx)
		if err != nil {
			return nil, err
		}
		gasTipCap = tip
	}
	gasFeeCap := opts.GasFeeCap
	if gasFeeCap == nil {
		price, err := c.backend.SuggestGasPrice(ctx)
		if err != nil {
			return nil, err
		}
		// head price plus tip leaves room for base fee movement
		gasFeeCap = new(big.Int).Add(price, gasTipCap)
	}
	if gasFeeCap.Cmp(gasTipCap) < 0 {
		return nil, fmt.Errorf("maxFeePerGas (%v) < maxPriorityFeePerGas (%v)", gasFeeCap, gasTipCap)
	}

	value := opts.Value
	if value == nil {
		value = new(big.Int)
	}
	gasLimit := opts.GasLimit
	if gasLimit == 0 {
		msg := ethergo.CallMsg{
			From:      opts.From,
			To:        to,
			GasFeeCap: gasFeeCap,
			GasTipCap: gasTipCap,
			Value:     value,
			Data:      input,
		}
		limit, err := c.backend.EstimateGas(ctx, msg)
		if err != nil {
			return nil, fmt.Errorf("failed to estimate gas needed: %w", err)
		}
		gasLimit = limit
	}

	rawTx := types.NewTx(&types.DynamicFeeTx{
		Nonce:     nonce,
		GasTipCap: gasTipCap,
		GasFeeCap: gasFeeCap,
		Gas:       gasLimit,
		To:        to,
		Value:     value,
		Data:      input,
	})
	signedTx, err := opts.Signer(opts.From, rawTx)
	if err != nil {
		return nil, err
	}
	if opts.NoSend {
		return signedTx, nil
	}
	if err := c.backend.SendTransaction(ctx, signedTx); err != nil {
		return nil, err
	}
	return signedTx, nil
}

// FilterLogs fetches historic logs of the named event, restricted by the
// given block range and indexed value filters.
func (c *BoundContract) FilterLogs(opts *FilterOpts, name string, query ...[]interface{}) ([]types.Log, error) {
	if opts == nil {
		opts = new(FilterOpts)
	}
	event, ok := c.abi.Events[name]
	if !ok {
		return nil, fmt.Errorf("event %q not found", name)
	}
	topics, err := abi.MakeTopics(query...)
	if err != nil {
		return nil, err
	}
	q := ethergo.FilterQuery{
		Addresses: []common.Address{c.address},
		Topics:    append([][]common.Hash{{event.ID}}, topics...),
		FromBlock: new(big.Int).SetUint64(opts.Start),
	}
	if opts.End != nil {
		q.ToBlock = new(big.Int).SetUint64(*opts.End)
	}
	return c.backend.FilterLogs(ensureContext(opts.Context), q)
}

// UnpackLog decodes a retrieved log into the event's argument values, in
// declaration order. Indexed arguments of dynamic type are returned as their
// topic hash.
func (c *BoundContract) UnpackLog(name string, log types.Log) ([]interface{}, error) {
	event, ok := c.abi.Events[name]
	if !ok {
		return nil, fmt.Errorf("event %q not found", name)
	}
	if len(log.Topics) == 0 {
		return nil, errors.New("anonymous events are not supported")
	}
	if log.Topics[0] != event.ID {
		return nil, fmt.Errorf("event signature mismatch")
	}
	indexed, err := abi.ParseTopics(event.Inputs, log.Topics[1:])
	if err != nil {
		return nil, err
	}
	data, err := event.Inputs.NonIndexed().Unpack(log.Data)
	if err != nil {
		return nil, err
	}
	// Interleave back into declaration order.
	values := make([]interface{}, 0, len(event.Inputs))
	ni, di := 0, 0
	for _, arg := range event.Inputs {
		if arg.Indexed {
			values = append(values, indexed[ni])
			ni++
		} else {
			values = append(values, data[di])
			di++
		}
	}
	return values, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
