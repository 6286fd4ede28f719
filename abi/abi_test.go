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
	"bytes"
	"math/big"
	"strings"
	"testing"

	"github.com/quaylabs/ethergo/common"
	"github.com/quaylabs/ethergo/crypto"
	"github.com/stretchr/testify/require"
)

const erc20ABI = `[
	{"type":"function","name":"transfer","stateMutability":"nonpayable",
	 "inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],
	 "outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view",
	 "inputs":[{"name":"owner","type":"address"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"event","name":"Transfer","anonymous":false,
	 "inputs":[{"name":"from","type":"address","indexed":true},
	           {"name":"to","type":"address","indexed":true},
	           {"name":"value","type":"uint256","indexed":false}]},
	{"type":"error","name":"InsufficientBalance",
	 "inputs":[{"name":"available","type":"uint256"},{"name":"required","type":"uint256"}]}
]`

func TestJSONParsing(t *testing.T) {
	abi, err := JSON(strings.NewReader(erc20ABI))
	require.NoError(t, err)
	require.Contains(t, abi.Methods, "transfer")
	require.Contains(t, abi.Methods, "balanceOf")
	require.Contains(t, abi.Events, "Transfer")
	require.Contains(t, abi.Errors, "InsufficientBalance")
	require.Equal(t, "transfer(address,uint256)", abi.Methods["transfer"].Sig)
	require.True(t, abi.Methods["balanceOf"].IsConstant())
}

func TestMethodSelector(t *testing.T) {
	abi, err := JSON(strings.NewReader(erc20ABI))
	require.NoError(t, err)
	// well known ERC-20 selectors
	require.Equal(t, common.FromHex("0xa9059cbb"), abi.Methods["transfer"].ID)
	require.Equal(t, common.FromHex("0x70a08231"), abi.Methods["balanceOf"].ID)
}

func TestEventID(t *testing.T) {
	abi, err := JSON(strings.NewReader(erc20ABI))
	require.NoError(t, err)
	want := common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef")
	require.Equal(t, want, abi.Events["Transfer"].ID)
}

func TestSelectorFromSignature(t *testing.T) {
	// the 4 byte selector is the truncated Keccak-256 of the canonical
	// signature
	abi, err := JSON(strings.NewReader(`[
		{"type":"function","name":"bar","stateMutability":"nonpayable",
		 "inputs":[{"name":"x","type":"uint256"}],"outputs":[]}
	]`))
	require.NoError(t, err)
	require.Equal(t, "bar(uint256)", abi.Methods["bar"].Sig)
	require.Equal(t, crypto.Keccak256([]byte("bar(uint256)"))[:4], abi.Methods["bar"].ID)
}

func TestTupleSignatureRendering(t *testing.T) {
	abi, err := JSON(strings.NewReader(`[
		{"type":"function","name":"submit","stateMutability":"nonpayable",
		 "inputs":[{"name":"order","type":"tuple","components":[
			{"name":"maker","type":"address"},
			{"name":"amounts","type":"uint256[2]"}]},
			{"name":"proofs","type":"bytes32[]"}],
		 "outputs":[]}
	]`))
	require.NoError(t, err)
	require.Equal(t, "submit((address,uint256[2]),bytes32[])", abi.Methods["submit"].Sig)
}

func TestPackWithSelector(t *testing.T) {
	abi, err := JSON(strings.NewReader(erc20ABI))
	require.NoError(t, err)
	to := common.HexToAddress("0x1122334455667788990011223344556677889900")
	packed, err := abi.Pack("transfer", to, big.NewInt(1000))
	require.NoError(t, err)
	require.Len(t, packed, 4+64)
	require.True(t, bytes.Equal(packed[:4], common.FromHex("0xa9059cbb")))
	require.Equal(t, to, common.BytesToAddress(packed[16:36]))
}

func TestUnpackInput(t *testing.T) {
	abi, err := JSON(strings.NewReader(erc20ABI))
	require.NoError(t, err)
	to := common.HexToAddress("0x1122334455667788990011223344556677889900")
	packed, err := abi.Pack("transfer", to, big.NewInt(1000))
	require.NoError(t, err)

	values, err := abi.UnpackInput("transfer", packed)
	require.NoError(t, err)
	require.Len(t, values, 2)
	require.Equal(t, to, values[0])
	require.Equal(t, big.NewInt(1000), values[1])

	// wrong method for this selector
	_, err = abi.UnpackInput("balanceOf", packed)
	require.Error(t, err)
	// truncated call data
	_, err = abi.UnpackInput("transfer", packed[:3])
	require.Error(t, err)
	_, err = abi.UnpackInput("missing", packed)
	require.Error(t, err)
}

func TestUnpackOutput(t *testing.T) {
	abi, err := JSON(strings.NewReader(erc20ABI))
	require.NoError(t, err)
	ret := common.FromHex("000000000000000000000000000000000000000000000000000000000000002a")
	vals, err := abi.Unpack("balanceOf", ret)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(42), vals[0])
}

func TestMethodById(t *testing.T) {
	abi, err := JSON(strings.NewReader(erc20ABI))
	require.NoError(t, err)
	m, err := abi.MethodById(common.FromHex("0xa9059cbb0000"))
	require.NoError(t, err)
	require.Equal(t, "transfer", m.Name)

	_, err = abi.MethodById(common.FromHex("0xdeadbeef"))
	require.Error(t, err)
}

func TestEventByID(t *testing.T) {
	abi, err := JSON(strings.NewReader(erc20ABI))
	require.NoError(t, err)
	ev, err := abi.EventByID(common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"))
	require.NoError(t, err)
	require.Equal(t, "Transfer", ev.Name)
}

func TestErrorUnpack(t *testing.T) {
	abi, err := JSON(strings.NewReader(erc20ABI))
	require.NoError(t, err)
	e := abi.Errors["InsufficientBalance"]

	args, err := e.Inputs.Pack(big.NewInt(5), big.NewInt(10))
	require.NoError(t, err)
	data := append(common.CopyBytes(e.ID[:4]), args...)

	vals, err := e.Unpack(data)
	require.NoError(t, err)
	require.Equal(t, []interface{}{big.NewInt(5), big.NewInt(10)}, vals)

	_, err = e.Unpack(data[:3])
	require.Error(t, err)
}

func TestOverloadedMethods(t *testing.T) {
	abi, err := JSON(strings.NewReader(`[
		{"type":"function","name":"poke","stateMutability":"nonpayable","inputs":[],"outputs":[]},
		{"type":"function","name":"poke","stateMutability":"nonpayable",
		 "inputs":[{"name":"x","type":"uint256"}],"outputs":[]}
	]`))
	require.NoError(t, err)
	require.Contains(t, abi.Methods, "poke")
	require.Contains(t, abi.Methods, "poke0")
	require.Equal(t, "poke", abi.Methods["poke0"].RawName)
}

func TestUnpackRevert(t *testing.T) {
	stringTy, err := NewType("string", nil)
	require.NoError(t, err)
	payload, err := (Arguments{{Type: stringTy}}).Pack("insufficient funds")
	require.NoError(t, err)
	data := append(common.CopyBytes(revertSelector), payload...)

	reason, err := UnpackRevert(data)
	require.NoError(t, err)
	require.Equal(t, "insufficient funds", reason)

	_, err = UnpackRevert([]byte{0x01, 0x02})
	require.Error(t, err)
}

func TestMakeTopics(t *testing.T) {
	from := common.HexToAddress("0x1111111111111111111111111111111111111111")
	topics, err := MakeTopics([]interface{}{from}, []interface{}{big.NewInt(7)})
	require.NoError(t, err)
	require.Len(t, topics, 2)
	require.Equal(t, from.Hash(), topics[0][0])
	require.Equal(t, common.BigToHash(big.NewInt(7)), topics[1][0])

	// dynamic values are hashed into the topic
	topics, err = MakeTopics([]interface{}{"hello"})
	require.NoError(t, err)
	require.Equal(t, crypto.Keccak256Hash([]byte("hello")), topics[0][0])
}

func TestMakeTopicsBigIntRange(t *testing.T) {
	// full uint256 range is accepted
	maxUint := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	topics, err := MakeTopics([]interface{}{maxUint})
	require.NoError(t, err)
	require.Equal(t, common.HexToHash("0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"), topics[0][0])

	// negative values are two's-complement encoded
	topics, err = MakeTopics([]interface{}{big.NewInt(-1)})
	require.NoError(t, err)
	require.Equal(t, common.HexToHash("0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"), topics[0][0])

	// values that do not fit in a 256-bit word are rejected, not zeroed
	over := new(big.Int).Lsh(big.NewInt(1), 256)
	_, err = MakeTopics([]interface{}{over})
	require.Error(t, err)

	under := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 256))
	_, err = MakeTopics([]interface{}{under})
	require.Error(t, err)
}
