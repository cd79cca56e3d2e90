// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/common/hexutil"
	"github.com/luxfi/ids"

	"github.com/luxfi/diamond/abi"
	"github.com/luxfi/diamond/diamond"
	"github.com/luxfi/diamond/engine"
	"github.com/luxfi/diamond/facets/multisig"
	"github.com/luxfi/diamond/utils/json"
)

// EmptyArgs is the argument of methods that take none.
type EmptyArgs struct{}

// From names the account a state-changing call is made as.
type From struct {
	From common.Address `json:"from"`
}

type CallArgs struct {
	From
	Value json.Uint256  `json:"value"`
	Data  hexutil.Bytes `json:"data"`
}

type CallReply struct {
	Return hexutil.Bytes `json:"return"`
}

// Receipt describes a committed transaction.
type Receipt struct {
	TxID   ids.ID         `json:"txID"`
	Return hexutil.Bytes  `json:"return"`
	Events []engine.Event `json:"events"`
}

func newReceipt(r *engine.Receipt) Receipt {
	return Receipt{
		TxID:   r.TxID,
		Return: r.Return,
		Events: r.Events,
	}
}

type CutArgs struct {
	From
	Cuts     []diamond.FacetCut `json:"cuts"`
	Init     common.Address     `json:"init"`
	Calldata hexutil.Bytes      `json:"calldata"`
}

type AddressArgs struct {
	Address common.Address `json:"address"`
}

type AddressReply struct {
	Address common.Address `json:"address"`
}

type AddressesReply struct {
	Addresses []common.Address `json:"addresses"`
}

type SelectorArgs struct {
	Selector abi.Selector `json:"selector"`
}

type SelectorsReply struct {
	Selectors []abi.Selector `json:"selectors"`
}

type FacetsReply struct {
	Facets []diamond.Facet `json:"facets"`
}

type BoolReply struct {
	Value bool `json:"value"`
}

type StringReply struct {
	Value string `json:"value"`
}

type AmountReply struct {
	Amount json.Uint256 `json:"amount"`
}

type OwnerArgs struct {
	From
	Owner common.Address `json:"owner"`
}

type TokenReply struct {
	Name             string       `json:"name"`
	Symbol           string       `json:"symbol"`
	Decimals         uint8        `json:"decimals"`
	TotalSupply      json.Uint256 `json:"totalSupply"`
	MaxSupply        json.Uint256 `json:"maxSupply"`
	TokenPrice       json.Uint256 `json:"tokenPrice"`
	SwapEnabled      bool         `json:"swapEnabled"`
	TotalEthReceived json.Uint256 `json:"totalEthReceived"`
	ContractBalance  json.Uint256 `json:"contractBalance"`
}

type AllowanceArgs struct {
	Owner   common.Address `json:"owner"`
	Spender common.Address `json:"spender"`
}

type TransferArgs struct {
	From
	To     common.Address `json:"to"`
	Amount json.Uint256   `json:"amount"`
}

type ApproveArgs struct {
	From
	Spender common.Address `json:"spender"`
	Amount  json.Uint256   `json:"amount"`
}

type TransferFromArgs struct {
	From
	Owner  common.Address `json:"owner"`
	To     common.Address `json:"to"`
	Amount json.Uint256   `json:"amount"`
}

type AmountArgs struct {
	From
	Amount json.Uint256 `json:"amount"`
}

type EnabledArgs struct {
	From
	Enabled bool `json:"enabled"`
}

type SwapReply struct {
	Tokens  json.Uint256 `json:"tokens"`
	Receipt Receipt      `json:"receipt"`
}

type MetadataArgs struct {
	From
	Description     string `json:"description"`
	ExternalURL     string `json:"externalUrl"`
	BackgroundColor string `json:"backgroundColor"`
}

type InitializeMultiSigArgs struct {
	From
	Owners    []common.Address `json:"owners"`
	Threshold json.Uint64      `json:"threshold"`
}

type SubmitArgs struct {
	From
	Target common.Address `json:"target"`
	Value  json.Uint256   `json:"value"`
	Data   hexutil.Bytes  `json:"data"`
}

type SubmitReply struct {
	TransactionID json.Uint64 `json:"transactionID"`
	Receipt       Receipt     `json:"receipt"`
}

type TransactionArgs struct {
	From
	TransactionID json.Uint64 `json:"transactionID"`
}

type ExecuteReply struct {
	Success bool    `json:"success"`
	Receipt Receipt `json:"receipt"`
}

type MultiSigReply struct {
	Owners           []common.Address `json:"owners"`
	Threshold        json.Uint64      `json:"threshold"`
	TransactionCount json.Uint64      `json:"transactionCount"`
}

type TransactionIDArgs struct {
	TransactionID json.Uint64    `json:"transactionID"`
	Owner         common.Address `json:"owner"`
}

type TransactionReply struct {
	Target           common.Address `json:"target"`
	Value            json.Uint256   `json:"value"`
	Data             hexutil.Bytes  `json:"data"`
	Executed         bool           `json:"executed"`
	Failed           bool           `json:"failed"`
	NumConfirmations json.Uint64    `json:"numConfirmations"`
	Status           string         `json:"status"`
}

func newTransactionReply(v *multisig.TransactionView) TransactionReply {
	return TransactionReply{
		Target:           v.Target,
		Value:            json.NewUint256(v.Value),
		Data:             v.Data,
		Executed:         v.Executed,
		Failed:           v.Failed,
		NumConfirmations: json.Uint64(v.NumConfirmations),
		Status:           v.Status.String(),
	}
}
