// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/diamond/abi"
	"github.com/luxfi/diamond/api/health"
	"github.com/luxfi/diamond/diamond"
	"github.com/luxfi/diamond/utils/json"
	"github.com/luxfi/diamond/utils/rpc"
)

// Client for interacting with the diamond service of a node. uri is the full
// endpoint, e.g. "http://127.0.0.1:9650/ext/diamond".
type Client struct {
	requester rpc.EndpointRequester
}

func NewClient(uri string) *Client {
	return &Client{
		requester: rpc.NewEndpointRequester(uri),
	}
}

func (c *Client) send(ctx context.Context, method string, args, reply interface{}) error {
	return c.requester.SendRequest(ctx, ServiceName+"."+method, args, reply)
}

func (c *Client) Health(ctx context.Context) (*health.Report, error) {
	res := &health.Report{}
	err := c.send(ctx, "health", &EmptyArgs{}, res)
	return res, err
}

// Call executes data against the diamond without committing.
func (c *Client) Call(ctx context.Context, from common.Address, value *uint256.Int, data []byte) ([]byte, error) {
	res := &CallReply{}
	err := c.send(ctx, "call", &CallArgs{
		From:  From{From: from},
		Value: json.NewUint256(value),
		Data:  data,
	}, res)
	return res.Return, err
}

func (c *Client) Transact(ctx context.Context, from common.Address, value *uint256.Int, data []byte) (*Receipt, error) {
	res := &Receipt{}
	err := c.send(ctx, "transact", &CallArgs{
		From:  From{From: from},
		Value: json.NewUint256(value),
		Data:  data,
	}, res)
	return res, err
}

func (c *Client) DiamondCut(
	ctx context.Context,
	from common.Address,
	cuts []diamond.FacetCut,
	init common.Address,
	calldata []byte,
) (*Receipt, error) {
	res := &Receipt{}
	err := c.send(ctx, "diamondCut", &CutArgs{
		From:     From{From: from},
		Cuts:     cuts,
		Init:     init,
		Calldata: calldata,
	}, res)
	return res, err
}

func (c *Client) Facets(ctx context.Context) ([]diamond.Facet, error) {
	res := &FacetsReply{}
	err := c.send(ctx, "facets", &EmptyArgs{}, res)
	return res.Facets, err
}

func (c *Client) FacetFunctionSelectors(ctx context.Context, facet common.Address) ([]abi.Selector, error) {
	res := &SelectorsReply{}
	err := c.send(ctx, "facetFunctionSelectors", &AddressArgs{Address: facet}, res)
	return res.Selectors, err
}

func (c *Client) FacetAddresses(ctx context.Context) ([]common.Address, error) {
	res := &AddressesReply{}
	err := c.send(ctx, "facetAddresses", &EmptyArgs{}, res)
	return res.Addresses, err
}

func (c *Client) FacetAddress(ctx context.Context, selector abi.Selector) (common.Address, error) {
	res := &AddressReply{}
	err := c.send(ctx, "facetAddress", &SelectorArgs{Selector: selector}, res)
	return res.Address, err
}

func (c *Client) SupportsInterface(ctx context.Context, id abi.Selector) (bool, error) {
	res := &BoolReply{}
	err := c.send(ctx, "supportsInterface", &SelectorArgs{Selector: id}, res)
	return res.Value, err
}

func (c *Client) Owner(ctx context.Context) (common.Address, error) {
	res := &AddressReply{}
	err := c.send(ctx, "owner", &EmptyArgs{}, res)
	return res.Address, err
}

func (c *Client) TransferOwnership(ctx context.Context, from, owner common.Address) (*Receipt, error) {
	res := &Receipt{}
	err := c.send(ctx, "transferOwnership", &OwnerArgs{
		From:  From{From: from},
		Owner: owner,
	}, res)
	return res, err
}

func (c *Client) NativeBalance(ctx context.Context, addr common.Address) (*uint256.Int, error) {
	res := &AmountReply{}
	err := c.send(ctx, "nativeBalance", &AddressArgs{Address: addr}, res)
	return res.Amount.Value(), err
}

func (c *Client) Token(ctx context.Context) (*TokenReply, error) {
	res := &TokenReply{}
	err := c.send(ctx, "token", &EmptyArgs{}, res)
	return res, err
}

func (c *Client) BalanceOf(ctx context.Context, addr common.Address) (*uint256.Int, error) {
	res := &AmountReply{}
	err := c.send(ctx, "balanceOf", &AddressArgs{Address: addr}, res)
	return res.Amount.Value(), err
}

func (c *Client) Allowance(ctx context.Context, owner, spender common.Address) (*uint256.Int, error) {
	res := &AmountReply{}
	err := c.send(ctx, "allowance", &AllowanceArgs{
		Owner:   owner,
		Spender: spender,
	}, res)
	return res.Amount.Value(), err
}

func (c *Client) Transfer(ctx context.Context, from, to common.Address, amount *uint256.Int) (*Receipt, error) {
	res := &Receipt{}
	err := c.send(ctx, "transfer", &TransferArgs{
		From:   From{From: from},
		To:     to,
		Amount: json.NewUint256(amount),
	}, res)
	return res, err
}

func (c *Client) Approve(ctx context.Context, from, spender common.Address, amount *uint256.Int) (*Receipt, error) {
	res := &Receipt{}
	err := c.send(ctx, "approve", &ApproveArgs{
		From:    From{From: from},
		Spender: spender,
		Amount:  json.NewUint256(amount),
	}, res)
	return res, err
}

func (c *Client) TransferFrom(ctx context.Context, from, owner, to common.Address, amount *uint256.Int) (*Receipt, error) {
	res := &Receipt{}
	err := c.send(ctx, "transferFrom", &TransferFromArgs{
		From:   From{From: from},
		Owner:  owner,
		To:     to,
		Amount: json.NewUint256(amount),
	}, res)
	return res, err
}

func (c *Client) Mint(ctx context.Context, from, to common.Address, amount *uint256.Int) (*Receipt, error) {
	res := &Receipt{}
	err := c.send(ctx, "mint", &TransferArgs{
		From:   From{From: from},
		To:     to,
		Amount: json.NewUint256(amount),
	}, res)
	return res, err
}

func (c *Client) Burn(ctx context.Context, from common.Address, amount *uint256.Int) (*Receipt, error) {
	res := &Receipt{}
	err := c.send(ctx, "burn", &AmountArgs{
		From:   From{From: from},
		Amount: json.NewUint256(amount),
	}, res)
	return res, err
}

// SwapEthForTokens pays value of native currency for tokens and returns the
// amount of tokens minted.
func (c *Client) SwapEthForTokens(ctx context.Context, from common.Address, value *uint256.Int) (*SwapReply, error) {
	res := &SwapReply{}
	err := c.send(ctx, "swapEthForTokens", &AmountArgs{
		From:   From{From: from},
		Amount: json.NewUint256(value),
	}, res)
	return res, err
}

func (c *Client) SetTokenPrice(ctx context.Context, from common.Address, price *uint256.Int) (*Receipt, error) {
	res := &Receipt{}
	err := c.send(ctx, "setTokenPrice", &AmountArgs{
		From:   From{From: from},
		Amount: json.NewUint256(price),
	}, res)
	return res, err
}

func (c *Client) SetSwapEnabled(ctx context.Context, from common.Address, enabled bool) (*Receipt, error) {
	res := &Receipt{}
	err := c.send(ctx, "setSwapEnabled", &EnabledArgs{
		From:    From{From: from},
		Enabled: enabled,
	}, res)
	return res, err
}

func (c *Client) WithdrawEth(ctx context.Context, from, to common.Address, amount *uint256.Int) (*Receipt, error) {
	res := &Receipt{}
	err := c.send(ctx, "withdrawEth", &TransferArgs{
		From:   From{From: from},
		To:     to,
		Amount: json.NewUint256(amount),
	}, res)
	return res, err
}

func (c *Client) TokenURI(ctx context.Context) (string, error) {
	res := &StringReply{}
	err := c.send(ctx, "tokenURI", &EmptyArgs{}, res)
	return res.Value, err
}

func (c *Client) Logo(ctx context.Context) (string, error) {
	res := &StringReply{}
	err := c.send(ctx, "logo", &EmptyArgs{}, res)
	return res.Value, err
}

func (c *Client) Metadata(ctx context.Context) (string, error) {
	res := &StringReply{}
	err := c.send(ctx, "metadata", &EmptyArgs{}, res)
	return res.Value, err
}

func (c *Client) SetTokenMetadata(
	ctx context.Context,
	from common.Address,
	description string,
	externalURL string,
	backgroundColor string,
) (*Receipt, error) {
	res := &Receipt{}
	err := c.send(ctx, "setTokenMetadata", &MetadataArgs{
		From:            From{From: from},
		Description:     description,
		ExternalURL:     externalURL,
		BackgroundColor: backgroundColor,
	}, res)
	return res, err
}

func (c *Client) InitializeMultiSig(
	ctx context.Context,
	from common.Address,
	owners []common.Address,
	threshold uint64,
) (*Receipt, error) {
	res := &Receipt{}
	err := c.send(ctx, "initializeMultiSig", &InitializeMultiSigArgs{
		From:      From{From: from},
		Owners:    owners,
		Threshold: json.Uint64(threshold),
	}, res)
	return res, err
}

// SubmitTransaction proposes a call and returns the proposal's identifier.
func (c *Client) SubmitTransaction(
	ctx context.Context,
	from common.Address,
	target common.Address,
	value *uint256.Int,
	data []byte,
) (uint64, error) {
	res := &SubmitReply{}
	err := c.send(ctx, "submitTransaction", &SubmitArgs{
		From:   From{From: from},
		Target: target,
		Value:  json.NewUint256(value),
		Data:   data,
	}, res)
	return uint64(res.TransactionID), err
}

func (c *Client) ConfirmTransaction(ctx context.Context, from common.Address, txID uint64) (*Receipt, error) {
	res := &Receipt{}
	err := c.send(ctx, "confirmTransaction", &TransactionArgs{
		From:          From{From: from},
		TransactionID: json.Uint64(txID),
	}, res)
	return res, err
}

func (c *Client) RevokeConfirmation(ctx context.Context, from common.Address, txID uint64) (*Receipt, error) {
	res := &Receipt{}
	err := c.send(ctx, "revokeConfirmation", &TransactionArgs{
		From:          From{From: from},
		TransactionID: json.Uint64(txID),
	}, res)
	return res, err
}

// ExecuteTransaction runs a confirmed proposal. A proposal whose effect
// failed is still consumed and reported with Success false.
func (c *Client) ExecuteTransaction(ctx context.Context, from common.Address, txID uint64) (*ExecuteReply, error) {
	res := &ExecuteReply{}
	err := c.send(ctx, "executeTransaction", &TransactionArgs{
		From:          From{From: from},
		TransactionID: json.Uint64(txID),
	}, res)
	return res, err
}

func (c *Client) AddOwner(ctx context.Context, from, owner common.Address) (*Receipt, error) {
	res := &Receipt{}
	err := c.send(ctx, "addOwner", &OwnerArgs{
		From:  From{From: from},
		Owner: owner,
	}, res)
	return res, err
}

func (c *Client) RemoveOwner(ctx context.Context, from, owner common.Address) (*Receipt, error) {
	res := &Receipt{}
	err := c.send(ctx, "removeOwner", &OwnerArgs{
		From:  From{From: from},
		Owner: owner,
	}, res)
	return res, err
}

func (c *Client) MultiSig(ctx context.Context) (*MultiSigReply, error) {
	res := &MultiSigReply{}
	err := c.send(ctx, "multiSig", &EmptyArgs{}, res)
	return res, err
}

func (c *Client) GetTransaction(ctx context.Context, txID uint64) (*TransactionReply, error) {
	res := &TransactionReply{}
	err := c.send(ctx, "getTransaction", &TransactionIDArgs{TransactionID: json.Uint64(txID)}, res)
	return res, err
}

func (c *Client) IsConfirmed(ctx context.Context, txID uint64, owner common.Address) (bool, error) {
	res := &BoolReply{}
	err := c.send(ctx, "isConfirmed", &TransactionIDArgs{
		TransactionID: json.Uint64(txID),
		Owner:         owner,
	}, res)
	return res.Value, err
}
