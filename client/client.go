// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package client provides typed calls into a deployed token diamond.
package client

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/diamond/abi"
	"github.com/luxfi/diamond/diamond"
	"github.com/luxfi/diamond/engine"
	"github.com/luxfi/diamond/utils/wrappers"
)

// Client reads from and transacts with one diamond. Reads run as calls and
// never change state.
type Client struct {
	host    *engine.Host
	diamond common.Address
}

func New(host *engine.Host, diamondAddr common.Address) *Client {
	return &Client{
		host:    host,
		diamond: diamondAddr,
	}
}

func (c *Client) Address() common.Address {
	return c.diamond
}

func (c *Client) Host() *engine.Host {
	return c.host
}

// Call runs raw calldata against the diamond without committing.
func (c *Client) Call(ctx context.Context, from common.Address, value *uint256.Int, data []byte) ([]byte, error) {
	return c.host.Call(ctx, engine.Message{
		From:  from,
		To:    c.diamond,
		Value: value,
		Data:  data,
	})
}

// Transact runs raw calldata against the diamond and commits it.
func (c *Client) Transact(ctx context.Context, from common.Address, value *uint256.Int, data []byte) (*engine.Receipt, error) {
	return c.host.Transact(ctx, engine.Message{
		From:  from,
		To:    c.diamond,
		Value: value,
		Data:  data,
	})
}

func (c *Client) read(ctx context.Context, signature string, pack func(p *wrappers.Packer)) ([]byte, error) {
	data, err := abi.Encode(signature, pack)
	if err != nil {
		return nil, err
	}
	return c.Call(ctx, common.Address{}, nil, data)
}

func (c *Client) write(ctx context.Context, from common.Address, value *uint256.Int, signature string, pack func(p *wrappers.Packer)) (*engine.Receipt, error) {
	data, err := abi.Encode(signature, pack)
	if err != nil {
		return nil, err
	}
	return c.Transact(ctx, from, value, data)
}

func (c *Client) DiamondCut(ctx context.Context, from common.Address, cuts []diamond.FacetCut, init common.Address, calldata []byte) (*engine.Receipt, error) {
	data, err := diamond.EncodeCut(cuts, init, calldata)
	if err != nil {
		return nil, err
	}
	return c.Transact(ctx, from, nil, data)
}

func (c *Client) Facets(ctx context.Context) ([]diamond.Facet, error) {
	ret, err := c.read(ctx, diamond.FacetsSignature, nil)
	if err != nil {
		return nil, err
	}
	var facets []diamond.Facet
	err = abi.Decode(ret, func(p *wrappers.Packer) {
		facets = diamond.UnpackFacets(p)
	})
	return facets, err
}

func (c *Client) FacetFunctionSelectors(ctx context.Context, facet common.Address) ([]abi.Selector, error) {
	ret, err := c.read(ctx, diamond.FacetFunctionSelectorsSignature, func(p *wrappers.Packer) {
		p.PackAddress(facet)
	})
	if err != nil {
		return nil, err
	}
	var sels []abi.Selector
	err = abi.Decode(ret, func(p *wrappers.Packer) {
		sels = abi.UnpackSelectors(p)
	})
	return sels, err
}

func (c *Client) FacetAddresses(ctx context.Context) ([]common.Address, error) {
	ret, err := c.read(ctx, diamond.FacetAddressesSignature, nil)
	if err != nil {
		return nil, err
	}
	return abi.DecodeAddresses(ret)
}

func (c *Client) FacetAddress(ctx context.Context, sel abi.Selector) (common.Address, error) {
	ret, err := c.read(ctx, diamond.FacetAddressSignature, func(p *wrappers.Packer) {
		abi.PackSelector(p, sel)
	})
	if err != nil {
		return common.Address{}, err
	}
	return abi.DecodeAddress(ret)
}

func (c *Client) SupportsInterface(ctx context.Context, id abi.Selector) (bool, error) {
	ret, err := c.read(ctx, diamond.SupportsInterfaceSignature, func(p *wrappers.Packer) {
		abi.PackSelector(p, id)
	})
	if err != nil {
		return false, err
	}
	return abi.DecodeBool(ret)
}

func (c *Client) Owner(ctx context.Context) (common.Address, error) {
	ret, err := c.read(ctx, diamond.OwnerSignature, nil)
	if err != nil {
		return common.Address{}, err
	}
	return abi.DecodeAddress(ret)
}

func (c *Client) TransferOwnership(ctx context.Context, from, newOwner common.Address) (*engine.Receipt, error) {
	return c.write(ctx, from, nil, diamond.TransferOwnershipSignature, func(p *wrappers.Packer) {
		p.PackAddress(newOwner)
	})
}
