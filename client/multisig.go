// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/diamond/abi"
	"github.com/luxfi/diamond/engine"
	"github.com/luxfi/diamond/facets/multisig"
	"github.com/luxfi/diamond/utils/wrappers"
)

func packID(id uint64) func(p *wrappers.Packer) {
	return func(p *wrappers.Packer) {
		p.PackUint256(uint256.NewInt(id))
	}
}

func (c *Client) InitializeMultiSig(ctx context.Context, from common.Address, owners []common.Address, required uint64) (*engine.Receipt, error) {
	return c.write(ctx, from, nil, multisig.InitializeMultiSigSignature, func(p *wrappers.Packer) {
		p.PackAddresses(owners)
		p.PackUint256(uint256.NewInt(required))
	})
}

func (c *Client) SubmitTransaction(ctx context.Context, from, target common.Address, value *uint256.Int, data []byte) (uint64, *engine.Receipt, error) {
	receipt, err := c.write(ctx, from, nil, multisig.SubmitTransactionSignature, func(p *wrappers.Packer) {
		p.PackAddress(target)
		p.PackUint256(value)
		p.PackBytes(data)
	})
	if err != nil {
		return 0, nil, err
	}
	id, err := abi.DecodeUint256(receipt.Return)
	if err != nil {
		return 0, nil, err
	}
	return id.Uint64(), receipt, nil
}

func (c *Client) ConfirmTransaction(ctx context.Context, from common.Address, id uint64) (*engine.Receipt, error) {
	return c.write(ctx, from, nil, multisig.ConfirmTransactionSignature, packID(id))
}

func (c *Client) RevokeConfirmation(ctx context.Context, from common.Address, id uint64) (*engine.Receipt, error) {
	return c.write(ctx, from, nil, multisig.RevokeConfirmationSignature, packID(id))
}

// ExecuteTransaction reports whether the transaction's effect succeeded.
func (c *Client) ExecuteTransaction(ctx context.Context, from common.Address, id uint64) (bool, *engine.Receipt, error) {
	receipt, err := c.write(ctx, from, nil, multisig.ExecuteTransactionSignature, packID(id))
	if err != nil {
		return false, nil, err
	}
	ok, err := abi.DecodeBool(receipt.Return)
	return ok, receipt, err
}

func (c *Client) AddOwner(ctx context.Context, from, owner common.Address) (*engine.Receipt, error) {
	return c.write(ctx, from, nil, multisig.AddOwnerSignature, func(p *wrappers.Packer) {
		p.PackAddress(owner)
	})
}

func (c *Client) RemoveOwner(ctx context.Context, from, owner common.Address) (*engine.Receipt, error) {
	return c.write(ctx, from, nil, multisig.RemoveOwnerSignature, func(p *wrappers.Packer) {
		p.PackAddress(owner)
	})
}

func (c *Client) Owners(ctx context.Context) ([]common.Address, error) {
	ret, err := c.read(ctx, multisig.GetOwnersSignature, nil)
	if err != nil {
		return nil, err
	}
	return abi.DecodeAddresses(ret)
}

func (c *Client) IsOwner(ctx context.Context, addr common.Address) (bool, error) {
	ret, err := c.read(ctx, multisig.IsOwnerSignature, func(p *wrappers.Packer) {
		p.PackAddress(addr)
	})
	if err != nil {
		return false, err
	}
	return abi.DecodeBool(ret)
}

func (c *Client) RequiredConfirmations(ctx context.Context) (uint64, error) {
	v, err := c.readUint256(ctx, multisig.GetRequiredConfirmationsSignature, nil)
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}

func (c *Client) Transaction(ctx context.Context, id uint64) (*multisig.TransactionView, error) {
	ret, err := c.read(ctx, multisig.GetTransactionSignature, packID(id))
	if err != nil {
		return nil, err
	}
	view := &multisig.TransactionView{}
	return view, abi.Decode(ret, view.Unpack)
}

func (c *Client) TransactionCount(ctx context.Context) (uint64, error) {
	v, err := c.readUint256(ctx, multisig.GetTransactionCountSignature, nil)
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}

func (c *Client) IsConfirmed(ctx context.Context, id uint64, owner common.Address) (bool, error) {
	ret, err := c.read(ctx, multisig.IsConfirmedSignature, func(p *wrappers.Packer) {
		p.PackUint256(uint256.NewInt(id))
		p.PackAddress(owner)
	})
	if err != nil {
		return false, err
	}
	return abi.DecodeBool(ret)
}

func (c *Client) ConfirmationCount(ctx context.Context, id uint64) (uint64, error) {
	v, err := c.readUint256(ctx, multisig.GetConfirmationCountSignature, packID(id))
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}
