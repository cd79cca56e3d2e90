// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/diamond/abi"
	"github.com/luxfi/diamond/engine"
	"github.com/luxfi/diamond/facets/erc20"
	"github.com/luxfi/diamond/facets/swap"
	"github.com/luxfi/diamond/facets/tokenuri"
	"github.com/luxfi/diamond/utils/wrappers"
)

func (c *Client) readString(ctx context.Context, signature string) (string, error) {
	ret, err := c.read(ctx, signature, nil)
	if err != nil {
		return "", err
	}
	return abi.DecodeString(ret)
}

func (c *Client) readUint256(ctx context.Context, signature string, pack func(p *wrappers.Packer)) (*uint256.Int, error) {
	ret, err := c.read(ctx, signature, pack)
	if err != nil {
		return nil, err
	}
	return abi.DecodeUint256(ret)
}

func (c *Client) Name(ctx context.Context) (string, error) {
	return c.readString(ctx, erc20.NameSignature)
}

func (c *Client) Symbol(ctx context.Context) (string, error) {
	return c.readString(ctx, erc20.SymbolSignature)
}

func (c *Client) Decimals(ctx context.Context) (uint8, error) {
	ret, err := c.read(ctx, erc20.DecimalsSignature, nil)
	if err != nil {
		return 0, err
	}
	var v uint8
	err = abi.Decode(ret, func(p *wrappers.Packer) {
		v = p.UnpackByte()
	})
	return v, err
}

func (c *Client) TotalSupply(ctx context.Context) (*uint256.Int, error) {
	return c.readUint256(ctx, erc20.TotalSupplySignature, nil)
}

func (c *Client) MaxSupply(ctx context.Context) (*uint256.Int, error) {
	return c.readUint256(ctx, erc20.MaxSupplySignature, nil)
}

func (c *Client) BalanceOf(ctx context.Context, holder common.Address) (*uint256.Int, error) {
	return c.readUint256(ctx, erc20.BalanceOfSignature, func(p *wrappers.Packer) {
		p.PackAddress(holder)
	})
}

func (c *Client) Allowance(ctx context.Context, owner, spender common.Address) (*uint256.Int, error) {
	return c.readUint256(ctx, erc20.AllowanceSignature, func(p *wrappers.Packer) {
		p.PackAddress(owner)
		p.PackAddress(spender)
	})
}

func (c *Client) Transfer(ctx context.Context, from, to common.Address, amount *uint256.Int) (*engine.Receipt, error) {
	return c.write(ctx, from, nil, erc20.TransferSignature, func(p *wrappers.Packer) {
		p.PackAddress(to)
		p.PackUint256(amount)
	})
}

func (c *Client) Approve(ctx context.Context, from, spender common.Address, amount *uint256.Int) (*engine.Receipt, error) {
	return c.write(ctx, from, nil, erc20.ApproveSignature, func(p *wrappers.Packer) {
		p.PackAddress(spender)
		p.PackUint256(amount)
	})
}

// TransferFrom moves owner's tokens to to, spending spender's allowance.
func (c *Client) TransferFrom(ctx context.Context, spender, owner, to common.Address, amount *uint256.Int) (*engine.Receipt, error) {
	return c.write(ctx, spender, nil, erc20.TransferFromSignature, func(p *wrappers.Packer) {
		p.PackAddress(owner)
		p.PackAddress(to)
		p.PackUint256(amount)
	})
}

func (c *Client) Mint(ctx context.Context, from, to common.Address, amount *uint256.Int) (*engine.Receipt, error) {
	return c.write(ctx, from, nil, erc20.MintSignature, func(p *wrappers.Packer) {
		p.PackAddress(to)
		p.PackUint256(amount)
	})
}

func (c *Client) Burn(ctx context.Context, from common.Address, amount *uint256.Int) (*engine.Receipt, error) {
	return c.write(ctx, from, nil, erc20.BurnSignature, func(p *wrappers.Packer) {
		p.PackUint256(amount)
	})
}

// SwapEthForTokens pays value and returns the tokens minted to from.
func (c *Client) SwapEthForTokens(ctx context.Context, from common.Address, value *uint256.Int) (*uint256.Int, *engine.Receipt, error) {
	receipt, err := c.write(ctx, from, value, swap.SwapEthForTokensSignature, nil)
	if err != nil {
		return nil, nil, err
	}
	tokens, err := abi.DecodeUint256(receipt.Return)
	return tokens, receipt, err
}

func (c *Client) TokenPrice(ctx context.Context) (*uint256.Int, error) {
	return c.readUint256(ctx, swap.GetTokenPriceSignature, nil)
}

func (c *Client) SetTokenPrice(ctx context.Context, from common.Address, price *uint256.Int) (*engine.Receipt, error) {
	return c.write(ctx, from, nil, swap.SetTokenPriceSignature, func(p *wrappers.Packer) {
		p.PackUint256(price)
	})
}

func (c *Client) SetSwapEnabled(ctx context.Context, from common.Address, enabled bool) (*engine.Receipt, error) {
	return c.write(ctx, from, nil, swap.SetSwapEnabledSignature, func(p *wrappers.Packer) {
		p.PackBool(enabled)
	})
}

func (c *Client) IsSwapEnabled(ctx context.Context) (bool, error) {
	ret, err := c.read(ctx, swap.IsSwapEnabledSignature, nil)
	if err != nil {
		return false, err
	}
	return abi.DecodeBool(ret)
}

func (c *Client) TotalEthReceived(ctx context.Context) (*uint256.Int, error) {
	return c.readUint256(ctx, swap.GetTotalEthReceivedSignature, nil)
}

func (c *Client) ContractBalance(ctx context.Context) (*uint256.Int, error) {
	return c.readUint256(ctx, swap.GetContractBalanceSignature, nil)
}

func (c *Client) WithdrawEth(ctx context.Context, from, to common.Address, amount *uint256.Int) (*engine.Receipt, error) {
	return c.write(ctx, from, nil, swap.WithdrawEthSignature, func(p *wrappers.Packer) {
		p.PackAddress(to)
		p.PackUint256(amount)
	})
}

func (c *Client) readBytes(ctx context.Context, signature string) ([]byte, error) {
	ret, err := c.read(ctx, signature, nil)
	if err != nil {
		return nil, err
	}
	var b []byte
	err = abi.Decode(ret, func(p *wrappers.Packer) {
		b = p.UnpackLimitedBytes(abi.MaxCalldataSize)
	})
	return b, err
}

func (c *Client) TokenURI(ctx context.Context) (string, error) {
	b, err := c.readBytes(ctx, tokenuri.TokenURISignature)
	return string(b), err
}

func (c *Client) Metadata(ctx context.Context) (string, error) {
	b, err := c.readBytes(ctx, tokenuri.GetMetadataSignature)
	return string(b), err
}

func (c *Client) Logo(ctx context.Context) (string, error) {
	return c.readString(ctx, tokenuri.GetLogoSignature)
}

func (c *Client) SetTokenMetadata(ctx context.Context, from common.Address, description, externalURL, backgroundColor string) (*engine.Receipt, error) {
	return c.write(ctx, from, nil, tokenuri.SetTokenMetadataSignature, func(p *wrappers.Packer) {
		p.PackStr(description)
		p.PackStr(externalURL)
		p.PackStr(backgroundColor)
	})
}
