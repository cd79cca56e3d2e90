// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package swap_test

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/diamond/deploy/deploytest"
	"github.com/luxfi/diamond/engine"
	"github.com/luxfi/diamond/facets/swap"
	"github.com/luxfi/diamond/utils/units"
)

func TestSwapEthForTokens(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := deploytest.New(t, nil)
	c := f.Client

	tokens, receipt, err := c.SwapEthForTokens(ctx, deploytest.Addr1, units.Ethers(1))
	require.NoError(err)
	require.Equal(units.Ethers(1_000), tokens)
	require.Len(receipt.EventsNamed("TokensPurchased"), 1)

	bal, err := c.BalanceOf(ctx, deploytest.Addr1)
	require.NoError(err)
	require.Equal(units.Ethers(1_000), bal)

	received, err := c.TotalEthReceived(ctx)
	require.NoError(err)
	require.Equal(units.Ethers(1), received)

	held, err := c.ContractBalance(ctx)
	require.NoError(err)
	require.Equal(units.Ethers(1), held)

	native, err := f.Host.Balance(deploytest.Addr1)
	require.NoError(err)
	require.Equal(units.Ethers(deploytest.Funding-1), native)
}

func TestSwapRejections(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := deploytest.New(t, nil)
	c := f.Client

	_, _, err := c.SwapEthForTokens(ctx, deploytest.Addr1, nil)
	require.ErrorIs(err, swap.ErrNoValue)

	_, err = c.SetSwapEnabled(ctx, deploytest.Addr1, false)
	require.ErrorIs(err, engine.ErrUnauthorized)
	_, err = c.SetSwapEnabled(ctx, deploytest.Owner, false)
	require.NoError(err)
	enabled, err := c.IsSwapEnabled(ctx)
	require.NoError(err)
	require.False(enabled)

	_, _, err = c.SwapEthForTokens(ctx, deploytest.Addr1, units.Ethers(1))
	require.ErrorIs(err, swap.ErrSwapDisabled)

	// the payment was rolled back with the swap
	native, err := f.Host.Balance(deploytest.Addr1)
	require.NoError(err)
	require.Equal(units.Ethers(deploytest.Funding), native)

	_, err = c.SetSwapEnabled(ctx, deploytest.Owner, true)
	require.NoError(err)
	_, err = c.SetTokenPrice(ctx, deploytest.Owner, units.Ethers(2))
	require.NoError(err)
	_, _, err = c.SwapEthForTokens(ctx, deploytest.Addr1, uint256.NewInt(1))
	require.ErrorIs(err, swap.ErrNoTokens)
}

func TestSetTokenPrice(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := deploytest.New(t, nil)
	c := f.Client

	newPrice := units.Amount(2, units.Milliether)
	_, err := c.SetTokenPrice(ctx, deploytest.Addr1, newPrice)
	require.ErrorIs(err, engine.ErrUnauthorized)
	_, err = c.SetTokenPrice(ctx, deploytest.Owner, new(uint256.Int))
	require.ErrorIs(err, swap.ErrZeroPrice)

	receipt, err := c.SetTokenPrice(ctx, deploytest.Owner, newPrice)
	require.NoError(err)
	require.Len(receipt.EventsNamed("TokenPriceUpdated"), 1)

	price, err := c.TokenPrice(ctx)
	require.NoError(err)
	require.Equal(newPrice, price)

	tokens, _, err := c.SwapEthForTokens(ctx, deploytest.Addr2, units.Ethers(1))
	require.NoError(err)
	require.Equal(units.Ethers(500), tokens)
}

func TestWithdrawEth(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := deploytest.New(t, nil)
	c := f.Client

	_, _, err := c.SwapEthForTokens(ctx, deploytest.Addr1, units.Ethers(1))
	require.NoError(err)

	_, err = c.WithdrawEth(ctx, deploytest.Addr1, deploytest.Addr1, units.Ethers(1))
	require.ErrorIs(err, engine.ErrUnauthorized)
	_, err = c.WithdrawEth(ctx, deploytest.Owner, deploytest.Owner, units.Ethers(2))
	require.ErrorIs(err, swap.ErrInsufficientEth)

	receipt, err := c.WithdrawEth(ctx, deploytest.Owner, deploytest.Owner, units.Ethers(1))
	require.NoError(err)
	require.Len(receipt.EventsNamed("EthWithdrawn"), 1)

	held, err := c.ContractBalance(ctx)
	require.NoError(err)
	require.True(held.IsZero())

	native, err := f.Host.Balance(deploytest.Owner)
	require.NoError(err)
	require.Equal(units.Ethers(deploytest.Funding+1), native)
}

func TestTokensFor(t *testing.T) {
	tests := []struct {
		name     string
		value    *uint256.Int
		price    *uint256.Int
		expected *uint256.Int
		err      error
	}{
		{
			name:     "whole tokens",
			value:    units.Ethers(1),
			price:    units.Amount(1, units.Milliether),
			expected: units.Ethers(1_000),
		},
		{
			name:     "fractional tokens",
			value:    uint256.NewInt(1),
			price:    units.Amount(1, units.Milliether),
			expected: uint256.NewInt(1_000),
		},
		{
			name:  "no price",
			value: units.Ethers(1),
			price: new(uint256.Int),
			err:   swap.ErrPriceNotConfigured,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)
			got, err := swap.TokensFor(test.value, test.price)
			require.ErrorIs(err, test.err)
			if test.err == nil {
				require.Equal(test.expected, got)
			}
		})
	}
}
