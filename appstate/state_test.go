// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package appstate

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/diamond/engine"
)

var (
	alice = common.HexToAddress("0x0000000000000000000000000000000000000a11")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	carol = common.HexToAddress("0x0000000000000000000000000000000000000ca7")
)

func TestDefaults(t *testing.T) {
	require := require.New(t)
	s := New(memdb.New())

	initialized, err := s.Initialized()
	require.NoError(err)
	require.False(initialized)

	name, err := s.Name()
	require.NoError(err)
	require.Empty(name)

	supply, err := s.TotalSupply()
	require.NoError(err)
	require.True(supply.IsZero())

	threshold, err := s.Threshold()
	require.NoError(err)
	require.Zero(threshold)

	owners, err := s.Owners()
	require.NoError(err)
	require.Empty(owners)

	_, err = s.Transaction(0)
	require.ErrorIs(err, ErrTransactionNotFound)
	require.ErrorIs(err, engine.ErrInvalidArgument)
}

func TestFieldsDoNotCollide(t *testing.T) {
	require := require.New(t)
	s := New(memdb.New())

	require.NoError(s.SetName("BLL Token"))
	require.NoError(s.SetSymbol("BLL"))
	require.NoError(s.SetDecimals(18))
	require.NoError(s.SetTotalSupply(uint256.NewInt(1)))
	require.NoError(s.SetMaxSupply(uint256.NewInt(2)))
	require.NoError(s.SetTokenPrice(uint256.NewInt(3)))
	require.NoError(s.SetTotalEthReceived(uint256.NewInt(4)))
	require.NoError(s.SetBalance(alice, uint256.NewInt(5)))
	require.NoError(s.SetAllowance(alice, bob, uint256.NewInt(6)))
	require.NoError(s.SetAllowance(bob, alice, uint256.NewInt(7)))
	require.NoError(s.SetSwapEnabled(true))
	require.NoError(s.SetThreshold(8))
	require.NoError(s.SetTransactionCount(9))
	require.NoError(s.SetMetadata(TokenMetadata{
		Description:     "desc",
		ExternalURL:     "https://example.com",
		BackgroundColor: "667eea",
	}))
	require.NoError(s.SetInitialized())

	name, err := s.Name()
	require.NoError(err)
	require.Equal("BLL Token", name)
	symbol, err := s.Symbol()
	require.NoError(err)
	require.Equal("BLL", symbol)
	decimals, err := s.Decimals()
	require.NoError(err)
	require.Equal(uint8(18), decimals)

	amounts := []struct {
		get      func() (*uint256.Int, error)
		expected uint64
	}{
		{s.TotalSupply, 1},
		{s.MaxSupply, 2},
		{s.TokenPrice, 3},
		{s.TotalEthReceived, 4},
		{func() (*uint256.Int, error) { return s.BalanceOf(alice) }, 5},
		{func() (*uint256.Int, error) { return s.Allowance(alice, bob) }, 6},
		{func() (*uint256.Int, error) { return s.Allowance(bob, alice) }, 7},
		{func() (*uint256.Int, error) { return s.BalanceOf(bob) }, 0},
	}
	for _, a := range amounts {
		v, err := a.get()
		require.NoError(err)
		require.Equal(a.expected, v.Uint64())
	}

	enabled, err := s.SwapEnabled()
	require.NoError(err)
	require.True(enabled)
	threshold, err := s.Threshold()
	require.NoError(err)
	require.Equal(uint64(8), threshold)
	count, err := s.TransactionCount()
	require.NoError(err)
	require.Equal(uint64(9), count)
	metadata, err := s.Metadata()
	require.NoError(err)
	require.Equal("667eea", metadata.BackgroundColor)
	initialized, err := s.Initialized()
	require.NoError(err)
	require.True(initialized)
}

func TestZeroAmountIsDeleted(t *testing.T) {
	require := require.New(t)
	db := memdb.New()
	s := New(db)

	require.NoError(s.SetBalance(alice, uint256.NewInt(5)))
	require.NoError(s.SetBalance(alice, new(uint256.Int)))

	bal, err := s.BalanceOf(alice)
	require.NoError(err)
	require.True(bal.IsZero())

	it := db.NewIterator()
	defer it.Release()
	require.False(it.Next())
}

func TestOwners(t *testing.T) {
	require := require.New(t)
	s := New(memdb.New())

	require.NoError(s.AddOwner(alice))
	require.NoError(s.AddOwner(bob))
	require.NoError(s.AddOwner(carol))

	owners, err := s.Owners()
	require.NoError(err)
	require.Equal([]common.Address{alice, bob, carol}, owners)

	require.NoError(s.RemoveOwner(alice))
	owners, err = s.Owners()
	require.NoError(err)
	require.Equal([]common.Address{carol, bob}, owners)

	isOwner, err := s.IsOwner(alice)
	require.NoError(err)
	require.False(isOwner)

	// carol's recorded position must follow the move
	require.NoError(s.RemoveOwner(carol))
	owners, err = s.Owners()
	require.NoError(err)
	require.Equal([]common.Address{bob}, owners)

	isOwner, err = s.IsOwner(bob)
	require.NoError(err)
	require.True(isOwner)
}

func TestTransactionRecord(t *testing.T) {
	require := require.New(t)
	s := New(memdb.New())

	tx := &Transaction{
		Target:      carol,
		Data:        []byte{0xde, 0xad},
		SubmittedBy: alice,
	}
	tx.SetValue(uint256.NewInt(1_000))
	require.True(tx.Confirm(alice))
	require.False(tx.Confirm(alice))
	require.True(tx.Confirm(bob))
	require.NoError(s.PutTransaction(3, tx))

	got, err := s.Transaction(3)
	require.NoError(err)
	require.Equal(tx, got)
	require.Equal(uint64(1_000), got.Value().Uint64())

	require.True(got.Revoke(alice))
	require.False(got.Revoke(alice))
	require.Equal([]common.Address{bob}, got.Confirmations)
}

func TestTransactionStatus(t *testing.T) {
	tests := []struct {
		name          string
		confirmations []common.Address
		executed      bool
		threshold     uint64
		expected      TxStatus
	}{
		{"fresh", nil, false, 2, Submitted},
		{"one of two", []common.Address{alice}, false, 2, PartiallyConfirmed},
		{"two of two", []common.Address{alice, bob}, false, 2, Confirmed},
		{"above threshold after it dropped", []common.Address{alice, bob}, false, 1, Confirmed},
		{"executed", []common.Address{alice}, true, 2, Executed},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tx := &Transaction{Confirmations: test.confirmations, Executed: test.executed}
			require.Equal(t, test.expected, tx.Status(test.threshold))
		})
	}
}
