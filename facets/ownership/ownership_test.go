// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ownership_test

import (
	"context"
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/diamond/deploy/deploytest"
	"github.com/luxfi/diamond/diamond"
	"github.com/luxfi/diamond/engine"
)

func TestTransferOwnership(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := deploytest.New(t, nil)

	owner, err := f.Client.Owner(ctx)
	require.NoError(err)
	require.Equal(deploytest.Owner, owner)

	receipt, err := f.Client.TransferOwnership(ctx, deploytest.Owner, deploytest.Addr1)
	require.NoError(err)
	events := receipt.EventsNamed("OwnershipTransferred")
	require.Len(events, 1)
	previous, ok := events[0].Get("previousOwner")
	require.True(ok)
	require.Equal(deploytest.Owner.Hex(), previous)

	owner, err = f.Client.Owner(ctx)
	require.NoError(err)
	require.Equal(deploytest.Addr1, owner)

	// the previous owner lost every owner-gated method
	_, err = f.Client.TransferOwnership(ctx, deploytest.Owner, deploytest.Addr2)
	require.ErrorIs(err, diamond.ErrNotContractOwner)
}

func TestTransferOwnershipErrors(t *testing.T) {
	tests := []struct {
		name        string
		from        common.Address
		newOwner    common.Address
		expectedErr error
	}{
		{
			name:        "not owner",
			from:        deploytest.Addr1,
			newOwner:    deploytest.Addr1,
			expectedErr: engine.ErrUnauthorized,
		},
		{
			name:        "zero owner",
			from:        deploytest.Owner,
			expectedErr: engine.ErrZeroAddress,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.Background()
			f := deploytest.New(t, nil)

			_, err := f.Client.TransferOwnership(ctx, test.from, test.newOwner)
			require.ErrorIs(err, test.expectedErr)

			owner, err := f.Client.Owner(ctx)
			require.NoError(err)
			require.Equal(deploytest.Owner, owner)
		})
	}
}
