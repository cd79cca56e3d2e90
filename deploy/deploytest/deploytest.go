// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package deploytest deploys a funded BLL diamond on an in-memory host.
package deploytest

import (
	"context"
	"testing"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/diamond/client"
	"github.com/luxfi/diamond/deploy"
	"github.com/luxfi/diamond/engine"
	"github.com/luxfi/diamond/utils/units"
)

// Funding is the native balance every test account starts with.
const Funding = 100

var (
	Owner = common.HexToAddress("0x00000000000000000000000000000000000000f0")
	Addr1 = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	Addr2 = common.HexToAddress("0x00000000000000000000000000000000000000a2")
	Addr3 = common.HexToAddress("0x00000000000000000000000000000000000000a3")

	Accounts = []common.Address{Owner, Addr1, Addr2, Addr3}
)

type Fixture struct {
	Host       *engine.Host
	Client     *client.Client
	Deployment *deploy.Deployment
}

// New deploys the default diamond owned by Owner and funds every account.
// observer may be nil.
func New(t testing.TB, observer engine.Observer) *Fixture {
	require := require.New(t)
	ctx := context.Background()

	host := engine.NewHost(ids.GenerateTestID(), memdb.New(), log.NewNoOpLogger(), observer)
	for _, addr := range Accounts {
		require.NoError(host.Fund(ctx, addr, units.Ethers(Funding)))
	}
	d, err := deploy.Diamond(ctx, host, Owner, deploy.DefaultArgs())
	require.NoError(err)

	return &Fixture{
		Host:       host,
		Client:     client.New(host, d.Diamond),
		Deployment: d,
	}
}
