// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"bytes"
	"context"
	stdjson "encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/diamond/abi"
	"github.com/luxfi/diamond/api/health"
	"github.com/luxfi/diamond/appstate"
	"github.com/luxfi/diamond/deploy/deploytest"
	"github.com/luxfi/diamond/diamond"
	"github.com/luxfi/diamond/facets/erc20"
	"github.com/luxfi/diamond/facets/multisig"
	"github.com/luxfi/diamond/metrics"
	"github.com/luxfi/diamond/utils/json"
	"github.com/luxfi/diamond/utils/units"
)

type testAPI struct {
	url     string
	client  *Client
	fixture *deploytest.Fixture
}

func newTestAPI(t *testing.T) *testAPI {
	require := require.New(t)

	f := deploytest.New(t, nil)
	registry := prometheus.NewRegistry()
	h, err := health.New(log.NewNoOpLogger(), registry)
	require.NoError(err)
	require.NoError(h.Register("diamond", health.CheckerFunc(ConsistencyCheck(f.Client))))
	m, err := metrics.New(registry)
	require.NoError(err)

	handler, err := NewHandler(NewService(log.NewNoOpLogger(), f.Client, h), m)
	require.NoError(err)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testAPI{
		url:     srv.URL,
		client:  NewClient(srv.URL),
		fixture: f,
	}
}

func TestReads(t *testing.T) {
	require := require.New(t)
	a := newTestAPI(t)
	ctx := context.Background()

	owner, err := a.client.Owner(ctx)
	require.NoError(err)
	require.Equal(deploytest.Owner, owner)

	facets, err := a.client.Facets(ctx)
	require.NoError(err)
	require.Len(facets, len(a.fixture.Deployment.Facets))

	addrs, err := a.client.FacetAddresses(ctx)
	require.NoError(err)
	require.Len(addrs, len(facets))

	erc20Addr, ok := a.fixture.Deployment.Facet("ERC20Facet")
	require.True(ok)
	facet, err := a.client.FacetAddress(ctx, abi.NewSelector(erc20.TransferSignature))
	require.NoError(err)
	require.Equal(erc20Addr, facet)

	selectors, err := a.client.FacetFunctionSelectors(ctx, erc20Addr)
	require.NoError(err)
	require.Contains(selectors, abi.NewSelector(erc20.TransferSignature))

	supported, err := a.client.SupportsInterface(ctx, diamond.ERC165ID)
	require.NoError(err)
	require.True(supported)

	token, err := a.client.Token(ctx)
	require.NoError(err)
	require.Equal("BLL Token", token.Name)
	require.Equal("BLL", token.Symbol)
	require.Equal(uint8(18), token.Decimals)
	require.Equal(units.Ethers(1_000_000), token.TotalSupply.Value())
	require.Equal(units.Amount(1, units.Milliether), token.TokenPrice.Value())
	require.True(token.SwapEnabled)

	uri, err := a.client.TokenURI(ctx)
	require.NoError(err)
	require.Contains(uri, "data:application/json;base64,")

	logo, err := a.client.Logo(ctx)
	require.NoError(err)
	require.Contains(logo, ">BLL</text>")

	report, err := a.client.Health(ctx)
	require.NoError(err)
	require.True(report.Healthy)
	require.Contains(report.Checks, "diamond")
}

func TestTransfers(t *testing.T) {
	require := require.New(t)
	a := newTestAPI(t)
	ctx := context.Background()

	receipt, err := a.client.Transfer(ctx, deploytest.Owner, deploytest.Addr1, units.Ethers(5))
	require.NoError(err)
	require.Len(receipt.Events, 1)
	require.Equal("Transfer", receipt.Events[0].Name)

	bal, err := a.client.BalanceOf(ctx, deploytest.Addr1)
	require.NoError(err)
	require.Equal(units.Ethers(5), bal)

	_, err = a.client.Transfer(ctx, deploytest.Addr1, deploytest.Addr2, units.Ethers(6))
	require.ErrorContains(err, erc20.ErrInsufficientBalance.Error())

	_, err = a.client.Approve(ctx, deploytest.Addr1, deploytest.Addr2, units.Ethers(2))
	require.NoError(err)
	allowance, err := a.client.Allowance(ctx, deploytest.Addr1, deploytest.Addr2)
	require.NoError(err)
	require.Equal(units.Ethers(2), allowance)

	_, err = a.client.TransferFrom(ctx, deploytest.Addr2, deploytest.Addr1, deploytest.Addr3, units.Ethers(2))
	require.NoError(err)
	bal, err = a.client.BalanceOf(ctx, deploytest.Addr3)
	require.NoError(err)
	require.Equal(units.Ethers(2), bal)

	swap, err := a.client.SwapEthForTokens(ctx, deploytest.Addr2, units.Ethers(1))
	require.NoError(err)
	require.Equal(units.Ethers(1_000), swap.Tokens.Value())

	native, err := a.client.NativeBalance(ctx, a.fixture.Deployment.Diamond)
	require.NoError(err)
	require.Equal(units.Ethers(1), native)

	_, err = a.client.SetSwapEnabled(ctx, deploytest.Addr1, false)
	require.ErrorContains(err, "unauthorized")
}

func TestCallAndTransact(t *testing.T) {
	require := require.New(t)
	a := newTestAPI(t)
	ctx := context.Background()

	symbol := abi.NewSelector(erc20.SymbolSignature)
	ret, err := a.client.Call(ctx, deploytest.Addr1, nil, symbol[:])
	require.NoError(err)
	require.NotEmpty(ret)

	_, err = a.client.Transact(ctx, deploytest.Addr1, nil, []byte{0xde, 0xad, 0xbe, 0xef})
	require.ErrorContains(err, "unrouted selector")

	_, err = a.client.TransferOwnership(ctx, deploytest.Owner, deploytest.Addr1)
	require.NoError(err)
	owner, err := a.client.Owner(ctx)
	require.NoError(err)
	require.Equal(deploytest.Addr1, owner)
}

func TestMultiSig(t *testing.T) {
	require := require.New(t)
	a := newTestAPI(t)
	ctx := context.Background()

	owners := []common.Address{deploytest.Addr1, deploytest.Addr2}
	_, err := a.client.InitializeMultiSig(ctx, deploytest.Owner, owners, 2)
	require.NoError(err)

	txID, err := a.client.SubmitTransaction(ctx, deploytest.Addr1, deploytest.Addr3, new(uint256.Int), nil)
	require.NoError(err)
	require.Zero(txID)

	for _, owner := range owners {
		_, err := a.client.ConfirmTransaction(ctx, owner, txID)
		require.NoError(err)
	}

	confirmed, err := a.client.IsConfirmed(ctx, txID, deploytest.Addr1)
	require.NoError(err)
	require.True(confirmed)

	tx, err := a.client.GetTransaction(ctx, txID)
	require.NoError(err)
	require.Equal(appstate.Confirmed.String(), tx.Status)
	require.Equal(json.Uint64(2), tx.NumConfirmations)

	executed, err := a.client.ExecuteTransaction(ctx, deploytest.Addr2, txID)
	require.NoError(err)
	require.True(executed.Success)

	_, err = a.client.ExecuteTransaction(ctx, deploytest.Addr2, txID)
	require.ErrorContains(err, multisig.ErrTxAlreadyExecuted.Error())

	ms, err := a.client.MultiSig(ctx)
	require.NoError(err)
	require.Equal(owners, ms.Owners)
	require.Equal(json.Uint64(2), ms.Threshold)
	require.Equal(json.Uint64(1), ms.TransactionCount)
}

func TestCapitalizedMethod(t *testing.T) {
	require := require.New(t)
	a := newTestAPI(t)

	body, err := stdjson.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "diamond.Owner",
		"params":  []interface{}{EmptyArgs{}},
	})
	require.NoError(err)

	resp, err := http.Post(a.url, "application/json", bytes.NewReader(body))
	require.NoError(err)
	defer resp.Body.Close()

	var res struct {
		Result AddressReply `json:"result"`
	}
	require.NoError(stdjson.NewDecoder(resp.Body).Decode(&res))
	require.Equal(deploytest.Owner, res.Result.Address)
}
