// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/luxfi/database"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/diamond/abi"
	"github.com/luxfi/diamond/utils/wrappers"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")

	countKey  = []byte("count")
	errBoom   = errors.New("boom")
	errBadArg = errors.New("bad argument")
)

func readCount(storage database.Database) (uint64, error) {
	b, err := storage.Get(countKey)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func increment(env *Env) error {
	n, err := readCount(env.Storage())
	if err != nil {
		return err
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], n+1)
	env.Emit("Incremented", Uint64("count", n+1))
	return env.Storage().Put(countKey, b[:])
}

func newCounter() *MethodTable {
	return NewMethodTable("counter",
		Method{
			Signature: "increment()",
			Handler: func(env *Env, _ *wrappers.Packer) ([]byte, error) {
				return nil, increment(env)
			},
		},
		Method{
			Signature: "incrementThenFail()",
			Handler: func(env *Env, _ *wrappers.Packer) ([]byte, error) {
				if err := increment(env); err != nil {
					return nil, err
				}
				return nil, errBoom
			},
		},
		Method{
			Signature: "deposit()",
			Payable:   true,
			Handler: func(*Env, *wrappers.Packer) ([]byte, error) {
				return nil, nil
			},
		},
		Method{
			Signature: "callThenIncrement(address,bytes)",
			Handler: func(env *Env, args *wrappers.Packer) ([]byte, error) {
				target := args.UnpackAddress()
				input := args.UnpackLimitedBytes(1024)
				if err := Decoded(args); err != nil {
					return nil, err
				}
				_, callErr := env.Call(target, nil, input)
				if err := increment(env); err != nil {
					return nil, err
				}
				return abi.Return(func(p *wrappers.Packer) { p.PackBool(callErr == nil) })
			},
		},
		Method{
			Signature: "delegate(address,bytes)",
			Handler: func(env *Env, args *wrappers.Packer) ([]byte, error) {
				code := args.UnpackAddress()
				input := args.UnpackLimitedBytes(1024)
				if err := Decoded(args); err != nil {
					return nil, err
				}
				return env.DelegateCall(code, input)
			},
		},
		Method{
			Signature: "recurse()",
			Handler: func(env *Env, args *wrappers.Packer) ([]byte, error) {
				input, err := abi.Encode("recurse()", nil)
				if err != nil {
					return nil, err
				}
				return env.Call(env.Self(), nil, input)
			},
		},
	)
}

type failingConstructor struct {
	*MethodTable
}

func (failingConstructor) Construct(env *Env) error {
	if err := increment(env); err != nil {
		return err
	}
	return errBadArg
}

func newTestHost(t *testing.T) *Host {
	t.Helper()
	return NewHost(ids.GenerateTestID(), memdb.New(), log.NewNoOpLogger(), nil)
}

func deployCounter(t *testing.T, h *Host) common.Address {
	t.Helper()
	addr, err := h.Deploy(context.Background(), alice, newCounter())
	require.NoError(t, err)
	return addr
}

func calldata(t *testing.T, sig string, pack func(p *wrappers.Packer)) []byte {
	t.Helper()
	data, err := abi.Encode(sig, pack)
	require.NoError(t, err)
	return data
}

func countOf(t *testing.T, h *Host, addr common.Address) uint64 {
	t.Helper()
	var n uint64
	require.NoError(t, h.View(context.Background(), addr, func(storage database.Database) error {
		var err error
		n, err = readCount(storage)
		return err
	}))
	return n
}

func TestTransactCommits(t *testing.T) {
	require := require.New(t)

	h := newTestHost(t)
	counter := deployCounter(t, h)

	receipt, err := h.Transact(context.Background(), Message{
		From: alice,
		To:   counter,
		Data: calldata(t, "increment()", nil),
	})
	require.NoError(err)
	require.Len(receipt.EventsNamed("Incremented"), 1)
	require.NotEqual(ids.Empty, receipt.TxID)
	require.Equal(uint64(1), countOf(t, h, counter))
}

func TestTransactRevertsEveryEffect(t *testing.T) {
	require := require.New(t)

	h := newTestHost(t)
	counter := deployCounter(t, h)

	_, err := h.Transact(context.Background(), Message{
		From: alice,
		To:   counter,
		Data: calldata(t, "incrementThenFail()", nil),
	})
	require.ErrorIs(err, errBoom)
	require.Zero(countOf(t, h, counter))
}

func TestFailedInnerCallIsContained(t *testing.T) {
	require := require.New(t)

	h := newTestHost(t)
	outer := deployCounter(t, h)
	inner := deployCounter(t, h)

	receipt, err := h.Transact(context.Background(), Message{
		From: alice,
		To:   outer,
		Data: calldata(t, "callThenIncrement(address,bytes)", func(p *wrappers.Packer) {
			p.PackAddress(inner)
			p.PackBytes(calldata(t, "incrementThenFail()", nil))
		}),
	})
	require.NoError(err)

	var ok bool
	require.NoError(abi.Decode(receipt.Return, func(p *wrappers.Packer) { ok = p.UnpackBool() }))
	require.False(ok)
	require.Equal(uint64(1), countOf(t, h, outer))
	require.Zero(countOf(t, h, inner))

	// the inner event was discarded together with its frame
	events := receipt.EventsNamed("Incremented")
	require.Len(events, 1)
	require.Equal(outer, events[0].Address)
}

func TestDelegateCallSharesStorage(t *testing.T) {
	require := require.New(t)

	h := newTestHost(t)
	proxy := deployCounter(t, h)
	impl := deployCounter(t, h)

	receipt, err := h.Transact(context.Background(), Message{
		From: alice,
		To:   proxy,
		Data: calldata(t, "delegate(address,bytes)", func(p *wrappers.Packer) {
			p.PackAddress(impl)
			p.PackBytes(calldata(t, "increment()", nil))
		}),
	})
	require.NoError(err)
	require.Equal(uint64(1), countOf(t, h, proxy))
	require.Zero(countOf(t, h, impl))
	require.Equal(proxy, receipt.Events[0].Address)
}

func TestDelegateCallToMissingCode(t *testing.T) {
	h := newTestHost(t)
	proxy := deployCounter(t, h)

	_, err := h.Transact(context.Background(), Message{
		From: alice,
		To:   proxy,
		Data: calldata(t, "delegate(address,bytes)", func(p *wrappers.Packer) {
			p.PackAddress(bob)
			p.PackBytes(calldata(t, "increment()", nil))
		}),
	})
	require.ErrorIs(t, err, ErrNoCode)
}

func TestValueTransfer(t *testing.T) {
	require := require.New(t)

	h := newTestHost(t)
	counter := deployCounter(t, h)
	require.NoError(h.Fund(context.Background(), alice, uint256.NewInt(100)))

	_, err := h.Transact(context.Background(), Message{
		From:  alice,
		To:    bob,
		Value: uint256.NewInt(40),
	})
	require.NoError(err)

	_, err = h.Transact(context.Background(), Message{
		From:  alice,
		To:    counter,
		Value: uint256.NewInt(10),
		Data:  calldata(t, "deposit()", nil),
	})
	require.NoError(err)

	_, err = h.Transact(context.Background(), Message{
		From:  alice,
		To:    counter,
		Value: uint256.NewInt(10),
		Data:  calldata(t, "increment()", nil),
	})
	require.ErrorIs(err, ErrNonPayable)

	_, err = h.Transact(context.Background(), Message{
		From:  alice,
		To:    bob,
		Value: uint256.NewInt(51),
	})
	require.ErrorIs(err, ErrInsufficientBalance)

	for addr, want := range map[common.Address]uint64{alice: 50, bob: 40, counter: 10} {
		bal, err := h.Balance(addr)
		require.NoError(err)
		require.Equal(uint256.NewInt(want), bal)
	}
}

func TestCallDiscardsEffects(t *testing.T) {
	require := require.New(t)

	h := newTestHost(t)
	counter := deployCounter(t, h)

	_, err := h.Call(context.Background(), Message{
		From: alice,
		To:   counter,
		Data: calldata(t, "increment()", nil),
	})
	require.NoError(err)
	require.Zero(countOf(t, h, counter))
}

func TestUnknownSelector(t *testing.T) {
	h := newTestHost(t)
	counter := deployCounter(t, h)

	_, err := h.Transact(context.Background(), Message{
		From: alice,
		To:   counter,
		Data: calldata(t, "missing()", nil),
	})
	require.ErrorIs(t, err, ErrUnroutedSelector)
}

func TestMalformedCalldata(t *testing.T) {
	h := newTestHost(t)
	counter := deployCounter(t, h)

	_, err := h.Transact(context.Background(), Message{
		From: alice,
		To:   counter,
		Data: []byte{0x01},
	})
	require.ErrorIs(t, err, ErrMalformedCalldata)

	_, err = h.Transact(context.Background(), Message{
		From: alice,
		To:   counter,
		Data: calldata(t, "delegate(address,bytes)", func(p *wrappers.Packer) { p.PackLong(1) }),
	})
	require.ErrorIs(t, err, ErrMalformedCalldata)
}

func TestTrailingCalldata(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{
			name: "no arguments",
			data: append(calldata(t, "increment()", nil), 0xde, 0xad),
		},
		{
			name: "after decoded arguments",
			data: append(calldata(t, "callThenIncrement(address,bytes)", func(p *wrappers.Packer) {
				p.PackAddress(bob)
				p.PackBytes(nil)
			}), 0x01),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			h := newTestHost(t)
			counter := deployCounter(t, h)

			_, err := h.Transact(context.Background(), Message{
				From: alice,
				To:   counter,
				Data: test.data,
			})
			require.ErrorIs(err, ErrMalformedCalldata)
			require.Zero(countOf(t, h, counter))
		})
	}
}

func TestCallDepthExceeded(t *testing.T) {
	h := newTestHost(t)
	counter := deployCounter(t, h)

	_, err := h.Transact(context.Background(), Message{
		From: alice,
		To:   counter,
		Data: calldata(t, "recurse()", nil),
	})
	require.ErrorIs(t, err, ErrCallDepthExceeded)
}

func TestFailingConstructorUndeploys(t *testing.T) {
	require := require.New(t)

	h := newTestHost(t)
	_, err := h.Deploy(context.Background(), alice, failingConstructor{newCounter()})
	require.ErrorIs(err, errBadArg)

	// the failed deployment consumed nonce 0
	addr := createAddress(alice, 0)
	require.False(h.HasCode(addr))
	require.Zero(countOf(t, h, addr))
}

func TestDeployAddressesAreDeterministic(t *testing.T) {
	require := require.New(t)

	h := newTestHost(t)
	first := deployCounter(t, h)
	second := deployCounter(t, h)
	require.Equal(createAddress(alice, 0), first)
	require.Equal(createAddress(alice, 1), second)
	require.NotEqual(first, second)
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrInsufficientBalance, "InvalidArgument"},
		{ErrCallDepthExceeded, "InvariantViolation"},
		{ErrUnauthorized, "Unauthorized"},
		{errBoom, "Internal"},
	}
	for _, test := range tests {
		require.Equal(t, test.want, Kind(test.err))
	}
}
