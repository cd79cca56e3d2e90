// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package diamond

import (
	"context"
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/luxfi/database"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/diamond/abi"
	"github.com/luxfi/diamond/engine"
	"github.com/luxfi/diamond/utils/wrappers"
)

var (
	owner    = common.HexToAddress("0x0000000000000000000000000000000000000a11")
	stranger = common.HexToAddress("0x0000000000000000000000000000000000000b0b")

	setValue  = abi.NewSelector("setValue(uint64)")
	getValue  = abi.NewSelector("getValue()")
	whoami    = abi.NewSelector("whoami()")
	deposit   = abi.NewSelector("deposit()")
	transfer  = abi.NewSelector(TransferOwnershipSignature)
	valueKey  = []byte("value")
	errFailed = errors.New("init failed")
)

func valueStore(env *engine.Env) database.Database {
	return prefixdb.New([]byte("test.value"), env.Storage())
}

func testCutFacet() *engine.MethodTable {
	return engine.NewMethodTable("cut", engine.Method{
		Signature: CutSignature,
		Handler: func(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
			cuts, init, calldata := UnpackCutArgs(args)
			if err := engine.Decoded(args); err != nil {
				return nil, err
			}
			if err := EnforceIsContractOwner(env); err != nil {
				return nil, err
			}
			return nil, Cut(env, cuts, init, calldata)
		},
	}, engine.Method{
		Signature: TransferOwnershipSignature,
		Handler: func(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
			newOwner := args.UnpackAddress()
			if err := engine.Decoded(args); err != nil {
				return nil, err
			}
			return nil, TransferOwnership(env, newOwner)
		},
	})
}

// valueFacet stores a number; a factor of 2 makes a distinguishable upgrade.
func valueFacet(factor uint64) *engine.MethodTable {
	return engine.NewMethodTable("value",
		engine.Method{
			Signature: "setValue(uint64)",
			Handler: func(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
				v := args.UnpackLong()
				if err := engine.Decoded(args); err != nil {
					return nil, err
				}
				return nil, database.PutUInt64(valueStore(env), valueKey, v)
			},
		},
		engine.Method{
			Signature: "getValue()",
			Handler: func(env *engine.Env, _ *wrappers.Packer) ([]byte, error) {
				v, err := database.GetUInt64(valueStore(env), valueKey)
				if errors.Is(err, database.ErrNotFound) {
					v, err = 0, nil
				}
				if err != nil {
					return nil, err
				}
				return abi.Return(func(p *wrappers.Packer) {
					p.PackLong(v * factor)
				})
			},
		},
		engine.Method{
			Signature: "whoami()",
			Handler: func(env *engine.Env, _ *wrappers.Packer) ([]byte, error) {
				return abi.Return(func(p *wrappers.Packer) {
					p.PackAddress(env.Caller())
					p.PackAddress(env.Self())
				})
			},
		},
		engine.Method{
			Signature: "deposit()",
			Payable:   true,
			Handler: func(env *engine.Env, _ *wrappers.Packer) ([]byte, error) {
				return abi.Return(func(p *wrappers.Packer) {
					p.PackUint256(env.Value())
				})
			},
		},
	)
}

func initContract() *engine.MethodTable {
	return engine.NewMethodTable("init",
		engine.Method{
			Signature: "init(uint64)",
			Handler: func(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
				v := args.UnpackLong()
				if err := engine.Decoded(args); err != nil {
					return nil, err
				}
				return nil, database.PutUInt64(valueStore(env), valueKey, v)
			},
		},
		engine.Method{
			Signature: "fail()",
			Handler: func(env *engine.Env, _ *wrappers.Packer) ([]byte, error) {
				if err := database.PutUInt64(valueStore(env), valueKey, 99); err != nil {
					return nil, err
				}
				return nil, errFailed
			},
		},
	)
}

type fixture struct {
	t       *testing.T
	host    *engine.Host
	diamond common.Address
	cut     common.Address
	v1      common.Address
	v2      common.Address
	init    common.Address
}

func newFixture(t *testing.T) *fixture {
	require := require.New(t)
	ctx := context.Background()

	host := engine.NewHost(ids.GenerateTestID(), memdb.New(), log.NewNoOpLogger(), nil)
	f := &fixture{t: t, host: host}

	var err error
	f.cut, err = host.Deploy(ctx, owner, testCutFacet())
	require.NoError(err)
	f.v1, err = host.Deploy(ctx, owner, valueFacet(1))
	require.NoError(err)
	f.v2, err = host.Deploy(ctx, owner, valueFacet(2))
	require.NoError(err)
	f.init, err = host.Deploy(ctx, owner, initContract())
	require.NoError(err)
	f.diamond, err = host.Deploy(ctx, owner, New(owner, f.cut))
	require.NoError(err)
	return f
}

func (f *fixture) diamondCut(from common.Address, cuts []FacetCut, init common.Address, calldata []byte) (*engine.Receipt, error) {
	data, err := EncodeCut(cuts, init, calldata)
	require.NoError(f.t, err)
	return f.host.Transact(context.Background(), engine.Message{From: from, To: f.diamond, Data: data})
}

func (f *fixture) mustCut(cuts ...FacetCut) {
	_, err := f.diamondCut(owner, cuts, common.Address{}, nil)
	require.NoError(f.t, err)
}

func (f *fixture) transact(from common.Address, sel abi.Selector, pack func(p *wrappers.Packer)) ([]byte, error) {
	if pack == nil {
		pack = func(*wrappers.Packer) {}
	}
	data, err := abi.EncodeSelector(sel, pack)
	require.NoError(f.t, err)
	receipt, err := f.host.Transact(context.Background(), engine.Message{From: from, To: f.diamond, Data: data})
	if err != nil {
		return nil, err
	}
	return receipt.Return, nil
}

func (f *fixture) value() uint64 {
	ret, err := f.transact(owner, getValue, nil)
	require.NoError(f.t, err)
	var v uint64
	require.NoError(f.t, abi.Decode(ret, func(p *wrappers.Packer) {
		v = p.UnpackLong()
	}))
	return v
}

func (f *fixture) layout(fn func(l *Layout)) {
	require.NoError(f.t, f.host.View(context.Background(), f.diamond, func(storage database.Database) error {
		fn(NewLayout(storage))
		return nil
	}))
}

func (f *fixture) facets() []Facet {
	var facets []Facet
	f.layout(func(l *Layout) {
		var err error
		facets, err = l.Facets()
		require.NoError(f.t, err)
		require.NoError(f.t, l.CheckConsistency())
	})
	return facets
}

func TestStandardSelectors(t *testing.T) {
	require := require.New(t)

	require.Equal("0x1f931c1c", CutSelector.String())
	require.Equal("0x1f931c1c", DiamondCutID.String())
	require.Equal("0x01ffc9a7", ERC165ID.String())
	require.Equal("0x48e2b093", DiamondLoupeID.String())
	require.Equal("0x7f5828d0", ERC173ID.String())
}

func TestConstructorRoutesCut(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)

	require.Equal([]Facet{{
		FacetAddress:      f.cut,
		FunctionSelectors: []abi.Selector{CutSelector},
	}}, f.facets())

	f.layout(func(l *Layout) {
		got, err := l.ContractOwner()
		require.NoError(err)
		require.Equal(owner, got)
	})

	_, err := f.host.Deploy(context.Background(), owner, New(common.Address{}, f.cut))
	require.ErrorIs(err, engine.ErrInvalidArgument)
}

func TestAddRoutesToSharedStorage(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)

	f.mustCut(FacetCut{FacetAddress: f.v1, Action: Add, FunctionSelectors: []abi.Selector{setValue, getValue}})

	_, err := f.transact(owner, setValue, func(p *wrappers.Packer) { p.PackLong(7) })
	require.NoError(err)
	require.Equal(uint64(7), f.value())

	// the facet's own storage is untouched
	require.NoError(f.host.View(context.Background(), f.v1, func(storage database.Database) error {
		has, err := prefixdb.New([]byte("test.value"), storage).Has(valueKey)
		require.NoError(err)
		require.False(has)
		return nil
	}))

	require.Equal([]Facet{
		{FacetAddress: f.cut, FunctionSelectors: []abi.Selector{CutSelector}},
		{FacetAddress: f.v1, FunctionSelectors: []abi.Selector{setValue, getValue}},
	}, f.facets())
}

func TestUnroutedSelector(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)

	_, err := f.transact(owner, getValue, nil)
	require.ErrorIs(err, engine.ErrUnroutedSelector)

	_, err = f.host.Transact(context.Background(), engine.Message{From: owner, To: f.diamond, Data: []byte{1, 2}})
	require.ErrorIs(err, engine.ErrMalformedCalldata)
}

func TestCutUnauthorized(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)

	before := f.facets()
	_, err := f.diamondCut(stranger, []FacetCut{{FacetAddress: f.v1, Action: Add, FunctionSelectors: []abi.Selector{getValue}}}, common.Address{}, nil)
	require.ErrorIs(err, ErrNotContractOwner)
	require.ErrorIs(err, engine.ErrUnauthorized)
	require.Equal(before, f.facets())
}

func TestCutValidation(t *testing.T) {
	nowhere := common.HexToAddress("0x00000000000000000000000000000000deadbeef")

	tests := []struct {
		name        string
		cuts        func(f *fixture) []FacetCut
		init        func(f *fixture) common.Address
		calldata    []byte
		expectedErr error
	}{
		{
			name:        "empty batch",
			cuts:        func(*fixture) []FacetCut { return nil },
			expectedErr: ErrEmptyCut,
		},
		{
			name: "add routed selector",
			cuts: func(f *fixture) []FacetCut {
				return []FacetCut{{FacetAddress: f.v2, Action: Add, FunctionSelectors: []abi.Selector{getValue}}}
			},
			expectedErr: ErrSelectorAlreadyExists,
		},
		{
			name: "add duplicate within batch",
			cuts: func(f *fixture) []FacetCut {
				return []FacetCut{{FacetAddress: f.v2, Action: Add, FunctionSelectors: []abi.Selector{whoami, whoami}}}
			},
			expectedErr: ErrSelectorAlreadyExists,
		},
		{
			name: "add to zero facet",
			cuts: func(*fixture) []FacetCut {
				return []FacetCut{{Action: Add, FunctionSelectors: []abi.Selector{whoami}}}
			},
			expectedErr: ErrInvalidModule,
		},
		{
			name: "add to address without code",
			cuts: func(*fixture) []FacetCut {
				return []FacetCut{{FacetAddress: nowhere, Action: Add, FunctionSelectors: []abi.Selector{whoami}}}
			},
			expectedErr: ErrInvalidModule,
		},
		{
			name: "add nothing",
			cuts: func(f *fixture) []FacetCut {
				return []FacetCut{{FacetAddress: f.v2, Action: Add}}
			},
			expectedErr: ErrNoSelectors,
		},
		{
			name: "replace nothing",
			cuts: func(f *fixture) []FacetCut {
				return []FacetCut{{FacetAddress: f.v2, Action: Replace}}
			},
			expectedErr: ErrNoSelectorsToReplace,
		},
		{
			name: "replace with owning facet",
			cuts: func(f *fixture) []FacetCut {
				return []FacetCut{{FacetAddress: f.v1, Action: Replace, FunctionSelectors: []abi.Selector{getValue}}}
			},
			expectedErr: ErrCannotReplaceWithSameModule,
		},
		{
			name: "replace unrouted",
			cuts: func(f *fixture) []FacetCut {
				return []FacetCut{{FacetAddress: f.v2, Action: Replace, FunctionSelectors: []abi.Selector{whoami}}}
			},
			expectedErr: ErrSelectorNotFound,
		},
		{
			name: "remove naming a facet",
			cuts: func(f *fixture) []FacetCut {
				return []FacetCut{{FacetAddress: f.v1, Action: Remove, FunctionSelectors: []abi.Selector{getValue}}}
			},
			expectedErr: ErrRemoveModuleNotZero,
		},
		{
			name: "remove unrouted",
			cuts: func(*fixture) []FacetCut {
				return []FacetCut{{Action: Remove, FunctionSelectors: []abi.Selector{whoami}}}
			},
			expectedErr: ErrSelectorNotFound,
		},
		{
			name: "unknown action",
			cuts: func(f *fixture) []FacetCut {
				return []FacetCut{{FacetAddress: f.v2, Action: 3, FunctionSelectors: []abi.Selector{whoami}}}
			},
			expectedErr: ErrIncorrectAction,
		},
		{
			name: "calldata without init",
			cuts: func(f *fixture) []FacetCut {
				return []FacetCut{{FacetAddress: f.v2, Action: Add, FunctionSelectors: []abi.Selector{whoami}}}
			},
			calldata:    []byte{1},
			expectedErr: ErrInitCalldataNotEmpty,
		},
		{
			name: "init without code",
			cuts: func(f *fixture) []FacetCut {
				return []FacetCut{{FacetAddress: f.v2, Action: Add, FunctionSelectors: []abi.Selector{whoami}}}
			},
			init:        func(*fixture) common.Address { return nowhere },
			expectedErr: ErrInvalidModule,
		},
		{
			name: "valid action before invalid one",
			cuts: func(f *fixture) []FacetCut {
				return []FacetCut{
					{FacetAddress: f.v2, Action: Add, FunctionSelectors: []abi.Selector{whoami}},
					{FacetAddress: f.v2, Action: Add, FunctionSelectors: []abi.Selector{setValue}},
				}
			},
			expectedErr: ErrSelectorAlreadyExists,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)
			f := newFixture(t)
			f.mustCut(FacetCut{FacetAddress: f.v1, Action: Add, FunctionSelectors: []abi.Selector{setValue, getValue}})
			before := f.facets()

			var init common.Address
			if test.init != nil {
				init = test.init(f)
			}
			_, err := f.diamondCut(owner, test.cuts(f), init, test.calldata)
			require.ErrorIs(err, test.expectedErr)
			require.ErrorIs(err, engine.ErrInvalidArgument)
			require.Equal(before, f.facets())
		})
	}
}

func TestReplaceAndRemove(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)

	f.mustCut(FacetCut{FacetAddress: f.v1, Action: Add, FunctionSelectors: []abi.Selector{setValue, getValue}})
	_, err := f.transact(owner, setValue, func(p *wrappers.Packer) { p.PackLong(5) })
	require.NoError(err)
	require.Equal(uint64(5), f.value())

	f.mustCut(FacetCut{FacetAddress: f.v2, Action: Replace, FunctionSelectors: []abi.Selector{getValue}})
	require.Equal(uint64(10), f.value())
	require.Equal([]Facet{
		{FacetAddress: f.cut, FunctionSelectors: []abi.Selector{CutSelector}},
		{FacetAddress: f.v1, FunctionSelectors: []abi.Selector{setValue}},
		{FacetAddress: f.v2, FunctionSelectors: []abi.Selector{getValue}},
	}, f.facets())

	f.mustCut(FacetCut{Action: Remove, FunctionSelectors: []abi.Selector{setValue}})
	require.Equal([]Facet{
		{FacetAddress: f.cut, FunctionSelectors: []abi.Selector{CutSelector}},
		{FacetAddress: f.v2, FunctionSelectors: []abi.Selector{getValue}},
	}, f.facets())

	_, err = f.transact(owner, setValue, func(p *wrappers.Packer) { p.PackLong(1) })
	require.ErrorIs(err, engine.ErrUnroutedSelector)
}

func TestRemoveKeepsPositionsConsistent(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)

	f.mustCut(FacetCut{FacetAddress: f.v1, Action: Add, FunctionSelectors: []abi.Selector{setValue, getValue, whoami, deposit}})
	f.mustCut(FacetCut{Action: Remove, FunctionSelectors: []abi.Selector{setValue}})

	facets := f.facets()
	require.Len(facets, 2)
	require.Equal([]abi.Selector{deposit, getValue, whoami}, facets[1].FunctionSelectors)

	f.mustCut(FacetCut{Action: Remove, FunctionSelectors: []abi.Selector{whoami, deposit}})
	facets = f.facets()
	require.Equal([]abi.Selector{getValue}, facets[1].FunctionSelectors)

	f.layout(func(l *Layout) {
		facet, ok, err := l.FacetAddress(getValue)
		require.NoError(err)
		require.True(ok)
		require.Equal(f.v1, facet)

		_, ok, err = l.FacetAddress(whoami)
		require.NoError(err)
		require.False(ok)
	})
}

func TestRemoveFirstFacetMovesLast(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)

	f.mustCut(
		FacetCut{FacetAddress: f.v1, Action: Add, FunctionSelectors: []abi.Selector{setValue}},
		FacetCut{FacetAddress: f.v2, Action: Add, FunctionSelectors: []abi.Selector{getValue}},
	)
	f.mustCut(FacetCut{Action: Remove, FunctionSelectors: []abi.Selector{CutSelector}})

	require.Equal([]Facet{
		{FacetAddress: f.v2, FunctionSelectors: []abi.Selector{getValue}},
		{FacetAddress: f.v1, FunctionSelectors: []abi.Selector{setValue}},
	}, f.facets())

	// with diamondCut gone the diamond can no longer be upgraded
	_, err := f.diamondCut(owner, []FacetCut{{FacetAddress: f.v1, Action: Add, FunctionSelectors: []abi.Selector{whoami}}}, common.Address{}, nil)
	require.ErrorIs(err, engine.ErrUnroutedSelector)
}

func TestCutInit(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)

	initData, err := abi.Encode("init(uint64)", func(p *wrappers.Packer) { p.PackLong(42) })
	require.NoError(err)
	receipt, err := f.diamondCut(owner, []FacetCut{{FacetAddress: f.v1, Action: Add, FunctionSelectors: []abi.Selector{getValue}}}, f.init, initData)
	require.NoError(err)
	require.Len(receipt.EventsNamed("DiamondCut"), 1)
	require.Equal(uint64(42), f.value())
}

func TestCutInitFailureRevertsCut(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)

	before := f.facets()
	failData, err := abi.Encode("fail()", nil)
	require.NoError(err)
	_, err = f.diamondCut(owner, []FacetCut{{FacetAddress: f.v1, Action: Add, FunctionSelectors: []abi.Selector{getValue}}}, f.init, failData)
	require.ErrorIs(err, errFailed)
	require.Equal(before, f.facets())

	_, err = f.transact(owner, getValue, nil)
	require.ErrorIs(err, engine.ErrUnroutedSelector)
}

func TestDelegatePreservesCallerAndValue(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	f.mustCut(FacetCut{FacetAddress: f.v1, Action: Add, FunctionSelectors: []abi.Selector{whoami, deposit}})

	ret, err := f.transact(stranger, whoami, nil)
	require.NoError(err)
	var caller, self common.Address
	require.NoError(abi.Decode(ret, func(p *wrappers.Packer) {
		caller = p.UnpackAddress()
		self = p.UnpackAddress()
	}))
	require.Equal(stranger, caller)
	require.Equal(f.diamond, self)

	require.NoError(f.host.Fund(ctx, stranger, uint256.NewInt(100)))
	data, err := abi.EncodeSelector(deposit, func(*wrappers.Packer) {})
	require.NoError(err)
	receipt, err := f.host.Transact(ctx, engine.Message{From: stranger, To: f.diamond, Value: uint256.NewInt(30), Data: data})
	require.NoError(err)

	var got *uint256.Int
	require.NoError(abi.Decode(receipt.Return, func(p *wrappers.Packer) {
		got = p.UnpackUint256()
	}))
	require.Equal(uint64(30), got.Uint64())

	bal, err := f.host.Balance(f.diamond)
	require.NoError(err)
	require.Equal(uint64(30), bal.Uint64())
	bal, err = f.host.Balance(f.v1)
	require.NoError(err)
	require.True(bal.IsZero())
}

func TestReceive(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(f.host.Fund(ctx, stranger, uint256.NewInt(5)))
	_, err := f.host.Transact(ctx, engine.Message{From: stranger, To: f.diamond, Value: uint256.NewInt(5)})
	require.NoError(err)

	bal, err := f.host.Balance(f.diamond)
	require.NoError(err)
	require.Equal(uint64(5), bal.Uint64())
}

func TestTransferOwnership(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)

	f.mustCut(FacetCut{FacetAddress: f.cut, Action: Add, FunctionSelectors: []abi.Selector{transfer}})

	_, err := f.transact(stranger, transfer, func(p *wrappers.Packer) { p.PackAddress(stranger) })
	require.ErrorIs(err, engine.ErrUnauthorized)

	_, err = f.transact(owner, transfer, func(p *wrappers.Packer) { p.PackAddress(common.Address{}) })
	require.ErrorIs(err, engine.ErrInvalidArgument)

	data, err := abi.EncodeSelector(transfer, func(p *wrappers.Packer) { p.PackAddress(stranger) })
	require.NoError(err)
	receipt, err := f.host.Transact(context.Background(), engine.Message{From: owner, To: f.diamond, Data: data})
	require.NoError(err)

	events := receipt.EventsNamed("OwnershipTransferred")
	require.Len(events, 1)
	prev, _ := events[0].Get("previousOwner")
	next, _ := events[0].Get("newOwner")
	require.Equal(owner.Hex(), prev)
	require.Equal(stranger.Hex(), next)

	cut := []FacetCut{{FacetAddress: f.v1, Action: Add, FunctionSelectors: []abi.Selector{getValue}}}
	_, err = f.diamondCut(owner, cut, common.Address{}, nil)
	require.ErrorIs(err, engine.ErrUnauthorized)
	_, err = f.diamondCut(stranger, cut, common.Address{}, nil)
	require.NoError(err)
}

func TestCheckConsistencyDetectsCorruption(t *testing.T) {
	require := require.New(t)

	l := NewLayout(memdb.New())
	facet := common.HexToAddress("0x01")
	require.NoError(l.bind(getValue, facet))
	require.NoError(l.bind(setValue, facet))
	require.NoError(l.CheckConsistency())

	require.NoError(l.putRoute(getValue, common.HexToAddress("0x02"), 0))
	require.ErrorIs(l.CheckConsistency(), ErrInconsistentTable)
}
