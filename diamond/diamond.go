// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package diamond

import (
	"fmt"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/diamond/abi"
	"github.com/luxfi/diamond/engine"
)

var (
	_ engine.Contract    = (*Diamond)(nil)
	_ engine.Constructor = (*Diamond)(nil)
)

// Diamond is the contract clients call. It owns all storage and forwards
// every call to the facet its selector is routed to.
type Diamond struct {
	owner    common.Address
	cutFacet common.Address
}

// New returns a diamond that, once deployed, is owned by owner and routes
// diamondCut to cutFacet.
func New(owner, cutFacet common.Address) *Diamond {
	return &Diamond{
		owner:    owner,
		cutFacet: cutFacet,
	}
}

func (d *Diamond) Construct(env *engine.Env) error {
	if d.owner == (common.Address{}) {
		return fmt.Errorf("%w: diamond owner", engine.ErrZeroAddress)
	}
	if err := SetContractOwner(env, d.owner); err != nil {
		return err
	}
	return Cut(env, []FacetCut{{
		FacetAddress:      d.cutFacet,
		Action:            Add,
		FunctionSelectors: []abi.Selector{CutSelector},
	}}, common.Address{}, nil)
}

// Execute dispatches input to the facet routed for its selector. Empty input
// only receives value.
func (*Diamond) Execute(env *engine.Env, input []byte) ([]byte, error) {
	if len(input) == 0 {
		return nil, nil
	}
	sel, _, err := abi.Split(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", engine.ErrMalformedCalldata, err)
	}
	facet, ok, err := Open(env).FacetAddress(sel)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", engine.ErrUnroutedSelector, sel)
	}
	return env.DelegateCall(facet, input)
}
