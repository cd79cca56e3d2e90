// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ownership is the ERC-173 facet.
package ownership

import (
	"github.com/luxfi/diamond/abi"
	"github.com/luxfi/diamond/diamond"
	"github.com/luxfi/diamond/engine"
	"github.com/luxfi/diamond/utils/wrappers"
)

func New() *engine.MethodTable {
	return engine.NewMethodTable("OwnershipFacet",
		engine.Method{Signature: diamond.OwnerSignature, Handler: owner},
		engine.Method{Signature: diamond.TransferOwnershipSignature, Handler: transferOwnership},
	)
}

func owner(env *engine.Env, _ *wrappers.Packer) ([]byte, error) {
	addr, err := diamond.ContractOwner(env)
	if err != nil {
		return nil, err
	}
	return abi.ReturnAddress(addr)
}

func transferOwnership(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	newOwner := args.UnpackAddress()
	if err := engine.Decoded(args); err != nil {
		return nil, err
	}
	return nil, diamond.TransferOwnership(env, newOwner)
}
