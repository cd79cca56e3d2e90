// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package cut is the facet that upgrades a diamond.
package cut

import (
	"github.com/luxfi/diamond/diamond"
	"github.com/luxfi/diamond/engine"
	"github.com/luxfi/diamond/utils/wrappers"
)

func New() *engine.MethodTable {
	return engine.NewMethodTable("DiamondCutFacet", engine.Method{
		Signature: diamond.CutSignature,
		Handler:   diamondCut,
	})
}

func diamondCut(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	cuts, init, calldata := diamond.UnpackCutArgs(args)
	if err := engine.Decoded(args); err != nil {
		return nil, err
	}
	if err := diamond.EnforceIsContractOwner(env); err != nil {
		return nil, err
	}
	return nil, diamond.Cut(env, cuts, init, calldata)
}
