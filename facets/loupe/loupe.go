// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package loupe is the facet that lets anyone inspect a diamond's routing.
package loupe

import (
	"github.com/luxfi/diamond/abi"
	"github.com/luxfi/diamond/diamond"
	"github.com/luxfi/diamond/engine"
	"github.com/luxfi/diamond/utils/wrappers"
)

func New() *engine.MethodTable {
	return engine.NewMethodTable("DiamondLoupeFacet",
		engine.Method{Signature: diamond.FacetsSignature, Handler: facets},
		engine.Method{Signature: diamond.FacetFunctionSelectorsSignature, Handler: facetFunctionSelectors},
		engine.Method{Signature: diamond.FacetAddressesSignature, Handler: facetAddresses},
		engine.Method{Signature: diamond.FacetAddressSignature, Handler: facetAddress},
		engine.Method{Signature: diamond.SupportsInterfaceSignature, Handler: supportsInterface},
	)
}

func facets(env *engine.Env, _ *wrappers.Packer) ([]byte, error) {
	fs, err := diamond.Open(env).Facets()
	if err != nil {
		return nil, err
	}
	return abi.Return(func(p *wrappers.Packer) {
		diamond.PackFacets(p, fs)
	})
}

func facetFunctionSelectors(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	facet := args.UnpackAddress()
	if err := engine.Decoded(args); err != nil {
		return nil, err
	}
	sels, err := diamond.Open(env).FacetSelectors(facet)
	if err != nil {
		return nil, err
	}
	return abi.Return(func(p *wrappers.Packer) {
		abi.PackSelectors(p, sels)
	})
}

func facetAddresses(env *engine.Env, _ *wrappers.Packer) ([]byte, error) {
	addrs, err := diamond.Open(env).FacetAddresses()
	if err != nil {
		return nil, err
	}
	return abi.ReturnAddresses(addrs)
}

// facetAddress returns the zero address for an unrouted selector.
func facetAddress(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	sel := abi.UnpackSelector(args)
	if err := engine.Decoded(args); err != nil {
		return nil, err
	}
	facet, _, err := diamond.Open(env).FacetAddress(sel)
	if err != nil {
		return nil, err
	}
	return abi.ReturnAddress(facet)
}

func supportsInterface(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	id := abi.UnpackSelector(args)
	if err := engine.Decoded(args); err != nil {
		return nil, err
	}
	ok, err := diamond.Open(env).SupportsInterface(id)
	if err != nil {
		return nil, err
	}
	return abi.ReturnBool(ok)
}
