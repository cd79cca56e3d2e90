// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package diamond

import "github.com/luxfi/diamond/abi"

// Standard signatures every diamond exposes.
const (
	CutSignature = "diamondCut((address,uint8,bytes4[])[],address,bytes)"

	FacetsSignature                 = "facets()"
	FacetFunctionSelectorsSignature = "facetFunctionSelectors(address)"
	FacetAddressesSignature         = "facetAddresses()"
	FacetAddressSignature           = "facetAddress(bytes4)"
	SupportsInterfaceSignature      = "supportsInterface(bytes4)"

	OwnerSignature             = "owner()"
	TransferOwnershipSignature = "transferOwnership(address)"
)

// ERC-165 identifiers of the standard interfaces.
var (
	CutSelector = abi.NewSelector(CutSignature)

	ERC165ID       = abi.InterfaceID(SupportsInterfaceSignature)
	DiamondCutID   = abi.InterfaceID(CutSignature)
	DiamondLoupeID = abi.InterfaceID(
		FacetsSignature,
		FacetFunctionSelectorsSignature,
		FacetAddressesSignature,
		FacetAddressSignature,
	)
	ERC173ID = abi.InterfaceID(OwnerSignature, TransferOwnershipSignature)
)
