// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package diamond

import (
	"github.com/luxfi/geth/common"

	"github.com/luxfi/diamond/abi"
	"github.com/luxfi/diamond/utils/wrappers"
)

// Facet is a facet and the selectors routed to it.
type Facet struct {
	FacetAddress      common.Address `json:"facetAddress"`
	FunctionSelectors []abi.Selector `json:"functionSelectors"`
}

// Facets lists every facet in the order it was first bound.
func (l *Layout) Facets() ([]Facet, error) {
	addrs, err := l.FacetAddresses()
	if err != nil {
		return nil, err
	}
	facets := make([]Facet, 0, len(addrs))
	for _, addr := range addrs {
		sels, err := l.FacetSelectors(addr)
		if err != nil {
			return nil, err
		}
		facets = append(facets, Facet{
			FacetAddress:      addr,
			FunctionSelectors: sels,
		})
	}
	return facets, nil
}

// PackFacets writes the facets() return value.
func PackFacets(p *wrappers.Packer, facets []Facet) {
	p.PackShort(uint16(len(facets)))
	for _, f := range facets {
		p.PackAddress(f.FacetAddress)
		abi.PackSelectors(p, f.FunctionSelectors)
	}
}

// UnpackFacets reads a list written by PackFacets.
func UnpackFacets(p *wrappers.Packer) []Facet {
	n := p.UnpackShort()
	if p.Errored() {
		return nil
	}
	facets := make([]Facet, 0, n)
	for i := uint16(0); i < n && !p.Errored(); i++ {
		facets = append(facets, Facet{
			FacetAddress:      p.UnpackAddress(),
			FunctionSelectors: abi.UnpackSelectors(p),
		})
	}
	return facets
}
