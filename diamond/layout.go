// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package diamond implements selector routing for a multi-facet contract: the
// routing table, the cut algorithm that edits it, the fallback dispatcher and
// the single-owner access guard.
package diamond

import (
	"errors"
	"fmt"

	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/diamond/abi"
	"github.com/luxfi/diamond/engine"
	"github.com/luxfi/diamond/utils/wrappers"
)

// StoragePosition names the key space the routing table lives in. It is
// disjoint from every application namespace.
const StoragePosition = "diamond.standard.diamond.storage"

const (
	selectorPrefix byte = iota
	facetSelectorsPrefix
	facetPositionPrefix
	interfacePrefix
)

var (
	facetsKey = []byte("facets")
	ownerKey  = []byte("owner")

	errTooManySelectors = fmt.Errorf("%w: facet owns too many selectors", engine.ErrInvariantViolation)
	errTooManyFacets    = fmt.Errorf("%w: too many facets", engine.ErrInvariantViolation)
)

// Layout is the routing table of one diamond.
//
// Every routed selector maps to its facet and its position in that facet's
// selector list; every facet with at least one selector is listed once in the
// facet list together with its position there. Both indices are maintained
// with swap-and-pop so removal is O(1).
type Layout struct {
	db database.Database
}

// NewLayout opens the routing table stored in a contract's storage.
func NewLayout(storage database.Database) *Layout {
	return &Layout{db: prefixdb.New([]byte(StoragePosition), storage)}
}

// Open opens the routing table of the diamond env is executing on behalf of.
func Open(env *engine.Env) *Layout {
	return NewLayout(env.Storage())
}

// FacetAddress returns the facet sel is routed to.
func (l *Layout) FacetAddress(sel abi.Selector) (common.Address, bool, error) {
	facet, _, ok, err := l.route(sel)
	return facet, ok, err
}

// FacetSelectors returns the selectors routed to facet.
func (l *Layout) FacetSelectors(facet common.Address) ([]abi.Selector, error) {
	b, err := l.db.Get(key(facetSelectorsPrefix, facet[:]))
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sels []abi.Selector
	if err := abi.Decode(b, func(p *wrappers.Packer) {
		sels = abi.UnpackSelectors(p)
	}); err != nil {
		return nil, fmt.Errorf("decoding selectors of %s: %w", facet, err)
	}
	return sels, nil
}

// FacetAddresses returns every facet owning at least one selector.
func (l *Layout) FacetAddresses() ([]common.Address, error) {
	b, err := l.db.Get(facetsKey)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var facets []common.Address
	if err := abi.Decode(b, func(p *wrappers.Packer) {
		facets = p.UnpackAddresses()
	}); err != nil {
		return nil, fmt.Errorf("decoding facet list: %w", err)
	}
	return facets, nil
}

// ContractOwner returns the zero address before an owner has been set.
func (l *Layout) ContractOwner() (common.Address, error) {
	b, err := l.db.Get(ownerKey)
	if errors.Is(err, database.ErrNotFound) {
		return common.Address{}, nil
	}
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(b), nil
}

func (l *Layout) setContractOwner(owner common.Address) error {
	return l.db.Put(ownerKey, owner[:])
}

// SupportsInterface reports whether id was declared through ERC-165.
func (l *Layout) SupportsInterface(id abi.Selector) (bool, error) {
	return l.db.Has(key(interfacePrefix, id[:]))
}

func (l *Layout) SetSupportsInterface(id abi.Selector, supported bool) error {
	k := key(interfacePrefix, id[:])
	if !supported {
		return l.db.Delete(k)
	}
	return l.db.Put(k, []byte{1})
}

func (l *Layout) route(sel abi.Selector) (common.Address, uint16, bool, error) {
	b, err := l.db.Get(key(selectorPrefix, sel[:]))
	if errors.Is(err, database.ErrNotFound) {
		return common.Address{}, 0, false, nil
	}
	if err != nil {
		return common.Address{}, 0, false, err
	}
	var (
		facet common.Address
		pos   uint16
	)
	if err := abi.Decode(b, func(p *wrappers.Packer) {
		facet = p.UnpackAddress()
		pos = p.UnpackShort()
	}); err != nil {
		return common.Address{}, 0, false, fmt.Errorf("decoding route of %s: %w", sel, err)
	}
	return facet, pos, true, nil
}

func (l *Layout) putRoute(sel abi.Selector, facet common.Address, pos uint16) error {
	p := wrappers.NewWriter(wrappers.AddressLen + wrappers.ShortLen)
	p.PackAddress(facet)
	p.PackShort(pos)
	return l.db.Put(key(selectorPrefix, sel[:]), p.Bytes)
}

func (l *Layout) putFacetSelectors(facet common.Address, sels []abi.Selector) error {
	k := key(facetSelectorsPrefix, facet[:])
	if len(sels) == 0 {
		return l.db.Delete(k)
	}
	p := wrappers.NewWriter(wrappers.ShortLen + len(sels)*abi.SelectorLen)
	abi.PackSelectors(p, sels)
	return l.db.Put(k, p.Bytes)
}

func (l *Layout) putFacets(facets []common.Address) error {
	if len(facets) == 0 {
		return l.db.Delete(facetsKey)
	}
	p := wrappers.NewWriter(wrappers.ShortLen + len(facets)*wrappers.AddressLen)
	p.PackAddresses(facets)
	if p.Err != nil {
		return p.Err
	}
	return l.db.Put(facetsKey, p.Bytes)
}

// bind routes sel to facet. sel must be unrouted.
func (l *Layout) bind(sel abi.Selector, facet common.Address) error {
	sels, err := l.FacetSelectors(facet)
	if err != nil {
		return err
	}
	if len(sels) >= wrappers.MaxListLen {
		return fmt.Errorf("%w: %s", errTooManySelectors, facet)
	}
	if len(sels) == 0 {
		if err := l.addFacet(facet); err != nil {
			return err
		}
	}
	if err := l.putRoute(sel, facet, uint16(len(sels))); err != nil {
		return err
	}
	return l.putFacetSelectors(facet, append(sels, sel))
}

// unbind removes sel's route and returns the facet it was routed to.
func (l *Layout) unbind(sel abi.Selector) (common.Address, error) {
	facet, pos, ok, err := l.route(sel)
	if err != nil {
		return common.Address{}, err
	}
	if !ok {
		return common.Address{}, fmt.Errorf("%w: %s", ErrSelectorNotFound, sel)
	}
	sels, err := l.FacetSelectors(facet)
	if err != nil {
		return common.Address{}, err
	}
	if int(pos) >= len(sels) || sels[pos] != sel {
		return common.Address{}, fmt.Errorf("%w: %s at position %d of %s", ErrInconsistentTable, sel, pos, facet)
	}

	last := len(sels) - 1
	if int(pos) != last {
		moved := sels[last]
		sels[pos] = moved
		if err := l.putRoute(moved, facet, pos); err != nil {
			return common.Address{}, err
		}
	}
	sels = sels[:last]
	if err := l.db.Delete(key(selectorPrefix, sel[:])); err != nil {
		return common.Address{}, err
	}
	if err := l.putFacetSelectors(facet, sels); err != nil {
		return common.Address{}, err
	}
	if len(sels) == 0 {
		if err := l.removeFacet(facet); err != nil {
			return common.Address{}, err
		}
	}
	return facet, nil
}

func (l *Layout) addFacet(facet common.Address) error {
	facets, err := l.FacetAddresses()
	if err != nil {
		return err
	}
	if len(facets) >= wrappers.MaxListLen {
		return errTooManyFacets
	}
	if err := l.putFacetPosition(facet, uint16(len(facets))); err != nil {
		return err
	}
	return l.putFacets(append(facets, facet))
}

func (l *Layout) removeFacet(facet common.Address) error {
	facets, err := l.FacetAddresses()
	if err != nil {
		return err
	}
	b, err := l.db.Get(key(facetPositionPrefix, facet[:]))
	if err != nil {
		return fmt.Errorf("%w: position of %s: %w", ErrInconsistentTable, facet, err)
	}
	pos := int(wrappers.NewReader(b).UnpackShort())
	if pos >= len(facets) || facets[pos] != facet {
		return fmt.Errorf("%w: %s at facet position %d", ErrInconsistentTable, facet, pos)
	}

	last := len(facets) - 1
	if pos != last {
		moved := facets[last]
		facets[pos] = moved
		if err := l.putFacetPosition(moved, uint16(pos)); err != nil {
			return err
		}
	}
	if err := l.db.Delete(key(facetPositionPrefix, facet[:])); err != nil {
		return err
	}
	return l.putFacets(facets[:last])
}

func (l *Layout) putFacetPosition(facet common.Address, pos uint16) error {
	p := wrappers.NewWriter(wrappers.ShortLen)
	p.PackShort(pos)
	return l.db.Put(key(facetPositionPrefix, facet[:]), p.Bytes)
}

func key(prefix byte, b []byte) []byte {
	k := make([]byte, 1+len(b))
	k[0] = prefix
	copy(k[1:], b)
	return k
}
