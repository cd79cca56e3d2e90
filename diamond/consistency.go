// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package diamond

import (
	"errors"
	"fmt"

	"github.com/luxfi/database"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/math/set"

	"github.com/luxfi/diamond/utils/wrappers"
)

// CheckConsistency verifies that the selector routes and the per-facet
// selector lists describe the same bindings, that no facet is listed twice and
// that no listed facet is empty.
func (l *Layout) CheckConsistency() error {
	facets, err := l.FacetAddresses()
	if err != nil {
		return err
	}

	seen := set.NewSet[common.Address](len(facets))
	listed := 0
	for i, facet := range facets {
		if seen.Contains(facet) {
			return fmt.Errorf("%w: facet %s listed twice", ErrInconsistentTable, facet)
		}
		seen.Add(facet)

		b, err := l.db.Get(key(facetPositionPrefix, facet[:]))
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("%w: facet %s has no position", ErrInconsistentTable, facet)
		}
		if err != nil {
			return err
		}
		if pos := wrappers.NewReader(b).UnpackShort(); int(pos) != i {
			return fmt.Errorf("%w: facet %s at %d records position %d", ErrInconsistentTable, facet, i, pos)
		}

		sels, err := l.FacetSelectors(facet)
		if err != nil {
			return err
		}
		if len(sels) == 0 {
			return fmt.Errorf("%w: facet %s is listed without selectors", ErrInconsistentTable, facet)
		}
		for j, sel := range sels {
			owner, pos, ok, err := l.route(sel)
			if err != nil {
				return err
			}
			if !ok || owner != facet || int(pos) != j {
				return fmt.Errorf("%w: %s listed under %s is routed to %s", ErrInconsistentTable, sel, facet, owner)
			}
		}
		listed += len(sels)
	}

	it := l.db.NewIteratorWithPrefix([]byte{selectorPrefix})
	defer it.Release()

	routed := 0
	for it.Next() {
		routed++
	}
	if err := it.Error(); err != nil {
		return err
	}
	if routed != listed {
		return fmt.Errorf("%w: %d routed selectors but %d listed", ErrInconsistentTable, routed, listed)
	}
	return nil
}
