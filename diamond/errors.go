// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package diamond

import (
	"fmt"

	"github.com/luxfi/diamond/engine"
)

var (
	ErrNotContractOwner = fmt.Errorf("%w: must be contract owner", engine.ErrUnauthorized)

	ErrEmptyCut                    = fmt.Errorf("%w: no facet cuts", engine.ErrInvalidArgument)
	ErrIncorrectAction             = fmt.Errorf("%w: incorrect facet cut action", engine.ErrInvalidArgument)
	ErrNoSelectors                 = fmt.Errorf("%w: no selectors in facet cut", engine.ErrInvalidArgument)
	ErrInvalidModule               = fmt.Errorf("%w: invalid facet module", engine.ErrInvalidArgument)
	ErrSelectorAlreadyExists       = fmt.Errorf("%w: selector already exists", engine.ErrInvalidArgument)
	ErrNoSelectorsToReplace        = fmt.Errorf("%w: no selectors to replace", engine.ErrInvalidArgument)
	ErrCannotReplaceWithSameModule = fmt.Errorf("%w: cannot replace selector with the facet that owns it", engine.ErrInvalidArgument)
	ErrSelectorNotFound            = fmt.Errorf("%w: selector is not routed", engine.ErrInvalidArgument)
	ErrRemoveModuleNotZero         = fmt.Errorf("%w: remove facet address must be the zero address", engine.ErrInvalidArgument)
	ErrInitCalldataNotEmpty        = fmt.Errorf("%w: init address is zero but calldata is not empty", engine.ErrInvalidArgument)
	ErrTooManyCuts                 = fmt.Errorf("%w: too many facet cuts", engine.ErrInvalidArgument)

	ErrInconsistentTable = fmt.Errorf("%w: selector table inconsistent", engine.ErrInvariantViolation)
)
