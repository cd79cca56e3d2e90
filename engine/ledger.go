// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/geth/common"
)

// native balances live outside every contract's storage namespace
var nativeBalancePrefix = []byte("native-balance")

func ledger(db database.Database) database.Database {
	return prefixdb.New(nativeBalancePrefix, db)
}

func balanceOf(db database.Database, addr common.Address) (*uint256.Int, error) {
	b, err := ledger(db).Get(addr[:])
	switch {
	case errors.Is(err, database.ErrNotFound):
		return new(uint256.Int), nil
	case err != nil:
		return nil, fmt.Errorf("reading native balance of %s: %w", addr, err)
	}
	return new(uint256.Int).SetBytes(b), nil
}

func setBalance(db database.Database, addr common.Address, v *uint256.Int) error {
	if v.IsZero() {
		return ledger(db).Delete(addr[:])
	}
	return ledger(db).Put(addr[:], v.Bytes())
}

func credit(db database.Database, addr common.Address, amount *uint256.Int) error {
	bal, err := balanceOf(db, addr)
	if err != nil {
		return err
	}
	if _, overflow := bal.AddOverflow(bal, amount); overflow {
		return fmt.Errorf("%w: native balance of %s overflows", ErrInvariantViolation, addr)
	}
	return setBalance(db, addr, bal)
}

func transfer(db database.Database, from, to common.Address, amount *uint256.Int) error {
	bal, err := balanceOf(db, from)
	if err != nil {
		return err
	}
	if bal.Lt(amount) {
		return fmt.Errorf("%w: %s holds %s, needs %s", ErrInsufficientBalance, from, bal.Dec(), amount.Dec())
	}
	if err := setBalance(db, from, bal.Sub(bal, amount)); err != nil {
		return err
	}
	return credit(db, to, amount)
}
