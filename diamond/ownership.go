// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package diamond

import (
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"

	"github.com/luxfi/diamond/engine"
)

// ContractOwner returns the owner of the diamond env runs on.
func ContractOwner(env *engine.Env) (common.Address, error) {
	return Open(env).ContractOwner()
}

// EnforceIsContractOwner fails unless the caller is the contract owner.
func EnforceIsContractOwner(env *engine.Env) error {
	owner, err := ContractOwner(env)
	if err != nil {
		return err
	}
	if env.Caller() != owner {
		return fmt.Errorf("%w: caller %s", ErrNotContractOwner, env.Caller())
	}
	return nil
}

// SetContractOwner replaces the owner without an authorization check.
func SetContractOwner(env *engine.Env, newOwner common.Address) error {
	l := Open(env)
	previous, err := l.ContractOwner()
	if err != nil {
		return err
	}
	if err := l.setContractOwner(newOwner); err != nil {
		return err
	}
	env.Emit("OwnershipTransferred",
		engine.Address("previousOwner", previous),
		engine.Address("newOwner", newOwner),
	)
	env.Log().Info("ownership transferred",
		log.Stringer("diamond", env.Self()),
		log.Stringer("previousOwner", previous),
		log.Stringer("newOwner", newOwner),
	)
	return nil
}

// TransferOwnership hands the diamond to newOwner. Only the current owner may
// call it and newOwner must not be zero.
func TransferOwnership(env *engine.Env, newOwner common.Address) error {
	if err := EnforceIsContractOwner(env); err != nil {
		return err
	}
	if newOwner == (common.Address{}) {
		return fmt.Errorf("%w: new owner", engine.ErrZeroAddress)
	}
	return SetContractOwner(env, newOwner)
}
