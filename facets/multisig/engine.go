// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package multisig is an m-of-n approval engine for transactions the diamond
// sends on its owners' behalf.
//
// A transaction is submitted by an owner, confirmed by owners until the
// threshold is met, and then executed exactly once. It is marked executed
// before its effect runs, so neither a reverted effect nor a re-entrant call
// can execute it again. Owner-set changes are made by the diamond's contract
// owner, not by the multisig itself.
package multisig

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"

	"github.com/luxfi/diamond/appstate"
	"github.com/luxfi/diamond/diamond"
	"github.com/luxfi/diamond/engine"
	"github.com/luxfi/diamond/utils/wrappers"
)

var (
	ErrNotOwner          = fmt.Errorf("%w: not a multisig owner", engine.ErrUnauthorized)
	ErrNoOwners          = fmt.Errorf("%w: owners required", engine.ErrInvalidArgument)
	ErrDuplicateOwner    = fmt.Errorf("%w: duplicate owner", engine.ErrInvalidArgument)
	ErrInvalidThreshold  = fmt.Errorf("%w: invalid number of required confirmations", engine.ErrInvalidArgument)
	ErrAlreadyOwner      = fmt.Errorf("%w: already a multisig owner", engine.ErrInvalidArgument)
	ErrUnknownOwner      = fmt.Errorf("%w: no such multisig owner", engine.ErrInvalidArgument)
	ErrThresholdNotMet   = fmt.Errorf("%w: not enough confirmations", engine.ErrInvalidArgument)
	ErrNotConfirmed      = fmt.Errorf("%w: transaction not confirmed by caller", engine.ErrInvalidArgument)
	ErrBelowThreshold    = fmt.Errorf("%w: owner set would fall below the threshold", engine.ErrInvariantViolation)
	ErrAlreadyMultiSig   = fmt.Errorf("%w: multisig owners already set", engine.ErrAlreadyInitialized)
	ErrNotInitialized    = fmt.Errorf("%w: multisig not initialized", engine.ErrInvariantViolation)
	ErrTxAlreadyExecuted = fmt.Errorf("%w: transaction already executed", engine.ErrAlreadyExecuted)
	ErrTxConfirmed       = fmt.Errorf("%w: transaction already confirmed by caller", engine.ErrAlreadyConfirmed)
)

// Initialize sets the owner set and threshold once.
func Initialize(env *engine.Env, owners []common.Address, threshold uint64) error {
	if err := diamond.EnforceIsContractOwner(env); err != nil {
		return err
	}
	st := appstate.Open(env)
	current, err := st.Owners()
	if err != nil {
		return err
	}
	if len(current) != 0 {
		return ErrAlreadyMultiSig
	}
	if len(owners) == 0 {
		return ErrNoOwners
	}
	if len(owners) > wrappers.MaxListLen {
		return appstate.ErrTooManyOwners
	}
	if threshold == 0 || threshold > uint64(len(owners)) {
		return fmt.Errorf("%w: %d of %d", ErrInvalidThreshold, threshold, len(owners))
	}
	for _, owner := range owners {
		if owner == (common.Address{}) {
			return fmt.Errorf("%w: multisig owner", engine.ErrZeroAddress)
		}
		isOwner, err := st.IsOwner(owner)
		if err != nil {
			return err
		}
		if isOwner {
			return fmt.Errorf("%w: %s", ErrDuplicateOwner, owner)
		}
		if err := st.AddOwner(owner); err != nil {
			return err
		}
	}
	if err := st.SetThreshold(threshold); err != nil {
		return err
	}
	env.Emit("MultiSigInitialized",
		engine.Uint64("owners", uint64(len(owners))),
		engine.Uint64("required", threshold),
	)
	return nil
}

// Submit records a new transaction and returns its id.
func Submit(env *engine.Env, target common.Address, value *uint256.Int, data []byte) (uint64, error) {
	st := appstate.Open(env)
	if err := enforceIsOwner(env, st); err != nil {
		return 0, err
	}
	if target == (common.Address{}) {
		return 0, fmt.Errorf("%w: transaction target", engine.ErrZeroAddress)
	}
	id, err := st.TransactionCount()
	if err != nil {
		return 0, err
	}
	tx := &appstate.Transaction{
		Target:      target,
		Data:        data,
		SubmittedBy: env.Caller(),
	}
	tx.SetValue(value)
	if err := st.PutTransaction(id, tx); err != nil {
		return 0, err
	}
	if err := st.SetTransactionCount(id + 1); err != nil {
		return 0, err
	}
	env.Emit("Submission",
		engine.Uint64("transactionId", id),
		engine.Address("owner", env.Caller()),
		engine.Address("target", target),
		engine.Amount("value", value),
	)
	return id, nil
}

// Confirm adds the caller's confirmation to transaction id.
func Confirm(env *engine.Env, id uint64) error {
	st := appstate.Open(env)
	if err := enforceIsOwner(env, st); err != nil {
		return err
	}
	tx, err := pending(st, id)
	if err != nil {
		return err
	}
	if !tx.Confirm(env.Caller()) {
		return fmt.Errorf("%w: %d", ErrTxConfirmed, id)
	}
	if err := st.PutTransaction(id, tx); err != nil {
		return err
	}
	env.Emit("Confirmation",
		engine.Uint64("transactionId", id),
		engine.Address("owner", env.Caller()),
	)
	return nil
}

// Revoke withdraws the caller's confirmation of transaction id.
func Revoke(env *engine.Env, id uint64) error {
	st := appstate.Open(env)
	if err := enforceIsOwner(env, st); err != nil {
		return err
	}
	tx, err := pending(st, id)
	if err != nil {
		return err
	}
	if !tx.Revoke(env.Caller()) {
		return fmt.Errorf("%w: %d", ErrNotConfirmed, id)
	}
	if err := st.PutTransaction(id, tx); err != nil {
		return err
	}
	env.Emit("Revocation",
		engine.Uint64("transactionId", id),
		engine.Address("owner", env.Caller()),
	)
	return nil
}

// Execute runs transaction id once it has enough confirmations and reports
// whether its effect succeeded. A failed effect is rolled back on its own and
// recorded; the transaction stays executed either way.
func Execute(env *engine.Env, id uint64) (bool, error) {
	st := appstate.Open(env)
	if err := enforceIsOwner(env, st); err != nil {
		return false, err
	}
	tx, err := pending(st, id)
	if err != nil {
		return false, err
	}
	threshold, err := st.Threshold()
	if err != nil {
		return false, err
	}
	if tx.Status(threshold) != appstate.Confirmed {
		return false, fmt.Errorf("%w: %d of %d", ErrThresholdNotMet, len(tx.Confirmations), threshold)
	}

	tx.Executed = true
	if err := st.PutTransaction(id, tx); err != nil {
		return false, err
	}

	_, effectErr := env.Call(tx.Target, tx.Value(), tx.Data)
	if effectErr != nil {
		tx.Failed = true
		if err := st.PutTransaction(id, tx); err != nil {
			return false, err
		}
		env.Emit("ExecutionFailure",
			engine.Uint64("transactionId", id),
			engine.String("reason", effectErr.Error()),
		)
		env.Log().Info("multisig transaction failed",
			log.Stringer("diamond", env.Self()),
			log.Int("transactionId", int(id)),
			log.Err(effectErr),
		)
		return false, nil
	}
	env.Emit("Execution", engine.Uint64("transactionId", id))
	return true, nil
}

// AddOwner adds owner to the set. Only the contract owner may call it, and
// only once Initialize has set a threshold.
func AddOwner(env *engine.Env, owner common.Address) error {
	if err := diamond.EnforceIsContractOwner(env); err != nil {
		return err
	}
	if owner == (common.Address{}) {
		return fmt.Errorf("%w: multisig owner", engine.ErrZeroAddress)
	}
	st := appstate.Open(env)
	if _, err := initializedThreshold(st); err != nil {
		return err
	}
	isOwner, err := st.IsOwner(owner)
	if err != nil {
		return err
	}
	if isOwner {
		return fmt.Errorf("%w: %s", ErrAlreadyOwner, owner)
	}
	if err := st.AddOwner(owner); err != nil {
		return err
	}
	env.Emit("OwnerAddition", engine.Address("owner", owner))
	return nil
}

// RemoveOwner drops owner from the set and from every pending confirmation
// set. It fails rather than leave fewer owners than the threshold.
func RemoveOwner(env *engine.Env, owner common.Address) error {
	if err := diamond.EnforceIsContractOwner(env); err != nil {
		return err
	}
	st := appstate.Open(env)
	threshold, err := initializedThreshold(st)
	if err != nil {
		return err
	}
	isOwner, err := st.IsOwner(owner)
	if err != nil {
		return err
	}
	if !isOwner {
		return fmt.Errorf("%w: %s", ErrUnknownOwner, owner)
	}
	owners, err := st.Owners()
	if err != nil {
		return err
	}
	remaining := uint64(len(owners) - 1)
	if remaining == 0 || remaining < threshold {
		return fmt.Errorf("%w: %d owners left, %d required", ErrBelowThreshold, remaining, threshold)
	}
	if err := st.RemoveOwner(owner); err != nil {
		return err
	}
	if err := purgeConfirmations(st, owner); err != nil {
		return err
	}
	env.Emit("OwnerRemoval", engine.Address("owner", owner))
	return nil
}

func purgeConfirmations(st *appstate.State, owner common.Address) error {
	count, err := st.TransactionCount()
	if err != nil {
		return err
	}
	for id := uint64(0); id < count; id++ {
		tx, err := st.Transaction(id)
		if err != nil {
			return err
		}
		if tx.Executed || !tx.Revoke(owner) {
			continue
		}
		if err := st.PutTransaction(id, tx); err != nil {
			return err
		}
	}
	return nil
}

func enforceIsOwner(env *engine.Env, st *appstate.State) error {
	isOwner, err := st.IsOwner(env.Caller())
	if err != nil {
		return err
	}
	if !isOwner {
		return fmt.Errorf("%w: %s", ErrNotOwner, env.Caller())
	}
	return nil
}

// pending loads transaction id and fails if it was already executed.
func pending(st *appstate.State, id uint64) (*appstate.Transaction, error) {
	tx, err := st.Transaction(id)
	if err != nil {
		return nil, err
	}
	if tx.Executed {
		return nil, fmt.Errorf("%w: %d", ErrTxAlreadyExecuted, id)
	}
	return tx, nil
}

// initializedThreshold returns the threshold, which is zero until Initialize
// runs. Owner-set changes before then would leave owners without a threshold
// and block Initialize.
func initializedThreshold(st *appstate.State) (uint64, error) {
	threshold, err := st.Threshold()
	if err != nil {
		return 0, err
	}
	if threshold == 0 {
		return 0, ErrNotInitialized
	}
	return threshold, nil
}
