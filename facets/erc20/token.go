// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package erc20 is the fungible token facet. Mint and Move are shared with
// the facets that issue tokens.
package erc20

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/diamond/abi"
	"github.com/luxfi/diamond/appstate"
	"github.com/luxfi/diamond/engine"
)

// Decimals every token issued by a diamond uses.
const Decimals = 18

var (
	ErrInsufficientBalance   = fmt.Errorf("%w: ERC20: insufficient balance", engine.ErrInvalidArgument)
	ErrInsufficientAllowance = fmt.Errorf("%w: ERC20: insufficient allowance", engine.ErrInvalidArgument)
	ErrBurnExceedsBalance    = fmt.Errorf("%w: ERC20: burn exceeds balance", engine.ErrInvalidArgument)
	ErrExceedsMaxSupply      = fmt.Errorf("%w: ERC20: exceeds max supply", engine.ErrInvalidArgument)
	ErrSupplyOverflow        = fmt.Errorf("%w: ERC20: total supply overflow", engine.ErrInvariantViolation)

	// InterfaceID is the ERC-165 identifier of ERC-20.
	InterfaceID = abi.InterfaceID(
		TotalSupplySignature,
		BalanceOfSignature,
		TransferSignature,
		TransferFromSignature,
		ApproveSignature,
		AllowanceSignature,
	)
)

// Mint creates amount tokens for to, bounded by the max supply when one is
// set.
func Mint(env *engine.Env, st *appstate.State, to common.Address, amount *uint256.Int) error {
	if to == (common.Address{}) {
		return fmt.Errorf("%w: mint recipient", engine.ErrZeroAddress)
	}
	supply, err := st.TotalSupply()
	if err != nil {
		return err
	}
	newSupply, overflow := new(uint256.Int).AddOverflow(supply, amount)
	if overflow {
		return ErrSupplyOverflow
	}
	maxSupply, err := st.MaxSupply()
	if err != nil {
		return err
	}
	if !maxSupply.IsZero() && newSupply.Gt(maxSupply) {
		return fmt.Errorf("%w: %s > %s", ErrExceedsMaxSupply, newSupply.Dec(), maxSupply.Dec())
	}
	bal, err := st.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := st.SetTotalSupply(newSupply); err != nil {
		return err
	}
	// balance <= supply so it cannot overflow
	if err := st.SetBalance(to, bal.Add(bal, amount)); err != nil {
		return err
	}
	env.Emit("Transfer",
		engine.Address("from", common.Address{}),
		engine.Address("to", to),
		engine.Amount("value", amount),
	)
	return nil
}

// Burn destroys amount of from's tokens.
func Burn(env *engine.Env, st *appstate.State, from common.Address, amount *uint256.Int) error {
	bal, err := st.BalanceOf(from)
	if err != nil {
		return err
	}
	if bal.Lt(amount) {
		return fmt.Errorf("%w: %s < %s", ErrBurnExceedsBalance, bal.Dec(), amount.Dec())
	}
	supply, err := st.TotalSupply()
	if err != nil {
		return err
	}
	if err := st.SetBalance(from, bal.Sub(bal, amount)); err != nil {
		return err
	}
	if err := st.SetTotalSupply(supply.Sub(supply, amount)); err != nil {
		return err
	}
	env.Emit("Transfer",
		engine.Address("from", from),
		engine.Address("to", common.Address{}),
		engine.Amount("value", amount),
	)
	return nil
}

// Move transfers amount from one holder to another.
func Move(env *engine.Env, st *appstate.State, from, to common.Address, amount *uint256.Int) error {
	if to == (common.Address{}) {
		return fmt.Errorf("%w: transfer recipient", engine.ErrZeroAddress)
	}
	fromBal, err := st.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBal.Lt(amount) {
		return fmt.Errorf("%w: %s < %s", ErrInsufficientBalance, fromBal.Dec(), amount.Dec())
	}
	if err := st.SetBalance(from, fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	toBal, err := st.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := st.SetBalance(to, toBal.Add(toBal, amount)); err != nil {
		return err
	}
	env.Emit("Transfer",
		engine.Address("from", from),
		engine.Address("to", to),
		engine.Amount("value", amount),
	)
	return nil
}

func approve(env *engine.Env, st *appstate.State, owner, spender common.Address, amount *uint256.Int) error {
	if spender == (common.Address{}) {
		return fmt.Errorf("%w: spender", engine.ErrZeroAddress)
	}
	if err := st.SetAllowance(owner, spender, amount); err != nil {
		return err
	}
	env.Emit("Approval",
		engine.Address("owner", owner),
		engine.Address("spender", spender),
		engine.Amount("value", amount),
	)
	return nil
}
