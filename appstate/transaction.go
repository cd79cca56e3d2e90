// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package appstate

import (
	"slices"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

// TxStatus is derived from a transaction and the current threshold; it is
// never stored.
type TxStatus uint8

const (
	Submitted TxStatus = iota
	PartiallyConfirmed
	Confirmed
	Executed
)

func (s TxStatus) String() string {
	switch s {
	case Submitted:
		return "Submitted"
	case PartiallyConfirmed:
		return "PartiallyConfirmed"
	case Confirmed:
		return "Confirmed"
	case Executed:
		return "Executed"
	default:
		return "Unknown"
	}
}

// Transaction is a multisig proposal.
type Transaction struct {
	Target      common.Address `serialize:"true"`
	Amount      [32]byte       `serialize:"true"`
	Data        []byte         `serialize:"true"`
	SubmittedBy common.Address `serialize:"true"`
	Executed    bool           `serialize:"true"`
	// Failed is set when the executed effect reverted.
	Failed bool `serialize:"true"`
	// Confirmations in the order they were given. No owner appears twice.
	Confirmations []common.Address `serialize:"true"`
}

func (t *Transaction) Value() *uint256.Int {
	return new(uint256.Int).SetBytes32(t.Amount[:])
}

func (t *Transaction) SetValue(v *uint256.Int) {
	if v == nil {
		t.Amount = [32]byte{}
		return
	}
	t.Amount = v.Bytes32()
}

func (t *Transaction) IsConfirmedBy(owner common.Address) bool {
	return slices.Contains(t.Confirmations, owner)
}

// Confirm records owner's confirmation and reports whether it was new.
func (t *Transaction) Confirm(owner common.Address) bool {
	if t.IsConfirmedBy(owner) {
		return false
	}
	t.Confirmations = append(t.Confirmations, owner)
	return true
}

// Revoke drops owner's confirmation and reports whether there was one.
func (t *Transaction) Revoke(owner common.Address) bool {
	i := slices.Index(t.Confirmations, owner)
	if i < 0 {
		return false
	}
	t.Confirmations = slices.Delete(t.Confirmations, i, i+1)
	return true
}

func (t *Transaction) Status(threshold uint64) TxStatus {
	switch n := uint64(len(t.Confirmations)); {
	case t.Executed:
		return Executed
	case threshold > 0 && n >= threshold:
		return Confirmed
	case n > 0:
		return PartiallyConfirmed
	default:
		return Submitted
	}
}
