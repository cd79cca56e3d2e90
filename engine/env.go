// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/database/versiondb"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"
)

// Env is the execution context of one call frame.
type Env struct {
	host *Host
	tx   *txContext
	db   database.Database

	self   common.Address
	caller common.Address
	value  *uint256.Int
	depth  int
}

// Self is the address whose storage and balance this frame operates on. Under
// a delegate call it is the delegating contract, not the code's own address.
func (e *Env) Self() common.Address {
	return e.self
}

// Caller is the immediate sender, preserved across delegate calls.
func (e *Env) Caller() common.Address {
	return e.caller
}

// Origin is the external account that signed the transaction.
func (e *Env) Origin() common.Address {
	return e.tx.origin
}

// Value returns a copy of the native value sent with the call.
func (e *Env) Value() *uint256.Int {
	return new(uint256.Int).Set(e.value)
}

func (e *Env) Depth() int {
	return e.depth
}

func (e *Env) Log() log.Logger {
	return e.host.log
}

// Storage is Self's private key space.
func (e *Env) Storage() database.Database {
	return prefixdb.New(e.self[:], e.db)
}

// Balance returns the native balance of addr as seen by this frame.
func (e *Env) Balance(addr common.Address) (*uint256.Int, error) {
	return balanceOf(e.db, addr)
}

func (e *Env) HasCode(addr common.Address) bool {
	return e.host.HasCode(addr)
}

// Call sends value and input from Self to another address. A failed call
// rolls back only its own frame; the caller decides what to do with the
// error.
func (e *Env) Call(to common.Address, value *uint256.Int, input []byte) ([]byte, error) {
	return e.host.call(e.db, e.tx, e.self, to, value, input, e.depth+1)
}

// DelegateCall runs the code deployed at codeAddr against this frame's
// storage, identity, caller and value.
func (e *Env) DelegateCall(codeAddr common.Address, input []byte) ([]byte, error) {
	if e.depth+1 > MaxCallDepth {
		return nil, ErrCallDepthExceeded
	}
	code, ok := e.host.code(codeAddr)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoCode, codeAddr)
	}

	frame := versiondb.New(e.db)
	mark := len(e.tx.events)
	child := &Env{
		host:   e.host,
		tx:     e.tx,
		db:     frame,
		self:   e.self,
		caller: e.caller,
		value:  e.value,
		depth:  e.depth + 1,
	}
	ret, err := code.Execute(child, input)
	if err != nil {
		frame.Abort()
		e.tx.events = e.tx.events[:mark]
		return nil, err
	}
	if err := frame.Commit(); err != nil {
		e.tx.events = e.tx.events[:mark]
		return nil, fmt.Errorf("committing delegate frame: %w", err)
	}
	return ret, nil
}

// Emit records an event from Self.
func (e *Env) Emit(name string, fields ...Field) {
	e.tx.events = append(e.tx.events, Event{
		Address: e.self,
		Name:    name,
		Fields:  fields,
	})
}
