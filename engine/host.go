// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package engine is the execution host contracts run in.
//
// The host owns one base database. Every transaction runs under the host lock
// in a versiondb frame that is committed only if the whole call tree
// succeeds; every nested call and delegate call gets its own child frame so a
// failed inner call can be discarded without touching its parent.
package engine

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/holiman/uint256"
	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/database/versiondb"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/diamond/abi"
)

// MaxCallDepth bounds nested Call and DelegateCall chains.
const MaxCallDepth = 64

// Contract is code deployed at an address.
type Contract interface {
	Execute(env *Env, input []byte) ([]byte, error)
}

// Constructor is implemented by contracts that initialize their storage when
// deployed. A failing constructor undeploys the contract.
type Constructor interface {
	Construct(env *Env) error
}

// Observer receives transaction outcomes and committed events.
type Observer interface {
	ObserveTransaction(kind string, duration time.Duration)
	ObserveEvent(name string)
}

// Message is an external call into the host.
type Message struct {
	From  common.Address
	To    common.Address
	Value *uint256.Int
	Data  []byte
}

// Receipt describes a committed transaction.
type Receipt struct {
	TxID   ids.ID
	Return []byte
	Events []Event
}

// EventsNamed returns the receipt's events named name.
func (r *Receipt) EventsNamed(name string) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

type txContext struct {
	origin common.Address
	events []Event
}

// Host executes messages against contracts.
type Host struct {
	chainID  ids.ID
	log      log.Logger
	observer Observer

	// lock serializes every state transition; calls never interleave
	lock sync.Mutex
	db   database.Database

	codeLock sync.RWMutex
	codes    map[common.Address]Contract
	nonces   map[common.Address]uint64
	txCount  uint64
}

// NewHost returns a host over db. observer may be nil.
func NewHost(chainID ids.ID, db database.Database, logger log.Logger, observer Observer) *Host {
	if observer == nil {
		observer = noopObserver{}
	}
	return &Host{
		chainID:  chainID,
		log:      logger,
		observer: observer,
		db:       db,
		codes:    make(map[common.Address]Contract),
		nonces:   make(map[common.Address]uint64),
	}
}

func (h *Host) ChainID() ids.ID {
	return h.chainID
}

func (h *Host) Log() log.Logger {
	return h.log
}

// Deploy registers c at a fresh address derived from deployer and its nonce
// and runs c's constructor, if any, in its own transaction.
func (h *Host) Deploy(ctx context.Context, deployer common.Address, c Contract) (common.Address, error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if err := ctx.Err(); err != nil {
		return common.Address{}, err
	}

	h.codeLock.Lock()
	nonce := h.nonces[deployer]
	h.nonces[deployer] = nonce + 1
	addr := createAddress(deployer, nonce)
	h.codes[addr] = c
	h.codeLock.Unlock()

	if ctor, ok := c.(Constructor); ok {
		root := versiondb.New(h.db)
		tx := &txContext{origin: deployer}
		env := &Env{
			host:   h,
			tx:     tx,
			db:     root,
			self:   addr,
			caller: deployer,
			value:  new(uint256.Int),
		}
		if err := ctor.Construct(env); err != nil {
			root.Abort()
			h.codeLock.Lock()
			delete(h.codes, addr)
			h.codeLock.Unlock()
			return common.Address{}, fmt.Errorf("constructing contract at %s: %w", addr, err)
		}
		if err := root.Commit(); err != nil {
			return common.Address{}, fmt.Errorf("committing constructor of %s: %w", addr, err)
		}
		h.publish(tx.events)
	}

	h.log.Info("contract deployed",
		log.Stringer("address", addr),
		log.Stringer("deployer", deployer),
	)
	return addr, nil
}

// Transact executes msg and commits its effects, or none of them.
func (h *Host) Transact(ctx context.Context, msg Message) (*Receipt, error) {
	start := time.Now()

	h.lock.Lock()
	defer h.lock.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := versiondb.New(h.db)
	tx := &txContext{origin: msg.From}
	ret, err := h.call(root, tx, msg.From, msg.To, msg.Value, msg.Data, 0)
	if err != nil {
		root.Abort()
		h.observer.ObserveTransaction(Kind(err), time.Since(start))
		h.log.Debug("transaction reverted",
			log.Stringer("from", msg.From),
			log.Stringer("to", msg.To),
			log.Err(err),
		)
		return nil, err
	}
	if err := root.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	h.txCount++
	receipt := &Receipt{
		TxID:   h.txID(msg),
		Return: ret,
		Events: tx.events,
	}
	h.observer.ObserveTransaction("Success", time.Since(start))
	h.publish(tx.events)
	h.log.Debug("transaction committed",
		log.Stringer("txID", receipt.TxID),
		log.Stringer("from", msg.From),
		log.Stringer("to", msg.To),
		log.Int("events", len(tx.events)),
	)
	return receipt, nil
}

// Call executes msg and discards its effects.
func (h *Host) Call(ctx context.Context, msg Message) ([]byte, error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := versiondb.New(h.db)
	defer root.Abort()
	return h.call(root, &txContext{origin: msg.From}, msg.From, msg.To, msg.Value, msg.Data, 0)
}

// View runs fn over the storage of addr. Writes made by fn are discarded.
func (h *Host) View(ctx context.Context, addr common.Address, fn func(storage database.Database) error) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	root := versiondb.New(h.db)
	defer root.Abort()
	return fn(prefixdb.New(addr[:], root))
}

// Fund credits amount of native value to addr out of thin air. It is how
// genesis allocations are made.
func (h *Host) Fund(ctx context.Context, addr common.Address, amount *uint256.Int) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	root := versiondb.New(h.db)
	if err := credit(root, addr, amount); err != nil {
		root.Abort()
		return err
	}
	return root.Commit()
}

// Balance returns the native balance of addr.
func (h *Host) Balance(addr common.Address) (*uint256.Int, error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	return balanceOf(h.db, addr)
}

func (h *Host) HasCode(addr common.Address) bool {
	_, ok := h.code(addr)
	return ok
}

func (h *Host) code(addr common.Address) (Contract, bool) {
	h.codeLock.RLock()
	defer h.codeLock.RUnlock()

	c, ok := h.codes[addr]
	return c, ok
}

func (h *Host) call(
	parent database.Database,
	tx *txContext,
	caller common.Address,
	to common.Address,
	value *uint256.Int,
	input []byte,
	depth int,
) ([]byte, error) {
	if depth > MaxCallDepth {
		return nil, ErrCallDepthExceeded
	}
	if to == (common.Address{}) {
		return nil, fmt.Errorf("%w: call target", ErrZeroAddress)
	}
	if value == nil {
		value = new(uint256.Int)
	}

	frame := versiondb.New(parent)
	mark := len(tx.events)
	ret, err := h.run(frame, tx, caller, to, value, input, depth)
	if err != nil {
		frame.Abort()
		tx.events = tx.events[:mark]
		return nil, err
	}
	if err := frame.Commit(); err != nil {
		tx.events = tx.events[:mark]
		return nil, fmt.Errorf("committing call frame: %w", err)
	}
	return ret, nil
}

func (h *Host) run(
	frame database.Database,
	tx *txContext,
	caller common.Address,
	to common.Address,
	value *uint256.Int,
	input []byte,
	depth int,
) ([]byte, error) {
	if !value.IsZero() {
		if err := transfer(frame, caller, to, value); err != nil {
			return nil, err
		}
	}

	code, ok := h.code(to)
	if !ok {
		if len(input) == 0 {
			// plain value transfer to an account without code
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrNoCode, to)
	}

	env := &Env{
		host:   h,
		tx:     tx,
		db:     frame,
		self:   to,
		caller: caller,
		value:  value,
		depth:  depth,
	}
	return code.Execute(env, input)
}

func (h *Host) publish(events []Event) {
	for _, e := range events {
		h.observer.ObserveEvent(e.Name)
	}
}

func (h *Host) txID(msg Message) ids.ID {
	var counter [8]byte
	binary.BigEndian.PutUint64(counter[:], h.txCount)

	var id ids.ID
	copy(id[:], abi.Keccak256(h.chainID[:], msg.From[:], msg.To[:], msg.Data, counter[:]))
	return id
}

func createAddress(deployer common.Address, nonce uint64) common.Address {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], nonce)
	return common.BytesToAddress(abi.Keccak256(deployer[:], n[:])[12:])
}

type noopObserver struct{}

func (noopObserver) ObserveTransaction(string, time.Duration) {}

func (noopObserver) ObserveEvent(string) {}
