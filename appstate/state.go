// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package appstate is the application storage every facet of a diamond
// shares. Each field family lives in its own key namespace so no two facets
// can ever write the same slot for different purposes.
package appstate

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/diamond/engine"
	"github.com/luxfi/diamond/utils/wrappers"
)

// StoragePosition names the application key space. It is disjoint from the
// routing table's.
const StoragePosition = "diamond.app.storage"

var (
	singletonPrefix    = []byte("singleton")
	balancePrefix      = []byte("erc20.balance")
	allowancePrefix    = []byte("erc20.allowance")
	ownerIndexPrefix   = []byte("multisig.owner")
	transactionsPrefix = []byte("multisig.transaction")

	nameKey             = []byte("name")
	symbolKey           = []byte("symbol")
	decimalsKey         = []byte("decimals")
	totalSupplyKey      = []byte("totalSupply")
	maxSupplyKey        = []byte("maxSupply")
	tokenPriceKey       = []byte("tokenPrice")
	swapEnabledKey      = []byte("swapEnabled")
	totalEthReceivedKey = []byte("totalEthReceived")
	descriptionKey      = []byte("description")
	externalURLKey      = []byte("externalUrl")
	backgroundColorKey  = []byte("backgroundColor")
	initializedKey      = []byte("initialized")
	ownersKey           = []byte("owners")
	thresholdKey        = []byte("threshold")
	txCountKey          = []byte("transactionCount")

	ErrTransactionNotFound = fmt.Errorf("%w: transaction does not exist", engine.ErrInvalidArgument)
	ErrTooManyOwners       = fmt.Errorf("%w: too many owners", engine.ErrInvalidArgument)
)

// TokenMetadata is the presentation data served by the token URI.
type TokenMetadata struct {
	Description     string `json:"description"`
	ExternalURL     string `json:"externalUrl"`
	BackgroundColor string `json:"backgroundColor"`
}

type State struct {
	singletons   database.Database
	balances     database.Database
	allowances   database.Database
	ownerIndex   database.Database
	transactions database.Database
}

// New opens the application state kept in a contract's storage.
func New(storage database.Database) *State {
	db := prefixdb.New([]byte(StoragePosition), storage)
	return &State{
		singletons:   prefixdb.New(singletonPrefix, db),
		balances:     prefixdb.New(balancePrefix, db),
		allowances:   prefixdb.New(allowancePrefix, db),
		ownerIndex:   prefixdb.New(ownerIndexPrefix, db),
		transactions: prefixdb.New(transactionsPrefix, db),
	}
}

// Open opens the application state of the diamond env runs on.
func Open(env *engine.Env) *State {
	return New(env.Storage())
}

func (s *State) Initialized() (bool, error) {
	return s.getBool(initializedKey)
}

func (s *State) SetInitialized() error {
	return s.putBool(initializedKey, true)
}

func (s *State) Name() (string, error) {
	return s.getString(nameKey)
}

func (s *State) SetName(name string) error {
	return s.singletons.Put(nameKey, []byte(name))
}

func (s *State) Symbol() (string, error) {
	return s.getString(symbolKey)
}

func (s *State) SetSymbol(symbol string) error {
	return s.singletons.Put(symbolKey, []byte(symbol))
}

func (s *State) Decimals() (uint8, error) {
	b, err := s.singletons.Get(decimalsKey)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil || len(b) != 1 {
		return 0, corrupt(decimalsKey, err)
	}
	return b[0], nil
}

func (s *State) SetDecimals(decimals uint8) error {
	return s.singletons.Put(decimalsKey, []byte{decimals})
}

func (s *State) TotalSupply() (*uint256.Int, error) {
	return getAmount(s.singletons, totalSupplyKey)
}

func (s *State) SetTotalSupply(v *uint256.Int) error {
	return putAmount(s.singletons, totalSupplyKey, v)
}

// MaxSupply is zero when minting is uncapped.
func (s *State) MaxSupply() (*uint256.Int, error) {
	return getAmount(s.singletons, maxSupplyKey)
}

func (s *State) SetMaxSupply(v *uint256.Int) error {
	return putAmount(s.singletons, maxSupplyKey, v)
}

func (s *State) BalanceOf(addr common.Address) (*uint256.Int, error) {
	return getAmount(s.balances, addr[:])
}

func (s *State) SetBalance(addr common.Address, v *uint256.Int) error {
	return putAmount(s.balances, addr[:], v)
}

func (s *State) Allowance(owner, spender common.Address) (*uint256.Int, error) {
	return getAmount(s.allowances, allowanceKey(owner, spender))
}

func (s *State) SetAllowance(owner, spender common.Address, v *uint256.Int) error {
	return putAmount(s.allowances, allowanceKey(owner, spender), v)
}

// TokenPrice is the native value paid per whole token.
func (s *State) TokenPrice() (*uint256.Int, error) {
	return getAmount(s.singletons, tokenPriceKey)
}

func (s *State) SetTokenPrice(v *uint256.Int) error {
	return putAmount(s.singletons, tokenPriceKey, v)
}

func (s *State) SwapEnabled() (bool, error) {
	return s.getBool(swapEnabledKey)
}

func (s *State) SetSwapEnabled(enabled bool) error {
	return s.putBool(swapEnabledKey, enabled)
}

func (s *State) TotalEthReceived() (*uint256.Int, error) {
	return getAmount(s.singletons, totalEthReceivedKey)
}

func (s *State) SetTotalEthReceived(v *uint256.Int) error {
	return putAmount(s.singletons, totalEthReceivedKey, v)
}

func (s *State) Metadata() (TokenMetadata, error) {
	var (
		m   TokenMetadata
		err error
	)
	if m.Description, err = s.getString(descriptionKey); err != nil {
		return m, err
	}
	if m.ExternalURL, err = s.getString(externalURLKey); err != nil {
		return m, err
	}
	m.BackgroundColor, err = s.getString(backgroundColorKey)
	return m, err
}

func (s *State) SetMetadata(m TokenMetadata) error {
	if err := s.singletons.Put(descriptionKey, []byte(m.Description)); err != nil {
		return err
	}
	if err := s.singletons.Put(externalURLKey, []byte(m.ExternalURL)); err != nil {
		return err
	}
	return s.singletons.Put(backgroundColorKey, []byte(m.BackgroundColor))
}

// Owners returns the multisig owners in insertion order, except that
// removing an owner moves the last one into its place.
func (s *State) Owners() ([]common.Address, error) {
	b, err := s.singletons.Get(ownersKey)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p := wrappers.NewReader(b)
	owners := p.UnpackAddresses()
	if p.Err != nil {
		return nil, corrupt(ownersKey, p.Err)
	}
	return owners, nil
}

func (s *State) IsOwner(addr common.Address) (bool, error) {
	return s.ownerIndex.Has(addr[:])
}

// AddOwner appends addr. The caller checks it is not already an owner.
func (s *State) AddOwner(addr common.Address) error {
	owners, err := s.Owners()
	if err != nil {
		return err
	}
	if len(owners) >= wrappers.MaxListLen {
		return ErrTooManyOwners
	}
	if err := s.putOwnerPosition(addr, len(owners)); err != nil {
		return err
	}
	return s.putOwners(append(owners, addr))
}

// RemoveOwner drops addr by moving the last owner into its slot.
func (s *State) RemoveOwner(addr common.Address) error {
	b, err := s.ownerIndex.Get(addr[:])
	if err != nil {
		return err
	}
	owners, err := s.Owners()
	if err != nil {
		return err
	}
	pos := int(wrappers.NewReader(b).UnpackShort())
	if pos >= len(owners) || owners[pos] != addr {
		return fmt.Errorf("%w: owner %s at position %d", engine.ErrInvariantViolation, addr, pos)
	}
	last := len(owners) - 1
	if pos != last {
		owners[pos] = owners[last]
		if err := s.putOwnerPosition(owners[pos], pos); err != nil {
			return err
		}
	}
	if err := s.ownerIndex.Delete(addr[:]); err != nil {
		return err
	}
	return s.putOwners(owners[:last])
}

func (s *State) Threshold() (uint64, error) {
	return s.getUint64(thresholdKey)
}

func (s *State) SetThreshold(threshold uint64) error {
	return database.PutUInt64(s.singletons, thresholdKey, threshold)
}

// TransactionCount is also the id the next submitted transaction gets.
func (s *State) TransactionCount() (uint64, error) {
	return s.getUint64(txCountKey)
}

func (s *State) SetTransactionCount(n uint64) error {
	return database.PutUInt64(s.singletons, txCountKey, n)
}

func (s *State) Transaction(id uint64) (*Transaction, error) {
	b, err := s.transactions.Get(database.PackUInt64(id))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrTransactionNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	tx := &Transaction{}
	if _, err := Codec.Unmarshal(b, tx); err != nil {
		return nil, fmt.Errorf("decoding transaction %d: %w", id, err)
	}
	return tx, nil
}

func (s *State) PutTransaction(id uint64, tx *Transaction) error {
	b, err := Codec.Marshal(CodecVersion, tx)
	if err != nil {
		return fmt.Errorf("encoding transaction %d: %w", id, err)
	}
	return s.transactions.Put(database.PackUInt64(id), b)
}

func (s *State) putOwners(owners []common.Address) error {
	p := wrappers.NewWriter(wrappers.ShortLen + len(owners)*wrappers.AddressLen)
	p.PackAddresses(owners)
	if p.Err != nil {
		return p.Err
	}
	return s.singletons.Put(ownersKey, p.Bytes)
}

func (s *State) putOwnerPosition(addr common.Address, pos int) error {
	p := wrappers.NewWriter(wrappers.ShortLen)
	p.PackShort(uint16(pos))
	return s.ownerIndex.Put(addr[:], p.Bytes)
}

func (s *State) getString(key []byte) (string, error) {
	b, err := s.singletons.Get(key)
	if errors.Is(err, database.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *State) getBool(key []byte) (bool, error) {
	b, err := s.singletons.Get(key)
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	if err != nil || len(b) != 1 {
		return false, corrupt(key, err)
	}
	return b[0] == 1, nil
}

func (s *State) putBool(key []byte, v bool) error {
	b := []byte{0}
	if v {
		b[0] = 1
	}
	return s.singletons.Put(key, b)
}

func (s *State) getUint64(key []byte) (uint64, error) {
	v, err := database.GetUInt64(s.singletons, key)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	return v, err
}

func getAmount(db database.Database, key []byte) (*uint256.Int, error) {
	b, err := db.Get(key)
	if errors.Is(err, database.ErrNotFound) {
		return new(uint256.Int), nil
	}
	if err != nil {
		return nil, err
	}
	if len(b) != wrappers.WordLen {
		return nil, corrupt(key, nil)
	}
	return new(uint256.Int).SetBytes32(b), nil
}

// putAmount deletes zero amounts so absent and zero read the same.
func putAmount(db database.Database, key []byte, v *uint256.Int) error {
	if v == nil || v.IsZero() {
		return db.Delete(key)
	}
	b := v.Bytes32()
	return db.Put(key, b[:])
}

func allowanceKey(owner, spender common.Address) []byte {
	k := make([]byte, 0, 2*common.AddressLength)
	k = append(k, owner[:]...)
	return append(k, spender[:]...)
}

func corrupt(key []byte, err error) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: malformed value under %q", engine.ErrInvariantViolation, key)
}
