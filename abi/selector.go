// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package abi derives function selectors and builds calldata.
//
// Calldata is a 4 byte selector followed by the arguments packed with
// wrappers.Packer in declaration order.
package abi

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/crypto/sha3"
)

// SelectorLen is the width of a function selector in bytes.
const SelectorLen = 4

var errBadSelector = errors.New("malformed selector")

// Selector identifies a callable function: the first four bytes of the
// keccak256 hash of its canonical signature.
type Selector [SelectorLen]byte

// NewSelector derives the selector for signature, e.g. "transfer(address,uint256)".
func NewSelector(signature string) Selector {
	var s Selector
	copy(s[:], Keccak256([]byte(signature)))
	return s
}

// SelectorsOf derives selectors for every signature, preserving order.
func SelectorsOf(signatures ...string) []Selector {
	sels := make([]Selector, len(signatures))
	for i, sig := range signatures {
		sels[i] = NewSelector(sig)
	}
	return sels
}

// InterfaceID is the ERC-165 identifier of the interface made of signatures:
// the XOR of their selectors.
func InterfaceID(signatures ...string) Selector {
	var id Selector
	for _, sig := range signatures {
		s := NewSelector(sig)
		for i := range id {
			id[i] ^= s[i]
		}
	}
	return id
}

// ParseSelector parses a 0x-prefixed or bare 8 character hex selector.
func ParseSelector(str string) (Selector, error) {
	var s Selector
	b, err := hex.DecodeString(strings.TrimPrefix(str, "0x"))
	if err != nil {
		return s, fmt.Errorf("%w %q: %w", errBadSelector, str, err)
	}
	if len(b) != SelectorLen {
		return s, fmt.Errorf("%w %q: want %d bytes, got %d", errBadSelector, str, SelectorLen, len(b))
	}
	copy(s[:], b)
	return s, nil
}

func (s Selector) String() string {
	return "0x" + hex.EncodeToString(s[:])
}

func (s Selector) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Selector) UnmarshalText(text []byte) error {
	parsed, err := ParseSelector(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Less orders selectors bytewise.
func (s Selector) Less(o Selector) bool {
	for i := range s {
		if s[i] != o[i] {
			return s[i] < o[i]
		}
	}
	return false
}

// SortSelectors sorts sels in place.
func SortSelectors(sels []Selector) {
	sort.Slice(sels, func(i, j int) bool { return sels[i].Less(sels[j]) })
}

// Keccak256 hashes the concatenation of data with legacy Keccak-256.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}
