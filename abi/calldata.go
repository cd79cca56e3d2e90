// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package abi

import (
	"errors"
	"fmt"

	"github.com/luxfi/diamond/utils/wrappers"
)

// MaxCalldataSize bounds encoded calldata and return data.
const MaxCalldataSize = 1 << 20

var ErrShortCalldata = errors.New("calldata shorter than a selector")

// Encode builds calldata for signature. pack may be nil for functions
// without arguments.
func Encode(signature string, pack func(p *wrappers.Packer)) ([]byte, error) {
	return EncodeSelector(NewSelector(signature), pack)
}

// EncodeSelector builds calldata for an already derived selector.
func EncodeSelector(sel Selector, pack func(p *wrappers.Packer)) ([]byte, error) {
	p := wrappers.NewWriter(MaxCalldataSize)
	p.PackFixedBytes(sel[:])
	if pack != nil {
		pack(p)
	}
	if p.Err != nil {
		return nil, fmt.Errorf("encoding %s: %w", sel, p.Err)
	}
	return p.Bytes, nil
}

// Split separates calldata into its selector and packed arguments.
func Split(input []byte) (Selector, []byte, error) {
	var sel Selector
	if len(input) < SelectorLen {
		return sel, nil, fmt.Errorf("%w: %d bytes", ErrShortCalldata, len(input))
	}
	copy(sel[:], input[:SelectorLen])
	return sel, input[SelectorLen:], nil
}

// Return packs a function's return values.
func Return(pack func(p *wrappers.Packer)) ([]byte, error) {
	p := wrappers.NewWriter(MaxCalldataSize)
	pack(p)
	if p.Err != nil {
		return nil, fmt.Errorf("encoding return data: %w", p.Err)
	}
	return p.Bytes, nil
}

// Decode unpacks return data or arguments with unpack and reports the first
// decoding error.
func Decode(b []byte, unpack func(p *wrappers.Packer)) error {
	p := wrappers.NewReader(b)
	unpack(p)
	return p.Err
}

// PackSelector appends a single selector.
func PackSelector(p *wrappers.Packer, sel Selector) {
	p.PackFixedBytes(sel[:])
}

// UnpackSelector reads a single selector.
func UnpackSelector(p *wrappers.Packer) Selector {
	var sel Selector
	copy(sel[:], p.UnpackFixedBytes(SelectorLen))
	return sel
}

// PackSelectors appends a count-prefixed selector list.
func PackSelectors(p *wrappers.Packer, sels []Selector) {
	p.PackShort(uint16(len(sels)))
	for _, sel := range sels {
		PackSelector(p, sel)
	}
}

// UnpackSelectors reads a count-prefixed selector list.
func UnpackSelectors(p *wrappers.Packer) []Selector {
	n := p.UnpackShort()
	if p.Errored() {
		return nil
	}
	sels := make([]Selector, 0, n)
	for i := uint16(0); i < n && !p.Errored(); i++ {
		sels = append(sels, UnpackSelector(p))
	}
	return sels
}
