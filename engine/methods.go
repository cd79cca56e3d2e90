// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"fmt"

	"github.com/luxfi/diamond/abi"
	"github.com/luxfi/diamond/utils/wrappers"
)

var _ Contract = (*MethodTable)(nil)

// Handler runs one function. args is positioned after the selector.
type Handler func(env *Env, args *wrappers.Packer) ([]byte, error)

// Method binds a signature to its handler.
type Method struct {
	Signature string
	Payable   bool
	Handler   Handler
}

// MethodTable is a stateless contract that routes calldata to handlers by
// selector. Facets are method tables.
type MethodTable struct {
	name      string
	methods   map[abi.Selector]Method
	selectors []abi.Selector
}

// NewMethodTable panics if two methods share a selector.
func NewMethodTable(name string, methods ...Method) *MethodTable {
	t := &MethodTable{
		name:      name,
		methods:   make(map[abi.Selector]Method, len(methods)),
		selectors: make([]abi.Selector, 0, len(methods)),
	}
	for _, m := range methods {
		sel := abi.NewSelector(m.Signature)
		if prev, ok := t.methods[sel]; ok {
			panic(fmt.Sprintf("%s: selector %s of %q collides with %q", name, sel, m.Signature, prev.Signature))
		}
		t.methods[sel] = m
		t.selectors = append(t.selectors, sel)
	}
	return t
}

func (t *MethodTable) Name() string {
	return t.name
}

// Selectors returns the table's selectors in declaration order.
func (t *MethodTable) Selectors() []abi.Selector {
	return append([]abi.Selector(nil), t.selectors...)
}

// Signature returns the signature bound to sel.
func (t *MethodTable) Signature(sel abi.Selector) (string, bool) {
	m, ok := t.methods[sel]
	return m.Signature, ok
}

func (t *MethodTable) Execute(env *Env, input []byte) ([]byte, error) {
	sel, rest, err := abi.Split(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedCalldata, err)
	}
	m, ok := t.methods[sel]
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrUnroutedSelector, sel, t.name)
	}
	if !m.Payable && !env.value.IsZero() {
		return nil, fmt.Errorf("%w: %s", ErrNonPayable, m.Signature)
	}

	args := wrappers.NewReader(rest)
	ret, err := m.Handler(env, args)
	if args.Err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedCalldata, m.Signature, args.Err)
	}
	if err != nil {
		return nil, err
	}
	// handlers that take no arguments never call Decoded
	if n := args.Remaining(); n != 0 {
		return nil, fmt.Errorf("%w: %s: %d trailing bytes", ErrMalformedCalldata, m.Signature, n)
	}
	return ret, nil
}

// Decoded reports a malformed-calldata error if decoding args failed or left
// bytes unread. Handlers call it after unpacking and before touching state.
func Decoded(args *wrappers.Packer) error {
	if args.Err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedCalldata, args.Err)
	}
	if n := args.Remaining(); n != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrMalformedCalldata, n)
	}
	return nil
}
