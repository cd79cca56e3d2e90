// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package diamond

import (
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"

	"github.com/luxfi/diamond/abi"
	"github.com/luxfi/diamond/engine"
	"github.com/luxfi/diamond/utils/wrappers"
)

// MaxCuts bounds the number of actions in one cut.
const MaxCuts = 256

// FacetCutAction is what a cut does to its selectors.
type FacetCutAction uint8

const (
	Add FacetCutAction = iota
	Replace
	Remove
)

func (a FacetCutAction) String() string {
	switch a {
	case Add:
		return "Add"
	case Replace:
		return "Replace"
	case Remove:
		return "Remove"
	default:
		return fmt.Sprintf("FacetCutAction(%d)", uint8(a))
	}
}

// FacetCut applies Action to FunctionSelectors. Remove names the zero facet.
type FacetCut struct {
	FacetAddress      common.Address `json:"facetAddress"`
	Action            FacetCutAction `json:"action"`
	FunctionSelectors []abi.Selector `json:"functionSelectors"`
}

// PackCuts writes a count-prefixed list of cuts. More than MaxCuts errors p.
func PackCuts(p *wrappers.Packer, cuts []FacetCut) {
	if len(cuts) > MaxCuts {
		p.Add(ErrTooManyCuts)
		return
	}
	p.PackShort(uint16(len(cuts)))
	for _, c := range cuts {
		p.PackAddress(c.FacetAddress)
		p.PackByte(byte(c.Action))
		abi.PackSelectors(p, c.FunctionSelectors)
	}
}

// UnpackCuts reads a list written by PackCuts.
func UnpackCuts(p *wrappers.Packer) []FacetCut {
	n := p.UnpackShort()
	if p.Errored() {
		return nil
	}
	if n > MaxCuts {
		p.Add(ErrTooManyCuts)
		return nil
	}
	cuts := make([]FacetCut, 0, n)
	for i := uint16(0); i < n && !p.Errored(); i++ {
		cuts = append(cuts, FacetCut{
			FacetAddress:      p.UnpackAddress(),
			Action:            FacetCutAction(p.UnpackByte()),
			FunctionSelectors: abi.UnpackSelectors(p),
		})
	}
	return cuts
}

// EncodeCut builds diamondCut calldata.
func EncodeCut(cuts []FacetCut, init common.Address, calldata []byte) ([]byte, error) {
	return abi.EncodeSelector(CutSelector, func(p *wrappers.Packer) {
		PackCuts(p, cuts)
		p.PackAddress(init)
		p.PackBytes(calldata)
	})
}

// UnpackCutArgs reads the arguments of diamondCut.
func UnpackCutArgs(p *wrappers.Packer) ([]FacetCut, common.Address, []byte) {
	cuts := UnpackCuts(p)
	init := p.UnpackAddress()
	calldata := p.UnpackLimitedBytes(abi.MaxCalldataSize)
	return cuts, init, calldata
}

// Cut applies cuts to the routing table of the diamond env runs on, in
// order, then delegates calldata to init if init is set. Authorization is the
// caller's job. On error the caller's frame must be discarded: cut does not
// undo actions it already applied.
func Cut(env *engine.Env, cuts []FacetCut, init common.Address, calldata []byte) error {
	if len(cuts) == 0 {
		return ErrEmptyCut
	}

	l := Open(env)
	fields := make([]engine.Field, 0, len(cuts)+1)
	for i, c := range cuts {
		var err error
		switch c.Action {
		case Add:
			err = addFunctions(env, l, c.FacetAddress, c.FunctionSelectors)
		case Replace:
			err = replaceFunctions(env, l, c.FacetAddress, c.FunctionSelectors)
		case Remove:
			err = removeFunctions(l, c.FacetAddress, c.FunctionSelectors)
		default:
			err = fmt.Errorf("%w: %d", ErrIncorrectAction, uint8(c.Action))
		}
		if err != nil {
			return fmt.Errorf("facet cut %d: %w", i, err)
		}
		fields = append(fields, engine.String(
			fmt.Sprintf("cut%d", i),
			fmt.Sprintf("%s %s %d", c.Action, c.FacetAddress.Hex(), len(c.FunctionSelectors)),
		))
	}
	fields = append(fields, engine.Address("init", init))
	env.Emit("DiamondCut", fields...)
	env.Log().Info("diamond cut",
		log.Stringer("diamond", env.Self()),
		log.Int("cuts", len(cuts)),
		log.Stringer("init", init),
	)

	return initializeCut(env, init, calldata)
}

func addFunctions(env *engine.Env, l *Layout, facet common.Address, sels []abi.Selector) error {
	if len(sels) == 0 {
		return ErrNoSelectors
	}
	if err := checkModule(env, facet); err != nil {
		return err
	}
	for _, sel := range sels {
		owner, ok, err := l.FacetAddress(sel)
		if err != nil {
			return err
		}
		if ok {
			return fmt.Errorf("%w: %s is routed to %s", ErrSelectorAlreadyExists, sel, owner)
		}
		if err := l.bind(sel, facet); err != nil {
			return err
		}
	}
	return nil
}

func replaceFunctions(env *engine.Env, l *Layout, facet common.Address, sels []abi.Selector) error {
	if len(sels) == 0 {
		return ErrNoSelectorsToReplace
	}
	if err := checkModule(env, facet); err != nil {
		return err
	}
	for _, sel := range sels {
		owner, ok, err := l.FacetAddress(sel)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrSelectorNotFound, sel)
		}
		if owner == facet {
			return fmt.Errorf("%w: %s on %s", ErrCannotReplaceWithSameModule, sel, facet)
		}
		if _, err := l.unbind(sel); err != nil {
			return err
		}
		if err := l.bind(sel, facet); err != nil {
			return err
		}
	}
	return nil
}

func removeFunctions(l *Layout, facet common.Address, sels []abi.Selector) error {
	if len(sels) == 0 {
		return ErrNoSelectors
	}
	if facet != (common.Address{}) {
		return fmt.Errorf("%w: got %s", ErrRemoveModuleNotZero, facet)
	}
	for _, sel := range sels {
		if _, err := l.unbind(sel); err != nil {
			return err
		}
	}
	return nil
}

func checkModule(env *engine.Env, facet common.Address) error {
	if facet == (common.Address{}) {
		return fmt.Errorf("%w: zero address", ErrInvalidModule)
	}
	if !env.HasCode(facet) {
		return fmt.Errorf("%w: no code at %s", ErrInvalidModule, facet)
	}
	return nil
}

func initializeCut(env *engine.Env, init common.Address, calldata []byte) error {
	if init == (common.Address{}) {
		if len(calldata) != 0 {
			return ErrInitCalldataNotEmpty
		}
		return nil
	}
	if !env.HasCode(init) {
		return fmt.Errorf("%w: init %s has no code", ErrInvalidModule, init)
	}
	if _, err := env.DelegateCall(init, calldata); err != nil {
		return fmt.Errorf("initializing cut with %s: %w", init, err)
	}
	return nil
}
