// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package deploy stands up a complete token diamond on a host.
package deploy

import (
	"context"
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"

	"github.com/luxfi/diamond/abi"
	"github.com/luxfi/diamond/diamond"
	"github.com/luxfi/diamond/engine"
	"github.com/luxfi/diamond/facets/cut"
	"github.com/luxfi/diamond/facets/erc20"
	"github.com/luxfi/diamond/facets/initializer"
	"github.com/luxfi/diamond/facets/loupe"
	"github.com/luxfi/diamond/facets/multisig"
	"github.com/luxfi/diamond/facets/ownership"
	"github.com/luxfi/diamond/facets/swap"
	"github.com/luxfi/diamond/facets/tokenuri"
	"github.com/luxfi/diamond/utils/units"
)

// Facet is a deployed facet and the selectors bound to it.
type Facet struct {
	Name      string         `json:"name"`
	Address   common.Address `json:"address"`
	Selectors []abi.Selector `json:"selectors"`
}

type Deployment struct {
	Diamond     common.Address `json:"diamond"`
	Initializer common.Address `json:"initializer"`
	Facets      []Facet        `json:"facets"`
}

// Facet returns the address of the facet called name.
func (d *Deployment) Facet(name string) (common.Address, bool) {
	for _, f := range d.Facets {
		if f.Name == name {
			return f.Address, true
		}
	}
	return common.Address{}, false
}

// Facets returns the method tables installed by Diamond, in cut order. The
// cut facet comes first because the diamond's constructor binds it.
func Facets() []*engine.MethodTable {
	return []*engine.MethodTable{
		cut.New(),
		loupe.New(),
		ownership.New(),
		erc20.New(),
		swap.New(),
		multisig.New(),
		tokenuri.New(),
	}
}

// Diamond deploys every facet, the initializer and a diamond owned by
// deployer, then adds all facets in one cut that seeds storage with args.
func Diamond(ctx context.Context, host *engine.Host, deployer common.Address, args *initializer.Args) (*Deployment, error) {
	tables := Facets()
	d := &Deployment{
		Facets: make([]Facet, 0, len(tables)),
	}
	for _, t := range tables {
		addr, err := host.Deploy(ctx, deployer, t)
		if err != nil {
			return nil, fmt.Errorf("deploying %s: %w", t.Name(), err)
		}
		d.Facets = append(d.Facets, Facet{
			Name:      t.Name(),
			Address:   addr,
			Selectors: t.Selectors(),
		})
	}

	var err error
	d.Initializer, err = host.Deploy(ctx, deployer, initializer.New())
	if err != nil {
		return nil, fmt.Errorf("deploying initializer: %w", err)
	}
	d.Diamond, err = host.Deploy(ctx, deployer, diamond.New(deployer, d.Facets[0].Address))
	if err != nil {
		return nil, fmt.Errorf("deploying diamond: %w", err)
	}

	cuts := make([]diamond.FacetCut, 0, len(d.Facets)-1)
	for _, f := range d.Facets[1:] {
		cuts = append(cuts, diamond.FacetCut{
			FacetAddress:      f.Address,
			Action:            diamond.Add,
			FunctionSelectors: f.Selectors,
		})
	}
	initData, err := initializer.Calldata(args)
	if err != nil {
		return nil, err
	}
	data, err := diamond.EncodeCut(cuts, d.Initializer, initData)
	if err != nil {
		return nil, err
	}
	receipt, err := host.Transact(ctx, engine.Message{
		From: deployer,
		To:   d.Diamond,
		Data: data,
	})
	if err != nil {
		return nil, fmt.Errorf("cutting facets into diamond: %w", err)
	}

	host.Log().Info("diamond deployed",
		log.Stringer("diamond", d.Diamond),
		log.Stringer("owner", deployer),
		log.Int("facets", len(d.Facets)),
		log.Stringer("txID", receipt.TxID),
	)
	return d, nil
}

// DefaultArgs seeds the BLL token.
func DefaultArgs() *initializer.Args {
	return &initializer.Args{
		Name:            "BLL Token",
		Symbol:          "BLL",
		InitialSupply:   units.Ethers(1_000_000),
		TokenPrice:      units.Amount(1, units.Milliether),
		Description:     "BLL Token - A fully upgradeable diamond proxy ERC20 token with swap, multisig, and onchain SVG capabilities",
		ExternalURL:     "https://bll-token.example.com",
		BackgroundColor: "667eea",
	}
}
