// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package initializer seeds a diamond's application storage. It is delegated
// to once, by the cut that installs the facets, and refuses to run again.
package initializer

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/log"

	"github.com/luxfi/diamond/abi"
	"github.com/luxfi/diamond/appstate"
	"github.com/luxfi/diamond/diamond"
	"github.com/luxfi/diamond/engine"
	"github.com/luxfi/diamond/facets/erc20"
	"github.com/luxfi/diamond/utils/wrappers"
)

const InitSignature = "init((string,string,uint256,uint256,string,string,string))"

var (
	ErrAlreadyInitialized = fmt.Errorf("%w: diamond storage already seeded", engine.ErrAlreadyInitialized)
	ErrMissingName        = fmt.Errorf("%w: token name and symbol are required", engine.ErrInvalidArgument)
	ErrZeroPrice          = fmt.Errorf("%w: token price must be greater than zero", engine.ErrInvalidArgument)
)

// Args seeds the token. InitialSupply is minted to the account performing
// the cut.
type Args struct {
	Name            string       `json:"name"`
	Symbol          string       `json:"symbol"`
	InitialSupply   *uint256.Int `json:"initialSupply"`
	TokenPrice      *uint256.Int `json:"tokenPriceInWei"`
	Description     string       `json:"description"`
	ExternalURL     string       `json:"externalUrl"`
	BackgroundColor string       `json:"backgroundColor"`
}

func (a *Args) Pack(p *wrappers.Packer) {
	p.PackStr(a.Name)
	p.PackStr(a.Symbol)
	p.PackUint256(a.InitialSupply)
	p.PackUint256(a.TokenPrice)
	p.PackStr(a.Description)
	p.PackStr(a.ExternalURL)
	p.PackStr(a.BackgroundColor)
}

func (a *Args) Unpack(p *wrappers.Packer) {
	a.Name = p.UnpackStr()
	a.Symbol = p.UnpackStr()
	a.InitialSupply = p.UnpackUint256()
	a.TokenPrice = p.UnpackUint256()
	a.Description = p.UnpackStr()
	a.ExternalURL = p.UnpackStr()
	a.BackgroundColor = p.UnpackStr()
}

// Calldata encodes the call a cut delegates to the initializer.
func Calldata(args *Args) ([]byte, error) {
	return abi.Encode(InitSignature, args.Pack)
}

func New() *engine.MethodTable {
	return engine.NewMethodTable("DiamondInit", engine.Method{
		Signature: InitSignature,
		Handler:   initHandler,
	})
}

func initHandler(env *engine.Env, p *wrappers.Packer) ([]byte, error) {
	var args Args
	args.Unpack(p)
	if err := engine.Decoded(p); err != nil {
		return nil, err
	}
	return nil, Init(env, &args)
}

// Init seeds token metadata, supply, price and the supported interfaces.
func Init(env *engine.Env, args *Args) error {
	st := appstate.Open(env)
	initialized, err := st.Initialized()
	if err != nil {
		return err
	}
	if initialized {
		return ErrAlreadyInitialized
	}
	if args.Name == "" || args.Symbol == "" {
		return ErrMissingName
	}
	if args.TokenPrice == nil || args.TokenPrice.IsZero() {
		return ErrZeroPrice
	}
	if err := st.SetInitialized(); err != nil {
		return err
	}

	if err := st.SetName(args.Name); err != nil {
		return err
	}
	if err := st.SetSymbol(args.Symbol); err != nil {
		return err
	}
	if err := st.SetDecimals(erc20.Decimals); err != nil {
		return err
	}
	if err := st.SetTokenPrice(args.TokenPrice); err != nil {
		return err
	}
	if err := st.SetSwapEnabled(true); err != nil {
		return err
	}
	if err := st.SetMetadata(appstate.TokenMetadata{
		Description:     args.Description,
		ExternalURL:     args.ExternalURL,
		BackgroundColor: args.BackgroundColor,
	}); err != nil {
		return err
	}
	if args.InitialSupply != nil && !args.InitialSupply.IsZero() {
		if err := erc20.Mint(env, st, env.Caller(), args.InitialSupply); err != nil {
			return err
		}
	}

	l := diamond.Open(env)
	for _, id := range []abi.Selector{
		diamond.ERC165ID,
		diamond.DiamondCutID,
		diamond.DiamondLoupeID,
		diamond.ERC173ID,
		erc20.InterfaceID,
	} {
		if err := l.SetSupportsInterface(id, true); err != nil {
			return err
		}
	}

	env.Emit("Initialized",
		engine.String("name", args.Name),
		engine.String("symbol", args.Symbol),
	)
	env.Log().Info("diamond storage initialized",
		log.Stringer("diamond", env.Self()),
		log.String("symbol", args.Symbol),
	)
	return nil
}
