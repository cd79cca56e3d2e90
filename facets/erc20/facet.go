// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package erc20

import (
	"fmt"

	"github.com/luxfi/diamond/abi"
	"github.com/luxfi/diamond/appstate"
	"github.com/luxfi/diamond/diamond"
	"github.com/luxfi/diamond/engine"
	"github.com/luxfi/diamond/utils/wrappers"
)

const (
	NameSignature         = "name()"
	SymbolSignature       = "symbol()"
	DecimalsSignature     = "decimals()"
	TotalSupplySignature  = "totalSupply()"
	MaxSupplySignature    = "maxSupply()"
	BalanceOfSignature    = "balanceOf(address)"
	AllowanceSignature    = "allowance(address,address)"
	TransferSignature     = "transfer(address,uint256)"
	ApproveSignature      = "approve(address,uint256)"
	TransferFromSignature = "transferFrom(address,address,uint256)"
	MintSignature         = "mint(address,uint256)"
	BurnSignature         = "burn(uint256)"
)

func New() *engine.MethodTable {
	return engine.NewMethodTable("ERC20Facet",
		engine.Method{Signature: NameSignature, Handler: name},
		engine.Method{Signature: SymbolSignature, Handler: symbol},
		engine.Method{Signature: DecimalsSignature, Handler: decimals},
		engine.Method{Signature: TotalSupplySignature, Handler: totalSupply},
		engine.Method{Signature: MaxSupplySignature, Handler: maxSupply},
		engine.Method{Signature: BalanceOfSignature, Handler: balanceOf},
		engine.Method{Signature: AllowanceSignature, Handler: allowance},
		engine.Method{Signature: TransferSignature, Handler: transfer},
		engine.Method{Signature: ApproveSignature, Handler: approveHandler},
		engine.Method{Signature: TransferFromSignature, Handler: transferFrom},
		engine.Method{Signature: MintSignature, Handler: mint},
		engine.Method{Signature: BurnSignature, Handler: burn},
	)
}

func name(env *engine.Env, _ *wrappers.Packer) ([]byte, error) {
	v, err := appstate.Open(env).Name()
	if err != nil {
		return nil, err
	}
	return abi.ReturnString(v)
}

func symbol(env *engine.Env, _ *wrappers.Packer) ([]byte, error) {
	v, err := appstate.Open(env).Symbol()
	if err != nil {
		return nil, err
	}
	return abi.ReturnString(v)
}

func decimals(env *engine.Env, _ *wrappers.Packer) ([]byte, error) {
	v, err := appstate.Open(env).Decimals()
	if err != nil {
		return nil, err
	}
	return abi.Return(func(p *wrappers.Packer) {
		p.PackByte(v)
	})
}

func totalSupply(env *engine.Env, _ *wrappers.Packer) ([]byte, error) {
	v, err := appstate.Open(env).TotalSupply()
	if err != nil {
		return nil, err
	}
	return abi.ReturnUint256(v)
}

func maxSupply(env *engine.Env, _ *wrappers.Packer) ([]byte, error) {
	v, err := appstate.Open(env).MaxSupply()
	if err != nil {
		return nil, err
	}
	return abi.ReturnUint256(v)
}

func balanceOf(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	holder := args.UnpackAddress()
	if err := engine.Decoded(args); err != nil {
		return nil, err
	}
	v, err := appstate.Open(env).BalanceOf(holder)
	if err != nil {
		return nil, err
	}
	return abi.ReturnUint256(v)
}

func allowance(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	owner := args.UnpackAddress()
	spender := args.UnpackAddress()
	if err := engine.Decoded(args); err != nil {
		return nil, err
	}
	v, err := appstate.Open(env).Allowance(owner, spender)
	if err != nil {
		return nil, err
	}
	return abi.ReturnUint256(v)
}

func transfer(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	to := args.UnpackAddress()
	amount := args.UnpackUint256()
	if err := engine.Decoded(args); err != nil {
		return nil, err
	}
	if err := Move(env, appstate.Open(env), env.Caller(), to, amount); err != nil {
		return nil, err
	}
	return abi.ReturnBool(true)
}

func approveHandler(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	spender := args.UnpackAddress()
	amount := args.UnpackUint256()
	if err := engine.Decoded(args); err != nil {
		return nil, err
	}
	if err := approve(env, appstate.Open(env), env.Caller(), spender, amount); err != nil {
		return nil, err
	}
	return abi.ReturnBool(true)
}

func transferFrom(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	from := args.UnpackAddress()
	to := args.UnpackAddress()
	amount := args.UnpackUint256()
	if err := engine.Decoded(args); err != nil {
		return nil, err
	}

	st := appstate.Open(env)
	spender := env.Caller()
	allowed, err := st.Allowance(from, spender)
	if err != nil {
		return nil, err
	}
	if allowed.Lt(amount) {
		return nil, fmt.Errorf("%w: %s < %s", ErrInsufficientAllowance, allowed.Dec(), amount.Dec())
	}
	if err := st.SetAllowance(from, spender, allowed.Sub(allowed, amount)); err != nil {
		return nil, err
	}
	if err := Move(env, st, from, to, amount); err != nil {
		return nil, err
	}
	return abi.ReturnBool(true)
}

func mint(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	to := args.UnpackAddress()
	amount := args.UnpackUint256()
	if err := engine.Decoded(args); err != nil {
		return nil, err
	}
	if err := diamond.EnforceIsContractOwner(env); err != nil {
		return nil, err
	}
	return nil, Mint(env, appstate.Open(env), to, amount)
}

func burn(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	amount := args.UnpackUint256()
	if err := engine.Decoded(args); err != nil {
		return nil, err
	}
	return nil, Burn(env, appstate.Open(env), env.Caller(), amount)
}
