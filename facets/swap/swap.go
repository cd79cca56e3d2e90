// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package swap is the facet that sells newly minted tokens for native value
// at a fixed price.
package swap

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/luxfi/diamond/abi"
	"github.com/luxfi/diamond/appstate"
	"github.com/luxfi/diamond/diamond"
	"github.com/luxfi/diamond/engine"
	"github.com/luxfi/diamond/facets/erc20"
	"github.com/luxfi/diamond/utils/wrappers"
)

const (
	SwapEthForTokensSignature    = "swapEthForTokens()"
	GetTokenPriceSignature       = "getTokenPrice()"
	SetTokenPriceSignature       = "setTokenPrice(uint256)"
	SetSwapEnabledSignature      = "setSwapEnabled(bool)"
	IsSwapEnabledSignature       = "isSwapEnabled()"
	GetTotalEthReceivedSignature = "getTotalEthReceived()"
	GetContractBalanceSignature  = "getContractBalance()"
	WithdrawEthSignature         = "withdrawEth(address,uint256)"
)

var (
	ErrSwapDisabled       = fmt.Errorf("%w: swapping is disabled", engine.ErrInvalidArgument)
	ErrNoValue            = fmt.Errorf("%w: must send native value to swap", engine.ErrInvalidArgument)
	ErrZeroPrice          = fmt.Errorf("%w: token price must be greater than zero", engine.ErrInvalidArgument)
	ErrNoTokens           = fmt.Errorf("%w: value buys no tokens", engine.ErrInvalidArgument)
	ErrInsufficientEth    = fmt.Errorf("%w: insufficient contract balance", engine.ErrInvalidArgument)
	ErrPriceNotConfigured = fmt.Errorf("%w: token price is not set", engine.ErrInvariantViolation)

	// one whole token in base units
	unit = new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(erc20.Decimals))
)

func New() *engine.MethodTable {
	return engine.NewMethodTable("SwapFacet",
		engine.Method{Signature: SwapEthForTokensSignature, Payable: true, Handler: swapEthForTokens},
		engine.Method{Signature: GetTokenPriceSignature, Handler: getTokenPrice},
		engine.Method{Signature: SetTokenPriceSignature, Handler: setTokenPrice},
		engine.Method{Signature: SetSwapEnabledSignature, Handler: setSwapEnabled},
		engine.Method{Signature: IsSwapEnabledSignature, Handler: isSwapEnabled},
		engine.Method{Signature: GetTotalEthReceivedSignature, Handler: getTotalEthReceived},
		engine.Method{Signature: GetContractBalanceSignature, Handler: getContractBalance},
		engine.Method{Signature: WithdrawEthSignature, Handler: withdrawEth},
	)
}

// TokensFor returns how many base units value buys at price.
func TokensFor(value, price *uint256.Int) (*uint256.Int, error) {
	if price.IsZero() {
		return nil, ErrPriceNotConfigured
	}
	tokens, overflow := new(uint256.Int).MulDivOverflow(value, unit, price)
	if overflow {
		return nil, fmt.Errorf("%w: token amount overflows", engine.ErrInvalidArgument)
	}
	return tokens, nil
}

func swapEthForTokens(env *engine.Env, _ *wrappers.Packer) ([]byte, error) {
	st := appstate.Open(env)
	enabled, err := st.SwapEnabled()
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, ErrSwapDisabled
	}
	value := env.Value()
	if value.IsZero() {
		return nil, ErrNoValue
	}
	price, err := st.TokenPrice()
	if err != nil {
		return nil, err
	}
	tokens, err := TokensFor(value, price)
	if err != nil {
		return nil, err
	}
	if tokens.IsZero() {
		return nil, ErrNoTokens
	}

	received, err := st.TotalEthReceived()
	if err != nil {
		return nil, err
	}
	// bounded by the native supply
	if err := st.SetTotalEthReceived(received.Add(received, value)); err != nil {
		return nil, err
	}
	if err := erc20.Mint(env, st, env.Caller(), tokens); err != nil {
		return nil, err
	}
	env.Emit("TokensPurchased",
		engine.Address("buyer", env.Caller()),
		engine.Amount("ethAmount", value),
		engine.Amount("tokenAmount", tokens),
	)
	return abi.ReturnUint256(tokens)
}

func getTokenPrice(env *engine.Env, _ *wrappers.Packer) ([]byte, error) {
	price, err := appstate.Open(env).TokenPrice()
	if err != nil {
		return nil, err
	}
	return abi.ReturnUint256(price)
}

func setTokenPrice(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	price := args.UnpackUint256()
	if err := engine.Decoded(args); err != nil {
		return nil, err
	}
	if err := diamond.EnforceIsContractOwner(env); err != nil {
		return nil, err
	}
	if price.IsZero() {
		return nil, ErrZeroPrice
	}
	st := appstate.Open(env)
	old, err := st.TokenPrice()
	if err != nil {
		return nil, err
	}
	if err := st.SetTokenPrice(price); err != nil {
		return nil, err
	}
	env.Emit("TokenPriceUpdated",
		engine.Amount("oldPrice", old),
		engine.Amount("newPrice", price),
	)
	return nil, nil
}

func setSwapEnabled(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	enabled := args.UnpackBool()
	if err := engine.Decoded(args); err != nil {
		return nil, err
	}
	if err := diamond.EnforceIsContractOwner(env); err != nil {
		return nil, err
	}
	if err := appstate.Open(env).SetSwapEnabled(enabled); err != nil {
		return nil, err
	}
	env.Emit("SwapStatusChanged", engine.Bool("enabled", enabled))
	return nil, nil
}

func isSwapEnabled(env *engine.Env, _ *wrappers.Packer) ([]byte, error) {
	enabled, err := appstate.Open(env).SwapEnabled()
	if err != nil {
		return nil, err
	}
	return abi.ReturnBool(enabled)
}

func getTotalEthReceived(env *engine.Env, _ *wrappers.Packer) ([]byte, error) {
	v, err := appstate.Open(env).TotalEthReceived()
	if err != nil {
		return nil, err
	}
	return abi.ReturnUint256(v)
}

func getContractBalance(env *engine.Env, _ *wrappers.Packer) ([]byte, error) {
	bal, err := env.Balance(env.Self())
	if err != nil {
		return nil, err
	}
	return abi.ReturnUint256(bal)
}

func withdrawEth(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	to := args.UnpackAddress()
	amount := args.UnpackUint256()
	if err := engine.Decoded(args); err != nil {
		return nil, err
	}
	if err := diamond.EnforceIsContractOwner(env); err != nil {
		return nil, err
	}
	bal, err := env.Balance(env.Self())
	if err != nil {
		return nil, err
	}
	if bal.Lt(amount) {
		return nil, fmt.Errorf("%w: %s < %s", ErrInsufficientEth, bal.Dec(), amount.Dec())
	}
	if _, err := env.Call(to, amount, nil); err != nil {
		return nil, fmt.Errorf("withdrawing to %s: %w", to, err)
	}
	env.Emit("EthWithdrawn",
		engine.Address("to", to),
		engine.Amount("amount", amount),
	)
	return nil, nil
}
