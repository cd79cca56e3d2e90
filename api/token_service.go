// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"net/http"

	"github.com/luxfi/diamond/engine"
	"github.com/luxfi/diamond/utils/json"
	"github.com/luxfi/diamond/utils/wrappers"
)

// Token returns every ERC-20 and swap read in one call.
func (s *Service) Token(r *http.Request, _ *EmptyArgs, reply *TokenReply) error {
	s.called("token")
	ctx := s.ctx(r)
	errs := wrappers.Errs{}

	name, err := s.client.Name(ctx)
	errs.Add(err)
	symbol, err := s.client.Symbol(ctx)
	errs.Add(err)
	decimals, err := s.client.Decimals(ctx)
	errs.Add(err)
	enabled, err := s.client.IsSwapEnabled(ctx)
	errs.Add(err)
	total, err := s.client.TotalSupply(ctx)
	errs.Add(err)
	maxSupply, err := s.client.MaxSupply(ctx)
	errs.Add(err)
	price, err := s.client.TokenPrice(ctx)
	errs.Add(err)
	received, err := s.client.TotalEthReceived(ctx)
	errs.Add(err)
	balance, err := s.client.ContractBalance(ctx)
	errs.Add(err)
	if errs.Errored() {
		return errs.Err
	}

	*reply = TokenReply{
		Name:             name,
		Symbol:           symbol,
		Decimals:         decimals,
		TotalSupply:      json.NewUint256(total),
		MaxSupply:        json.NewUint256(maxSupply),
		TokenPrice:       json.NewUint256(price),
		SwapEnabled:      enabled,
		TotalEthReceived: json.NewUint256(received),
		ContractBalance:  json.NewUint256(balance),
	}
	return nil
}

func (s *Service) BalanceOf(r *http.Request, args *AddressArgs, reply *AmountReply) error {
	s.called("balanceOf")
	bal, err := s.client.BalanceOf(s.ctx(r), args.Address)
	if err != nil {
		return err
	}
	reply.Amount = json.NewUint256(bal)
	return nil
}

func (s *Service) Allowance(r *http.Request, args *AllowanceArgs, reply *AmountReply) error {
	s.called("allowance")
	amount, err := s.client.Allowance(s.ctx(r), args.Owner, args.Spender)
	if err != nil {
		return err
	}
	reply.Amount = json.NewUint256(amount)
	return nil
}

func (s *Service) Transfer(r *http.Request, args *TransferArgs, reply *Receipt) error {
	s.called("transfer")
	return s.receipt(reply)(s.client.Transfer(s.ctx(r), args.From.From, args.To, args.Amount.Value()))
}

func (s *Service) Approve(r *http.Request, args *ApproveArgs, reply *Receipt) error {
	s.called("approve")
	return s.receipt(reply)(s.client.Approve(s.ctx(r), args.From.From, args.Spender, args.Amount.Value()))
}

func (s *Service) TransferFrom(r *http.Request, args *TransferFromArgs, reply *Receipt) error {
	s.called("transferFrom")
	return s.receipt(reply)(s.client.TransferFrom(s.ctx(r), args.From.From, args.Owner, args.To, args.Amount.Value()))
}

func (s *Service) Mint(r *http.Request, args *TransferArgs, reply *Receipt) error {
	s.called("mint")
	return s.receipt(reply)(s.client.Mint(s.ctx(r), args.From.From, args.To, args.Amount.Value()))
}

func (s *Service) Burn(r *http.Request, args *AmountArgs, reply *Receipt) error {
	s.called("burn")
	return s.receipt(reply)(s.client.Burn(s.ctx(r), args.From.From, args.Amount.Value()))
}

// SwapEthForTokens sends Amount of native value and mints tokens for it.
func (s *Service) SwapEthForTokens(r *http.Request, args *AmountArgs, reply *SwapReply) error {
	s.called("swapEthForTokens")
	tokens, receipt, err := s.client.SwapEthForTokens(s.ctx(r), args.From.From, args.Amount.Value())
	if err != nil {
		return err
	}
	reply.Tokens = json.NewUint256(tokens)
	reply.Receipt = newReceipt(receipt)
	return nil
}

func (s *Service) SetTokenPrice(r *http.Request, args *AmountArgs, reply *Receipt) error {
	s.called("setTokenPrice")
	return s.receipt(reply)(s.client.SetTokenPrice(s.ctx(r), args.From.From, args.Amount.Value()))
}

func (s *Service) SetSwapEnabled(r *http.Request, args *EnabledArgs, reply *Receipt) error {
	s.called("setSwapEnabled")
	return s.receipt(reply)(s.client.SetSwapEnabled(s.ctx(r), args.From.From, args.Enabled))
}

func (s *Service) WithdrawEth(r *http.Request, args *TransferArgs, reply *Receipt) error {
	s.called("withdrawEth")
	return s.receipt(reply)(s.client.WithdrawEth(s.ctx(r), args.From.From, args.To, args.Amount.Value()))
}

func (s *Service) TokenURI(r *http.Request, _ *EmptyArgs, reply *StringReply) error {
	s.called("tokenURI")
	uri, err := s.client.TokenURI(s.ctx(r))
	reply.Value = uri
	return err
}

func (s *Service) Logo(r *http.Request, _ *EmptyArgs, reply *StringReply) error {
	s.called("logo")
	logo, err := s.client.Logo(s.ctx(r))
	reply.Value = logo
	return err
}

func (s *Service) Metadata(r *http.Request, _ *EmptyArgs, reply *StringReply) error {
	s.called("metadata")
	meta, err := s.client.Metadata(s.ctx(r))
	reply.Value = meta
	return err
}

func (s *Service) SetTokenMetadata(r *http.Request, args *MetadataArgs, reply *Receipt) error {
	s.called("setTokenMetadata")
	return s.receipt(reply)(s.client.SetTokenMetadata(s.ctx(r), args.From.From, args.Description, args.ExternalURL, args.BackgroundColor))
}

// receipt fills reply from the result of a write.
func (*Service) receipt(reply *Receipt) func(*engine.Receipt, error) error {
	return func(r *engine.Receipt, err error) error {
		if err != nil {
			return err
		}
		*reply = newReceipt(r)
		return nil
	}
}
