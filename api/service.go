// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package api serves a diamond over JSON-RPC.
//
// Every state-changing method names the account it acts as in "from"; the
// node holds no keys and authenticates nobody, so it is meant for local
// development networks.
package api

import (
	"context"
	"net/http"

	"github.com/luxfi/log"

	"github.com/luxfi/diamond/api/health"
	"github.com/luxfi/diamond/client"
	"github.com/luxfi/diamond/utils/json"
)

// Service is the "diamond" JSON-RPC service.
type Service struct {
	log    log.Logger
	client *client.Client
	health *health.Health
}

// NewService serves the diamond c talks to. h may be nil.
func NewService(log log.Logger, c *client.Client, h *health.Health) *Service {
	return &Service{
		log:    log,
		client: c,
		health: h,
	}
}

// Health runs the registered health checks.
func (s *Service) Health(r *http.Request, _ *EmptyArgs, reply *health.Report) error {
	s.called("health")
	if s.health == nil {
		reply.Healthy = true
		return nil
	}
	*reply = s.health.Report(s.ctx(r))
	return nil
}

func (s *Service) ctx(r *http.Request) context.Context {
	return r.Context()
}

func (s *Service) called(method string) {
	s.log.Debug("API called",
		log.String("service", "diamond"),
		log.String("method", method),
	)
}

func (s *Service) Call(r *http.Request, args *CallArgs, reply *CallReply) error {
	s.called("call")
	ret, err := s.client.Call(s.ctx(r), args.From.From, args.Value.Value(), args.Data)
	if err != nil {
		return err
	}
	reply.Return = ret
	return nil
}

func (s *Service) Transact(r *http.Request, args *CallArgs, reply *Receipt) error {
	s.log.Debug("API called",
		log.String("service", "diamond"),
		log.String("method", "transact"),
		log.Stringer("from", args.From.From),
	)
	receipt, err := s.client.Transact(s.ctx(r), args.From.From, args.Value.Value(), args.Data)
	if err != nil {
		return err
	}
	*reply = newReceipt(receipt)
	return nil
}

func (s *Service) DiamondCut(r *http.Request, args *CutArgs, reply *Receipt) error {
	s.log.Debug("API called",
		log.String("service", "diamond"),
		log.String("method", "diamondCut"),
		log.Int("cuts", len(args.Cuts)),
	)
	receipt, err := s.client.DiamondCut(s.ctx(r), args.From.From, args.Cuts, args.Init, args.Calldata)
	if err != nil {
		return err
	}
	*reply = newReceipt(receipt)
	return nil
}

func (s *Service) Facets(r *http.Request, _ *EmptyArgs, reply *FacetsReply) error {
	s.called("facets")
	facets, err := s.client.Facets(s.ctx(r))
	reply.Facets = facets
	return err
}

func (s *Service) FacetFunctionSelectors(r *http.Request, args *AddressArgs, reply *SelectorsReply) error {
	s.called("facetFunctionSelectors")
	sels, err := s.client.FacetFunctionSelectors(s.ctx(r), args.Address)
	reply.Selectors = sels
	return err
}

func (s *Service) FacetAddresses(r *http.Request, _ *EmptyArgs, reply *AddressesReply) error {
	s.called("facetAddresses")
	addrs, err := s.client.FacetAddresses(s.ctx(r))
	reply.Addresses = addrs
	return err
}

func (s *Service) FacetAddress(r *http.Request, args *SelectorArgs, reply *AddressReply) error {
	s.called("facetAddress")
	addr, err := s.client.FacetAddress(s.ctx(r), args.Selector)
	reply.Address = addr
	return err
}

func (s *Service) SupportsInterface(r *http.Request, args *SelectorArgs, reply *BoolReply) error {
	s.called("supportsInterface")
	ok, err := s.client.SupportsInterface(s.ctx(r), args.Selector)
	reply.Value = ok
	return err
}

func (s *Service) Owner(r *http.Request, _ *EmptyArgs, reply *AddressReply) error {
	s.called("owner")
	owner, err := s.client.Owner(s.ctx(r))
	reply.Address = owner
	return err
}

func (s *Service) TransferOwnership(r *http.Request, args *OwnerArgs, reply *Receipt) error {
	s.called("transferOwnership")
	receipt, err := s.client.TransferOwnership(s.ctx(r), args.From.From, args.Owner)
	if err != nil {
		return err
	}
	*reply = newReceipt(receipt)
	return nil
}

// NativeBalance returns the native value held by an account.
func (s *Service) NativeBalance(_ *http.Request, args *AddressArgs, reply *AmountReply) error {
	s.called("nativeBalance")
	bal, err := s.client.Host().Balance(args.Address)
	if err != nil {
		return err
	}
	reply.Amount = json.NewUint256(bal)
	return nil
}
