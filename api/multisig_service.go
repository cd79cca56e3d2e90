// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"net/http"

	"github.com/luxfi/log"

	"github.com/luxfi/diamond/utils/json"
)

func (s *Service) InitializeMultiSig(r *http.Request, args *InitializeMultiSigArgs, reply *Receipt) error {
	s.log.Debug("API called",
		log.String("service", "diamond"),
		log.String("method", "initializeMultiSig"),
		log.Int("owners", len(args.Owners)),
	)
	return s.receipt(reply)(s.client.InitializeMultiSig(s.ctx(r), args.From.From, args.Owners, uint64(args.Threshold)))
}

func (s *Service) SubmitTransaction(r *http.Request, args *SubmitArgs, reply *SubmitReply) error {
	s.called("submitTransaction")
	id, receipt, err := s.client.SubmitTransaction(s.ctx(r), args.From.From, args.Target, args.Value.Value(), args.Data)
	if err != nil {
		return err
	}
	reply.TransactionID = json.Uint64(id)
	reply.Receipt = newReceipt(receipt)
	return nil
}

func (s *Service) ConfirmTransaction(r *http.Request, args *TransactionArgs, reply *Receipt) error {
	s.called("confirmTransaction")
	return s.receipt(reply)(s.client.ConfirmTransaction(s.ctx(r), args.From.From, uint64(args.TransactionID)))
}

func (s *Service) RevokeConfirmation(r *http.Request, args *TransactionArgs, reply *Receipt) error {
	s.called("revokeConfirmation")
	return s.receipt(reply)(s.client.RevokeConfirmation(s.ctx(r), args.From.From, uint64(args.TransactionID)))
}

// ExecuteTransaction reports Success false when the transaction's effect
// reverted; it is executed either way.
func (s *Service) ExecuteTransaction(r *http.Request, args *TransactionArgs, reply *ExecuteReply) error {
	s.called("executeTransaction")
	ok, receipt, err := s.client.ExecuteTransaction(s.ctx(r), args.From.From, uint64(args.TransactionID))
	if err != nil {
		return err
	}
	reply.Success = ok
	reply.Receipt = newReceipt(receipt)
	return nil
}

func (s *Service) AddOwner(r *http.Request, args *OwnerArgs, reply *Receipt) error {
	s.called("addOwner")
	return s.receipt(reply)(s.client.AddOwner(s.ctx(r), args.From.From, args.Owner))
}

func (s *Service) RemoveOwner(r *http.Request, args *OwnerArgs, reply *Receipt) error {
	s.called("removeOwner")
	return s.receipt(reply)(s.client.RemoveOwner(s.ctx(r), args.From.From, args.Owner))
}

// MultiSig returns the owner set, threshold and transaction count.
func (s *Service) MultiSig(r *http.Request, _ *EmptyArgs, reply *MultiSigReply) error {
	s.called("multiSig")
	ctx := s.ctx(r)
	owners, err := s.client.Owners(ctx)
	if err != nil {
		return err
	}
	threshold, err := s.client.RequiredConfirmations(ctx)
	if err != nil {
		return err
	}
	count, err := s.client.TransactionCount(ctx)
	if err != nil {
		return err
	}
	reply.Owners = owners
	reply.Threshold = json.Uint64(threshold)
	reply.TransactionCount = json.Uint64(count)
	return nil
}

func (s *Service) GetTransaction(r *http.Request, args *TransactionIDArgs, reply *TransactionReply) error {
	s.called("getTransaction")
	view, err := s.client.Transaction(s.ctx(r), uint64(args.TransactionID))
	if err != nil {
		return err
	}
	*reply = newTransactionReply(view)
	return nil
}

func (s *Service) IsConfirmed(r *http.Request, args *TransactionIDArgs, reply *BoolReply) error {
	s.called("isConfirmed")
	ok, err := s.client.IsConfirmed(s.ctx(r), uint64(args.TransactionID), args.Owner)
	reply.Value = ok
	return err
}
