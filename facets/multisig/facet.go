// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package multisig

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/diamond/abi"
	"github.com/luxfi/diamond/appstate"
	"github.com/luxfi/diamond/engine"
	"github.com/luxfi/diamond/utils/wrappers"
)

const (
	InitializeMultiSigSignature       = "initializeMultiSig(address[],uint256)"
	SubmitTransactionSignature        = "submitTransaction(address,uint256,bytes)"
	ConfirmTransactionSignature       = "confirmTransaction(uint256)"
	RevokeConfirmationSignature       = "revokeConfirmation(uint256)"
	ExecuteTransactionSignature       = "executeTransaction(uint256)"
	AddOwnerSignature                 = "addOwner(address)"
	RemoveOwnerSignature              = "removeOwner(address)"
	GetOwnersSignature                = "getOwners()"
	IsOwnerSignature                  = "isOwner(address)"
	GetRequiredConfirmationsSignature = "getRequiredConfirmations()"
	GetTransactionSignature           = "getTransaction(uint256)"
	GetTransactionCountSignature      = "getTransactionCount()"
	IsConfirmedSignature              = "isConfirmed(uint256,address)"
	GetConfirmationCountSignature     = "getConfirmationCount(uint256)"
)

// TransactionView is what getTransaction returns.
type TransactionView struct {
	Target           common.Address
	Value            *uint256.Int
	Data             []byte
	Executed         bool
	NumConfirmations uint64
	Failed           bool
	Status           appstate.TxStatus
}

func (v *TransactionView) Pack(p *wrappers.Packer) {
	p.PackAddress(v.Target)
	p.PackUint256(v.Value)
	p.PackBytes(v.Data)
	p.PackBool(v.Executed)
	p.PackUint256(uint256.NewInt(v.NumConfirmations))
	p.PackBool(v.Failed)
	p.PackByte(byte(v.Status))
}

func (v *TransactionView) Unpack(p *wrappers.Packer) {
	v.Target = p.UnpackAddress()
	v.Value = p.UnpackUint256()
	v.Data = p.UnpackLimitedBytes(abi.MaxCalldataSize)
	v.Executed = p.UnpackBool()
	v.NumConfirmations = p.UnpackUint256().Uint64()
	v.Failed = p.UnpackBool()
	v.Status = appstate.TxStatus(p.UnpackByte())
}

func New() *engine.MethodTable {
	return engine.NewMethodTable("MultiSigFacet",
		engine.Method{Signature: InitializeMultiSigSignature, Handler: initializeMultiSig},
		engine.Method{Signature: SubmitTransactionSignature, Handler: submitTransaction},
		engine.Method{Signature: ConfirmTransactionSignature, Handler: confirmTransaction},
		engine.Method{Signature: RevokeConfirmationSignature, Handler: revokeConfirmation},
		engine.Method{Signature: ExecuteTransactionSignature, Handler: executeTransaction},
		engine.Method{Signature: AddOwnerSignature, Handler: addOwner},
		engine.Method{Signature: RemoveOwnerSignature, Handler: removeOwner},
		engine.Method{Signature: GetOwnersSignature, Handler: getOwners},
		engine.Method{Signature: IsOwnerSignature, Handler: isOwner},
		engine.Method{Signature: GetRequiredConfirmationsSignature, Handler: getRequiredConfirmations},
		engine.Method{Signature: GetTransactionSignature, Handler: getTransaction},
		engine.Method{Signature: GetTransactionCountSignature, Handler: getTransactionCount},
		engine.Method{Signature: IsConfirmedSignature, Handler: isConfirmed},
		engine.Method{Signature: GetConfirmationCountSignature, Handler: getConfirmationCount},
	)
}

func initializeMultiSig(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	owners := args.UnpackAddresses()
	required := args.UnpackUint256()
	if err := engine.Decoded(args); err != nil {
		return nil, err
	}
	if !required.IsUint64() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidThreshold, required.Dec())
	}
	return nil, Initialize(env, owners, required.Uint64())
}

func submitTransaction(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	target := args.UnpackAddress()
	value := args.UnpackUint256()
	data := args.UnpackLimitedBytes(abi.MaxCalldataSize)
	if err := engine.Decoded(args); err != nil {
		return nil, err
	}
	id, err := Submit(env, target, value, data)
	if err != nil {
		return nil, err
	}
	return abi.ReturnUint256(uint256.NewInt(id))
}

func confirmTransaction(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	id, err := unpackID(args)
	if err != nil {
		return nil, err
	}
	return nil, Confirm(env, id)
}

func revokeConfirmation(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	id, err := unpackID(args)
	if err != nil {
		return nil, err
	}
	return nil, Revoke(env, id)
}

func executeTransaction(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	id, err := unpackID(args)
	if err != nil {
		return nil, err
	}
	ok, err := Execute(env, id)
	if err != nil {
		return nil, err
	}
	return abi.ReturnBool(ok)
}

func addOwner(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	owner := args.UnpackAddress()
	if err := engine.Decoded(args); err != nil {
		return nil, err
	}
	return nil, AddOwner(env, owner)
}

func removeOwner(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	owner := args.UnpackAddress()
	if err := engine.Decoded(args); err != nil {
		return nil, err
	}
	return nil, RemoveOwner(env, owner)
}

func getOwners(env *engine.Env, _ *wrappers.Packer) ([]byte, error) {
	owners, err := appstate.Open(env).Owners()
	if err != nil {
		return nil, err
	}
	return abi.ReturnAddresses(owners)
}

func isOwner(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	addr := args.UnpackAddress()
	if err := engine.Decoded(args); err != nil {
		return nil, err
	}
	ok, err := appstate.Open(env).IsOwner(addr)
	if err != nil {
		return nil, err
	}
	return abi.ReturnBool(ok)
}

func getRequiredConfirmations(env *engine.Env, _ *wrappers.Packer) ([]byte, error) {
	threshold, err := appstate.Open(env).Threshold()
	if err != nil {
		return nil, err
	}
	return abi.ReturnUint256(uint256.NewInt(threshold))
}

func getTransaction(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	id, err := unpackID(args)
	if err != nil {
		return nil, err
	}
	st := appstate.Open(env)
	tx, err := st.Transaction(id)
	if err != nil {
		return nil, err
	}
	threshold, err := st.Threshold()
	if err != nil {
		return nil, err
	}
	view := &TransactionView{
		Target:           tx.Target,
		Value:            tx.Value(),
		Data:             tx.Data,
		Executed:         tx.Executed,
		NumConfirmations: uint64(len(tx.Confirmations)),
		Failed:           tx.Failed,
		Status:           tx.Status(threshold),
	}
	return abi.Return(view.Pack)
}

func getTransactionCount(env *engine.Env, _ *wrappers.Packer) ([]byte, error) {
	n, err := appstate.Open(env).TransactionCount()
	if err != nil {
		return nil, err
	}
	return abi.ReturnUint256(uint256.NewInt(n))
}

func isConfirmed(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	id, err := unpackID(args)
	if err != nil {
		return nil, err
	}
	owner := args.UnpackAddress()
	if err := engine.Decoded(args); err != nil {
		return nil, err
	}
	tx, err := appstate.Open(env).Transaction(id)
	if err != nil {
		return nil, err
	}
	return abi.ReturnBool(tx.IsConfirmedBy(owner))
}

func getConfirmationCount(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	id, err := unpackID(args)
	if err != nil {
		return nil, err
	}
	tx, err := appstate.Open(env).Transaction(id)
	if err != nil {
		return nil, err
	}
	return abi.ReturnUint256(uint256.NewInt(uint64(len(tx.Confirmations))))
}

// unpackID reads a uint256 transaction id. Ids beyond uint64 never exist.
func unpackID(args *wrappers.Packer) (uint64, error) {
	id := args.UnpackUint256()
	if err := engine.Decoded(args); err != nil {
		return 0, err
	}
	if !id.IsUint64() {
		return 0, fmt.Errorf("%w: %s", appstate.ErrTransactionNotFound, id.Dec())
	}
	return id.Uint64(), nil
}
