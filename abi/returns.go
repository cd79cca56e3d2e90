// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package abi

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/diamond/utils/wrappers"
)

func ReturnBool(v bool) ([]byte, error) {
	return Return(func(p *wrappers.Packer) {
		p.PackBool(v)
	})
}

func ReturnUint256(v *uint256.Int) ([]byte, error) {
	return Return(func(p *wrappers.Packer) {
		p.PackUint256(v)
	})
}

func ReturnAddress(addr common.Address) ([]byte, error) {
	return Return(func(p *wrappers.Packer) {
		p.PackAddress(addr)
	})
}

func ReturnAddresses(addrs []common.Address) ([]byte, error) {
	return Return(func(p *wrappers.Packer) {
		p.PackAddresses(addrs)
	})
}

func ReturnString(s string) ([]byte, error) {
	return Return(func(p *wrappers.Packer) {
		p.PackStr(s)
	})
}

// DecodeBool and its siblings read single-value return data.
func DecodeBool(b []byte) (bool, error) {
	var v bool
	err := Decode(b, func(p *wrappers.Packer) {
		v = p.UnpackBool()
	})
	return v, err
}

func DecodeUint256(b []byte) (*uint256.Int, error) {
	var v *uint256.Int
	err := Decode(b, func(p *wrappers.Packer) {
		v = p.UnpackUint256()
	})
	return v, err
}

func DecodeAddress(b []byte) (common.Address, error) {
	var v common.Address
	err := Decode(b, func(p *wrappers.Packer) {
		v = p.UnpackAddress()
	})
	return v, err
}

func DecodeAddresses(b []byte) ([]common.Address, error) {
	var v []common.Address
	err := Decode(b, func(p *wrappers.Packer) {
		v = p.UnpackAddresses()
	})
	return v, err
}

func DecodeString(b []byte) (string, error) {
	var v string
	err := Decode(b, func(p *wrappers.Packer) {
		v = p.UnpackStr()
	})
	return v, err
}
