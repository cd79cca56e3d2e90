// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package units

import "github.com/holiman/uint256"

// Denominations of an 18 decimal amount, native value or token.
const (
	Wei        uint64 = 1
	Gwei       uint64 = 1000 * 1000 * 1000 * Wei
	Microether uint64 = 1000 * Gwei
	Milliether uint64 = 1000 * Microether
	Ether      uint64 = 1000 * Milliether
)

// Amount returns n units of denomination as a 256-bit value. n*unit may
// exceed 64 bits.
func Amount(n, unit uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), uint256.NewInt(unit))
}

func Ethers(n uint64) *uint256.Int {
	return Amount(n, Ether)
}
