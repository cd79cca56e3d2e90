// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wrappers

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

const (
	MaxStringLen = math.MaxUint16

	// MaxListLen bounds the element count of packed address lists.
	MaxListLen = 1 << 12
)

var (
	ErrInsufficientLength = errors.New("packer has insufficient length for input")
	errNegativeOffset     = errors.New("negative offset")
	errInvalidInput       = errors.New("input does not match expected format")
	errBadBool            = errors.New("unexpected value when unpacking bool")
	errOversized          = errors.New("size is larger than limit")
)

// Packer packs and unpacks a byte array from/to standard values.
//
// The first error encountered is sticky: every later Pack/Unpack becomes a
// no-op returning the zero value, so callers check Err once at the end.
type Packer struct {
	Errs

	// The largest allowed size of expanding the byte array
	MaxSize int
	// The current byte array
	Bytes []byte
	// The offset that is being written to in the byte array
	Offset int
}

// NewWriter returns a packer that grows up to maxSize bytes.
func NewWriter(maxSize int) *Packer {
	return &Packer{
		MaxSize: maxSize,
		Bytes:   make([]byte, 0, 128),
	}
}

// NewReader returns a packer positioned at the start of b.
func NewReader(b []byte) *Packer {
	return &Packer{
		MaxSize: len(b),
		Bytes:   b,
	}
}

// Remaining returns the number of unread bytes.
func (p *Packer) Remaining() int {
	return len(p.Bytes) - p.Offset
}

func (p *Packer) PackByte(val byte) {
	p.expand(ByteLen)
	if p.Errored() {
		return
	}

	p.Bytes[p.Offset] = val
	p.Offset++
}

func (p *Packer) UnpackByte() byte {
	p.checkSpace(ByteLen)
	if p.Errored() {
		return 0
	}

	val := p.Bytes[p.Offset]
	p.Offset += ByteLen
	return val
}

func (p *Packer) PackShort(val uint16) {
	p.expand(ShortLen)
	if p.Errored() {
		return
	}

	binary.BigEndian.PutUint16(p.Bytes[p.Offset:], val)
	p.Offset += ShortLen
}

func (p *Packer) UnpackShort() uint16 {
	p.checkSpace(ShortLen)
	if p.Errored() {
		return 0
	}

	val := binary.BigEndian.Uint16(p.Bytes[p.Offset:])
	p.Offset += ShortLen
	return val
}

func (p *Packer) PackInt(val uint32) {
	p.expand(IntLen)
	if p.Errored() {
		return
	}

	binary.BigEndian.PutUint32(p.Bytes[p.Offset:], val)
	p.Offset += IntLen
}

func (p *Packer) UnpackInt() uint32 {
	p.checkSpace(IntLen)
	if p.Errored() {
		return 0
	}

	val := binary.BigEndian.Uint32(p.Bytes[p.Offset:])
	p.Offset += IntLen
	return val
}

func (p *Packer) PackLong(val uint64) {
	p.expand(LongLen)
	if p.Errored() {
		return
	}

	binary.BigEndian.PutUint64(p.Bytes[p.Offset:], val)
	p.Offset += LongLen
}

func (p *Packer) UnpackLong() uint64 {
	p.checkSpace(LongLen)
	if p.Errored() {
		return 0
	}

	val := binary.BigEndian.Uint64(p.Bytes[p.Offset:])
	p.Offset += LongLen
	return val
}

func (p *Packer) PackBool(b bool) {
	if b {
		p.PackByte(1)
	} else {
		p.PackByte(0)
	}
}

func (p *Packer) UnpackBool() bool {
	b := p.UnpackByte()
	switch b {
	case 0:
		return false
	case 1:
		return true
	default:
		p.Add(errBadBool)
		return false
	}
}

// PackFixedBytes appends a byte slice with no length descriptor to the byte array
func (p *Packer) PackFixedBytes(bytes []byte) {
	p.expand(len(bytes))
	if p.Errored() {
		return
	}

	copy(p.Bytes[p.Offset:], bytes)
	p.Offset += len(bytes)
}

// UnpackFixedBytes unpacks a byte slice with no length descriptor from the byte array
func (p *Packer) UnpackFixedBytes(size int) []byte {
	p.checkSpace(size)
	if p.Errored() {
		return nil
	}

	bytes := p.Bytes[p.Offset : p.Offset+size]
	p.Offset += size
	return bytes
}

// PackBytes appends a length-prefixed byte slice.
func (p *Packer) PackBytes(bytes []byte) {
	p.PackInt(uint32(len(bytes)))
	p.PackFixedBytes(bytes)
}

// UnpackLimitedBytes unpacks a byte slice. If the size of the slice is greater
// than limit, adds errOversized to the packer and returns nil.
func (p *Packer) UnpackLimitedBytes(limit uint32) []byte {
	size := p.UnpackInt()
	if size > limit {
		p.Add(errOversized)
		return nil
	}
	b := p.UnpackFixedBytes(int(size))
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

func (p *Packer) PackStr(str string) {
	strSize := len(str)
	if strSize > MaxStringLen {
		p.Add(errInvalidInput)
		return
	}
	p.PackShort(uint16(strSize))
	p.PackFixedBytes([]byte(str))
}

func (p *Packer) UnpackStr() string {
	strSize := p.UnpackShort()
	return string(p.UnpackFixedBytes(int(strSize)))
}

func (p *Packer) PackAddress(addr common.Address) {
	p.PackFixedBytes(addr[:])
}

func (p *Packer) UnpackAddress() common.Address {
	return common.BytesToAddress(p.UnpackFixedBytes(AddressLen))
}

// PackAddresses appends a count-prefixed address list.
func (p *Packer) PackAddresses(addrs []common.Address) {
	if len(addrs) > MaxListLen {
		p.Add(errOversized)
		return
	}
	p.PackShort(uint16(len(addrs)))
	for _, addr := range addrs {
		p.PackAddress(addr)
	}
}

func (p *Packer) UnpackAddresses() []common.Address {
	n := p.UnpackShort()
	if int(n) > MaxListLen {
		p.Add(errOversized)
		return nil
	}
	if p.Errored() {
		return nil
	}
	addrs := make([]common.Address, 0, n)
	for i := uint16(0); i < n && !p.Errored(); i++ {
		addrs = append(addrs, p.UnpackAddress())
	}
	return addrs
}

// PackUint256 appends val as a 32 byte big endian word. A nil val packs zero.
func (p *Packer) PackUint256(val *uint256.Int) {
	if val == nil {
		val = new(uint256.Int)
	}
	word := val.Bytes32()
	p.PackFixedBytes(word[:])
}

func (p *Packer) UnpackUint256() *uint256.Int {
	word := p.UnpackFixedBytes(WordLen)
	if p.Errored() {
		return new(uint256.Int)
	}
	return new(uint256.Int).SetBytes32(word)
}

// checkSpace requires that there is at least bytes of write space left in the
// byte array. If this is not true, an error is added to the packer.
func (p *Packer) checkSpace(bytes int) {
	switch {
	case p.Offset < 0:
		p.Add(errNegativeOffset)
	case bytes < 0:
		p.Add(errInvalidInput)
	case len(p.Bytes)-p.Offset < bytes:
		p.Add(ErrInsufficientLength)
	}
}

// expand ensures that there is bytes bytes left of space in the byte slice.
// If this is not allowed due to the maximum size, an error is added to the packer.
func (p *Packer) expand(bytes int) {
	if p.Errored() {
		return
	}
	neededSize := bytes + p.Offset
	switch {
	case neededSize <= len(p.Bytes):
		return
	case neededSize > p.MaxSize:
		p.Err = ErrInsufficientLength
		return
	case neededSize <= cap(p.Bytes):
		p.Bytes = p.Bytes[:neededSize]
		return
	default:
		p.Bytes = append(p.Bytes[:cap(p.Bytes)], make([]byte, neededSize-cap(p.Bytes))...)
	}
}
