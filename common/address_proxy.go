package common

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

type Address = common.Address

var ZeroAddr = Address{}

// Lengths of hashes and addresses in bytes.
const (
	// AddressLength is the expected length of the address
	AddressLength = common.AddressLength
)

// BytesToAddress returns Address with value b.
// If b is larger than len(h), b will be cropped from the left.
func BytesToAddress(b []byte) Address {
	return common.BytesToAddress(b)
}

// BigToAddress returns Address with byte values of b.
// If b is larger than len(h), b will be cropped from the left.
func BigToAddress(b *big.Int) Address {
	return common.BigToAddress(b)
}

// HexToAddress returns Address with byte values of s.
// If s is larger than len(h), s will be cropped from the left.
func HexToAddress(s string) Address {
	return common.HexToAddress(s)
}

// IsHexAddress verifies whether a string can represent a valid hex-encoded address or not.
func IsHexAddress(s string) bool {
	return common.IsHexAddress(s)
}

// ParseAddress is parse address
func ParseAddress(s string) (common.Address, error) {
	if strings.Index(s, "0x") == 0 {
		s = s[2:]
	}
	addr := common.Address{}
	if len(s) != AddressLength*2 {
		return addr, errors.WithStack(ErrInvalidAddressFormat)
	}
	h, err := hex.DecodeString(s)
	if err != nil {
		return addr, errors.WithStack(err)
	}
	copy(addr[:], h[:])
	return addr, nil
}

// AddressLess reports whether a sorts before b
func AddressLess(a, b Address) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

// SortTokens returns the pair in canonical order
func SortTokens(tokenA, tokenB Address) (Address, Address, error) {
	if tokenA == tokenB {
		return ZeroAddr, ZeroAddr, errors.WithStack(ErrIdenticalAddresses)
	}
	if AddressLess(tokenA, tokenB) {
		return tokenA, tokenB, nil
	}
	return tokenB, tokenA, nil
}

// PairKey returns the storage key of the canonical pair
func PairKey(tokenA, tokenB Address) []byte {
	t0, t1 := tokenA, tokenB
	if AddressLess(t1, t0) {
		t0, t1 = t1, t0
	}
	bs := make([]byte, 0, AddressLength*2)
	bs = append(bs, t0[:]...)
	bs = append(bs, t1[:]...)
	return bs
}
