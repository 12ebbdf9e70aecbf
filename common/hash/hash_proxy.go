package hash

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math/big"
	"strings"

	ecommon "github.com/ethereum/go-ethereum/common"
	ecrypto "github.com/ethereum/go-ethereum/crypto"
)

type Hash256 = ecommon.Hash

// Lengths of hashes and addresses in bytes.
const (
	// HashLength is the expected length of the hash
	HashLength = ecommon.HashLength
)

// BigToHash sets byte representation of b to hash.
// If b is larger than len(h), b will be cropped from the left.
func BigToHash(b *big.Int) Hash256 {
	return Hash256(ecommon.BigToHash(b))
}

// HexToHash sets byte representation of s to hash.
// If b is larger than len(h), b will be cropped from the left.
func HexToHash(s string) Hash256 {
	return Hash256(ecommon.HexToHash(s))
}

// Hash calculates and returns the keccak256 hash of the input data.
func Hash(data ...[]byte) Hash256 {
	return Hash256(ecrypto.Keccak256Hash(data...))
}

// Sha256 returns the sha256 digest of the concatenated input data
func Sha256(data ...[]byte) Hash256 {
	h := sha256.New()
	for _, d := range data {
		if _, err := h.Write(d); err != nil {
			panic(err)
		}
	}
	var hash Hash256
	copy(hash[:], h.Sum(nil))
	return hash
}

// Uint64 calculates and returns uint64 from the Hash hash of the input data.
func Uint64(data ...[]byte) uint64 {
	h := Hash(data...)
	return binary.LittleEndian.Uint64(h[len(h)-8:])
}

// Hashes returns the result of Hash(h1+'h'+...)
func Hashes(hs ...Hash256) Hash256 {
	data := make([]byte, (HashLength+1)*len(hs)-1)
	idx := 0
	for i, h := range hs {
		copy(data[idx:], h[:])
		idx += HashLength
		if i < len(hs)-1 {
			data[idx] = 'h'
			idx++
		}
	}
	return Hash(data)
}

// ParseHash parse the hash from the hex string
func ParseHash(str string) (Hash256, error) {
	str = strings.TrimPrefix(str, "0x")
	if len(str) != HashLength*2 {
		return Hash256{}, ErrInvalidHashFormat
	}
	bs, err := hex.DecodeString(str)
	if err != nil {
		return Hash256{}, ErrInvalidHashFormat
	}
	var hash Hash256
	copy(hash[:], bs)
	return hash, nil
}
