package soroswap

import (
	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/bin"
	"github.com/hoops-finance/hoops/common/hash"
	"github.com/hoops-finance/hoops/core/types"
)

// factory
var (
	tagAllPairs = byte(0x01)
	tagPair     = byte(0x02)
)

// pair, above the tags of the embedded share token
var (
	tagFactory  = byte(0x40)
	tagToken0   = byte(0x41)
	tagToken1   = byte(0x42)
	tagReserve0 = byte(0x43)
	tagReserve1 = byte(0x44)
)

func makePairKey(tokenA, tokenB common.Address) []byte {
	return append([]byte{tagPair}, common.PairKey(tokenA, tokenB)...)
}

// PairFor returns the address the factory deploys the pair of the tokens at
func PairFor(factory, tokenA, tokenB common.Address) (common.Address, error) {
	token0, token1, err := common.SortTokens(tokenA, tokenB)
	if err != nil {
		return common.Address{}, err
	}
	ClassID := types.ContractClassID(&PairContract{})

	base := make([]byte, 1+common.AddressLength*3+8)
	base[0] = 0xff
	copy(base[1:], factory[:])
	copy(base[1+common.AddressLength:], token0[:])
	copy(base[1+common.AddressLength*2:], token1[:])
	copy(base[1+common.AddressLength*3:], bin.Uint64Bytes(ClassID))
	h := hash.Hash(base)
	return common.BytesToAddress(h[12:]), nil
}
