package aqua

import (
	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/bin"
)

// router tags
var (
	tagAllPools  = byte(0x01)
	tagPoolsFor  = byte(0x02)
	tagIsPool    = byte(0x03)
	tagPoolIndex = byte(0x04)
)

// pool tags
var (
	tagRouter  = byte(0x10)
	tagTokens  = byte(0x11)
	tagKind    = byte(0x12)
	tagFee     = byte(0x13)
	tagAmp     = byte(0x14)
	tagShare   = byte(0x15)
	tagReserve = byte(0x16)
)

func makePoolsForKey(tokenA, tokenB common.Address) []byte {
	return append([]byte{tagPoolsFor}, common.PairKey(tokenA, tokenB)...)
}

func makeIsPoolKey(pool common.Address) []byte {
	return append([]byte{tagIsPool}, pool[:]...)
}

// makePoolIndexKey identifies a pool by its pair, kind and fee
func makePoolIndexKey(tokenA, tokenB common.Address, kind PoolKind, feeBps uint32) []byte {
	bs := append([]byte{tagPoolIndex}, common.PairKey(tokenA, tokenB)...)
	bs = append(bs, byte(kind))
	return append(bs, bin.Uint32Bytes(feeBps)...)
}

func makeReserveKey(idx int) []byte {
	return []byte{tagReserve, byte(idx)}
}
