package phoenix

import (
	"github.com/hoops-finance/hoops/common"
)

// factory tags
var (
	tagPools    = byte(0x01)
	tagPoolPair = byte(0x02)
)

// pool tags
var (
	tagFactory  = byte(0x10)
	tagTokenA   = byte(0x11)
	tagTokenB   = byte(0x12)
	tagShare    = byte(0x13)
	tagReserveA = byte(0x14)
	tagReserveB = byte(0x15)
	tagConfig   = byte(0x16)
)

func makePoolPairKey(tokenA, tokenB common.Address) []byte {
	return append([]byte{tagPoolPair}, common.PairKey(tokenA, tokenB)...)
}
