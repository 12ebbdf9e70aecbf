package comet

import (
	"github.com/hoops-finance/hoops/common"
)

// factory tags
var (
	tagAllPools = byte(0x01)
	tagPoolsFor = byte(0x02)
	tagIsPool   = byte(0x03)
)

// pool tags, the embedded token uses the ones below 0x40
var (
	tagFactory    = byte(0x40)
	tagController = byte(0x41)
	tagTokens     = byte(0x42)
	tagWeight     = byte(0x43)
	tagBalance    = byte(0x44)
	tagSwapFee    = byte(0x45)
	tagFinalized  = byte(0x46)
)

func makePoolsForKey(tokenA, tokenB common.Address) []byte {
	return append([]byte{tagPoolsFor}, common.PairKey(tokenA, tokenB)...)
}

func makeIsPoolKey(pool common.Address) []byte {
	return append([]byte{tagIsPool}, pool[:]...)
}

func makeWeightKey(token common.Address) []byte {
	return append([]byte{tagWeight}, token[:]...)
}

func makeBalanceKey(token common.Address) []byte {
	return append([]byte{tagBalance}, token[:]...)
}
