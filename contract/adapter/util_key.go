package adapter

import (
	"github.com/hoops-finance/hoops/common"
)

// Base owns tags below 0x40, protocol adapters start their own at TagProtocol
var (
	tagConfig   = byte(0x01)
	tagCodeHash = byte(0x02)
	tagPool     = byte(0x10)
	tagLpPool   = byte(0x11)
	TagProtocol = byte(0x40)
)

func makePoolKey(tokenA, tokenB common.Address) []byte {
	return append([]byte{tagPool}, common.PairKey(tokenA, tokenB)...)
}

func makeLpPoolKey(lp common.Address) []byte {
	bs := make([]byte, 1+common.AddressLength)
	bs[0] = tagLpPool
	copy(bs[1:], lp[:])
	return bs
}
