package router

import (
	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/bin"
)

var (
	tagConfig      = byte(0x01)
	tagAdapters    = byte(0x02)
	tagMarketCount = byte(0x10)
	tagMarket      = byte(0x11)
	tagFloat       = byte(0x20)
	tagFloatTotal  = byte(0x21)
)

func makeMarketKey(idx uint32) []byte {
	return append([]byte{tagMarket}, bin.Uint32Bytes(idx)...)
}

func makeFloatKey(owner common.Address) []byte {
	bs := make([]byte, 1+common.AddressLength)
	bs[0] = tagFloat
	copy(bs[1:], owner[:])
	return bs
}
