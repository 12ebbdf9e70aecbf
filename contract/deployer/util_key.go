package deployer

import (
	"github.com/hoops-finance/hoops/common"
)

var (
	tagAccountClassID = byte(0x01)
	tagRouter         = byte(0x02)
	tagAccounts       = byte(0x10)
)

func makeAccountsKey(owner common.Address) []byte {
	bs := make([]byte, 1+common.AddressLength)
	bs[0] = tagAccounts
	copy(bs[1:], owner[:])
	return bs
}
