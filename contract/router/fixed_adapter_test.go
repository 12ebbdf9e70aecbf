package router_test

import (
	"github.com/pkg/errors"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/core/types"
)

// fixedAdapter quotes the amount it was created with, zero fails the quote
type fixedAdapter struct {
	addr   common.Address
	master common.Address
}

func (cont *fixedAdapter) Address() common.Address {
	return cont.addr
}

func (cont *fixedAdapter) Master() common.Address {
	return cont.master
}

func (cont *fixedAdapter) Init(addr common.Address, master common.Address) {
	cont.addr = addr
	cont.master = master
}

func (cont *fixedAdapter) OnCreate(cc *types.ContractContext, Args []byte) error {
	cc.SetContractData([]byte{0x01}, Args)
	return nil
}

func (cont *fixedAdapter) Front() interface{} {
	return &fixedFront{}
}

type fixedFront struct{}

func (f *fixedFront) QuoteIn(cc *types.ContractContext, Pool common.Address, AmountIn *amount.Amount, TokenIn common.Address, TokenOut common.Address) (*amount.Amount, error) {
	am := amount.NewAmountFromBytes(cc.ContractData([]byte{0x01}))
	if am.IsZero() {
		return nil, errors.New("no liquidity")
	}
	return am, nil
}
