package token

import (
	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/core/types"
)

func (cont *TokenContract) Front() interface{} {
	return NewTokenFront(cont)
}

// TokenFront is the callable surface of a token, also embedded by contracts that are their own share token
type TokenFront struct {
	cont *TokenContract
}

func NewTokenFront(cont *TokenContract) *TokenFront {
	return &TokenFront{
		cont: cont,
	}
}

func (f *TokenFront) Transfer(cc *types.ContractContext, From common.Address, To common.Address, Amount *amount.Amount) error {
	return f.cont.Transfer(cc, From, To, Amount)
}

func (f *TokenFront) TransferFrom(cc *types.ContractContext, Spender common.Address, From common.Address, To common.Address, Amount *amount.Amount) error {
	return f.cont.TransferFrom(cc, Spender, From, To, Amount)
}

func (f *TokenFront) Approve(cc *types.ContractContext, From common.Address, Spender common.Address, Amount *amount.Amount, ExpirationLedger uint32) error {
	return f.cont.Approve(cc, From, Spender, Amount, ExpirationLedger)
}

func (f *TokenFront) Mint(cc *types.ContractContext, To common.Address, Amount *amount.Amount) error {
	return f.cont.Mint(cc, To, Amount)
}

func (f *TokenFront) Burn(cc *types.ContractContext, From common.Address, Amount *amount.Amount) error {
	return f.cont.Burn(cc, From, Amount)
}

func (f *TokenFront) SetMinter(cc *types.ContractContext, To common.Address, Is bool) error {
	return f.cont.SetMinter(cc, To, Is)
}

func (f *TokenFront) Name(cc *types.ContractContext) string {
	return f.cont.Name(cc)
}

func (f *TokenFront) Symbol(cc *types.ContractContext) string {
	return f.cont.Symbol(cc)
}

func (f *TokenFront) Decimals(cc *types.ContractContext) uint32 {
	return f.cont.Decimals(cc)
}

func (f *TokenFront) TotalSupply(cc *types.ContractContext) *amount.Amount {
	return f.cont.TotalSupply(cc)
}

func (f *TokenFront) Balance(cc *types.ContractContext, From common.Address) *amount.Amount {
	return f.cont.Balance(cc, From)
}

func (f *TokenFront) Allowance(cc *types.ContractContext, Owner common.Address, Spender common.Address) *amount.Amount {
	return f.cont.Allowance(cc, Owner, Spender)
}

func (f *TokenFront) IsMinter(cc *types.ContractContext, Addr common.Address) bool {
	return f.cont.IsMinter(cc, Addr)
}
