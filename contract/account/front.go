package account

import (
	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/contract/router"
	"github.com/hoops-finance/hoops/core/types"
)

func (cont *AccountContract) Front() interface{} {
	return &front{
		cont: cont,
	}
}

type front struct {
	cont *AccountContract
}

func (f *front) Initialize(cc *types.ContractContext, Owner common.Address, Router common.Address) error {
	return f.cont.initialize(cc, Owner, Router)
}

// InitializeWithPasskey stores a 65 byte uncompressed P-256 key, every owner action is then signed by it
func (f *front) InitializeWithPasskey(cc *types.ContractContext, Owner common.Address, Router common.Address, PasskeyPubkey []byte) error {
	return f.cont.initializeWithPasskey(cc, Owner, Router, PasskeyPubkey)
}

func (f *front) SetPasskeyPubkey(cc *types.ContractContext, Pubkey []byte) error {
	return f.cont.setPasskeyPubkey(cc, Pubkey)
}

func (f *front) GetPasskeyPubkey(cc *types.ContractContext) []byte {
	pk := f.cont.passkey(cc)
	if len(pk) == 0 {
		return nil
	}
	return append([]byte{}, pk...)
}

func (f *front) Upgrade(cc *types.ContractContext, ClassID uint64) error {
	return f.cont.upgrade(cc, ClassID)
}

func (f *front) Transfer(cc *types.ContractContext, Token common.Address, To common.Address, Amount *amount.Amount) error {
	return f.cont.transfer(cc, Token, To, Amount)
}

func (f *front) Deposit(cc *types.ContractContext, Usdc common.Address, Amount *amount.Amount, LpPlans []*router.LpPlan, Deadline uint64) error {
	return f.cont.deposit(cc, Usdc, Amount, LpPlans, Deadline)
}

func (f *front) Redeem(cc *types.ContractContext, LpToken common.Address, LpAmount *amount.Amount, Usdc common.Address, Deadline uint64) error {
	return f.cont.redeem(cc, LpToken, LpAmount, Usdc, Deadline)
}

func (f *front) Swap(cc *types.ContractContext, TokenIn common.Address, TokenOut common.Address, Amount *amount.Amount, BestHop common.Address, Deadline uint64, MinOut *amount.Amount) (*amount.Amount, error) {
	return f.cont.swap(cc, TokenIn, TokenOut, Amount, BestHop, Deadline, MinOut)
}

func (f *front) Owner(cc *types.ContractContext) (common.Address, error) {
	return f.cont.owner(cc)
}

func (f *front) Router(cc *types.ContractContext) (common.Address, error) {
	return f.cont.router(cc)
}
