package adapter

import (
	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/hash"
	"github.com/hoops-finance/hoops/core/types"
)

// Front is the lifecycle and pool registry part of an adapter front,
// protocol fronts embed it next to their trading methods.
type Front struct {
	base *Base
}

func NewFront(b *Base) Front {
	return Front{base: b}
}

func (f *Front) Initialize(cc *types.ContractContext, AmmID uint32, AmmAddress common.Address) error {
	return f.base.Initialize(cc, AmmID, AmmAddress)
}

func (f *Front) Upgrade(cc *types.ContractContext, NewCodeHash hash.Hash256) error {
	return f.base.Upgrade(cc, NewCodeHash)
}

func (f *Front) Version(cc *types.ContractContext) uint32 {
	return f.base.Version(cc)
}

func (f *Front) Config(cc *types.ContractContext) (*CoreConfig, error) {
	return f.base.Config(cc)
}

func (f *Front) SetPoolForTokens(cc *types.ContractContext, Tokens []common.Address, Info *PoolInfo) error {
	return f.base.SetPoolForTokens(cc, Tokens, Info)
}

func (f *Front) GetPoolForTokens(cc *types.ContractContext, Tokens []common.Address) *PoolInfo {
	return f.base.GetPoolForTokens(cc, Tokens)
}
