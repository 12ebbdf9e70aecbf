// Package adapter is the uniform surface the router trades through. Each
// protocol package embeds Base and implements Adapter on its front.
package adapter

import (
	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/common/hash"
	"github.com/hoops-finance/hoops/core/types"
)

// Adapter is the callable surface every protocol adapter exposes.
//
// Mutating methods take their input from the direct caller, which must have
// transferred the funds beforehand or granted the adapter the token transfer.
// Outputs always go to To.
type Adapter interface {
	Initialize(cc *types.ContractContext, AmmID uint32, AmmAddress common.Address) error
	Upgrade(cc *types.ContractContext, NewCodeHash hash.Hash256) error
	Version(cc *types.ContractContext) uint32

	SwapExactIn(cc *types.ContractContext, AmountIn *amount.Amount, MinOut *amount.Amount, Path []common.Address, To common.Address, Deadline uint64) (*amount.Amount, error)
	SwapExactOut(cc *types.ContractContext, AmountOut *amount.Amount, MaxIn *amount.Amount, Path []common.Address, To common.Address, Deadline uint64) (*amount.Amount, error)

	AddLiquidity(cc *types.ContractContext, TokenA common.Address, TokenB common.Address, AmtA *amount.Amount, AmtB *amount.Amount, AmtAMin *amount.Amount, AmtBMin *amount.Amount, To common.Address, Deadline uint64) (*amount.Amount, *amount.Amount, *amount.Amount, error)
	RemoveLiquidity(cc *types.ContractContext, LpToken common.Address, LpAmount *amount.Amount, AmtAMin *amount.Amount, AmtBMin *amount.Amount, To common.Address, Deadline uint64) (*amount.Amount, *amount.Amount, error)

	QuoteIn(cc *types.ContractContext, Pool common.Address, AmountIn *amount.Amount, TokenIn common.Address, TokenOut common.Address) (*amount.Amount, error)
	QuoteOut(cc *types.ContractContext, Pool common.Address, AmountOut *amount.Amount, TokenIn common.Address, TokenOut common.Address) (*amount.Amount, error)

	SetPoolForTokens(cc *types.ContractContext, Tokens []common.Address, Info *PoolInfo) error
	GetPoolForTokens(cc *types.ContractContext, Tokens []common.Address) *PoolInfo
}
